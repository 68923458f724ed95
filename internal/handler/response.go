package handler

import (
	"time"

	"taskflow/internal/model"
	"taskflow/internal/service"
)

type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type ProjectResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	OwnerID     string `json:"owner_id"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type ProjectStatsResponse struct {
	Project  ProjectResponse  `json:"project"`
	ByStatus map[string]int64 `json:"by_status"`
	Total    int64            `json:"total"`
	Overdue  int64            `json:"overdue"`
}

type TaskResponse struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Status         string  `json:"status"`
	Priority       string  `json:"priority"`
	ProjectID      string  `json:"project_id"`
	AssigneeID     *string `json:"assignee_id,omitempty"`
	DueDate        *string `json:"due_date,omitempty"`
	EstimatedHours *int    `json:"estimated_hours,omitempty"`
	ActualHours    *int    `json:"actual_hours,omitempty"`
	Overdue        bool    `json:"overdue"`
	InProgress     bool    `json:"in_progress"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

type CommentResponse struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	TaskID    string `json:"task_id"`
	AuthorID  string `json:"author_id"`
	IsEdited  bool   `json:"is_edited"`
	Recent    bool   `json:"recent"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func newUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

func newProjectResponse(p *model.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		OwnerID:     p.OwnerID.String(),
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}

func newProjectStatsResponse(s *service.ProjectStats) ProjectStatsResponse {
	byStatus := make(map[string]int64, len(s.ByStatus))
	for status, n := range s.ByStatus {
		byStatus[string(status)] = n
	}
	return ProjectStatsResponse{
		Project:  newProjectResponse(s.Project),
		ByStatus: byStatus,
		Total:    s.Total,
		Overdue:  s.Overdue,
	}
}

func newTaskResponse(t *model.Task, now time.Time) TaskResponse {
	resp := TaskResponse{
		ID:             t.ID.String(),
		Title:          t.Title,
		Description:    t.Description,
		Status:         string(t.Status),
		Priority:       string(t.Priority),
		ProjectID:      t.ProjectID.String(),
		EstimatedHours: t.EstimatedHours,
		ActualHours:    t.ActualHours,
		Overdue:        t.IsOverdue(now),
		InProgress:     t.IsInProgress(),
		CreatedAt:      t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      t.UpdatedAt.Format(time.RFC3339),
	}
	if t.AssigneeID != nil {
		s := t.AssigneeID.String()
		resp.AssigneeID = &s
	}
	if t.DueDate != nil {
		s := t.DueDate.Format(time.RFC3339)
		resp.DueDate = &s
	}
	return resp
}

func newTaskResponses(tasks []model.Task) []TaskResponse {
	now := time.Now()
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, newTaskResponse(&tasks[i], now))
	}
	return out
}

func newCommentResponse(c *model.Comment, now time.Time) CommentResponse {
	return CommentResponse{
		ID:        c.ID.String(),
		Content:   c.Content,
		TaskID:    c.TaskID.String(),
		AuthorID:  c.AuthorID.String(),
		IsEdited:  c.IsEdited,
		Recent:    c.IsRecent(now),
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}
