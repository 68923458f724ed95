package service

import (
	"context"
	"strings"
	"time"

	"taskflow/internal/access"
	"taskflow/internal/apperr"
	"taskflow/internal/model"
	"taskflow/internal/repository"
	"taskflow/internal/validate"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CreateTaskInput struct {
	Title          string         `json:"title" validate:"notblank,min=2,max=200"`
	Description    string         `json:"description" validate:"max=1000"`
	Priority       model.Priority `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	AssigneeID     *uuid.UUID     `json:"assignee_id"`
	DueDate        *time.Time     `json:"due_date"`
	EstimatedHours *int           `json:"estimated_hours" validate:"omitempty,gte=0"`
}

// UpdateTaskInput is a patch: nil fields are left untouched.
type UpdateTaskInput struct {
	Title          *string           `json:"title" validate:"omitempty,notblank,min=2,max=200"`
	Description    *string           `json:"description" validate:"omitempty,max=1000"`
	Priority       *model.Priority   `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Status         *model.TaskStatus `json:"status"`
	DueDate        *time.Time        `json:"due_date"`
	EstimatedHours *int              `json:"estimated_hours" validate:"omitempty,gte=0"`
	ActualHours    *int              `json:"actual_hours" validate:"omitempty,gte=0"`
}

type TaskService interface {
	Create(ctx context.Context, actorID, projectID uuid.UUID, in CreateTaskInput) (*model.Task, error)
	Get(ctx context.Context, actorID, taskID uuid.UUID) (*model.Task, error)
	ListByProject(ctx context.Context, actorID, projectID uuid.UUID, status model.TaskStatus) ([]model.Task, error)
	ListOverdue(ctx context.Context, actorID, projectID uuid.UUID) ([]model.Task, error)
	ListInProgress(ctx context.Context, actorID, projectID uuid.UUID) ([]model.Task, error)
	ListAssigned(ctx context.Context, actorID, userID uuid.UUID) ([]model.Task, error)
	Update(ctx context.Context, actorID, taskID uuid.UUID, in UpdateTaskInput) (*model.Task, error)
	UpdateStatus(ctx context.Context, actorID, taskID uuid.UUID, status model.TaskStatus) (*model.Task, error)
	Assign(ctx context.Context, actorID, taskID, userID uuid.UUID) (*model.Task, error)
	Unassign(ctx context.Context, actorID, taskID uuid.UUID) (*model.Task, error)
	Delete(ctx context.Context, actorID, taskID uuid.UUID) error
}

type taskService struct {
	base
}

func NewTaskService(store repository.Store, log *zap.Logger, opts ...Option) TaskService {
	return &taskService{base: newBase(store, log, opts)}
}

func requireActiveProject(p *model.Project) error {
	if !p.IsActive {
		return apperr.InvalidState("project %s is not active", p.Name)
	}
	return nil
}

func (s *taskService) requireFutureDue(due *time.Time) error {
	if due != nil && due.Before(s.now()) {
		return apperr.ValidationField("due_date", "must not be in the past")
	}
	return nil
}

// loadAssignee resolves a prospective assignee, who must exist and be active.
func loadAssignee(ctx context.Context, tx repository.Store, userID uuid.UUID) (*model.User, error) {
	u, err := loadUser(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if err := requireActiveUser(u, "assignee"); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *taskService) Create(ctx context.Context, actorID, projectID uuid.UUID, in CreateTaskInput) (*model.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	s.log.Info("creating task", zap.String("title", in.Title), zap.Stringer("project_id", projectID))

	var task *model.Task
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		actor, err := loadActor(ctx, tx, actorID)
		if err != nil {
			return err
		}
		project, err := loadProject(ctx, tx, projectID)
		if err != nil {
			return err
		}
		if err := access.RequireOwnership(actor, access.ForProject(project)); err != nil {
			return err
		}
		if err := validate.Struct(in); err != nil {
			return err
		}
		if err := requireActiveProject(project); err != nil {
			return err
		}
		if err := s.requireFutureDue(in.DueDate); err != nil {
			return err
		}
		if in.AssigneeID != nil {
			if _, err := loadAssignee(ctx, tx, *in.AssigneeID); err != nil {
				return err
			}
		}

		priority := in.Priority
		if priority == "" {
			priority = model.PriorityMedium
		}
		task = &model.Task{
			Title:          in.Title,
			Description:    in.Description,
			Status:         model.StatusTodo,
			Priority:       priority,
			ProjectID:      project.ID,
			AssigneeID:     in.AssigneeID,
			DueDate:        in.DueDate,
			EstimatedHours: in.EstimatedHours,
		}
		return tx.Tasks().Create(ctx, task)
	})
	if err != nil {
		return nil, s.reject("task creation rejected", err, zap.String("title", in.Title), zap.Stringer("project_id", projectID))
	}

	s.log.Info("task created", zap.String("title", task.Title), zap.Stringer("task_id", task.ID))
	return task, nil
}

func (s *taskService) Get(ctx context.Context, actorID, taskID uuid.UUID) (*model.Task, error) {
	s.log.Debug("finding task", zap.Stringer("task_id", taskID))
	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}
	task, err := loadTask(ctx, s.store, taskID)
	if err != nil {
		return nil, err
	}
	res, _, err := taskChain(ctx, s.store, task)
	if err != nil {
		return nil, err
	}
	if err := access.Require(actor, res, access.OpRead); err != nil {
		return nil, s.reject("task access denied", err, zap.Stringer("task_id", taskID), zap.Stringer("actor_id", actorID))
	}
	return task, nil
}

// listInProject checks read access to the project before running filter.
func (s *taskService) listInProject(ctx context.Context, actorID, projectID uuid.UUID, filter repository.TaskFilter) ([]model.Task, error) {
	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}
	project, err := loadProject(ctx, s.store, projectID)
	if err != nil {
		return nil, err
	}
	if err := access.Require(actor, access.ForProject(project), access.OpRead); err != nil {
		return nil, s.reject("task listing denied", err, zap.Stringer("project_id", projectID), zap.Stringer("actor_id", actorID))
	}
	filter.ProjectID = &project.ID
	return s.store.Tasks().List(ctx, filter)
}

func (s *taskService) ListByProject(ctx context.Context, actorID, projectID uuid.UUID, status model.TaskStatus) ([]model.Task, error) {
	var filter repository.TaskFilter
	if status != "" {
		if !status.Valid() {
			return nil, apperr.ValidationField("status", "unknown status")
		}
		filter.Statuses = []model.TaskStatus{status}
	}
	return s.listInProject(ctx, actorID, projectID, filter)
}

// ListOverdue follows Task.IsOverdue: cancelled tasks past due are included.
func (s *taskService) ListOverdue(ctx context.Context, actorID, projectID uuid.UUID) ([]model.Task, error) {
	now := s.now()
	return s.listInProject(ctx, actorID, projectID, repository.TaskFilter{
		DueBefore:     &now,
		ExcludeStatus: model.StatusDone,
	})
}

func (s *taskService) ListInProgress(ctx context.Context, actorID, projectID uuid.UUID) ([]model.Task, error) {
	return s.listInProject(ctx, actorID, projectID, repository.TaskFilter{
		Statuses: []model.TaskStatus{model.StatusInProgress, model.StatusInReview, model.StatusTesting},
	})
}

func (s *taskService) ListAssigned(ctx context.Context, actorID, userID uuid.UUID) ([]model.Task, error) {
	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}
	if _, err := loadUser(ctx, s.store, userID); err != nil {
		return nil, err
	}
	if err := access.RequireSelfOrAdmin(actor, userID); err != nil {
		return nil, s.reject("assigned task listing denied", err, zap.Stringer("user_id", userID))
	}
	return s.store.Tasks().List(ctx, repository.TaskFilter{AssigneeID: &userID})
}

// mutate runs fn on a task the actor owns through its project, inside one
// transaction. Writes into an inactive project are refused.
func (s *taskService) mutate(ctx context.Context, actorID, taskID uuid.UUID, fn func(tx repository.Store, t *model.Task) error) (*model.Task, error) {
	var task *model.Task
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		actor, err := loadActor(ctx, tx, actorID)
		if err != nil {
			return err
		}
		task, err = loadTask(ctx, tx, taskID)
		if err != nil {
			return err
		}
		res, project, err := taskChain(ctx, tx, task)
		if err != nil {
			return err
		}
		if err := access.RequireOwnership(actor, res); err != nil {
			return err
		}
		if err := requireActiveProject(project); err != nil {
			return err
		}
		return fn(tx, task)
	})
	return task, err
}

// transition applies next to t through the state machine. Staying in the
// current status is a no-op, not a transition.
func transition(t *model.Task, next model.TaskStatus) (changed bool, err error) {
	if !next.Valid() {
		return false, apperr.ValidationField("status", "unknown status")
	}
	if next == t.Status {
		return false, nil
	}
	if !t.Status.CanTransitionTo(next) {
		return false, apperr.InvalidTransition(string(t.Status), string(next))
	}
	t.Status = next
	return true, nil
}

func (s *taskService) Update(ctx context.Context, actorID, taskID uuid.UUID, in UpdateTaskInput) (*model.Task, error) {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		in.Title = &title
	}

	task, err := s.mutate(ctx, actorID, taskID, func(tx repository.Store, t *model.Task) error {
		if err := validate.Struct(in); err != nil {
			return err
		}
		if err := s.requireFutureDue(in.DueDate); err != nil {
			return err
		}
		if in.Status != nil {
			if _, err := transition(t, *in.Status); err != nil {
				return err
			}
		}

		if in.Title != nil {
			t.Title = *in.Title
		}
		if in.Description != nil {
			t.Description = *in.Description
		}
		if in.Priority != nil {
			t.Priority = *in.Priority
		}
		if in.DueDate != nil {
			t.DueDate = in.DueDate
		}
		if in.EstimatedHours != nil {
			t.EstimatedHours = in.EstimatedHours
		}
		if in.ActualHours != nil {
			t.ActualHours = in.ActualHours
		}
		return tx.Tasks().Update(ctx, t)
	})
	if err != nil {
		return nil, s.reject("task update rejected", err, zap.Stringer("task_id", taskID))
	}

	s.log.Info("task updated", zap.Stringer("task_id", task.ID), zap.String("status", string(task.Status)))
	return task, nil
}

func (s *taskService) UpdateStatus(ctx context.Context, actorID, taskID uuid.UUID, status model.TaskStatus) (*model.Task, error) {
	var from model.TaskStatus
	task, err := s.mutate(ctx, actorID, taskID, func(tx repository.Store, t *model.Task) error {
		from = t.Status
		changed, err := transition(t, status)
		if err != nil || !changed {
			return err
		}
		return tx.Tasks().Update(ctx, t)
	})
	if err != nil {
		return nil, s.reject("status update rejected", err, zap.Stringer("task_id", taskID), zap.String("to", string(status)))
	}

	s.log.Info("task status updated",
		zap.Stringer("task_id", task.ID),
		zap.String("from", string(from)),
		zap.String("to", string(task.Status)),
	)
	return task, nil
}

func (s *taskService) Assign(ctx context.Context, actorID, taskID, userID uuid.UUID) (*model.Task, error) {
	task, err := s.mutate(ctx, actorID, taskID, func(tx repository.Store, t *model.Task) error {
		assignee, err := loadAssignee(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := tx.Tasks().AssignUser(ctx, t.ID, assignee.ID); err != nil {
			return err
		}
		t.AssigneeID = &assignee.ID
		return nil
	})
	if err != nil {
		return nil, s.reject("task assignment rejected", err, zap.Stringer("task_id", taskID), zap.Stringer("user_id", userID))
	}

	s.log.Info("task assigned", zap.Stringer("task_id", task.ID), zap.Stringer("user_id", userID))
	return task, nil
}

// Unassign clears the assignee reference; the user is left untouched.
func (s *taskService) Unassign(ctx context.Context, actorID, taskID uuid.UUID) (*model.Task, error) {
	task, err := s.mutate(ctx, actorID, taskID, func(tx repository.Store, t *model.Task) error {
		if t.AssigneeID == nil {
			return nil
		}
		if err := tx.Tasks().UnassignUser(ctx, t.ID); err != nil {
			return err
		}
		t.AssigneeID = nil
		return nil
	})
	if err != nil {
		return nil, s.reject("task unassignment rejected", err, zap.Stringer("task_id", taskID))
	}

	s.log.Info("task unassigned", zap.Stringer("task_id", task.ID))
	return task, nil
}

// Delete removes the task and its comments as one unit.
func (s *taskService) Delete(ctx context.Context, actorID, taskID uuid.UUID) error {
	var comments int64
	task, err := s.mutate(ctx, actorID, taskID, func(tx repository.Store, t *model.Task) error {
		var err error
		if comments, err = tx.Comments().DeleteByTaskIDs(ctx, []uuid.UUID{t.ID}); err != nil {
			return err
		}
		return tx.Tasks().Delete(ctx, t.ID)
	})
	if err != nil {
		return s.reject("task deletion rejected", err, zap.Stringer("task_id", taskID))
	}

	s.log.Info("task deleted", zap.Stringer("task_id", task.ID), zap.Int64("comments", comments))
	return nil
}
