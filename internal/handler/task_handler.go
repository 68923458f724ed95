package handler

import (
	"net/http"
	"time"

	"taskflow/internal/model"
	"taskflow/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskHandler struct {
	tasks service.TaskService
}

func NewTaskHandler(tasks service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

type TaskStatusRequest struct {
	Status model.TaskStatus `json:"status" binding:"required"`
}

type TaskAssignRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

func (h *TaskHandler) respond(c *gin.Context, status int, task *model.Task, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(status, newTaskResponse(task, time.Now()))
}

func (h *TaskHandler) respondList(c *gin.Context, tasks []model.Task, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTaskResponses(tasks))
}

// Create godoc
//
//	@Summary	Create a task in a project
//	@Tags		Tasks
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string					true	"Project ID"
//	@Param		payload	body		service.CreateTaskInput	true	"Task"
//	@Success	201		{object}	handler.TaskResponse
//	@Failure	400		{object}	handler.ErrorResponse
//	@Failure	422		{object}	handler.ErrorResponse
//	@Router		/projects/{id}/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	actorID, projectID, ok := actorAndID(c)
	if !ok {
		return
	}
	var req service.CreateTaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), actorID, projectID, req)
	h.respond(c, http.StatusCreated, task, err)
}

// ListByProject godoc
//
//	@Summary	List a project's tasks
//	@Tags		Tasks
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id			path	string	true	"Project ID"
//	@Param		status		query	string	false	"Filter by status"
//	@Param		in_progress	query	bool	false	"Only IN_PROGRESS, IN_REVIEW and TESTING"
//	@Success	200			{array}	handler.TaskResponse
//	@Router		/projects/{id}/tasks [get]
func (h *TaskHandler) ListByProject(c *gin.Context) {
	actorID, projectID, ok := actorAndID(c)
	if !ok {
		return
	}
	if c.Query("in_progress") == "true" {
		tasks, err := h.tasks.ListInProgress(c.Request.Context(), actorID, projectID)
		h.respondList(c, tasks, err)
		return
	}
	tasks, err := h.tasks.ListByProject(c.Request.Context(), actorID, projectID, model.TaskStatus(c.Query("status")))
	h.respondList(c, tasks, err)
}

// ListOverdue godoc
//
//	@Summary	List a project's overdue tasks
//	@Tags		Tasks
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Project ID"
//	@Success	200	{array}	handler.TaskResponse
//	@Router		/projects/{id}/tasks/overdue [get]
func (h *TaskHandler) ListOverdue(c *gin.Context) {
	actorID, projectID, ok := actorAndID(c)
	if !ok {
		return
	}
	tasks, err := h.tasks.ListOverdue(c.Request.Context(), actorID, projectID)
	h.respondList(c, tasks, err)
}

// ListAssigned godoc
//
//	@Summary	List tasks assigned to a user
//	@Tags		Tasks
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path	string	true	"User ID"
//	@Success	200	{array}	handler.TaskResponse
//	@Router		/users/{id}/tasks [get]
func (h *TaskHandler) ListAssigned(c *gin.Context) {
	actorID, userID, ok := actorAndID(c)
	if !ok {
		return
	}
	tasks, err := h.tasks.ListAssigned(c.Request.Context(), actorID, userID)
	h.respondList(c, tasks, err)
}

// GetByID godoc
//
//	@Summary	Get a task
//	@Tags		Tasks
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Task ID"
//	@Success	200	{object}	handler.TaskResponse
//	@Router		/tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	actorID, taskID, ok := actorAndID(c)
	if !ok {
		return
	}
	task, err := h.tasks.Get(c.Request.Context(), actorID, taskID)
	h.respond(c, http.StatusOK, task, err)
}

// Update godoc
//
//	@Summary		Patch a task
//	@Description	Only the fields present are changed. A status goes through the workflow rules.
//	@Tags			Tasks
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string					true	"Task ID"
//	@Param			payload	body		service.UpdateTaskInput	true	"Patch"
//	@Success		200		{object}	handler.TaskResponse
//	@Router			/tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	actorID, taskID, ok := actorAndID(c)
	if !ok {
		return
	}
	var req service.UpdateTaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), actorID, taskID, req)
	h.respond(c, http.StatusOK, task, err)
}

// UpdateStatus godoc
//
//	@Summary	Move a task to another status
//	@Tags		Tasks
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string						true	"Task ID"
//	@Param		payload	body		handler.TaskStatusRequest	true	"Status"
//	@Success	200		{object}	handler.TaskResponse
//	@Failure	422		{object}	handler.ErrorResponse
//	@Router		/tasks/{id}/status [put]
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	actorID, taskID, ok := actorAndID(c)
	if !ok {
		return
	}
	var req TaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	task, err := h.tasks.UpdateStatus(c.Request.Context(), actorID, taskID, req.Status)
	h.respond(c, http.StatusOK, task, err)
}

// Assign godoc
//
//	@Summary	Assign a user to a task
//	@Tags		Tasks
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string						true	"Task ID"
//	@Param		payload	body		handler.TaskAssignRequest	true	"Assignee"
//	@Success	200		{object}	handler.TaskResponse
//	@Router		/tasks/{id}/assign [post]
func (h *TaskHandler) Assign(c *gin.Context) {
	actorID, taskID, ok := actorAndID(c)
	if !ok {
		return
	}
	var req TaskAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	userID, _ := uuid.Parse(req.UserID)

	task, err := h.tasks.Assign(c.Request.Context(), actorID, taskID, userID)
	h.respond(c, http.StatusOK, task, err)
}

// Unassign godoc
//
//	@Summary	Remove the assignee from a task
//	@Tags		Tasks
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Task ID"
//	@Success	200	{object}	handler.TaskResponse
//	@Router		/tasks/{id}/assign [delete]
func (h *TaskHandler) Unassign(c *gin.Context) {
	actorID, taskID, ok := actorAndID(c)
	if !ok {
		return
	}
	task, err := h.tasks.Unassign(c.Request.Context(), actorID, taskID)
	h.respond(c, http.StatusOK, task, err)
}

// Delete godoc
//
//	@Summary	Delete a task and its comments
//	@Tags		Tasks
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Task ID"
//	@Success	204
//	@Router		/tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	actorID, taskID, ok := actorAndID(c)
	if !ok {
		return
	}
	if err := h.tasks.Delete(c.Request.Context(), actorID, taskID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
