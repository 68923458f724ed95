package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskflow/internal/apperr"
	"taskflow/internal/handler"
	"taskflow/internal/middleware"
	"taskflow/internal/model"
	"taskflow/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTaskService struct {
	mock.Mock
}

var _ service.TaskService = (*MockTaskService)(nil)

func (m *MockTaskService) task(args mock.Arguments) (*model.Task, error) {
	t := args.Get(0)
	if t == nil {
		return nil, args.Error(1)
	}
	return t.(*model.Task), args.Error(1)
}

func (m *MockTaskService) tasks(args mock.Arguments) ([]model.Task, error) {
	ts, _ := args.Get(0).([]model.Task)
	return ts, args.Error(1)
}

func (m *MockTaskService) Create(ctx context.Context, actorID, projectID uuid.UUID, in service.CreateTaskInput) (*model.Task, error) {
	return m.task(m.Called(ctx, actorID, projectID, in))
}

func (m *MockTaskService) Get(ctx context.Context, actorID, taskID uuid.UUID) (*model.Task, error) {
	return m.task(m.Called(ctx, actorID, taskID))
}

func (m *MockTaskService) ListByProject(ctx context.Context, actorID, projectID uuid.UUID, status model.TaskStatus) ([]model.Task, error) {
	return m.tasks(m.Called(ctx, actorID, projectID, status))
}

func (m *MockTaskService) ListOverdue(ctx context.Context, actorID, projectID uuid.UUID) ([]model.Task, error) {
	return m.tasks(m.Called(ctx, actorID, projectID))
}

func (m *MockTaskService) ListInProgress(ctx context.Context, actorID, projectID uuid.UUID) ([]model.Task, error) {
	return m.tasks(m.Called(ctx, actorID, projectID))
}

func (m *MockTaskService) ListAssigned(ctx context.Context, actorID, userID uuid.UUID) ([]model.Task, error) {
	return m.tasks(m.Called(ctx, actorID, userID))
}

func (m *MockTaskService) Update(ctx context.Context, actorID, taskID uuid.UUID, in service.UpdateTaskInput) (*model.Task, error) {
	return m.task(m.Called(ctx, actorID, taskID, in))
}

func (m *MockTaskService) UpdateStatus(ctx context.Context, actorID, taskID uuid.UUID, status model.TaskStatus) (*model.Task, error) {
	return m.task(m.Called(ctx, actorID, taskID, status))
}

func (m *MockTaskService) Assign(ctx context.Context, actorID, taskID, userID uuid.UUID) (*model.Task, error) {
	return m.task(m.Called(ctx, actorID, taskID, userID))
}

func (m *MockTaskService) Unassign(ctx context.Context, actorID, taskID uuid.UUID) (*model.Task, error) {
	return m.task(m.Called(ctx, actorID, taskID))
}

func (m *MockTaskService) Delete(ctx context.Context, actorID, taskID uuid.UUID) error {
	return m.Called(ctx, actorID, taskID).Error(0)
}

func setupTaskRouter() (*gin.Engine, *MockTaskService) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	mockService := new(MockTaskService)
	h := handler.NewTaskHandler(mockService)

	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(testSecret))
	authorized.GET("/tasks/:id", h.GetByID)
	authorized.PUT("/tasks/:id/status", h.UpdateStatus)
	authorized.DELETE("/tasks/:id", h.Delete)
	return r, mockService
}

func TestUpdateStatus_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "illegal transition", err: apperr.InvalidTransition("TODO", "DONE"), wantStatus: http.StatusUnprocessableEntity},
		{name: "inactive project", err: apperr.InvalidState("project %s is not active", "x"), wantStatus: http.StatusUnprocessableEntity},
		{name: "missing task", err: apperr.NotFound("task", uuid.New()), wantStatus: http.StatusNotFound},
		{name: "not the owner", err: apperr.Unauthorized(), wantStatus: http.StatusForbidden},
		{name: "unknown status", err: apperr.ValidationField("status", "unknown status"), wantStatus: http.StatusBadRequest},
		{name: "storage failure", err: errors.New("connection reset"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			router, mockService := setupTaskRouter()
			actor, taskID := uuid.New(), uuid.New()
			mockService.On("UpdateStatus", mock.Anything, actor, taskID, model.StatusDone).Return(nil, tt.err)

			req := jsonRequest("PUT", "/tasks/"+taskID.String()+"/status", handler.TaskStatusRequest{Status: model.StatusDone})
			req.Header.Set("Authorization", bearer(t, actor))

			// Act
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			// Assert
			assert.Equal(t, tt.wantStatus, resp.Code)
			if tt.wantStatus == http.StatusInternalServerError {
				assert.NotContains(t, resp.Body.String(), "connection reset")
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestUpdateStatus_TransitionMessage(t *testing.T) {
	// Arrange
	router, mockService := setupTaskRouter()
	actor, taskID := uuid.New(), uuid.New()
	mockService.On("UpdateStatus", mock.Anything, actor, taskID, model.StatusDone).
		Return(nil, apperr.InvalidTransition("TODO", "DONE"))

	req := jsonRequest("PUT", "/tasks/"+taskID.String()+"/status", handler.TaskStatusRequest{Status: model.StatusDone})
	req.Header.Set("Authorization", bearer(t, actor))

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	var body handler.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "invalid status transition: TODO -> DONE", body.Error)
}

func TestGetTask_Success(t *testing.T) {
	// Arrange
	router, mockService := setupTaskRouter()
	actor := uuid.New()
	assignee := uuid.New()
	task := &model.Task{
		ID:         uuid.New(),
		Title:      "Review",
		Status:     model.StatusInReview,
		Priority:   model.PriorityHigh,
		ProjectID:  uuid.New(),
		AssigneeID: &assignee,
	}
	mockService.On("Get", mock.Anything, actor, task.ID).Return(task, nil)

	req, _ := http.NewRequest("GET", "/tasks/"+task.ID.String(), nil)
	req.Header.Set("Authorization", bearer(t, actor))

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	var body handler.TaskResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "IN_REVIEW", body.Status)
	assert.True(t, body.InProgress)
	assert.False(t, body.Overdue)
	require.NotNil(t, body.AssigneeID)
	assert.Equal(t, assignee.String(), *body.AssigneeID)
}

func TestDeleteTask_NoContent(t *testing.T) {
	// Arrange
	router, mockService := setupTaskRouter()
	actor, taskID := uuid.New(), uuid.New()
	mockService.On("Delete", mock.Anything, actor, taskID).Return(nil)

	req, _ := http.NewRequest("DELETE", "/tasks/"+taskID.String(), nil)
	req.Header.Set("Authorization", bearer(t, actor))

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusNoContent, resp.Code)
	mockService.AssertExpectations(t)
}

func TestTaskRoutes_RequireToken(t *testing.T) {
	// Arrange
	router, mockService := setupTaskRouter()
	req, _ := http.NewRequest("GET", "/tasks/"+uuid.New().String(), nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	mockService.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}
