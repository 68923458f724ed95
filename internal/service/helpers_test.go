package service_test

import (
	"context"
	"testing"
	"time"

	"taskflow/internal/auth"
	"taskflow/internal/model"
	"taskflow/internal/repository"
	"taskflow/internal/service"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type env struct {
	ctx      context.Context
	db       *gorm.DB
	store    repository.Store
	users    service.UserService
	projects service.ProjectService
	tasks    service.TaskService
	comments service.CommentService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Project{}, &model.Task{}, &model.Comment{}))

	store := repository.NewStore(db)
	clock := service.WithClock(func() time.Time { return fixedNow })
	return &env{
		ctx:      context.Background(),
		db:       db,
		store:    store,
		users:    service.NewUserService(store, auth.NewBcryptHasher(bcrypt.MinCost), nil, clock),
		projects: service.NewProjectService(store, nil, clock),
		tasks:    service.NewTaskService(store, nil, clock),
		comments: service.NewCommentService(store, nil, clock),
	}
}

// user inserts a user straight through the store.
func (e *env) user(t *testing.T, username string, role model.Role, active bool) *model.User {
	t.Helper()
	u := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     username,
		Role:         role,
		IsActive:     active,
	}
	require.NoError(t, e.store.Users().Create(e.ctx, u))
	return u
}

func (e *env) project(t *testing.T, owner *model.User, name string) *model.Project {
	t.Helper()
	p, err := e.projects.Create(e.ctx, owner.ID, service.CreateProjectInput{Name: name})
	require.NoError(t, err)
	return p
}

func (e *env) task(t *testing.T, actor *model.User, p *model.Project, title string) *model.Task {
	t.Helper()
	task, err := e.tasks.Create(e.ctx, actor.ID, p.ID, service.CreateTaskInput{Title: title})
	require.NoError(t, err)
	return task
}

// moveTo walks a fresh task along the happy path up to status.
func (e *env) moveTo(t *testing.T, actor *model.User, task *model.Task, status model.TaskStatus) *model.Task {
	t.Helper()
	path := []model.TaskStatus{model.StatusInProgress, model.StatusInReview, model.StatusTesting, model.StatusDone}
	if status == model.StatusCancelled {
		path = []model.TaskStatus{model.StatusCancelled}
	}
	for _, next := range path {
		if task.Status == status {
			break
		}
		var err error
		task, err = e.tasks.UpdateStatus(e.ctx, actor.ID, task.ID, next)
		require.NoError(t, err)
	}
	require.Equal(t, status, task.Status)
	return task
}

func ptr[T any](v T) *T { return &v }
