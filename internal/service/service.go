// Package service is the mutation rule engine. Every create, update and
// delete runs inside one storage transaction and checks, in order:
// existence of the target, the actor's access to it, input shape, then the
// entity's invariants. Nothing is written unless all of them pass.
package service

import (
	"context"
	"errors"
	"time"

	"taskflow/internal/access"
	"taskflow/internal/apperr"
	"taskflow/internal/model"
	"taskflow/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PasswordHasher is the injected one-way hash capability.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) (bool, error)
}

// Option customises a service at construction.
type Option func(*base)

// WithClock replaces time.Now, e.g. to pin due-date checks in tests.
func WithClock(now func() time.Time) Option {
	return func(b *base) { b.now = now }
}

type base struct {
	store repository.Store
	log   *zap.Logger
	now   func() time.Time
}

func newBase(store repository.Store, log *zap.Logger, opts []Option) base {
	if log == nil {
		log = zap.NewNop()
	}
	b := base{store: store, log: log, now: time.Now}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// reject logs an expected failure at warn level and hands it back.
func (b *base) reject(msg string, err error, fields ...zap.Field) error {
	if apperr.IsExpected(err) {
		b.log.Warn(msg, append(fields, zap.Error(err))...)
	} else {
		b.log.Error(msg, append(fields, zap.Error(err))...)
	}
	return err
}

type systemActorKey struct{}

// WithSystemActor marks ctx as running on behalf of the operator (the CLI),
// which acts with administrator rights without a user row.
func WithSystemActor(ctx context.Context) context.Context {
	return context.WithValue(ctx, systemActorKey{}, true)
}

var systemActor = &model.User{
	ID:        uuid.Nil,
	Username:  "system",
	FirstName: "System",
	LastName:  "Operator",
	Role:      model.RoleAdmin,
	IsActive:  true,
}

// loadActor resolves the authenticated subject. An id that no longer
// resolves is treated as an authentication failure, not a missing target.
func loadActor(ctx context.Context, s repository.Store, actorID uuid.UUID) (*model.User, error) {
	if sys, _ := ctx.Value(systemActorKey{}).(bool); sys {
		return systemActor, nil
	}
	u, err := s.Users().GetByID(ctx, actorID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperr.Unauthorized()
	}
	return u, err
}

func loadUser(ctx context.Context, s repository.Store, id uuid.UUID) (*model.User, error) {
	u, err := s.Users().GetByID(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperr.NotFound("user", id)
	}
	return u, err
}

func loadProject(ctx context.Context, s repository.Store, id uuid.UUID) (*model.Project, error) {
	p, err := s.Projects().GetByID(ctx, id)
	if errors.Is(err, repository.ErrProjectNotFound) {
		return nil, apperr.NotFound("project", id)
	}
	return p, err
}

func loadTask(ctx context.Context, s repository.Store, id uuid.UUID) (*model.Task, error) {
	t, err := s.Tasks().GetByID(ctx, id)
	if errors.Is(err, repository.ErrTaskNotFound) {
		return nil, apperr.NotFound("task", id)
	}
	return t, err
}

func loadComment(ctx context.Context, s repository.Store, id uuid.UUID) (*model.Comment, error) {
	c, err := s.Comments().GetByID(ctx, id)
	if errors.Is(err, repository.ErrCommentNotFound) {
		return nil, apperr.NotFound("comment", id)
	}
	return c, err
}

// taskChain resolves task -> project.
func taskChain(ctx context.Context, s repository.Store, t *model.Task) (access.Resource, *model.Project, error) {
	p, err := loadProject(ctx, s, t.ProjectID)
	if err != nil {
		return access.Resource{}, nil, err
	}
	return access.ForTask(t, p), p, nil
}

// commentChain resolves comment -> task -> project.
func commentChain(ctx context.Context, s repository.Store, c *model.Comment) (access.Resource, *model.Task, error) {
	t, err := loadTask(ctx, s, c.TaskID)
	if err != nil {
		return access.Resource{}, nil, err
	}
	p, err := loadProject(ctx, s, t.ProjectID)
	if err != nil {
		return access.Resource{}, nil, err
	}
	return access.ForComment(c, p), t, nil
}

// requireActiveUser rejects inactive users as owners, assignees or authors.
func requireActiveUser(u *model.User, role string) error {
	if !u.IsActive {
		return apperr.InvalidState("%s %s is not active", role, u.Username)
	}
	return nil
}
