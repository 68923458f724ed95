package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store is the storage port the services run against. Transaction hands fn a
// Store bound to a single database transaction: it commits when fn returns
// nil and rolls back on any error.
type Store interface {
	Users() UserRepositoryInterface
	Projects() ProjectRepositoryInterface
	Tasks() TaskRepositoryInterface
	Comments() CommentRepositoryInterface
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type GormStore struct {
	db       *gorm.DB
	users    *UserRepository
	projects *ProjectRepository
	tasks    *TaskRepository
	comments *CommentRepository
}

var _ Store = (*GormStore)(nil)

func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db:       db,
		users:    NewUserRepository(db),
		projects: NewProjectRepository(db),
		tasks:    NewTaskRepository(db),
		comments: NewCommentRepository(db),
	}
}

func (s *GormStore) Users() UserRepositoryInterface       { return s.users }
func (s *GormStore) Projects() ProjectRepositoryInterface { return s.projects }
func (s *GormStore) Tasks() TaskRepositoryInterface       { return s.tasks }
func (s *GormStore) Comments() CommentRepositoryInterface { return s.comments }

// Transaction runs fn inside a database transaction. Nested calls on a
// transactional store reuse it through gorm's savepoint support.
func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
