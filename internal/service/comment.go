package service

import (
	"context"
	"strings"

	"taskflow/internal/access"
	"taskflow/internal/apperr"
	"taskflow/internal/model"
	"taskflow/internal/repository"
	"taskflow/internal/validate"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CommentInput struct {
	Content string `json:"content" validate:"notblank,max=1000"`
}

type CommentService interface {
	Create(ctx context.Context, actorID, taskID uuid.UUID, in CommentInput) (*model.Comment, error)
	List(ctx context.Context, actorID, taskID uuid.UUID) ([]model.Comment, error)
	Edit(ctx context.Context, actorID, commentID uuid.UUID, in CommentInput) (*model.Comment, error)
	Delete(ctx context.Context, actorID, commentID uuid.UUID) error
}

type commentService struct {
	base
}

func NewCommentService(store repository.Store, log *zap.Logger, opts ...Option) CommentService {
	return &commentService{base: newBase(store, log, opts)}
}

func (s *commentService) Create(ctx context.Context, actorID, taskID uuid.UUID, in CommentInput) (*model.Comment, error) {
	in.Content = strings.TrimSpace(in.Content)

	var comment *model.Comment
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		actor, err := loadActor(ctx, tx, actorID)
		if err != nil {
			return err
		}
		task, err := loadTask(ctx, tx, taskID)
		if err != nil {
			return err
		}
		res, _, err := taskChain(ctx, tx, task)
		if err != nil {
			return err
		}
		if err := access.Require(actor, res, access.OpCreate); err != nil {
			return err
		}
		if err := validate.Struct(in); err != nil {
			return err
		}
		if err := requireActiveUser(actor, "author"); err != nil {
			return err
		}

		comment = &model.Comment{
			Content:  in.Content,
			TaskID:   task.ID,
			AuthorID: actor.ID,
		}
		return tx.Comments().Create(ctx, comment)
	})
	if err != nil {
		return nil, s.reject("comment creation rejected", err, zap.Stringer("task_id", taskID), zap.Stringer("actor_id", actorID))
	}

	s.log.Info("comment created", zap.Stringer("comment_id", comment.ID), zap.Stringer("task_id", taskID))
	return comment, nil
}

// List returns the task's comments, newest first.
func (s *commentService) List(ctx context.Context, actorID, taskID uuid.UUID) ([]model.Comment, error) {
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
		return nil, s.reject("comment listing denied", err, zap.Stringer("task_id", taskID), zap.Stringer("actor_id", actorID))
	}
	return s.store.Comments().ListByTask(ctx, taskID)
}

// Edit is reserved to the author (or an admin). The edited flag is only set
// when the content actually changes.
func (s *commentService) Edit(ctx context.Context, actorID, commentID uuid.UUID, in CommentInput) (*model.Comment, error) {
	in.Content = strings.TrimSpace(in.Content)

	var comment *model.Comment
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		actor, err := loadActor(ctx, tx, actorID)
		if err != nil {
			return err
		}
		comment, err = loadComment(ctx, tx, commentID)
		if err != nil {
			return err
		}
		res, _, err := commentChain(ctx, tx, comment)
		if err != nil {
			return err
		}
		if err := access.Require(actor, res, access.OpUpdate); err != nil {
			return err
		}
		if comment.AuthorID != actor.ID && !actor.IsAdmin() {
			return apperr.Unauthorized()
		}
		if err := validate.Struct(in); err != nil {
			return err
		}

		if comment.Content == in.Content {
			return nil
		}
		comment.Content = in.Content
		comment.MarkAsEdited()
		return tx.Comments().Update(ctx, comment)
	})
	if err != nil {
		return nil, s.reject("comment edit rejected", err, zap.Stringer("comment_id", commentID), zap.Stringer("actor_id", actorID))
	}

	s.log.Info("comment edited", zap.Stringer("comment_id", comment.ID))
	return comment, nil
}

// Delete is allowed for the author, and for whoever can access the owning
// project.
func (s *commentService) Delete(ctx context.Context, actorID, commentID uuid.UUID) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		actor, err := loadActor(ctx, tx, actorID)
		if err != nil {
			return err
		}
		comment, err := loadComment(ctx, tx, commentID)
		if err != nil {
			return err
		}
		res, _, err := commentChain(ctx, tx, comment)
		if err != nil {
			return err
		}
		if comment.AuthorID != actor.ID && !access.CanAccess(actor, res, access.OpDelete) {
			return apperr.Unauthorized()
		}
		return tx.Comments().Delete(ctx, comment.ID)
	})
	if err != nil {
		return s.reject("comment deletion rejected", err, zap.Stringer("comment_id", commentID), zap.Stringer("actor_id", actorID))
	}

	s.log.Info("comment deleted", zap.Stringer("comment_id", commentID))
	return nil
}
