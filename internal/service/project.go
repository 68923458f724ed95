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

type CreateProjectInput struct {
	Name        string `json:"name" validate:"notblank,max=100"`
	Description string `json:"description" validate:"max=1000"`
	// OwnerID defaults to the actor. Only admins may create for someone else.
	OwnerID *uuid.UUID `json:"owner_id"`
}

type UpdateProjectInput struct {
	Name        string `json:"name" validate:"notblank,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

type ProjectStats struct {
	Project  *model.Project
	ByStatus map[model.TaskStatus]int64
	Total    int64
	Overdue  int64
}

type ProjectService interface {
	Create(ctx context.Context, actorID uuid.UUID, in CreateProjectInput) (*model.Project, error)
	Get(ctx context.Context, actorID, projectID uuid.UUID) (*model.Project, error)
	ListForUser(ctx context.Context, actorID, ownerID uuid.UUID, includeInactive bool) ([]model.Project, error)
	ListAll(ctx context.Context, actorID uuid.UUID, activeOnly bool) ([]model.Project, error)
	Update(ctx context.Context, actorID, projectID uuid.UUID, in UpdateProjectInput) (*model.Project, error)
	Deactivate(ctx context.Context, actorID, projectID uuid.UUID) (*model.Project, error)
	Reactivate(ctx context.Context, actorID, projectID uuid.UUID) (*model.Project, error)
	Delete(ctx context.Context, actorID, projectID uuid.UUID) error
	TransferOwnership(ctx context.Context, actorID, projectID, newOwnerID uuid.UUID) (*model.Project, error)
	Stats(ctx context.Context, actorID, projectID uuid.UUID) (*ProjectStats, error)
}

type projectService struct {
	base
}

func NewProjectService(store repository.Store, log *zap.Logger, opts ...Option) ProjectService {
	return &projectService{base: newBase(store, log, opts)}
}

// ensureNameFree enforces case-insensitive name uniqueness among the owner's
// active projects.
func ensureNameFree(ctx context.Context, tx repository.Store, ownerID uuid.UUID, name string, self uuid.UUID) error {
	taken, err := tx.Projects().ActiveNameTaken(ctx, ownerID, name, self)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict("project name already exists: %s", name)
	}
	return nil
}

func (s *projectService) Create(ctx context.Context, actorID uuid.UUID, in CreateProjectInput) (*model.Project, error) {
	in.Name = strings.TrimSpace(in.Name)
	s.log.Info("creating project", zap.String("name", in.Name), zap.Stringer("actor_id", actorID))

	var project *model.Project
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		actor, err := loadActor(ctx, tx, actorID)
		if err != nil {
			return err
		}

		owner := actor
		if in.OwnerID != nil && *in.OwnerID != actor.ID {
			if err := access.RequireAdmin(actor); err != nil {
				return err
			}
			if owner, err = loadUser(ctx, tx, *in.OwnerID); err != nil {
				return err
			}
		}

		if err := validate.Struct(in); err != nil {
			return err
		}
		if err := requireActiveUser(owner, "owner"); err != nil {
			return err
		}
		if err := ensureNameFree(ctx, tx, owner.ID, in.Name, uuid.Nil); err != nil {
			return err
		}

		project = &model.Project{
			Name:        in.Name,
			Description: in.Description,
			OwnerID:     owner.ID,
			IsActive:    true,
		}
		return tx.Projects().Create(ctx, project)
	})
	if err != nil {
		return nil, s.reject("project creation rejected", err, zap.String("name", in.Name), zap.Stringer("actor_id", actorID))
	}

	s.log.Info("project created", zap.String("name", project.Name), zap.Stringer("project_id", project.ID), zap.Stringer("owner_id", project.OwnerID))
	return project, nil
}

// Get uses the ownership predicate: an owner can still see a project
// while it is inactive.
func (s *projectService) Get(ctx context.Context, actorID, projectID uuid.UUID) (*model.Project, error) {
	s.log.Debug("finding project", zap.Stringer("project_id", projectID), zap.Stringer("actor_id", actorID))
	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}
	project, err := loadProject(ctx, s.store, projectID)
	if err != nil {
		return nil, err
	}
	if err := access.RequireOwnership(actor, access.ForProject(project)); err != nil {
		return nil, s.reject("project access denied", err, zap.Stringer("project_id", projectID), zap.Stringer("actor_id", actorID))
	}
	return project, nil
}

func (s *projectService) ListForUser(ctx context.Context, actorID, ownerID uuid.UUID, includeInactive bool) ([]model.Project, error) {
	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}
	if _, err := loadUser(ctx, s.store, ownerID); err != nil {
		return nil, err
	}
	if err := access.RequireSelfOrAdmin(actor, ownerID); err != nil {
		return nil, s.reject("project listing denied", err, zap.Stringer("owner_id", ownerID))
	}

	filter := repository.ProjectFilter{OwnerID: &ownerID}
	if !includeInactive {
		active := true
		filter.Active = &active
	}
	return s.store.Projects().List(ctx, filter)
}

func (s *projectService) ListAll(ctx context.Context, actorID uuid.UUID, activeOnly bool) ([]model.Project, error) {
	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}
	if err := access.RequireAdmin(actor); err != nil {
		return nil, s.reject("project listing denied", err, zap.Stringer("actor_id", actorID))
	}

	var filter repository.ProjectFilter
	if activeOnly {
		active := true
		filter.Active = &active
	}
	return s.store.Projects().List(ctx, filter)
}

// mutate loads the project, checks ownership and hands it to fn inside one
// transaction.
func (s *projectService) mutate(ctx context.Context, actorID, projectID uuid.UUID, fn func(tx repository.Store, actor *model.User, p *model.Project) error) (*model.Project, error) {
	var project *model.Project
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		actor, err := loadActor(ctx, tx, actorID)
		if err != nil {
			return err
		}
		project, err = loadProject(ctx, tx, projectID)
		if err != nil {
			return err
		}
		if err := access.RequireOwnership(actor, access.ForProject(project)); err != nil {
			return err
		}
		return fn(tx, actor, project)
	})
	return project, err
}

func (s *projectService) Update(ctx context.Context, actorID, projectID uuid.UUID, in UpdateProjectInput) (*model.Project, error) {
	in.Name = strings.TrimSpace(in.Name)

	project, err := s.mutate(ctx, actorID, projectID, func(tx repository.Store, _ *model.User, p *model.Project) error {
		if err := validate.Struct(in); err != nil {
			return err
		}
		owner, err := loadUser(ctx, tx, p.OwnerID)
		if err != nil {
			return err
		}
		if err := requireActiveUser(owner, "owner"); err != nil {
			return err
		}
		if p.IsActive && !strings.EqualFold(p.Name, in.Name) {
			if err := ensureNameFree(ctx, tx, p.OwnerID, in.Name, p.ID); err != nil {
				return err
			}
		}
		p.Name = in.Name
		p.Description = in.Description
		return tx.Projects().Update(ctx, p)
	})
	if err != nil {
		return nil, s.reject("project update rejected", err, zap.Stringer("project_id", projectID))
	}

	s.log.Info("project updated", zap.String("name", project.Name), zap.Stringer("project_id", project.ID))
	return project, nil
}

func (s *projectService) Deactivate(ctx context.Context, actorID, projectID uuid.UUID) (*model.Project, error) {
	project, err := s.mutate(ctx, actorID, projectID, func(tx repository.Store, _ *model.User, p *model.Project) error {
		if !p.IsActive {
			return nil
		}
		p.IsActive = false
		return tx.Projects().Update(ctx, p)
	})
	if err != nil {
		return nil, s.reject("project deactivation rejected", err, zap.Stringer("project_id", projectID))
	}

	s.log.Info("project deactivated", zap.String("name", project.Name), zap.Stringer("project_id", project.ID))
	return project, nil
}

// Reactivate re-enters the project into its owner's active name scope, so the
// name must still be free there.
func (s *projectService) Reactivate(ctx context.Context, actorID, projectID uuid.UUID) (*model.Project, error) {
	project, err := s.mutate(ctx, actorID, projectID, func(tx repository.Store, _ *model.User, p *model.Project) error {
		if p.IsActive {
			return nil
		}
		if err := ensureNameFree(ctx, tx, p.OwnerID, p.Name, p.ID); err != nil {
			return err
		}
		p.IsActive = true
		return tx.Projects().Update(ctx, p)
	})
	if err != nil {
		return nil, s.reject("project reactivation rejected", err, zap.Stringer("project_id", projectID))
	}

	s.log.Info("project reactivated", zap.String("name", project.Name), zap.Stringer("project_id", project.ID))
	return project, nil
}

// Delete removes the project, its tasks and their comments as one unit.
func (s *projectService) Delete(ctx context.Context, actorID, projectID uuid.UUID) error {
	var tasks, comments int64
	project, err := s.mutate(ctx, actorID, projectID, func(tx repository.Store, _ *model.User, p *model.Project) error {
		var err error
		tasks, comments, err = cascadeDeleteProject(ctx, tx, p.ID)
		return err
	})
	if err != nil {
		return s.reject("project deletion rejected", err, zap.Stringer("project_id", projectID))
	}

	s.log.Warn("project permanently deleted",
		zap.String("name", project.Name),
		zap.Stringer("project_id", project.ID),
		zap.Int64("tasks", tasks),
		zap.Int64("comments", comments),
	)
	return nil
}

// cascadeDeleteProject removes comments, then tasks, then the project. It
// must run inside a transaction.
func cascadeDeleteProject(ctx context.Context, tx repository.Store, projectID uuid.UUID) (tasks, comments int64, err error) {
	taskIDs, err := tx.Tasks().IDsByProjectID(ctx, projectID)
	if err != nil {
		return 0, 0, err
	}
	if comments, err = tx.Comments().DeleteByTaskIDs(ctx, taskIDs); err != nil {
		return 0, 0, err
	}
	if tasks, err = tx.Tasks().DeleteByProjectID(ctx, projectID); err != nil {
		return 0, 0, err
	}
	if err = tx.Projects().Delete(ctx, projectID); err != nil {
		return 0, 0, err
	}
	return tasks, comments, nil
}

func (s *projectService) TransferOwnership(ctx context.Context, actorID, projectID, newOwnerID uuid.UUID) (*model.Project, error) {
	var previousOwner uuid.UUID
	project, err := s.mutate(ctx, actorID, projectID, func(tx repository.Store, _ *model.User, p *model.Project) error {
		newOwner, err := loadUser(ctx, tx, newOwnerID)
		if err != nil {
			return err
		}
		if err := requireActiveUser(newOwner, "new owner"); err != nil {
			return err
		}
		if p.OwnerID == newOwner.ID {
			return nil
		}
		if p.IsActive {
			if err := ensureNameFree(ctx, tx, newOwner.ID, p.Name, p.ID); err != nil {
				return err
			}
		}
		previousOwner = p.OwnerID
		p.OwnerID = newOwner.ID
		return tx.Projects().Update(ctx, p)
	})
	if err != nil {
		return nil, s.reject("ownership transfer rejected", err, zap.Stringer("project_id", projectID), zap.Stringer("new_owner_id", newOwnerID))
	}

	s.log.Info("project ownership transferred",
		zap.Stringer("project_id", project.ID),
		zap.Stringer("from", previousOwner),
		zap.Stringer("to", project.OwnerID),
	)
	return project, nil
}

func (s *projectService) Stats(ctx context.Context, actorID, projectID uuid.UUID) (*ProjectStats, error) {
	project, err := s.Get(ctx, actorID, projectID)
	if err != nil {
		return nil, err
	}

	counts, err := s.store.Tasks().CountByStatus(ctx, projectID)
	if err != nil {
		return nil, err
	}
	stats := &ProjectStats{Project: project, ByStatus: make(map[model.TaskStatus]int64, len(counts))}
	for _, c := range counts {
		stats.ByStatus[c.Status] = c.Count
		stats.Total += c.Count
	}

	now := s.now()
	overdue, err := s.store.Tasks().List(ctx, repository.TaskFilter{
		ProjectID:     &projectID,
		DueBefore:     &now,
		ExcludeStatus: model.StatusDone,
	})
	if err != nil {
		return nil, err
	}
	stats.Overdue = int64(len(overdue))
	return stats, nil
}
