// Package access decides whether an actor may touch a project, task or
// comment. Every resource resolves to the project at the top of its owner
// chain; the decision is made against that project only.
package access

import (
	"fmt"

	"taskflow/internal/apperr"
	"taskflow/internal/model"

	"github.com/google/uuid"
)

type Operation string

const (
	OpRead   Operation = "read"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

type Kind string

const (
	KindProject Kind = "project"
	KindTask    Kind = "task"
	KindComment Kind = "comment"
)

// Resource is a project, task or comment reduced to its owner chain.
type Resource struct {
	Kind Kind
	ID   uuid.UUID

	// ProjectID, OwnerID and ProjectActive describe the project at the top of
	// the chain (the resource itself when Kind is KindProject).
	ProjectID     uuid.UUID
	OwnerID       uuid.UUID
	ProjectActive bool
}

func (r Resource) String() string {
	return fmt.Sprintf("%s %s", r.Kind, r.ID)
}

func ForProject(p *model.Project) Resource {
	return Resource{
		Kind:          KindProject,
		ID:            p.ID,
		ProjectID:     p.ID,
		OwnerID:       p.OwnerID,
		ProjectActive: p.IsActive,
	}
}

// ForTask builds the owner chain task -> project. p must be the task's project.
func ForTask(t *model.Task, p *model.Project) Resource {
	r := ForProject(p)
	r.Kind = KindTask
	r.ID = t.ID
	return r
}

// ForComment builds the owner chain comment -> task -> project.
func ForComment(c *model.Comment, p *model.Project) Resource {
	r := ForProject(p)
	r.Kind = KindComment
	r.ID = c.ID
	return r
}

// HasProjectAccess is the ownership predicate: admins and the owner of the
// chain pass, regardless of whether the project is active.
func HasProjectAccess(actor *model.User, res Resource) bool {
	if actor == nil {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	return res.OwnerID == actor.ID
}

// IsProjectAccessible adds the activation gate: a non-admin owner loses
// access while the project is inactive.
func IsProjectAccessible(actor *model.User, res Resource) bool {
	if actor == nil {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	return res.ProjectActive && res.OwnerID == actor.ID
}

// CanAccess is the general decision for (actor, resource, operation). Admin is
// an unconditional override, even for an inactive admin account. Everyone
// else must own the chain and the project must be active. The operation does
// not change the outcome for any role today.
func CanAccess(actor *model.User, res Resource, op Operation) bool {
	switch op {
	case OpRead, OpCreate, OpUpdate, OpDelete:
		return IsProjectAccessible(actor, res)
	default:
		return false
	}
}

// RequireOwnership returns apperr Unauthorized unless HasProjectAccess passes.
func RequireOwnership(actor *model.User, res Resource) error {
	if !HasProjectAccess(actor, res) {
		return apperr.Unauthorized()
	}
	return nil
}

// Require returns apperr Unauthorized unless CanAccess passes.
func Require(actor *model.User, res Resource, op Operation) error {
	if !CanAccess(actor, res, op) {
		return apperr.Unauthorized()
	}
	return nil
}

// RequireAdmin guards operations reserved to administrators.
func RequireAdmin(actor *model.User) error {
	if !actor.IsAdmin() {
		return apperr.Unauthorized()
	}
	return nil
}

// RequireSelfOrAdmin guards operations on a user account.
func RequireSelfOrAdmin(actor *model.User, userID uuid.UUID) error {
	if actor == nil {
		return apperr.Unauthorized()
	}
	if actor.IsAdmin() || actor.ID == userID {
		return nil
	}
	return apperr.Unauthorized()
}
