package service

import (
	"context"
	"errors"
	"strings"

	"taskflow/internal/access"
	"taskflow/internal/apperr"
	"taskflow/internal/model"
	"taskflow/internal/repository"
	"taskflow/internal/validate"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RegisterInput struct {
	Username  string     `json:"username" validate:"notblank,min=3,max=50"`
	Email     string     `json:"email" validate:"required,email,max=100"`
	Password  string     `json:"password" validate:"required,min=6"`
	FirstName string     `json:"first_name" validate:"notblank,max=50"`
	LastName  string     `json:"last_name" validate:"notblank,max=50"`
	Role      model.Role `json:"role" validate:"omitempty,oneof=ADMIN PROJECT_MANAGER DEVELOPER TESTER"`
}

type UpdateProfileInput struct {
	FirstName string `json:"first_name" validate:"notblank,max=50"`
	LastName  string `json:"last_name" validate:"notblank,max=50"`
	Email     string `json:"email" validate:"required,email,max=100"`
}

type UpdatePasswordInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Authenticate(ctx context.Context, login, password string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, actorID uuid.UUID, filter repository.UserFilter) ([]model.User, error)
	UpdateProfile(ctx context.Context, actorID, userID uuid.UUID, in UpdateProfileInput) (*model.User, error)
	UpdatePassword(ctx context.Context, actorID, userID uuid.UUID, in UpdatePasswordInput) error
	SetRole(ctx context.Context, actorID, userID uuid.UUID, role model.Role) (*model.User, error)
	SetActive(ctx context.Context, actorID, userID uuid.UUID, active bool) (*model.User, error)
}

type userService struct {
	base
	hasher PasswordHasher
}

func NewUserService(store repository.Store, hasher PasswordHasher, log *zap.Logger, opts ...Option) UserService {
	return &userService{base: newBase(store, log, opts), hasher: hasher}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	s.log.Info("registering user", zap.String("username", in.Username))

	if err := validate.Struct(in); err != nil {
		return nil, s.reject("registration rejected", err, zap.String("username", in.Username))
	}

	var user *model.User
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		taken, err := tx.Users().ExistsByUsername(ctx, in.Username)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict("username already exists: %s", in.Username)
		}
		taken, err = tx.Users().ExistsByEmail(ctx, in.Email)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict("email already exists: %s", in.Email)
		}

		hash, err := s.hasher.Hash(in.Password)
		if err != nil {
			return err
		}

		role := in.Role
		if role == "" {
			role = model.RoleDeveloper
		}
		user = &model.User{
			Username:     in.Username,
			Email:        in.Email,
			PasswordHash: hash,
			FirstName:    strings.TrimSpace(in.FirstName),
			LastName:     strings.TrimSpace(in.LastName),
			Role:         role,
			IsActive:     true,
		}
		return tx.Users().Create(ctx, user)
	})
	if err != nil {
		return nil, s.reject("registration failed", err, zap.String("username", in.Username))
	}

	s.log.Info("user registered", zap.String("username", user.Username), zap.Stringer("user_id", user.ID))
	return user, nil
}

// Authenticate accepts a username or an email as login.
func (s *userService) Authenticate(ctx context.Context, login, password string) (*model.User, error) {
	login = strings.TrimSpace(login)

	var (
		user *model.User
		err  error
	)
	if strings.Contains(login, "@") {
		user, err = s.store.Users().FindByEmail(ctx, normalizeEmail(login))
	} else {
		user, err = s.store.Users().FindByUsername(ctx, login)
	}
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, s.reject("login rejected", apperr.Unauthorized(), zap.String("login", login))
	}
	if err != nil {
		return nil, err
	}

	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.reject("login rejected", apperr.Unauthorized(), zap.String("login", login))
	}
	if err := requireActiveUser(user, "user"); err != nil {
		return nil, s.reject("login rejected", err, zap.String("login", login))
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	s.log.Debug("finding user by id", zap.Stringer("user_id", id))
	return loadUser(ctx, s.store, id)
}

func (s *userService) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	s.log.Debug("finding user by username", zap.String("username", username))
	u, err := s.store.Users().FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperr.NotFound("user", username)
	}
	return u, err
}

func (s *userService) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	email = normalizeEmail(email)
	s.log.Debug("finding user by email", zap.String("email", email))
	u, err := s.store.Users().FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperr.NotFound("user", email)
	}
	return u, err
}

func (s *userService) List(ctx context.Context, actorID uuid.UUID, filter repository.UserFilter) ([]model.User, error) {
	actor, err := loadActor(ctx, s.store, actorID)
	if err != nil {
		return nil, err
	}
	if err := access.RequireAdmin(actor); err != nil {
		return nil, s.reject("user listing denied", err, zap.Stringer("actor_id", actorID))
	}
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, apperr.ValidationField("role", "unknown role")
	}
	return s.store.Users().List(ctx, filter)
}

// UpdateProfile overwrites name and email only.
func (s *userService) UpdateProfile(ctx context.Context, actorID, userID uuid.UUID, in UpdateProfileInput) (*model.User, error) {
	in.Email = normalizeEmail(in.Email)

	var user *model.User
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		actor, err := loadActor(ctx, tx, actorID)
		if err != nil {
			return err
		}
		user, err = loadUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := access.RequireSelfOrAdmin(actor, userID); err != nil {
			return err
		}
		if err := validate.Struct(in); err != nil {
			return err
		}

		if in.Email != user.Email {
			other, err := tx.Users().FindByEmail(ctx, in.Email)
			if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
				return err
			}
			if other != nil && other.ID != user.ID {
				return apperr.Conflict("email already exists: %s", in.Email)
			}
		}

		user.FirstName = strings.TrimSpace(in.FirstName)
		user.LastName = strings.TrimSpace(in.LastName)
		user.Email = in.Email
		return tx.Users().Update(ctx, user)
	})
	if err != nil {
		return nil, s.reject("profile update rejected", err, zap.Stringer("user_id", userID))
	}

	s.log.Info("profile updated", zap.Stringer("user_id", userID))
	return user, nil
}

// UpdatePassword requires the current password unless an admin resets it.
func (s *userService) UpdatePassword(ctx context.Context, actorID, userID uuid.UUID, in UpdatePasswordInput) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		actor, err := loadActor(ctx, tx, actorID)
		if err != nil {
			return err
		}
		user, err := loadUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := access.RequireSelfOrAdmin(actor, userID); err != nil {
			return err
		}
		if err := validate.Struct(in); err != nil {
			return err
		}

		if !actor.IsAdmin() {
			ok, err := s.hasher.Verify(user.PasswordHash, in.CurrentPassword)
			if err != nil {
				return err
			}
			if !ok {
				return apperr.ValidationField("current_password", "does not match")
			}
		}

		hash, err := s.hasher.Hash(in.NewPassword)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
		return tx.Users().Update(ctx, user)
	})
	if err != nil {
		return s.reject("password update rejected", err, zap.Stringer("user_id", userID))
	}

	s.log.Info("password updated", zap.Stringer("user_id", userID))
	return nil
}

func (s *userService) SetRole(ctx context.Context, actorID, userID uuid.UUID, role model.Role) (*model.User, error) {
	return s.adminUpdate(ctx, "role changed", actorID, userID, func(u *model.User) error {
		if !role.Valid() {
			return apperr.ValidationField("role", "unknown role")
		}
		u.Role = role
		return nil
	})
}

// SetActive toggles activation. Deactivation never deletes and does not
// revoke ownership or assignments the user already has.
func (s *userService) SetActive(ctx context.Context, actorID, userID uuid.UUID, active bool) (*model.User, error) {
	return s.adminUpdate(ctx, "activation changed", actorID, userID, func(u *model.User) error {
		u.IsActive = active
		return nil
	})
}

func (s *userService) adminUpdate(ctx context.Context, msg string, actorID, userID uuid.UUID, apply func(*model.User) error) (*model.User, error) {
	var user *model.User
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		actor, err := loadActor(ctx, tx, actorID)
		if err != nil {
			return err
		}
		user, err = loadUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := access.RequireAdmin(actor); err != nil {
			return err
		}
		if err := apply(user); err != nil {
			return err
		}
		return tx.Users().Update(ctx, user)
	})
	if err != nil {
		return nil, s.reject(msg+" rejected", err, zap.Stringer("user_id", userID))
	}

	s.log.Info(msg, zap.Stringer("user_id", user.ID), zap.String("role", string(user.Role)), zap.Bool("active", user.IsActive))
	return user, nil
}
