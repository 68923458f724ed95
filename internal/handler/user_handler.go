package handler

import (
	"errors"
	"net/http"

	"taskflow/internal/apperr"
	"taskflow/internal/auth"
	"taskflow/internal/model"
	"taskflow/internal/repository"
	"taskflow/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users  service.UserService
	tokens *auth.TokenManager
}

func NewUserHandler(users service.UserService, tokens *auth.TokenManager) *UserHandler {
	return &UserHandler{users: users, tokens: tokens}
}

// RegisterRequest is the public sign-up payload. It has no role: self-registered
// accounts are always DEVELOPER and roles change only through SetRole or the CLI.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (r RegisterRequest) input() service.RegisterInput {
	return service.RegisterInput{
		Username:  r.Username,
		Email:     r.Email,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}

// LoginRequest accepts either a username or an email as login.
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RoleRequest struct {
	Role model.Role `json:"role" binding:"required"`
}

type ActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func (h *UserHandler) authResponse(c *gin.Context, status int, u *model.User) {
	token, err := h.tokens.GenerateToken(u.ID.String())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(status, AuthResponse{Token: token, User: newUserResponse(u)})
}

// Register godoc
//
//	@Summary	Register a user
//	@Tags		Users
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		handler.RegisterRequest	true	"Account"
//	@Success	201		{object}	handler.AuthResponse
//	@Failure	400		{object}	handler.ErrorResponse
//	@Failure	409		{object}	handler.ErrorResponse
//	@Router		/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.input())
	if err != nil {
		writeError(c, err)
		return
	}
	h.authResponse(c, http.StatusCreated, user)
}

// Login godoc
//
//	@Summary	Log in with username or email
//	@Tags		Users
//	@Accept		json
//	@Produce	json
//	@Param		payload	body		handler.LoginRequest	true	"Credentials"
//	@Success	200		{object}	handler.AuthResponse
//	@Failure	401		{object}	handler.ErrorResponse
//	@Router		/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		// bad credentials are an authentication failure, not a forbidden access
		if errors.Is(err, apperr.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid credentials"})
			return
		}
		writeError(c, err)
		return
	}
	h.authResponse(c, http.StatusOK, user)
}

// Me godoc
//
//	@Summary	Current user
//	@Tags		Users
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	handler.UserResponse
//	@Router		/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	user, err := h.users.GetByID(c.Request.Context(), actorID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

// List godoc
//
//	@Summary	List users (admin)
//	@Tags		Users
//	@Produce	json
//	@Security	BearerAuth
//	@Param		active	query		bool	false	"Only active users"
//	@Param		role	query		string	false	"Filter by role"
//	@Success	200		{array}		handler.UserResponse
//	@Failure	403		{object}	handler.ErrorResponse
//	@Router		/users [get]
func (h *UserHandler) List(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	filter := repository.UserFilter{
		ActiveOnly: c.Query("active") == "true",
		Role:       model.Role(c.Query("role")),
	}
	users, err := h.users.List(c.Request.Context(), actorID, filter)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, newUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateProfile godoc
//
//	@Summary	Update name and email
//	@Tags		Users
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string						true	"User ID"
//	@Param		payload	body		service.UpdateProfileInput	true	"Profile"
//	@Success	200		{object}	handler.UserResponse
//	@Router		/users/{id} [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	actorID, userID, ok := actorAndID(c)
	if !ok {
		return
	}
	var req service.UpdateProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), actorID, userID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

// UpdatePassword godoc
//
//	@Summary	Change password
//	@Tags		Users
//	@Accept		json
//	@Security	BearerAuth
//	@Param		id		path	string						true	"User ID"
//	@Param		payload	body	service.UpdatePasswordInput	true	"Passwords"
//	@Success	204
//	@Router		/users/{id}/password [put]
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	actorID, userID, ok := actorAndID(c)
	if !ok {
		return
	}
	var req service.UpdatePasswordInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	if err := h.users.UpdatePassword(c.Request.Context(), actorID, userID, req); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetRole godoc
//
//	@Summary	Change a user's role (admin)
//	@Tags		Users
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string				true	"User ID"
//	@Param		payload	body		handler.RoleRequest	true	"Role"
//	@Success	200		{object}	handler.UserResponse
//	@Router		/users/{id}/role [put]
func (h *UserHandler) SetRole(c *gin.Context) {
	actorID, userID, ok := actorAndID(c)
	if !ok {
		return
	}
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	user, err := h.users.SetRole(c.Request.Context(), actorID, userID, req.Role)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

// SetActive godoc
//
//	@Summary	Activate or deactivate a user (admin)
//	@Tags		Users
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string					true	"User ID"
//	@Param		payload	body		handler.ActiveRequest	true	"Activation"
//	@Success	200		{object}	handler.UserResponse
//	@Router		/users/{id}/active [put]
func (h *UserHandler) SetActive(c *gin.Context) {
	actorID, userID, ok := actorAndID(c)
	if !ok {
		return
	}
	var req ActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	user, err := h.users.SetActive(c.Request.Context(), actorID, userID, *req.Active)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}
