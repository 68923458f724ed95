package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskflow/internal/apperr"
	"taskflow/internal/auth"
	"taskflow/internal/handler"
	"taskflow/internal/middleware"
	"taskflow/internal/model"
	"taskflow/internal/repository"
	"taskflow/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

// Мок сервиса пользователей
type MockUserService struct {
	mock.Mock
}

var _ service.UserService = (*MockUserService)(nil)

func (m *MockUserService) user(args mock.Arguments) (*model.User, error) {
	u := args.Get(0)
	if u == nil {
		return nil, args.Error(1)
	}
	return u.(*model.User), args.Error(1)
}

func (m *MockUserService) Register(ctx context.Context, in service.RegisterInput) (*model.User, error) {
	return m.user(m.Called(ctx, in))
}

func (m *MockUserService) Authenticate(ctx context.Context, login, password string) (*model.User, error) {
	return m.user(m.Called(ctx, login, password))
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return m.user(m.Called(ctx, id))
}

func (m *MockUserService) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return m.user(m.Called(ctx, username))
}

func (m *MockUserService) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.user(m.Called(ctx, email))
}

func (m *MockUserService) List(ctx context.Context, actorID uuid.UUID, filter repository.UserFilter) ([]model.User, error) {
	args := m.Called(ctx, actorID, filter)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, actorID, userID uuid.UUID, in service.UpdateProfileInput) (*model.User, error) {
	return m.user(m.Called(ctx, actorID, userID, in))
}

func (m *MockUserService) UpdatePassword(ctx context.Context, actorID, userID uuid.UUID, in service.UpdatePasswordInput) error {
	return m.Called(ctx, actorID, userID, in).Error(0)
}

func (m *MockUserService) SetRole(ctx context.Context, actorID, userID uuid.UUID, role model.Role) (*model.User, error) {
	return m.user(m.Called(ctx, actorID, userID, role))
}

func (m *MockUserService) SetActive(ctx context.Context, actorID, userID uuid.UUID, active bool) (*model.User, error) {
	return m.user(m.Called(ctx, actorID, userID, active))
}

func setupTest() (*gin.Engine, *MockUserService) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	mockService := new(MockUserService)
	userHandler := handler.NewUserHandler(mockService, auth.NewTokenManager(testSecret, 0))

	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)

	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(testSecret))
	authorized.GET("/users", userHandler.List)
	authorized.PUT("/users/:id/role", userHandler.SetRole)
	return r, mockService
}

func bearer(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := auth.NewTokenManager(testSecret, 0).GenerateToken(userID.String())
	require.NoError(t, err)
	return "Bearer " + token
}

func jsonRequest(method, path string, body any) *http.Request {
	jsonBody, _ := json.Marshal(body)
	req, _ := http.NewRequest(method, path, bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func testUser() *model.User {
	return &model.User{
		ID:        uuid.New(),
		Username:  "testuser",
		Email:     "test@example.com",
		FirstName: "Test",
		LastName:  "User",
		Role:      model.RoleDeveloper,
		IsActive:  true,
	}
}

func TestRegister_Success(t *testing.T) {
	// Arrange
	router, mockService := setupTest()
	reqBody := handler.RegisterRequest{
		Username:  "testuser",
		Email:     "test@example.com",
		Password:  "password123",
		FirstName: "Test",
		LastName:  "User",
	}
	mockService.On("Register", mock.Anything, service.RegisterInput{
		Username:  "testuser",
		Email:     "test@example.com",
		Password:  "password123",
		FirstName: "Test",
		LastName:  "User",
	}).Return(testUser(), nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, jsonRequest("POST", "/register", reqBody))

	// Assert
	assert.Equal(t, http.StatusCreated, resp.Code)

	var response handler.AuthResponse
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, "Test User", response.User.FullName)
	assert.Equal(t, reqBody.Email, response.User.Email)
	assert.Equal(t, "DEVELOPER", response.User.Role)

	mockService.AssertExpectations(t)
}

func TestRegister_IgnoresRequestedRole(t *testing.T) {
	// Arrange
	router, mockService := setupTest()
	mockService.On("Register", mock.Anything, mock.MatchedBy(func(in service.RegisterInput) bool {
		return in.Role == ""
	})).Return(testUser(), nil)

	body := map[string]string{
		"username":   "testuser",
		"email":      "test@example.com",
		"password":   "password123",
		"first_name": "Test",
		"last_name":  "User",
		"role":       "ADMIN",
	}

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, jsonRequest("POST", "/register", body))

	// Assert
	assert.Equal(t, http.StatusCreated, resp.Code)
	mockService.AssertExpectations(t)
}

func TestRegister_UserAlreadyExists(t *testing.T) {
	// Arrange
	router, mockService := setupTest()
	mockService.On("Register", mock.Anything, mock.AnythingOfType("service.RegisterInput")).
		Return(nil, apperr.Conflict("email already exists: %s", "existing@example.com"))

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, jsonRequest("POST", "/register", handler.RegisterRequest{
		Username: "someone", Email: "existing@example.com", Password: "password123", FirstName: "A", LastName: "B",
	}))

	// Assert
	assert.Equal(t, http.StatusConflict, resp.Code)

	var response handler.ErrorResponse
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "email already exists: existing@example.com", response.Error)

	mockService.AssertExpectations(t)
}

func TestRegister_ValidationFields(t *testing.T) {
	// Arrange
	router, mockService := setupTest()
	mockService.On("Register", mock.Anything, mock.Anything).
		Return(nil, apperr.Validation(map[string]string{"username": "is required", "email": "must be a valid email address"}))

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, jsonRequest("POST", "/register", map[string]string{"email": "nope"}))

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var response handler.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	assert.Len(t, response.Fields, 2)
	assert.Equal(t, "is required", response.Fields["username"])
}

func TestLogin_Success(t *testing.T) {
	// Arrange
	router, mockService := setupTest()
	user := testUser()
	mockService.On("Authenticate", mock.Anything, "test@example.com", "password123").Return(user, nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, jsonRequest("POST", "/login", handler.LoginRequest{
		Login:    "test@example.com",
		Password: "password123",
	}))

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response handler.AuthResponse
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, user.ID.String(), response.User.ID)

	parsed, err := auth.NewTokenManager(testSecret, 0).ParseToken(response.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), parsed)

	mockService.AssertExpectations(t)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	// Arrange
	router, mockService := setupTest()
	mockService.On("Authenticate", mock.Anything, "testuser", "wrong_password").Return(nil, apperr.Unauthorized())

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, jsonRequest("POST", "/login", handler.LoginRequest{
		Login:    "testuser",
		Password: "wrong_password",
	}))

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	var response map[string]string
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Invalid credentials", response["error"])

	mockService.AssertExpectations(t)
}

func TestLogin_InactiveUser(t *testing.T) {
	// Arrange
	router, mockService := setupTest()
	mockService.On("Authenticate", mock.Anything, "sleepy", "password123").
		Return(nil, apperr.InvalidState("user %s is not active", "sleepy"))

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, jsonRequest("POST", "/login", handler.LoginRequest{Login: "sleepy", Password: "password123"}))

	// Assert
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockService.AssertExpectations(t)
}

func TestLogin_MissingFields(t *testing.T) {
	// Arrange
	router, mockService := setupTest()

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, jsonRequest("POST", "/login", map[string]string{"login": "x"}))

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockService.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetRole_ForbiddenForNonAdmin(t *testing.T) {
	// Arrange
	router, mockService := setupTest()
	actor := uuid.New()
	target := uuid.New()
	mockService.On("SetRole", mock.Anything, actor, target, model.RoleAdmin).Return(nil, apperr.Unauthorized())

	req := jsonRequest("PUT", "/users/"+target.String()+"/role", handler.RoleRequest{Role: model.RoleAdmin})
	req.Header.Set("Authorization", bearer(t, actor))

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Contains(t, resp.Body.String(), "you don't have access to this resource")
	mockService.AssertExpectations(t)
}

func TestSetRole_InvalidPathID(t *testing.T) {
	// Arrange
	router, _ := setupTest()
	req := jsonRequest("PUT", "/users/not-a-uuid/role", handler.RoleRequest{Role: model.RoleAdmin})
	req.Header.Set("Authorization", bearer(t, uuid.New()))

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestListUsers_PassesFilter(t *testing.T) {
	// Arrange
	router, mockService := setupTest()
	actor := uuid.New()
	filter := repository.UserFilter{ActiveOnly: true, Role: model.RoleTester}
	mockService.On("List", mock.Anything, actor, filter).Return([]model.User{*testUser()}, nil)

	req, _ := http.NewRequest("GET", "/users?active=true&role=TESTER", nil)
	req.Header.Set("Authorization", bearer(t, actor))

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	var users []handler.UserResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &users))
	assert.Len(t, users, 1)
	mockService.AssertExpectations(t)
}
