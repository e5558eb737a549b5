package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"noteboard/internal/handler"
	"noteboard/internal/middleware"
	"noteboard/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDWithOrganization(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) SetActiveOrganization(ctx context.Context, userID, organizationID uuid.UUID, isAdmin bool) error {
	args := m.Called(ctx, userID, organizationID, isAdmin)
	return args.Error(0)
}

type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) Create(ctx context.Context, membership *model.Membership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockMembershipRepository) Find(ctx context.Context, userID, organizationID uuid.UUID) (*model.Membership, error) {
	args := m.Called(ctx, userID, organizationID)
	membership := args.Get(0)
	if membership == nil {
		return nil, args.Error(1)
	}
	return membership.(*model.Membership), args.Error(1)
}

func (m *MockMembershipRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Membership, error) {
	args := m.Called(ctx, userID)
	memberships := args.Get(0)
	if memberships == nil {
		return nil, args.Error(1)
	}
	return memberships.([]model.Membership), args.Error(1)
}

func (m *MockMembershipRepository) ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]model.Membership, error) {
	args := m.Called(ctx, organizationID)
	memberships := args.Get(0)
	if memberships == nil {
		return nil, args.Error(1)
	}
	return memberships.([]model.Membership), args.Error(1)
}

// fakeAuth injects the user id the way the JWT middleware would.
func fakeAuth(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	}
}

func setupUserTest(userID uuid.UUID) (*gin.Engine, *MockUserRepository, *MockMembershipRepository) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	mockUserRepo := new(MockUserRepository)
	mockMembershipRepo := new(MockMembershipRepository)
	userHandler := handler.NewUserHandler(mockUserRepo, mockMembershipRepo)

	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)

	authed := r.Group("/")
	authed.Use(fakeAuth(userID))
	authed.GET("/user", userHandler.GetCurrent)
	authed.POST("/user/switch-organization", userHandler.SwitchOrganization)

	os.Setenv("JWT_SECRET", "test-secret")
	return r, mockUserRepo, mockMembershipRepo
}

func TestRegister_Success(t *testing.T) {
	// Arrange
	router, mockUserRepo, _ := setupUserTest(uuid.New())

	mockUserRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, nil)
	mockUserRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	reqBody := handler.RegisterRequest{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
	}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusCreated, resp.Code)
	mockUserRepo.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	// Arrange
	router, mockUserRepo, _ := setupUserTest(uuid.New())

	existing := &model.User{ID: uuid.New(), Email: "test@example.com"}
	mockUserRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(existing, nil)

	reqBody := handler.RegisterRequest{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
	}
	jsonBody, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusConflict, resp.Code)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSwitchOrganization_Success(t *testing.T) {
	// Arrange
	userID := uuid.New()
	orgID := uuid.New()
	router, mockUserRepo, mockMembershipRepo := setupUserTest(userID)

	membership := &model.Membership{
		ID:             uuid.New(),
		UserID:         userID,
		OrganizationID: orgID,
		IsAdmin:        false,
	}
	mockMembershipRepo.On("Find", mock.Anything, userID, orgID).Return(membership, nil)
	mockUserRepo.On("SetActiveOrganization", mock.Anything, userID, orgID, false).Return(nil)

	jsonBody, _ := json.Marshal(handler.SwitchOrganizationRequest{OrganizationID: orgID.String()})
	req, _ := http.NewRequest("POST", "/user/switch-organization", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert: the admin flag passed through comes from the target membership
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"success":true`)
	mockUserRepo.AssertExpectations(t)
	mockMembershipRepo.AssertExpectations(t)
}

func TestSwitchOrganization_NotAMember(t *testing.T) {
	// Arrange
	userID := uuid.New()
	orgID := uuid.New()
	router, mockUserRepo, mockMembershipRepo := setupUserTest(userID)

	mockMembershipRepo.On("Find", mock.Anything, userID, orgID).Return(nil, nil)

	jsonBody, _ := json.Marshal(handler.SwitchOrganizationRequest{OrganizationID: orgID.String()})
	req, _ := http.NewRequest("POST", "/user/switch-organization", bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert: rejected with no state change
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Contains(t, resp.Body.String(), "not a member")
	mockUserRepo.AssertNotCalled(t, "SetActiveOrganization", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSwitchOrganization_MissingID(t *testing.T) {
	// Arrange
	router, mockUserRepo, _ := setupUserTest(uuid.New())

	req, _ := http.NewRequest("POST", "/user/switch-organization", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockUserRepo.AssertNotCalled(t, "SetActiveOrganization", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetCurrent_MarksActiveOrganization(t *testing.T) {
	// Arrange
	userID := uuid.New()
	activeOrgID := uuid.New()
	otherOrgID := uuid.New()
	router, mockUserRepo, mockMembershipRepo := setupUserTest(userID)

	user := &model.User{
		ID:             userID,
		Email:          "test@example.com",
		Name:           "Test User",
		IsAdmin:        true,
		OrganizationID: &activeOrgID,
		Organization:   &model.Organization{ID: activeOrgID, Name: "Active Org"},
	}
	memberships := []model.Membership{
		{
			UserID:         userID,
			OrganizationID: activeOrgID,
			IsAdmin:        true,
			JoinedAt:       time.Now(),
			Organization:   model.Organization{ID: activeOrgID, Name: "Active Org"},
		},
		{
			UserID:         userID,
			OrganizationID: otherOrgID,
			IsAdmin:        false,
			JoinedAt:       time.Now().Add(-time.Hour),
			Organization:   model.Organization{ID: otherOrgID, Name: "Other Org"},
		},
	}
	mockUserRepo.On("GetByIDWithOrganization", mock.Anything, userID).Return(user, nil)
	mockMembershipRepo.On("ListByUser", mock.Anything, userID).Return(memberships, nil)

	req, _ := http.NewRequest("GET", "/user", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var body handler.CurrentUserResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, userID.String(), body.ID)
	assert.NotNil(t, body.Organization)
	assert.Equal(t, activeOrgID.String(), body.Organization.ID)
	assert.Len(t, body.Organizations, 2)
	assert.True(t, body.Organizations[0].IsCurrent)
	assert.False(t, body.Organizations[1].IsCurrent)
}
