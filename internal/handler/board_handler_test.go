package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"noteboard/internal/handler"
	"noteboard/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupBoardTest(userID uuid.UUID) (*gin.Engine, *MockBoardRepository, *MockUserRepository) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	mockBoardRepo := new(MockBoardRepository)
	mockUserRepo := new(MockUserRepository)
	boardHandler := handler.NewBoardHandler(mockBoardRepo, mockUserRepo)

	authed := r.Group("/")
	authed.Use(fakeAuth(userID))
	authed.GET("/boards/:id", boardHandler.GetByID)

	return r, mockBoardRepo, mockUserRepo
}

func TestGetBoard_TimestampIsRFC3339(t *testing.T) {
	// Arrange
	userID := uuid.New()
	orgID := uuid.New()
	boardID := uuid.New()
	router, mockBoardRepo, mockUserRepo := setupBoardTest(userID)

	createdAt := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	board := &model.Board{ID: boardID, OrganizationID: orgID, Name: "Sprint", CreatedBy: userID, CreatedAt: createdAt}
	user := &model.User{ID: userID, OrganizationID: &orgID}
	mockBoardRepo.On("GetByID", mock.Anything, boardID).Return(board, nil)
	mockUserRepo.On("GetByID", mock.Anything, userID).Return(user, nil)

	req, _ := http.NewRequest("GET", "/boards/"+boardID.String(), nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert: createdAt uses the same RFC3339 encoding as the note payloads
	assert.Equal(t, http.StatusOK, resp.Code)

	var raw map[string]interface{}
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &raw))
	parsed, err := time.Parse(time.RFC3339, raw["createdAt"].(string))
	assert.NoError(t, err)
	assert.True(t, parsed.Equal(createdAt))
}

func TestGetBoard_PrivateBoardCrossOrgForbidden(t *testing.T) {
	// Arrange
	userID := uuid.New()
	otherOrgID := uuid.New()
	boardID := uuid.New()
	router, mockBoardRepo, mockUserRepo := setupBoardTest(userID)

	board := &model.Board{ID: boardID, OrganizationID: uuid.New(), IsPublic: false}
	user := &model.User{ID: userID, OrganizationID: &otherOrgID}
	mockBoardRepo.On("GetByID", mock.Anything, boardID).Return(board, nil)
	mockUserRepo.On("GetByID", mock.Anything, userID).Return(user, nil)

	req, _ := http.NewRequest("GET", "/boards/"+boardID.String(), nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusForbidden, resp.Code)
}
