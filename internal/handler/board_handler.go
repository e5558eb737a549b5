package handler

import (
	"net/http"
	"time"

	"noteboard/internal/model"
	"noteboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BoardHandler struct {
	boardRepo repository.BoardRepositoryInterface
	userRepo  repository.UserRepositoryInterface
}

func NewBoardHandler(boardRepo repository.BoardRepositoryInterface, userRepo repository.UserRepositoryInterface) *BoardHandler {
	return &BoardHandler{
		boardRepo: boardRepo,
		userRepo:  userRepo,
	}
}

type CreateBoardRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsPublic    bool   `json:"isPublic"`
}

type UpdateBoardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    *bool  `json:"isPublic"`
}

type BoardResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organizationId"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	IsPublic       bool      `json:"isPublic"`
	CreatedBy      string    `json:"createdBy"`
	CreatedAt      time.Time `json:"createdAt"`
}

func boardResponse(board *model.Board) BoardResponse {
	return BoardResponse{
		ID:             board.ID.String(),
		OrganizationID: board.OrganizationID.String(),
		Name:           board.Name,
		Description:    board.Description,
		IsPublic:       board.IsPublic,
		CreatedBy:      board.CreatedBy.String(),
		CreatedAt:      board.CreatedAt,
	}
}

// activeOrganization loads the caller and requires an active organization,
// writing the error response when there is none.
func (h *BoardHandler) activeOrganization(c *gin.Context, userID uuid.UUID) (uuid.UUID, bool) {
	user, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil || user == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return uuid.Nil, false
	}
	if user.OrganizationID == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "No active organization"})
		return uuid.Nil, false
	}
	return *user.OrganizationID, true
}

// Create godoc
// @Summary  Create a board in the active organization
// @Tags     Boards
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    request body CreateBoardRequest true "board data"
// @Success  201 {object} BoardResponse
// @Router   /boards [post]
func (h *BoardHandler) Create(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}
	orgID, ok := h.activeOrganization(c, userID)
	if !ok {
		return
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	board := &model.Board{
		OrganizationID: orgID,
		Name:           req.Name,
		Description:    req.Description,
		IsPublic:       req.IsPublic,
		CreatedBy:      userID,
	}

	if err := h.boardRepo.Create(c.Request.Context(), board); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create board"})
		return
	}

	c.JSON(http.StatusCreated, boardResponse(board))
}

// GetAll godoc
// @Summary  List boards in the active organization
// @Tags     Boards
// @Produce  json
// @Security BearerAuth
// @Success  200 {array} BoardResponse
// @Router   /boards [get]
func (h *BoardHandler) GetAll(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}
	orgID, ok := h.activeOrganization(c, userID)
	if !ok {
		return
	}

	boards, err := h.boardRepo.ListByOrganization(c.Request.Context(), orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve boards"})
		return
	}

	response := make([]BoardResponse, len(boards))
	for i := range boards {
		response[i] = boardResponse(&boards[i])
	}
	c.JSON(http.StatusOK, response)
}

// GetByID godoc
// @Summary  Get a board
// @Tags     Boards
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "board id"
// @Success  200 {object} BoardResponse
// @Router   /boards/{id} [get]
func (h *BoardHandler) GetByID(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}

	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return
	}
	if board == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		return
	}

	// Public boards are readable from any organization context.
	if !board.IsPublic {
		orgID, ok := h.activeOrganization(c, userID)
		if !ok {
			return
		}
		if board.OrganizationID != orgID {
			c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to access this board"})
			return
		}
	}

	c.JSON(http.StatusOK, boardResponse(board))
}

// Update godoc
// @Summary  Update a board
// @Tags     Boards
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "board id"
// @Param    request body UpdateBoardRequest true "fields to update"
// @Success  200 {object} BoardResponse
// @Router   /boards/{id} [put]
func (h *BoardHandler) Update(c *gin.Context) {
	board, ok := h.writableBoard(c)
	if !ok {
		return
	}

	var req UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Name != "" {
		board.Name = req.Name
	}
	if req.Description != "" {
		board.Description = req.Description
	}
	if req.IsPublic != nil {
		board.IsPublic = *req.IsPublic
	}

	if err := h.boardRepo.Update(c.Request.Context(), board); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update board"})
		return
	}

	c.JSON(http.StatusOK, boardResponse(board))
}

// Delete godoc
// @Summary  Delete a board
// @Tags     Boards
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "board id"
// @Success  200 {object} map[string]interface{}
// @Router   /boards/{id} [delete]
func (h *BoardHandler) Delete(c *gin.Context) {
	board, ok := h.writableBoard(c)
	if !ok {
		return
	}

	if err := h.boardRepo.Delete(c.Request.Context(), board.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete board"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// writableBoard loads the board from the :id param and requires it to belong
// to the caller's active organization.
func (h *BoardHandler) writableBoard(c *gin.Context) (*model.Board, bool) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return nil, false
	}

	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return nil, false
	}

	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return nil, false
	}
	if board == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		return nil, false
	}

	orgID, ok := h.activeOrganization(c, userID)
	if !ok {
		return nil, false
	}
	if board.OrganizationID != orgID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to modify this board"})
		return nil, false
	}

	return board, true
}
