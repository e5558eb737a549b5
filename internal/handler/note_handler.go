package handler

import (
	"net/http"
	"time"

	"noteboard/internal/model"
	"noteboard/internal/realtime"
	"noteboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NoteHandler struct {
	noteRepo  repository.NoteRepositoryInterface
	boardRepo repository.BoardRepositoryInterface
	userRepo  repository.UserRepositoryInterface
	publisher realtime.EventPublisher
}

func NewNoteHandler(noteRepo repository.NoteRepositoryInterface, boardRepo repository.BoardRepositoryInterface, userRepo repository.UserRepositoryInterface, publisher realtime.EventPublisher) *NoteHandler {
	return &NoteHandler{
		noteRepo:  noteRepo,
		boardRepo: boardRepo,
		userRepo:  userRepo,
		publisher: publisher,
	}
}

type CreateNoteRequest struct {
	Color string              `json:"color"`
	Items []ChecklistItemBody `json:"items"`
}

type UpdateNoteRequest struct {
	Color    string `json:"color"`
	Archived *bool  `json:"archived"`
}

type ChecklistItemBody struct {
	Content   string `json:"content" binding:"required"`
	Checked   bool   `json:"checked"`
	SortOrder int    `json:"sortOrder"`
}

type UpdateChecklistItemRequest struct {
	Content   *string `json:"content"`
	Checked   *bool   `json:"checked"`
	SortOrder *int    `json:"sortOrder"`
}

type ChecklistItemResponse struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Checked   bool   `json:"checked"`
	SortOrder int    `json:"sortOrder"`
}

type NoteResponse struct {
	ID        string                  `json:"id"`
	BoardID   string                  `json:"boardId"`
	Color     string                  `json:"color"`
	Archived  bool                    `json:"archived"`
	CreatedBy string                  `json:"createdBy"`
	CreatedAt time.Time               `json:"createdAt"`
	UpdatedAt time.Time               `json:"updatedAt"`
	Items     []ChecklistItemResponse `json:"items"`
}

func noteResponse(note *model.Note) NoteResponse {
	items := make([]ChecklistItemResponse, len(note.ChecklistItems))
	for i, item := range note.ChecklistItems {
		items[i] = ChecklistItemResponse{
			ID:        item.ID.String(),
			Content:   item.Content,
			Checked:   item.Checked,
			SortOrder: item.SortOrder,
		}
	}
	return NoteResponse{
		ID:        note.ID.String(),
		BoardID:   note.BoardID.String(),
		Color:     note.Color,
		Archived:  note.Archived,
		CreatedBy: note.CreatedBy.String(),
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
		Items:     items,
	}
}

// List godoc
// @Summary  List notes on a board
// @Tags     Notes
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "board id"
// @Success  200 {array} NoteResponse
// @Router   /boards/{id}/notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	board, ok := h.readableBoard(c)
	if !ok {
		return
	}

	notes, err := h.noteRepo.ListByBoard(c.Request.Context(), board.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notes"})
		return
	}

	response := make([]NoteResponse, len(notes))
	for i := range notes {
		response[i] = noteResponse(&notes[i])
	}
	c.JSON(http.StatusOK, response)
}

// Create godoc
// @Summary  Create a note on a board
// @Tags     Notes
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "board id"
// @Param    request body CreateNoteRequest true "note data"
// @Success  201 {object} NoteResponse
// @Router   /boards/{id}/notes [post]
func (h *NoteHandler) Create(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}
	board, ok := h.writableBoard(c, userID)
	if !ok {
		return
	}

	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	note := &model.Note{
		BoardID:   board.ID,
		CreatedBy: userID,
	}
	if req.Color != "" {
		note.Color = req.Color
	}
	for _, item := range req.Items {
		note.ChecklistItems = append(note.ChecklistItems, model.ChecklistItem{
			Content:   item.Content,
			Checked:   item.Checked,
			SortOrder: item.SortOrder,
		})
	}

	if err := h.noteRepo.Create(c.Request.Context(), note); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create note"})
		return
	}

	resp := noteResponse(note)
	// The durable write is committed; notify subscribers best-effort.
	h.publisher.PublishBoardEvent(c.Request.Context(), board.ID.String(), realtime.EventNoteCreated, resp)
	c.JSON(http.StatusCreated, resp)
}

// Update godoc
// @Summary  Update a note
// @Tags     Notes
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "note id"
// @Param    request body UpdateNoteRequest true "fields to update"
// @Success  200 {object} NoteResponse
// @Router   /notes/{id} [put]
func (h *NoteHandler) Update(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}
	note, ok := h.writableNote(c, userID, c.Param("id"))
	if !ok {
		return
	}

	var req UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	// Field-level last-write-wins; no version check.
	if req.Color != "" {
		note.Color = req.Color
	}
	if req.Archived != nil {
		note.Archived = *req.Archived
	}

	if err := h.noteRepo.Update(c.Request.Context(), note); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update note"})
		return
	}

	resp := noteResponse(note)
	h.publisher.PublishBoardEvent(c.Request.Context(), note.BoardID.String(), realtime.EventNoteUpdated, resp)
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary  Delete a note
// @Tags     Notes
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "note id"
// @Success  200 {object} map[string]interface{}
// @Router   /notes/{id} [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}
	note, ok := h.writableNote(c, userID, c.Param("id"))
	if !ok {
		return
	}

	if err := h.noteRepo.Delete(c.Request.Context(), note.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete note"})
		return
	}

	// Deletions only need the id on the wire; subscribers drop the note.
	h.publisher.PublishBoardEvent(c.Request.Context(), note.BoardID.String(), realtime.EventNoteDeleted, gin.H{"id": note.ID.String()})
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AddItem godoc
// @Summary  Add a checklist item to a note
// @Tags     Notes
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "note id"
// @Param    request body ChecklistItemBody true "item data"
// @Success  201 {object} NoteResponse
// @Router   /notes/{id}/items [post]
func (h *NoteHandler) AddItem(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}
	note, ok := h.writableNote(c, userID, c.Param("id"))
	if !ok {
		return
	}

	var req ChecklistItemBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	item := &model.ChecklistItem{
		NoteID:    note.ID,
		Content:   req.Content,
		Checked:   req.Checked,
		SortOrder: req.SortOrder,
	}
	if err := h.noteRepo.AddItem(c.Request.Context(), item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item"})
		return
	}

	resp, ok := h.publishNoteUpdated(c, note.ID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve note"})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// UpdateItem godoc
// @Summary  Update a checklist item
// @Tags     Notes
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "note id"
// @Param    itemId path string true "item id"
// @Param    request body UpdateChecklistItemRequest true "fields to update"
// @Success  200 {object} NoteResponse
// @Router   /notes/{id}/items/{itemId} [put]
func (h *NoteHandler) UpdateItem(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}
	note, ok := h.writableNote(c, userID, c.Param("id"))
	if !ok {
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID format"})
		return
	}

	item, err := h.noteRepo.GetItem(c.Request.Context(), itemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve item"})
		return
	}
	if item == nil || item.NoteID != note.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	var req UpdateChecklistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Content != nil {
		item.Content = *req.Content
	}
	if req.Checked != nil {
		item.Checked = *req.Checked
	}
	if req.SortOrder != nil {
		item.SortOrder = *req.SortOrder
	}

	if err := h.noteRepo.UpdateItem(c.Request.Context(), item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update item"})
		return
	}

	resp, ok := h.publishNoteUpdated(c, note.ID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve note"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteItem godoc
// @Summary  Delete a checklist item
// @Tags     Notes
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "note id"
// @Param    itemId path string true "item id"
// @Success  200 {object} map[string]interface{}
// @Router   /notes/{id}/items/{itemId} [delete]
func (h *NoteHandler) DeleteItem(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}
	note, ok := h.writableNote(c, userID, c.Param("id"))
	if !ok {
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID format"})
		return
	}

	item, err := h.noteRepo.GetItem(c.Request.Context(), itemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve item"})
		return
	}
	if item == nil || item.NoteID != note.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	if err := h.noteRepo.DeleteItem(c.Request.Context(), itemID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
		return
	}

	h.publishNoteUpdated(c, note.ID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// publishNoteUpdated re-reads the note with its items and broadcasts the
// full representation. Checklist mutations are note updates on the wire.
func (h *NoteHandler) publishNoteUpdated(c *gin.Context, noteID uuid.UUID) (NoteResponse, bool) {
	note, err := h.noteRepo.GetByID(c.Request.Context(), noteID)
	if err != nil || note == nil {
		return NoteResponse{}, false
	}
	resp := noteResponse(note)
	h.publisher.PublishBoardEvent(c.Request.Context(), note.BoardID.String(), realtime.EventNoteUpdated, resp)
	return resp, true
}

// readableBoard resolves the :id board param for read access (public boards
// readable from any organization context).
func (h *NoteHandler) readableBoard(c *gin.Context) (*model.Board, bool) {
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

	if board.IsPublic {
		return board, true
	}
	if !h.requireActiveOrg(c, userID, board) {
		return nil, false
	}
	return board, true
}

func (h *NoteHandler) writableBoard(c *gin.Context, userID uuid.UUID) (*model.Board, bool) {
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
	if !h.requireActiveOrg(c, userID, board) {
		return nil, false
	}
	return board, true
}

// writableNote resolves a note id and requires write access to its board.
func (h *NoteHandler) writableNote(c *gin.Context, userID uuid.UUID, idParam string) (*model.Note, bool) {
	noteID, err := uuid.Parse(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid note ID format"})
		return nil, false
	}

	note, err := h.noteRepo.GetByID(c.Request.Context(), noteID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve note"})
		return nil, false
	}
	if note == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
		return nil, false
	}

	board, err := h.boardRepo.GetByID(c.Request.Context(), note.BoardID)
	if err != nil || board == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		return nil, false
	}
	if !h.requireActiveOrg(c, userID, board) {
		return nil, false
	}
	return note, true
}

func (h *NoteHandler) requireActiveOrg(c *gin.Context, userID uuid.UUID, board *model.Board) bool {
	user, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil || user == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return false
	}
	if user.OrganizationID == nil || *user.OrganizationID != board.OrganizationID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to access this board"})
		return false
	}
	return true
}
