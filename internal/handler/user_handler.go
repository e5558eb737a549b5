package handler

import (
	"net/http"
	"strings"
	"time"

	"noteboard/internal/auth"
	"noteboard/internal/middleware"
	"noteboard/internal/model"
	"noteboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserHandler struct {
	userRepo       repository.UserRepositoryInterface
	membershipRepo repository.MembershipRepositoryInterface
}

func NewUserHandler(userRepo repository.UserRepositoryInterface, membershipRepo repository.MembershipRepositoryInterface) *UserHandler {
	return &UserHandler{
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=2"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SwitchOrganizationRequest struct {
	OrganizationID string `json:"organizationId"`
}

type OrganizationSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsAdmin   bool      `json:"isAdmin"`
	JoinedAt  time.Time `json:"joinedAt"`
	IsCurrent bool      `json:"isCurrent"`
}

type CurrentUserResponse struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Email        string                `json:"email"`
	IsAdmin      bool                  `json:"isAdmin"`
	Organization *OrganizationDetail   `json:"organization"`
	Organizations []OrganizationSummary `json:"organizations"`
}

type OrganizationDetail struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	WebhookURL string `json:"webhookUrl,omitempty"`
}

// Register godoc
// @Summary  Register a new user
// @Tags     Users
// @Accept   json
// @Produce  json
// @Param    request body RegisterRequest true "registration data"
// @Success  201 {object} map[string]interface{}
// @Router   /register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	req.Email = strings.ToLower(req.Email)

	existing, err := h.userRepo.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Hash error"})
		return
	}

	user := &model.User{
		ID:             uuid.New(),
		Email:          req.Email,
		Name:           req.Name,
		HashedPassword: string(hash),
	}

	if err := h.userRepo.Create(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
	})
}

// Login godoc
// @Summary  Authenticate and receive a JWT
// @Tags     Users
// @Accept   json
// @Produce  json
// @Param    request body LoginRequest true "credentials"
// @Success  200 {object} map[string]interface{}
// @Router   /login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, err := h.userRepo.FindByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(user.ID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// GetCurrent godoc
// @Summary  Get the current user with all organization memberships
// @Tags     Users
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} CurrentUserResponse
// @Router   /user [get]
func (h *UserHandler) GetCurrent(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	user, err := h.userRepo.GetByIDWithOrganization(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	memberships, err := h.membershipRepo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve memberships"})
		return
	}

	orgs := make([]OrganizationSummary, len(memberships))
	for i, m := range memberships {
		orgs[i] = OrganizationSummary{
			ID:        m.OrganizationID.String(),
			Name:      m.Organization.Name,
			IsAdmin:   m.IsAdmin,
			JoinedAt:  m.JoinedAt,
			IsCurrent: user.OrganizationID != nil && *user.OrganizationID == m.OrganizationID,
		}
	}

	resp := CurrentUserResponse{
		ID:            user.ID.String(),
		Name:          user.Name,
		Email:         user.Email,
		IsAdmin:       user.IsAdmin,
		Organizations: orgs,
	}
	if user.Organization != nil {
		resp.Organization = &OrganizationDetail{
			ID:         user.Organization.ID.String(),
			Name:       user.Organization.Name,
			WebhookURL: user.Organization.WebhookURL,
		}
	}

	c.JSON(http.StatusOK, resp)
}

// SwitchOrganization godoc
// @Summary  Switch the user's active organization
// @Tags     Users
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    request body SwitchOrganizationRequest true "target organization"
// @Success  200 {object} map[string]interface{}
// @Failure  403 {object} map[string]interface{}
// @Router   /user/switch-organization [post]
func (h *UserHandler) SwitchOrganization(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	var req SwitchOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OrganizationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Organization ID is required"})
		return
	}

	organizationID, err := uuid.Parse(req.OrganizationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid organization ID format"})
		return
	}

	// The membership check is the invariant guard: the active organization
	// may only ever point at an organization the user belongs to.
	membership, err := h.membershipRepo.Find(c.Request.Context(), userID, organizationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify membership"})
		return
	}
	if membership == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this organization"})
		return
	}

	if err := h.userRepo.SetActiveOrganization(c.Request.Context(), userID, organizationID, membership.IsAdmin); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to switch organization"})
		return
	}

	// The client is expected to refetch all organization-scoped state after
	// a switch rather than patch incrementally.
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// authenticatedUserID pulls the uuid set by the auth middleware, writing the
// error response itself when missing.
func authenticatedUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return uuid.Nil, false
	}
	userID, ok := v.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return uuid.Nil, false
	}
	return userID, true
}
