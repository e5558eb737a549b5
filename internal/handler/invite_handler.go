package handler

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"noteboard/internal/model"
	"noteboard/internal/repository"

	"github.com/gin-gonic/gin"
)

type InviteHandler struct {
	inviteRepo     repository.InviteRepositoryInterface
	membershipRepo repository.MembershipRepositoryInterface
	userRepo       repository.UserRepositoryInterface
}

func NewInviteHandler(inviteRepo repository.InviteRepositoryInterface, membershipRepo repository.MembershipRepositoryInterface, userRepo repository.UserRepositoryInterface) *InviteHandler {
	return &InviteHandler{
		inviteRepo:     inviteRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
	}
}

type CreateInviteRequest struct {
	ExpiresAt  *time.Time `json:"expiresAt"`
	UsageLimit *int       `json:"usageLimit"`
}

// Create godoc
// @Summary  Create a self-serve invite link for the active organization
// @Tags     Invites
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    request body CreateInviteRequest true "invite options"
// @Success  201 {object} map[string]interface{}
// @Router   /organizations/invites [post]
func (h *InviteHandler) Create(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil || user == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return
	}
	if user.OrganizationID == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "No active organization"})
		return
	}

	// Admin check against the membership, not the cached user flag.
	membership, err := h.membershipRepo.Find(c.Request.Context(), userID, *user.OrganizationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify membership"})
		return
	}
	if membership == nil || !membership.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	var req CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	token, err := generateInviteToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	invite := &model.SelfServeInvite{
		Token:          token,
		OrganizationID: *user.OrganizationID,
		IsActive:       true,
		ExpiresAt:      req.ExpiresAt,
		UsageLimit:     req.UsageLimit,
		CreatedBy:      userID,
	}

	if err := h.inviteRepo.Create(c.Request.Context(), invite); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invite"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": invite.Token})
}

// Join godoc
// @Summary  Join an organization through a self-serve invite token
// @Tags     Invites
// @Produce  json
// @Security BearerAuth
// @Param    token path string true "invite token"
// @Success  200 {object} map[string]interface{}
// @Router   /join/{token} [post]
func (h *InviteHandler) Join(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	invite, err := h.inviteRepo.FindByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up invite"})
		return
	}
	if invite == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid or expired invitation link"})
		return
	}
	if !invite.IsActive {
		c.JSON(http.StatusGone, gin.H{"error": "This invitation link has been deactivated"})
		return
	}
	if invite.ExpiresAt != nil && invite.ExpiresAt.Before(time.Now()) {
		c.JSON(http.StatusGone, gin.H{"error": "This invitation link has expired"})
		return
	}
	if invite.UsageLimit != nil && invite.UsageCount >= *invite.UsageLimit {
		c.JSON(http.StatusGone, gin.H{"error": "This invitation link has reached its usage limit"})
		return
	}

	if err := h.inviteRepo.Redeem(c.Request.Context(), invite, userID); err != nil {
		if errors.Is(err, repository.ErrAlreadyMember) {
			c.JSON(http.StatusConflict, gin.H{"error": "You are already a member of this organization"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join organization"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"organizationId": invite.OrganizationID.String(),
	})
}

func generateInviteToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
