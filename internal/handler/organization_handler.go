package handler

import (
	"net/http"

	"noteboard/internal/model"
	"noteboard/internal/repository"

	"github.com/gin-gonic/gin"
)

type OrganizationHandler struct {
	orgRepo repository.OrganizationRepositoryInterface
}

func NewOrganizationHandler(orgRepo repository.OrganizationRepositoryInterface) *OrganizationHandler {
	return &OrganizationHandler{orgRepo: orgRepo}
}

type CreateOrganizationRequest struct {
	Name       string `json:"name" binding:"required"`
	WebhookURL string `json:"webhookUrl"`
}

// Create godoc
// @Summary  Create an organization and become its admin
// @Tags     Organizations
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    request body CreateOrganizationRequest true "organization data"
// @Success  201 {object} map[string]interface{}
// @Router   /organizations [post]
func (h *OrganizationHandler) Create(c *gin.Context) {
	userID, ok := authenticatedUserID(c)
	if !ok {
		return
	}

	var req CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	org := &model.Organization{
		Name:       req.Name,
		WebhookURL: req.WebhookURL,
	}

	// Creator gets an admin membership and the new organization becomes
	// their active one, atomically.
	if err := h.orgRepo.CreateWithAdmin(c.Request.Context(), org, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create organization"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":   org.ID.String(),
		"name": org.Name,
	})
}
