package handlers

import (
	"contenthub/internal/pkg"
	"contenthub/internal/services"

	"github.com/gin-gonic/gin"
)

// SharingHandler handles project sharing operations
type SharingHandler struct {
	sharingService *services.SharingService
}

// NewSharingHandler creates a new sharing handler
func NewSharingHandler(sharingService *services.SharingService) *SharingHandler {
	return &SharingHandler{sharingService: sharingService}
}

// Grant applies a batch of grants to a project
func (h *SharingHandler) Grant(c *gin.Context) {
	username := currentUsername(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		pkg.BadRequestResponse(c, "Invalid project ID")
		return
	}

	var req services.GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.BadRequestResponse(c, "Invalid request data: "+err.Error())
		return
	}

	grants, err := h.sharingService.Grant(c.Request.Context(), username, projectID, &req)
	if err != nil {
		if appErr, ok := pkg.IsAppError(err); ok {
			pkg.ErrorResponseFromAppError(c, appErr)
			return
		}
		pkg.InternalServerErrorResponse(c, "Failed to share project")
		return
	}

	pkg.UpdatedResponse(c, "Project shared successfully", grants)
}

// Revoke removes one grant from a project
func (h *SharingHandler) Revoke(c *gin.Context) {
	username := currentUsername(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		pkg.BadRequestResponse(c, "Invalid project ID")
		return
	}

	grantee := c.Param("username")
	if grantee == "" {
		pkg.BadRequestResponse(c, "Username required")
		return
	}

	if err := h.sharingService.Revoke(c.Request.Context(), username, projectID, grantee); err != nil {
		if appErr, ok := pkg.IsAppError(err); ok {
			pkg.ErrorResponseFromAppError(c, appErr)
			return
		}
		pkg.InternalServerErrorResponse(c, "Failed to revoke access")
		return
	}

	pkg.UpdatedResponse(c, "Access revoked successfully", nil)
}

// ListGrants lists a project's grants
func (h *SharingHandler) ListGrants(c *gin.Context) {
	username := currentUsername(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		pkg.BadRequestResponse(c, "Invalid project ID")
		return
	}

	grants, err := h.sharingService.ListGrants(c.Request.Context(), username, projectID)
	if err != nil {
		if appErr, ok := pkg.IsAppError(err); ok {
			pkg.ErrorResponseFromAppError(c, appErr)
			return
		}
		pkg.InternalServerErrorResponse(c, "Failed to list grants")
		return
	}

	pkg.SuccessResponse(c, 200, "Grants retrieved", grants)
}
