package handlers

import (
	"contenthub/internal/pkg"
	"contenthub/internal/services"

	"github.com/gin-gonic/gin"
)

// ContentHandler handles content item operations
type ContentHandler struct {
	contentService *services.ContentService
}

// NewContentHandler creates a new content handler
func NewContentHandler(contentService *services.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// CreateContent creates a content item, optionally generating its text
func (h *ContentHandler) CreateContent(c *gin.Context) {
	username := currentUsername(c)

	var req services.CreateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.BadRequestResponse(c, "Invalid request data: "+err.Error())
		return
	}

	content, err := h.contentService.CreateContent(c.Request.Context(), username, &req)
	if err != nil {
		if appErr, ok := pkg.IsAppError(err); ok {
			pkg.ErrorResponseFromAppError(c, appErr)
			return
		}
		pkg.InternalServerErrorResponse(c, "Failed to create content")
		return
	}

	pkg.CreatedResponse(c, "Content created successfully", content)
}

// GetContent retrieves a content item by ID
func (h *ContentHandler) GetContent(c *gin.Context) {
	username := currentUsername(c)
	contentID, ok := parseIDParam(c, "id")
	if !ok {
		pkg.BadRequestResponse(c, "Invalid content ID")
		return
	}

	content, err := h.contentService.GetContent(c.Request.Context(), username, contentID)
	if err != nil {
		if appErr, ok := pkg.IsAppError(err); ok {
			pkg.ErrorResponseFromAppError(c, appErr)
			return
		}
		pkg.InternalServerErrorResponse(c, "Failed to retrieve content")
		return
	}

	pkg.SuccessResponse(c, 200, "Content retrieved", content)
}

// ListContent lists a folder's content items
func (h *ContentHandler) ListContent(c *gin.Context) {
	username := currentUsername(c)
	folderID, ok := parseIDParam(c, "id")
	if !ok {
		pkg.BadRequestResponse(c, "Invalid folder ID")
		return
	}

	params := pkg.NewPaginationParams(c)
	contents, total, err := h.contentService.ListByFolder(c.Request.Context(), username, folderID, params)
	if err != nil {
		if appErr, ok := pkg.IsAppError(err); ok {
			pkg.ErrorResponseFromAppError(c, appErr)
			return
		}
		pkg.InternalServerErrorResponse(c, "Failed to list content")
		return
	}

	pkg.PaginatedResponse(c, "Content retrieved", pkg.NewPaginationResult(contents, total, params))
}

// UpdateContent updates a content item
func (h *ContentHandler) UpdateContent(c *gin.Context) {
	username := currentUsername(c)
	contentID, ok := parseIDParam(c, "id")
	if !ok {
		pkg.BadRequestResponse(c, "Invalid content ID")
		return
	}

	var req services.UpdateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.BadRequestResponse(c, "Invalid request data: "+err.Error())
		return
	}

	content, err := h.contentService.UpdateContent(c.Request.Context(), username, contentID, &req)
	if err != nil {
		if appErr, ok := pkg.IsAppError(err); ok {
			pkg.ErrorResponseFromAppError(c, appErr)
			return
		}
		pkg.InternalServerErrorResponse(c, "Failed to update content")
		return
	}

	pkg.UpdatedResponse(c, "Content updated successfully", content)
}

// DeleteContent deletes a content item
func (h *ContentHandler) DeleteContent(c *gin.Context) {
	username := currentUsername(c)
	contentID, ok := parseIDParam(c, "id")
	if !ok {
		pkg.BadRequestResponse(c, "Invalid content ID")
		return
	}

	if err := h.contentService.DeleteContent(c.Request.Context(), username, contentID); err != nil {
		if appErr, ok := pkg.IsAppError(err); ok {
			pkg.ErrorResponseFromAppError(c, appErr)
			return
		}
		pkg.InternalServerErrorResponse(c, "Failed to delete content")
		return
	}

	pkg.DeletedResponse(c, "Content deleted successfully")
}
