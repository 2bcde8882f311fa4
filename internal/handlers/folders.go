package handlers

import (
	"contenthub/internal/pkg"
	"contenthub/internal/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FolderHandler handles folder tree operations
type FolderHandler struct {
	hierarchyService *services.HierarchyService
	storageService   *services.StorageService
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(
	hierarchyService *services.HierarchyService,
	storageService *services.StorageService,
) *FolderHandler {
	return &FolderHandler{
		hierarchyService: hierarchyService,
		storageService:   storageService,
	}
}

// MoveFolderRequest represents folder move request
type MoveFolderRequest struct {
	// ParentFolder is the new parent id; null moves the folder to the
	// project root.
	ParentFolder *string `json:"parentFolder"`
}

// CreateFolder creates a new folder
func (h *FolderHandler) CreateFolder(c *gin.Context) {
	username := currentUsername(c)

	var req services.CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.BadRequestResponse(c, "Invalid request data: "+err.Error())
		return
	}

	folder, err := h.hierarchyService.CreateFolder(c.Request.Context(), username, &req)
	if err != nil {
		if appErr, ok := pkg.IsAppError(err); ok {
			pkg.ErrorResponseFromAppError(c, appErr)
			return
		}
		pkg.InternalServerErrorResponse(c, "Failed to create folder")
		return
	}

	pkg.CreatedResponse(c, "Folder created successfully", folder)
}

// GetFolder retrieves a folder by ID
func (h *FolderHandler) GetFolder(c *gin.Context) {
	username := currentUsername(c)
	folderID, ok := parseIDParam(c, "id")
	if !ok {
		pkg.BadRequestResponse(c, "Invalid folder ID")
		return
	}

	folder, err := h.hierarchyService.GetFolder(c.Request.Context(), username, folderID)
	if err != nil {
		if appErr, ok := pkg.IsAppError(err); ok {
			pkg.ErrorResponseFromAppError(c, appErr)
			return
		}
		pkg.InternalServerErrorResponse(c, "Failed to retrieve folder")
		return
	}

	pkg.SuccessResponse(c, 200, "Folder retrieved", folder)
}

// ListFolders lists a project's folders
func (h *FolderHandler) ListFolders(c *gin.Context) {
	username := currentUsername(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		pkg.BadRequestResponse(c, "Invalid project ID")
		return
	}

	params := pkg.NewPaginationParams(c)
	folders, total, err := h.hierarchyService.ListFolders(c.Request.Context(), username, projectID, params)
	if err != nil {
		if appErr, ok := pkg.IsAppError(err); ok {
			pkg.ErrorResponseFromAppError(c, appErr)
			return
		}
		pkg.InternalServerErrorResponse(c, "Failed to list folders")
		return
	}

	pkg.PaginatedResponse(c, "Folders retrieved", pkg.NewPaginationResult(folders, total, params))
}

// UpdateFolder updates folder metadata
func (h *FolderHandler) UpdateFolder(c *gin.Context) {
	username := currentUsername(c)
	folderID, ok := parseIDParam(c, "id")
	if !ok {
		pkg.BadRequestResponse(c, "Invalid folder ID")
		return
	}

	var req services.UpdateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.BadRequestResponse(c, "Invalid request data: "+err.Error())
		return
	}

	folder, err := h.hierarchyService.UpdateFolder(c.Request.Context(), username, folderID, &req)
	if err != nil {
		if appErr, ok := pkg.IsAppError(err); ok {
			pkg.ErrorResponseFromAppError(c, appErr)
			return
		}
		pkg.InternalServerErrorResponse(c, "Failed to update folder")
		return
	}

	pkg.UpdatedResponse(c, "Folder updated successfully", folder)
}

// DeleteFolder deletes a folder
func (h *FolderHandler) DeleteFolder(c *gin.Context) {
	username := currentUsername(c)
	folderID, ok := parseIDParam(c, "id")
	if !ok {
		pkg.BadRequestResponse(c, "Invalid folder ID")
		return
	}

	if err := h.hierarchyService.DeleteFolder(c.Request.Context(), username, folderID); err != nil {
		if appErr, ok := pkg.IsAppError(err); ok {
			pkg.ErrorResponseFromAppError(c, appErr)
			return
		}
		pkg.InternalServerErrorResponse(c, "Failed to delete folder")
		return
	}

	pkg.DeletedResponse(c, "Folder deleted successfully")
}

// MoveFolder reparents a folder
func (h *FolderHandler) MoveFolder(c *gin.Context) {
	username := currentUsername(c)
	folderID, ok := parseIDParam(c, "id")
	if !ok {
		pkg.BadRequestResponse(c, "Invalid folder ID")
		return
	}

	var req MoveFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.BadRequestResponse(c, "Invalid request data: "+err.Error())
		return
	}

	var newParent *primitive.ObjectID
	if req.ParentFolder != nil && *req.ParentFolder != "" {
		id, err := primitive.ObjectIDFromHex(*req.ParentFolder)
		if err != nil {
			pkg.BadRequestResponse(c, "Invalid parent folder ID")
			return
		}
		newParent = &id
	}

	if err := h.hierarchyService.MoveFolder(c.Request.Context(), username, folderID, newParent); err != nil {
		if appErr, ok := pkg.IsAppError(err); ok {
			pkg.ErrorResponseFromAppError(c, appErr)
			return
		}
		pkg.InternalServerErrorResponse(c, "Failed to move folder")
		return
	}

	pkg.UpdatedResponse(c, "Folder moved successfully", nil)
}

// AddAssets appends images and notes to a folder
func (h *FolderHandler) AddAssets(c *gin.Context) {
	username := currentUsername(c)
	folderID, ok := parseIDParam(c, "id")
	if !ok {
		pkg.BadRequestResponse(c, "Invalid folder ID")
		return
	}

	var req services.AddAssetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.BadRequestResponse(c, "Invalid request data: "+err.Error())
		return
	}

	if err := h.hierarchyService.AddAssets(c.Request.Context(), username, folderID, &req); err != nil {
		if appErr, ok := pkg.IsAppError(err); ok {
			pkg.ErrorResponseFromAppError(c, appErr)
			return
		}
		pkg.InternalServerErrorResponse(c, "Failed to add assets")
		return
	}

	pkg.UpdatedResponse(c, "Assets added successfully", nil)
}

// UploadImage uploads an image and appends its URL to the folder's assets
func (h *FolderHandler) UploadImage(c *gin.Context) {
	username := currentUsername(c)
	folderID, ok := parseIDParam(c, "id")
	if !ok {
		pkg.BadRequestResponse(c, "Invalid folder ID")
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		pkg.BadRequestResponse(c, "Image file required")
		return
	}
	defer file.Close()

	result, err := h.storageService.UploadImage(c.Request.Context(), username, file, header)
	if err != nil {
		if appErr, ok := pkg.IsAppError(err); ok {
			pkg.ErrorResponseFromAppError(c, appErr)
			return
		}
		pkg.InternalServerErrorResponse(c, "Failed to upload image")
		return
	}

	addReq := &services.AddAssetsRequest{Images: []string{result.URL}}
	if err := h.hierarchyService.AddAssets(c.Request.Context(), username, folderID, addReq); err != nil {
		// The upload succeeded but the folder write failed; clean up the blob.
		_ = h.storageService.DeleteImage(c.Request.Context(), result.Key)
		if appErr, ok := pkg.IsAppError(err); ok {
			pkg.ErrorResponseFromAppError(c, appErr)
			return
		}
		pkg.InternalServerErrorResponse(c, "Failed to attach image")
		return
	}

	pkg.CreatedResponse(c, "Image uploaded successfully", result)
}

// MoveContent moves a batch of content items into a folder
func (h *FolderHandler) MoveContent(c *gin.Context) {
	username := currentUsername(c)

	var req services.MoveContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.BadRequestResponse(c, "Invalid request data: "+err.Error())
		return
	}

	result, err := h.hierarchyService.MoveContent(c.Request.Context(), username, &req)
	if err != nil {
		if appErr, ok := pkg.IsAppError(err); ok {
			pkg.ErrorResponseFromAppError(c, appErr)
			return
		}
		pkg.InternalServerErrorResponse(c, "Failed to move content")
		return
	}

	pkg.SuccessResponse(c, 200, "Content move completed", result)
}
