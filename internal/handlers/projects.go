package handlers

import (
	"contenthub/internal/pkg"
	"contenthub/internal/services"

	"github.com/gin-gonic/gin"
)

// ProjectHandler handles project management operations
type ProjectHandler struct {
	projectService *services.ProjectService
	sharingService *services.SharingService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(
	projectService *services.ProjectService,
	sharingService *services.SharingService,
) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		sharingService: sharingService,
	}
}

// CreateProject creates a new project
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	username := currentUsername(c)
	if username == "" {
		pkg.UnauthorizedResponse(c, "Authentication required")
		return
	}

	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.BadRequestResponse(c, "Invalid request data: "+err.Error())
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), username, &req)
	if err != nil {
		if appErr, ok := pkg.IsAppError(err); ok {
			pkg.ErrorResponseFromAppError(c, appErr)
			return
		}
		pkg.InternalServerErrorResponse(c, "Failed to create project")
		return
	}

	pkg.CreatedResponse(c, "Project created successfully", project)
}

// GetProject retrieves a project by ID
func (h *ProjectHandler) GetProject(c *gin.Context) {
	username := currentUsername(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		pkg.BadRequestResponse(c, "Invalid project ID")
		return
	}

	project, err := h.projectService.GetProject(c.Request.Context(), username, projectID)
	if err != nil {
		if appErr, ok := pkg.IsAppError(err); ok {
			pkg.ErrorResponseFromAppError(c, appErr)
			return
		}
		pkg.InternalServerErrorResponse(c, "Failed to retrieve project")
		return
	}

	pkg.SuccessResponse(c, 200, "Project retrieved", project)
}

// ListProjects lists the caller's own projects
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	username := currentUsername(c)
	params := pkg.NewPaginationParams(c)

	projects, total, err := h.projectService.ListOwned(c.Request.Context(), username, params)
	if err != nil {
		if appErr, ok := pkg.IsAppError(err); ok {
			pkg.ErrorResponseFromAppError(c, appErr)
			return
		}
		pkg.InternalServerErrorResponse(c, "Failed to list projects")
		return
	}

	pkg.PaginatedResponse(c, "Projects retrieved", pkg.NewPaginationResult(projects, total, params))
}

// ListSharedProjects lists projects shared with the caller
func (h *ProjectHandler) ListSharedProjects(c *gin.Context) {
	username := currentUsername(c)

	shared, err := h.sharingService.ListForUser(c.Request.Context(), username)
	if err != nil {
		if appErr, ok := pkg.IsAppError(err); ok {
			pkg.ErrorResponseFromAppError(c, appErr)
			return
		}
		pkg.InternalServerErrorResponse(c, "Failed to list shared projects")
		return
	}

	pkg.SuccessResponse(c, 200, "Shared projects retrieved", shared)
}

// UpdateProject updates project metadata
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	username := currentUsername(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		pkg.BadRequestResponse(c, "Invalid project ID")
		return
	}

	var req services.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.BadRequestResponse(c, "Invalid request data: "+err.Error())
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), username, projectID, &req)
	if err != nil {
		if appErr, ok := pkg.IsAppError(err); ok {
			pkg.ErrorResponseFromAppError(c, appErr)
			return
		}
		pkg.InternalServerErrorResponse(c, "Failed to update project")
		return
	}

	pkg.UpdatedResponse(c, "Project updated successfully", project)
}

// DeleteProject deletes a project
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	username := currentUsername(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		pkg.BadRequestResponse(c, "Invalid project ID")
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), username, projectID); err != nil {
		if appErr, ok := pkg.IsAppError(err); ok {
			pkg.ErrorResponseFromAppError(c, appErr)
			return
		}
		pkg.InternalServerErrorResponse(c, "Failed to delete project")
		return
	}

	pkg.DeletedResponse(c, "Project deleted successfully")
}
