package services

import (
	"context"
	"time"

	"contenthub/internal/models"
	"contenthub/internal/pkg"
	"contenthub/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectService handles project lifecycle
type ProjectService struct {
	projectRepo repository.ProjectRepository
	auditRepo   repository.AuditLogRepository
	access      *AccessService
	logger      *pkg.Logger
}

// NewProjectService creates a new project service
func NewProjectService(
	projectRepo repository.ProjectRepository,
	auditRepo repository.AuditLogRepository,
	access *AccessService,
) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		auditRepo:   auditRepo,
		access:      access,
		logger:      pkg.NewLoggerWithPrefix(pkg.LevelInfo, "PROJECT"),
	}
}

// CreateProjectRequest represents project creation request
type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"max=500"`
}

// UpdateProjectRequest represents project update request
type UpdateProjectRequest struct {
	Name        *string               `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string               `json:"description,omitempty" validate:"omitempty,max=500"`
	Status      *models.ProjectStatus `json:"status,omitempty" validate:"omitempty,oneof=active archived"`
}

// CreateProject creates a project owned by username.
func (s *ProjectService) CreateProject(ctx context.Context, username string, req *CreateProjectRequest) (*models.Project, error) {
	if err := pkg.DefaultValidator.Validate(req); err != nil {
		return nil, pkg.ErrValidationFailed.WithDetails(map[string]interface{}{
			"errors": err,
		})
	}

	req.Name = pkg.Strings.SanitizeName(req.Name)
	if req.Name == "" {
		return nil, pkg.ErrInvalidInput.WithDetails(map[string]interface{}{
			"message": "Invalid project name",
		})
	}

	project := &models.Project{
		Name:        req.Name,
		Description: req.Description,
		Owner:       username,
		Status:      models.ProjectStatusActive,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.logProjectEvent(ctx, username, models.AuditActionProjectCreate, project.ID)

	return project, nil
}

// GetProject returns a project the caller may read.
func (s *ProjectService) GetProject(ctx context.Context, username string, projectID primitive.ObjectID) (*models.Project, error) {
	return s.access.Authorize(ctx, username, KindProject, projectID, OpRead)
}

// ListOwned lists projects owned by username.
func (s *ProjectService) ListOwned(ctx context.Context, username string, params *pkg.PaginationParams) ([]*models.Project, int64, error) {
	return s.projectRepo.ListByOwner(ctx, username, params)
}

// UpdateProject updates project metadata. Requires edit; archiving and
// unarchiving via the status field stays owner-only.
func (s *ProjectService) UpdateProject(ctx context.Context, username string, projectID primitive.ObjectID, req *UpdateProjectRequest) (*models.Project, error) {
	if err := pkg.DefaultValidator.Validate(req); err != nil {
		return nil, pkg.ErrValidationFailed.WithDetails(map[string]interface{}{
			"errors": err,
		})
	}

	project, err := s.access.Authorize(ctx, username, KindProject, projectID, OpUpdate)
	if err != nil {
		return nil, err
	}
	if req.Status != nil && project.Owner != username {
		return nil, pkg.ErrOwnerOnly
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := pkg.Strings.SanitizeName(*req.Name)
		if name == "" {
			return nil, pkg.ErrInvalidInput.WithDetails(map[string]interface{}{
				"message": "Invalid project name",
			})
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if len(updates) == 0 {
		return s.projectRepo.GetByID(ctx, projectID)
	}

	if err := s.projectRepo.Update(ctx, projectID, updates); err != nil {
		return nil, err
	}

	s.logProjectEvent(ctx, username, models.AuditActionProjectUpdate, projectID)

	return s.projectRepo.GetByID(ctx, projectID)
}

// DeleteProject soft-deletes a project. Owner only. Folders and content
// under it are left in place; they become unreachable through normal listings
// once the project stops resolving.
func (s *ProjectService) DeleteProject(ctx context.Context, username string, projectID primitive.ObjectID) error {
	if _, err := s.access.Authorize(ctx, username, KindProject, projectID, OpDelete); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		return err
	}

	s.logProjectEvent(ctx, username, models.AuditActionProjectDelete, projectID)

	return nil
}

func (s *ProjectService) logProjectEvent(ctx context.Context, username string, action models.AuditAction, projectID primitive.ObjectID) {
	entry := &models.AuditLog{
		Username:  username,
		Action:    action,
		Resource:  models.AuditResource{Kind: string(KindProject), ID: projectID},
		Success:   true,
		Severity:  models.AuditSeverityLow,
		Timestamp: time.Now(),
	}

	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to record project event", map[string]interface{}{
			"username": username,
			"action":   string(action),
			"error":    err.Error(),
		})
	}
}
