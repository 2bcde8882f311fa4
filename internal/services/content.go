package services

import (
	"context"
	"time"

	"contenthub/internal/models"
	"contenthub/internal/pkg"
	"contenthub/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContentService handles content items. All content writes are owner
// operations; grantees only ever read.
type ContentService struct {
	contentRepo repository.ContentRepository
	folderRepo  repository.FolderRepository
	auditRepo   repository.AuditLogRepository
	access      *AccessService
	generation  *GenerationService
	logger      *pkg.Logger
}

// NewContentService creates a new content service
func NewContentService(
	contentRepo repository.ContentRepository,
	folderRepo repository.FolderRepository,
	auditRepo repository.AuditLogRepository,
	access *AccessService,
	generation *GenerationService,
) *ContentService {
	return &ContentService{
		contentRepo: contentRepo,
		folderRepo:  folderRepo,
		auditRepo:   auditRepo,
		access:      access,
		generation:  generation,
		logger:      pkg.NewLoggerWithPrefix(pkg.LevelInfo, "CONTENT"),
	}
}

// CreateContentRequest represents content creation request
type CreateContentRequest struct {
	Name     string                 `json:"name" validate:"required,min=1,max=255"`
	Type     models.ContentType     `json:"type" validate:"required"`
	FolderID primitive.ObjectID     `json:"folderId" validate:"required"`
	Prompt   string                 `json:"prompt" validate:"max=5000"`
	Text     string                 `json:"text" validate:"max=50000"`
	Params   map[string]interface{} `json:"params,omitempty"`
	// Generate asks the text generation backend to produce Text from Prompt.
	Generate bool `json:"generate"`
}

// UpdateContentRequest represents content update request
type UpdateContentRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Text *string `json:"text,omitempty" validate:"omitempty,max=50000"`
}

// CreateContent creates a content item inside a folder. Only the project
// owner may create content, even collaborators with edit grants. The item's
// ProjectID is taken from the folder, never from the request.
func (s *ContentService) CreateContent(ctx context.Context, username string, req *CreateContentRequest) (*models.Content, error) {
	if err := pkg.DefaultValidator.Validate(req); err != nil {
		return nil, pkg.ErrValidationFailed.WithDetails(map[string]interface{}{
			"errors": err,
		})
	}
	if !req.Type.IsValid() {
		return nil, pkg.ErrInvalidInput.WithDetails(map[string]interface{}{
			"message": "Unknown content type",
			"type":    string(req.Type),
		})
	}

	folder, err := s.folderRepo.GetByID(ctx, req.FolderID)
	if err != nil {
		return nil, err
	}

	project, err := s.access.Authorize(ctx, username, KindProject, folder.ProjectID, OpRead)
	if err != nil {
		return nil, err
	}
	if err := s.access.AuthorizeForProject(ctx, username, KindContent, project, OpCreate); err != nil {
		return nil, err
	}
	if project.Status != models.ProjectStatusActive {
		return nil, pkg.ErrProjectNotActive
	}

	text := req.Text
	if req.Generate {
		generated, err := s.generation.Generate(ctx, &GenerateRequest{
			Type:   req.Type,
			Prompt: req.Prompt,
			Params: req.Params,
		})
		if err != nil {
			return nil, err
		}
		text = generated.Text
	}

	content := &models.Content{
		Name:      pkg.Strings.SanitizeName(req.Name),
		Type:      req.Type,
		Owner:     username,
		ProjectID: folder.ProjectID,
		FolderID:  folder.ID,
		Data: models.ContentData{
			Prompt: req.Prompt,
			Text:   text,
			Params: req.Params,
		},
	}

	if err := s.contentRepo.Create(ctx, content); err != nil {
		return nil, err
	}

	if err := s.folderRepo.AddContentRef(ctx, folder.ID, content.ID); err != nil {
		if derr := s.contentRepo.Delete(ctx, content.ID); derr != nil {
			s.logger.Error("Failed to roll back content after lost folder", map[string]interface{}{
				"content_id": content.ID.Hex(),
				"error":      derr.Error(),
			})
		}
		return nil, err
	}

	s.logContentEvent(ctx, username, models.AuditActionContentCreate, content.ID)

	return content, nil
}

// GetContent returns a content item the caller may read.
func (s *ContentService) GetContent(ctx context.Context, username string, contentID primitive.ObjectID) (*models.Content, error) {
	if _, err := s.access.Authorize(ctx, username, KindContent, contentID, OpRead); err != nil {
		return nil, err
	}
	return s.contentRepo.GetByID(ctx, contentID)
}

// ListByFolder lists a folder's content with pagination.
func (s *ContentService) ListByFolder(ctx context.Context, username string, folderID primitive.ObjectID, params *pkg.PaginationParams) ([]*models.Content, int64, error) {
	if _, err := s.access.Authorize(ctx, username, KindFolder, folderID, OpRead); err != nil {
		return nil, 0, err
	}
	return s.contentRepo.ListByFolder(ctx, folderID, params)
}

// UpdateContent edits a content item. Owner only.
func (s *ContentService) UpdateContent(ctx context.Context, username string, contentID primitive.ObjectID, req *UpdateContentRequest) (*models.Content, error) {
	if err := pkg.DefaultValidator.Validate(req); err != nil {
		return nil, pkg.ErrValidationFailed.WithDetails(map[string]interface{}{
			"errors": err,
		})
	}

	if _, err := s.access.Authorize(ctx, username, KindContent, contentID, OpUpdate); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := pkg.Strings.SanitizeName(*req.Name)
		if name == "" {
			return nil, pkg.ErrInvalidInput.WithDetails(map[string]interface{}{
				"message": "Invalid content name",
			})
		}
		updates["name"] = name
	}
	if req.Text != nil {
		updates["data.text"] = *req.Text
	}
	if len(updates) == 0 {
		return s.contentRepo.GetByID(ctx, contentID)
	}

	if err := s.contentRepo.Update(ctx, contentID, updates); err != nil {
		return nil, err
	}

	s.logContentEvent(ctx, username, models.AuditActionContentUpdate, contentID)

	return s.contentRepo.GetByID(ctx, contentID)
}

// DeleteContent removes a content item and its reference in the containing
// folder. Owner only.
func (s *ContentService) DeleteContent(ctx context.Context, username string, contentID primitive.ObjectID) error {
	if _, err := s.access.Authorize(ctx, username, KindContent, contentID, OpDelete); err != nil {
		return err
	}

	content, err := s.contentRepo.GetByID(ctx, contentID)
	if err != nil {
		return err
	}

	if err := s.contentRepo.Delete(ctx, contentID); err != nil {
		return err
	}

	if err := s.folderRepo.RemoveContentRef(ctx, content.FolderID, contentID); err != nil {
		s.logger.Error("Failed to unlink deleted content from folder", map[string]interface{}{
			"content_id": contentID.Hex(),
			"folder_id":  content.FolderID.Hex(),
			"error":      err.Error(),
		})
	}

	s.logContentEvent(ctx, username, models.AuditActionContentDelete, contentID)

	return nil
}

func (s *ContentService) logContentEvent(ctx context.Context, username string, action models.AuditAction, contentID primitive.ObjectID) {
	entry := &models.AuditLog{
		Username:  username,
		Action:    action,
		Resource:  models.AuditResource{Kind: string(KindContent), ID: contentID},
		Success:   true,
		Severity:  models.AuditSeverityLow,
		Timestamp: time.Now(),
	}

	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to record content event", map[string]interface{}{
			"username": username,
			"action":   string(action),
			"error":    err.Error(),
		})
	}
}
