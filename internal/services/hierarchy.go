package services

import (
	"context"
	"time"

	"contenthub/internal/models"
	"contenthub/internal/pkg"
	"contenthub/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HierarchyService owns the folder tree: nesting, moves, deletes, content
// placement, and loose assets. It keeps the Subfolders lists referentially
// symmetric with ParentFolder across every mutation.
type HierarchyService struct {
	folderRepo  repository.FolderRepository
	contentRepo repository.ContentRepository
	projectRepo repository.ProjectRepository
	auditRepo   repository.AuditLogRepository
	access      *AccessService
	logger      *pkg.Logger
}

// NewHierarchyService creates a new hierarchy service
func NewHierarchyService(
	folderRepo repository.FolderRepository,
	contentRepo repository.ContentRepository,
	projectRepo repository.ProjectRepository,
	auditRepo repository.AuditLogRepository,
	access *AccessService,
) *HierarchyService {
	return &HierarchyService{
		folderRepo:  folderRepo,
		contentRepo: contentRepo,
		projectRepo: projectRepo,
		auditRepo:   auditRepo,
		access:      access,
		logger:      pkg.NewLoggerWithPrefix(pkg.LevelInfo, "HIERARCHY"),
	}
}

// CreateFolderRequest represents folder creation request
type CreateFolderRequest struct {
	Name         string              `json:"name" validate:"required,min=1,max=255"`
	Description  string              `json:"description" validate:"max=500"`
	ProjectID    primitive.ObjectID  `json:"projectId" validate:"required"`
	ParentFolder *primitive.ObjectID `json:"parentFolder,omitempty"`
	IsPublic     bool                `json:"isPublic"`
}

// UpdateFolderRequest represents folder update request
type UpdateFolderRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	IsPublic    *bool   `json:"isPublic,omitempty"`
}

// MoveContentRequest represents a batch content move request
type MoveContentRequest struct {
	ContentIDs []primitive.ObjectID `json:"contentIds" validate:"required,min=1,max=100"`
	TargetID   primitive.ObjectID   `json:"targetId" validate:"required"`
}

// AddAssetsRequest represents an asset append request
type AddAssetsRequest struct {
	Images []string `json:"images" validate:"omitempty,max=50,dive,url"`
	Notes  []string `json:"notes" validate:"omitempty,max=50,dive,max=2000"`
}

// MoveContentResult reports the per-item outcome of a batch move.
type MoveContentResult struct {
	Moved  []primitive.ObjectID `json:"moved"`
	Failed []MoveFailure        `json:"failed"`
}

// MoveFailure is one item that could not be moved and why.
type MoveFailure struct {
	ContentID primitive.ObjectID `json:"contentId"`
	Error     string             `json:"error"`
}

// CreateFolder creates a folder, optionally nested under a parent of the same
// project. Requires edit on the project. The parent link and the parent's
// Subfolders entry are written together.
func (s *HierarchyService) CreateFolder(ctx context.Context, username string, req *CreateFolderRequest) (*models.Folder, error) {
	if err := pkg.DefaultValidator.Validate(req); err != nil {
		return nil, pkg.ErrValidationFailed.WithDetails(map[string]interface{}{
			"errors": err,
		})
	}

	req.Name = pkg.Strings.SanitizeName(req.Name)
	if req.Name == "" {
		return nil, pkg.ErrInvalidInput.WithDetails(map[string]interface{}{
			"message": "Invalid folder name",
		})
	}

	project, err := s.access.Authorize(ctx, username, KindProject, req.ProjectID, OpRead)
	if err != nil {
		return nil, err
	}
	if err := s.access.AuthorizeForProject(ctx, username, KindFolder, project, OpCreate); err != nil {
		return nil, err
	}
	if project.Status != models.ProjectStatusActive {
		return nil, pkg.ErrProjectNotActive
	}

	if req.ParentFolder != nil {
		parent, err := s.folderRepo.GetByID(ctx, *req.ParentFolder)
		if err != nil {
			return nil, err
		}
		if parent.ProjectID != req.ProjectID {
			return nil, pkg.ErrInvalidParent
		}
	}

	// The creator owns the folder, even when they are a grantee rather than
	// the project owner.
	folder := &models.Folder{
		Name:         req.Name,
		Description:  req.Description,
		Owner:        username,
		ProjectID:    req.ProjectID,
		ParentFolder: req.ParentFolder,
		IsPublic:     req.IsPublic,
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	if req.ParentFolder != nil {
		if err := s.folderRepo.AddSubfolder(ctx, *req.ParentFolder, folder.ID); err != nil {
			// Parent vanished between the check and the link. Remove the
			// half-created folder rather than leaving a dangling child.
			if derr := s.folderRepo.Delete(ctx, folder.ID); derr != nil {
				s.logger.Error("Failed to roll back folder after lost parent", map[string]interface{}{
					"folder_id": folder.ID.Hex(),
					"error":     derr.Error(),
				})
			}
			return nil, err
		}
	}

	s.logHierarchyEvent(ctx, username, models.AuditActionFolderCreate, KindFolder, folder.ID)

	return folder, nil
}

// GetFolder returns a folder after a read check against its project.
func (s *HierarchyService) GetFolder(ctx context.Context, username string, folderID primitive.ObjectID) (*models.Folder, error) {
	if _, err := s.access.Authorize(ctx, username, KindFolder, folderID, OpRead); err != nil {
		return nil, err
	}
	return s.folderRepo.GetByID(ctx, folderID)
}

// ListFolders lists a project's folders with pagination.
func (s *HierarchyService) ListFolders(ctx context.Context, username string, projectID primitive.ObjectID, params *pkg.PaginationParams) ([]*models.Folder, int64, error) {
	if _, err := s.access.Authorize(ctx, username, KindProject, projectID, OpRead); err != nil {
		return nil, 0, err
	}
	return s.folderRepo.ListByProject(ctx, projectID, params)
}

// UpdateFolder updates folder metadata. Requires edit.
func (s *HierarchyService) UpdateFolder(ctx context.Context, username string, folderID primitive.ObjectID, req *UpdateFolderRequest) (*models.Folder, error) {
	if err := pkg.DefaultValidator.Validate(req); err != nil {
		return nil, pkg.ErrValidationFailed.WithDetails(map[string]interface{}{
			"errors": err,
		})
	}

	if _, err := s.access.Authorize(ctx, username, KindFolder, folderID, OpUpdate); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := pkg.Strings.SanitizeName(*req.Name)
		if name == "" {
			return nil, pkg.ErrInvalidInput.WithDetails(map[string]interface{}{
				"message": "Invalid folder name",
			})
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsPublic != nil {
		updates["is_public"] = *req.IsPublic
	}
	if len(updates) == 0 {
		return s.folderRepo.GetByID(ctx, folderID)
	}

	if err := s.folderRepo.Update(ctx, folderID, updates); err != nil {
		return nil, err
	}

	s.logHierarchyEvent(ctx, username, models.AuditActionFolderUpdate, KindFolder, folderID)

	return s.folderRepo.GetByID(ctx, folderID)
}

// DeleteFolder deletes a single folder. The delete does not cascade: content
// rows keep their folder_id and subfolders keep their parent_folder pointer,
// both becoming orphans that no listing reaches through the tree. The only
// link repaired is the deleted folder's entry in its parent's Subfolders.
func (s *HierarchyService) DeleteFolder(ctx context.Context, username string, folderID primitive.ObjectID) error {
	if _, err := s.access.Authorize(ctx, username, KindFolder, folderID, OpDelete); err != nil {
		return err
	}

	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return err
	}

	if err := s.folderRepo.Delete(ctx, folderID); err != nil {
		return err
	}

	if folder.ParentFolder != nil {
		if err := s.folderRepo.RemoveSubfolder(ctx, *folder.ParentFolder, folderID); err != nil {
			s.logger.Error("Failed to unlink deleted folder from parent", map[string]interface{}{
				"folder_id": folderID.Hex(),
				"parent_id": folder.ParentFolder.Hex(),
				"error":     err.Error(),
			})
		}
	}

	s.logHierarchyEvent(ctx, username, models.AuditActionFolderDelete, KindFolder, folderID)

	return nil
}

// MoveFolder reparents a folder within its project. The new parent must
// belong to the same project and must not be the folder itself or any of its
// descendants.
func (s *HierarchyService) MoveFolder(ctx context.Context, username string, folderID primitive.ObjectID, newParent *primitive.ObjectID) error {
	if _, err := s.access.Authorize(ctx, username, KindFolder, folderID, OpMove); err != nil {
		return err
	}

	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return err
	}

	if newParent != nil {
		if *newParent == folderID {
			return pkg.ErrCycleDetected
		}
		parent, err := s.folderRepo.GetByID(ctx, *newParent)
		if err != nil {
			return err
		}
		if parent.ProjectID != folder.ProjectID {
			return pkg.ErrInvalidParent
		}
		ancestor, err := s.isAncestor(ctx, folderID, parent)
		if err != nil {
			return err
		}
		if ancestor {
			return pkg.ErrCycleDetected
		}
	}

	// Link the new parent before rewriting the pointer. A parent deleted
	// between the check above and here fails the link while the tree is
	// still in its old shape.
	if newParent != nil {
		if err := s.folderRepo.AddSubfolder(ctx, *newParent, folderID); err != nil {
			return err
		}
	}

	updates := map[string]interface{}{"parent_folder": newParent}
	if err := s.folderRepo.Update(ctx, folderID, updates); err != nil {
		if newParent != nil {
			if rerr := s.folderRepo.RemoveSubfolder(ctx, *newParent, folderID); rerr != nil {
				s.logger.Error("Failed to unlink folder after aborted move", map[string]interface{}{
					"folder_id": folderID.Hex(),
					"parent_id": newParent.Hex(),
					"error":     rerr.Error(),
				})
			}
		}
		return err
	}

	if folder.ParentFolder != nil && (newParent == nil || *folder.ParentFolder != *newParent) {
		if err := s.folderRepo.RemoveSubfolder(ctx, *folder.ParentFolder, folderID); err != nil {
			return err
		}
	}

	s.logHierarchyEvent(ctx, username, models.AuditActionFolderMove, KindFolder, folderID)

	return nil
}

// MoveContent moves a batch of content items into target. Each item is
// checked and moved independently: the batch is not atomic, and a failed item
// never blocks the rest. Every item must already belong to the target's
// project; the repository write re-checks that under the same filter.
func (s *HierarchyService) MoveContent(ctx context.Context, username string, req *MoveContentRequest) (*MoveContentResult, error) {
	if err := pkg.DefaultValidator.Validate(req); err != nil {
		return nil, pkg.ErrValidationFailed.WithDetails(map[string]interface{}{
			"errors": err,
		})
	}

	target, err := s.folderRepo.GetByID(ctx, req.TargetID)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.Authorize(ctx, username, KindFolder, req.TargetID, OpRead); err != nil {
		return nil, err
	}

	result := &MoveContentResult{}
	for _, contentID := range req.ContentIDs {
		if err := s.moveOne(ctx, username, contentID, target); err != nil {
			result.Failed = append(result.Failed, MoveFailure{
				ContentID: contentID,
				Error:     err.Error(),
			})
			continue
		}
		result.Moved = append(result.Moved, contentID)
	}

	if len(result.Moved) > 0 {
		s.logHierarchyEvent(ctx, username, models.AuditActionContentMove, KindFolder, req.TargetID)
	}

	return result, nil
}

func (s *HierarchyService) moveOne(ctx context.Context, username string, contentID primitive.ObjectID, target *models.Folder) error {
	if _, err := s.access.Authorize(ctx, username, KindContent, contentID, OpMove); err != nil {
		return err
	}

	content, err := s.contentRepo.GetByID(ctx, contentID)
	if err != nil {
		return err
	}
	if content.ProjectID != target.ProjectID {
		return pkg.ErrInvalidInput.WithDetails(map[string]interface{}{
			"message": "Content belongs to a different project",
		})
	}
	if content.FolderID == target.ID {
		return nil
	}

	if err := s.contentRepo.SetFolder(ctx, contentID, target.ProjectID, target.ID); err != nil {
		return err
	}

	if err := s.folderRepo.RemoveContentRef(ctx, content.FolderID, contentID); err != nil {
		return err
	}
	return s.folderRepo.AddContentRef(ctx, target.ID, contentID)
}

// AddAssets appends image URLs and notes to a folder. Appends are idempotent
// per value; existing assets are never rewritten. Requires edit.
func (s *HierarchyService) AddAssets(ctx context.Context, username string, folderID primitive.ObjectID, req *AddAssetsRequest) error {
	if err := pkg.DefaultValidator.Validate(req); err != nil {
		return pkg.ErrValidationFailed.WithDetails(map[string]interface{}{
			"errors": err,
		})
	}
	if len(req.Images) == 0 && len(req.Notes) == 0 {
		return nil
	}

	if _, err := s.access.Authorize(ctx, username, KindFolder, folderID, OpUpdate); err != nil {
		return err
	}

	images := pkg.Slices.UniqueStrings(req.Images)
	notes := pkg.Slices.UniqueStrings(req.Notes)

	if err := s.folderRepo.AddAssets(ctx, folderID, images, notes); err != nil {
		return err
	}

	s.logHierarchyEvent(ctx, username, models.AuditActionFolderUpdate, KindFolder, folderID)

	return nil
}

// isAncestor reports whether folderID appears on candidate's ancestor chain.
// The walk is bounded to guard against a corrupted chain looping forever.
func (s *HierarchyService) isAncestor(ctx context.Context, folderID primitive.ObjectID, candidate *models.Folder) (bool, error) {
	const maxDepth = 100

	current := candidate
	for depth := 0; depth < maxDepth; depth++ {
		if current.ParentFolder == nil {
			return false, nil
		}
		if *current.ParentFolder == folderID {
			return true, nil
		}
		parent, err := s.folderRepo.GetByID(ctx, *current.ParentFolder)
		if err != nil {
			// An orphaned chain ends here; nothing above can be folderID.
			if appErr, ok := pkg.IsAppError(err); ok && !appErr.Transient {
				return false, nil
			}
			return false, err
		}
		current = parent
	}
	return true, nil
}

func (s *HierarchyService) logHierarchyEvent(ctx context.Context, username string, action models.AuditAction, kind ResourceKind, id primitive.ObjectID) {
	entry := &models.AuditLog{
		Username:  username,
		Action:    action,
		Resource:  models.AuditResource{Kind: string(kind), ID: id},
		Success:   true,
		Severity:  models.AuditSeverityLow,
		Timestamp: time.Now(),
	}

	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to record hierarchy event", map[string]interface{}{
			"username": username,
			"action":   string(action),
			"error":    err.Error(),
		})
	}
}
