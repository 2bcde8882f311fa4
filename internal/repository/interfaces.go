package repository

import (
	"context"

	"contenthub/internal/models"
	"contenthub/internal/pkg"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// ExistingUsernames returns the subset of usernames that belong to real,
	// non-deleted users. Used for all-or-nothing grant validation.
	ExistingUsernames(ctx context.Context, usernames []string) ([]string, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
}

// ProjectRepository defines project repository interface. SetGrant and
// RemoveGrant are single conditional updates against the embedded shared_with
// array; they never rewrite the whole document, so concurrent grantors cannot
// clobber each other's entries.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListByOwner(ctx context.Context, owner string, params *pkg.PaginationParams) ([]*models.Project, int64, error)
	ListSharedWith(ctx context.Context, username string) ([]*models.Project, error)
	SetGrant(ctx context.Context, projectID primitive.ObjectID, grant models.ShareGrant) error
	RemoveGrant(ctx context.Context, projectID primitive.ObjectID, username string) error
}

// FolderRepository defines folder repository interface. The subfolder and
// asset mutations are atomic array updates keyed on the parent document still
// existing at write time.
type FolderRepository interface {
	Create(ctx context.Context, folder *models.Folder) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Folder, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListByProject(ctx context.Context, projectID primitive.ObjectID, params *pkg.PaginationParams) ([]*models.Folder, int64, error)
	ListByParent(ctx context.Context, parentID primitive.ObjectID) ([]*models.Folder, error)
	AddSubfolder(ctx context.Context, parentID, childID primitive.ObjectID) error
	RemoveSubfolder(ctx context.Context, parentID, childID primitive.ObjectID) error
	AddContentRef(ctx context.Context, folderID, contentID primitive.ObjectID) error
	RemoveContentRef(ctx context.Context, folderID, contentID primitive.ObjectID) error
	AddAssets(ctx context.Context, folderID primitive.ObjectID, images, notes []string) error
}

// ContentRepository defines content repository interface
type ContentRepository interface {
	Create(ctx context.Context, content *models.Content) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Content, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListByFolder(ctx context.Context, folderID primitive.ObjectID, params *pkg.PaginationParams) ([]*models.Content, int64, error)
	ListByProject(ctx context.Context, projectID primitive.ObjectID, params *pkg.PaginationParams) ([]*models.Content, int64, error)
	// SetFolder reassigns folder_id with the content's project_id in the
	// filter, so a mismatched project can never slip through the write.
	SetFolder(ctx context.Context, contentID, projectID, folderID primitive.ObjectID) error
}

// AuditLogRepository defines audit log repository interface
type AuditLogRepository interface {
	Create(ctx context.Context, log *models.AuditLog) error
	ListByUser(ctx context.Context, username string, params *pkg.PaginationParams) ([]*models.AuditLog, int64, error)
}

// Repository aggregates all repositories
type Repository struct {
	User     UserRepository
	Project  ProjectRepository
	Folder   FolderRepository
	Content  ContentRepository
	AuditLog AuditLogRepository
}
