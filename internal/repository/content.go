package repository

import (
	"context"
	"time"

	"contenthub/internal/models"
	"contenthub/internal/pkg"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type contentRepository struct {
	*BaseRepository
}

// NewContentRepository creates a new content repository
func NewContentRepository(db *MongoDB) ContentRepository {
	return &contentRepository{
		BaseRepository: NewBaseRepository(db, "contents"),
	}
}

func (r *contentRepository) Create(ctx context.Context, content *models.Content) error {
	content.ID = primitive.NewObjectID()
	content.CreatedAt = time.Now()
	content.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, content)
	return r.wrapError(err, pkg.ErrNotFoundOrDenied)
}

func (r *contentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Content, error) {
	var content models.Content
	if err := r.findByID(ctx, id, &content, pkg.ErrNotFoundOrDenied); err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *contentRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	return r.updateByID(ctx, id, updates, pkg.ErrNotFoundOrDenied)
}

func (r *contentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return pkg.ErrDatabaseError.WithCause(err)
	}
	if result.DeletedCount == 0 {
		return pkg.ErrNotFoundOrDenied
	}
	return nil
}

func (r *contentRepository) ListByFolder(ctx context.Context, folderID primitive.ObjectID, params *pkg.PaginationParams) ([]*models.Content, int64, error) {
	filter := bson.M{"folder_id": folderID}
	if params.Search != "" {
		filter["name"] = bson.M{"$regex": params.Search, "$options": "i"}
	}

	var contents []*models.Content
	total, err := r.paginatedFind(ctx, filter, params, &contents)
	if err != nil {
		return nil, 0, err
	}
	return contents, total, nil
}

func (r *contentRepository) ListByProject(ctx context.Context, projectID primitive.ObjectID, params *pkg.PaginationParams) ([]*models.Content, int64, error) {
	filter := bson.M{"project_id": projectID}
	if params.Search != "" {
		filter["name"] = bson.M{"$regex": params.Search, "$options": "i"}
	}

	var contents []*models.Content
	total, err := r.paginatedFind(ctx, filter, params, &contents)
	if err != nil {
		return nil, 0, err
	}
	return contents, total, nil
}

// SetFolder reassigns the content's folder. The filter pins project_id so the
// write fails instead of moving an item across project boundaries, even if the
// caller raced a concurrent change.
func (r *contentRepository) SetFolder(ctx context.Context, contentID, projectID, folderID primitive.ObjectID) error {
	filter := bson.M{"_id": contentID, "project_id": projectID}
	update := bson.M{"$set": bson.M{
		"folder_id":  folderID,
		"updated_at": time.Now(),
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return pkg.ErrDatabaseError.WithCause(err)
	}
	if result.MatchedCount == 0 {
		return pkg.ErrNotFoundOrDenied
	}
	return nil
}
