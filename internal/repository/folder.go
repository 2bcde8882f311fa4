package repository

import (
	"context"
	"time"

	"contenthub/internal/models"
	"contenthub/internal/pkg"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type folderRepository struct {
	*BaseRepository
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(db *MongoDB) FolderRepository {
	return &folderRepository{
		BaseRepository: NewBaseRepository(db, "folders"),
	}
}

func (r *folderRepository) Create(ctx context.Context, folder *models.Folder) error {
	folder.ID = primitive.NewObjectID()
	folder.CreatedAt = time.Now()
	folder.UpdatedAt = time.Now()
	if folder.Subfolders == nil {
		folder.Subfolders = []primitive.ObjectID{}
	}
	if folder.Content == nil {
		folder.Content = []primitive.ObjectID{}
	}
	if folder.Images == nil {
		folder.Images = []string{}
	}
	if folder.Notes == nil {
		folder.Notes = []string{}
	}

	_, err := r.collection.InsertOne(ctx, folder)
	return r.wrapError(err, pkg.ErrNotFoundOrDenied)
}

func (r *folderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Folder, error) {
	var folder models.Folder
	if err := r.findByID(ctx, id, &folder, pkg.ErrNotFoundOrDenied); err != nil {
		return nil, err
	}
	return &folder, nil
}

func (r *folderRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	return r.updateByID(ctx, id, updates, pkg.ErrNotFoundOrDenied)
}

// Delete removes just this folder document. Children keep their parent_folder
// reference and become orphans; deletes never cascade.
func (r *folderRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return pkg.ErrDatabaseError.WithCause(err)
	}
	if result.DeletedCount == 0 {
		return pkg.ErrNotFoundOrDenied
	}
	return nil
}

func (r *folderRepository) ListByProject(ctx context.Context, projectID primitive.ObjectID, params *pkg.PaginationParams) ([]*models.Folder, int64, error) {
	filter := bson.M{"project_id": projectID}
	if params.Search != "" {
		filter["name"] = bson.M{"$regex": params.Search, "$options": "i"}
	}

	var folders []*models.Folder
	total, err := r.paginatedFind(ctx, filter, params, &folders)
	if err != nil {
		return nil, 0, err
	}
	return folders, total, nil
}

func (r *folderRepository) ListByParent(ctx context.Context, parentID primitive.ObjectID) ([]*models.Folder, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"parent_folder": parentID})
	if err != nil {
		return nil, pkg.ErrDatabaseError.WithCause(err)
	}
	defer cursor.Close(ctx)

	var folders []*models.Folder
	if err := cursor.All(ctx, &folders); err != nil {
		return nil, pkg.ErrDatabaseError.WithCause(err)
	}
	return folders, nil
}

// AddSubfolder links childID into the parent's subfolders list. $addToSet
// keeps the link idempotent and leaves unrelated entries untouched under
// concurrent writers.
func (r *folderRepository) AddSubfolder(ctx context.Context, parentID, childID primitive.ObjectID) error {
	update := bson.M{
		"$addToSet": bson.M{"subfolders": childID},
		"$set":      bson.M{"updated_at": time.Now()},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": parentID}, update)
	if err != nil {
		return pkg.ErrDatabaseError.WithCause(err)
	}
	if result.MatchedCount == 0 {
		return pkg.ErrInvalidParent
	}
	return nil
}

func (r *folderRepository) RemoveSubfolder(ctx context.Context, parentID, childID primitive.ObjectID) error {
	update := bson.M{
		"$pull": bson.M{"subfolders": childID},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	// The parent may itself have been deleted already; an unlink against a
	// missing parent is not an error.
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": parentID}, update); err != nil {
		return pkg.ErrDatabaseError.WithCause(err)
	}
	return nil
}

func (r *folderRepository) AddContentRef(ctx context.Context, folderID, contentID primitive.ObjectID) error {
	update := bson.M{
		"$addToSet": bson.M{"content": contentID},
		"$set":      bson.M{"updated_at": time.Now()},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": folderID}, update)
	if err != nil {
		return pkg.ErrDatabaseError.WithCause(err)
	}
	if result.MatchedCount == 0 {
		return pkg.ErrNotFoundOrDenied
	}
	return nil
}

func (r *folderRepository) RemoveContentRef(ctx context.Context, folderID, contentID primitive.ObjectID) error {
	update := bson.M{
		"$pull": bson.M{"content": contentID},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": folderID}, update); err != nil {
		return pkg.ErrDatabaseError.WithCause(err)
	}
	return nil
}

// AddAssets appends images and notes in one update. $each with $addToSet
// dedupes repeated values while preserving everything already stored.
func (r *folderRepository) AddAssets(ctx context.Context, folderID primitive.ObjectID, images, notes []string) error {
	addToSet := bson.M{}
	if len(images) > 0 {
		addToSet["images"] = bson.M{"$each": images}
	}
	if len(notes) > 0 {
		addToSet["notes"] = bson.M{"$each": notes}
	}
	if len(addToSet) == 0 {
		return nil
	}

	update := bson.M{
		"$addToSet": addToSet,
		"$set":      bson.M{"updated_at": time.Now()},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": folderID}, update)
	if err != nil {
		return pkg.ErrDatabaseError.WithCause(err)
	}
	if result.MatchedCount == 0 {
		return pkg.ErrNotFoundOrDenied
	}
	return nil
}
