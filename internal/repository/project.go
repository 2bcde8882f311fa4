package repository

import (
	"context"
	"time"

	"contenthub/internal/models"
	"contenthub/internal/pkg"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type projectRepository struct {
	*BaseRepository
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *MongoDB) ProjectRepository {
	return &projectRepository{
		BaseRepository: NewBaseRepository(db, "projects"),
	}
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	project.ID = primitive.NewObjectID()
	project.CreatedAt = time.Now()
	project.UpdatedAt = time.Now()
	if project.Status == "" {
		project.Status = models.ProjectStatusActive
	}
	if project.SharedWith == nil {
		project.SharedWith = []models.ShareGrant{}
	}

	_, err := r.collection.InsertOne(ctx, project)
	return r.wrapError(err, pkg.ErrNotFoundOrDenied)
}

func (r *projectRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	filter := bson.M{"_id": id, "status": bson.M{"$ne": models.ProjectStatusDeleted}}
	err := r.collection.FindOne(ctx, filter).Decode(&project)
	if err != nil {
		return nil, r.wrapError(err, pkg.ErrNotFoundOrDenied)
	}
	return &project, nil
}

func (r *projectRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	filter := bson.M{"_id": id, "status": bson.M{"$ne": models.ProjectStatusDeleted}}
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": updates})
	if err != nil {
		return r.wrapError(err, pkg.ErrNotFoundOrDenied)
	}
	if result.MatchedCount == 0 {
		return pkg.ErrNotFoundOrDenied
	}
	return nil
}

// Delete marks the project deleted. Folders and content under it are not
// touched; deletes do not cascade.
func (r *projectRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.Update(ctx, id, map[string]interface{}{
		"status": models.ProjectStatusDeleted,
	})
}

func (r *projectRepository) ListByOwner(ctx context.Context, owner string, params *pkg.PaginationParams) ([]*models.Project, int64, error) {
	filter := bson.M{"owner": owner, "status": bson.M{"$ne": models.ProjectStatusDeleted}}
	if params.Search != "" {
		filter["name"] = bson.M{"$regex": params.Search, "$options": "i"}
	}

	var projects []*models.Project
	total, err := r.paginatedFind(ctx, filter, params, &projects)
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

func (r *projectRepository) ListSharedWith(ctx context.Context, username string) ([]*models.Project, error) {
	filter := bson.M{
		"shared_with.username": username,
		"status":               bson.M{"$ne": models.ProjectStatusDeleted},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, pkg.ErrDatabaseError.WithCause(err)
	}
	defer cursor.Close(ctx)

	var projects []*models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, pkg.ErrDatabaseError.WithCause(err)
	}
	return projects, nil
}

// SetGrant creates or replaces the grant for one username using two
// conditional single-document updates. The first targets an existing array
// slot and rewrites only its permission; the second pushes a new entry,
// guarded so it only fires when no slot for that username exists. Two
// concurrent grantors for the same username therefore converge on one entry
// instead of producing duplicates.
func (r *projectRepository) SetGrant(ctx context.Context, projectID primitive.ObjectID, grant models.ShareGrant) error {
	liveFilter := bson.M{"_id": projectID, "status": bson.M{"$ne": models.ProjectStatusDeleted}}

	updateFilter := bson.M{
		"_id":                  projectID,
		"status":               bson.M{"$ne": models.ProjectStatusDeleted},
		"shared_with.username": grant.Username,
	}
	update := bson.M{"$set": bson.M{
		"shared_with.$.permission": grant.Permission,
		"updated_at":               time.Now(),
	}}

	result, err := r.collection.UpdateOne(ctx, updateFilter, update)
	if err != nil {
		return pkg.ErrDatabaseError.WithCause(err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	pushFilter := bson.M{
		"_id":                  projectID,
		"status":               bson.M{"$ne": models.ProjectStatusDeleted},
		"shared_with.username": bson.M{"$ne": grant.Username},
	}
	push := bson.M{
		"$push": bson.M{"shared_with": grant},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	result, err = r.collection.UpdateOne(ctx, pushFilter, push)
	if err != nil {
		return pkg.ErrDatabaseError.WithCause(err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	// Neither update matched: either the project is gone, or a concurrent
	// grantor pushed the slot between our two updates. Retry the slot rewrite
	// once to settle the race.
	result, err = r.collection.UpdateOne(ctx, updateFilter, update)
	if err != nil {
		return pkg.ErrDatabaseError.WithCause(err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	if err := r.collection.FindOne(ctx, liveFilter).Err(); err != nil {
		return r.wrapError(err, pkg.ErrNotFoundOrDenied)
	}
	return pkg.ErrConflict
}

// RemoveGrant pulls the grant entry for username. Removing a grant that does
// not exist is a no-op, so it reports success either way as long as the
// project exists.
func (r *projectRepository) RemoveGrant(ctx context.Context, projectID primitive.ObjectID, username string) error {
	filter := bson.M{"_id": projectID, "status": bson.M{"$ne": models.ProjectStatusDeleted}}
	update := bson.M{
		"$pull": bson.M{"shared_with": bson.M{"username": username}},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return pkg.ErrDatabaseError.WithCause(err)
	}
	if result.MatchedCount == 0 {
		return pkg.ErrNotFoundOrDenied
	}
	return nil
}
