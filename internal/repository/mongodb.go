package repository

import (
	"context"
	"fmt"
	"time"

	"contenthub/internal/pkg"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDB represents MongoDB connection
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
	logger   *pkg.Logger
}

// NewMongoDB creates a new MongoDB connection
func NewMongoDB(uri, dbName string) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(100).
		SetMinPoolSize(10).
		SetMaxConnIdleTime(30 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := &MongoDB{
		Client:   client,
		Database: client.Database(dbName),
		logger:   pkg.NewLoggerWithPrefix(pkg.LevelInfo, "MONGODB"),
	}

	if err := db.createIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	db.logger.Info("Connected to MongoDB", map[string]interface{}{
		"database": dbName,
	})

	return db, nil
}

// Close closes the MongoDB connection
func (db *MongoDB) Close(ctx context.Context) error {
	return db.Client.Disconnect(ctx)
}

// createIndexes creates required indexes for all collections
func (db *MongoDB) createIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		"users": {
			{
				Keys:    bson.D{{Key: "username", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		"projects": {
			{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "shared_with.username", Value: 1}}},
		},
		"folders": {
			{Keys: bson.D{{Key: "project_id", Value: 1}}},
			{Keys: bson.D{{Key: "parent_folder", Value: 1}}},
			{Keys: bson.D{{Key: "owner", Value: 1}}},
		},
		"contents": {
			{Keys: bson.D{{Key: "project_id", Value: 1}}},
			{Keys: bson.D{{Key: "folder_id", Value: 1}}},
			{Keys: bson.D{{Key: "owner", Value: 1}}},
		},
		"audit_logs": {
			{Keys: bson.D{{Key: "username", Value: 1}, {Key: "timestamp", Value: -1}}},
			{Keys: bson.D{{Key: "resource.kind", Value: 1}, {Key: "resource.id", Value: 1}}},
		},
	}

	for collection, models := range indexes {
		if len(models) == 0 {
			continue
		}
		if _, err := db.Database.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", collection, err)
		}
	}

	return nil
}

// BaseRepository provides common repository functionality
type BaseRepository struct {
	collection *mongo.Collection
	logger     *pkg.Logger
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db *MongoDB, collectionName string) *BaseRepository {
	return &BaseRepository{
		collection: db.Database.Collection(collectionName),
		logger:     pkg.NewLoggerWithPrefix(pkg.LevelInfo, "REPOSITORY"),
	}
}

// wrapError maps driver errors to the app error taxonomy. ErrNoDocuments
// becomes the existence-hiding not-found; everything else is a transient
// database error that callers may retry.
func (r *BaseRepository) wrapError(err error, notFound *pkg.AppError) error {
	if err == nil {
		return nil
	}
	if err == mongo.ErrNoDocuments {
		return notFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return pkg.ErrConflict.WithCause(err)
	}
	return pkg.ErrDatabaseError.WithCause(err)
}

// findByID retrieves a non-deleted document by its ObjectID
func (r *BaseRepository) findByID(ctx context.Context, id primitive.ObjectID, result interface{}, notFound *pkg.AppError) error {
	filter := bson.M{"_id": id, "deleted_at": bson.M{"$exists": false}}
	err := r.collection.FindOne(ctx, filter).Decode(result)
	return r.wrapError(err, notFound)
}

// updateByID applies a $set update to a single document, requiring it to exist
func (r *BaseRepository) updateByID(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}, notFound *pkg.AppError) error {
	updates["updated_at"] = time.Now()

	filter := bson.M{"_id": id, "deleted_at": bson.M{"$exists": false}}
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": updates})
	if err != nil {
		return r.wrapError(err, notFound)
	}
	if result.MatchedCount == 0 {
		return notFound
	}
	return nil
}

// paginatedFind runs a filtered, sorted, paginated query and a matching count
func (r *BaseRepository) paginatedFind(ctx context.Context, filter bson.M, params *pkg.PaginationParams, results interface{}) (int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, pkg.ErrDatabaseError.WithCause(err)
	}

	opts := options.Find().
		SetSkip(int64(params.GetOffset())).
		SetLimit(int64(params.Limit)).
		SetSort(bson.D{{Key: params.Sort, Value: params.GetSortDirection()}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return 0, pkg.ErrDatabaseError.WithCause(err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, results); err != nil {
		return 0, pkg.ErrDatabaseError.WithCause(err)
	}

	return total, nil
}
