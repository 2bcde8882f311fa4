package repository

import (
	"context"
	"time"

	"contenthub/internal/models"
	"contenthub/internal/pkg"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type userRepository struct {
	*BaseRepository
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *MongoDB) UserRepository {
	return &userRepository{
		BaseRepository: NewBaseRepository(db, "users"),
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return pkg.ErrUsernameAlreadyTaken.WithCause(err)
	}
	return r.wrapError(err, pkg.ErrUserNotFound)
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := r.findByID(ctx, id, &user, pkg.ErrUserNotFound); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	filter := bson.M{"username": username, "deleted_at": bson.M{"$exists": false}}
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		return nil, r.wrapError(err, pkg.ErrUserNotFound)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	filter := bson.M{"email": email, "deleted_at": bson.M{"$exists": false}}
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		return nil, r.wrapError(err, pkg.ErrUserNotFound)
	}
	return &user, nil
}

func (r *userRepository) ExistingUsernames(ctx context.Context, usernames []string) ([]string, error) {
	filter := bson.M{
		"username":   bson.M{"$in": usernames},
		"deleted_at": bson.M{"$exists": false},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, pkg.ErrDatabaseError.WithCause(err)
	}
	defer cursor.Close(ctx)

	var found []string
	for cursor.Next(ctx) {
		var doc struct {
			Username string `bson:"username"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, pkg.ErrDatabaseError.WithCause(err)
		}
		found = append(found, doc.Username)
	}
	if err := cursor.Err(); err != nil {
		return nil, pkg.ErrDatabaseError.WithCause(err)
	}

	return found, nil
}

func (r *userRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	return r.updateByID(ctx, id, updates, pkg.ErrUserNotFound)
}
