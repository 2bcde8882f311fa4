package repository

import (
	"context"
	"time"

	"contenthub/internal/models"
	"contenthub/internal/pkg"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type auditLogRepository struct {
	*BaseRepository
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *MongoDB) AuditLogRepository {
	return &auditLogRepository{
		BaseRepository: NewBaseRepository(db, "audit_logs"),
	}
}

func (r *auditLogRepository) Create(ctx context.Context, log *models.AuditLog) error {
	log.ID = primitive.NewObjectID()
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		return pkg.ErrDatabaseError.WithCause(err)
	}
	return nil
}

func (r *auditLogRepository) ListByUser(ctx context.Context, username string, params *pkg.PaginationParams) ([]*models.AuditLog, int64, error) {
	filter := bson.M{"username": username}
	if params != nil && params.Sort == "created_at" {
		params.Sort = "timestamp"
	}

	var logs []*models.AuditLog
	total, err := r.paginatedFind(ctx, filter, params, &logs)
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
