package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/secstack/identity-api/internal/core/domain"
)

const auditCollection = "audit_events"

// MongoAuditRepository appends security events. Records are write-only from
// the service's point of view; operators query them out of band.
type MongoAuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuditEvent struct {
	Type      string `bson:"type"`
	Username  string `bson:"username"`
	Detail    string `bson:"detail,omitempty"`
	CreatedAt int64  `bson:"created_at"`
}

func (r *MongoAuditRepository) Insert(ctx context.Context, event domain.AuditEvent) error {
	doc := mongoAuditEvent{
		Type:      event.Type,
		Username:  event.Username,
		Detail:    event.Detail,
		CreatedAt: event.CreatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
