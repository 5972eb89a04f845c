package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/secstack/identity-api/internal/core/domain"
)

const identityCollection = "identities"

// MongoIdentityRepository persists identities with roles stored as a flat
// string set on the document, mutated only through $addToSet and $pull.
type MongoIdentityRepository struct {
	coll *mongo.Collection
}

func NewIdentityRepository(db *mongo.Database) *MongoIdentityRepository {
	return &MongoIdentityRepository{coll: db.Collection(identityCollection)}
}

// EnsureIndexes creates the unique username index. Call once at startup.
func (r *MongoIdentityRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create username index: %w", err)
	}
	return nil
}

type mongoIdentity struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"password_hash"`
	Roles        []string           `bson:"roles"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

func (r *MongoIdentityRepository) Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	doc := mongoIdentity{
		Username:     identity.Username,
		PasswordHash: identity.PasswordHash,
		Roles:        identity.Roles,
		CreatedAt:    identity.CreatedAt.Unix(),
		UpdatedAt:    identity.UpdatedAt.Unix(),
	}

	_, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrIdentityExists
		}
		return nil, fmt.Errorf("insert identity: %w", err)
	}

	// fetch back to get ID
	return r.FindByUsername(ctx, identity.Username)
}

func (r *MongoIdentityRepository) FindByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	var mi mongoIdentity
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&mi); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return toDomain(&mi), nil
}

func (r *MongoIdentityRepository) List(ctx context.Context) ([]*domain.Identity, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "username", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Identity
	for cur.Next(ctx) {
		var mi mongoIdentity
		if err := cur.Decode(&mi); err != nil {
			return nil, fmt.Errorf("decode identity: %w", err)
		}
		out = append(out, toDomain(&mi))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}
	return out, nil
}

func (r *MongoIdentityRepository) AddRole(ctx context.Context, username, role string) (*domain.Identity, error) {
	return r.updateRoles(ctx, username, bson.M{"$addToSet": bson.M{"roles": role}})
}

func (r *MongoIdentityRepository) RemoveRole(ctx context.Context, username, role string) (*domain.Identity, error) {
	return r.updateRoles(ctx, username, bson.M{"$pull": bson.M{"roles": role}})
}

func (r *MongoIdentityRepository) updateRoles(ctx context.Context, username string, update bson.M) (*domain.Identity, error) {
	update["$set"] = bson.M{"updated_at": time.Now().UTC().Unix()}

	var mi mongoIdentity
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"username": username},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mi)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("update roles: %w", err)
	}
	return toDomain(&mi), nil
}

func (r *MongoIdentityRepository) Delete(ctx context.Context, username string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"username": username})
	if err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrIdentityNotFound
	}
	return nil
}

func toDomain(mi *mongoIdentity) *domain.Identity {
	return &domain.Identity{
		ID:           mi.ID.Hex(),
		Username:     mi.Username,
		PasswordHash: mi.PasswordHash,
		Roles:        mi.Roles,
		CreatedAt:    unixToTime(mi.CreatedAt),
		UpdatedAt:    unixToTime(mi.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
