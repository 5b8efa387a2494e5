package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"careerhub/identity"
)

// mongoClaimStore persists the provider's custom role claims in the
// "role_claims" collection, one document per subject.
type mongoClaimStore struct{}

// NewMongoClaimStore returns a ClaimStore backed by the initialized
// database.
func NewMongoClaimStore() identity.ClaimStore {
	return &mongoClaimStore{}
}

type roleClaim struct {
	UID       string    `bson:"_id"`
	Role      string    `bson:"role"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (s *mongoClaimStore) Get(ctx context.Context, uid string) (string, error) {
	collection := database.Collection("role_claims")

	var claim roleClaim
	err := collection.FindOne(ctx, bson.M{"_id": uid}).Decode(&claim)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", nil
		}
		return "", fmt.Errorf("failed to get role claim: %w", err)
	}

	return claim.Role, nil
}

func (s *mongoClaimStore) Set(ctx context.Context, uid, role string) error {
	collection := database.Collection("role_claims")

	update := bson.M{"$set": bson.M{
		"role":       role,
		"updated_at": time.Now().UTC(),
	}}
	opts := options.Update().SetUpsert(true)

	if _, err := collection.UpdateOne(ctx, bson.M{"_id": uid}, update, opts); err != nil {
		return fmt.Errorf("failed to set role claim: %w", err)
	}

	return nil
}
