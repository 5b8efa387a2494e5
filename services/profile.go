package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"careerhub/models"
)

// ProfileStore persists user profile documents keyed by uid. All writes
// are merges: fields absent from the update are preserved.
type ProfileStore interface {
	// Get returns the profile for uid, or (nil, nil) when no document exists.
	Get(ctx context.Context, uid string) (*models.UserProfile, error)

	// Merge upserts the given fields into the profile document and
	// returns the merged result.
	Merge(ctx context.Context, uid string, fields map[string]interface{}) (*models.UserProfile, error)
}

type mongoProfileStore struct{}

// NewMongoProfileStore returns a ProfileStore backed by the "profiles"
// collection of the initialized database.
func NewMongoProfileStore() ProfileStore {
	return &mongoProfileStore{}
}

func (s *mongoProfileStore) Get(ctx context.Context, uid string) (*models.UserProfile, error) {
	collection := database.Collection("profiles")

	var profile models.UserProfile
	err := collection.FindOne(ctx, bson.M{"_id": uid}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}

func (s *mongoProfileStore) Merge(ctx context.Context, uid string, fields map[string]interface{}) (*models.UserProfile, error) {
	collection := database.Collection("profiles")

	set := bson.M{}
	for k, v := range fields {
		if k == "" || k == "_id" || k == "uid" {
			continue
		}
		set[k] = v
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var profile models.UserProfile
	err := collection.FindOneAndUpdate(ctx, bson.M{"_id": uid}, bson.M{"$set": set}, opts).Decode(&profile)
	if err != nil {
		return nil, fmt.Errorf("failed to merge profile: %w", err)
	}

	return &profile, nil
}
