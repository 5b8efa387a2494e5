package services

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"careerhub/apperr"
	"careerhub/models"
)

// ListPendingMentors returns one page of faculty-mentor profiles awaiting
// an approval decision (no decided status on the document). Profile
// documents are keyed by uid, so the cursor is the last uid of the prior
// page.
func ListPendingMentors(ctx context.Context, limit int, cursor string) ([]models.UserProfile, string, error) {
	collection := database.Collection("profiles")
	limit = ClampLimit(limit)

	query := bson.M{
		"role":          models.RoleFacultyMentor,
		"accountStatus": bson.M{"$nin": bson.A{models.StatusApproved, models.StatusRejected}},
	}
	if cursor != "" {
		query["_id"] = bson.M{"$gt": cursor}
	}

	findOptions := options.Find().
		SetSort(bson.M{"_id": 1}).
		SetLimit(int64(limit + 1))

	mongoCursor, err := collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, "", apperr.Upstream("list pending mentors", err)
	}
	defer mongoCursor.Close(ctx)

	var mentors []models.UserProfile
	if err := mongoCursor.All(ctx, &mentors); err != nil {
		return nil, "", apperr.Upstream("decode mentors", err)
	}

	next := ""
	if len(mentors) > limit {
		mentors = mentors[:limit]
		next = mentors[limit-1].UID
	}

	return mentors, next, nil
}

// DecideMentor records an admin's approval decision on an existing
// faculty-mentor profile and returns the updated document. A decision
// notification is sent best-effort; email failures never fail the
// request.
func DecideMentor(ctx context.Context, uid string, status models.AccountStatus) (*models.UserProfile, error) {
	collection := database.Collection("profiles")

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	update := bson.M{"$set": bson.M{
		"accountStatus": status,
		"updatedAt":     time.Now().UTC(),
	}}

	var profile models.UserProfile
	err := collection.FindOneAndUpdate(ctx, bson.M{
		"_id":  uid,
		"role": models.RoleFacultyMentor,
	}, update, opts).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("mentor profile")
		}
		return nil, apperr.Upstream("decide mentor", err)
	}

	slog.Info("Mentor decision recorded", "uid", uid, "status", status)

	if profile.Email != "" {
		if err := Notifier().SendApprovalDecision(ctx, profile.Email, status); err != nil {
			slog.Error("Failed to send approval notification", "error", err, "uid", uid)
		}
	}

	return &profile, nil
}
