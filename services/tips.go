package services

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"careerhub/apperr"
	"careerhub/models"
)

// CreateTip inserts a career tip, stamping timestamps
func CreateTip(ctx context.Context, tip *models.CareerTip) error {
	collection := database.Collection("career_tips")

	now := time.Now().UTC()
	tip.ID = primitive.NewObjectID()
	tip.CreatedAt = now
	tip.UpdatedAt = now

	if _, err := collection.InsertOne(ctx, tip); err != nil {
		return apperr.Upstream("create tip", err)
	}

	slog.Info("Career tip created", "tipID", tip.ID.Hex(), "author", tip.Author)
	return nil
}

// GetTip retrieves a career tip by id
func GetTip(ctx context.Context, tipID string) (*models.CareerTip, error) {
	collection := database.Collection("career_tips")

	objectID, err := primitive.ObjectIDFromHex(tipID)
	if err != nil {
		return nil, apperr.Validation(apperr.FieldError{Field: "tipID", Message: "invalid id"})
	}

	var tip models.CareerTip
	err = collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&tip)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("career tip")
		}
		return nil, apperr.Upstream("get tip", err)
	}

	return &tip, nil
}

// UpdateTip applies a partial update and returns the stored document
func UpdateTip(ctx context.Context, tipID string, update bson.M) (*models.CareerTip, error) {
	collection := database.Collection("career_tips")

	objectID, err := primitive.ObjectIDFromHex(tipID)
	if err != nil {
		return nil, apperr.Validation(apperr.FieldError{Field: "tipID", Message: "invalid id"})
	}

	update["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var tip models.CareerTip
	err = collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": update}, opts).Decode(&tip)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("career tip")
		}
		return nil, apperr.Upstream("update tip", err)
	}

	return &tip, nil
}

// DeleteTip removes a career tip
func DeleteTip(ctx context.Context, tipID string) error {
	collection := database.Collection("career_tips")

	objectID, err := primitive.ObjectIDFromHex(tipID)
	if err != nil {
		return apperr.Validation(apperr.FieldError{Field: "tipID", Message: "invalid id"})
	}

	result, err := collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return apperr.Upstream("delete tip", err)
	}
	if result.DeletedCount == 0 {
		return apperr.NotFound("career tip")
	}

	return nil
}

// ListTips returns one page of career tips, newest first, optionally
// filtered by category
func ListTips(ctx context.Context, category string, limit int, cursor string) ([]models.CareerTip, string, error) {
	collection := database.Collection("career_tips")
	limit = ClampLimit(limit)

	query := bson.M{}
	if category != "" {
		query["category"] = category
	}

	query, err := cursorFilter(query, cursor)
	if err != nil {
		return nil, "", err
	}

	findOptions := options.Find().
		SetSort(bson.M{"_id": -1}).
		SetLimit(int64(limit + 1))

	mongoCursor, err := collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, "", apperr.Upstream("list tips", err)
	}
	defer mongoCursor.Close(ctx)

	var tips []models.CareerTip
	if err := mongoCursor.All(ctx, &tips); err != nil {
		return nil, "", apperr.Upstream("decode tips", err)
	}

	if len(tips) == 0 {
		return tips, "", nil
	}
	last := len(tips)
	if last > limit {
		last = limit
	}
	n, next := trimPage(len(tips), limit, tips[last-1].ID)
	return tips[:n], next, nil
}
