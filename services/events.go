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

// EventFilter holds the filters accepted by ListEvents
type EventFilter struct {
	Category string
	// Upcoming restricts the list to events starting at or after now
	Upcoming bool
}

// CreateEvent inserts an event, stamping timestamps
func CreateEvent(ctx context.Context, event *models.Event) error {
	collection := database.Collection("events")

	now := time.Now().UTC()
	event.ID = primitive.NewObjectID()
	event.CreatedAt = now
	event.UpdatedAt = now

	if _, err := collection.InsertOne(ctx, event); err != nil {
		return apperr.Upstream("create event", err)
	}

	slog.Info("Event created", "eventID", event.ID.Hex(), "organizer", event.Organizer)
	return nil
}

// GetEvent retrieves an event by id
func GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	collection := database.Collection("events")

	objectID, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return nil, apperr.Validation(apperr.FieldError{Field: "eventID", Message: "invalid id"})
	}

	var event models.Event
	err = collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&event)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("event")
		}
		return nil, apperr.Upstream("get event", err)
	}

	return &event, nil
}

// UpdateEvent applies a partial update and returns the stored document
func UpdateEvent(ctx context.Context, eventID string, update bson.M) (*models.Event, error) {
	collection := database.Collection("events")

	objectID, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return nil, apperr.Validation(apperr.FieldError{Field: "eventID", Message: "invalid id"})
	}

	update["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var event models.Event
	err = collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": update}, opts).Decode(&event)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("event")
		}
		return nil, apperr.Upstream("update event", err)
	}

	return &event, nil
}

// DeleteEvent removes an event
func DeleteEvent(ctx context.Context, eventID string) error {
	collection := database.Collection("events")

	objectID, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return apperr.Validation(apperr.FieldError{Field: "eventID", Message: "invalid id"})
	}

	result, err := collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return apperr.Upstream("delete event", err)
	}
	if result.DeletedCount == 0 {
		return apperr.NotFound("event")
	}

	return nil
}

// ListEvents returns one page of events, newest first
func ListEvents(ctx context.Context, filter EventFilter, limit int, cursor string) ([]models.Event, string, error) {
	collection := database.Collection("events")
	limit = ClampLimit(limit)

	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Upcoming {
		query["starts_at"] = bson.M{"$gte": time.Now().UTC()}
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
		return nil, "", apperr.Upstream("list events", err)
	}
	defer mongoCursor.Close(ctx)

	var events []models.Event
	if err := mongoCursor.All(ctx, &events); err != nil {
		return nil, "", apperr.Upstream("decode events", err)
	}

	if len(events) == 0 {
		return events, "", nil
	}
	last := len(events)
	if last > limit {
		last = limit
	}
	n, next := trimPage(len(events), limit, events[last-1].ID)
	return events[:n], next, nil
}
