package services

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"careerhub/apperr"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 50
)

// ClampLimit normalizes a caller-supplied page size
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// cursorFilter translates a page cursor into a query constraint. Lists
// are sorted newest-first by _id, so the next page starts strictly after
// the cursor document in that order.
func cursorFilter(filter bson.M, cursor string) (bson.M, error) {
	if cursor == "" {
		return filter, nil
	}
	id, err := primitive.ObjectIDFromHex(cursor)
	if err != nil {
		return nil, apperr.Validation(apperr.FieldError{Field: "cursor", Message: "invalid cursor"})
	}
	filter["_id"] = bson.M{"$lt": id}
	return filter, nil
}

// trimPage applies the fetch-limit-plus-one convention: when an extra
// document came back the page is full and the last in-window id becomes
// the next cursor.
func trimPage(count, limit int, lastInWindow primitive.ObjectID) (int, string) {
	if count <= limit {
		return count, ""
	}
	return limit, lastInWindow.Hex()
}
