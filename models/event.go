package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event represents a career event (fair, workshop, info session)
type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	Location    string             `bson:"location" json:"location"`
	StartsAt    time.Time          `bson:"starts_at" json:"startsAt"`
	EndsAt      *time.Time         `bson:"ends_at,omitempty" json:"endsAt,omitempty"`

	// uid of the mentor or admin who created it
	Organizer string `bson:"organizer" json:"organizer"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
