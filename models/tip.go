package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CareerTip is a short advice article published to students
type CareerTip struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title    string             `bson:"title" json:"title"`
	Content  string             `bson:"content" json:"content"`
	Category string             `bson:"category,omitempty" json:"category,omitempty"`

	// uid of the author (faculty mentor or admin)
	Author string `bson:"author" json:"author"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
