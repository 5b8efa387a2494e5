package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JobType classifies a posting
type JobType string

const (
	JobFullTime   JobType = "full-time"
	JobPartTime   JobType = "part-time"
	JobInternship JobType = "internship"
	JobContract   JobType = "contract"
)

// Job represents a job posting on the board
type Job struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Company     string             `bson:"company" json:"company"`
	Location    string             `bson:"location" json:"location"`
	Type        JobType            `bson:"type" json:"type"`
	Description string             `bson:"description" json:"description"`
	ApplyURL    string             `bson:"apply_url,omitempty" json:"applyUrl,omitempty"`
	Salary      string             `bson:"salary,omitempty" json:"salary,omitempty"`
	Deadline    *time.Time         `bson:"deadline,omitempty" json:"deadline,omitempty"`

	// uid of the employer who posted it
	PostedBy string `bson:"posted_by" json:"postedBy"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsValidJobType checks if a job type string is one of the known types
func IsValidJobType(t string) bool {
	switch JobType(t) {
	case JobFullTime, JobPartTime, JobInternship, JobContract:
		return true
	}
	return false
}
