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

// JobFilter holds the single-field equality filters accepted by ListJobs
type JobFilter struct {
	Type     string
	Location string
	Company  string
}

// CreateJob inserts a job posting, stamping timestamps
func CreateJob(ctx context.Context, job *models.Job) error {
	collection := database.Collection("jobs")

	now := time.Now().UTC()
	job.ID = primitive.NewObjectID()
	job.CreatedAt = now
	job.UpdatedAt = now

	if _, err := collection.InsertOne(ctx, job); err != nil {
		return apperr.Upstream("create job", err)
	}

	slog.Info("Job created", "jobID", job.ID.Hex(), "postedBy", job.PostedBy)
	return nil
}

// GetJob retrieves a job posting by id
func GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	collection := database.Collection("jobs")

	objectID, err := primitive.ObjectIDFromHex(jobID)
	if err != nil {
		return nil, apperr.Validation(apperr.FieldError{Field: "jobID", Message: "invalid id"})
	}

	var job models.Job
	err = collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&job)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("job")
		}
		return nil, apperr.Upstream("get job", err)
	}

	return &job, nil
}

// UpdateJob applies a partial update and returns the stored document
func UpdateJob(ctx context.Context, jobID string, update bson.M) (*models.Job, error) {
	collection := database.Collection("jobs")

	objectID, err := primitive.ObjectIDFromHex(jobID)
	if err != nil {
		return nil, apperr.Validation(apperr.FieldError{Field: "jobID", Message: "invalid id"})
	}

	update["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var job models.Job
	err = collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": update}, opts).Decode(&job)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("job")
		}
		return nil, apperr.Upstream("update job", err)
	}

	return &job, nil
}

// DeleteJob removes a job posting
func DeleteJob(ctx context.Context, jobID string) error {
	collection := database.Collection("jobs")

	objectID, err := primitive.ObjectIDFromHex(jobID)
	if err != nil {
		return apperr.Validation(apperr.FieldError{Field: "jobID", Message: "invalid id"})
	}

	result, err := collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return apperr.Upstream("delete job", err)
	}
	if result.DeletedCount == 0 {
		return apperr.NotFound("job")
	}

	return nil
}

// ListJobs returns one page of jobs, newest first, with the next cursor
// when more documents remain
func ListJobs(ctx context.Context, filter JobFilter, limit int, cursor string) ([]models.Job, string, error) {
	collection := database.Collection("jobs")
	limit = ClampLimit(limit)

	query := bson.M{}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.Location != "" {
		query["location"] = filter.Location
	}
	if filter.Company != "" {
		query["company"] = filter.Company
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
		return nil, "", apperr.Upstream("list jobs", err)
	}
	defer mongoCursor.Close(ctx)

	var jobs []models.Job
	if err := mongoCursor.All(ctx, &jobs); err != nil {
		return nil, "", apperr.Upstream("decode jobs", err)
	}

	if len(jobs) == 0 {
		return jobs, "", nil
	}
	last := len(jobs)
	if last > limit {
		last = limit
	}
	n, next := trimPage(len(jobs), limit, jobs[last-1].ID)
	return jobs[:n], next, nil
}
