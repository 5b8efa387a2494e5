package services

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	mongoClient *mongo.Client
	database    *mongo.Database
)

// GetDatabase returns the MongoDB database instance
func GetDatabase() *mongo.Database {
	return database
}

// InitMongoDB initializes MongoDB connection
func InitMongoDB(ctx context.Context, uri string) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(uri)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	slog.Info("Connected to MongoDB")
	mongoClient = client

	return client, nil
}

// InitServices binds the database handle and creates indexes
func InitServices(client *mongo.Client, databaseName string) {
	database = client.Database(databaseName)

	createIndexes()
}

// createIndexes creates necessary database indexes
func createIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	profilesCollection := database.Collection("profiles")
	profilesCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.M{"role": 1}},
		{Keys: bson.M{"role": 1, "accountStatus": 1}},
	})

	jobsCollection := database.Collection("jobs")
	jobsCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.M{"type": 1}},
		{Keys: bson.M{"location": 1}},
		{Keys: bson.M{"company": 1}},
		{Keys: bson.M{"posted_by": 1}},
	})

	eventsCollection := database.Collection("events")
	eventsCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.M{"category": 1}},
		{Keys: bson.M{"starts_at": 1}},
	})

	tipsCollection := database.Collection("career_tips")
	tipsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.M{"category": 1},
	})

	credentialsCollection := database.Collection("credentials")
	credentialsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"email": 1},
		Options: options.Index().SetUnique(true),
	})
}
