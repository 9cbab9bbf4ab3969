package config

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	mongoClient *mongo.Client
	mongoDB     *mongo.Database
	imageBucket *gridfs.Bucket
)

// InitMongo connects to the MongoDB content store and prepares the GridFS bucket for post images.
func InitMongo() *mongo.Database {
	if mongoDB != nil {
		return mongoDB
	}

	cfg := Get()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("failed to connect mongodb: %v", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Fatalf("mongodb ping failed: %v", err)
	}

	mongoClient = client
	mongoDB = client.Database(cfg.MongoDatabase)

	bucket, err := gridfs.NewBucket(mongoDB, options.GridFSBucket().SetName("postImages"))
	if err != nil {
		log.Fatalf("failed to open gridfs bucket: %v", err)
	}
	imageBucket = bucket

	return mongoDB
}

// Mongo provides access to the initialized content database.
func Mongo() *mongo.Database {
	if mongoDB == nil {
		log.Fatal("mongodb not initialized, call InitMongo first")
	}
	return mongoDB
}

// ImageBucket provides access to the GridFS bucket holding post images.
func ImageBucket() *gridfs.Bucket {
	if imageBucket == nil {
		log.Fatal("mongodb not initialized, call InitMongo first")
	}
	return imageBucket
}

// CloseMongo disconnects the client. Used during graceful shutdown.
func CloseMongo() {
	if mongoClient == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = mongoClient.Disconnect(ctx)
}
