package db

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var MongoClient *mongo.Client
var MongoDatabase *mongo.Database

// GetCollection returns a collection by name
func GetCollection(collectionName string) *mongo.Collection {
	return MongoDatabase.Collection(collectionName)
}

// extractDBName parses the database name from the URI, defaulting to "hangoutspots"
func extractDBName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "hangoutspots"
	}
	if u.Path != "" && u.Path != "/" {
		return u.Path[1:]
	}
	return "hangoutspots"
}

// ConnectMongoDB establishes a connection to MongoDB using the provided URI
func ConnectMongoDB(uri string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	MongoClient = client
	MongoDatabase = client.Database(extractDBName(uri))
	return nil
}

// Disconnect closes the MongoDB connection.
func Disconnect(ctx context.Context) error {
	if MongoClient == nil {
		return nil
	}
	return MongoClient.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the rules depend on. The unique indexes
// are load-bearing: achievement award races, duplicate reactions and cooldown
// claims all resolve through duplicate-key errors rather than read-then-write.
func EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	specs := []struct {
		collection string
		model      mongo.IndexModel
	}{
		{"users", mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique}},
		{"users", mongo.IndexModel{Keys: bson.D{{Key: "points", Value: -1}}}},
		{"businesses", mongo.IndexModel{Keys: bson.D{{Key: "name", Value: 1}, {Key: "address", Value: 1}}}},
		{"businesses", mongo.IndexModel{Keys: bson.D{{Key: "place_id", Value: 1}}}},
		{"reviews", mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}}}},
		{"reviews", mongo.IndexModel{Keys: bson.D{{Key: "business_id", Value: 1}}}},
		{"reviews", mongo.IndexModel{Keys: bson.D{{Key: "rating", Value: -1}, {Key: "createdAt", Value: -1}}}},
		{"review_likes", mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "review_id", Value: 1}}, Options: unique}},
		{"media", mongo.IndexModel{Keys: bson.D{{Key: "business_id", Value: 1}}}},
		{"media", mongo.IndexModel{Keys: bson.D{{Key: "review_id", Value: 1}}}},
		{"checkins", mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "business_id", Value: 1}, {Key: "createdAt", Value: -1}}}},
		{"user_achievements", mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "achievement_type", Value: 1}}, Options: unique}},
		{"subscriptions", mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: unique}},
		{"subscriptions", mongo.IndexModel{Keys: bson.D{{Key: "expiry_date", Value: 1}}}},
		{"transactions", mongo.IndexModel{Keys: bson.D{{Key: "transaction_ref", Value: 1}}, Options: unique}},
		{"transactions", mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}}}},
		{"cooldowns", mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "target_id", Value: 1}, {Key: "kind", Value: 1}}, Options: unique}},
	}

	for _, spec := range specs {
		if _, err := MongoDatabase.Collection(spec.collection).Indexes().CreateOne(ctx, spec.model); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", spec.collection, err)
		}
	}
	return nil
}
