package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"hangoutspots/models"
	"hangoutspots/services"
)

// SubscriptionStore is the Mongo-backed services.SubscriptionStore.
type SubscriptionStore struct {
	c *mongo.Collection
}

func NewSubscriptionStore() *SubscriptionStore {
	return &SubscriptionStore{c: GetCollection("subscriptions")}
}

func (s *SubscriptionStore) FindActive(ctx context.Context, userID primitive.ObjectID, now time.Time) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.c.FindOne(ctx, bson.M{
		"user_id":     userID,
		"expiry_date": bson.M{"$gt": now},
	}).Decode(&sub)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// DecrementUploads debits one upload. The uploads_remaining guard in the
// filter keeps the counter from going negative under concurrent reviews.
func (s *SubscriptionStore) DecrementUploads(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "uploads_remaining": bson.M{"$gt": 0}},
		bson.M{
			"$inc": bson.M{"uploads_remaining": -1},
			"$set": bson.M{"updatedAt": time.Now().UTC()},
		})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return services.ErrNotFound
	}
	return nil
}
