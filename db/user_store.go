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

// UserStore is the Mongo-backed services.UserStore.
type UserStore struct {
	c *mongo.Collection
}

func NewUserStore() *UserStore {
	return &UserStore{c: GetCollection("users")}
}

func (s *UserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SavePoints writes the recomputed point state in one update. Callers hold
// the per-user lock, so last-write-wins here is safe.
func (s *UserStore) SavePoints(ctx context.Context, id primitive.ObjectID, points, pointsToday, level int, resetDate time.Time) error {
	result, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"points":            points,
		"points_today":      pointsToday,
		"level":             level,
		"points_reset_date": resetDate,
		"updatedAt":         time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return services.ErrNotFound
	}
	return nil
}
