package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hangoutspots/models"
)

// CooldownStore is the Mongo-backed services.CooldownStore. Claims are a
// single conditional upsert against the unique (user_id, target_id, kind)
// index, so two concurrent requests inside the window cannot both win.
type CooldownStore struct {
	c *mongo.Collection
}

func NewCooldownStore() *CooldownStore {
	return &CooldownStore{c: GetCollection("cooldowns")}
}

// Claim updates the slot only when its last claim is older than the window,
// inserting when no slot exists. A matching or upserted document means the
// claim succeeded. When the document exists but is still inside the window,
// the filter matches nothing and the upsert trips the unique index instead;
// that duplicate-key error is the "recently claimed" signal.
func (s *CooldownStore) Claim(ctx context.Context, userID, targetID primitive.ObjectID, kind string, window time.Duration, now time.Time) (bool, time.Time, error) {
	cutoff := now.Add(-window)
	filter := bson.M{
		"user_id":   userID,
		"target_id": targetID,
		"kind":      kind,
		"last_at":   bson.M{"$lt": cutoff},
	}
	update := bson.M{"$set": bson.M{"last_at": now}}

	err := s.c.FindOneAndUpdate(ctx, filter, update, options.FindOneAndUpdate().SetUpsert(true)).Err()
	if err == nil || errors.Is(err, mongo.ErrNoDocuments) {
		return true, time.Time{}, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return false, time.Time{}, err
	}

	var existing models.Cooldown
	lookup := bson.M{"user_id": userID, "target_id": targetID, "kind": kind}
	if err := s.c.FindOne(ctx, lookup).Decode(&existing); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// The blocking claim vanished between the upsert and the read;
			// treat it as still held, the caller retries after the window.
			return false, now, nil
		}
		return false, time.Time{}, err
	}
	return false, existing.LastAt, nil
}

// Release frees the slot after the guarded action failed to persist.
func (s *CooldownStore) Release(ctx context.Context, userID, targetID primitive.ObjectID, kind string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"user_id": userID, "target_id": targetID, "kind": kind})
	return err
}

// DeleteExpired removes slots whose claims are older than the given age.
// The cron sweep uses it to keep the collection from growing unbounded.
func (s *CooldownStore) DeleteExpired(ctx context.Context, olderThan time.Duration, now time.Time) (int64, error) {
	result, err := s.c.DeleteMany(ctx, bson.M{"last_at": bson.M{"$lt": now.Add(-olderThan)}})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
