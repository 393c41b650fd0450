package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hangoutspots/models"
	"hangoutspots/services"
)

// AchievementStore is the Mongo-backed services.AchievementStore. The unique
// (user_id, achievement_type) index turns concurrent award attempts into a
// duplicate-key error for every writer but one.
type AchievementStore struct {
	c *mongo.Collection
}

func NewAchievementStore() *AchievementStore {
	return &AchievementStore{c: GetCollection("user_achievements")}
}

func (s *AchievementStore) Exists(ctx context.Context, userID primitive.ObjectID, achievementType string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"user_id": userID, "achievement_type": achievementType})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *AchievementStore) Insert(ctx context.Context, userID primitive.ObjectID, achievementType string, awardedAt time.Time) error {
	_, err := s.c.InsertOne(ctx, models.UserAchievement{
		UserID:          userID,
		AchievementType: achievementType,
		AwardedAt:       awardedAt,
	})
	if mongo.IsDuplicateKeyError(err) {
		return services.ErrConflict
	}
	return err
}

func (s *AchievementStore) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.UserAchievement, error) {
	cursor, err := s.c.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.M{"awarded_at": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []models.UserAchievement
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ActivityStore supplies live activity counters from the reviews, media and
// checkins collections.
type ActivityStore struct {
	reviews  *mongo.Collection
	media    *mongo.Collection
	checkins *mongo.Collection
}

func NewActivityStore() *ActivityStore {
	return &ActivityStore{
		reviews:  GetCollection("reviews"),
		media:    GetCollection("media"),
		checkins: GetCollection("checkins"),
	}
}

func (s *ActivityStore) ReviewCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.reviews.CountDocuments(ctx, bson.M{"user_id": userID})
}

// MediaCount counts media attached to the user's reviews. Media rows carry
// no user_id, so the user's review ids are resolved first.
func (s *ActivityStore) MediaCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	ids, err := s.reviews.Distinct(ctx, "_id", bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return s.media.CountDocuments(ctx, bson.M{"review_id": bson.M{"$in": ids}})
}

func (s *ActivityStore) CheckinCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.checkins.CountDocuments(ctx, bson.M{"user_id": userID})
}
