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
	"hangoutspots/services"
)

// ReviewStore is the Mongo-backed services.ReviewStore.
type ReviewStore struct {
	reviews *mongo.Collection
	likes   *mongo.Collection
}

func NewReviewStore() *ReviewStore {
	return &ReviewStore{
		reviews: GetCollection("reviews"),
		likes:   GetCollection("review_likes"),
	}
}

func (s *ReviewStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	var review models.Review
	err := s.reviews.FindOne(ctx, bson.M{"_id": id}).Decode(&review)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *ReviewStore) Insert(ctx context.Context, review *models.Review) (primitive.ObjectID, error) {
	result, err := s.reviews.InsertOne(ctx, review)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id := result.InsertedID.(primitive.ObjectID)
	review.ID = id
	return id, nil
}

func (s *ReviewStore) CountByBusiness(ctx context.Context, businessID primitive.ObjectID) (int64, error) {
	return s.reviews.CountDocuments(ctx, bson.M{"business_id": businessID})
}

func (s *ReviewStore) FindReaction(ctx context.Context, userID, reviewID primitive.ObjectID) (*models.ReviewLike, error) {
	var like models.ReviewLike
	err := s.likes.FindOne(ctx, bson.M{"user_id": userID, "review_id": reviewID}).Decode(&like)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &like, nil
}

func (s *ReviewStore) UpsertReaction(ctx context.Context, userID, reviewID primitive.ObjectID, isLike bool) error {
	now := time.Now().UTC()
	_, err := s.likes.UpdateOne(ctx,
		bson.M{"user_id": userID, "review_id": reviewID},
		bson.M{
			"$set":         bson.M{"is_like": isLike, "updatedAt": now},
			"$setOnInsert": bson.M{"createdAt": now},
		},
		options.Update().SetUpsert(true))
	return err
}

func (s *ReviewStore) DeleteReaction(ctx context.Context, userID, reviewID primitive.ObjectID) error {
	_, err := s.likes.DeleteOne(ctx, bson.M{"user_id": userID, "review_id": reviewID})
	return err
}

// MediaStore is the Mongo-backed services.MediaStore.
type MediaStore struct {
	c *mongo.Collection
}

func NewMediaStore() *MediaStore {
	return &MediaStore{c: GetCollection("media")}
}

func (s *MediaStore) Insert(ctx context.Context, media *models.Media) error {
	result, err := s.c.InsertOne(ctx, media)
	if err != nil {
		return err
	}
	media.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}
