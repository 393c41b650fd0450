package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"hangoutspots/models"
	"hangoutspots/services"
)

// BusinessStore is the Mongo-backed services.BusinessStore.
type BusinessStore struct {
	c *mongo.Collection
}

func NewBusinessStore() *BusinessStore {
	return &BusinessStore{c: GetCollection("businesses")}
}

func (s *BusinessStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Business, error) {
	var business models.Business
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&business)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &business, nil
}

func (s *BusinessStore) FindByName(ctx context.Context, name, address string) (*models.Business, error) {
	filter := bson.M{"name": name}
	if address != "" {
		filter["address"] = address
	}

	var business models.Business
	err := s.c.FindOne(ctx, filter).Decode(&business)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &business, nil
}

func (s *BusinessStore) Insert(ctx context.Context, business *models.Business) (primitive.ObjectID, error) {
	result, err := s.c.InsertOne(ctx, business)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id := result.InsertedID.(primitive.ObjectID)
	business.ID = id
	return id, nil
}

// CheckinStore is the Mongo-backed services.CheckinStore.
type CheckinStore struct {
	c *mongo.Collection
}

func NewCheckinStore() *CheckinStore {
	return &CheckinStore{c: GetCollection("checkins")}
}

func (s *CheckinStore) Insert(ctx context.Context, checkin *models.Checkin) (primitive.ObjectID, error) {
	result, err := s.c.InsertOne(ctx, checkin)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id := result.InsertedID.(primitive.ObjectID)
	checkin.ID = id
	return id, nil
}
