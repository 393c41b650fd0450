package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is a user's rating of a business.
type Review struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	BusinessID primitive.ObjectID `bson:"business_id" json:"business_id"`
	Rating     int                `bson:"rating" json:"rating"`
	Text       string             `bson:"text,omitempty" json:"text,omitempty"`
	Tags       []string           `bson:"tags" json:"tags"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ReviewLike is a reaction on a review. At most one row exists per
// (user, review) pair, enforced by a unique index.
type ReviewLike struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	ReviewID  primitive.ObjectID `bson:"review_id" json:"review_id"`
	IsLike    bool               `bson:"is_like" json:"is_like"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
