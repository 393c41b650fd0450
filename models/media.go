package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Media is an image or video attached to a review.
type Media struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	BusinessID primitive.ObjectID `bson:"business_id" json:"business_id"`
	ReviewID   primitive.ObjectID `bson:"review_id,omitempty" json:"review_id,omitempty"`
	MediaURL   string             `bson:"media_url" json:"media_url"`
	MediaType  string             `bson:"media_type" json:"media_type"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)
