package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Checkin records that a user visited a business, optionally GPS-verified.
type Checkin struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	BusinessID primitive.ObjectID `bson:"business_id" json:"business_id"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// Cooldown is the storage-level claim that closes the query-then-insert race
// on check-in and review rate limits. One document per (user, target, kind)
// under a unique index; a claim succeeds only when the stored timestamp is
// older than the window.
type Cooldown struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	UserID   primitive.ObjectID `bson:"user_id"`
	TargetID primitive.ObjectID `bson:"target_id"`
	Kind     string             `bson:"kind"`
	LastAt   time.Time          `bson:"last_at"`
}

const (
	CooldownCheckin = "checkin"
	CooldownReview  = "review"
)
