package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subscription grants a user a number of media-bearing review uploads.
// UploadsRemaining is decremented only after a review saves successfully.
type Subscription struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID           primitive.ObjectID `bson:"user_id" json:"user_id"`
	UploadsRemaining int                `bson:"uploads_remaining" json:"uploads_remaining"`
	StartDate        time.Time          `bson:"start_date" json:"start_date"`
	ExpiryDate       time.Time          `bson:"expiry_date" json:"expiry_date"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Active reports whether the subscription can pay for an upload at t.
func (s *Subscription) Active(t time.Time) bool {
	return s.ExpiryDate.After(t) && s.UploadsRemaining > 0
}

// Transaction is a subscription payment moving through
// pending -> completed | failed.
type Transaction struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID          primitive.ObjectID `bson:"user_id" json:"user_id"`
	Amount          int                `bson:"amount" json:"amount"`
	Method          string             `bson:"method" json:"method"`
	Status          string             `bson:"status" json:"status"`
	TransactionType string             `bson:"transaction_type" json:"transaction_type"`
	TransactionRef  string             `bson:"transaction_ref" json:"transaction_ref"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

const (
	TransactionPending   = "pending"
	TransactionCompleted = "completed"
	TransactionFailed    = "failed"
)
