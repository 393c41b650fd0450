package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Business is a reviewable place. Latitude/Longitude are pointers because a
// business without coordinates is valid: GPS check-in verification is skipped
// for it, not failed.
type Business struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	Division    string             `bson:"division,omitempty" json:"division,omitempty"`
	Address     string             `bson:"address,omitempty" json:"address,omitempty"`
	Contact     string             `bson:"contact,omitempty" json:"contact,omitempty"`
	Latitude    *float64           `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude   *float64           `bson:"longitude,omitempty" json:"longitude,omitempty"`
	PlaceID     string             `bson:"place_id,omitempty" json:"place_id,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasCoordinates reports whether the business can be used for GPS
// proximity verification.
func (b *Business) HasCoordinates() bool {
	return b.Latitude != nil && b.Longitude != nil
}
