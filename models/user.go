package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User defines a platform user. Points, level, points_today and
// points_reset_date are owned by the gamification service; nothing else
// writes them.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name            string             `bson:"name" json:"name"`
	Email           string             `bson:"email" json:"email"`
	Password        string             `bson:"password" json:"-"`
	Role            string             `bson:"role" json:"role"`
	Points          int                `bson:"points" json:"points"`
	Level           int                `bson:"level" json:"level"`
	PointsToday     int                `bson:"points_today" json:"-"`
	PointsResetDate time.Time          `bson:"points_reset_date,omitempty" json:"-"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

const (
	RoleUser   = "user"
	RoleAdmin  = "admin"
	RoleBanned = "banned"
)
