package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserAchievement is a one-time badge. A unique index on
// (user_id, achievement_type) makes concurrent award attempts resolve to
// exactly one winner.
type UserAchievement struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID          primitive.ObjectID `bson:"user_id" json:"user_id"`
	AchievementType string             `bson:"achievement_type" json:"achievement_type"`
	AwardedAt       time.Time          `bson:"awarded_at" json:"awarded_at"`
}

// AchievementInfo is the display form of an earned achievement.
type AchievementInfo struct {
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	Icon        string    `json:"icon"`
	Description string    `json:"description"`
	AwardedAt   time.Time `json:"awarded_at"`
}

// GamificationEvent is pushed to connected WebSocket clients when points or
// achievements change.
type GamificationEvent struct {
	Type            string    `json:"type"`
	UserID          string    `json:"userId"`
	AchievementType string    `json:"achievementType,omitempty"`
	Points          int       `json:"points,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

const (
	EventPointsAwarded     = "points_awarded"
	EventAchievementEarned = "achievement_earned"
)
