package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"hangoutspots/models"
	"hangoutspots/utils"
)

// Store interfaces consumed by the rule engines. Mongo implementations live
// in the db package; tests substitute in-memory fakes.

// UserStore loads users and persists gamification state.
type UserStore interface {
	// FindByID returns ErrNotFound when the user does not exist.
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	// SavePoints writes the complete recomputed point state for one user.
	SavePoints(ctx context.Context, id primitive.ObjectID, points, pointsToday, level int, resetDate time.Time) error
}

// AchievementStore owns user_achievements rows.
type AchievementStore interface {
	Exists(ctx context.Context, userID primitive.ObjectID, achievementType string) (bool, error)
	// Insert returns ErrConflict when the (user, type) row already exists,
	// including when a concurrent insert won the race.
	Insert(ctx context.Context, userID primitive.ObjectID, achievementType string, awardedAt time.Time) error
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.UserAchievement, error)
}

// ActivityStore supplies the live counters milestones are evaluated against.
type ActivityStore interface {
	ReviewCount(ctx context.Context, userID primitive.ObjectID) (int64, error)
	// MediaCount counts media across the businesses the user has reviewed.
	MediaCount(ctx context.Context, userID primitive.ObjectID) (int64, error)
	CheckinCount(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

// BusinessStore resolves and creates businesses.
type BusinessStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Business, error)
	// FindByName matches name, and name+address when address is non-empty.
	// Returns ErrNotFound when no business matches.
	FindByName(ctx context.Context, name, address string) (*models.Business, error)
	Insert(ctx context.Context, business *models.Business) (primitive.ObjectID, error)
}

// CheckinStore persists check-ins.
type CheckinStore interface {
	Insert(ctx context.Context, checkin *models.Checkin) (primitive.ObjectID, error)
}

// CooldownStore claims per-(user, target, kind) action slots atomically.
type CooldownStore interface {
	// Claim succeeds iff no claim exists inside the trailing window. On
	// refusal it returns claimed=false and the prior claim's timestamp.
	Claim(ctx context.Context, userID, targetID primitive.ObjectID, kind string, window time.Duration, now time.Time) (claimed bool, last time.Time, err error)
	// Release undoes a claim after the guarded action failed to persist.
	Release(ctx context.Context, userID, targetID primitive.ObjectID, kind string) error
}

// ReviewStore persists reviews and reactions.
type ReviewStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	Insert(ctx context.Context, review *models.Review) (primitive.ObjectID, error)
	CountByBusiness(ctx context.Context, businessID primitive.ObjectID) (int64, error)
	FindReaction(ctx context.Context, userID, reviewID primitive.ObjectID) (*models.ReviewLike, error)
	// UpsertReaction sets is_like for the (user, review) pair, inserting if absent.
	UpsertReaction(ctx context.Context, userID, reviewID primitive.ObjectID, isLike bool) error
	DeleteReaction(ctx context.Context, userID, reviewID primitive.ObjectID) error
}

// MediaStore persists media attachments.
type MediaStore interface {
	Insert(ctx context.Context, media *models.Media) error
}

// SubscriptionStore reads and debits upload subscriptions.
type SubscriptionStore interface {
	// FindActive returns the user's subscription with a future expiry, or
	// ErrNotFound.
	FindActive(ctx context.Context, userID primitive.ObjectID, now time.Time) (*models.Subscription, error)
	// DecrementUploads subtracts one upload, refusing to go below zero.
	DecrementUploads(ctx context.Context, id primitive.ObjectID) error
}

// GeocodeFunc resolves an address to coordinates, nil when unavailable.
type GeocodeFunc func(ctx context.Context, address string) *utils.Coordinates

// EventFunc publishes a gamification event, best-effort.
type EventFunc func(event models.GamificationEvent)
