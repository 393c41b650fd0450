package services

import (
	"context"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"hangoutspots/models"
	"hangoutspots/utils"
)

// CheckinCooldown is the minimum gap between two check-ins by the same user
// at the same business.
const CheckinCooldown = 24 * time.Hour

// checkinPoints is awarded for each successful check-in.
const checkinPoints = 10

// CheckinService validates proximity, enforces the 24-hour cooldown and
// persists check-ins.
type CheckinService struct {
	businesses   BusinessStore
	checkins     CheckinStore
	cooldowns    CooldownStore
	gamification *GamificationService
	logger       *zap.SugaredLogger
	now          func() time.Time
}

func NewCheckinService(businesses BusinessStore, checkins CheckinStore, cooldowns CooldownStore, gamification *GamificationService, logger *zap.SugaredLogger) *CheckinService {
	return &CheckinService{
		businesses:   businesses,
		checkins:     checkins,
		cooldowns:    cooldowns,
		gamification: gamification,
		logger:       logger,
		now:          time.Now,
	}
}

// CheckinInput carries a check-in request. Latitude/Longitude are nil when
// the caller did not report a position.
type CheckinInput struct {
	UserID     primitive.ObjectID
	BusinessID primitive.ObjectID
	Latitude   *float64
	Longitude  *float64
}

// CheckinResult reports the outcome of a successful check-in.
type CheckinResult struct {
	CheckinID        primitive.ObjectID
	BusinessName     string
	PointsAwarded    int
	NewAchievements  []string
	LocationVerified bool
	Distance         string
}

// CheckIn runs the full flow: resolve the business, verify proximity when
// both sides have coordinates, claim the 24-hour cooldown slot, persist, and
// best-effort award points and milestones. Point or milestone failures are
// logged, never surfaced: the check-in itself already succeeded.
func (s *CheckinService) CheckIn(ctx context.Context, in CheckinInput) (*CheckinResult, error) {
	business, err := s.businesses.FindByID(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}

	verified := false
	var distance *float64
	if in.Latitude != nil && in.Longitude != nil && business.HasCoordinates() {
		d := utils.CalculateDistance(*in.Latitude, *in.Longitude, *business.Latitude, *business.Longitude)
		distance = &d
		if d > utils.DefaultCheckinRadiusMeters {
			return nil, &TooFarError{DistanceMeters: d, RadiusMeters: utils.DefaultCheckinRadiusMeters}
		}
		verified = true
	} else if s.logger != nil {
		// Either side missing coordinates: allow unverified rather than block.
		s.logger.Warnf("check-in without GPS verification: user=%s business=%s", in.UserID.Hex(), in.BusinessID.Hex())
	}

	now := s.now()
	claimed, last, err := s.cooldowns.Claim(ctx, in.UserID, in.BusinessID, models.CooldownCheckin, CheckinCooldown, now)
	if err != nil {
		return nil, err
	}
	if !claimed {
		hoursSince := now.Sub(last).Hours()
		return nil, &RateLimitedError{
			HoursRemaining: int(math.Ceil(CheckinCooldown.Hours() - hoursSince)),
			LastAt:         last,
		}
	}

	checkinID, err := s.checkins.Insert(ctx, &models.Checkin{
		UserID:     in.UserID,
		BusinessID: in.BusinessID,
		CreatedAt:  now,
	})
	if err != nil {
		// Give the slot back so the failed attempt does not burn 24 hours.
		if relErr := s.cooldowns.Release(ctx, in.UserID, in.BusinessID, models.CooldownCheckin); relErr != nil && s.logger != nil {
			s.logger.Errorf("cooldown release error: %v", relErr)
		}
		return nil, err
	}

	pointsAwarded, err := s.gamification.AwardPoints(ctx, in.UserID, checkinPoints)
	if err != nil && s.logger != nil {
		s.logger.Errorf("check-in points award error: %v", err)
	}

	newAchievements, err := s.gamification.CheckMilestones(ctx, in.UserID)
	if err != nil {
		newAchievements = []string{}
		if s.logger != nil {
			s.logger.Errorf("check-in milestone check error: %v", err)
		}
	}

	result := &CheckinResult{
		CheckinID:        checkinID,
		BusinessName:     business.Name,
		PointsAwarded:    pointsAwarded,
		NewAchievements:  newAchievements,
		LocationVerified: verified,
	}
	if distance != nil {
		result.Distance = utils.FormatDistance(*distance)
	}
	return result, nil
}
