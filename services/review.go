package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"hangoutspots/models"
)

// ReviewCooldown is the minimum gap between two reviews by the same user of
// the same business.
const ReviewCooldown = 7 * 24 * time.Hour

const (
	reviewBasePoints    = 10
	reviewMediaBonus    = 5
	reactionPointsDelta = 2
)

// ReviewService handles review submission and reactions.
type ReviewService struct {
	users         UserStore
	businesses    BusinessStore
	reviews       ReviewStore
	media         MediaStore
	subscriptions SubscriptionStore
	cooldowns     CooldownStore
	gamification  *GamificationService
	geocode       GeocodeFunc
	sanitizer     *bluemonday.Policy
	logger        *zap.SugaredLogger
	now           func() time.Time
}

func NewReviewService(
	users UserStore,
	businesses BusinessStore,
	reviews ReviewStore,
	media MediaStore,
	subscriptions SubscriptionStore,
	cooldowns CooldownStore,
	gamification *GamificationService,
	geocode GeocodeFunc,
	logger *zap.SugaredLogger,
) *ReviewService {
	return &ReviewService{
		users:         users,
		businesses:    businesses,
		reviews:       reviews,
		media:         media,
		subscriptions: subscriptions,
		cooldowns:     cooldowns,
		gamification:  gamification,
		geocode:       geocode,
		sanitizer:     bluemonday.StrictPolicy(),
		logger:        logger,
		now:           time.Now,
	}
}

// MediaUpload describes an already-stored upload to attach to the review.
type MediaUpload struct {
	StoredName  string
	ContentType string
}

// InferredType maps the upload's content type onto image or video.
func (m MediaUpload) InferredType() string {
	if strings.HasPrefix(m.ContentType, "video") {
		return models.MediaTypeVideo
	}
	return models.MediaTypeImage
}

// SubmitReviewInput carries a review submission. Tags may arrive structured
// or as a raw delimited string; RawTags is used when Tags is nil.
type SubmitReviewInput struct {
	UserID       primitive.ObjectID
	BusinessName string
	Category     string
	Description  string
	Location     string
	Division     string
	Address      string
	Contact      string
	PlaceID      string
	Rating       int
	Text         string
	Tags         []string
	RawTags      string
	Latitude     *float64
	Longitude    *float64
	Media        []MediaUpload
}

// SubmitReviewResult reports a stored review.
type SubmitReviewResult struct {
	ReviewID        primitive.ObjectID
	BusinessID      primitive.ObjectID
	PointsAwarded   int
	NewAchievements []string
}

// ParseTags accepts a JSON array string or a comma-delimited list; malformed
// JSON falls back to comma splitting.
func ParseTags(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}

	var parsed []string
	if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
		return parsed
	}

	tags := []string{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// SubmitReview runs the full submission flow: subscription gate, business
// upsert with geocoding fallback, 7-day cooldown on existing businesses,
// review + media persistence, point award with first-review doubling, and
// subscription debit. Points and milestones are best-effort once the review
// is saved.
func (s *ReviewService) SubmitReview(ctx context.Context, in SubmitReviewInput) (*SubmitReviewResult, error) {
	now := s.now()

	subscription, err := s.subscriptions.FindActive(ctx, in.UserID, now)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	if subscription.UploadsRemaining <= 0 {
		return nil, ErrForbidden
	}

	businessID, existed, err := s.resolveBusiness(ctx, in)
	if err != nil {
		return nil, err
	}

	if existed {
		claimed, last, err := s.cooldowns.Claim(ctx, in.UserID, businessID, models.CooldownReview, ReviewCooldown, now)
		if err != nil {
			return nil, err
		}
		if !claimed {
			hoursSince := now.Sub(last).Hours()
			return nil, &RateLimitedError{
				HoursRemaining: int(math.Ceil(ReviewCooldown.Hours() - hoursSince)),
				LastAt:         last,
			}
		}
	}

	tags := in.Tags
	if tags == nil {
		tags = ParseTags(in.RawTags)
	}

	review := &models.Review{
		UserID:     in.UserID,
		BusinessID: businessID,
		Rating:     in.Rating,
		Text:       s.sanitizer.Sanitize(in.Text),
		Tags:       tags,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	reviewID, err := s.reviews.Insert(ctx, review)
	if err != nil {
		if existed {
			if relErr := s.cooldowns.Release(ctx, in.UserID, businessID, models.CooldownReview); relErr != nil && s.logger != nil {
				s.logger.Errorf("review cooldown release error: %v", relErr)
			}
		}
		return nil, err
	}

	for _, upload := range in.Media {
		err := s.media.Insert(ctx, &models.Media{
			BusinessID: businessID,
			ReviewID:   reviewID,
			MediaURL:   upload.StoredName,
			MediaType:  upload.InferredType(),
			CreatedAt:  now,
		})
		if err != nil && s.logger != nil {
			s.logger.Errorf("media save error: %v", err)
		}
	}

	points := reviewBasePoints
	if len(in.Media) > 0 {
		points += reviewMediaBonus
	}
	reviewCount, err := s.reviews.CountByBusiness(ctx, businessID)
	if err == nil && reviewCount == 1 {
		// First review ever for this business.
		points *= 2
	}

	pointsAwarded, err := s.gamification.AwardPoints(ctx, in.UserID, points)
	if err != nil && s.logger != nil {
		s.logger.Errorf("review points award error: %v", err)
	}

	newAchievements, err := s.gamification.CheckMilestones(ctx, in.UserID)
	if err != nil {
		newAchievements = []string{}
		if s.logger != nil {
			s.logger.Errorf("review milestone check error: %v", err)
		}
	}

	if err := s.subscriptions.DecrementUploads(ctx, subscription.ID); err != nil && s.logger != nil {
		s.logger.Errorf("subscription update error: %v", err)
	}

	return &SubmitReviewResult{
		ReviewID:        reviewID,
		BusinessID:      businessID,
		PointsAwarded:   pointsAwarded,
		NewAchievements: newAchievements,
	}, nil
}

// resolveBusiness finds the target business by name (and address when
// given), creating it when absent. New businesses get caller-supplied
// coordinates first, a geocoding lookup second, and are created regardless
// when neither yields a position.
func (s *ReviewService) resolveBusiness(ctx context.Context, in SubmitReviewInput) (primitive.ObjectID, bool, error) {
	business, err := s.businesses.FindByName(ctx, in.BusinessName, in.Address)
	if err == nil {
		return business.ID, true, nil
	}
	if err != ErrNotFound {
		return primitive.NilObjectID, false, err
	}

	now := s.now()
	fresh := &models.Business{
		Name:        in.BusinessName,
		Category:    in.Category,
		Description: in.Description,
		Location:    in.Location,
		Division:    in.Division,
		Address:     in.Address,
		Contact:     in.Contact,
		PlaceID:     in.PlaceID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if in.Latitude != nil && in.Longitude != nil {
		fresh.Latitude = in.Latitude
		fresh.Longitude = in.Longitude
	} else if s.geocode != nil {
		parts := []string{in.BusinessName, in.Address, in.Location, in.Division}
		fields := []string{}
		for _, p := range parts {
			if p != "" {
				fields = append(fields, p)
			}
		}
		if coords := s.geocode(ctx, strings.Join(fields, ", ")); coords != nil {
			fresh.Latitude = &coords.Latitude
			fresh.Longitude = &coords.Longitude
		} else if s.logger != nil {
			s.logger.Warnf("could not geocode %q, GPS check-in disabled for this business", in.BusinessName)
		}
	}

	id, err := s.businesses.Insert(ctx, fresh)
	if err != nil {
		return primitive.NilObjectID, false, err
	}
	return id, false, nil
}

// React applies a like or none reaction by actor on a review and adjusts the
// author's points. It returns the point delta actually applied to the
// author: positive deltas are post-cap, zero means the transition carried no
// points.
func (s *ReviewService) React(ctx context.Context, reviewID, actorID primitive.ObjectID, reaction string) (int, error) {
	review, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return 0, err
	}

	// No self-likes.
	if review.UserID == actorID {
		return 0, ErrForbidden
	}

	existing, err := s.reviews.FindReaction(ctx, actorID, reviewID)
	if err != nil && err != ErrNotFound {
		return 0, err
	}

	delta := 0
	switch reaction {
	case "none":
		if existing != nil && existing.IsLike {
			delta = -reactionPointsDelta
		}
	case "like":
		if existing == nil || !existing.IsLike {
			delta = reactionPointsDelta
		}
	default:
		return 0, fmt.Errorf("unknown reaction %q", reaction)
	}

	if reaction == "none" {
		if existing != nil {
			if err := s.reviews.DeleteReaction(ctx, actorID, reviewID); err != nil {
				return 0, err
			}
		}
	} else {
		if err := s.reviews.UpsertReaction(ctx, actorID, reviewID, true); err != nil {
			return 0, err
		}
	}

	switch {
	case delta > 0:
		applied, err := s.gamification.AwardPoints(ctx, review.UserID, delta)
		if err != nil && s.logger != nil {
			s.logger.Errorf("reaction points award error: %v", err)
		}
		return applied, nil
	case delta < 0:
		if _, err := s.gamification.DeductPoints(ctx, review.UserID, -delta); err != nil && s.logger != nil {
			s.logger.Errorf("reaction points deduct error: %v", err)
		}
		return delta, nil
	default:
		return 0, nil
	}
}
