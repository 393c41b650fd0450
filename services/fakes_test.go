package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"hangoutspots/models"
)

// In-memory store fakes for exercising the rule engines without MongoDB.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[primitive.ObjectID]*models.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *fakeUserStore) SavePoints(ctx context.Context, id primitive.ObjectID, points, pointsToday, level int, resetDate time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Points = points
	u.PointsToday = pointsToday
	u.Level = level
	u.PointsResetDate = resetDate
	return nil
}

func (s *fakeUserStore) get(id primitive.ObjectID) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id]
}

type achievementKey struct {
	user primitive.ObjectID
	typ  string
}

type fakeAchievementStore struct {
	mu           sync.Mutex
	rows         map[achievementKey]time.Time
	conflictNext bool
}

func newFakeAchievementStore() *fakeAchievementStore {
	return &fakeAchievementStore{rows: make(map[achievementKey]time.Time)}
}

func (s *fakeAchievementStore) Exists(ctx context.Context, userID primitive.ObjectID, typ string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.rows[achievementKey{userID, typ}]
	return ok, nil
}

func (s *fakeAchievementStore) Insert(ctx context.Context, userID primitive.ObjectID, typ string, awardedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conflictNext {
		s.conflictNext = false
		return ErrConflict
	}
	key := achievementKey{userID, typ}
	if _, ok := s.rows[key]; ok {
		return ErrConflict
	}
	s.rows[key] = awardedAt
	return nil
}

func (s *fakeAchievementStore) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.UserAchievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.UserAchievement
	for key, at := range s.rows {
		if key.user == userID {
			out = append(out, models.UserAchievement{UserID: key.user, AchievementType: key.typ, AwardedAt: at})
		}
	}
	return out, nil
}

type fakeActivityStore struct {
	reviews  int64
	media    int64
	checkins int64
}

func (s *fakeActivityStore) ReviewCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.reviews, nil
}

func (s *fakeActivityStore) MediaCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.media, nil
}

func (s *fakeActivityStore) CheckinCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.checkins, nil
}

type fakeBusinessStore struct {
	mu         sync.Mutex
	businesses map[primitive.ObjectID]*models.Business
}

func newFakeBusinessStore(businesses ...*models.Business) *fakeBusinessStore {
	s := &fakeBusinessStore{businesses: make(map[primitive.ObjectID]*models.Business)}
	for _, b := range businesses {
		s.businesses[b.ID] = b
	}
	return s
}

func (s *fakeBusinessStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Business, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.businesses[id]
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *fakeBusinessStore) FindByName(ctx context.Context, name, address string) (*models.Business, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.businesses {
		if b.Name != name {
			continue
		}
		if address != "" && b.Address != address {
			continue
		}
		return b, nil
	}
	return nil, ErrNotFound
}

func (s *fakeBusinessStore) Insert(ctx context.Context, business *models.Business) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	business.ID = primitive.NewObjectID()
	s.businesses[business.ID] = business
	return business.ID, nil
}

type fakeCheckinStore struct {
	mu       sync.Mutex
	inserted []models.Checkin
	failNext bool
}

func (s *fakeCheckinStore) Insert(ctx context.Context, checkin *models.Checkin) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext {
		s.failNext = false
		return primitive.NilObjectID, fmt.Errorf("insert failed")
	}
	checkin.ID = primitive.NewObjectID()
	s.inserted = append(s.inserted, *checkin)
	return checkin.ID, nil
}

type cooldownKey struct {
	user   primitive.ObjectID
	target primitive.ObjectID
	kind   string
}

type fakeCooldownStore struct {
	mu     sync.Mutex
	claims map[cooldownKey]time.Time
}

func newFakeCooldownStore() *fakeCooldownStore {
	return &fakeCooldownStore{claims: make(map[cooldownKey]time.Time)}
}

func (s *fakeCooldownStore) Claim(ctx context.Context, userID, targetID primitive.ObjectID, kind string, window time.Duration, now time.Time) (bool, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := cooldownKey{userID, targetID, kind}
	if last, ok := s.claims[key]; ok && now.Sub(last) < window {
		return false, last, nil
	}
	s.claims[key] = now
	return true, time.Time{}, nil
}

func (s *fakeCooldownStore) Release(ctx context.Context, userID, targetID primitive.ObjectID, kind string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.claims, cooldownKey{userID, targetID, kind})
	return nil
}

type fakeReviewStore struct {
	mu        sync.Mutex
	reviews   map[primitive.ObjectID]*models.Review
	reactions map[cooldownKey]*models.ReviewLike
}

func newFakeReviewStore(reviews ...*models.Review) *fakeReviewStore {
	s := &fakeReviewStore{
		reviews:   make(map[primitive.ObjectID]*models.Review),
		reactions: make(map[cooldownKey]*models.ReviewLike),
	}
	for _, r := range reviews {
		s.reviews[r.ID] = r
	}
	return s
}

func (s *fakeReviewStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reviews[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

func (s *fakeReviewStore) Insert(ctx context.Context, review *models.Review) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	review.ID = primitive.NewObjectID()
	s.reviews[review.ID] = review
	return review.ID, nil
}

func (s *fakeReviewStore) CountByBusiness(ctx context.Context, businessID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, r := range s.reviews {
		if r.BusinessID == businessID {
			n++
		}
	}
	return n, nil
}

func (s *fakeReviewStore) FindReaction(ctx context.Context, userID, reviewID primitive.ObjectID) (*models.ReviewLike, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	like, ok := s.reactions[cooldownKey{userID, reviewID, "reaction"}]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *like
	return &copied, nil
}

func (s *fakeReviewStore) UpsertReaction(ctx context.Context, userID, reviewID primitive.ObjectID, isLike bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reactions[cooldownKey{userID, reviewID, "reaction"}] = &models.ReviewLike{
		UserID:   userID,
		ReviewID: reviewID,
		IsLike:   isLike,
	}
	return nil
}

func (s *fakeReviewStore) DeleteReaction(ctx context.Context, userID, reviewID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reactions, cooldownKey{userID, reviewID, "reaction"})
	return nil
}

func (s *fakeReviewStore) reactionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reactions)
}

type fakeMediaStore struct {
	mu       sync.Mutex
	inserted []models.Media
}

func (s *fakeMediaStore) Insert(ctx context.Context, media *models.Media) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserted = append(s.inserted, *media)
	return nil
}

type fakeSubscriptionStore struct {
	mu      sync.Mutex
	subs    map[primitive.ObjectID]*models.Subscription // keyed by user
	findErr error
}

func newFakeSubscriptionStore(subs ...*models.Subscription) *fakeSubscriptionStore {
	s := &fakeSubscriptionStore{subs: make(map[primitive.ObjectID]*models.Subscription)}
	for _, sub := range subs {
		s.subs[sub.UserID] = sub
	}
	return s
}

func (s *fakeSubscriptionStore) FindActive(ctx context.Context, userID primitive.ObjectID, now time.Time) (*models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	sub, ok := s.subs[userID]
	if !ok || !sub.ExpiryDate.After(now) {
		return nil, ErrNotFound
	}
	copied := *sub
	return &copied, nil
}

func (s *fakeSubscriptionStore) DecrementUploads(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs {
		if sub.ID == id && sub.UploadsRemaining > 0 {
			sub.UploadsRemaining--
			return nil
		}
	}
	return ErrNotFound
}
