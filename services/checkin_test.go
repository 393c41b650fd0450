package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"hangoutspots/models"
	"hangoutspots/utils"
)

func float64Ptr(v float64) *float64 { return &v }

type checkinFixture struct {
	svc        *CheckinService
	users      *fakeUserStore
	businesses *fakeBusinessStore
	checkins   *fakeCheckinStore
	cooldowns  *fakeCooldownStore
	user       *models.User
	business   *models.Business
}

// setClock pins both the check-in and gamification clocks.
func (f *checkinFixture) setClock(t time.Time) {
	f.svc.now = func() time.Time { return t }
	f.svc.gamification.now = func() time.Time { return t }
}

func newCheckinFixture(business *models.Business) *checkinFixture {
	user := &models.User{ID: primitive.NewObjectID()}
	users := newFakeUserStore(user)
	businesses := newFakeBusinessStore(business)
	checkins := &fakeCheckinStore{}
	cooldowns := newFakeCooldownStore()
	gamification := newTestGamification(users, nil, nil)
	return &checkinFixture{
		svc:        NewCheckinService(businesses, checkins, cooldowns, gamification, nil),
		users:      users,
		businesses: businesses,
		checkins:   checkins,
		cooldowns:  cooldowns,
		user:       user,
		business:   business,
	}
}

func placedBusiness(lat, lng float64) *models.Business {
	return &models.Business{
		ID:        primitive.NewObjectID(),
		Name:      "Cafe Mondo",
		Latitude:  float64Ptr(lat),
		Longitude: float64Ptr(lng),
	}
}

func TestCheckInVerifiedWithinRadius(t *testing.T) {
	f := newCheckinFixture(placedBusiness(23.8103, 90.4125))

	// ~111m north of the business.
	result, err := f.svc.CheckIn(context.Background(), CheckinInput{
		UserID:     f.user.ID,
		BusinessID: f.business.ID,
		Latitude:   float64Ptr(23.8113),
		Longitude:  float64Ptr(90.4125),
	})
	if err != nil {
		t.Fatalf("CheckIn error: %v", err)
	}
	if !result.LocationVerified {
		t.Error("check-in inside the radius not marked verified")
	}
	if result.Distance == "" {
		t.Error("verified check-in missing distance")
	}
	if result.PointsAwarded != 10 {
		t.Errorf("points awarded = %d, want 10", result.PointsAwarded)
	}
	if result.BusinessName != "Cafe Mondo" {
		t.Errorf("business name = %q", result.BusinessName)
	}
	if len(f.checkins.inserted) != 1 {
		t.Errorf("stored %d check-ins, want 1", len(f.checkins.inserted))
	}
}

func TestCheckInTooFar(t *testing.T) {
	f := newCheckinFixture(placedBusiness(23.8103, 90.4125))

	// ~1.1km away.
	_, err := f.svc.CheckIn(context.Background(), CheckinInput{
		UserID:     f.user.ID,
		BusinessID: f.business.ID,
		Latitude:   float64Ptr(23.8203),
		Longitude:  float64Ptr(90.4125),
	})

	var tooFar *TooFarError
	if !errors.As(err, &tooFar) {
		t.Fatalf("CheckIn error = %v, want TooFarError", err)
	}
	if tooFar.DistanceMeters <= utils.DefaultCheckinRadiusMeters {
		t.Errorf("reported distance %.0fm not beyond the radius", tooFar.DistanceMeters)
	}
	if len(f.checkins.inserted) != 0 {
		t.Error("rejected check-in was stored")
	}
	if u := f.users.get(f.user.ID); u.Points != 0 {
		t.Error("rejected check-in awarded points")
	}
}

func TestCheckInUnverifiedWhenBusinessHasNoCoordinates(t *testing.T) {
	f := newCheckinFixture(&models.Business{ID: primitive.NewObjectID(), Name: "Mystery Spot"})

	result, err := f.svc.CheckIn(context.Background(), CheckinInput{
		UserID:     f.user.ID,
		BusinessID: f.business.ID,
		Latitude:   float64Ptr(23.8103),
		Longitude:  float64Ptr(90.4125),
	})
	if err != nil {
		t.Fatalf("CheckIn error: %v", err)
	}
	if result.LocationVerified {
		t.Error("check-in without business coordinates marked verified")
	}
	if result.Distance != "" {
		t.Errorf("distance = %q, want empty", result.Distance)
	}
	if result.PointsAwarded != 10 {
		t.Errorf("points awarded = %d, want 10", result.PointsAwarded)
	}
}

func TestCheckInUnverifiedWhenCallerSendsNoPosition(t *testing.T) {
	f := newCheckinFixture(placedBusiness(23.8103, 90.4125))

	result, err := f.svc.CheckIn(context.Background(), CheckinInput{
		UserID:     f.user.ID,
		BusinessID: f.business.ID,
	})
	if err != nil {
		t.Fatalf("CheckIn error: %v", err)
	}
	if result.LocationVerified {
		t.Error("check-in without caller position marked verified")
	}
}

func TestCheckInUnknownBusiness(t *testing.T) {
	f := newCheckinFixture(placedBusiness(23.8103, 90.4125))

	_, err := f.svc.CheckIn(context.Background(), CheckinInput{
		UserID:     f.user.ID,
		BusinessID: primitive.NewObjectID(),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("CheckIn error = %v, want ErrNotFound", err)
	}
}

func TestCheckInCooldown(t *testing.T) {
	f := newCheckinFixture(placedBusiness(23.8103, 90.4125))
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	in := CheckinInput{
		UserID:     f.user.ID,
		BusinessID: f.business.ID,
		Latitude:   float64Ptr(23.8103),
		Longitude:  float64Ptr(90.4125),
	}

	f.setClock(start)
	if _, err := f.svc.CheckIn(context.Background(), in); err != nil {
		t.Fatalf("first check-in error: %v", err)
	}

	// One hour later: still inside the window.
	f.setClock(start.Add(time.Hour))
	_, err := f.svc.CheckIn(context.Background(), in)
	var limited *RateLimitedError
	if !errors.As(err, &limited) {
		t.Fatalf("second check-in error = %v, want RateLimitedError", err)
	}
	if limited.HoursRemaining != 23 {
		t.Errorf("hours remaining = %d, want 23", limited.HoursRemaining)
	}

	// Twenty-five hours later: the window has passed.
	f.setClock(start.Add(25 * time.Hour))
	if _, err := f.svc.CheckIn(context.Background(), in); err != nil {
		t.Fatalf("check-in after window error: %v", err)
	}
	if len(f.checkins.inserted) != 2 {
		t.Errorf("stored %d check-ins, want 2", len(f.checkins.inserted))
	}
}

func TestCheckInCooldownIsPerBusiness(t *testing.T) {
	first := placedBusiness(23.8103, 90.4125)
	f := newCheckinFixture(first)
	second := placedBusiness(23.8103, 90.4125)
	second.Name = "Second Spot"
	f.businesses.businesses[second.ID] = second

	if _, err := f.svc.CheckIn(context.Background(), CheckinInput{UserID: f.user.ID, BusinessID: first.ID}); err != nil {
		t.Fatalf("first check-in error: %v", err)
	}
	if _, err := f.svc.CheckIn(context.Background(), CheckinInput{UserID: f.user.ID, BusinessID: second.ID}); err != nil {
		t.Fatalf("check-in at a different business error: %v", err)
	}
}

func TestCheckInInsertFailureReleasesCooldown(t *testing.T) {
	f := newCheckinFixture(placedBusiness(23.8103, 90.4125))
	f.checkins.failNext = true

	in := CheckinInput{UserID: f.user.ID, BusinessID: f.business.ID}
	if _, err := f.svc.CheckIn(context.Background(), in); err == nil {
		t.Fatal("expected insert failure to surface")
	}
	if u := f.users.get(f.user.ID); u.Points != 0 {
		t.Error("failed check-in awarded points")
	}

	// The slot must be free again: an immediate retry succeeds.
	if _, err := f.svc.CheckIn(context.Background(), in); err != nil {
		t.Fatalf("retry after failed insert error: %v", err)
	}
}

func TestCheckInAwardsCheckinChampion(t *testing.T) {
	f := newCheckinFixture(placedBusiness(23.8103, 90.4125))
	activity := &fakeActivityStore{checkins: 10}
	f.svc.gamification = newTestGamification(f.users, nil, activity)

	result, err := f.svc.CheckIn(context.Background(), CheckinInput{UserID: f.user.ID, BusinessID: f.business.ID})
	if err != nil {
		t.Fatalf("CheckIn error: %v", err)
	}

	found := false
	for _, typ := range result.NewAchievements {
		if typ == "checkin_champion" {
			found = true
		}
	}
	if !found {
		t.Errorf("achievements = %v, want checkin_champion", result.NewAchievements)
	}
}
