package services

import (
	"context"
	"errors"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"hangoutspots/models"
)

// DailyPointsCap is the maximum total points a user may earn per UTC
// calendar day.
const DailyPointsCap = 500

// LevelInfo describes the tier a point total maps to.
type LevelInfo struct {
	Level     int    `json:"level"`
	Title     string `json:"title"`
	Icon      string `json:"icon"`
	NextLevel *int   `json:"nextLevel"`
	Progress  int    `json:"progress"`
}

// GetUserLevel maps a total point count to its level tier. Pure and total:
// any non-negative count returns a level in 1..5.
func GetUserLevel(points int) LevelInfo {
	var info LevelInfo

	switch {
	case points >= 1000:
		info = LevelInfo{Level: 5, Title: "Elite Reviewer", Icon: "🌟"}
	case points >= 500:
		info = LevelInfo{Level: 4, Title: "Community Star", Icon: "⭐", NextLevel: intPtr(1000)}
	case points >= 200:
		info = LevelInfo{Level: 3, Title: "Local Guide", Icon: "🗺️", NextLevel: intPtr(500)}
	case points >= 50:
		info = LevelInfo{Level: 2, Title: "City Scout", Icon: "🔍", NextLevel: intPtr(200)}
	default:
		info = LevelInfo{Level: 1, Title: "New Explorer", Icon: "🌱", NextLevel: intPtr(50)}
	}

	if info.NextLevel != nil {
		info.Progress = int(math.Round(float64(points) / float64(*info.NextLevel) * 100))
	} else {
		info.Progress = 100
	}
	return info
}

func intPtr(v int) *int { return &v }

// milestone thresholds evaluated against live activity counters.
type milestone struct {
	Type      string
	Metric    string
	Threshold int64
	Bonus     int
}

const (
	metricReviews  = "reviews"
	metricMedia    = "media"
	metricCheckins = "checkins"
)

var milestones = []milestone{
	{Type: "first_review", Metric: metricReviews, Threshold: 1, Bonus: 10},
	{Type: "first_photo", Metric: metricMedia, Threshold: 1, Bonus: 5},
	{Type: "milestone_10_reviews", Metric: metricReviews, Threshold: 10, Bonus: 50},
	{Type: "milestone_50_reviews", Metric: metricReviews, Threshold: 50, Bonus: 200},
	{Type: "milestone_100_reviews", Metric: metricReviews, Threshold: 100, Bonus: 500},
	{Type: "checkin_champion", Metric: metricCheckins, Threshold: 10, Bonus: 30},
}

var achievementCatalog = map[string]struct {
	Name        string
	Icon        string
	Description string
}{
	"first_review":          {"First Step", "🌱", "Posted your first review"},
	"first_photo":           {"Shutterbug", "📸", "Uploaded your first photo"},
	"milestone_10_reviews":  {"10 Reviews", "🔥", "Posted 10 reviews"},
	"milestone_50_reviews":  {"50 Reviews", "💯", "Posted 50 reviews"},
	"milestone_100_reviews": {"100 Reviews", "🏆", "Posted 100 reviews"},
	"checkin_champion":      {"Check-in Champion", "📍", "Checked in 10 times"},
}

// GamificationService owns user point state and achievements. All point
// mutations pass through it under a per-user lock.
type GamificationService struct {
	users        UserStore
	achievements AchievementStore
	activity     ActivityStore
	locks        *userLocks
	publish      EventFunc
	logger       *zap.SugaredLogger
	now          func() time.Time
}

// NewGamificationService wires the engine. publish may be nil.
func NewGamificationService(users UserStore, achievements AchievementStore, activity ActivityStore, publish EventFunc, logger *zap.SugaredLogger) *GamificationService {
	return &GamificationService{
		users:        users,
		achievements: achievements,
		activity:     activity,
		locks:        newUserLocks(),
		publish:      publish,
		logger:       logger,
		now:          time.Now,
	}
}

// utcDay truncates t to its UTC calendar date.
func utcDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AwardPoints adds points to a user subject to the daily cap and returns the
// amount actually awarded, which may be less than requested including zero.
// Hitting the cap is not an error; callers must report the returned value,
// never the requested one.
func (s *GamificationService) AwardPoints(ctx context.Context, userID primitive.ObjectID, amount int) (int, error) {
	if amount <= 0 {
		return 0, nil
	}

	mu := s.locks.lock(userID)
	defer mu.Unlock()

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return 0, err
	}

	today := utcDay(s.now())
	pointsToday := user.PointsToday
	if !utcDay(user.PointsResetDate).Equal(today) {
		// Stale reset date: the daily counter resets logically, no job needed.
		pointsToday = 0
	}

	headroom := DailyPointsCap - pointsToday
	if headroom <= 0 {
		return 0, nil
	}

	award := amount
	if award > headroom {
		award = headroom
	}

	newTotal := user.Points + award
	level := GetUserLevel(newTotal)

	if err := s.users.SavePoints(ctx, userID, newTotal, pointsToday+award, level.Level, today); err != nil {
		return 0, err
	}

	if s.publish != nil {
		s.publish(models.GamificationEvent{
			Type:      models.EventPointsAwarded,
			UserID:    userID.Hex(),
			Points:    award,
			Timestamp: s.now(),
		})
	}
	return award, nil
}

// DeductPoints removes points from a user, clamping the total at zero.
// Deductions ignore the daily cap and do not touch points_today.
func (s *GamificationService) DeductPoints(ctx context.Context, userID primitive.ObjectID, amount int) (int, error) {
	if amount <= 0 {
		return 0, nil
	}

	mu := s.locks.lock(userID)
	defer mu.Unlock()

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return 0, err
	}

	newTotal := user.Points - amount
	if newTotal < 0 {
		newTotal = 0
	}
	level := GetUserLevel(newTotal)

	if err := s.users.SavePoints(ctx, userID, newTotal, user.PointsToday, level.Level, user.PointsResetDate); err != nil {
		return 0, err
	}
	return user.Points - newTotal, nil
}

// DailyPointsRemaining reports the cap headroom the user has left today.
func (s *GamificationService) DailyPointsRemaining(user *models.User) (earnedToday, remaining int) {
	if utcDay(user.PointsResetDate).Equal(utcDay(s.now())) {
		earnedToday = user.PointsToday
	}
	remaining = DailyPointsCap - earnedToday
	if remaining < 0 {
		remaining = 0
	}
	return earnedToday, remaining
}

// HasAchievement reports whether the user already earned the badge.
func (s *GamificationService) HasAchievement(ctx context.Context, userID primitive.ObjectID, achievementType string) (bool, error) {
	return s.achievements.Exists(ctx, userID, achievementType)
}

// AwardAchievement grants a one-time badge plus bonus points. It reports
// whether the badge is newly awarded; a repeat call or a lost insert race is
// a no-op, not an error. Bonus points obey the daily cap, and the badge
// counts as newly awarded even when the cap swallowed the whole bonus.
func (s *GamificationService) AwardAchievement(ctx context.Context, userID primitive.ObjectID, achievementType string, bonusPoints int) (bool, error) {
	has, err := s.achievements.Exists(ctx, userID, achievementType)
	if err != nil {
		return false, err
	}
	if has {
		return false, nil
	}

	if err := s.achievements.Insert(ctx, userID, achievementType, s.now()); err != nil {
		if errors.Is(err, ErrConflict) {
			// Lost the race to a concurrent award.
			return false, nil
		}
		return false, err
	}

	if bonusPoints > 0 {
		if _, err := s.AwardPoints(ctx, userID, bonusPoints); err != nil && s.logger != nil {
			s.logger.Errorf("achievement bonus points error: %v", err)
		}
	}

	if s.publish != nil {
		s.publish(models.GamificationEvent{
			Type:            models.EventAchievementEarned,
			UserID:          userID.Hex(),
			AchievementType: achievementType,
			Timestamp:       s.now(),
		})
	}
	return true, nil
}

// CheckMilestones evaluates the milestone table against the user's activity
// counters and awards anything newly earned. It returns the achievement
// types first awarded by this call.
func (s *GamificationService) CheckMilestones(ctx context.Context, userID primitive.ObjectID) ([]string, error) {
	reviewCount, err := s.activity.ReviewCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	mediaCount, err := s.activity.MediaCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	checkinCount, err := s.activity.CheckinCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	counts := map[string]int64{
		metricReviews:  reviewCount,
		metricMedia:    mediaCount,
		metricCheckins: checkinCount,
	}

	newAchievements := []string{}
	for _, m := range milestones {
		if counts[m.Metric] < m.Threshold {
			continue
		}
		awarded, err := s.AwardAchievement(ctx, userID, m.Type, m.Bonus)
		if err != nil {
			if s.logger != nil {
				s.logger.Errorf("milestone %s award error: %v", m.Type, err)
			}
			continue
		}
		if awarded {
			newAchievements = append(newAchievements, m.Type)
		}
	}
	return newAchievements, nil
}

// UserAchievements returns the user's earned badges in display form, newest
// first.
func (s *GamificationService) UserAchievements(ctx context.Context, userID primitive.ObjectID) ([]models.AchievementInfo, error) {
	rows, err := s.achievements.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	infos := make([]models.AchievementInfo, 0, len(rows))
	for _, row := range rows {
		info := models.AchievementInfo{Type: row.AchievementType, AwardedAt: row.AwardedAt}
		if meta, ok := achievementCatalog[row.AchievementType]; ok {
			info.Name = meta.Name
			info.Icon = meta.Icon
			info.Description = meta.Description
		}
		infos = append(infos, info)
	}
	return infos, nil
}
