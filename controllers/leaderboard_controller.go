package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hangoutspots/db"
	"hangoutspots/models"
	"hangoutspots/services"
	"hangoutspots/utils"
)

// DefaultLeaderboardCacheKey names the cached default leaderboard page.
const DefaultLeaderboardCacheKey = "leaderboard:all:50"

const leaderboardCacheTTL = 5 * time.Minute

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	Rank        int                `json:"rank"`
	UserID      string             `json:"user_id"`
	Username    string             `json:"username"`
	Points      int                `json:"points"`
	Level       services.LevelInfo `json:"level"`
	Stats       leaderboardStats   `json:"stats"`
	MemberSince time.Time          `json:"member_since"`
}

type leaderboardStats struct {
	Reviews      int64 `json:"reviews"`
	Checkins     int64 `json:"checkins"`
	Achievements int64 `json:"achievements"`
}

type leaderboardResponse struct {
	Range       string             `json:"range"`
	TotalUsers  int                `json:"total_users"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

// GetLeaderboard returns the top users by points. The default page
// (range=all, limit=50) is served from Redis when cached.
func GetLeaderboard(c *gin.Context) {
	rangeParam := c.DefaultQuery("range", "all")
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	if err != nil || limit < 1 || limit > 100 {
		limit = 50
	}

	ctx := c.Request.Context()
	isDefaultPage := rangeParam == "all" && limit == 50
	if isDefaultPage {
		if cached, ok := db.CacheGetBytes(ctx, DefaultLeaderboardCacheKey); ok {
			c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			return
		}
	}

	response, err := BuildLeaderboard(ctx, rangeParam, limit)
	if err != nil {
		utils.Sugar.Errorf("leaderboard build error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch leaderboard"})
		return
	}

	if isDefaultPage {
		if payload, err := json.Marshal(response); err == nil {
			db.CacheSetBytes(ctx, DefaultLeaderboardCacheKey, payload, leaderboardCacheTTL)
		}
	}
	c.JSON(http.StatusOK, response)
}

// BuildLeaderboard assembles a ranked page. The weekly and monthly ranges
// restrict to users who joined inside the window. Exported for the cache
// refresh job.
func BuildLeaderboard(ctx context.Context, rangeParam string, limit int64) (*leaderboardResponse, error) {
	filter := bson.M{}
	now := time.Now().UTC()
	switch rangeParam {
	case "weekly":
		filter["createdAt"] = bson.M{"$gte": now.AddDate(0, 0, -7)}
	case "monthly":
		filter["createdAt"] = bson.M{"$gte": now.AddDate(0, -1, 0)}
	}

	cursor, err := db.GetCollection("users").Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "points", Value: -1}, {Key: "createdAt", Value: 1}}).
		SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for i, user := range users {
		entries = append(entries, LeaderboardEntry{
			Rank:        i + 1,
			UserID:      user.ID.Hex(),
			Username:    user.Name,
			Points:      user.Points,
			Level:       services.GetUserLevel(user.Points),
			Stats:       userActivityStats(ctx, user.ID),
			MemberSince: user.CreatedAt,
		})
	}

	return &leaderboardResponse{
		Range:       rangeParam,
		TotalUsers:  len(entries),
		Leaderboard: entries,
	}, nil
}

func userActivityStats(ctx context.Context, userID primitive.ObjectID) leaderboardStats {
	reviews, _ := db.GetCollection("reviews").CountDocuments(ctx, bson.M{"user_id": userID})
	checkins, _ := db.GetCollection("checkins").CountDocuments(ctx, bson.M{"user_id": userID})
	achievements, _ := db.GetCollection("user_achievements").CountDocuments(ctx, bson.M{"user_id": userID})
	return leaderboardStats{Reviews: reviews, Checkins: checkins, Achievements: achievements}
}

// GetUserRank returns a user's global rank plus the five users directly
// above and below them.
func GetUserRank(c *gin.Context) {
	userID, ok := objectIDParam(c, "userId")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var user models.User
	if err := db.GetCollection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	ahead, err := db.GetCollection("users").CountDocuments(ctx, bson.M{"points": bson.M{"$gt": user.Points}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute rank"})
		return
	}

	above := nearbyUsers(ctx, bson.M{"points": bson.M{"$gt": user.Points}}, bson.M{"points": 1})
	below := nearbyUsers(ctx, bson.M{
		"points": bson.M{"$lte": user.Points},
		"_id":    bson.M{"$ne": user.ID},
	}, bson.M{"points": -1})

	combined := append(above, below...)
	sort.Slice(combined, func(i, j int) bool { return combined[i].Points > combined[j].Points })

	nearby := make([]gin.H, 0, len(combined))
	for _, u := range combined {
		nearby = append(nearby, gin.H{
			"id":     u.ID.Hex(),
			"name":   u.Name,
			"points": u.Points,
			"level":  u.Level,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":     user.ID.Hex(),
			"name":   user.Name,
			"points": user.Points,
			"rank":   ahead + 1,
			"level":  services.GetUserLevel(user.Points),
			"stats":  userActivityStats(ctx, user.ID),
		},
		"nearby_users": nearby,
	})
}

func nearbyUsers(ctx context.Context, filter, sortKeys bson.M) []models.User {
	cursor, err := db.GetCollection("users").Find(ctx, filter,
		options.Find().SetSort(sortKeys).SetLimit(5))
	if err != nil {
		return nil
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil
	}
	return users
}

// RefreshLeaderboardCache rebuilds the default cached page. The hourly cron
// job calls it so the popular page stays warm.
func RefreshLeaderboardCache(ctx context.Context) error {
	response, err := BuildLeaderboard(ctx, "all", 50)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(response)
	if err != nil {
		return err
	}
	db.CacheSetBytes(ctx, DefaultLeaderboardCacheKey, payload, leaderboardCacheTTL)
	return nil
}
