package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"hangoutspots/db"
	"hangoutspots/middlewares"
	"hangoutspots/models"
	"hangoutspots/services"
	"hangoutspots/utils"
)

// GetUser returns a user's public record. Callers may only read themselves
// unless they are admins.
func GetUser(c *gin.Context) {
	targetID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	callerID, _ := middlewares.UserID(c)
	if callerID != targetID && c.GetString(middlewares.ContextRoleKey) != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var user models.User
	if err := db.GetCollection("users").FindOne(c.Request.Context(), bson.M{"_id": targetID}).Decode(&user); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUserProfile returns the gamified profile: level block, activity stats,
// achievements, leaderboard rank and today's point headroom.
func GetUserProfile(c *gin.Context) {
	userID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var user models.User
	if err := db.GetCollection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	reviewCount, _ := db.GetCollection("reviews").CountDocuments(ctx, bson.M{"user_id": userID})
	checkinCount, _ := db.GetCollection("checkins").CountDocuments(ctx, bson.M{"user_id": userID})
	ahead, _ := db.GetCollection("users").CountDocuments(ctx, bson.M{"points": bson.M{"$gt": user.Points}})

	achievements, err := gamificationService.UserAchievements(ctx, userID)
	if err != nil {
		utils.Sugar.Errorf("profile achievements error: %v", err)
		achievements = []models.AchievementInfo{}
	}

	earnedToday, remaining := gamificationService.DailyPointsRemaining(&user)

	c.JSON(http.StatusOK, gin.H{
		"user":  user,
		"level": services.GetUserLevel(user.Points),
		"rank":  ahead + 1,
		"stats": gin.H{
			"reviews":      reviewCount,
			"checkins":     checkinCount,
			"achievements": len(achievements),
		},
		"achievements": achievements,
		"daily_limit": gin.H{
			"earned_today": earnedToday,
			"remaining":    remaining,
			"cap":          services.DailyPointsCap,
		},
	})
}

// GetAllUsers lists every user, admin only.
func GetAllUsers(c *gin.Context) {
	ctx := c.Request.Context()
	cursor, err := db.GetCollection("users").Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch users"})
		return
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to decode users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": len(users), "users": users})
}

// GetPlatformStats returns platform-wide counters, admin only.
func GetPlatformStats(c *gin.Context) {
	ctx := c.Request.Context()

	users, _ := db.GetCollection("users").CountDocuments(ctx, bson.M{})
	businesses, _ := db.GetCollection("businesses").CountDocuments(ctx, bson.M{})
	reviews, _ := db.GetCollection("reviews").CountDocuments(ctx, bson.M{})
	checkins, _ := db.GetCollection("checkins").CountDocuments(ctx, bson.M{})
	achievements, _ := db.GetCollection("user_achievements").CountDocuments(ctx, bson.M{})

	c.JSON(http.StatusOK, gin.H{
		"total_users":        users,
		"total_businesses":   businesses,
		"total_reviews":      reviews,
		"total_checkins":     checkins,
		"total_achievements": achievements,
	})
}

type updateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateUser edits a user's details. Callers may only update themselves
// unless they are admins; the role field only moves for admin callers.
func UpdateUser(c *gin.Context) {
	targetID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	callerID, _ := middlewares.UserID(c)
	isAdmin := c.GetString(middlewares.ContextRoleKey) == models.RoleAdmin
	if callerID != targetID && !isAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := bson.M{}
	if req.Name != "" {
		update["name"] = req.Name
	}
	if req.Email != "" {
		update["email"] = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if req.Role != "" && isAdmin {
		update["role"] = req.Role
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
			return
		}
		update["password"] = string(hash)
	}
	if len(update) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}
	update["updatedAt"] = time.Now().UTC()

	result, err := db.GetCollection("users").UpdateOne(c.Request.Context(),
		bson.M{"_id": targetID}, bson.M{"$set": update})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user updated"})
}

// UpdateUserRole sets a user's role, admin only.
func UpdateUserRole(c *gin.Context) {
	targetID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Role string `json:"role" binding:"required,oneof=user admin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "valid role (user or admin) is required"})
		return
	}

	setUserRole(c, targetID, req.Role, "user role updated")
}

// SetUserBanned bans or unbans a user by flipping their role, admin only.
func SetUserBanned(c *gin.Context) {
	targetID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Banned *bool `json:"banned" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "banned field must be a boolean"})
		return
	}

	role := models.RoleUser
	message := "user unbanned"
	if *req.Banned {
		role = models.RoleBanned
		message = "user banned"
	}
	setUserRole(c, targetID, role, message)
}

func setUserRole(c *gin.Context, userID primitive.ObjectID, role, message string) {
	result, err := db.GetCollection("users").UpdateOne(c.Request.Context(),
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"role": role, "updatedAt": time.Now().UTC()}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// DeleteUser removes a user and their activity, admin only.
func DeleteUser(c *gin.Context) {
	userID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	result, err := db.GetCollection("users").DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete user"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	// Cascade, best-effort: the user row is already gone.
	filter := bson.M{"user_id": userID}
	for _, collection := range []string{"reviews", "review_likes", "checkins", "user_achievements", "subscriptions", "cooldowns"} {
		if _, err := db.GetCollection(collection).DeleteMany(ctx, filter); err != nil {
			utils.Sugar.Errorf("cascade delete from %s error: %v", collection, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
