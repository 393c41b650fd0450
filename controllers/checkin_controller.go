package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hangoutspots/db"
	"hangoutspots/middlewares"
	"hangoutspots/models"
	"hangoutspots/services"
)

type checkinRequest struct {
	BusinessID string   `json:"business_id" binding:"required"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
}

// CreateCheckin records a visit at a business for the authenticated user.
func CreateCheckin(c *gin.Context) {
	userID, ok := middlewares.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req checkinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	businessID, err := primitive.ObjectIDFromHex(req.BusinessID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid business_id"})
		return
	}

	result, err := checkinService.CheckIn(c.Request.Context(), services.CheckinInput{
		UserID:     userID,
		BusinessID: businessID,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response := gin.H{
		"message":           "checked in",
		"checkin_id":        result.CheckinID.Hex(),
		"business_name":     result.BusinessName,
		"points_awarded":    result.PointsAwarded,
		"new_achievements":  result.NewAchievements,
		"location_verified": result.LocationVerified,
	}
	if result.Distance != "" {
		response["distance"] = result.Distance
	}
	c.JSON(http.StatusCreated, response)
}

// GetUserCheckins lists a user's check-ins, newest first.
func GetUserCheckins(c *gin.Context) {
	userID, ok := objectIDParam(c, "userId")
	if !ok {
		return
	}
	listCheckins(c, bson.M{"user_id": userID})
}

// GetBusinessCheckins lists the latest check-ins at a business.
func GetBusinessCheckins(c *gin.Context) {
	businessID, ok := objectIDParam(c, "businessId")
	if !ok {
		return
	}
	listCheckins(c, bson.M{"business_id": businessID})
}

func listCheckins(c *gin.Context, filter bson.M) {
	ctx := c.Request.Context()
	cursor, err := db.GetCollection("checkins").Find(ctx, filter,
		options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(50))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch check-ins"})
		return
	}
	defer cursor.Close(ctx)

	checkins := []models.Checkin{}
	if err := cursor.All(ctx, &checkins); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to decode check-ins"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": len(checkins), "checkins": checkins})
}

// GetCheckinStats summarizes a user's check-in activity.
func GetCheckinStats(c *gin.Context) {
	userID, ok := objectIDParam(c, "userId")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	total, err := db.GetCollection("checkins").CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch stats"})
		return
	}

	businesses, err := db.GetCollection("checkins").Distinct(ctx, "business_id", bson.M{"user_id": userID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch stats"})
		return
	}

	stats := gin.H{
		"total_checkins":    total,
		"unique_businesses": len(businesses),
		"last_checkin":      nil,
	}
	var last models.Checkin
	err = db.GetCollection("checkins").FindOne(ctx, bson.M{"user_id": userID},
		options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})).Decode(&last)
	if err == nil {
		stats["last_checkin"] = last.CreatedAt
	}

	c.JSON(http.StatusOK, stats)
}
