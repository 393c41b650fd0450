package controllers

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hangoutspots/db"
	"hangoutspots/models"
)

// GetUserSubscription returns a user's subscription record.
func GetUserSubscription(c *gin.Context) {
	userID, ok := objectIDParam(c, "userId")
	if !ok {
		return
	}

	var sub models.Subscription
	err := db.GetCollection("subscriptions").FindOne(c.Request.Context(), bson.M{"user_id": userID}).Decode(&sub)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no subscription found"})
		return
	}

	status := "expired"
	if sub.ExpiryDate.After(time.Now()) {
		status = "active"
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                sub.ID.Hex(),
		"user_id":           sub.UserID.Hex(),
		"uploads_remaining": sub.UploadsRemaining,
		"start_date":        sub.StartDate,
		"expiry_date":       sub.ExpiryDate,
		"status":            status,
	})
}

// GetSubscriptionStatus reports the upload gate state machine:
// none | expired | depleted | active.
func GetSubscriptionStatus(c *gin.Context) {
	userID, ok := objectIDParam(c, "userId")
	if !ok {
		return
	}

	var sub models.Subscription
	err := db.GetCollection("subscriptions").FindOne(c.Request.Context(), bson.M{"user_id": userID}).Decode(&sub)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "none", "can_upload": false})
		return
	}

	now := time.Now()
	status := "active"
	switch {
	case !sub.ExpiryDate.After(now):
		status = "expired"
	case sub.UploadsRemaining <= 0:
		status = "depleted"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":            status,
		"uploads_remaining": sub.UploadsRemaining,
		"expiry_date":       sub.ExpiryDate,
		"can_upload":        status == "active",
	})
}

// GetAllSubscriptions lists every subscription joined with the holder's
// identity, admin only.
func GetAllSubscriptions(c *gin.Context) {
	ctx := c.Request.Context()
	cursor, err := db.GetCollection("subscriptions").Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"start_date": -1}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch subscriptions"})
		return
	}
	defer cursor.Close(ctx)

	var subs []models.Subscription
	if err := cursor.All(ctx, &subs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to decode subscriptions"})
		return
	}

	userIDs := make([]primitive.ObjectID, 0, len(subs))
	for _, sub := range subs {
		userIDs = append(userIDs, sub.UserID)
	}
	holders := map[primitive.ObjectID]models.User{}
	if len(userIDs) > 0 {
		userCursor, err := db.GetCollection("users").Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}})
		if err == nil {
			var users []models.User
			if err := userCursor.All(ctx, &users); err == nil {
				for _, u := range users {
					holders[u.ID] = u
				}
			}
		}
	}

	now := time.Now()
	rows := make([]gin.H, 0, len(subs))
	for _, sub := range subs {
		status := "expired"
		if sub.ExpiryDate.After(now) {
			status = "active"
		}
		holder := holders[sub.UserID]
		rows = append(rows, gin.H{
			"id":                sub.ID.Hex(),
			"user_id":           sub.UserID.Hex(),
			"username":          holder.Name,
			"email":             holder.Email,
			"points":            holder.Points,
			"uploads_remaining": sub.UploadsRemaining,
			"start_date":        sub.StartDate,
			"expiry_date":       sub.ExpiryDate,
			"status":            status,
		})
	}
	c.JSON(http.StatusOK, rows)
}

// GetSubscriptionStats summarizes the subscription pool, admin only.
func GetSubscriptionStats(c *gin.Context) {
	ctx := c.Request.Context()
	cursor, err := db.GetCollection("subscriptions").Find(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch subscription stats"})
		return
	}
	defer cursor.Close(ctx)

	var subs []models.Subscription
	if err := cursor.All(ctx, &subs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to decode subscriptions"})
		return
	}

	now := time.Now()
	active, totalUploads := 0, 0
	for _, sub := range subs {
		if sub.ExpiryDate.After(now) {
			active++
		}
		totalUploads += sub.UploadsRemaining
	}
	avgUploads := 0.0
	if len(subs) > 0 {
		avgUploads = math.Round(float64(totalUploads)/float64(len(subs))*100) / 100
	}

	c.JSON(http.StatusOK, gin.H{
		"total_subscriptions":     len(subs),
		"active_subscriptions":    active,
		"expired_subscriptions":   len(subs) - active,
		"avg_uploads_remaining":   avgUploads,
		"total_uploads_remaining": totalUploads,
	})
}

type updateSubscriptionRequest struct {
	UploadsRemaining *int       `json:"uploads_remaining"`
	ExpiryDate       *time.Time `json:"expiry_date"`
}

// UpdateSubscription lets an admin adjust uploads or expiry directly.
func UpdateSubscription(c *gin.Context) {
	subID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req updateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.UploadsRemaining == nil && req.ExpiryDate == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uploads_remaining or expiry_date is required"})
		return
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if req.UploadsRemaining != nil {
		set["uploads_remaining"] = *req.UploadsRemaining
	}
	if req.ExpiryDate != nil {
		set["expiry_date"] = *req.ExpiryDate
	}

	result, err := db.GetCollection("subscriptions").UpdateOne(c.Request.Context(),
		bson.M{"_id": subID}, bson.M{"$set": set})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update subscription"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "subscription not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "subscription updated"})
}
