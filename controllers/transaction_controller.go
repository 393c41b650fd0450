package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hangoutspots/db"
	"hangoutspots/middlewares"
	"hangoutspots/models"
	"hangoutspots/utils"
)

// subscriptionPrice is the only accepted payment amount, in UGX.
const subscriptionPrice = 2000

// uploadsPerPayment is credited on every confirmed payment.
const uploadsPerPayment = 5

type createTransactionRequest struct {
	Amount int    `json:"amount" binding:"required"`
	Method string `json:"method" binding:"required"`
}

// CreateTransaction opens a pending subscription payment for the caller.
func CreateTransaction(c *gin.Context) {
	userID, ok := middlewares.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Amount != subscriptionPrice {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid amount, subscription is UGX %d", subscriptionPrice)})
		return
	}

	now := time.Now().UTC()
	tx := models.Transaction{
		UserID:          userID,
		Amount:          req.Amount,
		Method:          req.Method,
		Status:          models.TransactionPending,
		TransactionType: "subscription",
		TransactionRef:  newTransactionRef(now),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	result, err := db.GetCollection("transactions").InsertOne(c.Request.Context(), tx)
	if err != nil {
		utils.Sugar.Errorf("transaction insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create transaction"})
		return
	}
	tx.ID = result.InsertedID.(primitive.ObjectID)

	c.JSON(http.StatusCreated, gin.H{"message": "transaction created", "transaction": tx})
}

// newTransactionRef builds a unique human-readable payment reference.
func newTransactionRef(now time.Time) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("TXN-%d-%s", now.UnixMilli(), id[:8])
}

type confirmTransactionRequest struct {
	TransactionRef string `json:"transaction_ref" binding:"required"`
}

// ConfirmTransaction marks a pending payment completed and credits the
// payer's subscription with uploads and a fresh 30-day expiry.
func ConfirmTransaction(c *gin.Context) {
	var req confirmTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "transaction_ref is required"})
		return
	}
	ctx := c.Request.Context()

	// Conditional update: only one confirm call can move pending -> completed.
	var tx models.Transaction
	err := db.GetCollection("transactions").FindOneAndUpdate(ctx,
		bson.M{"transaction_ref": req.TransactionRef, "status": models.TransactionPending},
		bson.M{"$set": bson.M{"status": models.TransactionCompleted, "updatedAt": time.Now().UTC()}},
	).Decode(&tx)
	if err == mongo.ErrNoDocuments {
		// Either the ref is unknown or the payment is no longer pending.
		n, countErr := db.GetCollection("transactions").CountDocuments(ctx, bson.M{"transaction_ref": req.TransactionRef})
		if countErr == nil && n > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "transaction already completed"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to confirm transaction"})
		return
	}

	now := time.Now().UTC()
	expiry := now.AddDate(0, 0, 30)
	_, err = db.GetCollection("subscriptions").UpdateOne(ctx,
		bson.M{"user_id": tx.UserID},
		bson.M{
			"$inc":         bson.M{"uploads_remaining": uploadsPerPayment},
			"$set":         bson.M{"expiry_date": expiry, "updatedAt": now},
			"$setOnInsert": bson.M{"user_id": tx.UserID, "start_date": now, "createdAt": now},
		},
		options.Update().SetUpsert(true))
	if err != nil {
		utils.Sugar.Errorf("subscription credit error for %s: %v", req.TransactionRef, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "payment recorded but subscription update failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "payment confirmed",
		"uploads_added":   uploadsPerPayment,
		"transaction_ref": req.TransactionRef,
	})
}

// GetTransaction returns one payment; callers see only their own unless admin.
func GetTransaction(c *gin.Context) {
	txID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var tx models.Transaction
	if err := db.GetCollection("transactions").FindOne(c.Request.Context(), bson.M{"_id": txID}).Decode(&tx); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return
	}

	callerID, _ := middlewares.UserID(c)
	if tx.UserID != callerID && c.GetString(middlewares.ContextRoleKey) != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	c.JSON(http.StatusOK, tx)
}

// GetUserTransactions lists a user's payments, newest first.
func GetUserTransactions(c *gin.Context) {
	userID, ok := objectIDParam(c, "userId")
	if !ok {
		return
	}

	callerID, _ := middlewares.UserID(c)
	if userID != callerID && c.GetString(middlewares.ContextRoleKey) != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	ctx := c.Request.Context()
	cursor, err := db.GetCollection("transactions").Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch transactions"})
		return
	}
	defer cursor.Close(ctx)

	transactions := []models.Transaction{}
	if err := cursor.All(ctx, &transactions); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to decode transactions"})
		return
	}
	c.JSON(http.StatusOK, transactions)
}

// GetAllTransactions lists every payment, admin only.
func GetAllTransactions(c *gin.Context) {
	ctx := c.Request.Context()
	cursor, err := db.GetCollection("transactions").Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch transactions"})
		return
	}
	defer cursor.Close(ctx)

	transactions := []models.Transaction{}
	if err := cursor.All(ctx, &transactions); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to decode transactions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": len(transactions), "transactions": transactions})
}

// GetTransactionStats aggregates revenue counters, admin only.
func GetTransactionStats(c *gin.Context) {
	ctx := c.Request.Context()
	collection := db.GetCollection("transactions")

	total, _ := collection.CountDocuments(ctx, bson.M{})
	completed, _ := collection.CountDocuments(ctx, bson.M{"status": models.TransactionCompleted})
	pending, _ := collection.CountDocuments(ctx, bson.M{"status": models.TransactionPending})

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	c.JSON(http.StatusOK, gin.H{
		"total_transactions":     total,
		"completed_transactions": completed,
		"pending_transactions":   pending,
		"total_revenue":          revenueSince(ctx, time.Time{}),
		"today_revenue":          revenueSince(ctx, today),
		"week_revenue":           revenueSince(ctx, now.AddDate(0, 0, -7)),
		"month_revenue":          revenueSince(ctx, now.AddDate(0, -1, 0)),
	})
}

func revenueSince(ctx context.Context, since time.Time) int64 {
	match := bson.M{"status": models.TransactionCompleted}
	if !since.IsZero() {
		match["createdAt"] = bson.M{"$gte": since}
	}

	cursor, err := db.GetCollection("transactions").Aggregate(ctx, []bson.M{
		{"$match": match},
		{"$group": bson.M{"_id": nil, "revenue": bson.M{"$sum": "$amount"}}},
	})
	if err != nil {
		return 0
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Revenue int64 `bson:"revenue"`
	}
	if err := cursor.All(ctx, &rows); err != nil || len(rows) == 0 {
		return 0
	}
	return rows[0].Revenue
}
