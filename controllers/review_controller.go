package controllers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hangoutspots/db"
	"hangoutspots/middlewares"
	"hangoutspots/models"
	"hangoutspots/services"
	"hangoutspots/utils"
)

const maxMediaPerReview = 4

// CreateReview accepts a multipart review submission with up to four media
// attachments and runs the full submission flow.
func CreateReview(c *gin.Context) {
	userID, ok := middlewares.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	businessName := strings.TrimSpace(c.PostForm("business_name"))
	if businessName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "business_name is required"})
		return
	}
	rating, err := strconv.Atoi(c.PostForm("rating"))
	if err != nil || rating < 1 || rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be 1-5"})
		return
	}

	input := services.SubmitReviewInput{
		UserID:       userID,
		BusinessName: businessName,
		Category:     c.PostForm("category"),
		Description:  c.PostForm("description"),
		Location:     c.PostForm("location"),
		Division:     c.PostForm("division"),
		Address:      c.PostForm("address"),
		Contact:      c.PostForm("contact"),
		PlaceID:      c.PostForm("place_id"),
		Rating:       rating,
		Text:         c.PostForm("text"),
		RawTags:      c.PostForm("tags"),
	}
	if lat, err := strconv.ParseFloat(c.PostForm("latitude"), 64); err == nil {
		if lng, err := strconv.ParseFloat(c.PostForm("longitude"), 64); err == nil {
			input.Latitude = &lat
			input.Longitude = &lng
		}
	}

	uploads, err := storeMediaFiles(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.Media = uploads

	result, err := reviewService.SubmitReview(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":          "review submitted",
		"review_id":        result.ReviewID.Hex(),
		"business_id":      result.BusinessID.Hex(),
		"points_awarded":   result.PointsAwarded,
		"new_achievements": result.NewAchievements,
	})
}

// storeMediaFiles writes the request's media attachments under the uploads
// dir with uuid names, preserving the original extension.
func storeMediaFiles(c *gin.Context) ([]services.MediaUpload, error) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, nil
	}
	files := form.File["media"]
	if len(files) == 0 {
		return nil, nil
	}
	if len(files) > maxMediaPerReview {
		return nil, errTooManyMedia
	}

	uploads := make([]services.MediaUpload, 0, len(files))
	for _, file := range files {
		name := uuid.NewString() + filepath.Ext(file.Filename)
		if err := c.SaveUploadedFile(file, filepath.Join(cfg.Uploads.Dir, name)); err != nil {
			utils.Sugar.Errorf("media save error: %v", err)
			continue
		}
		uploads = append(uploads, services.MediaUpload{
			StoredName:  name,
			ContentType: file.Header.Get("Content-Type"),
		})
	}
	return uploads, nil
}

var errTooManyMedia = errors.New("at most 4 media files per review")

type reactRequest struct {
	Reaction string `json:"reaction" binding:"required,oneof=like none"`
}

// ReactToReview applies a like or none reaction to a review.
func ReactToReview(c *gin.Context) {
	actorID, ok := middlewares.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	reviewID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var req reactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reaction must be like or none"})
		return
	}

	delta, err := reviewService.React(c.Request.Context(), reviewID, actorID, req.Reaction)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "reaction recorded",
		"reaction":      req.Reaction,
		"points_change": delta,
	})
}

// GetTopReviews returns the highest rated recent reviews.
func GetTopReviews(c *gin.Context) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)
	if err != nil || limit < 1 || limit > 50 {
		limit = 10
	}
	listReviews(c, bson.M{}, options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "createdAt", Value: -1}}).
		SetLimit(limit))
}

// GetBusinessReviews lists reviews of one business, newest first.
func GetBusinessReviews(c *gin.Context) {
	businessID, ok := objectIDParam(c, "businessId")
	if !ok {
		return
	}
	listReviews(c, bson.M{"business_id": businessID},
		options.Find().SetSort(bson.M{"createdAt": -1}))
}

func listReviews(c *gin.Context, filter bson.M, opts *options.FindOptions) {
	ctx := c.Request.Context()
	cursor, err := db.GetCollection("reviews").Find(ctx, filter, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch reviews"})
		return
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to decode reviews"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": len(reviews), "reviews": reviews})
}

// GetReview returns one review with its media.
func GetReview(c *gin.Context) {
	reviewID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var review models.Review
	if err := db.GetCollection("reviews").FindOne(ctx, bson.M{"_id": reviewID}).Decode(&review); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
		return
	}

	media := []models.Media{}
	cursor, err := db.GetCollection("media").Find(ctx, bson.M{"review_id": reviewID})
	if err == nil {
		defer cursor.Close(ctx)
		if err := cursor.All(ctx, &media); err != nil {
			utils.Sugar.Errorf("review media decode error: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"review": review, "media": media})
}

// GetReviewReactions returns the like count of a review.
func GetReviewReactions(c *gin.Context) {
	reviewID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	likes, err := db.GetCollection("review_likes").CountDocuments(c.Request.Context(),
		bson.M{"review_id": reviewID, "is_like": true})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch reactions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"review_id": reviewID.Hex(), "likes": likes})
}

// GetMyReaction returns the caller's reaction on a review.
func GetMyReaction(c *gin.Context) {
	userID, ok := middlewares.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	reviewID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}

	var like models.ReviewLike
	err := db.GetCollection("review_likes").FindOne(c.Request.Context(),
		bson.M{"review_id": reviewID, "user_id": userID}).Decode(&like)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"reaction": "none"})
		return
	}

	reaction := "none"
	if like.IsLike {
		reaction = "like"
	}
	c.JSON(http.StatusOK, gin.H{"reaction": reaction})
}

// DeleteReview removes the caller's own review along with its reactions and
// media rows. Points already earned from the review are kept.
func DeleteReview(c *gin.Context) {
	userID, ok := middlewares.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	reviewID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var review models.Review
	if err := db.GetCollection("reviews").FindOne(ctx, bson.M{"_id": reviewID}).Decode(&review); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
		return
	}
	if review.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your review"})
		return
	}

	if _, err := db.GetCollection("reviews").DeleteOne(ctx, bson.M{"_id": reviewID}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete review"})
		return
	}
	for _, collection := range []string{"review_likes", "media"} {
		if _, err := db.GetCollection(collection).DeleteMany(ctx, bson.M{"review_id": reviewID}); err != nil {
			utils.Sugar.Errorf("review cascade delete from %s error: %v", collection, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "review deleted"})
}
