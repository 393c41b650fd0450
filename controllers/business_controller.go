package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hangoutspots/db"
	"hangoutspots/models"
	"hangoutspots/utils"
)

// GetBusinesses lists businesses with optional division, category and text
// search filters.
func GetBusinesses(c *gin.Context) {
	filter := bson.M{}
	if division := c.Query("division"); division != "" {
		filter["division"] = division
	}
	if category := c.Query("category"); category != "" {
		filter["category"] = category
	}
	if search := c.Query("search"); search != "" {
		filter["name"] = bson.M{"$regex": search, "$options": "i"}
	}

	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	if err != nil || limit < 1 || limit > 100 {
		limit = 50
	}

	ctx := c.Request.Context()
	cursor, err := db.GetCollection("businesses").Find(ctx, filter, options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetLimit(limit))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch businesses"})
		return
	}
	defer cursor.Close(ctx)

	businesses := []models.Business{}
	if err := cursor.All(ctx, &businesses); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to decode businesses"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": len(businesses), "businesses": businesses})
}

// SearchBusinesses runs a free-text lookup against the places provider so
// reviewers can pick a business that is not in the catalog yet. Provider
// failures degrade to an empty result set.
func SearchBusinesses(c *gin.Context) {
	query := c.Query("q")
	if strings.TrimSpace(query) == "" {
		c.JSON(http.StatusOK, []utils.Place{})
		return
	}

	places, err := geocoder.SearchPlaces(c.Request.Context(), query)
	if err != nil {
		utils.Sugar.Warnf("places search error: %v", err)
		c.JSON(http.StatusOK, []utils.Place{})
		return
	}
	c.JSON(http.StatusOK, places)
}

// GetPlaceDetails resolves a provider place id to the full record used to
// prefill a new business.
func GetPlaceDetails(c *gin.Context) {
	placeID, err := strconv.ParseInt(c.Param("placeId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid placeId"})
		return
	}

	place, err := geocoder.PlaceDetails(c.Request.Context(), placeID)
	if err != nil {
		utils.Sugar.Errorf("place details error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch place details"})
		return
	}
	if place == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "place not found"})
		return
	}

	// The trailing address parts carry the area and division.
	parts := strings.Split(place.Address, ",")
	var location, division string
	if len(parts) > 1 {
		location = strings.TrimSpace(parts[len(parts)-2])
	}
	if len(parts) > 0 {
		division = strings.TrimSpace(parts[len(parts)-1])
	}

	c.JSON(http.StatusOK, gin.H{
		"place_id":    place.PlaceID,
		"name":        place.Name,
		"address":     place.Address,
		"location":    location,
		"division":    division,
		"category":    place.Category,
		"description": place.Description,
		"contact":     place.Contact,
		"website":     place.Website,
		"latitude":    place.Latitude,
		"longitude":   place.Longitude,
		"types":       place.Types,
	})
}

// GetBusiness returns one business with its review summary.
func GetBusiness(c *gin.Context) {
	businessID, ok := objectIDParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var business models.Business
	if err := db.GetCollection("businesses").FindOne(ctx, bson.M{"_id": businessID}).Decode(&business); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "business not found"})
		return
	}

	reviewCount, _ := db.GetCollection("reviews").CountDocuments(ctx, bson.M{"business_id": businessID})
	checkinCount, _ := db.GetCollection("checkins").CountDocuments(ctx, bson.M{"business_id": businessID})
	avgRating := averageRating(c, businessID)

	c.JSON(http.StatusOK, gin.H{
		"business":       business,
		"review_count":   reviewCount,
		"checkin_count":  checkinCount,
		"average_rating": avgRating,
	})
}

func averageRating(c *gin.Context, businessID primitive.ObjectID) float64 {
	ctx := c.Request.Context()
	cursor, err := db.GetCollection("reviews").Aggregate(ctx, []bson.M{
		{"$match": bson.M{"business_id": businessID}},
		{"$group": bson.M{"_id": nil, "avg": bson.M{"$avg": "$rating"}}},
	})
	if err != nil {
		return 0
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Avg float64 `bson:"avg"`
	}
	if err := cursor.All(ctx, &rows); err != nil || len(rows) == 0 {
		return 0
	}
	return rows[0].Avg
}
