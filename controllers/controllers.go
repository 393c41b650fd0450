package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hangoutspots/config"
	"hangoutspots/services"
	"hangoutspots/utils"
)

// Package-level handles set once at startup by Init.
var (
	cfg                 *config.Config
	geocoder            *utils.Geocoder
	gamificationService *services.GamificationService
	checkinService      *services.CheckinService
	reviewService       *services.ReviewService
)

// Init wires the controllers to the loaded config and the rule engines.
func Init(c *config.Config, geo *utils.Geocoder, gamification *services.GamificationService, checkins *services.CheckinService, reviews *services.ReviewService) {
	cfg = c
	geocoder = geo
	gamificationService = gamification
	checkinService = checkins
	reviewService = reviews
}

// objectIDParam parses a path parameter as an ObjectID, writing the 400
// response itself on failure.
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return primitive.NilObjectID, false
	}
	return id, true
}

// respondServiceError maps the service error taxonomy onto HTTP responses.
func respondServiceError(c *gin.Context, err error) {
	var tooFar *services.TooFarError
	var limited *services.RateLimitedError

	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "conflict"})
	case errors.Is(err, services.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service unavailable"})
	case errors.As(err, &tooFar):
		c.JSON(http.StatusForbidden, gin.H{
			"error":           "too far from business location",
			"distance":        utils.FormatDistance(tooFar.DistanceMeters),
			"distance_meters": tooFar.DistanceMeters,
			"required_meters": tooFar.RadiusMeters,
		})
	case errors.As(err, &limited):
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":           "rate limited",
			"hours_remaining": limited.HoursRemaining,
			"last_at":         limited.LastAt,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
