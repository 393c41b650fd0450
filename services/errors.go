package services

import (
	"errors"
	"fmt"
	"time"

	"hangoutspots/utils"
)

// Sentinel errors for the rule engines. Controllers map these onto HTTP
// status codes; the services themselves stay transport-agnostic.
var (
	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is a business-rule denial: self-like, missing subscription.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict is a uniqueness violation lost to a concurrent writer.
	ErrConflict = errors.New("conflict")
	// ErrUnavailable marks an external collaborator failure.
	ErrUnavailable = errors.New("unavailable")
)

// TooFarError rejects a GPS-verified check-in outside the allowed radius.
type TooFarError struct {
	DistanceMeters float64
	RadiusMeters   float64
}

func (e *TooFarError) Error() string {
	return fmt.Sprintf("too far: %s away, must be within %s",
		utils.FormatDistance(e.DistanceMeters), utils.FormatDistance(e.RadiusMeters))
}

// RateLimitedError rejects an action still inside its cooldown window.
type RateLimitedError struct {
	HoursRemaining int
	LastAt         time.Time
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited: %d hours remaining", e.HoursRemaining)
}
