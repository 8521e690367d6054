package services

import (
	"fmt"
	"os"
	"strconv"

	"quality-portal-api/models"
)

// Risk rating tiers derived from magnitude.
const (
	RatingLow    = "Low"
	RatingMedium = "Medium"
	RatingHigh   = "High"
)

// RatingScale maps a risk magnitude (likelihood * consequence, 1-25) to a
// three-tier rating. The floors come from deployment configuration; the only
// hard contract is monotonicity, which holds by construction once the floors
// are validated: a higher magnitude can never drop to a lower tier.
type RatingScale struct {
	mediumFloor int
	highFloor   int
}

// NewRatingScale builds a scale where magnitudes below mediumFloor rate Low,
// magnitudes from mediumFloor up rate Medium, and magnitudes from highFloor
// up rate High.
func NewRatingScale(mediumFloor, highFloor int) (RatingScale, error) {
	if mediumFloor < 1 {
		return RatingScale{}, fmt.Errorf("invalid rating scale: medium floor %d must be at least 1", mediumFloor)
	}
	if highFloor < mediumFloor {
		return RatingScale{}, fmt.Errorf("invalid rating scale: high floor %d is below medium floor %d", highFloor, mediumFloor)
	}
	return RatingScale{mediumFloor: mediumFloor, highFloor: highFloor}, nil
}

// LoadRatingScale reads the tier floors from RATING_MEDIUM_FLOOR and
// RATING_HIGH_FLOOR, falling back to the institution's published 5/15 matrix
// when unset.
func LoadRatingScale() (RatingScale, error) {
	mediumFloor := 5
	highFloor := 15
	if v := os.Getenv("RATING_MEDIUM_FLOOR"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return RatingScale{}, fmt.Errorf("invalid RATING_MEDIUM_FLOOR %q: %w", v, err)
		}
		mediumFloor = parsed
	}
	if v := os.Getenv("RATING_HIGH_FLOOR"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return RatingScale{}, fmt.Errorf("invalid RATING_HIGH_FLOOR %q: %w", v, err)
		}
		highFloor = parsed
	}
	return NewRatingScale(mediumFloor, highFloor)
}

// RatingFor classifies a magnitude on this scale.
func (s RatingScale) RatingFor(magnitude int) string {
	switch {
	case magnitude >= s.highFloor:
		return RatingHigh
	case magnitude >= s.mediumFloor:
		return RatingMedium
	default:
		return RatingLow
	}
}

// RiskScore is the derived severity of a single risk.
type RiskScore struct {
	Magnitude int    `json:"magnitude"`
	Rating    string `json:"rating"`
}

// CalculateRiskScore derives magnitude and rating from a (likelihood,
// consequence) pair. Both inputs must be on the 1-5 ordinal scale; anything
// else is a caller contract violation and is rejected, never clamped.
func CalculateRiskScore(likelihood, consequence int, scale RatingScale) (RiskScore, error) {
	if likelihood < 1 || likelihood > 5 {
		return RiskScore{}, fmt.Errorf("likelihood %d out of range: must be between 1 and 5", likelihood)
	}
	if consequence < 1 || consequence > 5 {
		return RiskScore{}, fmt.Errorf("consequence %d out of range: must be between 1 and 5", consequence)
	}
	magnitude := likelihood * consequence
	return RiskScore{
		Magnitude: magnitude,
		Rating:    scale.RatingFor(magnitude),
	}, nil
}

// SubmissionRiskRating collapses a three-tier risk rating into the two-value
// rating carried on Risk Registry submissions.
func SubmissionRiskRating(rating string) string {
	if rating == RatingLow {
		return models.RiskRatingLow
	}
	return models.RiskRatingMediumHigh
}
