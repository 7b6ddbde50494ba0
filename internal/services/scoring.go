package services

import (
	"errors"

	"github.com/meridian-grc/meridian/backend/internal/models"
)

// ErrInvalidRange is returned when likelihood or impact falls outside [1,5].
var ErrInvalidRange = errors.New("likelihood and impact must be between 1 and 5")

// ScoreRisk maps (likelihood, impact) to a numeric score and qualitative
// level. This is the only place the level boundaries are defined; every
// view and report derives levels through here so the classification can
// never drift between screens.
//
// Bands, ascending over the 1-25 score range:
//
//	 1-5  low
//	 6-11 medium
//	12-19 high
//	20-25 critical
func ScoreRisk(likelihood, impact int) (int, models.RiskLevel, error) {
	if likelihood < 1 || likelihood > 5 || impact < 1 || impact > 5 {
		return 0, "", ErrInvalidRange
	}

	score := likelihood * impact
	return score, levelForScore(score), nil
}

func levelForScore(score int) models.RiskLevel {
	switch {
	case score >= 20:
		return models.RiskCritical
	case score >= 12:
		return models.RiskHigh
	case score >= 6:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}
