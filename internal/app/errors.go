package app

import (
	"errors"

	"weighttogo/internal/domain"
)

var (
	// ErrInvalidWeight indicates a non-positive weight value.
	ErrInvalidWeight = errors.New("value must be > 0")
	// ErrInvalidUnit indicates a unit other than kg or lb.
	ErrInvalidUnit = errors.New("unit must be \"kg\" or \"lb\"")
	// ErrInvalidDay indicates a date not in YYYY-MM-DD form.
	ErrInvalidDay = errors.New("day must be formatted as YYYY-MM-DD")
	// ErrStartWeightRequired indicates a goal without a start weight and no
	// logged weight to default it from.
	ErrStartWeightRequired = errors.New("start weight required when no weight has been logged")
	// ErrEntryNotFound indicates the weight entry does not exist for the user.
	ErrEntryNotFound = errors.New("weight entry not found")
	// ErrGoalNotFound indicates the goal does not exist for the user.
	ErrGoalNotFound = errors.New("goal not found")
	// ErrAchievementNotFound indicates the achievement does not exist for the user.
	ErrAchievementNotFound = errors.New("achievement not found")
)

func validateWeight(value float64, unit string) error {
	if value <= 0 {
		return ErrInvalidWeight
	}
	if !domain.ValidUnit(unit) {
		return ErrInvalidUnit
	}
	return nil
}
