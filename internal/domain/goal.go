package domain

import (
	"context"
	"time"
)

// GoalWeight is a target weight a user is working towards. More than one goal
// may be flagged active at once; readers resolve that by picking the most
// recently created one.
type GoalWeight struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"userId"`
	GoalValue    float64   `json:"goalValue"`
	Unit         string    `json:"unit"`
	StartValue   float64   `json:"startValue"`
	TargetDate   *string   `json:"targetDate,omitempty"`
	Achieved     bool      `json:"achieved"`
	AchievedDate *string   `json:"achievedDate,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// GoalReader returns the user's active goal, or nil when there is none.
type GoalReader interface {
	ActiveGoal(ctx context.Context, userID int64) (*GoalWeight, error)
}

// GoalRepository is the port for goal persistence.
type GoalRepository interface {
	GoalReader
	AddGoal(ctx context.Context, g *GoalWeight) (int64, error)
	ListGoals(ctx context.Context, userID int64) ([]GoalWeight, error)
	DeactivateGoal(ctx context.Context, userID, id int64) (bool, error)
	MarkGoalAchieved(ctx context.Context, userID, id int64, day string) (bool, error)
}
