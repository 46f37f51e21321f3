package domain

import (
	"context"
	"time"
)

// AchievementType identifies the kind of accolade.
type AchievementType string

// Achievement types. Every type except NEW_LOW is awarded at most once per user.
const (
	AchievementGoalReached AchievementType = "GOAL_REACHED"
	AchievementFirstEntry  AchievementType = "FIRST_ENTRY"
	AchievementStreak7     AchievementType = "STREAK_7"
	AchievementStreak30    AchievementType = "STREAK_30"
	AchievementMilestone5  AchievementType = "MILESTONE_5"
	AchievementMilestone10 AchievementType = "MILESTONE_10"
	AchievementMilestone25 AchievementType = "MILESTONE_25"
	AchievementNewLow      AchievementType = "NEW_LOW"
)

// Repeatable reports whether the type may be awarded more than once.
func (t AchievementType) Repeatable() bool {
	return t == AchievementNewLow
}

// Achievement is a persisted recognition of a user milestone.
type Achievement struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"userId"`
	GoalID      *int64          `json:"goalId,omitempty"`
	Type        AchievementType `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Value       *float64        `json:"value,omitempty"`
	EarnedAt    time.Time       `json:"earnedAt"`
	Notified    bool            `json:"notified"`
}

// AchievementStore is what the achievement engine reads and writes.
//
// InsertAchievement returns the generated ID. A non-positive ID with a nil
// error means the row was not stored (for example a uniqueness conflict) and
// the caller should treat the grant as not made.
type AchievementStore interface {
	HasAchievementType(ctx context.Context, userID int64, t AchievementType) (bool, error)
	InsertAchievement(ctx context.Context, a *Achievement) (int64, error)
}

// AchievementRepository is the port for achievement persistence.
type AchievementRepository interface {
	AchievementStore
	ListAchievements(ctx context.Context, userID int64, pendingOnly bool) ([]Achievement, error)
	MarkAchievementNotified(ctx context.Context, userID, id int64) (bool, error)
}
