// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"weighttogo/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu           sync.Mutex
	weights      []domain.WeightEntry
	goals        []domain.GoalWeight
	achievements []domain.Achievement

	weightIDCounter      int64
	goalIDCounter        int64
	achievementIDCounter int64

	now func() time.Time
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{now: time.Now}
}

// Ensure interfaces are met.
var _ domain.WeightRepository = (*DB)(nil)
var _ domain.GoalRepository = (*DB)(nil)
var _ domain.AchievementRepository = (*DB)(nil)

// --- WeightRepository ---

// AddWeightEntry stores a weight entry.
func (db *DB) AddWeightEntry(ctx context.Context, e *domain.WeightEntry) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.weightIDCounter++
	now := db.now().UTC()

	entry := *e
	entry.ID = db.weightIDCounter
	entry.Deleted = false
	entry.CreatedAt = now
	entry.UpdatedAt = now
	db.weights = append(db.weights, entry)
	return entry.ID, nil
}

// ListWeightEntries returns the user's live entries, newest day first.
func (db *DB) ListWeightEntries(ctx context.Context, userID int64) ([]domain.WeightEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.WeightEntry, 0)
	for _, w := range db.weights {
		if w.UserID == userID && !w.Deleted {
			result = append(result, w)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Day != result[j].Day {
			return result[i].Day > result[j].Day
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

// ListRecentWeightEntries returns at most limit live entries, newest day first.
func (db *DB) ListRecentWeightEntries(ctx context.Context, userID int64, limit int) ([]domain.WeightEntry, error) {
	items, err := db.ListWeightEntries(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// GetWeightEntry returns a live entry by ID or nil.
func (db *DB) GetWeightEntry(ctx context.Context, userID, id int64) (*domain.WeightEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if w := db.findWeight(userID, id); w != nil {
		ret := *w
		return &ret, nil
	}
	return nil, nil
}

// UpdateWeightEntry edits value and notes of a live entry.
func (db *DB) UpdateWeightEntry(ctx context.Context, userID, id int64, value float64, notes string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	w := db.findWeight(userID, id)
	if w == nil {
		return false, nil
	}
	w.Value = value
	w.Notes = notes
	w.UpdatedAt = db.now().UTC()
	return true, nil
}

// SoftDeleteWeightEntry flags an entry deleted; the row is kept.
func (db *DB) SoftDeleteWeightEntry(ctx context.Context, userID, id int64) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	w := db.findWeight(userID, id)
	if w == nil {
		return false, nil
	}
	w.Deleted = true
	w.UpdatedAt = db.now().UTC()
	return true, nil
}

// LatestWeightForDay returns the most recently added live entry for day.
func (db *DB) LatestWeightForDay(ctx context.Context, userID int64, day string) (*domain.WeightEntry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var latest *domain.WeightEntry
	for i := range db.weights {
		w := &db.weights[i]
		if w.UserID != userID || w.Deleted || w.Day != day {
			continue
		}
		if latest == nil || w.ID > latest.ID {
			latest = w
		}
	}

	if latest != nil {
		ret := *latest
		return &ret, nil
	}
	return nil, nil
}

func (db *DB) findWeight(userID, id int64) *domain.WeightEntry {
	for i := range db.weights {
		w := &db.weights[i]
		if w.ID == id && w.UserID == userID && !w.Deleted {
			return w
		}
	}
	return nil
}

// --- GoalRepository ---

// AddGoal stores a goal.
func (db *DB) AddGoal(ctx context.Context, g *domain.GoalWeight) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.goalIDCounter++
	now := db.now().UTC()

	goal := *g
	goal.ID = db.goalIDCounter
	goal.CreatedAt = now
	goal.UpdatedAt = now
	db.goals = append(db.goals, goal)
	return goal.ID, nil
}

// ActiveGoal returns the most recently created active goal.
func (db *DB) ActiveGoal(ctx context.Context, userID int64) (*domain.GoalWeight, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var active *domain.GoalWeight
	for i := range db.goals {
		g := &db.goals[i]
		if g.UserID != userID || !g.Active {
			continue
		}
		if active == nil || newerGoal(g, active) {
			active = g
		}
	}

	if active != nil {
		ret := *active
		return &ret, nil
	}
	return nil, nil
}

// ListGoals returns every goal of the user, newest first.
func (db *DB) ListGoals(ctx context.Context, userID int64) ([]domain.GoalWeight, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.GoalWeight, 0)
	for _, g := range db.goals {
		if g.UserID == userID {
			result = append(result, g)
		}
	}
	sort.Slice(result, func(i, j int) bool { return newerGoal(&result[i], &result[j]) })
	return result, nil
}

// DeactivateGoal clears a goal's active flag.
func (db *DB) DeactivateGoal(ctx context.Context, userID, id int64) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	g := db.findGoal(userID, id)
	if g == nil {
		return false, nil
	}
	g.Active = false
	g.UpdatedAt = db.now().UTC()
	return true, nil
}

// MarkGoalAchieved flags a goal achieved on day.
func (db *DB) MarkGoalAchieved(ctx context.Context, userID, id int64, day string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	g := db.findGoal(userID, id)
	if g == nil {
		return false, nil
	}
	g.Achieved = true
	g.AchievedDate = &day
	g.UpdatedAt = db.now().UTC()
	return true, nil
}

func (db *DB) findGoal(userID, id int64) *domain.GoalWeight {
	for i := range db.goals {
		if db.goals[i].ID == id && db.goals[i].UserID == userID {
			return &db.goals[i]
		}
	}
	return nil
}

func newerGoal(a, b *domain.GoalWeight) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// --- AchievementRepository ---

// HasAchievementType reports whether the user already holds an achievement of type t.
func (db *DB) HasAchievementType(ctx context.Context, userID int64, t domain.AchievementType) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, a := range db.achievements {
		if a.UserID == userID && a.Type == t {
			return true, nil
		}
	}
	return false, nil
}

// InsertAchievement stores an achievement. A second once-only achievement of
// the same type for the same user is ignored and reported with ID 0.
func (db *DB) InsertAchievement(ctx context.Context, a *domain.Achievement) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if !a.Type.Repeatable() {
		for _, existing := range db.achievements {
			if existing.UserID == a.UserID && existing.Type == a.Type {
				return 0, nil
			}
		}
	}

	db.achievementIDCounter++
	row := *a
	row.ID = db.achievementIDCounter
	if row.EarnedAt.IsZero() {
		row.EarnedAt = db.now().UTC()
	}
	db.achievements = append(db.achievements, row)
	return row.ID, nil
}

// ListAchievements returns the user's achievements, newest first.
func (db *DB) ListAchievements(ctx context.Context, userID int64, pendingOnly bool) ([]domain.Achievement, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.Achievement, 0)
	for _, a := range db.achievements {
		if a.UserID != userID || (pendingOnly && a.Notified) {
			continue
		}
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

// MarkAchievementNotified sets the notified flag.
func (db *DB) MarkAchievementNotified(ctx context.Context, userID, id int64) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.achievements {
		a := &db.achievements[i]
		if a.ID == id && a.UserID == userID {
			a.Notified = true
			return true, nil
		}
	}
	return false, nil
}
