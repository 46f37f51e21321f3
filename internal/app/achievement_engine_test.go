package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"weighttogo/internal/adapter/memory"
	"weighttogo/internal/app"
	"weighttogo/internal/domain"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func newEngine(db *memory.DB, opts ...app.EngineOption) *app.AchievementEngine {
	opts = append([]app.EngineOption{app.WithClock(fixedClock, time.UTC)}, opts...)
	return app.NewAchievementEngine(db, db, db, opts...)
}

// seed stores one entry per day, oldest first, with the given value.
func seed(t *testing.T, db *memory.DB, userID int64, value float64, days ...string) {
	t.Helper()
	for _, d := range days {
		_, err := db.AddWeightEntry(context.Background(), &domain.WeightEntry{UserID: userID, Day: d, Value: value, Unit: domain.UnitLb})
		require.NoError(t, err)
	}
}

func addGoal(t *testing.T, db *memory.DB, userID int64, goal, start float64) int64 {
	t.Helper()
	id, err := db.AddGoal(context.Background(), &domain.GoalWeight{UserID: userID, GoalValue: goal, StartValue: start, Unit: domain.UnitLb, Active: true})
	require.NoError(t, err)
	return id
}

func types(as []domain.Achievement) []domain.AchievementType {
	out := make([]domain.AchievementType, 0, len(as))
	for _, a := range as {
		out = append(out, a.Type)
	}
	return out
}

func TestEvaluate_FirstEntry(t *testing.T) {
	db := memory.New()
	e := newEngine(db)
	ctx := context.Background()

	got, err := e.Evaluate(ctx, 1, 180)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.AchievementFirstEntry, got[0].Type)
	assert.Equal(t, "First Entry!", got[0].Title)
	assert.Equal(t, int64(1), got[0].UserID)
	assert.Positive(t, got[0].ID)
	assert.Equal(t, testNow, got[0].EarnedAt)

	seed(t, db, 1, 180, "2026-03-10")
	got, err = e.Evaluate(ctx, 1, 179)
	require.NoError(t, err)
	assert.Equal(t, []domain.AchievementType{domain.AchievementNewLow}, types(got))
}

func TestEvaluate_MultipleMilestonesInOneCall(t *testing.T) {
	db := memory.New()
	goalID := addGoal(t, db, 1, 150, 180)
	seed(t, db, 1, 180, "2026-03-09")

	got, err := newEngine(db).Evaluate(context.Background(), 1, 150)
	require.NoError(t, err)
	assert.Equal(t, []domain.AchievementType{
		domain.AchievementGoalReached,
		domain.AchievementMilestone5,
		domain.AchievementMilestone10,
		domain.AchievementMilestone25,
		domain.AchievementNewLow,
	}, types(got))

	require.NotNil(t, got[0].GoalID)
	assert.Equal(t, goalID, *got[0].GoalID)
	assert.Equal(t, 150.0, *got[0].Value)
	assert.Equal(t, "5 lbs Lost!", got[1].Title)
	assert.Equal(t, "25 lbs Lost!", got[3].Title)
	assert.Equal(t, 25.0, *got[3].Value)
	assert.Equal(t, "You've reached a new lowest weight of 150.0 lbs!", got[4].Description)
	assert.Nil(t, got[4].GoalID)
}

func TestEvaluate_MilestoneGain(t *testing.T) {
	db := memory.New()
	addGoal(t, db, 1, 180, 170)
	seed(t, db, 1, 170, "2026-03-09")

	got, err := newEngine(db).Evaluate(context.Background(), 1, 176)
	require.NoError(t, err)
	assert.Equal(t, []domain.AchievementType{domain.AchievementMilestone5}, types(got))
}

func TestEvaluate_GoalTolerance(t *testing.T) {
	tests := []struct {
		name   string
		weight float64
		want   bool
	}{
		{"exact", 150, true},
		{"above edge", 150.5, true},
		{"below edge", 149.5, true},
		{"outside", 150.6, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db := memory.New()
			addGoal(t, db, 1, 150, 152)

			got, err := newEngine(db).Evaluate(context.Background(), 1, tc.weight)
			require.NoError(t, err)
			if tc.want {
				assert.Contains(t, types(got), domain.AchievementGoalReached)
			} else {
				assert.NotContains(t, types(got), domain.AchievementGoalReached)
			}
		})
	}
}

func TestEvaluate_Streaks(t *testing.T) {
	tests := []struct {
		name string
		days []string
		want []domain.AchievementType
	}{
		{
			name: "six prior days",
			days: []string{"2026-03-04", "2026-03-05", "2026-03-06", "2026-03-07", "2026-03-08", "2026-03-09"},
			want: []domain.AchievementType{domain.AchievementStreak7},
		},
		{
			name: "five prior days",
			days: []string{"2026-03-05", "2026-03-06", "2026-03-07", "2026-03-08", "2026-03-09"},
			want: []domain.AchievementType{},
		},
		{
			name: "yesterday missing",
			days: []string{"2026-03-03", "2026-03-04", "2026-03-05", "2026-03-06", "2026-03-07", "2026-03-08"},
			want: []domain.AchievementType{},
		},
		{
			name: "gap inside run",
			days: []string{"2026-03-02", "2026-03-03", "2026-03-05", "2026-03-06", "2026-03-07", "2026-03-08", "2026-03-09"},
			want: []domain.AchievementType{},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db := memory.New()
			seed(t, db, 1, 170, tc.days...)

			got, err := newEngine(db).Evaluate(context.Background(), 1, 170)
			require.NoError(t, err)
			assert.Equal(t, tc.want, types(got))
		})
	}
}

func TestEvaluate_Streak30(t *testing.T) {
	db := memory.New()
	start := testNow.AddDate(0, 0, -29)
	for i := 0; i < 29; i++ {
		seed(t, db, 1, 170, start.AddDate(0, 0, i).Format(domain.DayLayout))
	}

	got, err := newEngine(db).Evaluate(context.Background(), 1, 170)
	require.NoError(t, err)
	assert.Equal(t, []domain.AchievementType{domain.AchievementStreak7, domain.AchievementStreak30}, types(got))
	assert.Equal(t, 30.0, *got[1].Value)
}

func TestEvaluate_NewLowIsStrict(t *testing.T) {
	db := memory.New()
	seed(t, db, 1, 150, "2026-03-08")
	seed(t, db, 1, 155, "2026-03-09")
	e := newEngine(db)

	got, err := e.Evaluate(context.Background(), 1, 150.0)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = e.Evaluate(context.Background(), 1, 149.9)
	require.NoError(t, err)
	require.Equal(t, []domain.AchievementType{domain.AchievementNewLow}, types(got))
	assert.Equal(t, 149.9, *got[0].Value)

	seed(t, db, 1, 149.9, "2026-03-10")
	got, err = e.Evaluate(context.Background(), 1, 149.0)
	require.NoError(t, err)
	assert.Equal(t, []domain.AchievementType{domain.AchievementNewLow}, types(got))

	all, err := db.ListAchievements(context.Background(), 1, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestEvaluate_Idempotent(t *testing.T) {
	db := memory.New()
	addGoal(t, db, 1, 150, 150.2)
	e := newEngine(db)

	got, err := e.Evaluate(context.Background(), 1, 150)
	require.NoError(t, err)
	assert.Equal(t, []domain.AchievementType{domain.AchievementGoalReached, domain.AchievementFirstEntry}, types(got))

	got, err = e.Evaluate(context.Background(), 1, 150)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEvaluate_NoActiveGoal(t *testing.T) {
	db := memory.New()
	seed(t, db, 1, 200, "2026-03-09")

	got, err := newEngine(db).Evaluate(context.Background(), 1, 150)
	require.NoError(t, err)
	assert.Equal(t, []domain.AchievementType{domain.AchievementNewLow}, types(got))
}

func TestEvaluate_UnstoredGrantIsDropped(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	store := &mockAchievementRepo{
		insertFn: func(_ context.Context, _ *domain.Achievement) (int64, error) { return 0, nil },
	}
	e := app.NewAchievementEngine(&mockWeightRepo{}, &mockGoalRepo{}, store,
		app.WithClock(fixedClock, time.UTC), app.WithLogger(zap.New(core)))

	got, err := e.Evaluate(context.Background(), 1, 150)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 1, logs.FilterMessage("achievement not stored").Len())
}

func TestEvaluate_StoreErrorKeepsEarlierGrants(t *testing.T) {
	dbErr := errors.New("db down")
	goals := &mockGoalRepo{
		activeFn: func(_ context.Context, _ int64) (*domain.GoalWeight, error) {
			return &domain.GoalWeight{ID: 3, UserID: 1, GoalValue: 150, StartValue: 151, Unit: domain.UnitLb, Active: true}, nil
		},
	}
	store := &mockAchievementRepo{
		hasFn: func(_ context.Context, _ int64, typ domain.AchievementType) (bool, error) {
			if typ == domain.AchievementFirstEntry {
				return false, dbErr
			}
			return false, nil
		},
	}
	e := app.NewAchievementEngine(&mockWeightRepo{}, goals, store, app.WithClock(fixedClock, time.UTC))

	got, err := e.Evaluate(context.Background(), 1, 150)
	require.ErrorIs(t, err, dbErr)
	assert.Equal(t, []domain.AchievementType{domain.AchievementGoalReached}, types(got))
}

func TestEvaluate_ReadErrors(t *testing.T) {
	dbErr := errors.New("db down")

	t.Run("history", func(t *testing.T) {
		h := &mockWeightRepo{listFn: func(_ context.Context, _ int64) ([]domain.WeightEntry, error) { return nil, dbErr }}
		_, err := app.NewAchievementEngine(h, &mockGoalRepo{}, &mockAchievementRepo{}).Evaluate(context.Background(), 1, 150)
		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("goal", func(t *testing.T) {
		g := &mockGoalRepo{activeFn: func(_ context.Context, _ int64) (*domain.GoalWeight, error) { return nil, dbErr }}
		_, err := app.NewAchievementEngine(&mockWeightRepo{}, g, &mockAchievementRepo{}).Evaluate(context.Background(), 1, 150)
		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("insert", func(t *testing.T) {
		s := &mockAchievementRepo{insertFn: func(_ context.Context, _ *domain.Achievement) (int64, error) { return 0, dbErr }}
		got, err := app.NewAchievementEngine(&mockWeightRepo{}, &mockGoalRepo{}, s).Evaluate(context.Background(), 1, 150)
		assert.ErrorIs(t, err, dbErr)
		assert.Empty(t, got)
	})
}

func TestEvaluateAndCommit_RunsCommitUnderLock(t *testing.T) {
	var held bool
	locker := lockerFunc(func(_ context.Context, _ int64) (func(), error) {
		held = true
		return func() { held = false }, nil
	})
	e := app.NewAchievementEngine(&mockWeightRepo{}, &mockGoalRepo{}, &mockAchievementRepo{},
		app.WithClock(fixedClock, time.UTC), app.WithLocker(locker))

	var committed bool
	got, err := e.EvaluateAndCommit(context.Background(), 1, 150, func(context.Context) error {
		committed = true
		assert.True(t, held, "commit must run while the user lock is held")
		return nil
	})
	require.NoError(t, err)
	assert.True(t, committed)
	assert.False(t, held)
	assert.Equal(t, []domain.AchievementType{domain.AchievementFirstEntry}, types(got))
}

func TestEvaluateAndCommit_Errors(t *testing.T) {
	dbErr := errors.New("db down")

	t.Run("evaluation fails", func(t *testing.T) {
		s := &mockAchievementRepo{hasFn: func(_ context.Context, _ int64, _ domain.AchievementType) (bool, error) { return false, dbErr }}
		e := app.NewAchievementEngine(&mockWeightRepo{}, &mockGoalRepo{}, s)
		_, err := e.EvaluateAndCommit(context.Background(), 1, 150, func(context.Context) error {
			t.Fatal("commit must not run after a failed evaluation")
			return nil
		})
		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("commit fails", func(t *testing.T) {
		e := app.NewAchievementEngine(&mockWeightRepo{}, &mockGoalRepo{}, &mockAchievementRepo{})
		got, err := e.EvaluateAndCommit(context.Background(), 1, 150, func(context.Context) error { return dbErr })
		assert.ErrorIs(t, err, dbErr)
		assert.Len(t, got, 1)
	})
}

func TestEvaluate_LockError(t *testing.T) {
	lockErr := errors.New("lock timeout")
	h := &mockWeightRepo{listFn: func(_ context.Context, _ int64) ([]domain.WeightEntry, error) {
		t.Fatal("history must not be read without the lock")
		return nil, nil
	}}
	locker := lockerFunc(func(_ context.Context, _ int64) (func(), error) { return nil, lockErr })
	e := app.NewAchievementEngine(h, &mockGoalRepo{}, &mockAchievementRepo{}, app.WithLocker(locker))

	_, err := e.Evaluate(context.Background(), 1, 150)
	assert.ErrorIs(t, err, lockErr)
}

// racyStore never rejects duplicates, so only the engine's lock keeps
// once-only grants unique.
type racyStore struct {
	mu   sync.Mutex
	rows []domain.Achievement
}

func (s *racyStore) HasAchievementType(_ context.Context, userID int64, t domain.AchievementType) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.UserID == userID && r.Type == t {
			return true, nil
		}
	}
	return false, nil
}

func (s *racyStore) InsertAchievement(_ context.Context, a *domain.Achievement) (int64, error) {
	time.Sleep(time.Millisecond)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, *a)
	return int64(len(s.rows)), nil
}

func TestEvaluate_ConcurrentCallsGrantOnce(t *testing.T) {
	store := &racyStore{}
	e := app.NewAchievementEngine(&mockWeightRepo{}, &mockGoalRepo{}, store, app.WithClock(fixedClock, time.UTC))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.Evaluate(context.Background(), 1, 150)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, store.rows, 1)
}

func TestStreakIncludingToday(t *testing.T) {
	today := time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)
	entries := func(days ...string) []domain.WeightEntry {
		out := make([]domain.WeightEntry, 0, len(days))
		for _, d := range days {
			out = append(out, domain.WeightEntry{Day: d})
		}
		return out
	}

	tests := []struct {
		name    string
		entries []domain.WeightEntry
		want    int
	}{
		{"empty", nil, 1},
		{"yesterday only", entries("2026-03-09"), 2},
		{"logged today already", entries("2026-03-10", "2026-03-09"), 1},
		{"three days", entries("2026-03-09", "2026-03-08", "2026-03-07"), 4},
		{"stops at gap", entries("2026-03-09", "2026-03-08", "2026-03-06"), 3},
		{"duplicate day ends run", entries("2026-03-09", "2026-03-09", "2026-03-08"), 2},
		{"month boundary", entries("2026-03-09", "2026-03-08", "2026-03-07", "2026-03-06", "2026-03-05", "2026-03-04", "2026-03-03", "2026-03-02", "2026-03-01", "2026-02-28"), 11},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, app.StreakIncludingToday(tc.entries, today))
		})
	}
}
