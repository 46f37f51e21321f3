package app_test

import (
	"context"

	"weighttogo/internal/domain"
)

type mockWeightRepo struct {
	listFn   func(ctx context.Context, userID int64) ([]domain.WeightEntry, error)
	recentFn func(ctx context.Context, userID int64, limit int) ([]domain.WeightEntry, error)
	addFn    func(ctx context.Context, e *domain.WeightEntry) (int64, error)
	getFn    func(ctx context.Context, userID, id int64) (*domain.WeightEntry, error)
	updateFn func(ctx context.Context, userID, id int64, value float64, notes string) (bool, error)
	deleteFn func(ctx context.Context, userID, id int64) (bool, error)
	latestFn func(ctx context.Context, userID int64, day string) (*domain.WeightEntry, error)
}

func (m *mockWeightRepo) ListWeightEntries(ctx context.Context, userID int64) ([]domain.WeightEntry, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockWeightRepo) ListRecentWeightEntries(ctx context.Context, userID int64, limit int) ([]domain.WeightEntry, error) {
	if m.recentFn != nil {
		return m.recentFn(ctx, userID, limit)
	}
	return nil, nil
}

func (m *mockWeightRepo) AddWeightEntry(ctx context.Context, e *domain.WeightEntry) (int64, error) {
	if m.addFn != nil {
		return m.addFn(ctx, e)
	}
	return 1, nil
}

func (m *mockWeightRepo) GetWeightEntry(ctx context.Context, userID, id int64) (*domain.WeightEntry, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID, id)
	}
	return nil, nil
}

func (m *mockWeightRepo) UpdateWeightEntry(ctx context.Context, userID, id int64, value float64, notes string) (bool, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, userID, id, value, notes)
	}
	return false, nil
}

func (m *mockWeightRepo) SoftDeleteWeightEntry(ctx context.Context, userID, id int64) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, id)
	}
	return false, nil
}

func (m *mockWeightRepo) LatestWeightForDay(ctx context.Context, userID int64, day string) (*domain.WeightEntry, error) {
	if m.latestFn != nil {
		return m.latestFn(ctx, userID, day)
	}
	return nil, nil
}

type mockGoalRepo struct {
	activeFn     func(ctx context.Context, userID int64) (*domain.GoalWeight, error)
	addFn        func(ctx context.Context, g *domain.GoalWeight) (int64, error)
	listFn       func(ctx context.Context, userID int64) ([]domain.GoalWeight, error)
	deactivateFn func(ctx context.Context, userID, id int64) (bool, error)
	achievedFn   func(ctx context.Context, userID, id int64, day string) (bool, error)
}

func (m *mockGoalRepo) ActiveGoal(ctx context.Context, userID int64) (*domain.GoalWeight, error) {
	if m.activeFn != nil {
		return m.activeFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockGoalRepo) AddGoal(ctx context.Context, g *domain.GoalWeight) (int64, error) {
	if m.addFn != nil {
		return m.addFn(ctx, g)
	}
	return 1, nil
}

func (m *mockGoalRepo) ListGoals(ctx context.Context, userID int64) ([]domain.GoalWeight, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockGoalRepo) DeactivateGoal(ctx context.Context, userID, id int64) (bool, error) {
	if m.deactivateFn != nil {
		return m.deactivateFn(ctx, userID, id)
	}
	return false, nil
}

func (m *mockGoalRepo) MarkGoalAchieved(ctx context.Context, userID, id int64, day string) (bool, error) {
	if m.achievedFn != nil {
		return m.achievedFn(ctx, userID, id, day)
	}
	return true, nil
}

type mockAchievementRepo struct {
	hasFn      func(ctx context.Context, userID int64, t domain.AchievementType) (bool, error)
	insertFn   func(ctx context.Context, a *domain.Achievement) (int64, error)
	listFn     func(ctx context.Context, userID int64, pendingOnly bool) ([]domain.Achievement, error)
	notifiedFn func(ctx context.Context, userID, id int64) (bool, error)
}

func (m *mockAchievementRepo) HasAchievementType(ctx context.Context, userID int64, t domain.AchievementType) (bool, error) {
	if m.hasFn != nil {
		return m.hasFn(ctx, userID, t)
	}
	return false, nil
}

func (m *mockAchievementRepo) InsertAchievement(ctx context.Context, a *domain.Achievement) (int64, error) {
	if m.insertFn != nil {
		return m.insertFn(ctx, a)
	}
	return 1, nil
}

func (m *mockAchievementRepo) ListAchievements(ctx context.Context, userID int64, pendingOnly bool) ([]domain.Achievement, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, pendingOnly)
	}
	return nil, nil
}

func (m *mockAchievementRepo) MarkAchievementNotified(ctx context.Context, userID, id int64) (bool, error) {
	if m.notifiedFn != nil {
		return m.notifiedFn(ctx, userID, id)
	}
	return false, nil
}

type lockerFunc func(ctx context.Context, userID int64) (func(), error)

func (f lockerFunc) Lock(ctx context.Context, userID int64) (func(), error) { return f(ctx, userID) }
