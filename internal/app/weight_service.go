package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"weighttogo/internal/domain"
)

// WeightService encapsulates weight-tracking use cases.
type WeightService struct {
	repo   domain.WeightRepository
	goals  domain.GoalRepository
	engine *AchievementEngine
	log    *zap.Logger
}

// NewWeightService creates a WeightService backed by the given repositories.
// Every logged weight is run through engine before it is stored.
func NewWeightService(repo domain.WeightRepository, goals domain.GoalRepository, engine *AchievementEngine, log *zap.Logger) *WeightService {
	if log == nil {
		log = zap.NewNop()
	}
	return &WeightService{repo: repo, goals: goals, engine: engine, log: log}
}

// LogWeightInput is a weight measurement to record. An empty Day means today.
type LogWeightInput struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
	Day   string  `json:"day,omitempty"`
	Notes string  `json:"notes,omitempty"`
}

// LogWeightResult is the stored entry and the achievements it earned.
type LogWeightResult struct {
	Entry        *domain.WeightEntry  `json:"entry"`
	Achievements []domain.Achievement `json:"achievements"`
}

// Today returns the calendar date new entries default to.
func (s *WeightService) Today() string {
	return s.engine.Today()
}

// LogWeight validates and stores a new weight measurement. Achievements are
// evaluated against the history as it was before this entry, then the entry is
// written, all under the user's evaluation lock. A reached goal is marked
// achieved.
func (s *WeightService) LogWeight(ctx context.Context, userID int64, in LogWeightInput) (*LogWeightResult, error) {
	if err := validateWeight(in.Value, in.Unit); err != nil {
		return nil, err
	}
	today := s.engine.Today()
	if in.Day == "" {
		in.Day = today
	}
	if _, err := domain.ParseDay(in.Day); err != nil {
		return nil, ErrInvalidDay
	}
	if in.Day != today {
		s.log.Debug("logging backdated weight", zap.Int64("user_id", userID), zap.String("day", in.Day))
	}

	entry := &domain.WeightEntry{
		UserID: userID,
		Day:    in.Day,
		Value:  in.Value,
		Unit:   in.Unit,
		Notes:  in.Notes,
	}
	granted, err := s.engine.EvaluateAndCommit(ctx, userID, in.Value, func(ctx context.Context) error {
		id, err := s.repo.AddWeightEntry(ctx, entry)
		if err != nil {
			return fmt.Errorf("add weight entry: %w", err)
		}
		entry.ID = id
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("log weight: %w", err)
	}

	for _, a := range granted {
		if a.Type != domain.AchievementGoalReached || a.GoalID == nil {
			continue
		}
		if _, err := s.goals.MarkGoalAchieved(ctx, userID, *a.GoalID, in.Day); err != nil {
			s.log.Error("mark goal achieved", zap.Int64("goal_id", *a.GoalID), zap.Error(err))
		}
	}

	if granted == nil {
		granted = []domain.Achievement{}
	}
	return &LogWeightResult{Entry: entry, Achievements: granted}, nil
}

// GetDayWeight returns the latest weight entry for the given day.
func (s *WeightService) GetDayWeight(ctx context.Context, userID int64, day string) (*domain.WeightEntry, error) {
	return s.repo.LatestWeightForDay(ctx, userID, day)
}

// ListRecent returns the most recent weight entries up to limit. A
// non-positive limit returns the whole history.
func (s *WeightService) ListRecent(ctx context.Context, userID int64, limit int) ([]domain.WeightEntry, error) {
	if limit <= 0 {
		return s.repo.ListWeightEntries(ctx, userID)
	}
	return s.repo.ListRecentWeightEntries(ctx, userID, limit)
}

// UpdateEntry edits the value and notes of an existing entry.
func (s *WeightService) UpdateEntry(ctx context.Context, userID, id int64, value float64, notes string) (*domain.WeightEntry, error) {
	if value <= 0 {
		return nil, ErrInvalidWeight
	}
	ok, err := s.repo.UpdateWeightEntry(ctx, userID, id, value, notes)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrEntryNotFound
	}
	return s.repo.GetWeightEntry(ctx, userID, id)
}

// DeleteEntry soft-deletes an entry.
func (s *WeightService) DeleteEntry(ctx context.Context, userID, id int64) error {
	ok, err := s.repo.SoftDeleteWeightEntry(ctx, userID, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrEntryNotFound
	}
	return nil
}
