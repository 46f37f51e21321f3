package app

import (
	"context"

	"weighttogo/internal/domain"
)

// GoalService encapsulates goal-setting use cases.
type GoalService struct {
	repo    domain.GoalRepository
	weights domain.WeightHistoryReader
}

// NewGoalService creates a GoalService. weights supplies the default start
// weight for new goals.
func NewGoalService(repo domain.GoalRepository, weights domain.WeightHistoryReader) *GoalService {
	return &GoalService{repo: repo, weights: weights}
}

// SetGoalInput describes a new goal. StartValue defaults to the latest logged
// weight, converted to Unit.
type SetGoalInput struct {
	GoalValue  float64  `json:"goalValue"`
	Unit       string   `json:"unit"`
	StartValue *float64 `json:"startValue,omitempty"`
	TargetDate *string  `json:"targetDate,omitempty"`
}

// SetGoal creates a new active goal. Existing active goals are left as they
// are; readers always prefer the newest.
func (s *GoalService) SetGoal(ctx context.Context, userID int64, in SetGoalInput) (*domain.GoalWeight, error) {
	if err := validateWeight(in.GoalValue, in.Unit); err != nil {
		return nil, err
	}
	if in.TargetDate != nil {
		if _, err := domain.ParseDay(*in.TargetDate); err != nil {
			return nil, ErrInvalidDay
		}
	}

	var start float64
	if in.StartValue != nil {
		if *in.StartValue <= 0 {
			return nil, ErrInvalidWeight
		}
		start = *in.StartValue
	} else {
		entries, err := s.weights.ListWeightEntries(ctx, userID)
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			return nil, ErrStartWeightRequired
		}
		start = domain.ConvertWeight(entries[0].Value, entries[0].Unit, in.Unit)
	}

	g := &domain.GoalWeight{
		UserID:     userID,
		GoalValue:  in.GoalValue,
		Unit:       in.Unit,
		StartValue: start,
		TargetDate: in.TargetDate,
		Active:     true,
	}
	id, err := s.repo.AddGoal(ctx, g)
	if err != nil {
		return nil, err
	}
	g.ID = id
	return g, nil
}

// ActiveGoal returns the user's current goal or nil.
func (s *GoalService) ActiveGoal(ctx context.Context, userID int64) (*domain.GoalWeight, error) {
	return s.repo.ActiveGoal(ctx, userID)
}

// History returns every goal the user has set, newest first.
func (s *GoalService) History(ctx context.Context, userID int64) ([]domain.GoalWeight, error) {
	return s.repo.ListGoals(ctx, userID)
}

// Deactivate clears the active flag on a goal.
func (s *GoalService) Deactivate(ctx context.Context, userID, id int64) error {
	ok, err := s.repo.DeactivateGoal(ctx, userID, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrGoalNotFound
	}
	return nil
}
