package app

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"weighttogo/internal/domain"
)

const (
	goalTolerance    = 0.5
	minStreakHistory = 6
)

var milestones = []struct {
	lost        float64
	kind        domain.AchievementType
	description string
}{
	{5, domain.AchievementMilestone5, "You've lost %s! You're making great progress!"},
	{10, domain.AchievementMilestone10, "Amazing! You've lost %s!"},
	{25, domain.AchievementMilestone25, "Incredible! You've lost %s! You're a superstar!"},
}

// Locker serializes achievement evaluations for a single user. The returned
// function releases the lock.
type Locker interface {
	Lock(ctx context.Context, userID int64) (func(), error)
}

// AchievementEngine decides which achievements a newly logged weight earns.
// It holds no state of its own beyond its collaborators.
type AchievementEngine struct {
	history domain.WeightHistoryReader
	goals   domain.GoalReader
	store   domain.AchievementStore
	locker  Locker
	now     func() time.Time
	loc     *time.Location
	log     *zap.Logger
}

// EngineOption customises an AchievementEngine.
type EngineOption func(*AchievementEngine)

// WithLocker replaces the default in-process per-user lock.
func WithLocker(l Locker) EngineOption {
	return func(e *AchievementEngine) { e.locker = l }
}

// WithClock sets the time source and the zone that defines "today".
func WithClock(now func() time.Time, loc *time.Location) EngineOption {
	return func(e *AchievementEngine) {
		e.now = now
		e.loc = loc
	}
}

// WithLogger sets the engine's logger.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *AchievementEngine) { e.log = l }
}

// NewAchievementEngine creates an engine over the given stores.
func NewAchievementEngine(h domain.WeightHistoryReader, g domain.GoalReader, s domain.AchievementStore, opts ...EngineOption) *AchievementEngine {
	e := &AchievementEngine{
		history: h,
		goals:   g,
		store:   s,
		locker:  NewKeyedMutex(),
		now:     time.Now,
		loc:     time.Local,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Today returns the current calendar date as the engine sees it.
func (e *AchievementEngine) Today() string {
	return domain.DayOf(e.now(), e.loc)
}

// Evaluate runs every achievement rule for userID against newWeight and
// returns the achievements granted by this call, in rule order.
//
// newWeight must not be part of the stored history yet. Each grant is
// persisted as soon as it is made; a grant the store does not assign an ID to
// is dropped. A store error stops the evaluation and is returned together
// with whatever was granted before it.
func (e *AchievementEngine) Evaluate(ctx context.Context, userID int64, newWeight float64) ([]domain.Achievement, error) {
	return e.EvaluateAndCommit(ctx, userID, newWeight, nil)
}

// EvaluateAndCommit is Evaluate followed by commit, both under the user's
// lock. commit is expected to store newWeight so that the next evaluation for
// the user sees it. It is not called when evaluation fails.
func (e *AchievementEngine) EvaluateAndCommit(ctx context.Context, userID int64, newWeight float64, commit func(context.Context) error) ([]domain.Achievement, error) {
	unlock, err := e.locker.Lock(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lock user %d: %w", userID, err)
	}
	defer unlock()

	granted, err := e.evaluate(ctx, userID, newWeight)
	if err != nil || commit == nil {
		return granted, err
	}
	return granted, commit(ctx)
}

func (e *AchievementEngine) evaluate(ctx context.Context, userID int64, newWeight float64) ([]domain.Achievement, error) {
	entries, err := e.history.ListWeightEntries(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load weight history: %w", err)
	}
	goal, err := e.goals.ActiveGoal(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load active goal: %w", err)
	}

	ev := &evaluation{
		engine:  e,
		ctx:     ctx,
		userID:  userID,
		weight:  newWeight,
		entries: entries,
		goal:    goal,
		now:     e.now(),
	}
	e.log.Debug("evaluating achievements",
		zap.Int64("user_id", userID),
		zap.Float64("weight", newWeight),
		zap.Int("history", len(entries)),
		zap.Bool("has_goal", goal != nil),
	)

	rules := []func() error{ev.goalReached, ev.firstEntry, ev.streaks, ev.milestones, ev.newLow}
	for _, rule := range rules {
		if err := rule(); err != nil {
			return ev.granted, err
		}
	}

	e.log.Info("achievements evaluated", zap.Int64("user_id", userID), zap.Int("granted", len(ev.granted)))
	return ev.granted, nil
}

// evaluation is the state of one Evaluate call.
type evaluation struct {
	engine  *AchievementEngine
	ctx     context.Context
	userID  int64
	weight  float64
	entries []domain.WeightEntry
	goal    *domain.GoalWeight
	now     time.Time
	granted []domain.Achievement
}

func (ev *evaluation) has(t domain.AchievementType) (bool, error) {
	ok, err := ev.engine.store.HasAchievementType(ev.ctx, ev.userID, t)
	if err != nil {
		return false, fmt.Errorf("check achievement %s: %w", t, err)
	}
	return ok, nil
}

func (ev *evaluation) grant(a domain.Achievement) error {
	a.UserID = ev.userID
	a.EarnedAt = ev.now
	id, err := ev.engine.store.InsertAchievement(ev.ctx, &a)
	if err != nil {
		return fmt.Errorf("insert achievement %s: %w", a.Type, err)
	}
	if id <= 0 {
		ev.engine.log.Warn("achievement not stored",
			zap.Int64("user_id", ev.userID), zap.String("type", string(a.Type)))
		return nil
	}
	a.ID = id
	ev.granted = append(ev.granted, a)
	ev.engine.log.Info("achievement granted",
		zap.Int64("user_id", ev.userID), zap.String("type", string(a.Type)), zap.Int64("id", id))
	return nil
}

func (ev *evaluation) goalReached() error {
	if ev.goal == nil {
		return nil
	}
	if done, err := ev.has(domain.AchievementGoalReached); err != nil || done {
		return err
	}
	target, goalID := ev.goal.GoalValue, ev.goal.ID
	if math.Abs(ev.weight-target) > goalTolerance {
		return nil
	}
	return ev.grant(domain.Achievement{
		GoalID:      &goalID,
		Type:        domain.AchievementGoalReached,
		Title:       "Goal Reached!",
		Description: fmt.Sprintf("Congratulations! You've reached your goal weight of %.1f %s", target, ev.goal.Unit),
		Value:       &target,
	})
}

func (ev *evaluation) firstEntry() error {
	if len(ev.entries) > 0 {
		return nil
	}
	if done, err := ev.has(domain.AchievementFirstEntry); err != nil || done {
		return err
	}
	return ev.grant(domain.Achievement{
		Type:        domain.AchievementFirstEntry,
		Title:       "First Entry!",
		Description: "You've logged your first weight. Great start on your journey!",
	})
}

func (ev *evaluation) streaks() error {
	if len(ev.entries) < minStreakHistory {
		return nil
	}
	today := ev.now.In(ev.engine.loc)
	streak := StreakIncludingToday(ev.entries, today)
	count := float64(streak)

	if streak >= 7 {
		done, err := ev.has(domain.AchievementStreak7)
		if err != nil {
			return err
		}
		if !done {
			err = ev.grant(domain.Achievement{
				Type:        domain.AchievementStreak7,
				Title:       "7-Day Streak!",
				Description: "You've logged your weight for 7 consecutive days. Keep it up!",
				Value:       &count,
			})
			if err != nil {
				return err
			}
		}
	}
	if streak >= 30 {
		done, err := ev.has(domain.AchievementStreak30)
		if err != nil || done {
			return err
		}
		return ev.grant(domain.Achievement{
			Type:        domain.AchievementStreak30,
			Title:       "30-Day Streak!",
			Description: "Amazing! You've logged your weight for 30 consecutive days!",
			Value:       &count,
		})
	}
	return nil
}

// StreakIncludingToday returns the number of consecutive calendar days ending
// today that have an entry, counting today as logged. entries must be ordered
// newest day first. A missing yesterday yields 1.
func StreakIncludingToday(entries []domain.WeightEntry, today time.Time) int {
	if len(entries) == 0 {
		return 1
	}
	prev, err := domain.ParseDay(entries[0].Day)
	if err != nil || domain.DaysBetween(prev, today) != 1 {
		return 1
	}

	streak := 2
	for _, e := range entries[1:] {
		d, err := domain.ParseDay(e.Day)
		if err != nil || domain.DaysBetween(d, prev) != 1 {
			break
		}
		streak++
		prev = d
	}
	return streak
}

func (ev *evaluation) milestones() error {
	if ev.goal == nil {
		return nil
	}
	lost := math.Abs(ev.goal.StartValue - ev.weight)
	unit := unitLabel(ev.goal.Unit)

	for _, m := range milestones {
		if lost < m.lost {
			continue
		}
		done, err := ev.has(m.kind)
		if err != nil {
			return err
		}
		if done {
			continue
		}
		amount := fmt.Sprintf("%g %s", m.lost, unit)
		value, goalID := m.lost, ev.goal.ID
		err = ev.grant(domain.Achievement{
			GoalID:      &goalID,
			Type:        m.kind,
			Title:       amount + " Lost!",
			Description: fmt.Sprintf(m.description, amount),
			Value:       &value,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (ev *evaluation) newLow() error {
	if len(ev.entries) == 0 {
		return nil
	}
	low := ev.entries[0].Value
	for _, e := range ev.entries[1:] {
		low = math.Min(low, e.Value)
	}
	if ev.weight >= low {
		return nil
	}
	value := ev.weight
	return ev.grant(domain.Achievement{
		Type:        domain.AchievementNewLow,
		Title:       "New Low!",
		Description: fmt.Sprintf("You've reached a new lowest weight of %.1f %s!", value, unitLabel(ev.entries[0].Unit)),
		Value:       &value,
	})
}

func unitLabel(unit string) string {
	if unit == domain.UnitLb {
		return "lbs"
	}
	return unit
}
