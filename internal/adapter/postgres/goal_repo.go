package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"weighttogo/internal/domain"
)

const goalColumns = "id, user_id, goal_value, unit, start_value, to_char(target_date, 'YYYY-MM-DD'), is_achieved, to_char(achieved_date, 'YYYY-MM-DD'), is_active, created_at, updated_at"

func scanGoal(r rowScanner) (domain.GoalWeight, error) {
	var (
		g        domain.GoalWeight
		target   sql.NullString
		achieved sql.NullString
	)
	err := r.Scan(&g.ID, &g.UserID, &g.GoalValue, &g.Unit, &g.StartValue, &target,
		&g.Achieved, &achieved, &g.Active, &g.CreatedAt, &g.UpdatedAt)
	if target.Valid {
		g.TargetDate = &target.String
	}
	if achieved.Valid {
		g.AchievedDate = &achieved.String
	}
	return g, err
}

// AddGoal inserts a goal.
func (d *DB) AddGoal(ctx context.Context, g *domain.GoalWeight) (int64, error) {
	now := time.Now().UTC()
	var id int64
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO goal_weights(user_id, goal_value, unit, start_value, target_date, is_active, created_at, updated_at) VALUES($1, $2, $3, $4, $5, $6, $7, $7) RETURNING id;",
		g.UserID, g.GoalValue, g.Unit, g.StartValue, g.TargetDate, g.Active, now,
	).Scan(&id)
	return id, err
}

// ActiveGoal returns the most recently created active goal, or nil.
func (d *DB) ActiveGoal(ctx context.Context, userID int64) (*domain.GoalWeight, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT "+goalColumns+" FROM goal_weights WHERE user_id=$1 AND is_active ORDER BY created_at DESC, id DESC LIMIT 1;", userID)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ListGoals returns every goal of the user, newest first.
func (d *DB) ListGoals(ctx context.Context, userID int64) ([]domain.GoalWeight, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+goalColumns+" FROM goal_weights WHERE user_id=$1 ORDER BY created_at DESC, id DESC;", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.GoalWeight, 0)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// DeactivateGoal clears the active flag.
func (d *DB) DeactivateGoal(ctx context.Context, userID, id int64) (bool, error) {
	return affected(d.sql.ExecContext(ctx,
		"UPDATE goal_weights SET is_active=FALSE, updated_at=$1 WHERE id=$2 AND user_id=$3;",
		time.Now().UTC(), id, userID))
}

// MarkGoalAchieved flags the goal achieved on day.
func (d *DB) MarkGoalAchieved(ctx context.Context, userID, id int64, day string) (bool, error) {
	return affected(d.sql.ExecContext(ctx,
		"UPDATE goal_weights SET is_achieved=TRUE, achieved_date=$1, updated_at=$2 WHERE id=$3 AND user_id=$4;",
		day, time.Now().UTC(), id, userID))
}
