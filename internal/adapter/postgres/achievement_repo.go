package postgres

import (
	"context"
	"database/sql"
	"errors"

	"weighttogo/internal/domain"
)

// HasAchievementType reports whether the user holds an achievement of type t.
func (d *DB) HasAchievementType(ctx context.Context, userID int64, t domain.AchievementType) (bool, error) {
	var exists bool
	err := d.sql.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM achievements WHERE user_id=$1 AND type=$2);", userID, string(t),
	).Scan(&exists)
	return exists, err
}

// InsertAchievement stores an achievement. When the once-only index rejects
// the row the returned ID is 0 and the error nil.
func (d *DB) InsertAchievement(ctx context.Context, a *domain.Achievement) (int64, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO achievements(user_id, goal_id, type, title, description, value, earned_at, notified) VALUES($1, $2, $3, $4, $5, $6, $7, $8) ON CONFLICT DO NOTHING RETURNING id;",
		a.UserID, a.GoalID, string(a.Type), a.Title, a.Description, a.Value, a.EarnedAt.UTC(), a.Notified,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return id, err
}

// ListAchievements returns the user's achievements, newest first.
func (d *DB) ListAchievements(ctx context.Context, userID int64, pendingOnly bool) ([]domain.Achievement, error) {
	q := "SELECT id, user_id, goal_id, type, title, description, value, earned_at, notified FROM achievements WHERE user_id=$1"
	if pendingOnly {
		q += " AND NOT notified"
	}
	rows, err := d.sql.QueryContext(ctx, q+" ORDER BY earned_at DESC, id DESC;", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.Achievement, 0)
	for rows.Next() {
		var (
			a      domain.Achievement
			kind   string
			goalID sql.NullInt64
			value  sql.NullFloat64
		)
		if err := rows.Scan(&a.ID, &a.UserID, &goalID, &kind, &a.Title, &a.Description, &value, &a.EarnedAt, &a.Notified); err != nil {
			return nil, err
		}
		a.Type = domain.AchievementType(kind)
		if goalID.Valid {
			a.GoalID = &goalID.Int64
		}
		if value.Valid {
			a.Value = &value.Float64
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// MarkAchievementNotified sets the notified flag.
func (d *DB) MarkAchievementNotified(ctx context.Context, userID, id int64) (bool, error) {
	return affected(d.sql.ExecContext(ctx,
		"UPDATE achievements SET notified=TRUE WHERE id=$1 AND user_id=$2;", id, userID))
}
