package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"weighttogo/internal/domain"
)

const weightColumns = "id, user_id, value, unit, to_char(day, 'YYYY-MM-DD'), notes, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWeight(r rowScanner) (domain.WeightEntry, error) {
	var e domain.WeightEntry
	err := r.Scan(&e.ID, &e.UserID, &e.Value, &e.Unit, &e.Day, &e.Notes, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// AddWeightEntry inserts a new weight entry.
func (d *DB) AddWeightEntry(ctx context.Context, e *domain.WeightEntry) (int64, error) {
	now := time.Now().UTC()
	var id int64
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO weight_entries(user_id, value, unit, day, notes, created_at, updated_at) VALUES($1, $2, $3, $4, $5, $6, $6) RETURNING id;",
		e.UserID, e.Value, e.Unit, e.Day, e.Notes, now,
	).Scan(&id)
	return id, err
}

// ListWeightEntries returns the user's live entries, newest day first.
func (d *DB) ListWeightEntries(ctx context.Context, userID int64) ([]domain.WeightEntry, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+weightColumns+" FROM weight_entries WHERE user_id=$1 AND NOT is_deleted ORDER BY day DESC, id DESC;", userID)
	if err != nil {
		return nil, err
	}
	return scanWeights(rows)
}

func scanWeights(rows *sql.Rows) ([]domain.WeightEntry, error) {
	defer rows.Close() //nolint:errcheck

	out := make([]domain.WeightEntry, 0)
	for rows.Next() {
		e, err := scanWeight(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListRecentWeightEntries returns at most limit live entries, newest day first.
func (d *DB) ListRecentWeightEntries(ctx context.Context, userID int64, limit int) ([]domain.WeightEntry, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+weightColumns+" FROM weight_entries WHERE user_id=$1 AND NOT is_deleted ORDER BY day DESC, id DESC LIMIT $2;", userID, limit)
	if err != nil {
		return nil, err
	}
	return scanWeights(rows)
}

// GetWeightEntry returns a live entry by ID, or nil.
func (d *DB) GetWeightEntry(ctx context.Context, userID, id int64) (*domain.WeightEntry, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT "+weightColumns+" FROM weight_entries WHERE id=$1 AND user_id=$2 AND NOT is_deleted;", id, userID)
	e, err := scanWeight(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// UpdateWeightEntry edits value and notes of a live entry.
func (d *DB) UpdateWeightEntry(ctx context.Context, userID, id int64, value float64, notes string) (bool, error) {
	return affected(d.sql.ExecContext(ctx,
		"UPDATE weight_entries SET value=$1, notes=$2, updated_at=$3 WHERE id=$4 AND user_id=$5 AND NOT is_deleted;",
		value, notes, time.Now().UTC(), id, userID))
}

// SoftDeleteWeightEntry flags an entry deleted.
func (d *DB) SoftDeleteWeightEntry(ctx context.Context, userID, id int64) (bool, error) {
	return affected(d.sql.ExecContext(ctx,
		"UPDATE weight_entries SET is_deleted=TRUE, updated_at=$1 WHERE id=$2 AND user_id=$3 AND NOT is_deleted;",
		time.Now().UTC(), id, userID))
}

// LatestWeightForDay returns the most recently added live entry for a day.
func (d *DB) LatestWeightForDay(ctx context.Context, userID int64, day string) (*domain.WeightEntry, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT "+weightColumns+" FROM weight_entries WHERE user_id=$1 AND day=$2 AND NOT is_deleted ORDER BY id DESC LIMIT 1;",
		userID, day,
	)
	e, err := scanWeight(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}
