// Package postgres implements the domain repositories using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"weighttogo/internal/domain"
)

// DB wraps a *sql.DB and implements domain repository interfaces.
type DB struct {
	sql *sql.DB
}

var _ domain.WeightRepository = (*DB)(nil)
var _ domain.GoalRepository = (*DB)(nil)
var _ domain.AchievementRepository = (*DB)(nil)

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(connStr string) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS weight_entries (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			value DOUBLE PRECISION NOT NULL,
			unit TEXT NOT NULL CHECK(unit IN ('kg','lb')),
			day DATE NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);`,
		"CREATE INDEX IF NOT EXISTS idx_weight_entries_user_day ON weight_entries(user_id, day DESC, id DESC) WHERE NOT is_deleted;",
		`CREATE TABLE IF NOT EXISTS goal_weights (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			goal_value DOUBLE PRECISION NOT NULL,
			unit TEXT NOT NULL CHECK(unit IN ('kg','lb')),
			start_value DOUBLE PRECISION NOT NULL,
			target_date DATE,
			is_achieved BOOLEAN NOT NULL DEFAULT FALSE,
			achieved_date DATE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);`,
		"CREATE INDEX IF NOT EXISTS idx_goal_weights_user_active ON goal_weights(user_id, is_active);",
		`CREATE TABLE IF NOT EXISTS achievements (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			goal_id BIGINT REFERENCES goal_weights(id),
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			value DOUBLE PRECISION,
			earned_at TIMESTAMPTZ NOT NULL,
			notified BOOLEAN NOT NULL DEFAULT FALSE
		);`,
		"CREATE INDEX IF NOT EXISTS idx_achievements_user_id ON achievements(user_id);",
		// Once-only achievement types may exist a single time per user.
		"CREATE UNIQUE INDEX IF NOT EXISTS uq_achievements_user_type ON achievements(user_id, type) WHERE type <> 'NEW_LOW';",
	}

	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func affected(res sql.Result, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
