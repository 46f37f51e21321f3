// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"time"
)

// WeightEntry represents a single dated weight measurement.
type WeightEntry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Day       string    `json:"day"`
	Value     float64   `json:"value"`
	Unit      string    `json:"unit"`
	Notes     string    `json:"notes,omitempty"`
	Deleted   bool      `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WeightHistoryReader is the read side the achievement engine needs. It only
// ever returns entries that are not soft-deleted, newest day first with ties
// broken by descending ID.
type WeightHistoryReader interface {
	ListWeightEntries(ctx context.Context, userID int64) ([]WeightEntry, error)
}

// WeightRepository is the port for weight persistence.
type WeightRepository interface {
	WeightHistoryReader
	ListRecentWeightEntries(ctx context.Context, userID int64, limit int) ([]WeightEntry, error)
	AddWeightEntry(ctx context.Context, e *WeightEntry) (int64, error)
	GetWeightEntry(ctx context.Context, userID, id int64) (*WeightEntry, error)
	UpdateWeightEntry(ctx context.Context, userID, id int64, value float64, notes string) (bool, error)
	SoftDeleteWeightEntry(ctx context.Context, userID, id int64) (bool, error)
	LatestWeightForDay(ctx context.Context, userID int64, day string) (*WeightEntry, error)
}
