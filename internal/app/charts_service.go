package app

import (
	"context"

	"weighttogo/internal/domain"
)

// ChartsService encapsulates chart data retrieval use cases.
type ChartsService struct {
	weightRepo domain.WeightRepository
	engine     *AchievementEngine
}

// NewChartsService creates a ChartsService. The engine provides the calendar
// the chart ends on.
func NewChartsService(wr domain.WeightRepository, engine *AchievementEngine) *ChartsService {
	return &ChartsService{weightRepo: wr, engine: engine}
}

// DayPoint is a single data point returned by GetDaily.
type DayPoint struct {
	Day    string       `json:"day"`
	Weight *WeightPoint `json:"weight"`
}

// WeightPoint is the optional weight value within a DayPoint.
type WeightPoint struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// GetDaily returns per-day chart data for the last days days, with weights
// converted to the requested unit. days is capped at 366; a non-positive
// value yields an empty series.
func (s *ChartsService) GetDaily(ctx context.Context, userID int64, days int, unit string) ([]DayPoint, error) {
	if !domain.ValidUnit(unit) {
		return nil, ErrInvalidUnit
	}
	if days <= 0 {
		return []DayPoint{}, nil
	}
	if days > 366 {
		days = 366
	}

	today, err := domain.ParseDay(s.engine.Today())
	if err != nil {
		return nil, err
	}
	points := make([]DayPoint, 0, days)

	for i := days - 1; i >= 0; i-- {
		dayStr := today.AddDate(0, 0, -i).Format(domain.DayLayout)

		entry, err := s.weightRepo.LatestWeightForDay(ctx, userID, dayStr)
		if err != nil {
			return nil, err
		}

		var wp *WeightPoint
		if entry != nil {
			wp = &WeightPoint{Value: domain.ConvertWeight(entry.Value, entry.Unit, unit), Unit: unit}
		}

		points = append(points, DayPoint{Day: dayStr, Weight: wp})
	}
	return points, nil
}
