package app

import (
	"context"

	"weighttogo/internal/domain"
)

// AchievementService exposes earned achievements to readers and to whatever
// delivers notifications about them.
type AchievementService struct {
	repo domain.AchievementRepository
}

// NewAchievementService creates an AchievementService.
func NewAchievementService(repo domain.AchievementRepository) *AchievementService {
	return &AchievementService{repo: repo}
}

// List returns the user's achievements, newest first. With pendingOnly only
// those not yet notified are returned.
func (s *AchievementService) List(ctx context.Context, userID int64, pendingOnly bool) ([]domain.Achievement, error) {
	return s.repo.ListAchievements(ctx, userID, pendingOnly)
}

// MarkNotified records that the user has been told about an achievement.
func (s *AchievementService) MarkNotified(ctx context.Context, userID, id int64) error {
	ok, err := s.repo.MarkAchievementNotified(ctx, userID, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAchievementNotFound
	}
	return nil
}
