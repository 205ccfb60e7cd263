package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lifequest-server/internal/model"
	"lifequest-server/internal/progression"
)

// GetProgress возвращает снимок прогрессии с производными полями
// (заголовок уровня, процент до следующего порога).
func (s *progressService) GetProgress(ctx context.Context, userID uuid.UUID) (*ProgressSummary, error) {
	user, err := s.users.EnsureExists(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ProgressSummary{
		User:        user,
		LevelTitle:  progression.TitleFor(user.CurrentLevel),
		XPProgress:  s.table.Progress(user.TotalXP, user.CurrentLevel),
		NextLevelXP: s.table.NextLevelXP(user.CurrentLevel),
	}, nil
}

// Dashboard собирает агрегат главного экрана. Чтение идет через кэш;
// отсутствие листа, босса или сегодняшнего лога — штатное состояние.
func (s *progressService) Dashboard(ctx context.Context, userID uuid.UUID) (*model.Dashboard, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, userID); err == nil {
			return cached, nil
		}
	}

	user, err := s.users.EnsureExists(ctx, userID)
	if err != nil {
		return nil, err
	}

	d := &model.Dashboard{User: user}

	sheet, err := s.sheets.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}
	d.Sheet = sheet

	levers, err := s.levers.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	d.Levers = levers

	boss, err := s.bosses.GetActive(ctx, userID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}
	d.ActiveBoss = boss

	todayLog, err := s.logs.GetByDate(ctx, userID, s.today())
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}
	d.TodayLog = todayLog

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, d); err != nil {
			s.logger.Debug("Failed to cache dashboard", zap.Stringer("userID", userID), zap.Error(err))
		}
	}

	return d, nil
}

// ListAchievements возвращает достижения пользователя.
func (s *progressService) ListAchievements(ctx context.Context, userID uuid.UUID) ([]model.Achievement, error) {
	return s.achievements.ListByUser(ctx, userID)
}
