package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lifequest-server/internal/model"
)

// CompleteWeeklyReflection сохраняет еженедельную рефлексию и начисляет
// награду. Указанный прогресс проекта прокидывается в активный босс-файт.
func (s *progressService) CompleteWeeklyReflection(ctx context.Context, userID uuid.UUID, input ReflectionInput) (*ReflectionResult, error) {
	if input.ProjectProgress != nil && (*input.ProjectProgress < 0 || *input.ProjectProgress > 100) {
		return nil, ErrInvalidProgress
	}

	reflection := &model.WeeklyReflection{
		UserID:          userID,
		WeekStart:       s.today().AddDate(0, 0, -6),
		MostAlive:       input.MostAlive,
		MostDead:        input.MostDead,
		PatternNoticed:  input.PatternNoticed,
		AntiVisionCheck: input.AntiVisionCheck,
		LeversAdjusted:  input.LeversAdjusted,
	}
	if input.ProjectProgress != nil {
		reflection.ProjectProgress = *input.ProjectProgress
	}

	if err := s.reflections.Create(ctx, reflection); err != nil {
		return nil, err
	}

	if input.ProjectProgress != nil {
		// Без активного босса прогресс писать некуда, это не ошибка.
		if err := s.bosses.UpdateProgress(ctx, userID, *input.ProjectProgress); err != nil && !errors.Is(err, model.ErrNotFound) {
			s.logger.Warn("Failed to update boss progress from reflection",
				zap.Stringer("userID", userID), zap.Error(err))
		}
	}

	newTotal, newLevel, leveledUp, err := s.applyXP(ctx, userID, XPRewardWeeklyReflection)
	if err != nil {
		return nil, err
	}
	s.invalidateDashboard(ctx, userID)

	s.logger.Info("Weekly reflection completed",
		zap.Stringer("userID", userID), zap.Int("xpGained", XPRewardWeeklyReflection))

	return &ReflectionResult{
		Reflection: reflection,
		XPGained:   XPRewardWeeklyReflection,
		NewTotalXP: newTotal,
		NewLevel:   newLevel,
		LeveledUp:  leveledUp,
	}, nil
}
