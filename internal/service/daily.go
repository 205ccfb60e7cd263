package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lifequest-server/internal/model"
)

// ToggleLever переключает отметку выполнения рычага в сегодняшнем логе.
// Повторное нажатие снимает отметку и забирает начисленный XP обратно.
// Сам лог меняется одним запросом в репозитории, поэтому переключения из
// двух вкладок не теряют друг друга.
func (s *progressService) ToggleLever(ctx context.Context, userID, leverID uuid.UUID) (*ToggleResult, error) {
	lever, err := s.levers.GetByID(ctx, leverID)
	if err != nil {
		return nil, err
	}
	// Чужой рычаг неотличим от несуществующего.
	if lever.UserID != userID {
		return nil, model.ErrNotFound
	}
	if !lever.Active {
		return nil, ErrLeverInactive
	}

	_, completed, err := s.logs.ToggleLever(ctx, userID, s.today(), leverID, lever.XPValue)
	if err != nil {
		return nil, fmt.Errorf("ошибка сохранения дневного лога: %w", err)
	}

	xpChange := lever.XPValue
	if !completed {
		xpChange = -lever.XPValue
	}

	newTotal, newLevel, leveledUp, err := s.applyXP(ctx, userID, xpChange)
	if err != nil {
		return nil, err
	}
	s.invalidateDashboard(ctx, userID)

	s.logger.Debug("Lever toggled",
		zap.Stringer("userID", userID), zap.Stringer("leverID", leverID),
		zap.Bool("completed", completed), zap.Int("xpChange", xpChange))

	return &ToggleResult{
		LeverID:    leverID,
		Completed:  completed,
		XPChange:   xpChange,
		NewTotalXP: newTotal,
		NewLevel:   newLevel,
		LeveledUp:  leveledUp,
	}, nil
}

// SubmitDirectionCheck фиксирует направление дня. Выбор "vision" двигает
// стрик и начисляет XP; "hate" — честная запись без награды, стрик при этом
// не сбрасывается.
func (s *progressService) SubmitDirectionCheck(ctx context.Context, userID uuid.UUID, direction model.Direction, comment string) (*DirectionCheckResult, error) {
	if !direction.IsValid() {
		return nil, ErrInvalidDirection
	}
	if strings.TrimSpace(comment) == "" {
		return nil, ErrCommentRequired
	}

	xpGained := 0
	if direction == model.DirectionVision {
		xpGained = XPRewardDirectionCheck
	}

	saved, err := s.logs.SetDirection(ctx, userID, s.today(), direction, comment, xpGained)
	if err != nil {
		return nil, fmt.Errorf("ошибка сохранения дневного лога: %w", err)
	}

	result := &DirectionCheckResult{Log: saved, XPGained: xpGained}

	if direction == model.DirectionVision {
		newStreak, err := s.users.ApplyStreakDelta(ctx, userID, 1)
		if err != nil {
			return nil, err
		}
		result.NewStreak = newStreak

		newTotal, newLevel, leveledUp, err := s.applyXP(ctx, userID, xpGained)
		if err != nil {
			return nil, err
		}
		result.NewTotalXP = newTotal
		result.NewLevel = newLevel
		result.LeveledUp = leveledUp
	} else {
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		result.NewStreak = user.CurrentStreak
		result.NewTotalXP = user.TotalXP
		result.NewLevel = user.CurrentLevel
	}

	s.invalidateDashboard(ctx, userID)

	s.logger.Info("Direction check submitted",
		zap.Stringer("userID", userID), zap.String("direction", string(direction)), zap.Int("xpGained", xpGained))

	return result, nil
}

// WeeklyLogs возвращает логи за последние days дней (по умолчанию 7).
func (s *progressService) WeeklyLogs(ctx context.Context, userID uuid.UUID, days int) ([]model.DailyLog, error) {
	if days <= 0 {
		days = 7
	}
	since := s.today().AddDate(0, 0, -(days - 1))
	return s.logs.ListSince(ctx, userID, since)
}

// ListReflections возвращает рефлексии за последние weeks недель (по умолчанию 12).
func (s *progressService) ListReflections(ctx context.Context, userID uuid.UUID, weeks int) ([]model.WeeklyReflection, error) {
	if weeks <= 0 {
		weeks = 12
	}
	since := s.now().UTC().Add(-time.Duration(weeks) * 7 * 24 * time.Hour)
	return s.reflections.ListSince(ctx, userID, since)
}
