package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lifequest-server/internal/messaging"
	"lifequest-server/internal/model"
)

// CompleteBossFight закрывает текущий месячный проект и сразу открывает
// следующий. Если активного босс-файта нет (залипшее состояние после сбоя),
// награда не начисляется, но новый проект все равно открывается.
func (s *progressService) CompleteBossFight(ctx context.Context, userID uuid.UUID, input BossCompletionInput) (*BossCompletionResult, error) {
	if strings.TrimSpace(input.NewProject) == "" {
		return nil, ErrProjectRequired
	}

	result := &BossCompletionResult{}

	current, err := s.bosses.GetActive(ctx, userID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	if current != nil {
		xpGained := XPRewardBossFailed
		eventType := messaging.EventTypeBossFailed
		if input.Defeated {
			xpGained = XPRewardBossDefeated
			eventType = messaging.EventTypeBossDefeated
		}

		if err := s.bosses.Complete(ctx, current.ID, input.Defeated, input.Learnings, xpGained); err != nil {
			return nil, err
		}

		newTotal, newLevel, leveledUp, err := s.applyXP(ctx, userID, xpGained)
		if err != nil {
			return nil, err
		}
		result.ClosedBoss = current
		result.XPGained = xpGained
		result.NewTotalXP = newTotal
		result.NewLevel = newLevel
		result.LeveledUp = leveledUp

		event := messaging.ProgressEvent{
			UserID:    userID.String(),
			EventType: eventType,
			XPDelta:   xpGained,
			TotalXP:   newTotal,
			NewLevel:  newLevel,
		}
		if perr := s.publisher.PublishProgressEvent(ctx, event); perr != nil {
			s.logger.Warn("Failed to publish boss event", zap.Stringer("userID", userID), zap.Error(perr))
		}
	}

	newBoss, err := s.bosses.Create(ctx, userID, input.NewProject, s.today())
	if err != nil {
		return nil, err
	}
	result.NewBoss = newBoss

	// Смена проекта отражается в листе персонажа. Отсутствие листа не
	// фатально: пользователь мог не завершить онбординг.
	upd := model.CharacterSheetUpdate{
		MonthProject: &input.NewProject,
		Vision:       input.Vision,
		AntiVision:   input.AntiVision,
	}
	if err := s.sheets.Update(ctx, userID, upd); err != nil && !errors.Is(err, model.ErrNotFound) {
		s.logger.Warn("Failed to update character sheet on boss completion",
			zap.Stringer("userID", userID), zap.Error(err))
	}

	s.invalidateDashboard(ctx, userID)

	s.logger.Info("Boss fight completed",
		zap.Stringer("userID", userID), zap.Bool("defeated", input.Defeated),
		zap.Int("xpGained", result.XPGained), zap.Stringer("newBossID", newBoss.ID))

	return result, nil
}

// UpdateBossProgress выставляет процент прогресса активного босс-файта.
func (s *progressService) UpdateBossProgress(ctx context.Context, userID uuid.UUID, progress int) error {
	if progress < 0 || progress > 100 {
		return ErrInvalidProgress
	}
	if err := s.bosses.UpdateProgress(ctx, userID, progress); err != nil {
		return err
	}
	s.invalidateDashboard(ctx, userID)
	return nil
}
