package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lifequest-server/internal/model"
)

// FinalizeOnboarding создает лист персонажа, стартовый набор рычагов и
// первый босс-файт. Повторный вызов для уже настроенного аккаунта создаст
// дубликат листа и вернет ошибку по ограничению уникальности.
func (s *progressService) FinalizeOnboarding(ctx context.Context, userID uuid.UUID, input OnboardingInput) error {
	if strings.TrimSpace(input.MonthProject) == "" {
		return ErrProjectRequired
	}

	if _, err := s.users.EnsureExists(ctx, userID); err != nil {
		return err
	}

	sheet := &model.CharacterSheet{
		UserID:       userID,
		AntiVision:   input.AntiVision,
		Vision:       input.Vision,
		YearGoal:     input.YearGoal,
		MonthProject: input.MonthProject,
		Constraints:  input.Constraints,
	}
	if err := s.sheets.Create(ctx, sheet); err != nil {
		return err
	}

	levers := make([]model.DailyLever, 0, MaxOnboardingLevers)
	for _, text := range input.LeverTexts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if len(levers) == MaxOnboardingLevers {
			break
		}
		levers = append(levers, model.DailyLever{
			UserID:    userID,
			LeverText: text,
			XPValue:   DefaultLeverXP,
			Position:  len(levers),
			Active:    true,
		})
	}
	if len(levers) > 0 {
		if err := s.levers.CreateBatch(ctx, levers); err != nil {
			return err
		}
	}

	if _, err := s.bosses.Create(ctx, userID, input.MonthProject, s.today()); err != nil {
		return err
	}

	s.invalidateDashboard(ctx, userID)

	s.logger.Info("Onboarding finalized",
		zap.Stringer("userID", userID), zap.Int("leverCount", len(levers)))
	return nil
}

// UpdateCharacterSheet применяет частичное обновление листа персонажа.
func (s *progressService) UpdateCharacterSheet(ctx context.Context, userID uuid.UUID, upd model.CharacterSheetUpdate) error {
	if err := s.sheets.Update(ctx, userID, upd); err != nil {
		return err
	}
	s.invalidateDashboard(ctx, userID)
	return nil
}

// EditQuestList приводит список рычагов к переданному: элементы без ID
// создаются, с ID — обновляются, отсутствующие — деактивируются.
// Возвращает актуальный активный список.
func (s *progressService) EditQuestList(ctx context.Context, userID uuid.UUID, items []QuestItem) ([]model.DailyLever, error) {
	if len(items) == 0 {
		return nil, ErrEmptyQuestList
	}

	existing, err := s.levers.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	keep := make(map[uuid.UUID]bool, len(items))
	var toCreate []model.DailyLever
	for i, item := range items {
		text := strings.TrimSpace(item.LeverText)
		if text == "" {
			continue
		}
		xp := item.XPValue
		if xp <= 0 {
			xp = DefaultLeverXP
		}
		if item.ID != nil {
			keep[*item.ID] = true
			lever := &model.DailyLever{
				ID:        *item.ID,
				UserID:    userID,
				LeverText: text,
				XPValue:   xp,
				Position:  i,
				Active:    true,
			}
			if err := s.levers.Update(ctx, lever); err != nil {
				return nil, err
			}
		} else {
			toCreate = append(toCreate, model.DailyLever{
				UserID:    userID,
				LeverText: text,
				XPValue:   xp,
				Position:  i,
				Active:    true,
			})
		}
	}

	var toDeactivate []uuid.UUID
	for _, lever := range existing {
		if !keep[lever.ID] {
			toDeactivate = append(toDeactivate, lever.ID)
		}
	}
	if len(toDeactivate) > 0 {
		if err := s.levers.Deactivate(ctx, userID, toDeactivate); err != nil {
			return nil, err
		}
	}
	if len(toCreate) > 0 {
		if err := s.levers.CreateBatch(ctx, toCreate); err != nil {
			return nil, err
		}
	}

	s.invalidateDashboard(ctx, userID)

	s.logger.Info("Quest list edited",
		zap.Stringer("userID", userID),
		zap.Int("created", len(toCreate)), zap.Int("deactivated", len(toDeactivate)))

	return s.levers.ListActive(ctx, userID)
}
