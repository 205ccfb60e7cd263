package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"lifequest-server/internal/model"
	"lifequest-server/internal/service"
)

// Mock ProgressService
type ProgressService struct {
	mock.Mock
}

func (m *ProgressService) GetProgress(ctx context.Context, userID uuid.UUID) (*service.ProgressSummary, error) {
	args := m.Called(ctx, userID)
	if s := args.Get(0); s != nil {
		return s.(*service.ProgressSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProgressService) Dashboard(ctx context.Context, userID uuid.UUID) (*model.Dashboard, error) {
	args := m.Called(ctx, userID)
	if d := args.Get(0); d != nil {
		return d.(*model.Dashboard), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProgressService) FinalizeOnboarding(ctx context.Context, userID uuid.UUID, input service.OnboardingInput) error {
	args := m.Called(ctx, userID, input)
	return args.Error(0)
}

func (m *ProgressService) UpdateCharacterSheet(ctx context.Context, userID uuid.UUID, upd model.CharacterSheetUpdate) error {
	args := m.Called(ctx, userID, upd)
	return args.Error(0)
}

func (m *ProgressService) ToggleLever(ctx context.Context, userID, leverID uuid.UUID) (*service.ToggleResult, error) {
	args := m.Called(ctx, userID, leverID)
	if r := args.Get(0); r != nil {
		return r.(*service.ToggleResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProgressService) SubmitDirectionCheck(ctx context.Context, userID uuid.UUID, direction model.Direction, comment string) (*service.DirectionCheckResult, error) {
	args := m.Called(ctx, userID, direction, comment)
	if r := args.Get(0); r != nil {
		return r.(*service.DirectionCheckResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProgressService) EditQuestList(ctx context.Context, userID uuid.UUID, items []service.QuestItem) ([]model.DailyLever, error) {
	args := m.Called(ctx, userID, items)
	if l := args.Get(0); l != nil {
		return l.([]model.DailyLever), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProgressService) CompleteWeeklyReflection(ctx context.Context, userID uuid.UUID, input service.ReflectionInput) (*service.ReflectionResult, error) {
	args := m.Called(ctx, userID, input)
	if r := args.Get(0); r != nil {
		return r.(*service.ReflectionResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProgressService) CompleteBossFight(ctx context.Context, userID uuid.UUID, input service.BossCompletionInput) (*service.BossCompletionResult, error) {
	args := m.Called(ctx, userID, input)
	if r := args.Get(0); r != nil {
		return r.(*service.BossCompletionResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProgressService) UpdateBossProgress(ctx context.Context, userID uuid.UUID, progress int) error {
	args := m.Called(ctx, userID, progress)
	return args.Error(0)
}

func (m *ProgressService) WeeklyLogs(ctx context.Context, userID uuid.UUID, days int) ([]model.DailyLog, error) {
	args := m.Called(ctx, userID, days)
	if l := args.Get(0); l != nil {
		return l.([]model.DailyLog), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProgressService) ListReflections(ctx context.Context, userID uuid.UUID, weeks int) ([]model.WeeklyReflection, error) {
	args := m.Called(ctx, userID, weeks)
	if r := args.Get(0); r != nil {
		return r.([]model.WeeklyReflection), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProgressService) ListAchievements(ctx context.Context, userID uuid.UUID) ([]model.Achievement, error) {
	args := m.Called(ctx, userID)
	if a := args.Get(0); a != nil {
		return a.([]model.Achievement), args.Error(1)
	}
	return nil, args.Error(1)
}
