package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"lifequest-server/internal/model"
	"lifequest-server/internal/repository"
)

// Mock UserRepository
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) EnsureExists(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) ApplyXPDelta(ctx context.Context, id uuid.UUID, delta int, levelFor repository.LevelFunc) (int, int, error) {
	args := m.Called(ctx, id, delta, levelFor)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *UserRepository) ApplyStreakDelta(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	args := m.Called(ctx, id, delta)
	return args.Int(0), args.Error(1)
}

// Mock CharacterSheetRepository
type CharacterSheetRepository struct {
	mock.Mock
}

func (m *CharacterSheetRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.CharacterSheet, error) {
	args := m.Called(ctx, userID)
	if s := args.Get(0); s != nil {
		return s.(*model.CharacterSheet), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CharacterSheetRepository) Create(ctx context.Context, sheet *model.CharacterSheet) error {
	args := m.Called(ctx, sheet)
	return args.Error(0)
}

func (m *CharacterSheetRepository) Update(ctx context.Context, userID uuid.UUID, upd model.CharacterSheetUpdate) error {
	args := m.Called(ctx, userID, upd)
	return args.Error(0)
}

// Mock LeverRepository
type LeverRepository struct {
	mock.Mock
}

func (m *LeverRepository) ListActive(ctx context.Context, userID uuid.UUID) ([]model.DailyLever, error) {
	args := m.Called(ctx, userID)
	if l := args.Get(0); l != nil {
		return l.([]model.DailyLever), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LeverRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.DailyLever, error) {
	args := m.Called(ctx, id)
	if l := args.Get(0); l != nil {
		return l.(*model.DailyLever), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LeverRepository) CreateBatch(ctx context.Context, levers []model.DailyLever) error {
	args := m.Called(ctx, levers)
	return args.Error(0)
}

func (m *LeverRepository) Update(ctx context.Context, lever *model.DailyLever) error {
	args := m.Called(ctx, lever)
	return args.Error(0)
}

func (m *LeverRepository) Deactivate(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	args := m.Called(ctx, userID, ids)
	return args.Error(0)
}

// Mock DailyLogRepository
type DailyLogRepository struct {
	mock.Mock
}

func (m *DailyLogRepository) GetByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*model.DailyLog, error) {
	args := m.Called(ctx, userID, date)
	if l := args.Get(0); l != nil {
		return l.(*model.DailyLog), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DailyLogRepository) ToggleLever(ctx context.Context, userID uuid.UUID, date time.Time, leverID uuid.UUID, xpValue int) (*model.DailyLog, bool, error) {
	args := m.Called(ctx, userID, date, leverID, xpValue)
	if l := args.Get(0); l != nil {
		return l.(*model.DailyLog), args.Bool(1), args.Error(2)
	}
	return nil, args.Bool(1), args.Error(2)
}

func (m *DailyLogRepository) SetDirection(ctx context.Context, userID uuid.UUID, date time.Time, direction model.Direction, comment string, xpDelta int) (*model.DailyLog, error) {
	args := m.Called(ctx, userID, date, direction, comment, xpDelta)
	if l := args.Get(0); l != nil {
		return l.(*model.DailyLog), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DailyLogRepository) ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]model.DailyLog, error) {
	args := m.Called(ctx, userID, since)
	if l := args.Get(0); l != nil {
		return l.([]model.DailyLog), args.Error(1)
	}
	return nil, args.Error(1)
}

// Mock BossFightRepository
type BossFightRepository struct {
	mock.Mock
}

func (m *BossFightRepository) GetActive(ctx context.Context, userID uuid.UUID) (*model.BossFight, error) {
	args := m.Called(ctx, userID)
	if b := args.Get(0); b != nil {
		return b.(*model.BossFight), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BossFightRepository) Create(ctx context.Context, userID uuid.UUID, projectText string, monthStart time.Time) (*model.BossFight, error) {
	args := m.Called(ctx, userID, projectText, monthStart)
	if b := args.Get(0); b != nil {
		return b.(*model.BossFight), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BossFightRepository) Complete(ctx context.Context, id uuid.UUID, defeated bool, learnings string, xpGained int) error {
	args := m.Called(ctx, id, defeated, learnings, xpGained)
	return args.Error(0)
}

func (m *BossFightRepository) UpdateProgress(ctx context.Context, userID uuid.UUID, progress int) error {
	args := m.Called(ctx, userID, progress)
	return args.Error(0)
}

// Mock ReflectionRepository
type ReflectionRepository struct {
	mock.Mock
}

func (m *ReflectionRepository) Create(ctx context.Context, r *model.WeeklyReflection) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *ReflectionRepository) ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]model.WeeklyReflection, error) {
	args := m.Called(ctx, userID, since)
	if r := args.Get(0); r != nil {
		return r.([]model.WeeklyReflection), args.Error(1)
	}
	return nil, args.Error(1)
}

// Mock AchievementRepository
type AchievementRepository struct {
	mock.Mock
}

func (m *AchievementRepository) Unlock(ctx context.Context, userID uuid.UUID, achievementType string) (bool, error) {
	args := m.Called(ctx, userID, achievementType)
	return args.Bool(0), args.Error(1)
}

func (m *AchievementRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Achievement, error) {
	args := m.Called(ctx, userID)
	if a := args.Get(0); a != nil {
		return a.([]model.Achievement), args.Error(1)
	}
	return nil, args.Error(1)
}
