package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lifequest-server/internal/cache"
	"lifequest-server/internal/messaging"
	"lifequest-server/internal/model"
	"lifequest-server/internal/progression"
	"lifequest-server/internal/repository"
)

// ProgressSummary — снимок прогрессии пользователя для клиента.
type ProgressSummary struct {
	User        *model.User `json:"user"`
	LevelTitle  string      `json:"levelTitle"`
	XPProgress  float64     `json:"xpProgress"`
	NextLevelXP int         `json:"nextLevelXp"`
}

// ToggleResult — исход переключения рычага.
type ToggleResult struct {
	LeverID    uuid.UUID `json:"leverId"`
	Completed  bool      `json:"completed"`
	XPChange   int       `json:"xpChange"`
	NewTotalXP int       `json:"newTotalXp"`
	NewLevel   int       `json:"newLevel"`
	LeveledUp  bool      `json:"leveledUp"`
}

// DirectionCheckResult — исход ежедневной проверки направления.
type DirectionCheckResult struct {
	Log        *model.DailyLog `json:"log"`
	XPGained   int             `json:"xpGained"`
	NewStreak  int             `json:"newStreak"`
	NewTotalXP int             `json:"newTotalXp"`
	NewLevel   int             `json:"newLevel"`
	LeveledUp  bool            `json:"leveledUp"`
}

// ReflectionInput — данные еженедельной рефлексии.
type ReflectionInput struct {
	MostAlive       string
	MostDead        string
	PatternNoticed  string
	AntiVisionCheck bool
	LeversAdjusted  bool
	// ProjectProgress, если задан, прокидывается в активный босс-файт.
	ProjectProgress *int
}

// ReflectionResult — исход еженедельной рефлексии.
type ReflectionResult struct {
	Reflection *model.WeeklyReflection `json:"reflection"`
	XPGained   int                     `json:"xpGained"`
	NewTotalXP int                     `json:"newTotalXp"`
	NewLevel   int                     `json:"newLevel"`
	LeveledUp  bool                    `json:"leveledUp"`
}

// BossCompletionInput — закрытие месячного проекта и открытие следующего.
type BossCompletionInput struct {
	Defeated   bool
	Learnings  string
	NewProject string
	// Опциональные правки листа персонажа при смене проекта.
	Vision     *string
	AntiVision *string
}

// BossCompletionResult — исход завершения босс-файта.
type BossCompletionResult struct {
	ClosedBoss *model.BossFight `json:"closedBoss,omitempty"`
	NewBoss    *model.BossFight `json:"newBoss"`
	XPGained   int              `json:"xpGained"`
	NewTotalXP int              `json:"newTotalXp"`
	NewLevel   int              `json:"newLevel"`
	LeveledUp  bool             `json:"leveledUp"`
}

// OnboardingInput — данные первичной настройки аккаунта.
type OnboardingInput struct {
	AntiVision   string
	Vision       string
	YearGoal     string
	MonthProject string
	Constraints  string
	LeverTexts   []string
}

// QuestItem — элемент редактируемого списка рычагов. Элементы без ID
// создаются, остальные обновляются; отсутствующие в списке деактивируются.
type QuestItem struct {
	ID        *uuid.UUID
	LeverText string
	XPValue   int
	Position  int
}

// ProgressService — бизнес-операции прогрессии пользователя.
type ProgressService interface {
	GetProgress(ctx context.Context, userID uuid.UUID) (*ProgressSummary, error)
	Dashboard(ctx context.Context, userID uuid.UUID) (*model.Dashboard, error)
	FinalizeOnboarding(ctx context.Context, userID uuid.UUID, input OnboardingInput) error
	UpdateCharacterSheet(ctx context.Context, userID uuid.UUID, upd model.CharacterSheetUpdate) error
	ToggleLever(ctx context.Context, userID, leverID uuid.UUID) (*ToggleResult, error)
	SubmitDirectionCheck(ctx context.Context, userID uuid.UUID, direction model.Direction, comment string) (*DirectionCheckResult, error)
	EditQuestList(ctx context.Context, userID uuid.UUID, items []QuestItem) ([]model.DailyLever, error)
	CompleteWeeklyReflection(ctx context.Context, userID uuid.UUID, input ReflectionInput) (*ReflectionResult, error)
	CompleteBossFight(ctx context.Context, userID uuid.UUID, input BossCompletionInput) (*BossCompletionResult, error)
	UpdateBossProgress(ctx context.Context, userID uuid.UUID, progress int) error
	WeeklyLogs(ctx context.Context, userID uuid.UUID, days int) ([]model.DailyLog, error)
	ListReflections(ctx context.Context, userID uuid.UUID, weeks int) ([]model.WeeklyReflection, error)
	ListAchievements(ctx context.Context, userID uuid.UUID) ([]model.Achievement, error)
}

type progressService struct {
	users        repository.UserRepository
	sheets       repository.CharacterSheetRepository
	levers       repository.LeverRepository
	logs         repository.DailyLogRepository
	bosses       repository.BossFightRepository
	reflections  repository.ReflectionRepository
	achievements repository.AchievementRepository
	table        progression.Table
	// cache и publisher опциональны: nil-кэш и NoopPublisher выключают
	// соответствующую интеграцию без ветвлений в вызывающем коде.
	cache     cache.DashboardCache
	publisher messaging.ProgressEventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewProgressService создает сервис прогрессии.
func NewProgressService(
	users repository.UserRepository,
	sheets repository.CharacterSheetRepository,
	levers repository.LeverRepository,
	logs repository.DailyLogRepository,
	bosses repository.BossFightRepository,
	reflections repository.ReflectionRepository,
	achievements repository.AchievementRepository,
	table progression.Table,
	dashboardCache cache.DashboardCache,
	publisher messaging.ProgressEventPublisher,
	logger *zap.Logger,
) ProgressService {
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	return &progressService{
		users:        users,
		sheets:       sheets,
		levers:       levers,
		logs:         logs,
		bosses:       bosses,
		reflections:  reflections,
		achievements: achievements,
		table:        table,
		cache:        dashboardCache,
		publisher:    publisher,
		logger:       logger.Named("ProgressService"),
		now:          time.Now,
	}
}

// today возвращает текущую дату в UTC с обнуленным временем.
func (s *progressService) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// applyXP атомарно сдвигает total_xp, детектирует смену уровня и при апе
// разблокирует достижение и публикует событие. Сбои достижений и брокера
// не валят операцию: награда уже начислена.
func (s *progressService) applyXP(ctx context.Context, userID uuid.UUID, delta int) (newTotal, newLevel int, leveledUp bool, err error) {
	newTotal, newLevel, err = s.users.ApplyXPDelta(ctx, userID, delta, s.table.Level)
	if err != nil {
		return 0, 0, false, err
	}

	prevTotal := newTotal - delta
	if prevTotal < 0 {
		prevTotal = 0
	}
	leveledUp = newLevel > s.table.Level(prevTotal)

	if leveledUp {
		s.logger.Info("User leveled up",
			zap.Stringer("userID", userID), zap.Int("newLevel", newLevel), zap.Int("totalXP", newTotal))

		if _, aerr := s.achievements.Unlock(ctx, userID, fmt.Sprintf("level_%d", newLevel)); aerr != nil {
			s.logger.Warn("Failed to unlock level achievement", zap.Stringer("userID", userID), zap.Error(aerr))
		}

		event := messaging.ProgressEvent{
			UserID:    userID.String(),
			EventType: messaging.EventTypeLevelUp,
			XPDelta:   delta,
			TotalXP:   newTotal,
			NewLevel:  newLevel,
		}
		if perr := s.publisher.PublishProgressEvent(ctx, event); perr != nil {
			s.logger.Warn("Failed to publish level-up event", zap.Stringer("userID", userID), zap.Error(perr))
		}
	}

	return newTotal, newLevel, leveledUp, nil
}

// invalidateDashboard сбрасывает кэш главного экрана после мутации.
func (s *progressService) invalidateDashboard(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("Failed to invalidate dashboard cache", zap.Stringer("userID", userID), zap.Error(err))
	}
}
