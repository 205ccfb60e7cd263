package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"lifequest-server/internal/database"
	"lifequest-server/internal/model"
	"lifequest-server/internal/progression"
	"lifequest-server/internal/repository"
)

// RepositoryTestSuite поднимает PostgreSQL в контейнере и гоняет
// репозитории против настоящей схемы.
type RepositoryTestSuite struct {
	suite.Suite
	ctx         context.Context
	pgContainer *postgres.PostgresContainer
	pgPool      *pgxpool.Pool
	logger      *zap.Logger

	users        repository.UserRepository
	sheets       repository.CharacterSheetRepository
	levers       repository.LeverRepository
	logs         repository.DailyLogRepository
	bosses       repository.BossFightRepository
	reflections  repository.ReflectionRepository
	achievements repository.AchievementRepository

	table progression.Table
}

func (s *RepositoryTestSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error

	s.logger, err = zap.NewDevelopment()
	require.NoError(s.T(), err, "Failed to create logger for tests")

	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
	)
	require.NoError(s.T(), err, "Failed to start postgres container")

	pgConnStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get postgres connection string")

	s.pgPool, err = pgxpool.New(s.ctx, pgConnStr)
	require.NoError(s.T(), err, "Failed to connect to test postgres")

	require.NoError(s.T(), database.NewMigrator(s.pgPool, s.logger).Up(s.ctx), "Failed to run migrations")

	s.users = repository.NewPgUserRepository(s.pgPool, s.logger)
	s.sheets = repository.NewPgCharacterSheetRepository(s.pgPool, s.logger)
	s.levers = repository.NewPgLeverRepository(s.pgPool, s.logger)
	s.logs = repository.NewPgDailyLogRepository(s.pgPool, s.logger)
	s.bosses = repository.NewPgBossFightRepository(s.pgPool, s.logger)
	s.reflections = repository.NewPgReflectionRepository(s.pgPool, s.logger)
	s.achievements = repository.NewPgAchievementRepository(s.pgPool, s.logger)
	s.table = progression.DefaultTable()
}

func (s *RepositoryTestSuite) TearDownSuite() {
	if s.pgPool != nil {
		s.pgPool.Close()
	}
	if s.pgContainer != nil {
		_ = s.pgContainer.Terminate(s.ctx)
	}
	_ = s.logger.Sync()
}

func (s *RepositoryTestSuite) newUser() uuid.UUID {
	id := uuid.New()
	_, err := s.users.EnsureExists(s.ctx, id)
	require.NoError(s.T(), err)
	return id
}

func (s *RepositoryTestSuite) TestEnsureExistsIdempotent() {
	id := uuid.New()

	first, err := s.users.EnsureExists(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(0, first.TotalXP)
	s.Equal(1, first.CurrentLevel)

	_, _, err = s.users.ApplyXPDelta(s.ctx, id, 300, s.table.Level)
	s.Require().NoError(err)

	// Повторный вызов не сбрасывает накопленный прогресс.
	second, err := s.users.EnsureExists(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(300, second.TotalXP)
}

func (s *RepositoryTestSuite) TestApplyXPDeltaPersistsLevel() {
	id := s.newUser()

	total, level, err := s.users.ApplyXPDelta(s.ctx, id, 450, s.table.Level)
	s.Require().NoError(err)
	s.Equal(450, total)
	s.Equal(1, level)

	// 450 + 50 = 500 — ровно порог второго уровня.
	total, level, err = s.users.ApplyXPDelta(s.ctx, id, 50, s.table.Level)
	s.Require().NoError(err)
	s.Equal(500, total)
	s.Equal(2, level)

	user, err := s.users.GetByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(2, user.CurrentLevel)
}

func (s *RepositoryTestSuite) TestApplyXPDeltaClampsAtZero() {
	id := s.newUser()

	_, _, err := s.users.ApplyXPDelta(s.ctx, id, 100, s.table.Level)
	s.Require().NoError(err)

	total, level, err := s.users.ApplyXPDelta(s.ctx, id, -500, s.table.Level)
	s.Require().NoError(err)
	s.Equal(0, total)
	s.Equal(1, level)
}

func (s *RepositoryTestSuite) TestApplyStreakDeltaKeepsWatermark() {
	id := s.newUser()

	for i := 0; i < 3; i++ {
		_, err := s.users.ApplyStreakDelta(s.ctx, id, 1)
		s.Require().NoError(err)
	}

	streak, err := s.users.ApplyStreakDelta(s.ctx, id, -2)
	s.Require().NoError(err)
	s.Equal(1, streak)

	user, err := s.users.GetByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(3, user.LongestStreak)
}

func (s *RepositoryTestSuite) TestDailyLogSingleRowPerDay() {
	id := s.newUser()
	day := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	leverID := uuid.New()

	first, err := s.logs.SetDirection(s.ctx, id, day, model.DirectionVision, "good day", 50)
	s.Require().NoError(err)

	second, completed, err := s.logs.ToggleLever(s.ctx, id, day, leverID, 50)
	s.Require().NoError(err)
	s.True(completed)

	// Та же строка, а не дубликат; направление переключение не трогает.
	s.Equal(first.ID, second.ID)
	s.Require().NotNil(second.Direction)
	s.Equal(model.DirectionVision, *second.Direction)
	s.Equal([]string{leverID.String()}, second.LeversCompleted)
	s.Equal(100, second.XPGained)

	fetched, err := s.logs.GetByDate(s.ctx, id, day)
	s.Require().NoError(err)
	s.Equal(second.ID, fetched.ID)
}

func (s *RepositoryTestSuite) TestDailyLogToggleAppliesRelativeDeltas() {
	id := s.newUser()
	day := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	leverA := uuid.New()
	leverB := uuid.New()

	_, completed, err := s.logs.ToggleLever(s.ctx, id, day, leverA, 50)
	s.Require().NoError(err)
	s.True(completed)

	// Второй рычаг дописывается к существующему набору: счетчик и массив
	// меняются относительно строки, а не перезаписываются целиком.
	log, completed, err := s.logs.ToggleLever(s.ctx, id, day, leverB, 50)
	s.Require().NoError(err)
	s.True(completed)
	s.ElementsMatch([]string{leverA.String(), leverB.String()}, log.LeversCompleted)
	s.Equal(100, log.XPGained)

	// Повторное переключение снимает только свой рычаг и свой вклад в XP.
	log, completed, err = s.logs.ToggleLever(s.ctx, id, day, leverA, 50)
	s.Require().NoError(err)
	s.False(completed)
	s.Equal([]string{leverB.String()}, log.LeversCompleted)
	s.Equal(50, log.XPGained)
}

func (s *RepositoryTestSuite) TestDailyLogDirectionAddsToToggledXP() {
	id := s.newUser()
	day := time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC)
	leverID := uuid.New()

	_, _, err := s.logs.ToggleLever(s.ctx, id, day, leverID, 50)
	s.Require().NoError(err)

	log, err := s.logs.SetDirection(s.ctx, id, day, model.DirectionVision, "stayed on course", 50)
	s.Require().NoError(err)
	s.Equal([]string{leverID.String()}, log.LeversCompleted)
	s.Equal(100, log.XPGained)
}

func (s *RepositoryTestSuite) TestBossCreateClosesStaleActive() {
	id := s.newUser()
	monthStart := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	first, err := s.bosses.Create(s.ctx, id, "First project", monthStart)
	s.Require().NoError(err)
	s.Equal(model.BossStatusActive, first.Status)

	second, err := s.bosses.Create(s.ctx, id, "Second project", monthStart.AddDate(0, 1, 0))
	s.Require().NoError(err)

	active, err := s.bosses.GetActive(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(second.ID, active.ID)
}

func (s *RepositoryTestSuite) TestBossCompleteDefeatedSetsFullProgress() {
	id := s.newUser()

	boss, err := s.bosses.Create(s.ctx, id, "Project", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(err)

	s.Require().NoError(s.bosses.UpdateProgress(s.ctx, id, 40))
	s.Require().NoError(s.bosses.Complete(s.ctx, boss.ID, true, "done", 1000))

	_, err = s.bosses.GetActive(s.ctx, id)
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *RepositoryTestSuite) TestLeverLifecycle() {
	id := s.newUser()

	batch := []model.DailyLever{
		{UserID: id, LeverText: "Deep work", XPValue: 50, Position: 0, Active: true},
		{UserID: id, LeverText: "Gym", XPValue: 50, Position: 1, Active: true},
	}
	s.Require().NoError(s.levers.CreateBatch(s.ctx, batch))

	active, err := s.levers.ListActive(s.ctx, id)
	s.Require().NoError(err)
	s.Require().Len(active, 2)
	s.Equal("Deep work", active[0].LeverText)

	gymID := active[1].ID
	s.Require().NoError(s.levers.Deactivate(s.ctx, id, []uuid.UUID{gymID}))

	active, err = s.levers.ListActive(s.ctx, id)
	s.Require().NoError(err)
	s.Require().Len(active, 1)
	s.Equal("Deep work", active[0].LeverText)

	// Деактивированный рычаг остается читаемым по ID ради истории в логах.
	deactivated, err := s.levers.GetByID(s.ctx, gymID)
	s.Require().NoError(err)
	s.False(deactivated.Active)
}

func (s *RepositoryTestSuite) TestLeverUpdateScopedToOwner() {
	owner := s.newUser()
	attacker := s.newUser()

	batch := []model.DailyLever{
		{UserID: owner, LeverText: "Morning pages", XPValue: 50, Position: 0, Active: true},
	}
	s.Require().NoError(s.levers.CreateBatch(s.ctx, batch))

	levers, err := s.levers.ListActive(s.ctx, owner)
	s.Require().NoError(err)
	s.Require().Len(levers, 1)

	// Попытка переписать чужой рычаг по известному ID не находит строку.
	err = s.levers.Update(s.ctx, &model.DailyLever{
		ID:        levers[0].ID,
		UserID:    attacker,
		LeverText: "hijacked",
		XPValue:   999,
		Position:  0,
	})
	s.ErrorIs(err, model.ErrNotFound)

	untouched, err := s.levers.GetByID(s.ctx, levers[0].ID)
	s.Require().NoError(err)
	s.Equal("Morning pages", untouched.LeverText)
	s.Equal(50, untouched.XPValue)
}

func (s *RepositoryTestSuite) TestLeverUpdateReactivates() {
	id := s.newUser()

	batch := []model.DailyLever{
		{UserID: id, LeverText: "Stretching", XPValue: 50, Position: 0, Active: true},
	}
	s.Require().NoError(s.levers.CreateBatch(s.ctx, batch))

	levers, err := s.levers.ListActive(s.ctx, id)
	s.Require().NoError(err)
	leverID := levers[0].ID

	s.Require().NoError(s.levers.Deactivate(s.ctx, id, []uuid.UUID{leverID}))

	// Повторная отправка того же ID в списке квестов возвращает рычаг в строй.
	s.Require().NoError(s.levers.Update(s.ctx, &model.DailyLever{
		ID:        leverID,
		UserID:    id,
		LeverText: "Stretching, longer",
		XPValue:   50,
		Position:  0,
	}))

	active, err := s.levers.ListActive(s.ctx, id)
	s.Require().NoError(err)
	s.Require().Len(active, 1)
	s.Equal(leverID, active[0].ID)
	s.Equal("Stretching, longer", active[0].LeverText)
	s.True(active[0].Active)
}

func (s *RepositoryTestSuite) TestAchievementUnlockIdempotent() {
	id := s.newUser()

	unlocked, err := s.achievements.Unlock(s.ctx, id, "level_2")
	s.Require().NoError(err)
	s.True(unlocked)

	unlocked, err = s.achievements.Unlock(s.ctx, id, "level_2")
	s.Require().NoError(err)
	s.False(unlocked)

	list, err := s.achievements.ListByUser(s.ctx, id)
	s.Require().NoError(err)
	s.Len(list, 1)
}

func (s *RepositoryTestSuite) TestCharacterSheetPartialUpdate() {
	id := s.newUser()

	s.Require().NoError(s.sheets.Create(s.ctx, &model.CharacterSheet{
		UserID:       id,
		Vision:       "calm focused life",
		MonthProject: "First project",
	}))

	newProject := "Second project"
	s.Require().NoError(s.sheets.Update(s.ctx, id, model.CharacterSheetUpdate{
		MonthProject: &newProject,
	}))

	sheet, err := s.sheets.GetByUserID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("Second project", sheet.MonthProject)
	s.Equal("calm focused life", sheet.Vision)
}

func (s *RepositoryTestSuite) TestReflectionAppendAndList() {
	id := s.newUser()

	s.Require().NoError(s.reflections.Create(s.ctx, &model.WeeklyReflection{
		UserID:          id,
		WeekStart:       time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
		MostAlive:       "shipping",
		ProjectProgress: 30,
	}))

	list, err := s.reflections.ListSince(s.ctx, id, time.Now().UTC().Add(-24*time.Hour))
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal("shipping", list[0].MostAlive)
}

func TestRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(RepositoryTestSuite))
}
