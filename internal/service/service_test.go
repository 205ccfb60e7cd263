package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cachemocks "lifequest-server/internal/cache/mocks"
	"lifequest-server/internal/messaging"
	msgmocks "lifequest-server/internal/messaging/mocks"
	"lifequest-server/internal/model"
	"lifequest-server/internal/progression"
	repomocks "lifequest-server/internal/repository/mocks"
)

type serviceMocks struct {
	users        *repomocks.UserRepository
	sheets       *repomocks.CharacterSheetRepository
	levers       *repomocks.LeverRepository
	logs         *repomocks.DailyLogRepository
	bosses       *repomocks.BossFightRepository
	reflections  *repomocks.ReflectionRepository
	achievements *repomocks.AchievementRepository
	publisher    *msgmocks.ProgressEventPublisher
}

func newTestService(t *testing.T) (*progressService, *serviceMocks) {
	t.Helper()
	m := &serviceMocks{
		users:        new(repomocks.UserRepository),
		sheets:       new(repomocks.CharacterSheetRepository),
		levers:       new(repomocks.LeverRepository),
		logs:         new(repomocks.DailyLogRepository),
		bosses:       new(repomocks.BossFightRepository),
		reflections:  new(repomocks.ReflectionRepository),
		achievements: new(repomocks.AchievementRepository),
		publisher:    new(msgmocks.ProgressEventPublisher),
	}
	svc := NewProgressService(
		m.users, m.sheets, m.levers, m.logs, m.bosses, m.reflections, m.achievements,
		progression.DefaultTable(), nil, m.publisher, zap.NewNop(),
	).(*progressService)
	// Фиксированное "сегодня", чтобы тесты не мигали на границе суток.
	svc.now = func() time.Time {
		return time.Date(2025, 6, 15, 13, 45, 0, 0, time.UTC)
	}
	return svc, m
}

func (m *serviceMocks) assertExpectations(t *testing.T) {
	t.Helper()
	m.users.AssertExpectations(t)
	m.sheets.AssertExpectations(t)
	m.levers.AssertExpectations(t)
	m.logs.AssertExpectations(t)
	m.bosses.AssertExpectations(t)
	m.reflections.AssertExpectations(t)
	m.achievements.AssertExpectations(t)
	m.publisher.AssertExpectations(t)
}

func TestToggleLever_CompletesAndAwardsXP(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	leverID := uuid.New()

	m.levers.On("GetByID", mock.Anything, leverID).Return(&model.DailyLever{
		ID: leverID, UserID: userID, LeverText: "Deep work", XPValue: 50, Active: true,
	}, nil)
	m.logs.On("ToggleLever", mock.Anything, userID, svc.today(), leverID, 50).Return(&model.DailyLog{
		UserID:          userID,
		LogDate:         svc.today(),
		LeversCompleted: []string{leverID.String()},
		XPGained:        50,
	}, true, nil)
	m.users.On("ApplyXPDelta", mock.Anything, userID, 50, mock.Anything).Return(150, 1, nil)

	result, err := svc.ToggleLever(ctx, userID, leverID)
	require.NoError(t, err)
	assert.True(t, result.Completed)
	assert.Equal(t, 50, result.XPChange)
	assert.Equal(t, 150, result.NewTotalXP)
	assert.Equal(t, 1, result.NewLevel)
	assert.False(t, result.LeveledUp)

	m.assertExpectations(t)
}

func TestToggleLever_UncompletesAndRevokesXP(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	leverID := uuid.New()

	m.levers.On("GetByID", mock.Anything, leverID).Return(&model.DailyLever{
		ID: leverID, UserID: userID, XPValue: 50, Active: true,
	}, nil)
	m.logs.On("ToggleLever", mock.Anything, userID, svc.today(), leverID, 50).Return(&model.DailyLog{
		UserID:          userID,
		LogDate:         svc.today(),
		LeversCompleted: []string{},
		XPGained:        0,
	}, false, nil)
	m.users.On("ApplyXPDelta", mock.Anything, userID, -50, mock.Anything).Return(100, 1, nil)

	result, err := svc.ToggleLever(ctx, userID, leverID)
	require.NoError(t, err)
	assert.False(t, result.Completed)
	assert.Equal(t, -50, result.XPChange)

	m.assertExpectations(t)
}

func TestToggleLever_ForeignLeverLooksMissing(t *testing.T) {
	svc, m := newTestService(t)
	leverID := uuid.New()

	m.levers.On("GetByID", mock.Anything, leverID).Return(&model.DailyLever{
		ID: leverID, UserID: uuid.New(), Active: true,
	}, nil)

	_, err := svc.ToggleLever(context.Background(), uuid.New(), leverID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestToggleLever_InactiveLever(t *testing.T) {
	svc, m := newTestService(t)
	userID := uuid.New()
	leverID := uuid.New()

	m.levers.On("GetByID", mock.Anything, leverID).Return(&model.DailyLever{
		ID: leverID, UserID: userID, Active: false,
	}, nil)

	_, err := svc.ToggleLever(context.Background(), userID, leverID)
	assert.ErrorIs(t, err, ErrLeverInactive)
}

func TestSubmitDirectionCheck_VisionAwardsXPAndStreak(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	m.logs.On("SetDirection", mock.Anything, userID, svc.today(),
		model.DirectionVision, "shipped the draft", XPRewardDirectionCheck).
		Return(&model.DailyLog{UserID: userID, XPGained: XPRewardDirectionCheck}, nil)
	m.users.On("ApplyStreakDelta", mock.Anything, userID, 1).Return(4, nil)
	m.users.On("ApplyXPDelta", mock.Anything, userID, XPRewardDirectionCheck, mock.Anything).Return(300, 1, nil)

	result, err := svc.SubmitDirectionCheck(ctx, userID, model.DirectionVision, "shipped the draft")
	require.NoError(t, err)
	assert.Equal(t, XPRewardDirectionCheck, result.XPGained)
	assert.Equal(t, 4, result.NewStreak)
	assert.Equal(t, 300, result.NewTotalXP)

	m.assertExpectations(t)
}

func TestSubmitDirectionCheck_HateKeepsStreakAndXP(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	m.logs.On("SetDirection", mock.Anything, userID, svc.today(),
		model.DirectionHate, "avoided it all day", 0).
		Return(&model.DailyLog{UserID: userID}, nil)
	m.users.On("GetByID", mock.Anything, userID).Return(&model.User{
		ID: userID, TotalXP: 700, CurrentLevel: 2, CurrentStreak: 4,
	}, nil)

	result, err := svc.SubmitDirectionCheck(ctx, userID, model.DirectionHate, "avoided it all day")
	require.NoError(t, err)
	assert.Zero(t, result.XPGained)
	assert.Equal(t, 4, result.NewStreak)
	assert.Equal(t, 700, result.NewTotalXP)

	m.users.AssertNotCalled(t, "ApplyStreakDelta", mock.Anything, mock.Anything, mock.Anything)
	m.users.AssertNotCalled(t, "ApplyXPDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestSubmitDirectionCheck_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.SubmitDirectionCheck(ctx, userID, model.Direction("maybe"), "comment")
	assert.ErrorIs(t, err, ErrInvalidDirection)

	_, err = svc.SubmitDirectionCheck(ctx, userID, model.DirectionVision, "   ")
	assert.ErrorIs(t, err, ErrCommentRequired)
}

func TestSubmitDirectionCheck_LevelUpUnlocksAchievement(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	m.logs.On("SetDirection", mock.Anything, userID, svc.today(),
		model.DirectionVision, "kept the promise", XPRewardDirectionCheck).
		Return(&model.DailyLog{UserID: userID}, nil)
	m.users.On("ApplyStreakDelta", mock.Anything, userID, 1).Return(10, nil)
	// 450 + 50 = 500 — порог второго уровня включительно.
	m.users.On("ApplyXPDelta", mock.Anything, userID, 50, mock.Anything).Return(500, 2, nil)
	m.achievements.On("Unlock", mock.Anything, userID, "level_2").Return(true, nil)
	m.publisher.On("PublishProgressEvent", mock.Anything, mock.MatchedBy(func(e messaging.ProgressEvent) bool {
		return e.EventType == messaging.EventTypeLevelUp && e.NewLevel == 2 && e.TotalXP == 500
	})).Return(nil).Once()

	result, err := svc.SubmitDirectionCheck(ctx, userID, model.DirectionVision, "kept the promise")
	require.NoError(t, err)
	assert.True(t, result.LeveledUp)
	assert.Equal(t, 2, result.NewLevel)

	m.assertExpectations(t)
}

func TestCompleteWeeklyReflection(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	progress := 60

	m.reflections.On("Create", mock.Anything, mock.MatchedBy(func(r *model.WeeklyReflection) bool {
		return r.UserID == userID && r.MostAlive == "morning writing" && r.ProjectProgress == 60
	})).Return(nil)
	m.bosses.On("UpdateProgress", mock.Anything, userID, 60).Return(nil)
	m.users.On("ApplyXPDelta", mock.Anything, userID, XPRewardWeeklyReflection, mock.Anything).Return(900, 2, nil)

	result, err := svc.CompleteWeeklyReflection(ctx, userID, ReflectionInput{
		MostAlive:       "morning writing",
		MostDead:        "evening scrolling",
		PatternNoticed:  "energy follows sleep",
		AntiVisionCheck: true,
		LeversAdjusted:  false,
		ProjectProgress: &progress,
	})
	require.NoError(t, err)
	assert.Equal(t, XPRewardWeeklyReflection, result.XPGained)
	assert.Equal(t, 900, result.NewTotalXP)

	m.assertExpectations(t)
}

func TestCompleteWeeklyReflection_InvalidProgress(t *testing.T) {
	svc, _ := newTestService(t)
	progress := 150

	_, err := svc.CompleteWeeklyReflection(context.Background(), uuid.New(), ReflectionInput{
		ProjectProgress: &progress,
	})
	assert.ErrorIs(t, err, ErrInvalidProgress)
}

func TestCompleteBossFight_Defeated(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	bossID := uuid.New()

	m.bosses.On("GetActive", mock.Anything, userID).Return(&model.BossFight{
		ID: bossID, UserID: userID, ProjectText: "Launch the course", Status: model.BossStatusActive,
	}, nil)
	m.bosses.On("Complete", mock.Anything, bossID, true, "scope smaller next time", XPRewardBossDefeated).Return(nil)
	m.users.On("ApplyXPDelta", mock.Anything, userID, XPRewardBossDefeated, mock.Anything).Return(2000, 3, nil)
	m.achievements.On("Unlock", mock.Anything, userID, "level_3").Return(true, nil)
	m.publisher.On("PublishProgressEvent", mock.Anything, mock.Anything).Return(nil).Twice()
	m.bosses.On("Create", mock.Anything, userID, "Record the podcast", svc.today()).Return(&model.BossFight{
		ID: uuid.New(), UserID: userID, ProjectText: "Record the podcast", Status: model.BossStatusActive,
	}, nil)
	m.sheets.On("Update", mock.Anything, userID, mock.MatchedBy(func(u model.CharacterSheetUpdate) bool {
		return u.MonthProject != nil && *u.MonthProject == "Record the podcast"
	})).Return(nil)

	result, err := svc.CompleteBossFight(ctx, userID, BossCompletionInput{
		Defeated:   true,
		Learnings:  "scope smaller next time",
		NewProject: "Record the podcast",
	})
	require.NoError(t, err)
	assert.Equal(t, XPRewardBossDefeated, result.XPGained)
	assert.Equal(t, "Record the podcast", result.NewBoss.ProjectText)
	assert.NotNil(t, result.ClosedBoss)
	assert.True(t, result.LeveledUp)

	m.assertExpectations(t)
}

func TestCompleteBossFight_FailedConsolationXP(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	bossID := uuid.New()

	m.bosses.On("GetActive", mock.Anything, userID).Return(&model.BossFight{
		ID: bossID, UserID: userID, Status: model.BossStatusActive,
	}, nil)
	m.bosses.On("Complete", mock.Anything, bossID, false, "", XPRewardBossFailed).Return(nil)
	m.users.On("ApplyXPDelta", mock.Anything, userID, XPRewardBossFailed, mock.Anything).Return(1000, 2, nil)
	m.publisher.On("PublishProgressEvent", mock.Anything, mock.Anything).Return(nil).Once()
	m.bosses.On("Create", mock.Anything, userID, "Try again, smaller", svc.today()).
		Return(&model.BossFight{ID: uuid.New(), UserID: userID}, nil)
	m.sheets.On("Update", mock.Anything, userID, mock.Anything).Return(nil)

	result, err := svc.CompleteBossFight(ctx, userID, BossCompletionInput{
		Defeated:   false,
		NewProject: "Try again, smaller",
	})
	require.NoError(t, err)
	assert.Equal(t, XPRewardBossFailed, result.XPGained)
	assert.False(t, result.LeveledUp)

	m.assertExpectations(t)
}

func TestCompleteBossFight_NoActiveBoss(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	m.bosses.On("GetActive", mock.Anything, userID).Return(nil, model.ErrNotFound)
	m.bosses.On("Create", mock.Anything, userID, "Fresh start", svc.today()).
		Return(&model.BossFight{ID: uuid.New(), UserID: userID}, nil)
	m.sheets.On("Update", mock.Anything, userID, mock.Anything).Return(nil)

	result, err := svc.CompleteBossFight(ctx, userID, BossCompletionInput{
		Defeated:   true,
		NewProject: "Fresh start",
	})
	require.NoError(t, err)
	assert.Zero(t, result.XPGained)
	assert.Nil(t, result.ClosedBoss)

	m.users.AssertNotCalled(t, "ApplyXPDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestCompleteBossFight_ProjectRequired(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CompleteBossFight(context.Background(), uuid.New(), BossCompletionInput{Defeated: true})
	assert.ErrorIs(t, err, ErrProjectRequired)
}

func TestFinalizeOnboarding_CapsLevers(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	texts := make([]string, 0, 13)
	for i := 0; i < 12; i++ {
		texts = append(texts, "lever")
	}
	texts = append(texts, "   ") // пустые строки отбрасываются

	m.users.On("EnsureExists", mock.Anything, userID).Return(&model.User{ID: userID}, nil)
	m.sheets.On("Create", mock.Anything, mock.MatchedBy(func(s *model.CharacterSheet) bool {
		return s.UserID == userID && s.MonthProject == "First project"
	})).Return(nil)
	m.levers.On("CreateBatch", mock.Anything, mock.MatchedBy(func(levers []model.DailyLever) bool {
		if len(levers) != MaxOnboardingLevers {
			return false
		}
		for i, l := range levers {
			if l.Position != i || l.XPValue != DefaultLeverXP || !l.Active {
				return false
			}
		}
		return true
	})).Return(nil)
	m.bosses.On("Create", mock.Anything, userID, "First project", svc.today()).
		Return(&model.BossFight{ID: uuid.New()}, nil)

	err := svc.FinalizeOnboarding(ctx, userID, OnboardingInput{
		Vision:       "calm focused life",
		AntiVision:   "drifting",
		MonthProject: "First project",
		LeverTexts:   texts,
	})
	require.NoError(t, err)
	m.assertExpectations(t)
}

func TestEditQuestList(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()
	keepID := uuid.New()
	dropID := uuid.New()

	m.levers.On("ListActive", mock.Anything, userID).Return([]model.DailyLever{
		{ID: keepID, UserID: userID, LeverText: "Old text"},
		{ID: dropID, UserID: userID, LeverText: "To remove"},
	}, nil).Once()
	m.levers.On("Update", mock.Anything, mock.MatchedBy(func(l *model.DailyLever) bool {
		return l.ID == keepID && l.UserID == userID && l.LeverText == "New text" && l.Position == 0
	})).Return(nil)
	m.levers.On("Deactivate", mock.Anything, userID, []uuid.UUID{dropID}).Return(nil)
	m.levers.On("CreateBatch", mock.Anything, mock.MatchedBy(func(levers []model.DailyLever) bool {
		return len(levers) == 1 && levers[0].LeverText == "Brand new" && levers[0].XPValue == DefaultLeverXP
	})).Return(nil)
	m.levers.On("ListActive", mock.Anything, userID).Return([]model.DailyLever{
		{ID: keepID}, {ID: uuid.New()},
	}, nil).Once()

	result, err := svc.EditQuestList(ctx, userID, []QuestItem{
		{ID: &keepID, LeverText: "New text", XPValue: 75},
		{LeverText: "Brand new"},
	})
	require.NoError(t, err)
	assert.Len(t, result, 2)

	m.assertExpectations(t)
}

func TestEditQuestList_ForeignLeverRejected(t *testing.T) {
	svc, m := newTestService(t)
	userID := uuid.New()
	foreignID := uuid.New()

	m.levers.On("ListActive", mock.Anything, userID).Return([]model.DailyLever{}, nil).Once()
	// Обновление всегда идет от имени вызывающего: чужой ID не находит
	// строку и выглядит как несуществующий.
	m.levers.On("Update", mock.Anything, mock.MatchedBy(func(l *model.DailyLever) bool {
		return l.ID == foreignID && l.UserID == userID
	})).Return(model.ErrNotFound)

	_, err := svc.EditQuestList(context.Background(), userID, []QuestItem{
		{ID: &foreignID, LeverText: "Not mine"},
	})
	assert.ErrorIs(t, err, model.ErrNotFound)

	m.levers.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	m.levers.AssertNotCalled(t, "Deactivate", mock.Anything, mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestEditQuestList_Empty(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.EditQuestList(context.Background(), uuid.New(), nil)
	assert.ErrorIs(t, err, ErrEmptyQuestList)
}

func TestGetProgress(t *testing.T) {
	svc, m := newTestService(t)
	userID := uuid.New()

	m.users.On("EnsureExists", mock.Anything, userID).Return(&model.User{
		ID: userID, TotalXP: 1000, CurrentLevel: 2,
	}, nil)

	summary, err := svc.GetProgress(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "Self-Aware", summary.LevelTitle)
	assert.Equal(t, 1500, summary.NextLevelXP)
	assert.InDelta(t, 50.0, summary.XPProgress, 0.01)
}

func TestDashboard_AssemblesAggregate(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	m.users.On("EnsureExists", mock.Anything, userID).Return(&model.User{ID: userID, TotalXP: 700, CurrentLevel: 2}, nil)
	m.sheets.On("GetByUserID", mock.Anything, userID).Return(nil, model.ErrNotFound)
	m.levers.On("ListActive", mock.Anything, userID).Return([]model.DailyLever{{ID: uuid.New()}}, nil)
	m.bosses.On("GetActive", mock.Anything, userID).Return(nil, model.ErrNotFound)
	m.logs.On("GetByDate", mock.Anything, userID, svc.today()).Return(nil, model.ErrNotFound)

	d, err := svc.Dashboard(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, d.User.ID)
	assert.Nil(t, d.Sheet)
	assert.Nil(t, d.ActiveBoss)
	assert.Nil(t, d.TodayLog)
	assert.Len(t, d.Levers, 1)

	m.assertExpectations(t)
}

func TestDashboard_CacheHitSkipsRepositories(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	dashCache := new(cachemocks.DashboardCache)
	svc.cache = dashCache
	cached := &model.Dashboard{User: &model.User{ID: userID}}
	dashCache.On("Get", mock.Anything, userID).Return(cached, nil)

	d, err := svc.Dashboard(ctx, userID)
	require.NoError(t, err)
	assert.Same(t, cached, d)

	m.users.AssertNotCalled(t, "EnsureExists", mock.Anything, mock.Anything)
	dashCache.AssertExpectations(t)
}

func TestWeeklyLogs_DefaultWindow(t *testing.T) {
	svc, m := newTestService(t)
	userID := uuid.New()
	since := svc.today().AddDate(0, 0, -6)

	m.logs.On("ListSince", mock.Anything, userID, since).Return([]model.DailyLog{}, nil)

	_, err := svc.WeeklyLogs(context.Background(), userID, 0)
	require.NoError(t, err)
	m.assertExpectations(t)
}
