package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"lifequest-server/internal/model"
)

// DBTX — минимальный интерфейс исполнителя запросов: подходит и *pgxpool.Pool,
// и pgx.Tx, что позволяет выполнять методы репозитория внутри транзакции.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// LevelFunc выводит уровень из накопленного количества XP.
// Передается в ApplyXPDelta, чтобы репозиторий не зависел от таблицы порогов.
type LevelFunc func(totalXP int) int

// UserRepository работает с записями прогресса пользователей.
type UserRepository interface {
	// GetByID возвращает пользователя или model.ErrNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// EnsureExists создает запись с нулевым прогрессом, если ее еще нет,
	// и возвращает актуальное состояние.
	EnsureExists(ctx context.Context, id uuid.UUID) (*model.User, error)
	// ApplyXPDelta атомарно прибавляет delta (может быть отрицательной) к
	// total_xp, не давая ему уйти ниже нуля, пересчитывает уровень через
	// levelFor и персистит его в той же транзакции.
	ApplyXPDelta(ctx context.Context, id uuid.UUID, delta int, levelFor LevelFunc) (newTotal, newLevel int, err error)
	// ApplyStreakDelta атомарно сдвигает текущий стрик и поддерживает
	// longest_streak как верхнюю отметку.
	ApplyStreakDelta(ctx context.Context, id uuid.UUID, delta int) (newStreak int, err error)
}

// CharacterSheetRepository — лист персонажа (не более одного на пользователя).
type CharacterSheetRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.CharacterSheet, error)
	Create(ctx context.Context, sheet *model.CharacterSheet) error
	// Update применяет частичное обновление; nil-поля не трогаются.
	Update(ctx context.Context, userID uuid.UUID, upd model.CharacterSheetUpdate) error
}

// LeverRepository — ежедневные рычаги ("квесты").
type LeverRepository interface {
	// ListActive возвращает активные рычаги пользователя по возрастанию позиции.
	ListActive(ctx context.Context, userID uuid.UUID) ([]model.DailyLever, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.DailyLever, error)
	CreateBatch(ctx context.Context, levers []model.DailyLever) error
	// Update обновляет рычаг в пределах владельца (lever.UserID) и
	// возвращает его в активное состояние; чужой или несуществующий ID
	// дает model.ErrNotFound.
	Update(ctx context.Context, lever *model.DailyLever) error
	// Deactivate — мягкое удаление: active=false, записи сохраняются.
	Deactivate(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error
}

// DailyLogRepository — дневные логи, один на (пользователь, дата).
type DailyLogRepository interface {
	// GetByDate возвращает лог за дату или model.ErrNotFound.
	GetByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*model.DailyLog, error)
	// ToggleLever атомарно переключает отметку рычага в логе за date:
	// состав levers_completed и счетчик xp_gained меняются одним запросом,
	// относительно текущей строки. Возвращает обновленный лог и признак
	// "рычаг теперь отмечен". Уникальность (user_id, log_date) гарантирует
	// ограничение в БД.
	ToggleLever(ctx context.Context, userID uuid.UUID, date time.Time, leverID uuid.UUID, xpValue int) (*model.DailyLog, bool, error)
	// SetDirection записывает направление дня и комментарий, прибавляя
	// xpDelta к счетчику xp_gained; отметки рычагов не трогаются.
	SetDirection(ctx context.Context, userID uuid.UUID, date time.Time, direction model.Direction, comment string, xpDelta int) (*model.DailyLog, error)
	// ListSince возвращает логи от даты since включительно, новые первыми.
	ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]model.DailyLog, error)
}

// BossFightRepository — месячные босс-файты.
type BossFightRepository interface {
	// GetActive возвращает самый свежий активный босс-файт или model.ErrNotFound.
	GetActive(ctx context.Context, userID uuid.UUID) (*model.BossFight, error)
	// Create закрывает залипшие активные записи и открывает новую в одной
	// транзакции, поддерживая инвариант "не больше одного активного".
	Create(ctx context.Context, userID uuid.UUID, projectText string, monthStart time.Time) (*model.BossFight, error)
	// Complete переводит активный босс-файт в defeated/failed, выставляет
	// прогресс 100 при победе, сохраняет выводы и начисленный XP.
	Complete(ctx context.Context, id uuid.UUID, defeated bool, learnings string, xpGained int) error
	// UpdateProgress обновляет процент прогресса активного босс-файта.
	UpdateProgress(ctx context.Context, userID uuid.UUID, progress int) error
}

// ReflectionRepository — еженедельные рефлексии, только добавление.
type ReflectionRepository interface {
	Create(ctx context.Context, r *model.WeeklyReflection) error
	ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]model.WeeklyReflection, error)
}

// AchievementRepository — достижения пользователя.
type AchievementRepository interface {
	// Unlock идемпотентно добавляет достижение; возвращает true, если оно
	// было разблокировано впервые.
	Unlock(ctx context.Context, userID uuid.UUID, achievementType string) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Achievement, error)
}
