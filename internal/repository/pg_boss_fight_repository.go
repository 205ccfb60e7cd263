package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"lifequest-server/internal/model"
)

// Compile-time check
var _ BossFightRepository = (*pgBossFightRepository)(nil)

type pgBossFightRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgBossFightRepository создает репозиторий босс-файтов.
func NewPgBossFightRepository(pool *pgxpool.Pool, logger *zap.Logger) BossFightRepository {
	return &pgBossFightRepository{
		pool:   pool,
		logger: logger.Named("PgBossFightRepo"),
	}
}

// getActiveBossQuery: при нескольких активных записях побеждает самая свежая.
const getActiveBossQuery = `
SELECT id, user_id, month_start, project_text, status, progress, loot_acquired,
       learnings, xp_gained, completed_at, created_at
FROM boss_fights
WHERE user_id = $1 AND status = 'active'
ORDER BY created_at DESC
LIMIT 1`

func (r *pgBossFightRepository) GetActive(ctx context.Context, userID uuid.UUID) (*model.BossFight, error) {
	bf := &model.BossFight{}
	var loot pq.StringArray

	err := r.pool.QueryRow(ctx, getActiveBossQuery, userID).Scan(
		&bf.ID, &bf.UserID, &bf.MonthStart, &bf.ProjectText, &bf.Status,
		&bf.Progress, &loot, &bf.Learnings, &bf.XPGained, &bf.CompletedAt, &bf.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		r.logger.Error("Failed to get active boss fight", zap.Stringer("userID", userID), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения активного босс-файта: %w", err)
	}
	bf.LootAcquired = []string(loot)
	return bf, nil
}

const closeStaleActiveQuery = `
UPDATE boss_fights
SET status = 'failed', completed_at = $2
WHERE user_id = $1 AND status = 'active'`

const createBossQuery = `
INSERT INTO boss_fights (id, user_id, month_start, project_text, status, progress, loot_acquired, learnings, xp_gained, created_at)
VALUES ($1, $2, $3, $4, 'active', 0, '{}', '', 0, $5)
RETURNING id, user_id, month_start, project_text, status, progress, loot_acquired,
          learnings, xp_gained, completed_at, created_at`

// Create закрывает любые залипшие активные записи и открывает новую в одной
// транзакции: инвариант "один активный босс-файт" держится close-before-open.
func (r *pgBossFightRepository) Create(ctx context.Context, userID uuid.UUID, projectText string, monthStart time.Time) (*model.BossFight, error) {
	logFields := []zap.Field{zap.Stringer("userID", userID), zap.Time("monthStart", monthStart)}
	now := time.Now().UTC()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия транзакции: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	tag, err := tx.Exec(ctx, closeStaleActiveQuery, userID, now)
	if err != nil {
		r.logger.Error("Failed to close stale active boss fights", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка закрытия активных босс-файтов: %w", err)
	}
	if tag.RowsAffected() > 0 {
		r.logger.Warn("Closed stale active boss fights before creating a new one",
			append(logFields, zap.Int64("closed", tag.RowsAffected()))...)
	}

	bf := &model.BossFight{}
	var loot pq.StringArray
	err = tx.QueryRow(ctx, createBossQuery, uuid.New(), userID, monthStart, projectText, now).Scan(
		&bf.ID, &bf.UserID, &bf.MonthStart, &bf.ProjectText, &bf.Status,
		&bf.Progress, &loot, &bf.Learnings, &bf.XPGained, &bf.CompletedAt, &bf.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create boss fight", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка создания босс-файта: %w", err)
	}
	bf.LootAcquired = []string(loot)

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}

	r.logger.Info("Boss fight created", append(logFields, zap.Stringer("bossID", bf.ID))...)
	return bf, nil
}

// completeBossQuery: прогресс становится 100 только при победе, при поражении
// остается каким был.
const completeBossQuery = `
UPDATE boss_fights
SET status = $2,
    progress = CASE WHEN $2 = 'defeated' THEN 100 ELSE progress END,
    learnings = $3,
    xp_gained = $4,
    completed_at = $5
WHERE id = $1 AND status = 'active'`

func (r *pgBossFightRepository) Complete(ctx context.Context, id uuid.UUID, defeated bool, learnings string, xpGained int) error {
	status := model.BossStatusFailed
	if defeated {
		status = model.BossStatusDefeated
	}
	logFields := []zap.Field{zap.Stringer("bossID", id), zap.String("status", string(status))}

	tag, err := r.pool.Exec(ctx, completeBossQuery, id, status, learnings, xpGained, time.Now().UTC())
	if err != nil {
		r.logger.Error("Failed to complete boss fight", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка завершения босс-файта %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to complete non-active boss fight", logFields...)
		return model.ErrNotFound
	}
	r.logger.Info("Boss fight completed", logFields...)
	return nil
}

const updateBossProgressQuery = `
UPDATE boss_fights
SET progress = $2
WHERE user_id = $1 AND status = 'active'`

func (r *pgBossFightRepository) UpdateProgress(ctx context.Context, userID uuid.UUID, progress int) error {
	tag, err := r.pool.Exec(ctx, updateBossProgressQuery, userID, progress)
	if err != nil {
		r.logger.Error("Failed to update boss fight progress",
			zap.Stringer("userID", userID), zap.Int("progress", progress), zap.Error(err))
		return fmt.Errorf("ошибка обновления прогресса босс-файта: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
