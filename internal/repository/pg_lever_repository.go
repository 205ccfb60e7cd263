package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"lifequest-server/internal/model"
)

// Compile-time check
var _ LeverRepository = (*pgLeverRepository)(nil)

type pgLeverRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgLeverRepository создает репозиторий ежедневных рычагов.
func NewPgLeverRepository(pool *pgxpool.Pool, logger *zap.Logger) LeverRepository {
	return &pgLeverRepository{
		pool:   pool,
		logger: logger.Named("PgLeverRepo"),
	}
}

const listActiveLeversQuery = `
SELECT id, user_id, lever_text, xp_value, position, active, created_at
FROM daily_levers
WHERE user_id = $1 AND active = TRUE
ORDER BY position ASC`

func (r *pgLeverRepository) ListActive(ctx context.Context, userID uuid.UUID) ([]model.DailyLever, error) {
	rows, err := r.pool.Query(ctx, listActiveLeversQuery, userID)
	if err != nil {
		r.logger.Error("Failed to list active levers", zap.Stringer("userID", userID), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения активных рычагов: %w", err)
	}
	defer rows.Close()

	levers := make([]model.DailyLever, 0)
	for rows.Next() {
		var l model.DailyLever
		if err := rows.Scan(&l.ID, &l.UserID, &l.LeverText, &l.XPValue, &l.Position, &l.Active, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка чтения рычага: %w", err)
		}
		levers = append(levers, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обхода рычагов: %w", err)
	}
	return levers, nil
}

const getLeverQuery = `
SELECT id, user_id, lever_text, xp_value, position, active, created_at
FROM daily_levers
WHERE id = $1`

func (r *pgLeverRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.DailyLever, error) {
	l := &model.DailyLever{}
	err := r.pool.QueryRow(ctx, getLeverQuery, id).Scan(
		&l.ID, &l.UserID, &l.LeverText, &l.XPValue, &l.Position, &l.Active, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		r.logger.Error("Failed to get lever", zap.Stringer("leverID", id), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения рычага %s: %w", id, err)
	}
	return l, nil
}

const createLeverQuery = `
INSERT INTO daily_levers (id, user_id, lever_text, xp_value, position, active, created_at)
VALUES ($1, $2, $3, $4, $5, TRUE, $6)`

// CreateBatch вставляет рычаги пачкой через pgx.Batch. Позиции сохраняются
// как передал вызывающий: уникальность и непрерывность не требуются.
func (r *pgLeverRepository) CreateBatch(ctx context.Context, levers []model.DailyLever) error {
	if len(levers) == 0 {
		return nil
	}

	now := time.Now().UTC()
	batch := &pgx.Batch{}
	for i := range levers {
		if levers[i].ID == uuid.Nil {
			levers[i].ID = uuid.New()
		}
		levers[i].Active = true
		levers[i].CreatedAt = now
		batch.Queue(createLeverQuery,
			levers[i].ID, levers[i].UserID, levers[i].LeverText,
			levers[i].XPValue, levers[i].Position, now,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range levers {
		if _, err := br.Exec(); err != nil {
			r.logger.Error("Failed to create levers batch", zap.Int("count", len(levers)), zap.Error(err))
			return fmt.Errorf("ошибка создания рычагов: %w", err)
		}
	}
	r.logger.Info("Levers created", zap.Int("count", len(levers)))
	return nil
}

// updateLeverQuery ограничен владельцем: чужой ID не затрагивает ни одной
// строки. Редактирование возвращает рычаг в активное состояние, чтобы
// повторно присланный деактивированный элемент снова появился в списке.
const updateLeverQuery = `
UPDATE daily_levers
SET lever_text = $3, xp_value = $4, position = $5, active = TRUE
WHERE id = $1 AND user_id = $2`

func (r *pgLeverRepository) Update(ctx context.Context, lever *model.DailyLever) error {
	logFields := []zap.Field{zap.Stringer("leverID", lever.ID), zap.Stringer("userID", lever.UserID)}

	tag, err := r.pool.Exec(ctx, updateLeverQuery,
		lever.ID, lever.UserID, lever.LeverText, lever.XPValue, lever.Position)
	if err != nil {
		r.logger.Error("Failed to update lever", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка обновления рычага %s: %w", lever.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	r.logger.Debug("Lever updated", logFields...)
	return nil
}

// deactivateLeversQuery — мягкое удаление; старые логи продолжают ссылаться
// на деактивированные рычаги.
const deactivateLeversQuery = `
UPDATE daily_levers
SET active = FALSE
WHERE user_id = $1 AND id = ANY($2)`

func (r *pgLeverRepository) Deactivate(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := r.pool.Exec(ctx, deactivateLeversQuery, userID, ids)
	if err != nil {
		r.logger.Error("Failed to deactivate levers",
			zap.Stringer("userID", userID), zap.Int("count", len(ids)), zap.Error(err))
		return fmt.Errorf("ошибка деактивации рычагов: %w", err)
	}
	r.logger.Info("Levers deactivated", zap.Stringer("userID", userID), zap.Int("count", len(ids)))
	return nil
}
