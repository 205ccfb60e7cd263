package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"lifequest-server/internal/model"
)

// Compile-time check
var _ UserRepository = (*pgUserRepository)(nil)

type pgUserRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgUserRepository создает репозиторий пользователей поверх pgx-пула.
func NewPgUserRepository(pool *pgxpool.Pool, logger *zap.Logger) UserRepository {
	return &pgUserRepository{
		pool:   pool,
		logger: logger.Named("PgUserRepo"),
	}
}

const getUserQuery = `
SELECT id, total_xp, current_level, current_streak, longest_streak, created_at
FROM users
WHERE id = $1`

func (r *pgUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user := &model.User{}
	logFields := []zap.Field{zap.Stringer("userID", id)}

	err := r.pool.QueryRow(ctx, getUserQuery, id).Scan(
		&user.ID, &user.TotalXP, &user.CurrentLevel,
		&user.CurrentStreak, &user.LongestStreak, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		r.logger.Error("Failed to get user", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка получения пользователя %s: %w", id, err)
	}
	return user, nil
}

const ensureUserQuery = `
INSERT INTO users (id, total_xp, current_level, current_streak, longest_streak)
VALUES ($1, 0, 1, 0, 0)
ON CONFLICT (id) DO NOTHING`

func (r *pgUserRepository) EnsureExists(ctx context.Context, id uuid.UUID) (*model.User, error) {
	logFields := []zap.Field{zap.Stringer("userID", id)}

	tag, err := r.pool.Exec(ctx, ensureUserQuery, id)
	if err != nil {
		r.logger.Error("Failed to ensure user exists", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка создания пользователя %s: %w", id, err)
	}
	if tag.RowsAffected() > 0 {
		r.logger.Info("User progress record created", logFields...)
	}
	return r.GetByID(ctx, id)
}

// applyXPQuery прибавляет дельту на стороне сервера; GREATEST не дает
// total_xp уйти в минус при отмене рычага (устраняет lost-update окно).
const applyXPQuery = `
UPDATE users
SET total_xp = GREATEST(total_xp + $2, 0)
WHERE id = $1
RETURNING total_xp`

const setLevelQuery = `
UPDATE users
SET current_level = $2
WHERE id = $1 AND current_level <> $2`

func (r *pgUserRepository) ApplyXPDelta(ctx context.Context, id uuid.UUID, delta int, levelFor LevelFunc) (int, int, error) {
	logFields := []zap.Field{zap.Stringer("userID", id), zap.Int("delta", delta)}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("ошибка открытия транзакции: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback после commit безвреден

	var newTotal int
	if err := tx.QueryRow(ctx, applyXPQuery, id, delta).Scan(&newTotal); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("XP delta for unknown user", logFields...)
			return 0, 0, model.ErrNotFound
		}
		r.logger.Error("Failed to apply XP delta", append(logFields, zap.Error(err))...)
		return 0, 0, fmt.Errorf("ошибка применения дельты XP: %w", err)
	}

	newLevel := levelFor(newTotal)
	if _, err := tx.Exec(ctx, setLevelQuery, id, newLevel); err != nil {
		r.logger.Error("Failed to persist recomputed level", append(logFields, zap.Error(err))...)
		return 0, 0, fmt.Errorf("ошибка сохранения уровня: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}

	r.logger.Debug("Applied XP delta",
		append(logFields, zap.Int("newTotal", newTotal), zap.Int("newLevel", newLevel))...)
	return newTotal, newLevel, nil
}

// applyStreakQuery одним запросом сдвигает стрик и поддерживает верхнюю
// отметку longest_streak.
const applyStreakQuery = `
UPDATE users
SET current_streak = GREATEST(current_streak + $2, 0),
    longest_streak = GREATEST(longest_streak, GREATEST(current_streak + $2, 0))
WHERE id = $1
RETURNING current_streak`

func (r *pgUserRepository) ApplyStreakDelta(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	logFields := []zap.Field{zap.Stringer("userID", id), zap.Int("delta", delta)}

	var newStreak int
	err := r.pool.QueryRow(ctx, applyStreakQuery, id, delta).Scan(&newStreak)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, model.ErrNotFound
		}
		r.logger.Error("Failed to apply streak delta", append(logFields, zap.Error(err))...)
		return 0, fmt.Errorf("ошибка применения дельты стрика: %w", err)
	}

	r.logger.Debug("Applied streak delta", append(logFields, zap.Int("newStreak", newStreak))...)
	return newStreak, nil
}
