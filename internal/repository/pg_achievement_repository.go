package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"lifequest-server/internal/model"
)

// Compile-time check
var _ AchievementRepository = (*pgAchievementRepository)(nil)

type pgAchievementRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgAchievementRepository создает репозиторий достижений.
func NewPgAchievementRepository(pool *pgxpool.Pool, logger *zap.Logger) AchievementRepository {
	return &pgAchievementRepository{
		pool:   pool,
		logger: logger.Named("PgAchievementRepo"),
	}
}

// unlockAchievementQuery идемпотентен: повторная разблокировка того же типа
// не создает дубликата.
const unlockAchievementQuery = `
INSERT INTO achievements (id, user_id, achievement_type, unlocked_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, achievement_type) DO NOTHING`

func (r *pgAchievementRepository) Unlock(ctx context.Context, userID uuid.UUID, achievementType string) (bool, error) {
	logFields := []zap.Field{zap.Stringer("userID", userID), zap.String("type", achievementType)}

	tag, err := r.pool.Exec(ctx, unlockAchievementQuery, uuid.New(), userID, achievementType, time.Now().UTC())
	if err != nil {
		r.logger.Error("Failed to unlock achievement", append(logFields, zap.Error(err))...)
		return false, fmt.Errorf("ошибка разблокировки достижения: %w", err)
	}

	unlocked := tag.RowsAffected() > 0
	if unlocked {
		r.logger.Info("Achievement unlocked", logFields...)
	}
	return unlocked, nil
}

const listAchievementsQuery = `
SELECT id, user_id, achievement_type, unlocked_at
FROM achievements
WHERE user_id = $1
ORDER BY unlocked_at ASC`

func (r *pgAchievementRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Achievement, error) {
	rows, err := r.pool.Query(ctx, listAchievementsQuery, userID)
	if err != nil {
		r.logger.Error("Failed to list achievements", zap.Stringer("userID", userID), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения достижений: %w", err)
	}
	defer rows.Close()

	achievements := make([]model.Achievement, 0)
	for rows.Next() {
		var a model.Achievement
		if err := rows.Scan(&a.ID, &a.UserID, &a.AchievementType, &a.UnlockedAt); err != nil {
			return nil, fmt.Errorf("ошибка чтения достижения: %w", err)
		}
		achievements = append(achievements, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обхода достижений: %w", err)
	}
	return achievements, nil
}
