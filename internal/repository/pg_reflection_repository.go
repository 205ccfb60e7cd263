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
var _ ReflectionRepository = (*pgReflectionRepository)(nil)

type pgReflectionRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgReflectionRepository создает репозиторий еженедельных рефлексий.
func NewPgReflectionRepository(pool *pgxpool.Pool, logger *zap.Logger) ReflectionRepository {
	return &pgReflectionRepository{
		pool:   pool,
		logger: logger.Named("PgReflectionRepo"),
	}
}

const createReflectionQuery = `
INSERT INTO weekly_reflections
    (id, user_id, week_start, most_alive, most_dead, pattern_noticed,
     anti_vision_check, levers_adjusted, project_progress, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

// Create добавляет запись рефлексии. Записи append-only и после создания
// никогда не изменяются.
func (r *pgReflectionRepository) Create(ctx context.Context, refl *model.WeeklyReflection) error {
	if refl.ID == uuid.Nil {
		refl.ID = uuid.New()
	}
	refl.CreatedAt = time.Now().UTC()
	logFields := []zap.Field{zap.Stringer("userID", refl.UserID), zap.Time("weekStart", refl.WeekStart)}

	_, err := r.pool.Exec(ctx, createReflectionQuery,
		refl.ID, refl.UserID, refl.WeekStart, refl.MostAlive, refl.MostDead,
		refl.PatternNoticed, refl.AntiVisionCheck, refl.LeversAdjusted,
		refl.ProjectProgress, refl.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create weekly reflection", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка создания рефлексии: %w", err)
	}
	r.logger.Info("Weekly reflection created", logFields...)
	return nil
}

const listReflectionsSinceQuery = `
SELECT id, user_id, week_start, most_alive, most_dead, pattern_noticed,
       anti_vision_check, levers_adjusted, project_progress, created_at
FROM weekly_reflections
WHERE user_id = $1 AND created_at >= $2
ORDER BY week_start ASC`

func (r *pgReflectionRepository) ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]model.WeeklyReflection, error) {
	rows, err := r.pool.Query(ctx, listReflectionsSinceQuery, userID, since)
	if err != nil {
		r.logger.Error("Failed to list weekly reflections", zap.Stringer("userID", userID), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения рефлексий: %w", err)
	}
	defer rows.Close()

	reflections := make([]model.WeeklyReflection, 0)
	for rows.Next() {
		var wr model.WeeklyReflection
		if err := rows.Scan(&wr.ID, &wr.UserID, &wr.WeekStart, &wr.MostAlive, &wr.MostDead,
			&wr.PatternNoticed, &wr.AntiVisionCheck, &wr.LeversAdjusted,
			&wr.ProjectProgress, &wr.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка чтения рефлексии: %w", err)
		}
		reflections = append(reflections, wr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обхода рефлексий: %w", err)
	}
	return reflections, nil
}
