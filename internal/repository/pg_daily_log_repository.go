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
var _ DailyLogRepository = (*pgDailyLogRepository)(nil)

type pgDailyLogRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgDailyLogRepository создает репозиторий дневных логов.
func NewPgDailyLogRepository(pool *pgxpool.Pool, logger *zap.Logger) DailyLogRepository {
	return &pgDailyLogRepository{
		pool:   pool,
		logger: logger.Named("PgDailyLogRepo"),
	}
}

func scanDailyLog(row pgx.Row) (*model.DailyLog, error) {
	log := &model.DailyLog{}
	var direction *string
	var completed pq.StringArray

	err := row.Scan(
		&log.ID, &log.UserID, &log.LogDate, &direction,
		&log.Comment, &completed, &log.XPGained, &log.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if direction != nil {
		d := model.Direction(*direction)
		log.Direction = &d
	}
	log.LeversCompleted = []string(completed)
	return log, nil
}

const getLogByDateQuery = `
SELECT id, user_id, log_date, direction, comment, levers_completed, xp_gained, created_at
FROM daily_logs
WHERE user_id = $1 AND log_date = $2`

func (r *pgDailyLogRepository) GetByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*model.DailyLog, error) {
	log, err := scanDailyLog(r.pool.QueryRow(ctx, getLogByDateQuery, userID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		r.logger.Error("Failed to get daily log",
			zap.Stringer("userID", userID), zap.Time("date", date), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения дневного лога: %w", err)
	}
	return log, nil
}

// toggleLeverLogQuery переключает отметку рычага одним запросом: состав
// levers_completed и счетчик xp_gained меняются относительно текущей строки,
// поэтому параллельные переключения разных рычагов не затирают друг друга.
// Ограничение (user_id, log_date) держит инвариант "один лог на день".
const toggleLeverLogQuery = `
INSERT INTO daily_logs (id, user_id, log_date, comment, levers_completed, xp_gained, created_at)
VALUES ($1, $2, $3, '', ARRAY[$4::text], $5, $6)
ON CONFLICT (user_id, log_date) DO UPDATE SET
    levers_completed = CASE WHEN daily_logs.levers_completed @> ARRAY[$4::text]
        THEN array_remove(daily_logs.levers_completed, $4::text)
        ELSE array_append(daily_logs.levers_completed, $4::text) END,
    xp_gained = CASE WHEN daily_logs.levers_completed @> ARRAY[$4::text]
        THEN daily_logs.xp_gained - $5
        ELSE daily_logs.xp_gained + $5 END
RETURNING id, user_id, log_date, direction, comment, levers_completed, xp_gained, created_at`

func (r *pgDailyLogRepository) ToggleLever(ctx context.Context, userID uuid.UUID, date time.Time, leverID uuid.UUID, xpValue int) (*model.DailyLog, bool, error) {
	logFields := []zap.Field{
		zap.Stringer("userID", userID), zap.Time("date", date), zap.Stringer("leverID", leverID),
	}

	log, err := scanDailyLog(r.pool.QueryRow(ctx, toggleLeverLogQuery,
		uuid.New(), userID, date, leverID.String(), xpValue, time.Now().UTC(),
	))
	if err != nil {
		r.logger.Error("Failed to toggle lever in daily log", append(logFields, zap.Error(err))...)
		return nil, false, fmt.Errorf("ошибка переключения рычага в дневном логе: %w", err)
	}

	completed := log.HasCompleted(leverID)
	r.logger.Debug("Daily log lever toggled", append(logFields, zap.Bool("completed", completed))...)
	return log, completed, nil
}

// setDirectionLogQuery пишет направление дня и комментарий, прибавляя xpDelta
// к счетчику. Отметки рычагов не трогаются, чтобы не перетирать параллельные
// переключения.
const setDirectionLogQuery = `
INSERT INTO daily_logs (id, user_id, log_date, direction, comment, levers_completed, xp_gained, created_at)
VALUES ($1, $2, $3, $4, $5, '{}', $6, $7)
ON CONFLICT (user_id, log_date) DO UPDATE SET
    direction = EXCLUDED.direction,
    comment   = EXCLUDED.comment,
    xp_gained = daily_logs.xp_gained + EXCLUDED.xp_gained
RETURNING id, user_id, log_date, direction, comment, levers_completed, xp_gained, created_at`

func (r *pgDailyLogRepository) SetDirection(ctx context.Context, userID uuid.UUID, date time.Time, direction model.Direction, comment string, xpDelta int) (*model.DailyLog, error) {
	logFields := []zap.Field{
		zap.Stringer("userID", userID), zap.Time("date", date), zap.String("direction", string(direction)),
	}

	log, err := scanDailyLog(r.pool.QueryRow(ctx, setDirectionLogQuery,
		uuid.New(), userID, date, string(direction), comment, xpDelta, time.Now().UTC(),
	))
	if err != nil {
		r.logger.Error("Failed to set daily log direction", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("ошибка сохранения направления дня: %w", err)
	}

	r.logger.Debug("Daily log direction set", logFields...)
	return log, nil
}

const listLogsSinceQuery = `
SELECT id, user_id, log_date, direction, comment, levers_completed, xp_gained, created_at
FROM daily_logs
WHERE user_id = $1 AND log_date >= $2
ORDER BY log_date DESC`

func (r *pgDailyLogRepository) ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]model.DailyLog, error) {
	rows, err := r.pool.Query(ctx, listLogsSinceQuery, userID, since)
	if err != nil {
		r.logger.Error("Failed to list daily logs", zap.Stringer("userID", userID), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения дневных логов: %w", err)
	}
	defer rows.Close()

	logs := make([]model.DailyLog, 0)
	for rows.Next() {
		var l model.DailyLog
		var direction *string
		var completed pq.StringArray
		if err := rows.Scan(&l.ID, &l.UserID, &l.LogDate, &direction,
			&l.Comment, &completed, &l.XPGained, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка чтения дневного лога: %w", err)
		}
		if direction != nil {
			d := model.Direction(*direction)
			l.Direction = &d
		}
		l.LeversCompleted = []string(completed)
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обхода дневных логов: %w", err)
	}
	return logs, nil
}
