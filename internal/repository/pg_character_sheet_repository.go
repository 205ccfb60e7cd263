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
var _ CharacterSheetRepository = (*pgCharacterSheetRepository)(nil)

type pgCharacterSheetRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgCharacterSheetRepository создает репозиторий листов персонажа.
func NewPgCharacterSheetRepository(pool *pgxpool.Pool, logger *zap.Logger) CharacterSheetRepository {
	return &pgCharacterSheetRepository{
		pool:   pool,
		logger: logger.Named("PgCharacterSheetRepo"),
	}
}

const getSheetQuery = `
SELECT id, user_id, anti_vision, vision, year_goal, month_project, constraints, updated_at
FROM character_sheets
WHERE user_id = $1`

func (r *pgCharacterSheetRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.CharacterSheet, error) {
	sheet := &model.CharacterSheet{}
	err := r.pool.QueryRow(ctx, getSheetQuery, userID).Scan(
		&sheet.ID, &sheet.UserID, &sheet.AntiVision, &sheet.Vision,
		&sheet.YearGoal, &sheet.MonthProject, &sheet.Constraints, &sheet.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		r.logger.Error("Failed to get character sheet", zap.Stringer("userID", userID), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения листа персонажа: %w", err)
	}
	return sheet, nil
}

const createSheetQuery = `
INSERT INTO character_sheets (id, user_id, anti_vision, vision, year_goal, month_project, constraints, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

func (r *pgCharacterSheetRepository) Create(ctx context.Context, sheet *model.CharacterSheet) error {
	if sheet.ID == uuid.Nil {
		sheet.ID = uuid.New()
	}
	sheet.UpdatedAt = time.Now().UTC()
	logFields := []zap.Field{zap.Stringer("userID", sheet.UserID), zap.Stringer("sheetID", sheet.ID)}

	_, err := r.pool.Exec(ctx, createSheetQuery,
		sheet.ID, sheet.UserID, sheet.AntiVision, sheet.Vision,
		sheet.YearGoal, sheet.MonthProject, sheet.Constraints, sheet.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create character sheet", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка создания листа персонажа: %w", err)
	}
	r.logger.Info("Character sheet created", logFields...)
	return nil
}

// updateSheetQuery использует COALESCE: nil-параметры оставляют поле как есть.
const updateSheetQuery = `
UPDATE character_sheets SET
    anti_vision   = COALESCE($2, anti_vision),
    vision        = COALESCE($3, vision),
    year_goal     = COALESCE($4, year_goal),
    month_project = COALESCE($5, month_project),
    constraints   = COALESCE($6, constraints),
    updated_at    = $7
WHERE user_id = $1`

func (r *pgCharacterSheetRepository) Update(ctx context.Context, userID uuid.UUID, upd model.CharacterSheetUpdate) error {
	logFields := []zap.Field{zap.Stringer("userID", userID)}

	tag, err := r.pool.Exec(ctx, updateSheetQuery,
		userID, upd.AntiVision, upd.Vision, upd.YearGoal,
		upd.MonthProject, upd.Constraints, time.Now().UTC(),
	)
	if err != nil {
		r.logger.Error("Failed to update character sheet", append(logFields, zap.Error(err))...)
		return fmt.Errorf("ошибка обновления листа персонажа: %w", err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn("Character sheet update for user without sheet", logFields...)
		return model.ErrNotFound
	}
	r.logger.Debug("Character sheet updated", logFields...)
	return nil
}
