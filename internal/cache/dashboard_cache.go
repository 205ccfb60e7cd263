package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"lifequest-server/internal/model"
)

// DashboardCache кэширует агрегированные данные главного экрана.
// Кэш — ускорение чтения, не источник истины: любая ошибка Redis
// деградирует до похода в БД.
type DashboardCache interface {
	// Get возвращает закэшированный dashboard или model.ErrNotFound.
	Get(ctx context.Context, userID uuid.UUID) (*model.Dashboard, error)
	Set(ctx context.Context, userID uuid.UUID, d *model.Dashboard) error
	// Invalidate сбрасывает запись после любой мутации прогресса.
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisDashboardCache создает Redis-кэш dashboard'а с заданным TTL.
func NewRedisDashboardCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) DashboardCache {
	return &redisDashboardCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("RedisDashboardCache"),
	}
}

func dashboardKey(userID uuid.UUID) string {
	return fmt.Sprintf("dashboard:%s", userID)
}

func (c *redisDashboardCache) Get(ctx context.Context, userID uuid.UUID) (*model.Dashboard, error) {
	raw, err := c.client.Get(ctx, dashboardKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrNotFound
		}
		c.logger.Warn("Dashboard cache read failed", zap.Stringer("userID", userID), zap.Error(err))
		return nil, err
	}

	var d model.Dashboard
	if err := json.Unmarshal(raw, &d); err != nil {
		// Битую запись убираем, чтобы не отдавать ее повторно.
		c.client.Del(ctx, dashboardKey(userID))
		return nil, model.ErrNotFound
	}
	return &d, nil
}

func (c *redisDashboardCache) Set(ctx context.Context, userID uuid.UUID, d *model.Dashboard) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("ошибка сериализации dashboard: %w", err)
	}
	if err := c.client.Set(ctx, dashboardKey(userID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("Dashboard cache write failed", zap.Stringer("userID", userID), zap.Error(err))
		return err
	}
	return nil
}

func (c *redisDashboardCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if err := c.client.Del(ctx, dashboardKey(userID)).Err(); err != nil {
		c.logger.Warn("Dashboard cache invalidation failed", zap.Stringer("userID", userID), zap.Error(err))
		return err
	}
	return nil
}
