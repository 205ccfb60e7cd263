package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"lifequest-server/internal/model"
)

// Mock DashboardCache
type DashboardCache struct {
	mock.Mock
}

func (m *DashboardCache) Get(ctx context.Context, userID uuid.UUID) (*model.Dashboard, error) {
	args := m.Called(ctx, userID)
	if d := args.Get(0); d != nil {
		return d.(*model.Dashboard), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DashboardCache) Set(ctx context.Context, userID uuid.UUID, d *model.Dashboard) error {
	args := m.Called(ctx, userID, d)
	return args.Error(0)
}

func (m *DashboardCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
