package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"lifequest-server/internal/messaging"
)

// Mock ProgressEventPublisher
type ProgressEventPublisher struct {
	mock.Mock
}

func (m *ProgressEventPublisher) PublishProgressEvent(ctx context.Context, event messaging.ProgressEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
