package mocks

import (
	"context"

	"github.com/dukex/postgate/pkg/models"
	"github.com/stretchr/testify/mock"
)

// MockGenerator is a mock implementation of services.Generator interface.
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, date string) (*models.Generation, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Generation), args.Error(1)
}

// MockPublisher is a mock implementation of services.Publisher interface.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) CheckCredentials() error {
	args := m.Called()

	return args.Error(0)
}

func (m *MockPublisher) Publish(ctx context.Context, text string) (*models.PublishOutcome, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.PublishOutcome), args.Error(1)
}
