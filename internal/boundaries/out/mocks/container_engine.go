package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bnema/gateway-core/internal/domain"
)

// MockContainerEngine is a mock implementation of out.ContainerEngine
type MockContainerEngine struct {
	mock.Mock
}

// NewMockContainerEngine creates a mock and registers expectation checks on cleanup.
func NewMockContainerEngine(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockContainerEngine {
	m := &MockContainerEngine{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockContainerEngine) ListContainers(ctx context.Context) (map[string]domain.ContainerRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.ContainerRecord), args.Error(1)
}

func (m *MockContainerEngine) StartContainer(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockContainerEngine) StopContainer(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockContainerEngine) CreateContainer(ctx context.Context, name string, cfg domain.DeploymentConfig, serviceEnv, runtimeEnv map[string]string) error {
	args := m.Called(ctx, name, cfg, serviceEnv, runtimeEnv)
	return args.Error(0)
}

func (m *MockContainerEngine) RemoveContainer(ctx context.Context, name string, purge bool) error {
	args := m.Called(ctx, name, purge)
	return args.Error(0)
}

func (m *MockContainerEngine) InitNetwork(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
