package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bnema/gateway-core/internal/domain"
)

// MockServiceRegistry is a mock implementation of out.ServiceRegistry
type MockServiceRegistry struct {
	mock.Mock
}

// NewMockServiceRegistry creates a mock and registers expectation checks on cleanup.
func NewMockServiceRegistry(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockServiceRegistry {
	m := &MockServiceRegistry{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockServiceRegistry) FetchServices(ctx context.Context) (map[string]domain.ServiceSpec, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.ServiceSpec), args.Error(1)
}

func (m *MockServiceRegistry) Host() string {
	args := m.Called()
	return args.String(0)
}

// MockLocalIPResolver is a mock implementation of out.LocalIPResolver
type MockLocalIPResolver struct {
	mock.Mock
}

// NewMockLocalIPResolver creates a mock and registers expectation checks on cleanup.
func NewMockLocalIPResolver(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockLocalIPResolver {
	m := &MockLocalIPResolver{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockLocalIPResolver) LocalIP(host string) (string, error) {
	args := m.Called(host)
	return args.String(0), args.Error(1)
}
