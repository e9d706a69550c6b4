// Package out defines output ports (interfaces) for infrastructure.
// These interfaces define the contract between use cases and driven adapters
// (Docker, the component registry, the host network stack).
package out

import (
	"context"

	"github.com/bnema/gateway-core/internal/domain"
)

// ContainerEngine defines the contract every container engine backend satisfies.
// Implementations return only *domain.AdapterError values so callers never depend
// on engine-native error types.
type ContainerEngine interface {
	// ListContainers returns every container known to the engine, keyed by name,
	// regardless of lifecycle state.
	ListContainers(ctx context.Context) (map[string]domain.ContainerRecord, error)

	StartContainer(ctx context.Context, name string) error
	StopContainer(ctx context.Context, name string) error

	// CreateContainer is not idempotent: creating an existing name fails.
	CreateContainer(ctx context.Context, name string, cfg domain.DeploymentConfig, serviceEnv, runtimeEnv map[string]string) error

	// RemoveContainer removes the container. With purge, every volume labeled with
	// the container name is force-removed on a best-effort basis.
	RemoveContainer(ctx context.Context, name string, purge bool) error

	// InitNetwork ensures the process-wide network exists.
	InitNetwork(ctx context.Context) error
}
