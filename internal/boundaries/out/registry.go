package out

import (
	"context"

	"github.com/bnema/gateway-core/internal/domain"
)

// ServiceRegistry fetches the desired service set of this component.
type ServiceRegistry interface {
	// FetchServices returns domain.ErrRegistryUnavailable when the registry is not
	// ready yet and domain.ErrMalformedPayload when its answer breaks the contract.
	FetchServices(ctx context.Context) (map[string]domain.ServiceSpec, error)

	// Host returns the registry host, used to pick the local interface address.
	Host() string
}

// LocalIPResolver finds the local address reachable from the given host.
type LocalIPResolver interface {
	LocalIP(host string) (string, error)
}
