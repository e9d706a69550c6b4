// Package in defines input ports (interfaces) for the application.
package in

import "context"

// GatewayService brings the local containers in line with the registry.
type GatewayService interface {
	// InitGateway runs one convergence pass. Unrecoverable failures are returned
	// as *domain.FatalError.
	InitGateway(ctx context.Context) error
}
