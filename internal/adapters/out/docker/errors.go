package docker

import (
	"context"
	"errors"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/client"

	"github.com/bnema/gateway-core/internal/domain"
)

// engineRejections are the error classes the daemon returns for requests it
// understood and refused.
var engineRejections = []func(error) bool{
	cerrdefs.IsInvalidArgument,
	cerrdefs.IsConflict,
	cerrdefs.IsAlreadyExists,
	cerrdefs.IsPermissionDenied,
	cerrdefs.IsUnauthorized,
	cerrdefs.IsFailedPrecondition,
	cerrdefs.IsNotImplemented,
	cerrdefs.IsNotModified,
	cerrdefs.IsResourceExhausted,
	cerrdefs.IsDataLoss,
	cerrdefs.IsInternal,
}

// classifyKind maps a Docker client error onto the adapter taxonomy.
// Anything unrecognised, transport failures included, is a generic adapter error.
func classifyKind(err error) domain.ErrorKind {
	if err == nil {
		return domain.KindAdapter
	}
	if client.IsErrConnectionFailed(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return domain.KindAdapter
	}
	if cerrdefs.IsNotFound(err) {
		return domain.KindNotFound
	}
	for _, rejected := range engineRejections {
		if rejected(err) {
			return domain.KindEngineAPI
		}
	}
	return domain.KindAdapter
}

// classify wraps a Docker client error into a *domain.AdapterError.
func classify(op, subject string, err error) *domain.AdapterError {
	return domain.NewAdapterError(classifyKind(err), op, subject, err)
}
