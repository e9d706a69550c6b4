package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdapterError_Is(t *testing.T) {
	cause := errors.New("no such container: svc1")

	notFound := NewAdapterError(KindNotFound, "start container", "svc1", cause)
	assert.ErrorIs(t, notFound, ErrNotFound)
	assert.ErrorIs(t, notFound, ErrAdapter)
	assert.NotErrorIs(t, notFound, ErrEngineAPI)
	assert.ErrorIs(t, notFound, cause)

	apiErr := NewAdapterError(KindEngineAPI, "create container", "svc1", cause)
	assert.ErrorIs(t, apiErr, ErrEngineAPI)
	assert.ErrorIs(t, apiErr, ErrAdapter)
	assert.NotErrorIs(t, apiErr, ErrNotFound)

	generic := NewAdapterError(KindAdapter, "list containers", "", cause)
	assert.ErrorIs(t, generic, ErrAdapter)
	assert.NotErrorIs(t, generic, ErrEngineAPI)
	assert.NotErrorIs(t, generic, ErrNotFound)
}

func TestAdapterError_IsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("create pass: %w", NewAdapterError(KindNotFound, "start container", "svc1", errors.New("gone")))

	assert.ErrorIs(t, err, ErrAdapter)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdapterError_Error(t *testing.T) {
	err := NewAdapterError(KindEngineAPI, "create container", "svc1", errors.New("conflict"))
	assert.Equal(t, "EngineAPIError: create container 'svc1': conflict", err.Error())

	err = NewAdapterError(KindAdapter, "list containers", "", errors.New("connection refused"))
	assert.Equal(t, "CEAdapterError: list containers: connection refused", err.Error())
}

func TestFatalError(t *testing.T) {
	cause := NewAdapterError(KindAdapter, "init network", "gateway-network", errors.New("boom"))
	err := fmt.Errorf("bootstrap: %w", Fatal("initializing gateway failed", cause))

	assert.True(t, IsFatal(err))
	assert.ErrorIs(t, err, ErrAdapter)
	assert.False(t, IsFatal(cause))
	assert.Contains(t, err.Error(), "initializing gateway failed - CEAdapterError")
}
