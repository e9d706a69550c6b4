package domain

import (
	"errors"
	"fmt"
)

// Adapter error taxonomy. ErrNotFound and ErrEngineAPI are subkinds of ErrAdapter:
// every classified adapter error matches ErrAdapter through errors.Is.
var (
	ErrAdapter   = errors.New("container engine adapter error")
	ErrEngineAPI = errors.New("container engine rejected request")
	ErrNotFound  = errors.New("resource not found")
)

// Registry errors
var (
	ErrRegistryUnavailable = errors.New("component registry unavailable")
	ErrMalformedPayload    = errors.New("malformed component registry payload")
)

// Config errors
var (
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ErrorKind classifies adapter failures.
type ErrorKind int

const (
	KindAdapter ErrorKind = iota
	KindEngineAPI
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindEngineAPI:
		return "EngineAPIError"
	case KindNotFound:
		return "NotFound"
	default:
		return "CEAdapterError"
	}
}

// AdapterError is the only error type engine adapters return.
// The engine-native cause stays reachable through Unwrap.
type AdapterError struct {
	Kind    ErrorKind
	Op      string
	Subject string
	Err     error
}

func (e *AdapterError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s '%s': %v", e.Kind, e.Op, e.Subject, e.Err)
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

// Is matches the taxonomy sentinels according to the error kind.
func (e *AdapterError) Is(target error) bool {
	switch target {
	case ErrAdapter:
		return true
	case ErrEngineAPI:
		return e.Kind == KindEngineAPI
	case ErrNotFound:
		return e.Kind == KindNotFound
	}
	return false
}

// NewAdapterError builds an AdapterError of the given kind.
func NewAdapterError(kind ErrorKind, op, subject string, err error) *AdapterError {
	return &AdapterError{Kind: kind, Op: op, Subject: subject, Err: err}
}

// FatalError marks a condition that must terminate the process.
// It is returned up to the outermost boundary, which performs the exit.
type FatalError struct {
	Reason string
	Err    error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s - %v", e.Reason, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal wraps err into a FatalError.
func Fatal(reason string, err error) *FatalError {
	return &FatalError{Reason: reason, Err: err}
}

// IsFatal reports whether err carries a FatalError.
func IsFatal(err error) bool {
	var fatal *FatalError
	return errors.As(err, &fatal)
}
