package contracts

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Typed errors below unwrap to these so callers can use errors.Is.
var (
	// Load-time, prevents startup.
	ErrCatalogIntegrity = errors.New("catalog integrity check failed")

	// Request-scoped.
	ErrModelNotFound         = errors.New("model not found")
	ErrProviderNotConfigured = errors.New("provider not configured")
	ErrNotInAllowList        = errors.New("model not in allow-list")
	ErrNoModelsConfigured    = errors.New("no models configured")
	ErrTypeMismatch          = errors.New("model reference type mismatch")
	ErrUnknownTier           = errors.New("unknown tier")

	ErrNotImplemented = errors.New("not implemented")
	ErrInvalidInput   = errors.New("invalid input")
)

// CatalogIntegrityError lists every integrity violation found at load time.
type CatalogIntegrityError struct {
	Errors []string
}

func (e *CatalogIntegrityError) Error() string {
	return fmt.Sprintf("catalog integrity check failed with %d error(s): %s",
		len(e.Errors), strings.Join(e.Errors, "; "))
}

func (e *CatalogIntegrityError) Unwrap() error { return ErrCatalogIntegrity }

// ModelNotFoundError is returned when an id is absent from the catalog or not runtime-enabled.
type ModelNotFoundError struct {
	ID     string
	Reason string
}

func (e *ModelNotFoundError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("model %q not found: %s", e.ID, e.Reason)
	}
	return fmt.Sprintf("model %q not found", e.ID)
}

func (e *ModelNotFoundError) Unwrap() error { return ErrModelNotFound }

// ProviderNotConfiguredError reports the requested provider alongside what is configured.
type ProviderNotConfiguredError struct {
	Requested  Provider
	Configured []Provider
	Reason     string
}

func (e *ProviderNotConfiguredError) Error() string {
	configured := make([]string, len(e.Configured))
	for i, p := range e.Configured {
		configured[i] = string(p)
	}
	list := "none"
	if len(configured) > 0 {
		list = strings.Join(configured, ", ")
	}
	msg := fmt.Sprintf("provider %q not configured (configured: %s)", e.Requested, list)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *ProviderNotConfiguredError) Unwrap() error { return ErrProviderNotConfigured }

// NotInAllowListError is an authorization failure for a caller.
type NotInAllowListError struct {
	ID            string
	Mode          AccessMode
	AllowListSize int
}

func (e *NotInAllowListError) Error() string {
	return fmt.Sprintf("model %q is not in the %s allow-list (%d allowed models)", e.ID, e.Mode, e.AllowListSize)
}

func (e *NotInAllowListError) Unwrap() error { return ErrNotInAllowList }

// NoModelsConfiguredError means the candidate set for a tier was empty.
type NoModelsConfiguredError struct {
	Tier          Tier
	AllowListSize int
}

func (e *NoModelsConfiguredError) Error() string {
	if e.Tier == "" {
		return "no models configured"
	}
	return fmt.Sprintf("no models configured for tier %q (%d allowed models)", e.Tier, e.AllowListSize)
}

func (e *NoModelsConfiguredError) Unwrap() error { return ErrNoModelsConfigured }

// TypeMismatchError means the caller asserted tier vs model and the input disagreed.
type TypeMismatchError struct {
	Input    string
	Asserted string
	Detected string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%q was asserted to be a %s but looks like a %s", e.Input, e.Asserted, e.Detected)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }
