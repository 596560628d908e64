package tenant

import "errors"

var (
	// ErrTenantNotFound is returned by a Store when no tenant matches.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrNoTenantInContext is returned when a tenant is required but none was resolved.
	ErrNoTenantInContext = errors.New("no tenant in context")

	// ErrUnknownContributor is returned when the configured order names an unregistered contributor.
	ErrUnknownContributor = errors.New("unknown tenant resolve contributor")

	// ErrContributorPanic wraps a value recovered from a panicking contributor.
	ErrContributorPanic = errors.New("tenant resolve contributor panicked")
)
