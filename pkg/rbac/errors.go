package rbac

import "errors"

// Domain errors for RBAC operations.
var (
	// ErrInvalidPermissionName is returned for empty names and names longer
	// than MaxPermissionNameLength.
	ErrInvalidPermissionName = errors.New("rbac.invalid_permission_name")

	// ErrInvalidUserIdentifier is returned when a user identifier string cannot be parsed.
	ErrInvalidUserIdentifier = errors.New("rbac.invalid_user_identifier")

	// ErrNoUserInContext is returned when a user is required but the session has none.
	ErrNoUserInContext = errors.New("rbac.no_user_in_context")

	// ErrInsufficientPermissions is returned when required permissions are not granted.
	ErrInsufficientPermissions = errors.New("rbac.insufficient_permissions")
)
