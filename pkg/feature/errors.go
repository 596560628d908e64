package feature

import "errors"

// Predefined errors for the feature package.
var (
	// ErrFeatureNotFound indicates that no feature with the given name is defined.
	ErrFeatureNotFound = errors.New("feature not found")

	// ErrInvalidDefinition indicates an empty or duplicate feature name.
	ErrInvalidDefinition = errors.New("invalid feature definition")

	// ErrInvalidDefinitionFile indicates that a definition file could not be parsed.
	ErrInvalidDefinitionFile = errors.New("invalid feature definition file")
)
