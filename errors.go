package tenantkit

import "errors"

var (
	// ErrUnknownStorage is returned for an unsupported Config.Storage value.
	ErrUnknownStorage = errors.New("unknown storage backend")
	// ErrBootstrap wraps failures while building an App.
	ErrBootstrap = errors.New("failed to bootstrap tenantkit")
)
