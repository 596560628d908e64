package eventbus

import "errors"

// ErrHandlerPanic wraps a value recovered from a panicking handler.
var ErrHandlerPanic = errors.New("eventbus: handler panicked")
