package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/dmitrymomot/tenantkit/pkg/logger"
)

type handler struct {
	id uint64
	fn func(ctx context.Context, event any) error
}

// Bus routes events by their Go type. It is safe for concurrent use.
type Bus struct {
	mu       sync.RWMutex
	handlers map[reflect.Type][]handler
	nextID   uint64
	logger   *slog.Logger
}

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the logger receiving handler failures.
func WithLogger(log *slog.Logger) Option {
	return func(b *Bus) {
		if log != nil {
			b.logger = log
		}
	}
}

// New creates an empty Bus.
func New(opts ...Option) *Bus {
	b := &Bus{
		handlers: make(map[reflect.Type][]handler),
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers fn for events of type T and returns a function that
// removes it. The returned function is idempotent.
func Subscribe[T any](b *Bus, fn func(ctx context.Context, event T) error) func() {
	typ := reflect.TypeFor[T]()

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.handlers[typ] = append(b.handlers[typ], handler{
		id: id,
		fn: func(ctx context.Context, event any) error {
			return fn(ctx, event.(T))
		},
	})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(typ, id) })
	}
}

// Publish delivers event to every handler of type T.
// A nil Bus drops the event.
func Publish[T any](ctx context.Context, b *Bus, event T) error {
	if b == nil {
		return nil
	}
	typ := reflect.TypeFor[T]()

	b.mu.RLock()
	handlers := append([]handler(nil), b.handlers[typ]...)
	b.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := b.call(ctx, h, event); err != nil {
			b.logger.ErrorContext(ctx, "event handler failed",
				logger.Event(typ.String()),
				logger.Error(err),
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// HandlerCount returns the number of handlers subscribed to T.
func HandlerCount[T any](b *Bus) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[reflect.TypeFor[T]()])
}

func (b *Bus) call(ctx context.Context, h handler, event any) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, rec)
		}
	}()
	return h.fn(ctx, event)
}

func (b *Bus) unsubscribe(typ reflect.Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	handlers := b.handlers[typ]
	for i, h := range handlers {
		if h.id == id {
			b.handlers[typ] = append(handlers[:i:i], handlers[i+1:]...)
			break
		}
	}
	if len(b.handlers[typ]) == 0 {
		delete(b.handlers, typ)
	}
}
