package cache

import "errors"

var (
	// ErrNullValue is returned when a nil value is written to a cache.
	ErrNullValue = errors.New("cache: can not insert null values to the cache")

	// ErrEmptyKey is returned for operations with an empty key.
	ErrEmptyKey = errors.New("cache: empty key")

	// ErrSerialization is returned when a typed value cannot be encoded or decoded.
	ErrSerialization = errors.New("cache: serialization failed")

	// ErrNoRedisClient is returned by FactoryFromConfig when the Redis backend has no client.
	ErrNoRedisClient = errors.New("cache: redis backend requires a client")

	// ErrUnknownBackend is returned by FactoryFromConfig for unsupported backends.
	ErrUnknownBackend = errors.New("cache: unknown backend")
)
