// Package config loads configuration structs from environment variables.
//
// Struct fields are described with github.com/caarlos0/env tags. Before the
// first load the package reads a .env file from the working directory when
// present (github.com/joho/godotenv); real environment variables always win
// over values from the file.
//
// Each configuration type is parsed once and cached, so packages can call
// Load from constructors without re-reading the environment:
//
//	var cfg tenant.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// LoadWithPrefix parses a struct whose variable names are shared by several
// instances, for example two Redis connections named CACHE_REDIS_URL and
// QUEUE_REDIS_URL. Prefixed loads are cached per (type, prefix) pair.
//
// Errors wrap ErrParsingConfig with the parser error via errors.Join.
package config
