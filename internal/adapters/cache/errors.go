package cache

import "errors"

// Sentinel kinds for cache errors.
var (
	// ErrMiss means the key is not cached. Callers compute and Set.
	ErrMiss               = errors.New("cache miss")
	ErrUnsupportedBackend = errors.New("unsupported cache backend")
)
