// Package constants provides shared constants used across the codebase.
package constants

import "time"

// Worker pool constants
const (
	// DefaultConcurrency is the default number of parallel workers
	DefaultConcurrency = 5

	// MaxConcurrency caps the worker count accepted from flags and environment
	MaxConcurrency = 64
)

// HTTP server constants
const (
	// MaxRequestBodySize is the largest JSON request body the API accepts (1MB)
	MaxRequestBodySize = 1 << 20

	// RequestTimeout bounds a single API request
	RequestTimeout = 30 * time.Second

	// ShutdownTimeout bounds graceful server shutdown
	ShutdownTimeout = 10 * time.Second
)
