package config

import "time"

const (
	// HTTP server limits
	ReadHeaderTimeout = 5 * time.Second
	ReadTimeout       = 10 * time.Second
	WriteTimeout      = 10 * time.Second
	IdleTimeout       = 60 * time.Second

	// Request body cap for JSON endpoints
	MaxBodyBytes = 1 << 20

	// Header carrying the client-supplied idempotency key
	IdempotencyKeyHeader = "Idempotency-Key"

	// Postgres pool sizing
	DBMaxConns = 10
	DBMinConns = 2
)
