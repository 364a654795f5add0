package domain

import "errors"

// Runner errors can be checked with errors.Is.
var (
	// ErrAlreadyRunning is returned when Run is called on a running runner.
	ErrAlreadyRunning = errors.New("lifebind: already running")

	// ErrNotRunning is returned when Stop is called on a stopped runner.
	ErrNotRunning = errors.New("lifebind: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("lifebind: shutdown timeout")
)
