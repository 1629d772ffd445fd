package taskq

import "errors"

var (
	// Store errors.
	ErrNoStore     = errors.New("taskq: no store configured")
	ErrStoreClosed = errors.New("taskq: store closed")

	// Not found errors.
	ErrJobNotFound = errors.New("taskq: job not found")

	// Registry errors.
	ErrUnknownQueue = errors.New("taskq: unknown queue")
	ErrNoHandler    = errors.New("taskq: no handler registered")

	// Conflict errors.
	ErrJobAlreadyExists = errors.New("taskq: job already exists")
)
