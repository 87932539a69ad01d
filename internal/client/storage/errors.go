package storage

import "errors"

// Common local storage errors
var (
	// ErrEntityNotFound indicates that entity snapshot was not found
	ErrEntityNotFound = errors.New("entity not found")

	// ErrQueueItemNotFound indicates that queue item was not found
	ErrQueueItemNotFound = errors.New("queue item not found")

	// ErrSessionNotFound indicates that no session data exists
	ErrSessionNotFound = errors.New("session not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
