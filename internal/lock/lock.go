// Package lock serializes work per key, either inside one process or across
// replicas through Redis.
package lock

import (
	"context"
	"errors"
)

var (
	ErrEmptyKey      = errors.New("lock key is empty")
	ErrNotAcquired   = errors.New("lock not acquired")
	ErrNotConfigured = errors.New("lock client not configured")
)

// Locker grants exclusive ownership of a key until release is called.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}
