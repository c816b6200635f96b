package lock

import (
	"context"
	"time"
)

// Locker is a try-lock: Lock returns false without blocking when the key is
// already held. Keys expire after ttl so a crashed holder cannot wedge a slot.
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
	Close() error
}
