package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock taken by DistributedLocker.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes work on one session across replicas sharing a store.
type DistributedLocker interface {
	// Lock blocks until key is held or ctx ends. The lease expires after ttl
	// even if the holder never unlocks. The returned UnlockFunc must be called.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
