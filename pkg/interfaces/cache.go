package interfaces

import (
	"context"
	"time"
)

// CacheProvider is the shared key/value cache consulted by the session
// bridge. Get returns nil without error on a miss. Setting a nil value
// removes the key.
type CacheProvider interface {
	Get(ctx context.Context, key string) (any, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// TakingCache is implemented by caches that can read and remove a key in
// one step. Take returns nil without error on a miss.
type TakingCache interface {
	Take(ctx context.Context, key string) (any, error)
}
