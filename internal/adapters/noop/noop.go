package noop

import (
	"context"
	"time"

	"github.com/goliatone/go-cms-workflow/pkg/interfaces"
)

// Cache returns a cache that stores nothing. Every lookup misses, so a
// session bridge built on it treats every token as expired.
func Cache() interfaces.CacheProvider {
	return cacheAdapter{}
}

type cacheAdapter struct{}

func (cacheAdapter) Get(context.Context, string) (any, error) {
	return nil, nil
}

func (cacheAdapter) Set(context.Context, string, any, time.Duration) error {
	return nil
}

func (cacheAdapter) Delete(context.Context, string) error {
	return nil
}
