package session

import (
	"context"
	"time"

	"github.com/allegro/bigcache/v3"
)

type (
	// LookupFn resolves a user id to a username against durable storage.
	LookupFn func(ctx context.Context, userID string) (string, bool, error)

	// NameCache answers "what is this user called" for page rendering
	// without hitting storage on every request. It is display-only:
	// mutations never consult it, and entries simply age out.
	NameCache struct {
		cache  *bigcache.BigCache
		lookup LookupFn
	}
)

func NewNameCache(lookup LookupFn) *NameCache {
	cache, _ := bigcache.NewBigCache(bigcache.DefaultConfig(10 * time.Minute))
	return &NameCache{cache: cache, lookup: lookup}
}

// Username resolves userID to a display name, serving from cache when it
// can. An unknown id yields ("", false, nil), same as an anonymous request.
func (n *NameCache) Username(ctx context.Context, userID string) (string, bool, error) {
	if userID == "" {
		return "", false, nil
	}
	if buf, err := n.cache.Get(userID); err == nil && len(buf) > 0 {
		return string(buf), true, nil
	}
	username, found, err := n.lookup(ctx, userID)
	if err != nil || !found {
		return "", false, err
	}
	n.cache.Set(userID, []byte(username))
	return username, true, nil
}
