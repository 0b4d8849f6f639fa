package cache

import (
	"time"
)

// CacheService represents a generic expiring cache. The worker uses it
// to hold short-lived render-block keys: once the source site rate
// limits us, a block key suppresses further render attempts until it
// expires.
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}
