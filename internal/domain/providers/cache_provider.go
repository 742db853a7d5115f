package providers

import "context"

// CacheProvider is the port for key/value caching. Values are opaque bytes;
// callers that cache structs go through the JSON helpers in the cache adapter.
type CacheProvider interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache, expiring after expirationSeconds
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists in cache
	Exists(ctx context.Context, key string) (bool, error)
}
