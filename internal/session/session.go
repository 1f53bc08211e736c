// Package session implements the dashboard's durable session state and its
// cross-client synchronization. Storage is modeled as a key-value store
// plus a publish/subscribe wake-up channel; the browser localStorage +
// storage-event transport this mirrors is just one adapter of that pair.
package session

import "context"

// Storage keys. These are a compatibility contract shared with every
// dashboard client of the same origin; renaming one breaks cross-tab sync.
const (
	KeyUser     = "auth.user"
	KeyToken    = "auth.token"
	KeySync     = "auth.sync"
	KeySettings = "app.settings"
)

// KV is durable last-write-wins storage shared by all clients of one
// origin. Implementations must tolerate concurrent writers in other
// processes; callers never rely on read-modify-write atomicity.
type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
