package tokenstore

import "context"

// Store persists the bearer credential across process restarts. The token
// is the only durable state of the client.
type Store interface {
	// Load returns the persisted token, or "" when none is stored.
	Load(ctx context.Context) (string, error)
	// Save writes the token, replacing any previous one.
	Save(ctx context.Context, token string) error
	// Clear removes the persisted token. Clearing an empty store is not
	// an error.
	Clear(ctx context.Context) error
}
