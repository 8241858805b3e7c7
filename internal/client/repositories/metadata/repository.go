// Package metadata is the CLI's key/value store for session state (tokens and
// the signed-in user), kept in the local SQLite database.
package metadata

import (
	"context"
)

// Store holds one flat set of byte values. Replace swaps the whole set at
// once, so readers never see a mix of two sessions.
type Store interface {
	Load(ctx context.Context) (map[string][]byte, error)
	Replace(ctx context.Context, values map[string][]byte) error
	Clear(ctx context.Context) error
}
