// Package store provides flat Load/Save persistence backends. The engine
// only ever reads and writes whole lists keyed by name, so the interface is
// deliberately minimal and the storage technology can vary freely.
package store

import "context"

// Store is the persistence capability injected into the engine.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
	Close() error
}
