// Package store persists the game as named whole-object blobs.
//
// Every command writes all of its changed keys through one PutAll call so a
// restart never observes half of a transition.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrNotFound is returned by Get when a key has never been written
var ErrNotFound = errors.New("store: key not found")

// ErrCorrupt is returned by Get when a stored blob cannot be decoded. Callers
// treat the key as lost.
var ErrCorrupt = errors.New("store: corrupt value")

// Driver names accepted by Open
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Store is a key/value blob store with atomic multi-key writes
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	PutAll(ctx context.Context, entries map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Open creates the store for a driver. A positive cacheSize puts an LRU
// read cache in front of it.
func Open(driver, path string, cacheSize int, logger *zap.Logger) (Store, error) {
	var (
		s   Store
		err error
	)

	switch driver {
	case DriverFile:
		s, err = NewFileStore(path, logger)
	case DriverSQLite:
		s, err = OpenSQLite(path)
	case DriverMemory, "":
		s = NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
	if err != nil {
		return nil, err
	}

	if cacheSize > 0 {
		cached, err := NewCachedStore(s, cacheSize)
		if err != nil {
			s.Close()
			return nil, err
		}
		return cached, nil
	}
	return s, nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
