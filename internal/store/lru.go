// internal/store/lru.go
//
// Bounded in-memory store of live riddles.
// Characteristics:
//   - Keeps the most recently used riddles, keyed by riddle ID.
//   - Evicting a riddle is its only cleanup; a player can resume an
//     evicted, unsolved riddle from the database.
//   - Safe for concurrent use (the LRU cache carries its own lock).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/robalobadob/craftle/internal/game"
)

// DefaultSize is the capacity used when none is configured.
const DefaultSize = 4096

// ErrNotFound is returned by Get for unknown or evicted riddles.
var ErrNotFound = errors.New("store: riddle not found")

// Store defines the live-session interface.
type Store interface {
	// Save adds or refreshes a riddle.
	Save(ctx context.Context, r *game.Riddle) error

	// Get retrieves a riddle by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*game.Riddle, error)

	// Remove drops a riddle if present.
	Remove(ctx context.Context, id string)

	// Len reports the number of live riddles.
	Len() int
}

type lruStore struct {
	cache *lru.Cache[string, *game.Riddle]
}

// NewLRU constructs a Store holding at most size riddles.
func NewLRU(size int) (Store, error) {
	if size <= 0 {
		size = DefaultSize
	}
	c, err := lru.New[string, *game.Riddle](size)
	if err != nil {
		return nil, err
	}
	return &lruStore{cache: c}, nil
}

func (s *lruStore) Save(_ context.Context, r *game.Riddle) error {
	s.cache.Add(r.ID, r)
	return nil
}

func (s *lruStore) Get(_ context.Context, id string) (*game.Riddle, error) {
	if r, ok := s.cache.Get(id); ok {
		return r, nil
	}
	return nil, ErrNotFound
}

func (s *lruStore) Remove(_ context.Context, id string) { s.cache.Remove(id) }

func (s *lruStore) Len() int { return s.cache.Len() }
