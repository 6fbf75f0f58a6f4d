package store

import (
	"context"

	"github.com/pbaille/mindguard/internal/domain"
)

// Store is the append-only history of mood entries.
// All returns entries in insertion order, which is also chronological order.
type Store interface {
	All(ctx context.Context) ([]domain.MoodEntry, error)
	Append(ctx context.Context, entry domain.MoodEntry) error
	// Replace swaps the whole history for entries, keeping their order
	Replace(ctx context.Context, entries []domain.MoodEntry) error
	Clear(ctx context.Context) error
	Close() error
}

// Latest returns the most recent entry, or nil when the history is empty
func Latest(ctx context.Context, s Store) (*domain.MoodEntry, error) {
	entries, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	latest := entries[len(entries)-1]
	return &latest, nil
}
