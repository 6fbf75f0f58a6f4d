package store

import (
	"context"
	"sync"

	"github.com/pbaille/mindguard/internal/domain"
)

// Memory is an in-process Store. It is not persistent and is meant for tests
// and local experiments.
type Memory struct {
	mu      sync.RWMutex
	entries []domain.MoodEntry
}

// NewMemory creates an empty in-memory store
func NewMemory(entries ...domain.MoodEntry) *Memory {
	return &Memory{entries: append([]domain.MoodEntry(nil), entries...)}
}

func (m *Memory) All(ctx context.Context) ([]domain.MoodEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.MoodEntry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *Memory) Append(ctx context.Context, entry domain.MoodEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, entry)
	return nil
}

func (m *Memory) Replace(ctx context.Context, entries []domain.MoodEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append([]domain.MoodEntry(nil), entries...)
	return nil
}

func (m *Memory) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = nil
	return nil
}

func (m *Memory) Close() error {
	return nil
}
