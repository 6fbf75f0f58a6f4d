// Package storetest holds the contract every store.Store implementation
// must satisfy, shared by the backend test suites.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/pbaille/mindguard/internal/domain"
	"github.com/pbaille/mindguard/internal/store"
)

// SampleEntries returns three valid entries an hour apart starting at base
func SampleEntries(base time.Time) []domain.MoodEntry {
	return []domain.MoodEntry{
		{
			ID: "e1", Date: base, CreatedAt: base, Mood: 7, Text: "Happy day",
			Sentiment: domain.SentimentPositive, RiskLevel: domain.RiskLow, Confidence: 0.15,
		},
		{
			ID: "e2", Date: base.Add(time.Hour), CreatedAt: base.Add(time.Hour), Mood: 3, Text: "sad tired lonely",
			Sentiment: domain.SentimentNegative, RiskLevel: domain.RiskLow, Confidence: 0.6,
		},
		{
			ID: "e3", Date: base.Add(2 * time.Hour), CreatedAt: base.Add(2 * time.Hour), Mood: 5, Text: "",
			Sentiment: domain.SentimentNeutral, RiskLevel: domain.RiskLow, Confidence: 0.6,
		},
	}
}

// AssertSameEntries compares every stored field, times by instant
func AssertSameEntries(t *testing.T, got, want []domain.MoodEntry) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		g, w := got[i], want[i]
		if g.ID != w.ID || g.Mood != w.Mood || g.Text != w.Text ||
			g.Sentiment != w.Sentiment || g.RiskLevel != w.RiskLevel || g.Confidence != w.Confidence {
			t.Fatalf("entry %d: got %+v, want %+v", i, g, w)
		}
		if !g.Date.Equal(w.Date) || !g.CreatedAt.Equal(w.CreatedAt) {
			t.Fatalf("entry %d: times got %s/%s, want %s/%s", i, g.Date, g.CreatedAt, w.Date, w.CreatedAt)
		}
	}
}

// Exercise runs the Store contract against an empty store
func Exercise(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()
	// Firestore truncates to microseconds
	base := time.Date(2026, 3, 1, 9, 30, 0, 123456000, time.UTC)
	entries := SampleEntries(base)

	all, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All on empty store failed: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty history, got %d", len(all))
	}
	latest, err := store.Latest(ctx, s)
	if err != nil || latest != nil {
		t.Fatalf("Latest on empty store = %v, %v", latest, err)
	}

	for _, e := range entries {
		if err := s.Append(ctx, e); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	all, err = s.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	AssertSameEntries(t, all, entries)

	latest, err = store.Latest(ctx, s)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest == nil || latest.ID != "e3" {
		t.Fatalf("expected latest e3, got %+v", latest)
	}

	// insertion order wins over timestamps
	reordered := []domain.MoodEntry{entries[2], entries[0]}
	if err := s.Replace(ctx, reordered); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	all, err = s.All(ctx)
	if err != nil {
		t.Fatalf("All after Replace failed: %v", err)
	}
	AssertSameEntries(t, all, reordered)

	if err := s.Replace(ctx, nil); err != nil {
		t.Fatalf("Replace with empty history failed: %v", err)
	}
	all, err = s.All(ctx)
	if err != nil {
		t.Fatalf("All after empty Replace failed: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty history after empty Replace, got %d", len(all))
	}

	if err := s.Replace(ctx, entries); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	all, err = s.All(ctx)
	if err != nil {
		t.Fatalf("All after Clear failed: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty history after Clear, got %d", len(all))
	}
}
