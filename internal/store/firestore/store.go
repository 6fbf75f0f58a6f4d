package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/pbaille/mindguard/internal/domain"
)

const collection = "mood_entries"

// Store keeps the mood history in a Firestore collection.
// Documents carry a seq field that preserves insertion order.
type Store struct {
	client *firestore.Client
	now    func() time.Time
}

// NewStore creates a Firestore store for projectID
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type entryDoc struct {
	Seq        int64     `firestore:"seq"`
	Date       time.Time `firestore:"date"`
	Mood       int       `firestore:"mood"`
	Text       string    `firestore:"text"`
	Sentiment  string    `firestore:"sentiment"`
	RiskLevel  string    `firestore:"risk_level"`
	Confidence float64   `firestore:"confidence"`
	CreatedAt  time.Time `firestore:"created_at"`
}

func toDoc(e domain.MoodEntry, seq int64) entryDoc {
	return entryDoc{
		Seq:        seq,
		Date:       e.Date,
		Mood:       e.Mood,
		Text:       e.Text,
		Sentiment:  string(e.Sentiment),
		RiskLevel:  string(e.RiskLevel),
		Confidence: e.Confidence,
		CreatedAt:  e.CreatedAt,
	}
}

func fromDoc(id string, d entryDoc) domain.MoodEntry {
	return domain.MoodEntry{
		ID:         id,
		Date:       d.Date,
		Mood:       d.Mood,
		Text:       d.Text,
		Sentiment:  domain.Sentiment(d.Sentiment),
		RiskLevel:  domain.RiskLevel(d.RiskLevel),
		Confidence: d.Confidence,
		CreatedAt:  d.CreatedAt,
	}
}

// ─────────────────────────────────────────
// store.Store implementation
// ─────────────────────────────────────────

func (s *Store) Append(ctx context.Context, entry domain.MoodEntry) error {
	doc := toDoc(entry, s.now().UnixNano())

	// Create fails if the id is already taken, keeping entries immutable
	if _, err := s.client.Collection(collection).Doc(entry.ID).Create(ctx, doc); err != nil {
		return fmt.Errorf("firestore Append: %w", err)
	}
	return nil
}

func (s *Store) All(ctx context.Context) ([]domain.MoodEntry, error) {
	iter := s.client.Collection(collection).OrderBy("seq", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	out := []domain.MoodEntry{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestore All: %w", err)
		}

		var doc entryDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode entryDoc: %w", err)
		}
		out = append(out, fromDoc(snap.Ref.ID, doc))
	}
	return out, nil
}

// Replace is not atomic across documents; a concurrent writer may interleave
func (s *Store) Replace(ctx context.Context, entries []domain.MoodEntry) error {
	if err := s.Clear(ctx); err != nil {
		return err
	}

	bw := s.client.BulkWriter(ctx)
	jobs := make([]writeJob, 0, len(entries))
	base := s.now().UnixNano()
	for i, e := range entries {
		ref := s.client.Collection(collection).Doc(e.ID)
		job, err := bw.Set(ref, toDoc(e, base+int64(i)))
		if err != nil {
			bw.End()
			return fmt.Errorf("firestore Replace: %w", err)
		}
		jobs = append(jobs, job)
	}

	if err := flush(bw.End, jobs); err != nil {
		return fmt.Errorf("firestore Replace: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	// Read every ref first so a failed listing deletes nothing
	refs, err := s.client.Collection(collection).DocumentRefs(ctx).GetAll()
	if err != nil {
		return fmt.Errorf("firestore Clear: %w", err)
	}
	if len(refs) == 0 {
		return nil
	}

	bw := s.client.BulkWriter(ctx)
	jobs := make([]writeJob, 0, len(refs))
	for _, ref := range refs {
		job, err := bw.Delete(ref)
		if err != nil {
			bw.End()
			return fmt.Errorf("firestore Clear: %w", err)
		}
		jobs = append(jobs, job)
	}

	if err := flush(bw.End, jobs); err != nil {
		return fmt.Errorf("firestore Clear: %w", err)
	}
	return nil
}

// writeJob is the part of *firestore.BulkWriterJob flush needs
type writeJob interface {
	Results() (*firestore.WriteResult, error)
}

// flush ends the bulk writer and returns the first failed write among jobs.
// Job results are only final once end has returned.
func flush(end func(), jobs []writeJob) error {
	end()

	var errs []error
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d of %d writes failed: %w", len(errs), len(jobs), errs[0])
	}
	return nil
}
