package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pbaille/mindguard/internal/classifier"
	"github.com/pbaille/mindguard/internal/domain"
	"github.com/pbaille/mindguard/internal/monitor"
	"github.com/pbaille/mindguard/internal/observability"
	"github.com/pbaille/mindguard/internal/store"
	"github.com/pbaille/mindguard/internal/trends"
)

var (
	ErrEmptyText     = errors.New("text is required")
	ErrInvalidImport = errors.New("invalid import")
)

// Service runs the journal flow: classify, respond, append, and the
// read side for dashboards and the attention check.
type Service struct {
	classifier *classifier.Classifier
	store      store.Store
	now        func() time.Time
	newID      func() string
}

// NewService creates a journal service over a store
func NewService(c *classifier.Classifier, s store.Store) *Service {
	return &Service{
		classifier: c,
		store:      s,
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
	}
}

// WithClock replaces the time source, mostly for tests
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type SubmitInput struct {
	Text string
	Mood int
}

type SubmitOutput struct {
	Entry          domain.MoodEntry
	Response       string
	NeedsAttention bool
}

// Submit classifies text, stores the resulting entry and returns the
// supportive response for it.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*SubmitOutput, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, ErrEmptyText
	}

	result := s.classifier.Classify(in.Text)
	entry := domain.NewMoodEntry(s.newID(), s.now(), in.Mood, in.Text, result)
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	log := observability.LoggerFromContext(ctx).With(
		"entry_id", entry.ID,
		"mood", entry.Mood,
		"sentiment", entry.Sentiment,
		"risk_level", entry.RiskLevel,
	)

	if err := s.store.Append(ctx, entry); err != nil {
		log.Error("failed to append entry", "error", err)
		return nil, fmt.Errorf("append entry: %w", err)
	}

	attention := monitor.NeedsAttention(&entry)
	if attention {
		log.Warn("entry needs attention")
	} else {
		log.Info("entry submitted")
	}

	frozen := entry.Classification()
	return &SubmitOutput{
		Entry:          entry,
		Response:       classifier.Respond(frozen.Sentiment, frozen.RiskLevel),
		NeedsAttention: attention,
	}, nil
}

// Preview classifies text without storing anything
func (s *Service) Preview(text string) (classifier.Explanation, string) {
	ex := s.classifier.Explain(text)
	return ex, classifier.Respond(ex.Sentiment, ex.RiskLevel)
}

// History returns every entry in insertion order
func (s *Service) History(ctx context.Context) ([]domain.MoodEntry, error) {
	entries, err := s.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return entries, nil
}

// Trends aggregates the full history for a window, as of now
func (s *Service) Trends(ctx context.Context, window trends.Window) (trends.Report, error) {
	history, err := s.History(ctx)
	if err != nil {
		return trends.Report{}, err
	}

	report := trends.Aggregate(history, window, s.now())
	observability.LoggerFromContext(ctx).Debug("trends aggregated",
		"window", window,
		"count", report.Count,
		"average", report.Average,
	)
	return report, nil
}

type Status struct {
	NeedsAttention bool
	Latest         *domain.MoodEntry
}

// Status evaluates the attention predicate over the latest entry.
// It is recomputed on every call.
func (s *Service) Status(ctx context.Context) (Status, error) {
	latest, err := store.Latest(ctx, s.store)
	if err != nil {
		return Status{}, fmt.Errorf("read latest entry: %w", err)
	}
	return Status{
		NeedsAttention: monitor.NeedsAttention(latest),
		Latest:         latest,
	}, nil
}

// Import replaces the whole history after validating every entry
func (s *Service) Import(ctx context.Context, entries []domain.MoodEntry) error {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			return fmt.Errorf("%w: entry without id", ErrInvalidImport)
		}
		if seen[e.ID] {
			return fmt.Errorf("%w: duplicate id %s", ErrInvalidImport, e.ID)
		}
		seen[e.ID] = true
		if err := e.Validate(); err != nil {
			return fmt.Errorf("import: %w", err)
		}
	}

	if err := s.store.Replace(ctx, entries); err != nil {
		return fmt.Errorf("replace history: %w", err)
	}
	observability.LoggerFromContext(ctx).Info("history replaced", "count", len(entries))
	return nil
}

// Clear drops the whole history
func (s *Service) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	observability.LoggerFromContext(ctx).Info("history cleared")
	return nil
}
