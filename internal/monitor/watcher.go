package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pbaille/mindguard/internal/crisis"
	"github.com/pbaille/mindguard/internal/observability"
	"github.com/pbaille/mindguard/internal/store"
)

// Watcher re-checks the latest entry on a cron schedule and logs a warning
// when it needs attention.
type Watcher struct {
	store    store.Store
	schedule string
	location *time.Location
	cron     *cron.Cron
}

// NewWatcher validates schedule (standard 5-field cron) and builds a Watcher
func NewWatcher(s store.Store, schedule string, loc *time.Location) (*Watcher, error) {
	if loc == nil {
		loc = time.Local
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(schedule); err != nil {
		return nil, fmt.Errorf("invalid attention schedule %q: %w", schedule, err)
	}

	return &Watcher{
		store:    s,
		schedule: schedule,
		location: loc,
		cron:     cron.New(cron.WithParser(parser), cron.WithLocation(loc)),
	}, nil
}

// Check evaluates the latest entry once
func (w *Watcher) Check(ctx context.Context) (bool, error) {
	log := observability.LoggerFromContext(ctx).With("component", "attention_watcher")

	latest, err := store.Latest(ctx, w.store)
	if err != nil {
		log.Error("failed to read latest entry", "error", err)
		return false, err
	}

	if !NeedsAttention(latest) {
		log.Debug("latest entry does not need attention")
		return false, nil
	}

	log.Warn("latest entry needs attention",
		"entry_id", latest.ID,
		"mood", latest.Mood,
		"risk_level", latest.RiskLevel,
		"resources", crisis.Names(),
	)
	return true, nil
}

// Run schedules checks and blocks until ctx is done
func (w *Watcher) Run(ctx context.Context) error {
	_, err := w.cron.AddFunc(w.schedule, func() {
		_, _ = w.Check(ctx)
	})
	if err != nil {
		return fmt.Errorf("schedule attention check: %w", err)
	}

	observability.WithFields("component", "attention_watcher").
		Info("attention watcher started", "schedule", w.schedule, "timezone", w.location.String())
	w.cron.Start()

	<-ctx.Done()
	stopped := w.cron.Stop()
	<-stopped.Done()
	return nil
}
