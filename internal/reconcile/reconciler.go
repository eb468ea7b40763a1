// Package reconcile finalizes open auto-resolvable records against their
// linked prediction markets. It is the daily batch entry point: one failed
// market check is logged and skipped, never fatal to the batch, and resolved
// records are terminal so reruns are no-ops.
package reconcile

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"predtrack/internal/markets"
	"predtrack/internal/store"
	"predtrack/models"
)

// Summary reports what one batch run did.
type Summary struct {
	Checked  int      `json:"checked"`
	Resolved int      `json:"resolved"`
	Updated  []string `json:"updates"`
}

// Reconciler drives the batch.
type Reconciler struct {
	store    *store.Store
	registry *markets.Registry
	sinks    []models.ResolutionSink
	logger   zerolog.Logger
}

// New creates a reconciler. Sinks are optional observers of each resolution
// (audit log, notifications); their failures never fail the batch.
func New(s *store.Store, registry *markets.Registry, sinks ...models.ResolutionSink) *Reconciler {
	return &Reconciler{
		store:    s,
		registry: registry,
		sinks:    sinks,
		logger:   log.With().Str("component", "reconciler").Logger(),
	}
}

// Run checks every open record with market.autoResolve set against its
// provider and finalizes those whose market has settled. Records are
// processed one at a time; each maps to exactly one file, so writes never
// race.
func (r *Reconciler) Run(ctx context.Context) (Summary, error) {
	records, err := r.store.List()
	if err != nil {
		return Summary{}, fmt.Errorf("listing records: %w", err)
	}

	summary := Summary{Updated: []string{}}
	for _, rec := range records {
		if rec.Market == nil || !rec.Market.AutoResolve || rec.IsTerminal() {
			continue
		}
		summary.Checked++

		provider, ok := r.registry.Lookup(rec.Market.Provider)
		if !ok {
			r.logger.Warn().
				Str("id", rec.ID).
				Str("provider", rec.Market.Provider).
				Msg("Unknown market provider, skipping")
			continue
		}

		status, err := provider.Status(ctx, rec.Market.Slug)
		if err != nil {
			fetchErr := &models.MarketFetchError{Provider: rec.Market.Provider, Slug: rec.Market.Slug, Err: err}
			r.logger.Error().Err(fetchErr).Str("id", rec.ID).Msg("Market check failed, will retry next run")
			continue
		}
		if !status.Resolved {
			r.logger.Debug().Str("id", rec.ID).Float64("prob", status.CurrentProb).Msg("Market still open")
			continue
		}

		r.finalize(rec, status)
		if err := r.store.Save(rec); err != nil {
			r.logger.Error().Err(err).Str("id", rec.ID).Msg("Persisting resolution failed")
			continue
		}
		summary.Resolved++
		summary.Updated = append(summary.Updated, rec.ID)

		for _, sink := range r.sinks {
			if err := sink.RecordResolution(ctx, rec); err != nil {
				r.logger.Error().Err(err).Str("id", rec.ID).Msg("Resolution sink failed")
			}
		}
	}

	r.logger.Info().
		Int("checked", summary.Checked).
		Int("resolved", summary.Resolved).
		Msg("Reconcile run complete")
	return summary, nil
}

// finalize writes the resolution fields exactly once. The terminal-state
// guard in Run keeps this from ever running twice for a record.
func (r *Reconciler) finalize(rec *models.Record, status models.MarketStatus) {
	isCorrect := status.Outcome == models.OutcomeYes

	rec.Resolved = true
	rec.ResolvedDate = models.Today()
	if isCorrect {
		rec.Status = models.StatusCorrect
	} else {
		rec.Status = models.StatusIncorrect
	}
	rec.Resolution = fmt.Sprintf("Auto-resolved from %s market %q: outcome %s",
		rec.Market.Provider, rec.Market.Slug, status.Outcome)

	resolvedAt := status.LastUpdated
	if resolvedAt == "" {
		resolvedAt = models.NowTimestamp()
	}
	rec.Market.ResolvedAt = resolvedAt
	rec.Market.FinalProb = status.CurrentProb
	rec.Market.Outcome = status.Outcome

	r.logger.Info().
		Str("id", rec.ID).
		Str("status", rec.Status).
		Str("outcome", status.Outcome).
		Msg("Resolved record")
}
