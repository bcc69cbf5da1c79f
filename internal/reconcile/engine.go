// Package reconcile orchestrates a full identity resolution run: load the
// master registry, crawl the seed locations, score every discovered record
// against its geographic candidates, and persist the outcome set.
package reconcile

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dost0092/hotel-mapped-url/internal/match"
	"github.com/dost0092/hotel-mapped-url/internal/model"
)

const (
	// DefaultThreshold is the minimum confidence for linking a discovered
	// record to a master property.
	DefaultThreshold = 85

	scoreWorkers = 8
)

// RegistrySource loads the canonical master registry for a run.
type RegistrySource interface {
	Load(ctx context.Context) ([]model.MasterProperty, error)
}

// Collector yields the property records discovered behind one location's
// landing page.
type Collector interface {
	Collect(ctx context.Context, loc model.Location) ([]model.DiscoveredRecord, error)
}

// OutcomeStore persists match outcomes and run records.
type OutcomeStore interface {
	InsertOutcomes(ctx context.Context, outcomes []model.MatchOutcome) (int64, error)
	SaveRun(ctx context.Context, run model.RunSummary) error
}

// SnapshotWriter mirrors a run's outcome set to a file.
type SnapshotWriter interface {
	Write(outcomes []model.MatchOutcome) error
}

// Config tunes a reconciliation engine.
type Config struct {
	// Threshold is the minimum match confidence. Zero means DefaultThreshold.
	Threshold float64
}

// Engine drives one reconciliation run end to end.
type Engine struct {
	registry  RegistrySource
	collector Collector
	store     OutcomeStore
	snapshot  SnapshotWriter
	threshold float64
}

// NewEngine wires a reconciliation engine from its collaborators.
func NewEngine(registry RegistrySource, collector Collector, store OutcomeStore, snapshot SnapshotWriter, cfg Config) *Engine {
	threshold := cfg.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Engine{
		registry:  registry,
		collector: collector,
		store:     store,
		snapshot:  snapshot,
		threshold: threshold,
	}
}

// Run executes a reconciliation run over the given seed locations and returns
// its summary. A failed location is logged and skipped; registry, persistence
// and snapshot failures abort the run. The returned summary is also persisted
// as the run's audit record.
func (e *Engine) Run(ctx context.Context, locations []model.Location) (model.RunSummary, error) {
	log := zap.L().With(zap.String("component", "reconcile.engine"))

	run := model.RunSummary{
		ID:        uuid.NewString(),
		Status:    model.RunStatusRunning,
		Locations: len(locations),
		StartedAt: time.Now().UTC(),
	}
	if err := e.store.SaveRun(ctx, run); err != nil {
		log.Warn("failed to record run start", zap.Error(err))
	}

	registry, err := e.registry.Load(ctx)
	if err != nil {
		return e.fail(ctx, log, run, nil, eris.Wrap(err, "reconcile: load registry"))
	}
	log.Info("master registry loaded", zap.Int("properties", len(registry)))

	var outcomes []model.MatchOutcome
	for _, loc := range locations {
		select {
		case <-ctx.Done():
			return e.fail(ctx, log, run, outcomes, ctx.Err())
		default:
		}

		locLog := log.With(zap.String("location", loc.URL))

		records, err := e.collector.Collect(ctx, loc)
		if err != nil {
			if ctx.Err() != nil {
				return e.fail(ctx, log, run, outcomes, eris.Wrapf(err, "reconcile: collect %s", loc.URL))
			}
			locLog.Error("collection failed, skipping location", zap.Error(err))
			continue
		}
		run.Discovered += len(records)

		resolved := make([]model.DiscoveredRecord, 0, len(records))
		for _, rec := range records {
			rec = match.Resolve(rec)
			if !rec.Resolvable() {
				locLog.Debug("record not resolvable, skipping",
					zap.String("name", rec.Name),
					zap.String("url", rec.URL),
				)
				run.Skipped++
				continue
			}
			resolved = append(resolved, rec)
		}

		scored, err := e.score(ctx, registry, resolved)
		if err != nil {
			return e.fail(ctx, log, run, outcomes, err)
		}
		for _, out := range scored {
			if out.Matched() {
				run.Matched++
			} else {
				run.Unmatched++
			}
		}

		if len(scored) > 0 {
			n, err := e.store.InsertOutcomes(ctx, scored)
			if err != nil {
				return e.fail(ctx, log, run, outcomes, eris.Wrapf(err, "reconcile: persist outcomes for %s", loc.URL))
			}
			run.Inserted += n
		}
		outcomes = append(outcomes, scored...)

		locLog.Info("location reconciled",
			zap.Int("discovered", len(records)),
			zap.Int("scored", len(scored)),
		)
	}

	if err := e.snapshot.Write(outcomes); err != nil {
		return e.fail(ctx, log, run, outcomes, eris.Wrap(err, "reconcile: write snapshot"))
	}

	run.Status = model.RunStatusComplete
	run.FinishedAt = time.Now().UTC()
	if err := e.store.SaveRun(ctx, run); err != nil {
		log.Warn("failed to record run completion", zap.Error(err))
	}

	log.Info("run complete",
		zap.String("run", run.ID),
		zap.Int("locations", run.Locations),
		zap.Int("discovered", run.Discovered),
		zap.Int("skipped", run.Skipped),
		zap.Int("matched", run.Matched),
		zap.Int("unmatched", run.Unmatched),
		zap.Int64("inserted", run.Inserted),
	)
	return run, nil
}

// score resolves each record's outcome against the registry. Records are
// scored concurrently; the result keeps the input order.
func (e *Engine) score(ctx context.Context, registry []model.MasterProperty, records []model.DiscoveredRecord) ([]model.MatchOutcome, error) {
	outcomes := make([]model.MatchOutcome, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(scoreWorkers)
	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			candidates := match.FilterCandidates(registry, rec)
			outcomes[i] = match.Decide(rec, candidates, e.threshold)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// fail finalizes the run record and snapshot after an unrecoverable error.
// Outcomes accumulated before the failure still reach the snapshot so the
// file mirrors everything persisted so far.
func (e *Engine) fail(ctx context.Context, log *zap.Logger, run model.RunSummary, outcomes []model.MatchOutcome, cause error) (model.RunSummary, error) {
	run.Status = model.RunStatusFailed
	run.Error = cause.Error()
	run.FinishedAt = time.Now().UTC()

	if err := e.snapshot.Write(outcomes); err != nil {
		log.Error("failed to write snapshot for failed run", zap.Error(err))
	}
	if err := e.store.SaveRun(ctx, run); err != nil {
		log.Error("failed to record run failure", zap.Error(err))
	}

	log.Error("run failed", zap.String("run", run.ID), zap.Error(cause))
	return run, cause
}
