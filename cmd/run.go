package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dost0092/hotel-mapped-url/internal/crawler"
	"github.com/dost0092/hotel-mapped-url/internal/model"
	"github.com/dost0092/hotel-mapped-url/internal/reconcile"
	"github.com/dost0092/hotel-mapped-url/internal/registry"
	"github.com/dost0092/hotel-mapped-url/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one reconciliation run",
	Long:  "Crawls every configured location, matches the discovered hotels against the master registry, persists the outcomes, and prints the run summary.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("reconcile"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		summary, err := runReconciliation(ctx, st, newCrawler())
		if err != nil {
			return err
		}

		// Print the run summary JSON to stdout
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func newCrawler() *crawler.Crawler {
	return crawler.New(crawler.Config{
		Headless:   cfg.Crawler.Headless,
		NavTimeout: cfg.Crawler.NavTimeout,
		RetryLimit: cfg.Crawler.RetryLimit,
		RetryDelay: cfg.Crawler.RetryDelay,
		RateLimit:  rate.Limit(cfg.Crawler.RateLimit),
		Burst:      cfg.Crawler.Burst,
		ChromePath: cfg.Crawler.ChromePath,
	})
}

// runReconciliation executes one full reconciliation: load the seed
// locations, open a browser session for the run, and drive the engine.
// The session is released on every exit path.
func runReconciliation(ctx context.Context, st store.Store, cr *crawler.Crawler) (model.RunSummary, error) {
	locations, err := crawler.LoadLocations(cfg.Locations.Path)
	if err != nil {
		return model.RunSummary{}, err
	}
	zap.L().Info("locations loaded",
		zap.String("path", cfg.Locations.Path),
		zap.Int("count", len(locations)),
	)

	session, err := cr.Acquire(ctx)
	if err != nil {
		return model.RunSummary{}, err
	}
	defer session.Close()

	engine := reconcile.NewEngine(
		registry.Loader{
			Path:       cfg.Registry.Path,
			SheetIndex: cfg.Registry.SheetIndex,
			SheetName:  cfg.Registry.SheetName,
		},
		session,
		st,
		store.SnapshotWriter{Path: cfg.Snapshot.Path},
		reconcile.Config{Threshold: cfg.Matching.FuzzyThreshold},
	)
	return engine.Run(ctx, locations)
}
