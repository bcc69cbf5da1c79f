// Package store persists match outcomes and run records behind a driver
// agnostic interface, with Postgres and SQLite implementations.
package store

import (
	"context"

	"github.com/dost0092/hotel-mapped-url/internal/model"
)

// DefaultTable is the outcome table used when no override is configured.
const DefaultTable = "hotel_mapped_url"

// Store defines the persistence interface for reconciliation results.
type Store interface {
	// Outcomes
	InsertOutcomes(ctx context.Context, outcomes []model.MatchOutcome) (int64, error)

	// Run records
	SaveRun(ctx context.Context, run model.RunSummary) error
	ListRuns(ctx context.Context, limit int) ([]model.RunSummary, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// outcomeColumns is the column order shared by the Postgres and SQLite
// writers. outcomeRow must stay in lockstep with it.
var outcomeColumns = []string{
	"hotel_code", "scraped_hotel_name", "global_property_name",
	"city", "state", "state_code", "country", "country_code",
	"url", "address", "latitude", "longitude", "match_confidence",
}

func outcomeRow(o model.MatchOutcome) []any {
	return []any{
		o.HotelCode, o.ScrapedHotelName, o.GlobalPropertyName,
		o.City, o.State, o.StateCode, o.Country, o.CountryCode,
		o.URL, o.Address, o.Latitude, o.Longitude, o.MatchConfidence,
	}
}
