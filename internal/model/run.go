package model

import "time"

// RunStatus represents the current state of a reconciliation run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Location is one entry of the crawl seed list: a landing page that links out
// to individual property pages.
type Location struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	URL  string `json:"url" yaml:"url"`
}

// RunSummary is the audit record for a single reconciliation run.
type RunSummary struct {
	ID         string    `json:"id"`
	Status     RunStatus `json:"status"`
	Locations  int       `json:"locations"`
	Discovered int       `json:"discovered"`
	Skipped    int       `json:"skipped"`
	Matched    int       `json:"matched"`
	Unmatched  int       `json:"unmatched"`
	Inserted   int64     `json:"inserted"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Outcomes returns the number of outcomes accumulated by the run.
func (s RunSummary) Outcomes() int {
	return s.Matched + s.Unmatched
}
