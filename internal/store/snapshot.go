package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/dost0092/hotel-mapped-url/internal/model"
)

// SnapshotWriter mirrors a run's outcome set to a JSON file, one object per
// row in table column naming. The file is rewritten whole on every run, so
// it always reflects the latest run only.
type SnapshotWriter struct {
	Path string
}

// Write serializes the outcomes to the configured path. A nil or empty slice
// writes an empty JSON array rather than skipping the file, so consumers can
// distinguish "ran and found nothing" from "never ran".
func (w SnapshotWriter) Write(outcomes []model.MatchOutcome) error {
	if outcomes == nil {
		outcomes = []model.MatchOutcome{}
	}

	data, err := json.MarshalIndent(outcomes, "", "  ")
	if err != nil {
		return eris.Wrap(err, "snapshot: marshal outcomes")
	}

	if dir := filepath.Dir(w.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "snapshot: create dir %s", dir)
		}
	}
	if err := os.WriteFile(w.Path, data, 0o644); err != nil {
		return eris.Wrapf(err, "snapshot: write %s", w.Path)
	}
	return nil
}
