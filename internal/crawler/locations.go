package crawler

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/dost0092/hotel-mapped-url/internal/model"
)

// LoadLocations reads the crawl seed list from a JSON or YAML file, keyed on
// the file extension. Entries without a URL are dropped; an empty list is not
// an error and yields a run that discovers nothing.
func LoadLocations(path string) ([]model.Location, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "crawler: read locations %s", path)
	}

	var locs []model.Location
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &locs); err != nil {
			return nil, eris.Wrapf(err, "crawler: parse locations %s", path)
		}
	default:
		if err := json.Unmarshal(data, &locs); err != nil {
			return nil, eris.Wrapf(err, "crawler: parse locations %s", path)
		}
	}

	valid := make([]model.Location, 0, len(locs))
	for _, l := range locs {
		if strings.TrimSpace(l.URL) == "" {
			continue
		}
		valid = append(valid, l)
	}
	return valid, nil
}
