package crawler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLocations(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadLocations_JSON(t *testing.T) {
	path := writeLocations(t, "locations.json", `[
		{"name": "Hyatt", "url": "https://www.guestreservations.com/en/hyatt-hotels"},
		{"name": "Marriott", "url": "https://www.guestreservations.com/en/marriott-hotels"}
	]`)

	locs, err := LoadLocations(path)
	require.NoError(t, err)
	require.Len(t, locs, 2)
	assert.Equal(t, "Hyatt", locs[0].Name)
	assert.Equal(t, "https://www.guestreservations.com/en/hyatt-hotels", locs[0].URL)
	assert.Equal(t, "Marriott", locs[1].Name)
}

func TestLoadLocations_YAML(t *testing.T) {
	path := writeLocations(t, "locations.yaml",
		"- name: Hyatt\n  url: https://www.guestreservations.com/en/hyatt-hotels\n"+
			"- name: Marriott\n  url: https://www.guestreservations.com/en/marriott-hotels\n")

	locs, err := LoadLocations(path)
	require.NoError(t, err)
	require.Len(t, locs, 2)
	assert.Equal(t, "Hyatt", locs[0].Name)
}

func TestLoadLocations_YMLExtension(t *testing.T) {
	path := writeLocations(t, "locations.yml",
		"- url: https://www.guestreservations.com/en/hyatt-hotels\n")

	locs, err := LoadLocations(path)
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Empty(t, locs[0].Name, "name is optional")
}

func TestLoadLocations_SkipsEntriesWithoutURL(t *testing.T) {
	path := writeLocations(t, "locations.json", `[
		{"name": "Hyatt", "url": "https://www.guestreservations.com/en/hyatt-hotels"},
		{"name": "Broken", "url": ""},
		{"name": "AlsoBroken", "url": "   "}
	]`)

	locs, err := LoadLocations(path)
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, "Hyatt", locs[0].Name)
}

func TestLoadLocations_EmptyListAllowed(t *testing.T) {
	path := writeLocations(t, "locations.json", `[]`)

	locs, err := LoadLocations(path)
	require.NoError(t, err)
	assert.Empty(t, locs)
}

func TestLoadLocations_FileMissing(t *testing.T) {
	_, err := LoadLocations(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read locations")
}

func TestLoadLocations_MalformedJSON(t *testing.T) {
	path := writeLocations(t, "locations.json", `[{"name": "Hyatt"`)

	_, err := LoadLocations(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse locations")
}

func TestLoadLocations_MalformedYAML(t *testing.T) {
	path := writeLocations(t, "locations.yaml", "- name: [unclosed\n")

	_, err := LoadLocations(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse locations")
}
