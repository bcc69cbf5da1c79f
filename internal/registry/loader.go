// Package registry loads the canonical master registry from the masterfile
// workbook and precomputes the matching keys for every row.
package registry

import (
	"context"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/dost0092/hotel-mapped-url/internal/model"
	"github.com/dost0092/hotel-mapped-url/internal/normalize"
)

// Required masterfile columns, located case-insensitively in the header row.
const (
	colPropertyID = "global property id"
	colName       = "global property name"
	colCity       = "property city name"
	colState      = "property state/province"
	colCountry    = "property country code"
	colLatitude   = "property latitude"
	colLongitude  = "property longitude"
)

var requiredColumns = []string{
	colPropertyID, colName, colCity, colState, colCountry, colLatitude, colLongitude,
}

// Loader reads MasterProperty rows from an XLSX masterfile.
type Loader struct {
	Path       string
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
}

// Load reads the masterfile and returns the registry in sheet order with
// derived keys computed. Rows missing a property id or name are skipped;
// duplicate property ids keep their first occurrence. A missing file, sheet,
// or required column is a fatal error.
func (l Loader) Load(ctx context.Context) ([]model.MasterProperty, error) {
	f, err := xlsx.OpenFile(l.Path)
	if err != nil {
		return nil, eris.Wrapf(err, "registry: open masterfile %s", l.Path)
	}

	sheet, err := l.sheet(f)
	if err != nil {
		return nil, err
	}
	if len(sheet.Rows) == 0 {
		return nil, eris.Errorf("registry: masterfile %s has no header row", l.Path)
	}

	cols, err := columnIndex(sheet.Rows[0])
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []model.MasterProperty
	for _, row := range sheet.Rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "registry: load cancelled")
		}

		id := cellValue(row, cols[colPropertyID])
		name := cellValue(row, cols[colName])
		if id == "" || name == "" {
			zap.L().Debug("registry: skipping row without id or name", zap.String("id", id))
			continue
		}
		if seen[id] {
			zap.L().Warn("registry: duplicate property id, keeping first", zap.String("id", id))
			continue
		}
		seen[id] = true

		p := model.MasterProperty{
			PropertyID: id,
			Name:       name,
			City:       cellValue(row, cols[colCity]),
			State:      cellValue(row, cols[colState]),
			Country:    cellValue(row, cols[colCountry]),
			Latitude:   parseCoord(cellValue(row, cols[colLatitude])),
			Longitude:  parseCoord(cellValue(row, cols[colLongitude])),
		}
		p.NameKey = normalize.Name(p.Name)
		p.CityKey = normalize.Name(p.City)
		p.StateCode = normalize.StateCode(p.State)
		p.CountryCode = normalize.CountryCode(p.Country)

		out = append(out, p)
	}

	zap.L().Info("registry: masterfile loaded",
		zap.String("path", l.Path),
		zap.Int("properties", len(out)))
	return out, nil
}

func (l Loader) sheet(f *xlsx.File) (*xlsx.Sheet, error) {
	if l.SheetName != "" {
		sheet, ok := f.Sheet[l.SheetName]
		if !ok {
			return nil, eris.Errorf("registry: sheet %q not found", l.SheetName)
		}
		return sheet, nil
	}
	if l.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("registry: sheet index %d out of range (file has %d sheets)", l.SheetIndex, len(f.Sheets))
	}
	return f.Sheets[l.SheetIndex], nil
}

// columnIndex maps required column names to their positions in the header
// row. All required columns must be present.
func columnIndex(header *xlsx.Row) (map[string]int, error) {
	idx := make(map[string]int, len(requiredColumns))
	for j, cell := range header.Cells {
		idx[strings.ToLower(strings.TrimSpace(cell.String()))] = j
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, eris.Errorf("registry: masterfile missing required columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func cellValue(row *xlsx.Row, j int) string {
	if j >= len(row.Cells) {
		return ""
	}
	return strings.TrimSpace(row.Cells[j].String())
}

// parseCoord converts a latitude/longitude cell to a float, returning nil for
// blank or unparseable values (spreadsheet exports often carry "NaN").
func parseCoord(s string) *float64 {
	if s == "" || strings.EqualFold(s, "nan") {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
