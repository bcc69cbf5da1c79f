// Package match implements the identity resolution core: geographic
// candidate filtering, token-set name similarity, and the threshold decision
// that links discovered records to master registry rows.
package match

import "github.com/dost0092/hotel-mapped-url/internal/model"

// FilterCandidates narrows the master registry to rows whose geography keys
// exactly equal the record's. City and country always participate; the state
// code narrows further only when the record carries one. The result preserves
// registry order and may be empty. Geography is never fuzzy-matched.
func FilterCandidates(registry []model.MasterProperty, rec model.DiscoveredRecord) []model.MasterProperty {
	var out []model.MasterProperty
	for _, p := range registry {
		if p.CityKey != rec.CityKey || p.CountryCode != rec.CountryCode {
			continue
		}
		if rec.StateCode != "" && p.StateCode != rec.StateCode {
			continue
		}
		out = append(out, p)
	}
	return out
}
