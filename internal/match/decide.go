package match

import "github.com/dost0092/hotel-mapped-url/internal/model"

// Decide scores every candidate against the record's name key and shapes the
// outcome. The strictly highest score wins; on ties the earliest candidate in
// filter order is kept. A winning score at or above threshold produces a
// matched outcome carrying the master identity and coordinates; anything
// else, including an empty candidate set, produces an explicit no-match with
// confidence 0. Decide never fails.
func Decide(rec model.DiscoveredRecord, candidates []model.MasterProperty, threshold float64) model.MatchOutcome {
	var (
		best      *model.MasterProperty
		bestScore float64
	)
	for i := range candidates {
		if score := TokenSetRatio(rec.NameKey, candidates[i].NameKey); score > bestScore {
			bestScore = score
			best = &candidates[i]
		}
	}

	out := model.MatchOutcome{
		ScrapedHotelName: rec.Name,
		City:             rec.City,
		State:            rec.State,
		StateCode:        nullable(rec.StateCode),
		Country:          rec.Country,
		CountryCode:      nullable(rec.CountryCode),
		URL:              rec.URL,
		Address:          rec.Address,
	}

	if best != nil && bestScore >= threshold {
		out.HotelCode = nullable(best.PropertyID)
		out.GlobalPropertyName = nullable(best.Name)
		out.Latitude = best.Latitude
		out.Longitude = best.Longitude
		out.MatchConfidence = bestScore
	}
	return out
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
