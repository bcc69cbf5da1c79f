package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dost0092/hotel-mapped-url/internal/model"
	"github.com/dost0092/hotel-mapped-url/internal/normalize"
)

func discovered(name, address string) model.DiscoveredRecord {
	return Resolve(model.DiscoveredRecord{Name: name, Address: address, URL: "https://example.com/hotel"})
}

func masterRow(id, name, city, state, country string) model.MasterProperty {
	lat, lon := 47.6, -122.3
	return model.MasterProperty{
		PropertyID:  id,
		Name:        name,
		City:        city,
		State:       state,
		Country:     country,
		Latitude:    &lat,
		Longitude:   &lon,
		NameKey:     normalize.Name(name),
		CityKey:     normalize.Name(city),
		StateCode:   normalize.StateCode(state),
		CountryCode: normalize.CountryCode(country),
	}
}

func TestDecide_MatchAboveThreshold(t *testing.T) {
	rec := discovered("Hilton Downtown", "Seattle, WA 98101, United States")
	master := masterRow("GP-100", "Hilton Seattle Downtown", "Seattle", "WA", "US")

	candidates := FilterCandidates([]model.MasterProperty{master}, rec)
	require.Len(t, candidates, 1)

	out := Decide(rec, candidates, 85)
	require.True(t, out.Matched())
	assert.Equal(t, "GP-100", *out.HotelCode)
	assert.Equal(t, "Hilton Seattle Downtown", *out.GlobalPropertyName)
	assert.GreaterOrEqual(t, out.MatchConfidence, 85.0)
	assert.Equal(t, "Hilton Downtown", out.ScrapedHotelName)
	assert.Equal(t, "Seattle", out.City)
	assert.Equal(t, "WA", *out.StateCode)
	assert.Equal(t, "US", *out.CountryCode)
	require.NotNil(t, out.Latitude)
	assert.InDelta(t, 47.6, *out.Latitude, 0.001)
}

func TestDecide_NoSharedTokens(t *testing.T) {
	rec := discovered("Coastal Breeze Lodge", "Seattle, WA 98101, USA")
	candidates := []model.MasterProperty{
		masterRow("GP-1", "Hilton Seattle Downtown", "Seattle", "WA", "US"),
		masterRow("GP-2", "Marriott Waterfront", "Seattle", "WA", "US"),
	}

	out := Decide(rec, candidates, 85)
	assert.False(t, out.Matched())
	assert.Nil(t, out.HotelCode)
	assert.Nil(t, out.GlobalPropertyName)
	assert.Nil(t, out.Latitude)
	assert.Nil(t, out.Longitude)
	assert.Equal(t, 0.0, out.MatchConfidence)
}

func TestDecide_EmptyCandidateSet(t *testing.T) {
	rec := discovered("Hilton Downtown", "Seattle, WA 98101, USA")
	out := Decide(rec, nil, 85)
	assert.False(t, out.Matched())
	assert.Equal(t, 0.0, out.MatchConfidence)
	assert.Equal(t, "Seattle", out.City)
	assert.Equal(t, "https://example.com/hotel", out.URL)
}

func TestDecide_TieFirstWins(t *testing.T) {
	rec := discovered("Hilton Downtown", "Seattle, WA 98101, USA")
	candidates := []model.MasterProperty{
		masterRow("GP-A", "Hilton Seattle Downtown", "Seattle", "WA", "US"),
		masterRow("GP-B", "Hilton Seattle Downtown", "Seattle", "WA", "US"),
	}

	out := Decide(rec, candidates, 85)
	require.True(t, out.Matched())
	assert.Equal(t, "GP-A", *out.HotelCode)
}

func TestDecide_ExactThresholdMatches(t *testing.T) {
	rec := discovered("Hilton Downtown", "Seattle, WA 98101, USA")
	master := masterRow("GP-1", "Hilton Downtown", "Seattle", "WA", "US")

	out := Decide(rec, []model.MasterProperty{master}, 100)
	require.True(t, out.Matched())
	assert.Equal(t, 100.0, out.MatchConfidence)
}

func TestDecide_BelowThresholdKeepsGeography(t *testing.T) {
	rec := discovered("Grand Hotel", "Seattle, WA 98101, USA")
	master := masterRow("GP-1", "Grand Plaza", "Seattle", "WA", "US")

	out := Decide(rec, []model.MasterProperty{master}, 85)
	assert.False(t, out.Matched())
	assert.Equal(t, "Grand Hotel", out.ScrapedHotelName)
	assert.Equal(t, "Seattle", out.City)
	assert.Equal(t, "WA", *out.StateCode)
	assert.Equal(t, "US", *out.CountryCode)
	assert.Equal(t, "Seattle, WA 98101, USA", out.Address)
}

func TestDecide_ConfidenceCodeInvariant(t *testing.T) {
	recs := []model.DiscoveredRecord{
		discovered("Hilton Downtown", "Seattle, WA 98101, USA"),
		discovered("Coastal Breeze Lodge", "Seattle, WA 98101, USA"),
		discovered("Grand Hotel", "Seattle, WA 98101, USA"),
	}
	registry := []model.MasterProperty{
		masterRow("GP-1", "Hilton Seattle Downtown", "Seattle", "WA", "US"),
		masterRow("GP-2", "Grand Plaza", "Seattle", "WA", "US"),
	}

	for _, rec := range recs {
		out := Decide(rec, FilterCandidates(registry, rec), 85)
		assert.Equal(t, out.MatchConfidence >= 85, out.HotelCode != nil, "record %q", rec.Name)
	}
}
