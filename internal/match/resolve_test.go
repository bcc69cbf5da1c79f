package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dost0092/hotel-mapped-url/internal/model"
)

func TestResolve_FullAddress(t *testing.T) {
	rec := Resolve(model.DiscoveredRecord{
		Name:    "Hôtel Le Grand",
		Address: "123 Pike St, Seattle, WA 98101, United States",
		URL:     "https://example.com/hotel",
	})

	assert.Equal(t, "Seattle", rec.City)
	assert.Equal(t, "WA", rec.State)
	assert.Equal(t, "United States", rec.Country)
	assert.Equal(t, "hotel le grand", rec.NameKey)
	assert.Equal(t, "seattle", rec.CityKey)
	assert.Equal(t, "WA", rec.StateCode)
	assert.Equal(t, "US", rec.CountryCode)
	assert.True(t, rec.Resolvable())
}

func TestResolve_StateTokenWithZip(t *testing.T) {
	rec := Resolve(model.DiscoveredRecord{Name: "Inn", Address: "Portland, OR 97201, USA"})

	assert.Equal(t, "Portland", rec.City)
	assert.Equal(t, "OR", rec.State)
	assert.Equal(t, "OR", rec.StateCode)
	assert.Equal(t, "US", rec.CountryCode)
}

func TestResolve_EmptyAddressUnresolvable(t *testing.T) {
	rec := Resolve(model.DiscoveredRecord{Name: "Mystery Inn", Address: ""})

	assert.Empty(t, rec.City)
	assert.Empty(t, rec.CityKey)
	assert.Empty(t, rec.CountryCode)
	assert.Equal(t, "mystery inn", rec.NameKey)
	assert.False(t, rec.Resolvable())
}

func TestResolve_PreservesRawFields(t *testing.T) {
	in := model.DiscoveredRecord{
		Name:    "Hilton Downtown",
		Address: "Seattle, WA 98101, USA",
		URL:     "https://example.com/hotels/hilton",
	}
	rec := Resolve(in)

	assert.Equal(t, in.Name, rec.Name)
	assert.Equal(t, in.Address, rec.Address)
	assert.Equal(t, in.URL, rec.URL)
}
