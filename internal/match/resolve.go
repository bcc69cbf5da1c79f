package match

import (
	"github.com/dost0092/hotel-mapped-url/internal/model"
	"github.com/dost0092/hotel-mapped-url/internal/normalize"
)

// Resolve fills the derived geography and key fields of a discovered record
// from its raw name and address. It never rejects; callers gate on
// Resolvable afterwards.
func Resolve(rec model.DiscoveredRecord) model.DiscoveredRecord {
	city, state, country := normalize.AddressParts(rec.Address)
	rec.City = city
	rec.State = state
	rec.Country = country
	rec.NameKey = normalize.Name(rec.Name)
	rec.CityKey = normalize.Name(city)
	rec.StateCode = normalize.StateCode(state)
	rec.CountryCode = normalize.CountryCode(country)
	return rec
}
