package model

// MasterProperty is one row of the canonical master registry. The registry is
// loaded once per run and treated as read-only for the run's duration.
type MasterProperty struct {
	PropertyID string   `json:"property_id"`
	Name       string   `json:"name"`
	City       string   `json:"city"`
	State      string   `json:"state"`
	Country    string   `json:"country"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`

	// Derived keys, computed once at load time and never hand-edited.
	NameKey     string `json:"-"`
	CityKey     string `json:"-"`
	StateCode   string `json:"-"`
	CountryCode string `json:"-"`
}

// DiscoveredRecord is one property page yielded by the crawler. Name, Address
// and URL come off the page; the remaining fields are derived during
// resolution and empty until then.
type DiscoveredRecord struct {
	Name    string `json:"scraped_name"`
	Address string `json:"address"`
	URL     string `json:"url"`

	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Country     string `json:"country,omitempty"`
	NameKey     string `json:"-"`
	CityKey     string `json:"-"`
	StateCode   string `json:"-"`
	CountryCode string `json:"-"`
}

// Resolvable reports whether the record carries enough geography to be
// scored. Records failing this check are dropped before candidate filtering
// and never reach the outcome set.
func (r DiscoveredRecord) Resolvable() bool {
	return r.CityKey != "" && r.CountryCode != ""
}

// MatchOutcome is the result of resolving one discovered record: either a
// link to a master property or an explicit no-match. Outcomes are immutable
// once shaped and are appended to the run's result set exactly once.
type MatchOutcome struct {
	HotelCode          *string  `json:"hotel_code"`
	ScrapedHotelName   string   `json:"scraped_hotel_name"`
	GlobalPropertyName *string  `json:"global_property_name"`
	City               string   `json:"city"`
	State              string   `json:"state"`
	StateCode          *string  `json:"state_code"`
	Country            string   `json:"country"`
	CountryCode        *string  `json:"country_code"`
	URL                string   `json:"url"`
	Address            string   `json:"address"`
	Latitude           *float64 `json:"latitude"`
	Longitude          *float64 `json:"longitude"`
	MatchConfidence    float64  `json:"match_confidence"`
}

// Matched reports whether the outcome links to a master property.
func (o MatchOutcome) Matched() bool {
	return o.HotelCode != nil
}
