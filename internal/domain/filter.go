package domain

// SearchFilters is the listing filter. A nil pointer or an empty slice means
// the facet is absent and imposes no constraint.
type SearchFilters struct {
	Query         *string      `json:"query,omitempty"`
	Amenities     []string     `json:"amenities,omitempty"`
	PriceLevels   []int        `json:"priceLevel,omitempty"`
	Rating        *float64     `json:"rating,omitempty"`
	NoiseLevels   []NoiseLevel `json:"noiseLevel,omitempty"`
	StudyFriendly *bool        `json:"studyFriendly,omitempty"`
	OpenNow       *bool        `json:"openNow,omitempty"`
	Distance      *float64     `json:"distance,omitempty"` // miles
	Location      *Coords      `json:"location,omitempty"`
}

func (f SearchFilters) WantsOpenNow() bool { return f.OpenNow != nil && *f.OpenNow }

// Radius returns the distance facet when it is present and positive.
func (f SearchFilters) Radius() (float64, bool) {
	if f.Distance == nil || *f.Distance <= 0 {
		return 0, false
	}
	return *f.Distance, true
}
