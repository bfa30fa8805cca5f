package domain

import (
	"math"
	"strings"
	"time"
)

type NoiseLevel string

const (
	NoiseQuiet    NoiseLevel = "quiet"
	NoiseModerate NoiseLevel = "moderate"
	NoiseLively   NoiseLevel = "lively"
)

func (n NoiseLevel) Valid() bool {
	switch n {
	case NoiseQuiet, NoiseModerate, NoiseLively:
		return true
	}
	return false
}

type Cafe struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	Address       string      `json:"address"`
	Latitude      float64     `json:"latitude"`
	Longitude     float64     `json:"longitude"`
	Phone         *string     `json:"phone,omitempty"`
	Website       *string     `json:"website,omitempty"`
	Rating        float64     `json:"rating"`
	ReviewCount   int         `json:"reviewCount"`
	PriceLevel    int         `json:"priceLevel"`
	Hours         WeeklyHours `json:"hours"`
	Wifi          Wifi        `json:"wifi"`
	PowerOutlets  bool        `json:"powerOutlets"`
	NoiseLevel    NoiseLevel  `json:"noiseLevel"`
	StudyFriendly bool        `json:"studyFriendly"`
	Amenities     []string    `json:"amenities"`
	Tags          []string    `json:"tags"`
	Images        []string    `json:"images"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`

	// Distance in miles from the request's reference location; only set
	// when one was supplied.
	Distance *float64 `json:"distance,omitempty"`
}

// PriceSymbol renders the price tier as "$".."$$$$".
func (c Cafe) PriceSymbol() string {
	n := c.PriceLevel
	if n < 1 {
		n = 1
	}
	if n > 4 {
		n = 4
	}
	return strings.Repeat("$", n)
}

// ApplyReviewRating folds one visible review into (delta 1) or out of
// (delta -1) the running average. The rating keeps two decimals and stays
// within 0..5; a café with no reviews left has rating 0.
func (c *Cafe) ApplyReviewRating(rating, delta int) {
	n := c.ReviewCount + delta
	if n <= 0 {
		c.Rating, c.ReviewCount = 0, 0
		return
	}
	avg := (c.Rating*float64(c.ReviewCount) + float64(delta*rating)) / float64(n)
	c.Rating = math.Round(min(max(avg, 0), 5)*100) / 100
	c.ReviewCount = n
}

func (c Cafe) Coords() Coords { return Coords{Lat: c.Latitude, Lng: c.Longitude} }

type Wifi struct {
	Available bool    `json:"available"`
	Speed     string  `json:"speed,omitempty"`
	Password  *string `json:"password,omitempty"`
}

const (
	HoursClosedText = "Closed"
	HoursAllDayText = "24 Hours"
)

// WeeklyHours holds one textual entry per weekday, e.g. "7:00 AM - 9:00 PM",
// "Closed" or "24 Hours".
type WeeklyHours struct {
	Monday    string `json:"monday"`
	Tuesday   string `json:"tuesday"`
	Wednesday string `json:"wednesday"`
	Thursday  string `json:"thursday"`
	Friday    string `json:"friday"`
	Saturday  string `json:"saturday"`
	Sunday    string `json:"sunday"`
}

// ClosedWeek is the table used when a café is created without hours.
func ClosedWeek() WeeklyHours {
	c := HoursClosedText
	return WeeklyHours{c, c, c, c, c, c, c}
}

func (h WeeklyHours) On(d time.Weekday) string {
	switch d {
	case time.Monday:
		return h.Monday
	case time.Tuesday:
		return h.Tuesday
	case time.Wednesday:
		return h.Wednesday
	case time.Thursday:
		return h.Thursday
	case time.Friday:
		return h.Friday
	case time.Saturday:
		return h.Saturday
	default:
		return h.Sunday
	}
}

func (h *WeeklyHours) Set(d time.Weekday, v string) {
	switch d {
	case time.Monday:
		h.Monday = v
	case time.Tuesday:
		h.Tuesday = v
	case time.Wednesday:
		h.Wednesday = v
	case time.Thursday:
		h.Thursday = v
	case time.Friday:
		h.Friday = v
	case time.Saturday:
		h.Saturday = v
	default:
		h.Sunday = v
	}
}

type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
