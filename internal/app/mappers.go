package app

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"cafe_finder/internal/domain"
)

/********** alias registries (single source of truth) **********/

var placeAliases = map[string][]string{
	"id":      {"place_id", "id"},
	"name":    {"name", "displayName.text"},
	"address": {"formatted_address", "vicinity", "shortFormattedAddress"},
	"summary": {"editorial_summary.overview", "editorialSummary.text"},
	"phone":   {"formatted_phone_number", "international_phone_number"},
	"website": {"website", "websiteUri"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) *string {
	for _, p := range aliases[key] {
		if s := strings.TrimSpace(lookupStr(m, p)); s != "" {
			return &s
		}
	}
	return nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// getFloatFlexible: number from several paths (float64/int/string like "4,5").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// firstIntFlexible: int from several paths (float64/int/string).
func firstIntFlexible(m map[string]any, paths ...string) *int {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			x := int(v)
			return &x
		case int:
			x := v
			return &x
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			if n, err := strconv.Atoi(s); err == nil {
				return &n
			}
		}
	}
	return nil
}

// firstSliceStrings: accept []any with either strings or {photo_reference/url/name}.
func firstSliceStrings(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		raw, ok := lookupAny(m, k).([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(raw))
		for _, it := range raw {
			switch t := it.(type) {
			case string:
				if t != "" {
					out = append(out, t)
				}
			case map[string]any:
				for _, field := range []string{"photo_reference", "url", "name"} {
					if s, ok := t[field].(string); ok && s != "" {
						out = append(out, s)
						break
					}
				}
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

/********** opening hours **********/

const hoursUnavailable = "Hours not available"

// Places renders "Monday: 7:00 AM – 9:00 PM", sometimes with a narrow
// no-break space before the meridiem.
var placeRangeRE = regexp.MustCompile(`(\d{1,2}:\d{2})[\s\x{202F}]*([AP]M)\s*[–-]\s*(\d{1,2}:\d{2})[\s\x{202F}]*([AP]M)`)

var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

// parseWeekdayText turns the weekday_text list into WeeklyHours. Lines are
// matched to days by their "Day:" prefix, falling back to Monday-first order.
// Days that never appear stay "Closed".
func parseWeekdayText(lines []string) domain.WeeklyHours {
	h := domain.ClosedWeek()
	for i, line := range lines {
		day, ok := weekdayPrefix(line)
		if !ok {
			if i >= len(weekdayOrder) {
				continue
			}
			day = weekdayOrder[i]
		}
		h.Set(day, placeHoursEntry(line))
	}
	return h
}

func weekdayPrefix(line string) (time.Weekday, bool) {
	name, _, found := strings.Cut(line, ":")
	if !found {
		return 0, false
	}
	for _, d := range weekdayOrder {
		if strings.EqualFold(strings.TrimSpace(name), d.String()) {
			return d, true
		}
	}
	return 0, false
}

func placeHoursEntry(line string) string {
	switch {
	case strings.Contains(line, "Closed"):
		return domain.HoursClosedText
	case strings.Contains(strings.ToLower(line), "open 24 hours"):
		return domain.HoursAllDayText
	}
	m := placeRangeRE.FindStringSubmatch(line)
	if m == nil {
		return hoursUnavailable
	}
	return m[1] + " " + m[2] + " - " + m[3] + " " + m[4]
}

/********** derived attributes **********/

func estimateNoiseLevel(rating float64, ratings int) domain.NoiseLevel {
	switch {
	case rating >= 4.5 && ratings > 100:
		return domain.NoiseLively
	case rating >= 4.0:
		return domain.NoiseModerate
	}
	return domain.NoiseQuiet
}

func isStudyFriendly(types []string, rating float64) bool {
	hasType := slices.ContainsFunc(types, func(t string) bool {
		return t == "cafe" || t == "library" || t == "book_store"
	})
	return hasType && rating >= 3.5
}

func generateAmenities(types []string) []string {
	out := []string{"Free WiFi", "Power Outlets"}
	if slices.Contains(types, "library") || slices.Contains(types, "book_store") {
		out = append(out, "Book Collection", "Reading Areas")
	}
	if slices.Contains(types, "bakery") {
		out = append(out, "Fresh Pastries")
	}
	if slices.Contains(types, "restaurant") {
		out = append(out, "Food Available")
	}
	return out
}

func generateTags(types []string) []string {
	out := []string{}
	if slices.Contains(types, "cafe") {
		out = append(out, "cafe", "coffee")
	}
	if slices.Contains(types, "library") {
		out = append(out, "books", "quiet", "study-friendly")
	}
	if slices.Contains(types, "bakery") {
		out = append(out, "pastries", "bakery")
	}
	if slices.Contains(types, "restaurant") {
		out = append(out, "food", "restaurant")
	}
	return out
}

/********** place mapper **********/

const maxPlacePhotos = 3

// mapPlace converts a places payload (search result or details) into a Cafe.
// photoURL turns a photo reference into a link; nil drops photos.
func mapPlace(p map[string]any, photoURL func(ref string) string, now time.Time) domain.Cafe {
	types := firstSliceStrings(p, "types")
	rating := 0.0
	if f := getFloatFlexible(p, "rating"); f != nil {
		rating = *f
	}
	ratings := 0
	if n := firstIntFlexible(p, "user_ratings_total", "userRatingCount"); n != nil {
		ratings = *n
	}
	price := 1
	if n := firstIntFlexible(p, "price_level"); n != nil && *n >= 1 {
		price = min(*n, 4)
	}

	c := domain.Cafe{
		ID:            deref(firstNonEmptyAlias(p, placeAliases, "id")),
		Name:          deref(firstNonEmptyAlias(p, placeAliases, "name")),
		Address:       deref(firstNonEmptyAlias(p, placeAliases, "address")),
		Phone:         firstNonEmptyAlias(p, placeAliases, "phone"),
		Website:       firstNonEmptyAlias(p, placeAliases, "website"),
		Rating:        rating,
		ReviewCount:   ratings,
		PriceLevel:    price,
		Hours:         parseWeekdayText(firstSliceStrings(p, "opening_hours.weekday_text", "regularOpeningHours.weekdayDescriptions")),
		Wifi:          domain.Wifi{Available: true, Speed: "High-speed"},
		PowerOutlets:  true,
		NoiseLevel:    estimateNoiseLevel(rating, ratings),
		StudyFriendly: isStudyFriendly(types, rating),
		Amenities:     generateAmenities(types),
		Tags:          generateTags(types),
		Images:        []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if lat := getFloatFlexible(p, "geometry.location.lat", "location.latitude"); lat != nil {
		c.Latitude = *lat
	}
	if lng := getFloatFlexible(p, "geometry.location.lng", "location.longitude"); lng != nil {
		c.Longitude = *lng
	}

	if s := firstNonEmptyAlias(p, placeAliases, "summary"); s != nil {
		c.Description = *s
	} else {
		kind := "coffee shop"
		if slices.Contains(types, "cafe") {
			kind = "cafe"
		}
		c.Description = "A " + kind + " located at " + c.Address
	}

	if photoURL != nil {
		for _, ref := range firstSliceStrings(p, "photos") {
			if len(c.Images) == maxPlacePhotos {
				break
			}
			if u := photoURL(ref); u != "" {
				c.Images = append(c.Images, u)
			}
		}
	}
	return c
}
