package search

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"cafe_finder/internal/domain"
)

type HoursKind int

const (
	HoursUnparseable HoursKind = iota
	HoursClosed
	HoursAllDay
	HoursRange
)

// DayHours is one parsed weekday entry. Open and Close are minutes since
// midnight and only meaningful for HoursRange.
type DayHours struct {
	Kind  HoursKind
	Open  int
	Close int
}

// Overnight reports a window that runs past midnight, e.g. 10 PM - 2 AM.
func (d DayHours) Overnight() bool { return d.Kind == HoursRange && d.Close < d.Open }

// Contains reports whether minute-of-day m falls inside the window.
func (d DayHours) Contains(m int) bool {
	switch d.Kind {
	case HoursAllDay:
		return true
	case HoursRange:
		if d.Overnight() {
			return m >= d.Open || m <= d.Close
		}
		return m >= d.Open && m <= d.Close
	default:
		return false
	}
}

var rangeRE = regexp.MustCompile(`(?i)^\s*(\d{1,2}):(\d{2})\s*(AM|PM)\s*-\s*(\d{1,2}):(\d{2})\s*(AM|PM)\s*$`)

// ParseDayHours classifies an hours entry such as "7:00 AM - 9:00 PM".
func ParseDayHours(entry string) DayHours {
	s := strings.TrimSpace(entry)
	switch {
	case s == "" || strings.EqualFold(s, domain.HoursClosedText):
		return DayHours{Kind: HoursClosed}
	case strings.EqualFold(s, domain.HoursAllDayText):
		return DayHours{Kind: HoursAllDay}
	}

	m := rangeRE.FindStringSubmatch(s)
	if m == nil {
		return DayHours{Kind: HoursUnparseable}
	}
	open, ok1 := clockMinutes(m[1], m[2], m[3])
	closing, ok2 := clockMinutes(m[4], m[5], m[6])
	if !ok1 || !ok2 {
		return DayHours{Kind: HoursUnparseable}
	}
	return DayHours{Kind: HoursRange, Open: open, Close: closing}
}

// clockMinutes converts a 12-hour clock reading to minutes since midnight.
// 12 AM is hour 0, 12 PM is hour 12.
func clockMinutes(hh, mm, period string) (int, bool) {
	h, err := strconv.Atoi(hh)
	if err != nil || h < 1 || h > 12 {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m > 59 {
		return 0, false
	}
	h %= 12
	if strings.EqualFold(period, "PM") {
		h += 12
	}
	return h*60 + m, true
}

func minuteOfDay(t time.Time) int { return t.Hour()*60 + t.Minute() }

// IsOpenNow evaluates the table at now, in now's location. Entries that
// cannot be parsed count as closed.
func IsOpenNow(hours domain.WeeklyHours, now time.Time) bool {
	today := ParseDayHours(hours.On(now.Weekday()))
	switch today.Kind {
	case HoursAllDay:
		return true
	case HoursRange:
		return today.Contains(minuteOfDay(now))
	case HoursUnparseable:
		// fail closed
		return false
	}
	return false
}

// BusinessStatus describes whether the café is open and, when closed, when it
// next opens within the coming week.
func BusinessStatus(hours domain.WeeklyHours, now time.Time) domain.OpenStatus {
	if IsOpenNow(hours, now) {
		return domain.OpenStatus{Open: true, Label: "Open now"}
	}

	cur := minuteOfDay(now)
	for i := 0; i < 7; i++ {
		day := time.Weekday((int(now.Weekday()) + i) % 7)
		dh := ParseDayHours(hours.On(day))
		if i == 0 {
			if dh.Kind == HoursRange && dh.Open > cur {
				return domain.OpenStatus{Label: "Closed", NextChange: "Opens later today"}
			}
			continue
		}
		if dh.Kind != HoursRange && dh.Kind != HoursAllDay {
			continue
		}
		if i == 1 {
			return domain.OpenStatus{Label: "Closed", NextChange: "Opens tomorrow"}
		}
		return domain.OpenStatus{Label: "Closed", NextChange: "Opens " + day.String()}
	}
	return domain.OpenStatus{Label: "Closed"}
}
