package memory

import (
	"time"

	"cafe_finder/internal/domain"
)

var seedTime = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

func weekdays(weekday, saturday, sunday string) domain.WeeklyHours {
	return domain.WeeklyHours{
		Monday: weekday, Tuesday: weekday, Wednesday: weekday, Thursday: weekday, Friday: weekday,
		Saturday: saturday, Sunday: sunday,
	}
}

// SeedCafes is the demo catalogue served when no database is configured.
func SeedCafes() []domain.Cafe {
	return []domain.Cafe{
		{
			ID:            "1",
			Name:          "The Study Grind",
			Description:   "A quiet café built for long study sessions, with private booths and bottomless drip coffee.",
			Address:       "123 College Ave, Berkeley, CA 94704",
			Latitude:      37.8695,
			Longitude:     -122.2585,
			Phone:         strp("(510) 555-0123"),
			Website:       strp("https://thestudygrind.example.com"),
			Rating:        4.8,
			ReviewCount:   156,
			PriceLevel:    2,
			Hours:         weekdays("6:00 AM - 11:00 PM", "7:00 AM - 11:00 PM", "8:00 AM - 10:00 PM"),
			Wifi:          domain.Wifi{Available: true, Speed: "100 Mbps", Password: strp("studyhard2024")},
			PowerOutlets:  true,
			NoiseLevel:    domain.NoiseQuiet,
			StudyFriendly: true,
			Amenities:     []string{"Free WiFi", "Power Outlets", "Study Rooms", "Quiet Zone", "Printing"},
			Tags:          []string{"study", "quiet", "students", "late-night"},
			Images:        []string{"/images/study-grind-1.jpg", "/images/study-grind-2.jpg"},
			CreatedAt:     seedTime,
			UpdatedAt:     seedTime,
		},
		{
			ID:            "2",
			Name:          "Campus Corner Café",
			Description:   "Bright corner spot across from campus with fresh pastries and plenty of outlets.",
			Address:       "2400 Telegraph Ave, Berkeley, CA 94704",
			Latitude:      37.8672,
			Longitude:     -122.2590,
			Phone:         strp("(510) 555-0456"),
			Rating:        4.5,
			ReviewCount:   89,
			PriceLevel:    1,
			Hours:         weekdays("7:00 AM - 9:00 PM", "8:00 AM - 9:00 PM", "Closed"),
			Wifi:          domain.Wifi{Available: true, Speed: "50 Mbps"},
			PowerOutlets:  true,
			NoiseLevel:    domain.NoiseModerate,
			StudyFriendly: true,
			Amenities:     []string{"Free WiFi", "Power Outlets", "Fresh Pastries", "Outdoor Seating"},
			Tags:          []string{"students", "pastries", "budget"},
			Images:        []string{"/images/campus-corner-1.jpg"},
			CreatedAt:     seedTime,
			UpdatedAt:     seedTime,
		},
		{
			ID:            "3",
			Name:          "Midnight Oil Coffee House",
			Description:   "Open around the clock for night owls and exam weeks.",
			Address:       "1850 Shattuck Ave, Berkeley, CA 94709",
			Latitude:      37.8748,
			Longitude:     -122.2686,
			Rating:        4.3,
			ReviewCount:   212,
			PriceLevel:    2,
			Hours:         weekdays(domain.HoursAllDayText, domain.HoursAllDayText, domain.HoursAllDayText),
			Wifi:          domain.Wifi{Available: true, Speed: "75 Mbps"},
			PowerOutlets:  true,
			NoiseLevel:    domain.NoiseModerate,
			StudyFriendly: true,
			Amenities:     []string{"Free WiFi", "Power Outlets", "24/7", "Group Tables"},
			Tags:          []string{"24-hours", "late-night", "groups"},
			Images:        []string{"/images/midnight-oil-1.jpg"},
			CreatedAt:     seedTime,
			UpdatedAt:     seedTime,
		},
		{
			ID:            "4",
			Name:          "Brew & Beats",
			Description:   "Espresso bar by day, live music venue by night.",
			Address:       "2100 San Pablo Ave, Berkeley, CA 94702",
			Latitude:      37.8667,
			Longitude:     -122.2913,
			Phone:         strp("(510) 555-0789"),
			Website:       strp("https://brewandbeats.example.com"),
			Rating:        4.1,
			ReviewCount:   134,
			PriceLevel:    3,
			Hours:         weekdays("10:00 AM - 12:00 AM", "4:00 PM - 2:00 AM", "4:00 PM - 2:00 AM"),
			Wifi:          domain.Wifi{Available: true, Speed: "25 Mbps"},
			NoiseLevel:    domain.NoiseLively,
			StudyFriendly: false,
			Amenities:     []string{"Free WiFi", "Live Music", "Craft Beer"},
			Tags:          []string{"music", "nightlife", "social"},
			Images:        []string{"/images/brew-beats-1.jpg", "/images/brew-beats-2.jpg"},
			CreatedAt:     seedTime,
			UpdatedAt:     seedTime,
		},
		{
			ID:            "5",
			Name:          "The Reading Room",
			Description:   "Café inside a used bookstore, with reading nooks and loose-leaf tea.",
			Address:       "2476 Bancroft Way, Berkeley, CA 94704",
			Latitude:      37.8686,
			Longitude:     -122.2597,
			Rating:        4.7,
			ReviewCount:   67,
			PriceLevel:    2,
			Hours:         weekdays("8:00 AM - 8:00 PM", "9:00 AM - 6:00 PM", "9:00 AM - 6:00 PM"),
			Wifi:          domain.Wifi{Available: true, Speed: "40 Mbps"},
			PowerOutlets:  true,
			NoiseLevel:    domain.NoiseQuiet,
			StudyFriendly: true,
			Amenities:     []string{"Free WiFi", "Power Outlets", "Book Collection", "Reading Areas"},
			Tags:          []string{"books", "quiet", "tea"},
			Images:        []string{"/images/reading-room-1.jpg"},
			CreatedAt:     seedTime,
			UpdatedAt:     seedTime,
		},
		{
			ID:            "6",
			Name:          "Bayview Roasters",
			Description:   "Specialty roaster with pour-overs and a waterfront patio.",
			Address:       "1 Marina Blvd, Emeryville, CA 94608",
			Latitude:      37.8390,
			Longitude:     -122.3110,
			Rating:        3.9,
			ReviewCount:   41,
			PriceLevel:    4,
			Hours:         weekdays("7:00 AM - 5:00 PM", "8:00 AM - 4:00 PM", "Closed"),
			Wifi:          domain.Wifi{Available: false},
			NoiseLevel:    domain.NoiseModerate,
			StudyFriendly: false,
			Amenities:     []string{"Outdoor Seating", "Specialty Coffee", "Parking"},
			Tags:          []string{"roaster", "waterfront"},
			Images:        []string{"/images/bayview-1.jpg"},
			CreatedAt:     seedTime,
			UpdatedAt:     seedTime,
		},
	}
}

// SeedReviews belong to SeedCafes.
func SeedReviews() []domain.Review {
	return []domain.Review{
		{
			ID: "r1", CafeID: "1", UserName: "Sarah Chen", UserAvatar: "/placeholder.svg?height=40&width=40",
			Rating: 5, StudyRating: intp(5), WifiRating: intp(5), NoiseRating: intp(5),
			Comment:   "Perfect place to study! Quiet atmosphere, fast WiFi, and plenty of outlets.",
			CreatedAt: time.Date(2024, 1, 20, 10, 30, 0, 0, time.UTC), Helpful: 12, Status: domain.ReviewApproved,
		},
		{
			ID: "r2", CafeID: "1", UserName: "Mike Johnson", UserAvatar: "/placeholder.svg?height=40&width=40",
			Rating: 4, StudyRating: intp(4), WifiRating: intp(5),
			Comment:   "Great coffee and study environment. Gets busy during finals week.",
			CreatedAt: time.Date(2024, 1, 18, 14, 15, 0, 0, time.UTC), Helpful: 8, Status: domain.ReviewApproved,
		},
		{
			ID: "r3", CafeID: "2", UserName: "Emily Rodriguez", UserAvatar: "/placeholder.svg?height=40&width=40",
			Rating: 5, StudyRating: intp(4),
			Comment:   "Love the pastries here! Good spot for group study sessions.",
			CreatedAt: time.Date(2024, 1, 19, 9, 45, 0, 0, time.UTC), Helpful: 5, Status: domain.ReviewApproved,
		},
		{
			ID: "r4", CafeID: "3", UserName: "Dev Patel", UserAvatar: "/placeholder.svg?height=40&width=40",
			Rating: 4, WifiRating: intp(4), NoiseRating: intp(3),
			Comment:   "Lifesaver during exams. Can get loud around midnight.",
			CreatedAt: time.Date(2024, 1, 22, 23, 5, 0, 0, time.UTC), Helpful: 3, Status: domain.ReviewApproved,
		},
		{
			ID: "r5", CafeID: "4", UserName: "Jordan Lee", UserAvatar: "/placeholder.svg?height=40&width=40",
			Rating: 2, NoiseRating: intp(1),
			Comment:   "Fun at night but impossible to focus. Not a study spot.",
			CreatedAt: time.Date(2024, 1, 21, 20, 0, 0, 0, time.UTC), Helpful: 1, Status: domain.ReviewFlagged,
		},
		{
			ID: "r6", CafeID: "5", UserName: "Priya Nair", UserAvatar: "/placeholder.svg?height=40&width=40",
			Rating: 5, StudyRating: intp(5), NoiseRating: intp(5),
			Comment:   "Quietest café in town, and you can borrow books while you sip.",
			CreatedAt: time.Date(2024, 1, 23, 11, 0, 0, 0, time.UTC), Helpful: 4, Status: domain.ReviewApproved,
		},
		{
			ID: "r7", CafeID: "1", UserName: "Anonymous", UserAvatar: "/placeholder.svg?height=40&width=40",
			Rating: 1,
			Comment:   "spam spam spam visit my site",
			CreatedAt: time.Date(2024, 1, 24, 8, 0, 0, 0, time.UTC), Helpful: 0, Status: domain.ReviewPending,
		},
	}
}
