// internal/calendar/festivals.go
package calendar

import "time"

// noFestivalSentinel is returned as days-to-festival when no festival window
// matches the given date and category.
const noFestivalSentinel = 999

// FestivalImpact describes how a festival behaves around its calendar date:
// how many days before it shoppers start stocking up, how many days it runs,
// and which categories see a demand lift.
type FestivalImpact struct {
	PrepDays     int
	DurationDays int
	Impact       map[string]float64
}

// festivalOrder fixes the iteration order of the impact table. When two
// festivals' windows overlap for a category, the first entry in this order
// wins; ties are not resolved by proximity.
var festivalOrder = []string{
	"Makar Sankranti",
	"Republic Day",
	"Valentine's Day",
	"Maha Shivratri",
	"Holi",
	"Eid ul-Fitr",
	"Ram Navami",
	"Eid ul-Adha",
	"Independence Day",
	"Raksha Bandhan",
	"Janmashtami",
	"Navratri",
	"Dussehra",
	"Diwali",
	"Bhai Dooj",
	"Christmas",
	"New Year Eve",
}

var festivalImpacts = map[string]FestivalImpact{
	"Makar Sankranti":  {PrepDays: 1, DurationDays: 1, Impact: map[string]float64{"Staples": 2.0, "Snacks": 1.8, "Dairy": 1.5}},
	"Republic Day":     {PrepDays: 0, DurationDays: 1, Impact: map[string]float64{"Beverages": 1.5, "Snacks": 1.5}},
	"Valentine's Day":  {PrepDays: 1, DurationDays: 1, Impact: map[string]float64{"Snacks": 2.0}},
	"Maha Shivratri":   {PrepDays: 1, DurationDays: 1, Impact: map[string]float64{"Dairy": 2.0, "Staples": 2.5}},
	"Holi":             {PrepDays: 2, DurationDays: 1, Impact: map[string]float64{"Beverages": 3.0, "Personal Care": 2.5, "Snacks": 2.0, "Dairy": 1.8}},
	"Eid ul-Fitr":      {PrepDays: 3, DurationDays: 1, Impact: map[string]float64{"Dairy": 3.0, "Staples": 2.5, "Snacks": 3.0, "Beverages": 2.0}},
	"Ram Navami":       {PrepDays: 1, DurationDays: 1, Impact: map[string]float64{"Dairy": 2.0, "Snacks": 2.5}},
	"Eid ul-Adha":      {PrepDays: 2, DurationDays: 1, Impact: map[string]float64{"Staples": 2.5, "Dairy": 2.5, "Snacks": 2.0}},
	"Independence Day": {PrepDays: 0, DurationDays: 1, Impact: map[string]float64{"Beverages": 1.5, "Snacks": 1.5}},
	"Raksha Bandhan":   {PrepDays: 1, DurationDays: 1, Impact: map[string]float64{"Snacks": 3.0, "Dairy": 1.5}},
	"Janmashtami":      {PrepDays: 1, DurationDays: 1, Impact: map[string]float64{"Dairy": 2.5, "Snacks": 2.0}},
	"Navratri":         {PrepDays: 1, DurationDays: 9, Impact: map[string]float64{"Staples": 4.0, "Dairy": 2.0, "Beverages": 2.0}},
	"Dussehra":         {PrepDays: 1, DurationDays: 1, Impact: map[string]float64{"Snacks": 2.5, "Dairy": 1.8, "Beverages": 1.8}},
	"Diwali":           {PrepDays: 4, DurationDays: 3, Impact: map[string]float64{"Snacks": 4.0, "Dairy": 3.0, "Staples": 2.5, "Beverages": 2.5, "Personal Care": 1.8}},
	"Bhai Dooj":        {PrepDays: 1, DurationDays: 1, Impact: map[string]float64{"Snacks": 2.0}},
	"Christmas":        {PrepDays: 3, DurationDays: 1, Impact: map[string]float64{"Beverages": 2.5, "Dairy": 3.0, "Snacks": 2.5}},
	"New Year Eve":     {PrepDays: 2, DurationDays: 1, Impact: map[string]float64{"Beverages": 3.0, "Snacks": 2.5}},
}

var festivalDates2023 = map[string]string{
	"Diwali":       "2023-11-12",
	"Bhai Dooj":    "2023-11-15",
	"Christmas":    "2023-12-25",
	"New Year Eve": "2023-12-31",
}

var festivalDates2024 = map[string]string{
	"Makar Sankranti":  "2024-01-14",
	"Republic Day":     "2024-01-26",
	"Valentine's Day":  "2024-02-14",
	"Maha Shivratri":   "2024-03-08",
	"Holi":             "2024-03-25",
	"Eid ul-Fitr":      "2024-04-11",
	"Ram Navami":       "2024-04-17",
	"Eid ul-Adha":      "2024-06-17",
	"Independence Day": "2024-08-15",
	"Raksha Bandhan":   "2024-08-19",
	"Janmashtami":      "2024-08-26",
	"Navratri":         "2024-10-03",
	"Dussehra":         "2024-10-12",
	"Diwali":           "2024-10-31",
	"Bhai Dooj":        "2024-11-15",
	"Christmas":        "2024-12-25",
	"New Year Eve":     "2024-12-31",
}

var festivalDates2025 = map[string]string{
	"Makar Sankranti":  "2025-01-14",
	"Republic Day":     "2025-01-26",
	"Valentine's Day":  "2025-02-14",
	"Maha Shivratri":   "2025-02-26",
	"Holi":             "2025-03-14",
	"Eid ul-Fitr":      "2025-03-31",
	"Ram Navami":       "2025-04-06",
	"Eid ul-Adha":      "2025-06-07",
	"Independence Day": "2025-08-15",
	"Raksha Bandhan":   "2025-08-09",
	"Janmashtami":      "2025-08-16",
	"Navratri":         "2025-09-22",
	"Dussehra":         "2025-10-02",
	"Diwali":           "2025-10-20",
	"Bhai Dooj":        "2025-10-23",
	"Christmas":        "2025-12-25",
	"New Year Eve":     "2025-12-31",
}

var festivalDates2026 = map[string]string{
	"Makar Sankranti":  "2026-01-14",
	"Republic Day":     "2026-01-26",
	"Valentine's Day":  "2026-02-14",
	"Maha Shivratri":   "2026-02-17",
	"Holi":             "2026-03-03",
	"Eid ul-Fitr":      "2026-03-20",
	"Ram Navami":       "2026-03-27",
	"Eid ul-Adha":      "2026-05-27",
	"Independence Day": "2026-08-15",
	"Raksha Bandhan":   "2026-07-29",
	"Janmashtami":      "2026-08-06",
	"Navratri":         "2026-09-11",
	"Dussehra":         "2026-09-21",
	"Diwali":           "2026-10-09",
	"Bhai Dooj":        "2026-10-12",
	"Christmas":        "2026-12-25",
	"New Year Eve":     "2026-12-31",
}

// FestivalCalendar returns the festival name to date map for a given year.
// Years outside the configured range return an empty map.
func FestivalCalendar(year int) map[string]string {
	switch year {
	case 2023:
		return festivalDates2023
	case 2024:
		return festivalDates2024
	case 2025:
		return festivalDates2025
	case 2026:
		return festivalDates2026
	default:
		return map[string]string{}
	}
}

func parseFestivalDate(s string) (time.Time, bool) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FestivalStatus reports whether a date falls inside the active window of a
// festival that impacts the given category. The active window is
// [festival_date - prep_days, festival_date + duration_days - 1]. The first
// matching festival in table order wins. When nothing matches,
// days-to-festival is the 999 sentinel.
func FestivalStatus(date time.Time, category string) (isFestival bool, festivalName string, daysToFestival int) {
	day := truncateToDay(date)
	cal := FestivalCalendar(day.Year())

	daysToFestival = noFestivalSentinel
	for _, name := range festivalOrder {
		dateStr, ok := cal[name]
		if !ok {
			continue
		}
		festDate, ok := parseFestivalDate(dateStr)
		if !ok {
			continue
		}
		info := festivalImpacts[name]

		prepStart := festDate.AddDate(0, 0, -info.PrepDays)
		festEnd := festDate.AddDate(0, 0, info.DurationDays-1)
		if day.Before(prepStart) || day.After(festEnd) {
			continue
		}
		if _, impacted := info.Impact[category]; !impacted {
			continue
		}

		isFestival = true
		festivalName = name
		daysToFestival = int(festDate.Sub(day).Hours() / 24)
		return isFestival, festivalName, daysToFestival
	}

	return false, "", daysToFestival
}
