// internal/calendar/discount.go
package calendar

import (
	"math"
	"math/rand"
	"time"
)

// dailyDiscountChoices are the possible daily rotating discount percentages.
var dailyDiscountChoices = []float64{2.0, 2.25, 2.5, 2.75, 3.0, 3.25, 3.5}

// dailyCategoryByWeekday maps each weekday to the single category that gets
// the small rotating discount that day.
var dailyCategoryByWeekday = map[time.Weekday]string{
	time.Monday:    "Dairy",
	time.Tuesday:   "Beverages",
	time.Wednesday: "Snacks",
	time.Thursday:  "Personal Care",
	time.Friday:    "Staples",
	time.Saturday:  "Snacks",
	time.Sunday:    "Beverages",
}

// flashSaleCategoryByMonth maps calendar month to the category on flash sale
// on the 3rd Wednesday of that month.
var flashSaleCategoryByMonth = map[time.Month]string{
	time.January:   "Beverages",
	time.February:  "Snacks",
	time.March:     "Personal Care",
	time.April:     "Dairy",
	time.May:       "Beverages",
	time.June:      "Snacks",
	time.July:      "Personal Care",
	time.August:    "Dairy",
	time.September: "Beverages",
	time.October:   "Snacks",
	time.November:  "Personal Care",
	time.December:  "Dairy",
}

// prepDiscountFestivals is the subset of festivals that grant pre-festival
// discounts. Only these three qualify even though the festival oracle tracks
// the full table.
var prepDiscountFestivals = map[string]bool{
	"Diwali":    true,
	"Christmas": true,
	"Navratri":  true,
}

// Overrides carries caller-supplied discount percentages that replace the
// built-in defaults when nonzero.
type Overrides struct {
	Festival  float64
	FlashSale float64
}

// Oracle resolves promotional discounts for a (date, category) pair. The
// daily rotating discount draws from a fixed choice set using the oracle's
// own random source, so a seeded oracle is fully deterministic.
type Oracle struct {
	rng *rand.Rand
}

// NewOracle returns an oracle with the given seed.
func NewOracle(seed int64) *Oracle {
	return &Oracle{rng: rand.New(rand.NewSource(seed))}
}

// DiscountFor returns the discount percentage for a date and category,
// taking the maximum across the daily rotation, flash sale, and
// festival-prep rules.
func (o *Oracle) DiscountFor(date time.Time, category string) float64 {
	return o.DiscountForWithOverrides(date, category, Overrides{})
}

// DiscountForWithOverrides is DiscountFor with caller-supplied override
// percentages for the festival-prep and flash-sale rules.
func (o *Oracle) DiscountForWithOverrides(date time.Time, category string, ov Overrides) float64 {
	day := truncateToDay(date)
	discount := 0.0

	// 1. Daily rotating discount (2-3.5%)
	if dailyCategoryByWeekday[day.Weekday()] == category {
		pick := dailyDiscountChoices[o.rng.Intn(len(dailyDiscountChoices))]
		discount = math.Max(discount, pick)
	}

	// 2. Flash sale on the 3rd Wednesday of each month (12%)
	if day.Weekday() == time.Wednesday {
		weekOfMonth := (day.Day()-1)/7 + 1
		if weekOfMonth == 3 && flashSaleCategoryByMonth[day.Month()] == category {
			if ov.FlashSale > 0 {
				discount = math.Max(discount, ov.FlashSale)
			} else {
				discount = math.Max(discount, 12.0)
			}
		}
	}

	// 3. Festival prep discounts 1-2 days before Diwali, Christmas, Navratri
	cal := FestivalCalendar(day.Year())
	for _, name := range festivalOrder {
		if !prepDiscountFestivals[name] {
			continue
		}
		dateStr, ok := cal[name]
		if !ok {
			continue
		}
		festDate, ok := parseFestivalDate(dateStr)
		if !ok {
			continue
		}
		daysBefore := int(festDate.Sub(day).Hours() / 24)
		if daysBefore < 1 || daysBefore > 2 {
			continue
		}
		if ov.Festival > 0 {
			discount = math.Max(discount, ov.Festival)
		} else if category == "Snacks" || category == "Beverages" {
			discount = math.Max(discount, 15.0)
		} else {
			discount = math.Max(discount, 10.0)
		}
	}

	return math.Round(discount*100) / 100
}

// DiscountedPrice applies the resolved discount to a selling price and
// returns the final price together with the discount applied.
func (o *Oracle) DiscountedPrice(sellingPrice float64, date time.Time, category string, ov Overrides) (float64, float64) {
	discount := o.DiscountForWithOverrides(date, category, ov)
	if discount > 0 {
		final := sellingPrice * (1 - discount/100)
		return math.Round(final*100) / 100, discount
	}
	return sellingPrice, 0
}
