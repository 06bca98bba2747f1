// internal/calendar/calendar_test.go
package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFestivalStatusInsideWindow(t *testing.T) {
	// Diwali 2025-10-20 with 4 prep days covers Oct 16 onward.
	isFest, name, days := FestivalStatus(day(2025, time.October, 18), "Snacks")

	assert.True(t, isFest)
	assert.Equal(t, "Diwali", name)
	assert.Equal(t, 2, days)
}

func TestFestivalStatusDuringFestivalRun(t *testing.T) {
	// Day two of the Diwali run, days-to-festival goes negative.
	isFest, name, days := FestivalStatus(day(2025, time.October, 21), "Dairy")

	assert.True(t, isFest)
	assert.Equal(t, "Diwali", name)
	assert.Equal(t, -1, days)
}

func TestFestivalStatusTableOrderWins(t *testing.T) {
	// Oct 22 sits in both the Diwali run and the Bhai Dooj prep window for
	// Snacks. Diwali precedes Bhai Dooj in table order.
	isFest, name, _ := FestivalStatus(day(2025, time.October, 22), "Snacks")

	assert.True(t, isFest)
	assert.Equal(t, "Diwali", name)
}

func TestFestivalStatusNavratriLongWindow(t *testing.T) {
	// Navratri 2025-09-22 runs nine days.
	isFest, name, days := FestivalStatus(day(2025, time.September, 25), "Staples")

	assert.True(t, isFest)
	assert.Equal(t, "Navratri", name)
	assert.Equal(t, -3, days)
}

func TestFestivalStatusCategoryNotImpacted(t *testing.T) {
	isFest, name, days := FestivalStatus(day(2025, time.October, 18), "Electronics")

	assert.False(t, isFest)
	assert.Empty(t, name)
	assert.Equal(t, 999, days)
}

func TestFestivalStatusQuietDay(t *testing.T) {
	isFest, _, days := FestivalStatus(day(2025, time.July, 1), "Snacks")

	assert.False(t, isFest)
	assert.Equal(t, 999, days)
}

func TestFestivalCalendarUnknownYear(t *testing.T) {
	assert.Empty(t, FestivalCalendar(2030))
}

func TestOracleSeededDeterminism(t *testing.T) {
	a := NewOracle(42)
	b := NewOracle(42)

	d := day(2025, time.March, 3)
	for i := 0; i < 20; i++ {
		date := d.AddDate(0, 0, i)
		assert.Equal(t, a.DiscountFor(date, "Dairy"), b.DiscountFor(date, "Dairy"))
	}
}

func TestOracleDailyRotation(t *testing.T) {
	o := NewOracle(1)

	// 2025-03-03 is a Monday, the Dairy rotation day.
	got := o.DiscountFor(day(2025, time.March, 3), "Dairy")
	assert.GreaterOrEqual(t, got, 2.0)
	assert.LessOrEqual(t, got, 3.5)

	// Beverages rotates on Tuesday and Sunday, not Monday.
	assert.Zero(t, o.DiscountFor(day(2025, time.March, 3), "Beverages"))
}

func TestOracleFlashSaleThirdWednesday(t *testing.T) {
	o := NewOracle(1)

	// 2025-01-15 is the third Wednesday of January, Beverages month.
	assert.Equal(t, 12.0, o.DiscountFor(day(2025, time.January, 15), "Beverages"))

	// First Wednesday does not qualify.
	assert.Zero(t, o.DiscountFor(day(2025, time.January, 1), "Beverages"))
}

func TestOracleFestivalPrepDiscount(t *testing.T) {
	o := NewOracle(1)

	// Two days before Diwali 2025-10-20.
	assert.Equal(t, 15.0, o.DiscountFor(day(2025, time.October, 18), "Snacks"))
	assert.Equal(t, 10.0, o.DiscountFor(day(2025, time.October, 18), "Dairy"))
}

func TestOracleFestivalOverride(t *testing.T) {
	o := NewOracle(1)

	got := o.DiscountForWithOverrides(day(2025, time.October, 18), "Dairy", Overrides{Festival: 20})
	assert.Equal(t, 20.0, got)
}

func TestOracleDiscountedPrice(t *testing.T) {
	o := NewOracle(1)

	final, discount := o.DiscountedPrice(100, day(2025, time.January, 15), "Beverages", Overrides{})
	assert.Equal(t, 12.0, discount)
	assert.Equal(t, 88.0, final)

	final, discount = o.DiscountedPrice(100, day(2025, time.July, 1), "Staples", Overrides{})
	assert.Zero(t, discount)
	assert.Equal(t, 100.0, final)
}
