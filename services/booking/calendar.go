package booking

import (
	"fmt"
	"time"

	"medconnect/models"
)

// CalendarDays is the fixed size of a month grid: six full weeks.
const CalendarDays = 42

const isoDateLayout = "2006-01-02"

// ISODate formats t as a calendar date in its own location.
func ISODate(t time.Time) string {
	return t.Format(isoDateLayout)
}

// ParseISODate parses a "2006-01-02" date at midnight in loc.
func ParseISODate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(isoDateLayout, s, loc)
	if err != nil {
		return time.Time{}, NewValidationError("date", "invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// MonthView is the (year, month) pair a booking calendar is showing.
type MonthView struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

func MonthViewOf(t time.Time) MonthView {
	return MonthView{Year: t.Year(), Month: t.Month()}
}

// Add moves the view by delta months, normalizing across year boundaries.
func (m MonthView) Add(delta int) MonthView {
	return MonthViewOf(time.Date(m.Year, m.Month+time.Month(delta), 1, 0, 0, 0, 0, time.UTC))
}

func (m MonthView) Previous() MonthView { return m.Add(-1) }
func (m MonthView) Next() MonthView     { return m.Add(1) }

// Contains reports whether t falls in the viewed month.
func (m MonthView) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Month
}

func (m MonthView) String() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}

// IsDateAvailable reports whether date can be selected while year/month is displayed.
// A date qualifies only if it is not before today, falls on a working day, is not one of
// the provider's unavailable dates, and belongs to the displayed month. Days from the
// neighbouring months that pad the grid are never selectable.
func IsDateAvailable(date time.Time, year int, month time.Month, provider models.Provider, today time.Time) bool {
	if date.IsZero() {
		return false
	}
	day := midnight(date)
	if day.Before(midnight(today.In(date.Location()))) {
		return false
	}
	if !provider.WorksOn(day.Weekday()) {
		return false
	}
	if provider.IsUnavailable(ISODate(day)) {
		return false
	}
	return MonthView{Year: year, Month: month}.Contains(day)
}

// GenerateMonth builds the six-week grid for year/month starting on the Sunday on or
// before the 1st. Dates are built in today's location. A zero selected marks nothing.
func GenerateMonth(year int, month time.Month, provider models.Provider, today, selected time.Time) []models.CalendarDay {
	loc := today.Location()
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	view := MonthViewOf(first)
	start := first.AddDate(0, 0, -int(first.Weekday()))

	days := make([]models.CalendarDay, 0, CalendarDays)
	for i := 0; i < CalendarDays; i++ {
		d := start.AddDate(0, 0, i)
		days = append(days, models.CalendarDay{
			Date:           d,
			ISODate:        ISODate(d),
			Day:            d.Day(),
			IsCurrentMonth: view.Contains(d),
			IsAvailable:    IsDateAvailable(d, view.Year, view.Month, provider, today),
			IsSelected:     !selected.IsZero() && sameDay(d, selected.In(loc)),
		})
	}
	return days
}
