package booking

import (
	"testing"
	"time"

	"medconnect/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMonthAlwaysFortyTwoDays(t *testing.T) {
	today := day(2023, 6, 1)
	for year := 2023; year <= 2026; year++ {
		for month := time.January; month <= time.December; month++ {
			days := GenerateMonth(year, month, scenarioProvider(), today, time.Time{})
			require.Len(t, days, CalendarDays)
			assert.Equal(t, time.Sunday, days[0].Date.Weekday(), "%d-%d", year, month)

			first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
			assert.False(t, days[0].Date.After(first))
			assert.Less(t, first.Sub(days[0].Date), 7*24*time.Hour)
		}
	}
}

func TestGenerateMonthLayout(t *testing.T) {
	days := GenerateMonth(2024, time.January, scenarioProvider(), day(2024, 1, 1), time.Time{})

	// 2024-01-01 is a Monday, so the grid opens on Sunday 2023-12-31.
	assert.Equal(t, "2023-12-31", days[0].ISODate)
	assert.False(t, days[0].IsCurrentMonth)
	assert.Equal(t, "2024-01-01", days[1].ISODate)
	assert.True(t, days[1].IsCurrentMonth)
	assert.Equal(t, "2024-02-10", days[41].ISODate)

	var inMonth int
	for _, d := range days {
		if d.IsCurrentMonth {
			inMonth++
		}
	}
	assert.Equal(t, 31, inMonth)
}

func TestGenerateMonthAvailability(t *testing.T) {
	p := scenarioProvider()
	today := day(2024, 1, 10)
	days := GenerateMonth(2024, time.January, p, today, time.Time{})

	byDate := map[string]models.CalendarDay{}
	for _, d := range days {
		byDate[d.ISODate] = d
		if d.Date.Before(today) {
			assert.False(t, d.IsAvailable, "past day %s", d.ISODate)
		}
		if !d.IsCurrentMonth {
			assert.False(t, d.IsAvailable, "cross-month day %s", d.ISODate)
		}
	}

	assert.False(t, byDate["2024-01-09"].IsAvailable) // Tuesday before today
	assert.True(t, byDate["2024-01-10"].IsAvailable)  // today
	assert.True(t, byDate["2024-01-15"].IsAvailable)  // Monday, partly booked
	assert.False(t, byDate["2024-01-18"].IsAvailable) // blocked date
	assert.False(t, byDate["2024-01-20"].IsAvailable) // Saturday
	assert.False(t, byDate["2024-02-01"].IsAvailable) // Thursday of next month
}

func TestGenerateMonthSelection(t *testing.T) {
	days := GenerateMonth(2024, time.January, scenarioProvider(), day(2024, 1, 1), day(2024, 1, 17))
	var selected []string
	for _, d := range days {
		if d.IsSelected {
			selected = append(selected, d.ISODate)
		}
	}
	assert.Equal(t, []string{"2024-01-17"}, selected)
}

func TestIsDateAvailable(t *testing.T) {
	p := scenarioProvider()
	today := day(2024, 1, 1)

	assert.True(t, IsDateAvailable(day(2024, 1, 17), 2024, time.January, p, today))
	assert.False(t, IsDateAvailable(day(2024, 1, 18), 2024, time.January, p, today))
	assert.False(t, IsDateAvailable(day(2024, 1, 20), 2024, time.January, p, today))
	assert.False(t, IsDateAvailable(day(2024, 1, 17), 2024, time.February, p, today))
	assert.False(t, IsDateAvailable(time.Time{}, 2024, time.January, p, today))

	// Time of day does not matter for the today comparison.
	lateToday := time.Date(2024, 1, 17, 23, 59, 0, 0, time.UTC)
	assert.True(t, IsDateAvailable(day(2024, 1, 17), 2024, time.January, p, lateToday))

	p.WorkingDays = nil
	assert.False(t, IsDateAvailable(day(2024, 1, 17), 2024, time.January, p, today))
}

func TestMonthView(t *testing.T) {
	jan := MonthView{Year: 2024, Month: time.January}
	assert.Equal(t, MonthView{Year: 2023, Month: time.December}, jan.Previous())
	assert.Equal(t, MonthView{Year: 2024, Month: time.February}, jan.Next())
	assert.Equal(t, MonthView{Year: 2025, Month: time.March}, jan.Add(14))
	assert.Equal(t, "January 2024", jan.String())
	assert.True(t, jan.Contains(day(2024, 1, 31)))
	assert.False(t, jan.Contains(day(2023, 1, 31)))
}

func TestParseISODate(t *testing.T) {
	d, err := ParseISODate("2024-02-29", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, day(2024, 2, 29), d)

	_, err = ParseISODate("2024-13-01", time.UTC)
	assert.ErrorIs(t, err, ErrValidation)
}
