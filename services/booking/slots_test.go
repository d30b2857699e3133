package booking

import (
	"testing"
	"time"

	"medconnect/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var weekdays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

// scenarioProvider works Mon–Fri 9–17 in 30-minute slots.
func scenarioProvider() models.Provider {
	return models.Provider{
		ID:                  "1",
		Name:                "Dr. Sarah Wilson",
		Specialty:           "Cardiology",
		WorkingDays:         weekdays,
		WorkingHours:        models.WorkingHours{Start: 9, End: 17},
		SlotDurationMinutes: 30,
		BookedSlots: map[string][]string{
			"2024-01-15": {"10:00", "14:30"},
		},
		UnavailableDates: []string{"2024-01-18"},
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func values(slots []models.TimeSlot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Value
	}
	return out
}

func TestGenerateSlotsCountFormula(t *testing.T) {
	slots := GenerateSlots(day(2024, 1, 16), scenarioProvider())
	require.Len(t, slots, (17-9)*60/30)
	assert.Equal(t, "09:00", slots[0].Value)
	assert.Equal(t, "9:00 AM", slots[0].Display)
	assert.Equal(t, "16:30", slots[len(slots)-1].Value)
	assert.Equal(t, "4:30 PM", slots[len(slots)-1].Display)
	for _, s := range slots {
		assert.True(t, s.Available)
	}
}

func TestGenerateSlotsExcludesBooked(t *testing.T) {
	slots := GenerateSlots(day(2024, 1, 15), scenarioProvider())
	assert.Len(t, slots, 14)
	assert.NotContains(t, values(slots), "10:00")
	assert.NotContains(t, values(slots), "14:30")
	assert.Contains(t, values(slots), "10:30")
}

func TestGenerateSlotsChronological(t *testing.T) {
	for _, step := range []int{10, 15, 20, 30, 45, 60} {
		p := scenarioProvider()
		p.SlotDurationMinutes = step
		slots := GenerateSlots(day(2024, 1, 15), p)
		for i := 1; i < len(slots); i++ {
			assert.Less(t, slots[i-1].Value, slots[i].Value, "step %d", step)
		}
	}
}

func TestGenerateSlotsTruncatesUnevenDuration(t *testing.T) {
	p := scenarioProvider()
	p.SlotDurationMinutes = 45
	slots := GenerateSlots(day(2024, 1, 16), p)
	assert.Len(t, slots, 16)
	assert.Equal(t, []string{"09:00", "09:45", "10:00", "10:45"}, values(slots)[:4])
}

func TestGenerateSlotsBreaks(t *testing.T) {
	p := scenarioProvider()
	p.Breaks = []models.Break{
		{Start: "12:00", End: "13:00", Label: "Lunch"},
		{Start: "bogus", End: "13:00"},
		{Start: "15:00", End: "15:00"},
	}
	slots := GenerateSlots(day(2024, 1, 16), p)
	assert.Len(t, slots, 14)
	assert.NotContains(t, values(slots), "12:00")
	assert.NotContains(t, values(slots), "12:30")
	assert.Contains(t, values(slots), "13:00")
	assert.Contains(t, values(slots), "15:00")
}

func TestGenerateSlotsEmptyCases(t *testing.T) {
	assert.Empty(t, GenerateSlots(time.Time{}, scenarioProvider()))

	p := scenarioProvider()
	p.SlotDurationMinutes = 0
	assert.Empty(t, GenerateSlots(day(2024, 1, 16), p))

	p = scenarioProvider()
	p.WorkingHours = models.WorkingHours{Start: 17, End: 9}
	assert.Empty(t, GenerateSlots(day(2024, 1, 16), p))

	assert.NotNil(t, GenerateSlots(time.Time{}, scenarioProvider()))
}

func TestFormatSlotTime(t *testing.T) {
	cases := map[[2]int]string{
		{0, 0}:   "12:00 AM",
		{9, 5}:   "9:05 AM",
		{11, 30}: "11:30 AM",
		{12, 0}:  "12:00 PM",
		{13, 30}: "1:30 PM",
		{23, 45}: "11:45 PM",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatSlotTime(in[0], in[1]))
	}
}

func TestValidateClock(t *testing.T) {
	assert.NoError(t, ValidateClock("09:30"))
	for _, v := range []string{"9:30", "09:60", "ab:cd", "", "0930"} {
		assert.ErrorIs(t, ValidateClock(v), ErrValidation, v)
	}
}
