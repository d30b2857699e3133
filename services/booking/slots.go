package booking

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"medconnect/models"
)

// GenerateSlots lists the bookable start times on date, in ascending order. Starts run
// from workingHours.start to workingHours.end in slotDurationMinutes steps restarting at
// every full hour; a step that would not start before the next hour is never generated.
// Booked times and starts inside a break are left out rather than flagged.
func GenerateSlots(date time.Time, provider models.Provider) []models.TimeSlot {
	slots := []models.TimeSlot{}
	step := provider.SlotDurationMinutes
	if date.IsZero() || step <= 0 {
		return slots
	}

	start := max(provider.WorkingHours.Start, 0)
	end := min(provider.WorkingHours.End, 24)
	breaks := parseBreaks(provider.Breaks)
	iso := ISODate(date)

	for hour := start; hour < end; hour++ {
		for minute := 0; minute < 60; minute += step {
			value := fmt.Sprintf("%02d:%02d", hour, minute)
			if provider.IsBooked(iso, value) || inBreak(breaks, hour*60+minute) {
				continue
			}
			slots = append(slots, models.TimeSlot{
				Value:     value,
				Display:   FormatSlotTime(hour, minute),
				Available: true,
			})
		}
	}
	return slots
}

// FormatSlotTime renders a 24-hour time as "h:mm AM/PM".
func FormatSlotTime(hour, minute int) string {
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	display := hour
	switch {
	case hour > 12:
		display = hour - 12
	case hour == 0:
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, period)
}

// ContainsSlot reports whether value is one of the generated slots.
func ContainsSlot(slots []models.TimeSlot, value string) bool {
	return slices.ContainsFunc(slots, func(s models.TimeSlot) bool { return s.Value == value })
}

type minuteRange struct{ start, end int }

func inBreak(breaks []minuteRange, minuteOfDay int) bool {
	for _, b := range breaks {
		if minuteOfDay >= b.start && minuteOfDay < b.end {
			return true
		}
	}
	return false
}

// parseBreaks skips malformed or empty ranges.
func parseBreaks(breaks []models.Break) []minuteRange {
	out := make([]minuteRange, 0, len(breaks))
	for _, b := range breaks {
		s, okS := parseClock(b.Start)
		e, okE := parseClock(b.End)
		if !okS || !okE || e <= s {
			continue
		}
		out = append(out, minuteRange{start: s, end: e})
	}
	return out
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(v string) (int, bool) {
	h, m, ok := strings.Cut(strings.TrimSpace(v), ":")
	if !ok {
		return 0, false
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 24 {
		return 0, false
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

// ValidateClock checks a "HH:MM" slot value.
func ValidateClock(v string) error {
	if len(v) != 5 {
		return NewValidationError("time", "invalid time %q, expected HH:MM", v)
	}
	if _, ok := parseClock(v); !ok {
		return NewValidationError("time", "invalid time %q, expected HH:MM", v)
	}
	return nil
}
