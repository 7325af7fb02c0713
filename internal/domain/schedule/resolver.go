package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// Merge builds the effective 7-day template from company defaults and a
// user's personal overrides. For any weekday present in both sets the
// override wins; weekdays present in neither are non-workable with zero
// expected minutes.
func Merge(defaults, overrides []WorkScheduleDay) (EffectiveSchedule, error) {
	var out EffectiveSchedule
	for day := 0; day < DaysPerWeek; day++ {
		out.Days[day] = EffectiveDay{DayOfWeek: day}
	}

	apply := func(rows []WorkScheduleDay, override bool) error {
		for _, row := range rows {
			if row.DayOfWeek < 0 || row.DayOfWeek >= DaysPerWeek {
				return fmt.Errorf("%w: %d", ErrInvalidDayOfWeek, row.DayOfWeek)
			}
			expected := 0
			if row.IsWorkable {
				minutes, err := ExpectedMinutes(row.StartTime, row.EndTime, row.BreakStart, row.BreakEnd)
				if err != nil {
					return err
				}
				expected = minutes
			}
			out.Days[row.DayOfWeek] = EffectiveDay{
				DayOfWeek:       row.DayOfWeek,
				IsWorkable:      row.IsWorkable,
				StartTime:       row.StartTime,
				EndTime:         row.EndTime,
				BreakStart:      row.BreakStart,
				BreakEnd:        row.BreakEnd,
				ExpectedMinutes: expected,
				IsOverride:      override,
			}
		}
		return nil
	}

	if err := apply(defaults, false); err != nil {
		return EffectiveSchedule{}, err
	}
	if err := apply(overrides, true); err != nil {
		return EffectiveSchedule{}, err
	}
	return out, nil
}

// ExpectedMinutes is (end - start) minus the break span when both break
// bounds are present, floored at zero.
func ExpectedMinutes(startTime, endTime string, breakStart, breakEnd *string) (int, error) {
	start, err := parseClock(startTime)
	if err != nil {
		return 0, err
	}
	end, err := parseClock(endTime)
	if err != nil {
		return 0, err
	}

	minutes := end - start
	if breakStart != nil && breakEnd != nil {
		bs, err := parseClock(*breakStart)
		if err != nil {
			return 0, err
		}
		be, err := parseClock(*breakEnd)
		if err != nil {
			return 0, err
		}
		minutes -= be - bs
	}
	if minutes < 0 {
		minutes = 0
	}
	return minutes, nil
}

// parseClock converts "HH:mm" to minutes since midnight.
func parseClock(value string) (int, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}
	return hours*60 + minutes, nil
}
