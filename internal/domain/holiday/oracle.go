package holiday

import (
	"sort"
	"time"
)

// ExpandInRange materializes the holidays that fall inside [from, to]
// (date-inclusive). Non-recurring holidays match on their literal date;
// recurring company holidays match on (month, day) in every year the
// range touches, regardless of the year stored on the row. The result
// is deduplicated by date+scope and sorted ascending by date. A date
// carrying both a national and a regional holiday keeps both entries.
func ExpandInRange(holidays []Holiday, from, to time.Time) []Holiday {
	from = truncateDay(from)
	to = truncateDay(to)

	type key struct {
		date  string
		scope string
	}
	seen := make(map[key]bool)
	var out []Holiday

	add := func(h Holiday, date time.Time) {
		k := key{date: date.Format("2006-01-02"), scope: h.Scope}
		if seen[k] {
			return
		}
		seen[k] = true
		h.Date = date
		out = append(out, h)
	}

	for _, h := range holidays {
		literal := truncateDay(h.Date)
		if inRange(literal, from, to) {
			add(h, literal)
		}
		if !h.IsRecurring {
			continue
		}
		for year := from.Year(); year <= to.Year(); year++ {
			occurrence := time.Date(year, h.Date.Month(), h.Date.Day(), 0, 0, 0, 0, time.UTC)
			// time.Date normalizes Feb 29 to Mar 1 in non-leap years;
			// skip the shifted occurrence.
			if occurrence.Month() != h.Date.Month() || occurrence.Day() != h.Date.Day() {
				continue
			}
			if inRange(occurrence, from, to) {
				add(h, occurrence)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

func inRange(d, from, to time.Time) bool {
	return !d.Before(from) && !d.After(to)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
