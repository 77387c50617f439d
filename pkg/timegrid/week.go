package timegrid

import "time"

// KeyLayout is the wire format of a week key: the Monday's calendar date,
// no time component.
const KeyLayout = "2006-01-02"

// MondayOf canonicalizes any reference date to the Monday of its ISO week,
// with the time of day stripped. Two dates in the same Monday-to-Sunday span
// always map to the identical value.
func MondayOf(t time.Time) time.Time {
	year, month, day := t.Date()
	date := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	// time.Weekday has Sunday as 0; shift so Monday is offset 0.
	offset := (int(date.Weekday()) + 6) % 7
	return date.AddDate(0, 0, -offset)
}

// Key formats the canonical week identifier for any reference date.
func Key(t time.Time) string {
	return MondayOf(t).Format(KeyLayout)
}

// ParseKey parses a calendar date and canonicalizes it to its Monday.
func ParseKey(s string) (time.Time, error) {
	t, err := time.Parse(KeyLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return MondayOf(t), nil
}

// WeekDates returns the seven dates of the week starting at monday.
func WeekDates(monday time.Time) [DaysPerWeek]time.Time {
	var dates [DaysPerWeek]time.Time
	for i := range dates {
		dates[i] = monday.AddDate(0, 0, i)
	}
	return dates
}
