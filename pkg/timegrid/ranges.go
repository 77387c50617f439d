package timegrid

import (
	"fmt"
	"strings"
)

// RestLabel is what callers display for a day with no occupied slots.
const RestLabel = "Repos"

// Range is a maximal contiguous run of occupied slots within one day.
// Start is inclusive, End exclusive, so the clock label of End is the start
// of the slot following the last occupied one.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Ranges scans one day's row left to right and returns its contiguous
// occupied runs, ordered by start slot. A day with no work yields an empty
// slice; the "Repos" sentinel is the caller's display policy, not ours.
func Ranges(row []bool) []Range {
	var ranges []Range
	start := -1
	for i, occupied := range row {
		switch {
		case occupied && start < 0:
			start = i
		case !occupied && start >= 0:
			ranges = append(ranges, Range{Start: start, End: i})
			start = -1
		}
	}
	if start >= 0 {
		ranges = append(ranges, Range{Start: start, End: len(row)})
	}
	return ranges
}

// SlotClock renders the wall-clock start of a slot index as "HH:MM".
// Index TotalSlots is valid here: it is the exclusive end of a run that
// reaches the bottom of the grid (midnight boundary of the window).
func SlotClock(slot int) string {
	minutes := StartHour*60 + slot*SlotMinutes
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Label renders a range as "HH:MM - HH:MM" using the exclusive end slot.
func (r Range) Label() string {
	return SlotClock(r.Start) + " - " + SlotClock(r.End)
}

// RangesLabel renders a day's runs joined by " / ", or RestLabel when the
// day is entirely free.
func RangesLabel(row []bool) string {
	ranges := Ranges(row)
	if len(ranges) == 0 {
		return RestLabel
	}
	labels := make([]string, len(ranges))
	for i, r := range ranges {
		labels[i] = r.Label()
	}
	return strings.Join(labels, " / ")
}
