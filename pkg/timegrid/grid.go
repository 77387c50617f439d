package timegrid

import (
	"encoding/json"
	"fmt"
)

// Tracked daily window: 06:00 up to and including the 23:30 slot,
// in 30-minute increments.
const (
	StartHour    = 6
	EndHour      = 23
	SlotsPerHour = 2
	SlotMinutes  = 60 / SlotsPerHour

	DaysPerWeek = 7
	TotalSlots  = (EndHour - StartHour + 1) * SlotsPerHour
)

// DayNames are the column labels, Monday first.
var DayNames = [DaysPerWeek]string{
	"Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi", "Dimanche",
}

// Grid is one employee's slot occupancy for one calendar week.
// Dimensions are fixed at 7 days of TotalSlots half-hour cells; a cell is
// either occupied (working) or free (resting), nothing else.
type Grid struct {
	cells [DaysPerWeek][TotalSlots]bool
}

// New returns an empty grid (all cells free).
func New() *Grid {
	return &Grid{}
}

// FromRows builds a grid from a raw 7xTotalSlots matrix, as stored in the
// timesheets table. The shape is validated; anything else is a corrupt record.
func FromRows(rows [][]bool) (*Grid, error) {
	if len(rows) != DaysPerWeek {
		return nil, fmt.Errorf("timegrid: expected %d days, got %d", DaysPerWeek, len(rows))
	}
	g := New()
	for d, row := range rows {
		if len(row) != TotalSlots {
			return nil, fmt.Errorf("timegrid: day %d has %d slots, expected %d", d, len(row), TotalSlots)
		}
		copy(g.cells[d][:], row)
	}
	return g, nil
}

func checkBounds(day, slot int) {
	if day < 0 || day >= DaysPerWeek {
		panic(fmt.Sprintf("timegrid: day index %d out of range [0,%d)", day, DaysPerWeek))
	}
	if slot < 0 || slot >= TotalSlots {
		panic(fmt.Sprintf("timegrid: slot index %d out of range [0,%d)", slot, TotalSlots))
	}
}

// Get reports whether the cell at (day, slot) is occupied.
// Out-of-range indices are a programming error and panic.
func (g *Grid) Get(day, slot int) bool {
	checkBounds(day, slot)
	return g.cells[day][slot]
}

// Set assigns a single cell.
func (g *Grid) Set(day, slot int, occupied bool) {
	checkBounds(day, slot)
	g.cells[day][slot] = occupied
}

// SetRange assigns every slot between from and to inclusive, in either
// order, on a single day. Ranges never span day columns.
func (g *Grid) SetRange(day, from, to int, occupied bool) {
	checkBounds(day, from)
	checkBounds(day, to)
	if from > to {
		from, to = to, from
	}
	for s := from; s <= to; s++ {
		g.cells[day][s] = occupied
	}
}

// Clear resets every cell to free.
func (g *Grid) Clear() {
	g.cells = [DaysPerWeek][TotalSlots]bool{}
}

// Clone returns a deep copy. Snapshots handed to an in-flight save must not
// alias the grid still being edited.
func (g *Grid) Clone() *Grid {
	c := *g
	return &c
}

// Day returns a copy of one day's row.
func (g *Grid) Day(day int) []bool {
	checkBounds(day, 0)
	row := make([]bool, TotalSlots)
	copy(row, g.cells[day][:])
	return row
}

// Rows returns a copy of the full matrix in the persisted 7xTotalSlots shape.
func (g *Grid) Rows() [][]bool {
	rows := make([][]bool, DaysPerWeek)
	for d := range rows {
		rows[d] = g.Day(d)
	}
	return rows
}

// OccupiedCount returns the number of occupied cells across the week.
func (g *Grid) OccupiedCount() int {
	n := 0
	for d := range g.cells {
		for s := range g.cells[d] {
			if g.cells[d][s] {
				n++
			}
		}
	}
	return n
}

// Equal reports whether two grids hold identical cells.
func (g *Grid) Equal(other *Grid) bool {
	return g.cells == other.cells
}

// MarshalJSON encodes the grid as the persisted 7xTotalSlots boolean matrix.
func (g *Grid) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Rows())
}

// UnmarshalJSON decodes and validates the persisted matrix shape.
func (g *Grid) UnmarshalJSON(data []byte) error {
	var rows [][]bool
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	parsed, err := FromRows(rows)
	if err != nil {
		return err
	}
	*g = *parsed
	return nil
}
