package timegrid

// Daily overtime threshold, in half-hour units (7 hours).
// Overtime is strictly per day; it is never derived from the weekly total.
const overtimeThresholdHalves = 7 * SlotsPerHour

// All hour math accumulates in integer half-hour units and converts to
// hours only at the return boundary, so totals stay exact however many
// weeks are aggregated.

func halfHours(row []bool) int {
	n := 0
	for _, occupied := range row {
		if occupied {
			n++
		}
	}
	return n
}

// DayHours returns the worked hours of one day's row.
func DayHours(row []bool) float64 {
	return float64(halfHours(row)) / 2
}

func dayOvertimeHalves(row []bool) int {
	if h := halfHours(row); h > overtimeThresholdHalves {
		return h - overtimeThresholdHalves
	}
	return 0
}

// DayOvertime returns the hours worked beyond 7h on one day's row. This is
// the only place the daily threshold is applied; every consumer derives
// overtime from here.
func DayOvertime(row []bool) float64 {
	return float64(dayOvertimeHalves(row)) / 2
}

// TotalHours returns the worked hours summed over a week's rows.
func TotalHours(rows [][]bool) float64 {
	total := 0
	for _, row := range rows {
		total += halfHours(row)
	}
	return float64(total) / 2
}

// OvertimeHours returns the week's overtime: the daily excess summed over
// the rows.
func OvertimeHours(rows [][]bool) float64 {
	overtime := 0
	for _, row := range rows {
		overtime += dayOvertimeHalves(row)
	}
	return float64(overtime) / 2
}

// DayHours returns the worked hours of one day of the grid.
func (g *Grid) DayHours(day int) float64 {
	return DayHours(g.Day(day))
}

// TotalHours returns the worked hours of the whole grid.
func (g *Grid) TotalHours() float64 {
	return TotalHours(g.Rows())
}

// OvertimeHours returns the grid's per-day overtime, summed.
func (g *Grid) OvertimeHours() float64 {
	return OvertimeHours(g.Rows())
}
