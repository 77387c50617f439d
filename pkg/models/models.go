package models

import (
	"fmt"
	"time"
)

// TimesheetData is the tuple every exporter consumes: one employee's grid
// for one week, plus the display name.
type TimesheetData struct {
	EmployeeName  string    `json:"employee_name"`
	WeekStartDate time.Time `json:"week_start_date"`
	GridData      [][]bool  `json:"grid_data"`
}

// DaySummary is the derived view of one day of a timesheet.
type DaySummary struct {
	Day      string  `json:"day"`
	Date     string  `json:"date"`
	Ranges   string  `json:"ranges"`
	Hours    float64 `json:"hours"`
	Overtime float64 `json:"overtime_hours"`
}

// WeekSummary is the derived view of a whole week.
type WeekSummary struct {
	WeekStartDate string       `json:"week_start_date"`
	Days          []DaySummary `json:"days"`
	TotalHours    float64      `json:"total_hours"`
	OvertimeHours float64      `json:"overtime_hours"`
}

// EmployeeOverview is one roster row of the HR dashboard: current-month
// hours and the last time the employee touched a sheet.
type EmployeeOverview struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	TotalHours float64    `json:"total_hours"`
	LastUpdate *time.Time `json:"last_update"`
}

// Period selects which snapshots a consolidated export covers.
type Period string

const (
	PeriodLatest Period = "latest" // most recently updated sheet per employee
	PeriodWeek   Period = "week"
	PeriodMonth  Period = "month"
	PeriodCustom Period = "custom"
)

// PeriodFilter is the closed set of export period selections.
type PeriodFilter struct {
	Period Period     `json:"period"`
	Week   *time.Time `json:"week,omitempty"`  // PeriodWeek: any date in the week
	Year   int        `json:"year,omitempty"`  // PeriodMonth
	Month  time.Month `json:"month,omitempty"` // PeriodMonth
	Start  *time.Time `json:"start,omitempty"` // PeriodCustom
	End    *time.Time `json:"end,omitempty"`   // PeriodCustom
}

// Validate checks that the filter carries the fields its period requires.
func (f PeriodFilter) Validate() error {
	switch f.Period {
	case PeriodLatest:
		return nil
	case PeriodWeek:
		if f.Week == nil {
			return fmt.Errorf("period %q requires a week date", f.Period)
		}
	case PeriodMonth:
		if f.Year == 0 || f.Month < time.January || f.Month > time.December {
			return fmt.Errorf("period %q requires a year and month", f.Period)
		}
	case PeriodCustom:
		if f.Start == nil || f.End == nil {
			return fmt.Errorf("period %q requires start and end dates", f.Period)
		}
		if f.End.Before(*f.Start) {
			return fmt.Errorf("period %q end precedes start", f.Period)
		}
	default:
		return fmt.Errorf("unknown period %q", f.Period)
	}
	return nil
}

// StrokeType is one step of a paint gesture.
type StrokeType string

const (
	StrokePress   StrokeType = "press"
	StrokeEnter   StrokeType = "enter"
	StrokeRelease StrokeType = "release"
)

// Stroke is a single pointer event of a gesture stream.
type Stroke struct {
	Type StrokeType `json:"type" binding:"required"`
	Day  int        `json:"day"`
	Slot int        `json:"slot"`
}
