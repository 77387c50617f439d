// Package export renders timesheet snapshots into the document formats the
// application ships: PDF sheets, Excel workbooks, CSV and ZIP bundles. All
// derived numbers and range labels come from pkg/timegrid; nothing is
// recomputed here.
package export

import (
	"github.com/SinaZyx/timesheet/pkg/models"
	"github.com/SinaZyx/timesheet/pkg/timegrid"
)

// frDate is the date rendering used across all documents (DD/MM/YYYY).
const frDate = "02/01/2006"

// Summarize derives the per-day and weekly figures of one snapshot. The
// same view backs the interactive summary endpoint and every exporter.
func Summarize(data models.TimesheetData) models.WeekSummary {
	monday := timegrid.MondayOf(data.WeekStartDate)
	dates := timegrid.WeekDates(monday)

	summary := models.WeekSummary{
		WeekStartDate: monday.Format(timegrid.KeyLayout),
		Days:          make([]models.DaySummary, timegrid.DaysPerWeek),
		TotalHours:    timegrid.TotalHours(data.GridData),
		OvertimeHours: timegrid.OvertimeHours(data.GridData),
	}
	for d := 0; d < timegrid.DaysPerWeek; d++ {
		row := data.GridData[d]
		summary.Days[d] = models.DaySummary{
			Day:      timegrid.DayNames[d],
			Date:     dates[d].Format(frDate),
			Ranges:   timegrid.RangesLabel(row),
			Hours:    timegrid.DayHours(row),
			Overtime: timegrid.DayOvertime(row),
		}
	}
	return summary
}

// weekLabel renders the Monday-to-Sunday span of a snapshot.
func weekLabel(data models.TimesheetData) string {
	dates := timegrid.WeekDates(timegrid.MondayOf(data.WeekStartDate))
	return dates[0].Format(frDate) + " - " + dates[timegrid.DaysPerWeek-1].Format(frDate)
}
