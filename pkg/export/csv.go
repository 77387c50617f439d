package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/SinaZyx/timesheet/pkg/models"
)

// WeeklyCSV renders one employee's week as plain CSV: one row per day plus
// a totals row.
func WeeklyCSV(data models.TimesheetData) ([]byte, error) {
	var out bytes.Buffer
	w := csv.NewWriter(&out)

	if err := w.Write([]string{"jour", "date", "horaires", "heures"}); err != nil {
		return nil, err
	}

	summary := Summarize(data)
	for _, day := range summary.Days {
		record := []string{
			day.Day,
			day.Date,
			day.Ranges,
			fmt.Sprintf("%.2f", day.Hours),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	totals := []string{
		"TOTAL",
		"",
		fmt.Sprintf("dont %.2f h sup.", summary.OvertimeHours),
		fmt.Sprintf("%.2f", summary.TotalHours),
	}
	if err := w.Write(totals); err != nil {
		return nil, err
	}

	w.Flush()
	return out.Bytes(), w.Error()
}
