package export

import (
	"fmt"

	"github.com/SinaZyx/timesheet/pkg/models"
	"github.com/SinaZyx/timesheet/pkg/timegrid"
	"github.com/xuri/excelize/v2"
)

// WeeklyExcel renders one employee's week as a single "Resume" sheet with
// one row per day, a daily overtime column and a TOTAL row.
func WeeklyExcel(data models.TimesheetData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Resume"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	rowIdx := 1
	if err := setRow(f, sheet, rowIdx, "Jour", "Date", "Horaires", "Total", "Heures Supp."); err != nil {
		return nil, err
	}

	summary := Summarize(data)
	for _, day := range summary.Days {
		rowIdx++
		if err := setRow(f, sheet, rowIdx, day.Day, day.Date, day.Ranges, day.Hours, day.Overtime); err != nil {
			return nil, err
		}
	}
	rowIdx++
	if err := setRow(f, sheet, rowIdx, "TOTAL", "", "", summary.TotalHours, summary.OvertimeHours); err != nil {
		return nil, err
	}

	widths := []float64{15, 15, 40, 10, 15}
	if err := setWidths(f, sheet, widths); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ConsolidatedExcel renders the HR workbook: a Details sheet (day rows per
// employee with per-employee totals), a Resume sheet (one line per
// employee) and a Statistiques sheet.
func ConsolidatedExcel(sheets []models.TimesheetData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Details"); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet("Resume"); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet("Statistiques"); err != nil {
		return nil, err
	}

	if err := writeDetails(f, sheets); err != nil {
		return nil, err
	}
	if err := writeResume(f, sheets); err != nil {
		return nil, err
	}
	if err := writeStatistics(f, sheets); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeDetails(f *excelize.File, sheets []models.TimesheetData) error {
	const sheet = "Details"
	rowIdx := 1
	if err := setRow(f, sheet, rowIdx,
		"Employé", "Semaine", "Jour", "Date", "Horaires", "Heures", "Heures Supp."); err != nil {
		return err
	}

	for _, data := range sheets {
		week := weekLabel(data)
		summary := Summarize(data)
		for _, day := range summary.Days {
			rowIdx++
			if err := setRow(f, sheet, rowIdx,
				data.EmployeeName, week, day.Day, day.Date, day.Ranges, day.Hours, day.Overtime); err != nil {
				return err
			}
		}
		rowIdx++
		if err := setRow(f, sheet, rowIdx,
			"TOTAL "+data.EmployeeName, "", "", "", "", summary.TotalHours, summary.OvertimeHours); err != nil {
			return err
		}
		// Blank separator between employees.
		rowIdx++
	}

	grandTotal, grandOvertime := grandTotals(sheets)
	rowIdx++
	if err := setRow(f, sheet, rowIdx,
		"TOTAL GÉNÉRAL", "", "", "", "", grandTotal, grandOvertime); err != nil {
		return err
	}

	return setWidths(f, sheet, []float64{25, 25, 12, 12, 40, 10, 15})
}

func writeResume(f *excelize.File, sheets []models.TimesheetData) error {
	const sheet = "Resume"
	rowIdx := 1
	if err := setRow(f, sheet, rowIdx,
		"Employé", "Semaine", "Total Heures", "Heures Supp.", "Heures Normales"); err != nil {
		return err
	}

	for _, data := range sheets {
		rowIdx++
		total := timegrid.TotalHours(data.GridData)
		overtime := timegrid.OvertimeHours(data.GridData)
		if err := setRow(f, sheet, rowIdx,
			data.EmployeeName, weekLabel(data), total, overtime, total-overtime); err != nil {
			return err
		}
	}

	grandTotal, grandOvertime := grandTotals(sheets)
	rowIdx++
	if err := setRow(f, sheet, rowIdx,
		"TOTAL", "", grandTotal, grandOvertime, grandTotal-grandOvertime); err != nil {
		return err
	}

	return setWidths(f, sheet, []float64{25, 25, 15, 15, 18})
}

func writeStatistics(f *excelize.File, sheets []models.TimesheetData) error {
	const sheet = "Statistiques"
	grandTotal, grandOvertime := grandTotals(sheets)
	count := float64(len(sheets))

	rows := [][]interface{}{
		{"Statistique", "Valeur"},
		{"Nombre de feuilles", len(sheets)},
		{"Total heures", fmt.Sprintf("%.2f", grandTotal)},
		{"Total heures supplémentaires", fmt.Sprintf("%.2f", grandOvertime)},
		{"Moyenne heures par feuille", fmt.Sprintf("%.2f", grandTotal/count)},
		{"Moyenne heures supp. par feuille", fmt.Sprintf("%.2f", grandOvertime/count)},
	}
	for i, row := range rows {
		if err := setRow(f, sheet, i+1, row...); err != nil {
			return err
		}
	}

	return setWidths(f, sheet, []float64{35, 15})
}

func grandTotals(sheets []models.TimesheetData) (total, overtime float64) {
	for _, data := range sheets {
		total += timegrid.TotalHours(data.GridData)
		overtime += timegrid.OvertimeHours(data.GridData)
	}
	return total, overtime
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func setWidths(f *excelize.File, sheet string, widths []float64) error {
	for i, w := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, w); err != nil {
			return err
		}
	}
	return nil
}
