package export

import (
	"fmt"

	"github.com/SinaZyx/timesheet/pkg/models"
	"github.com/SinaZyx/timesheet/pkg/timegrid"
	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"
)

var (
	headerBlue = color.Color{Red: 2, Green: 132, Blue: 199}
	lightBlue  = color.Color{Red: 240, Green: 249, Blue: 255}
	slateText  = color.Color{Red: 50, Green: 50, Blue: 50}
	amberText  = color.Color{Red: 217, Green: 119, Blue: 6}
	white      = color.NewWhite()
)

// WeeklyPDF renders one employee's weekly sheet.
func WeeklyPDF(data models.TimesheetData) ([]byte, error) {
	m := newDoc()
	writeWeekPage(m, data)
	buf, err := m.Output()
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// ConsolidatedPDF renders one page per employee snapshot in a single
// document, in input order.
func ConsolidatedPDF(sheets []models.TimesheetData) ([]byte, error) {
	m := newDoc()
	for i, data := range sheets {
		if i > 0 {
			m.AddPage()
		}
		writeWeekPage(m, data)
	}
	buf, err := m.Output()
	if err != nil {
		return nil, fmt.Errorf("render consolidated pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func newDoc() pdf.Maroto {
	m := pdf.NewMaroto(consts.Landscape, consts.A4)
	m.SetPageMargins(15, 10, 15)
	return m
}

// writeWeekPage lays out the sheet: title band, collaborator line, the
// Jour/Date/Horaires/Total table, the week total box and signature lines.
func writeWeekPage(m pdf.Maroto, data models.TimesheetData) {
	dates := timegrid.WeekDates(timegrid.MondayOf(data.WeekStartDate))

	m.SetBackgroundColor(headerBlue)
	m.Row(14, func() {
		m.Col(8, func() {
			m.Text("FEUILLE DE TEMPS HEBDOMADAIRE", props.Text{
				Top:   4,
				Size:  16,
				Style: consts.Bold,
				Color: white,
			})
		})
		m.Col(4, func() {
			m.Text("Semaine du : "+weekLabel(data), props.Text{
				Top:   6,
				Size:  10,
				Align: consts.Right,
				Color: white,
			})
		})
	})
	m.SetBackgroundColor(white)

	m.Row(10, func() {
		m.Col(12, func() {
			m.Text("Collaborateur : "+data.EmployeeName, props.Text{
				Top:   3,
				Size:  11,
				Color: slateText,
			})
		})
	})

	contents := make([][]string, timegrid.DaysPerWeek)
	for d := 0; d < timegrid.DaysPerWeek; d++ {
		row := data.GridData[d]
		contents[d] = []string{
			timegrid.DayNames[d],
			dates[d].Format(frDate),
			timegrid.RangesLabel(row),
			fmt.Sprintf("%.2f h", timegrid.DayHours(row)),
		}
	}

	m.TableList([]string{"Jour", "Date", "Horaires (Debut - Fin)", "Total"}, contents, props.TableList{
		HeaderProp: props.TableListContent{
			Size:      9,
			Style:     consts.Bold,
			GridSizes: []uint{2, 2, 6, 2},
		},
		ContentProp: props.TableListContent{
			Size:      8,
			GridSizes: []uint{2, 2, 6, 2},
		},
		Align:                consts.Left,
		AlternatedBackground: &lightBlue,
		HeaderContentSpace:   1,
		Line:                 false,
	})

	total := timegrid.TotalHours(data.GridData)
	overtime := timegrid.OvertimeHours(data.GridData)

	m.Row(12, func() {
		m.Col(8, func() {})
		m.Col(4, func() {
			m.Text("TOTAL SEMAINE", props.Text{
				Top:   2,
				Size:  10,
				Align: consts.Center,
				Color: headerBlue,
			})
			m.Text(fmt.Sprintf("%.2f Heures", total), props.Text{
				Top:   6,
				Size:  13,
				Style: consts.Bold,
				Align: consts.Center,
			})
		})
	})
	if overtime > 0 {
		m.Row(6, func() {
			m.Col(8, func() {})
			m.Col(4, func() {
				m.Text(fmt.Sprintf("Dont %.2fh sup.", overtime), props.Text{
					Top:   1,
					Size:  9,
					Align: consts.Center,
					Color: amberText,
				})
			})
		})
	}

	m.Row(18, func() {
		m.Col(6, func() {
			m.Text("Signature Salarie", props.Text{
				Top:   12,
				Size:  9,
				Style: consts.Italic,
				Color: slateText,
			})
		})
		m.Col(6, func() {
			m.Text("Signature Responsable", props.Text{
				Top:   12,
				Size:  9,
				Style: consts.Italic,
				Align: consts.Right,
				Color: slateText,
			})
		})
	})
}
