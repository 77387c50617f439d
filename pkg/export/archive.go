package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"

	"github.com/SinaZyx/timesheet/pkg/models"
	"github.com/SinaZyx/timesheet/pkg/timegrid"
)

// PDFArchive bundles one PDF per snapshot into a ZIP, each named
// <employee>_<week-start>.pdf with spaces collapsed to underscores.
func PDFArchive(sheets []models.TimesheetData) ([]byte, error) {
	var out bytes.Buffer
	zw := zip.NewWriter(&out)

	for _, data := range sheets {
		doc, err := WeeklyPDF(data)
		if err != nil {
			return nil, err
		}

		name := strings.Join(strings.Fields(data.EmployeeName), "_")
		fileName := fmt.Sprintf("%s_%s.pdf", name, timegrid.Key(data.WeekStartDate))
		f, err := zw.Create(fileName)
		if err != nil {
			return nil, err
		}
		if _, err := f.Write(doc); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
