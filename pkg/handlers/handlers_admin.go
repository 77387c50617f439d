package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SinaZyx/timesheet/pkg/auth"
	"github.com/SinaZyx/timesheet/pkg/database"
	"github.com/SinaZyx/timesheet/pkg/export"
	"github.com/SinaZyx/timesheet/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListEmployees returns the HR roster: every profile with its current-month
// hour total and the last snapshot update
func (h *Handler) ListEmployees(c *gin.Context) {
	overview, err := h.Store.MonthlyOverview(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not build roster"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"employees": overview})
}

// exportRequest selects the employees and the period of a consolidated
// export.
type exportRequest struct {
	EmployeeIDs []string `json:"employee_ids" binding:"required,min=1"`
	Period      string   `json:"period"`
	Week        string   `json:"week"`
	Year        int      `json:"year"`
	Month       int      `json:"month"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
}

func (r exportRequest) filter() (models.PeriodFilter, error) {
	period := models.Period(r.Period)
	if r.Period == "" {
		period = models.PeriodLatest
	}
	f := models.PeriodFilter{Period: period, Year: r.Year, Month: time.Month(r.Month)}

	parse := func(s string) (*time.Time, error) {
		if s == "" {
			return nil, nil
		}
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q", s)
		}
		return &t, nil
	}

	var err error
	if f.Week, err = parse(r.Week); err != nil {
		return f, err
	}
	if f.Start, err = parse(r.Start); err != nil {
		return f, err
	}
	if f.End, err = parse(r.End); err != nil {
		return f, err
	}
	return f, f.Validate()
}

// collectExportData resolves an export request into the exporter tuples.
func (h *Handler) collectExportData(c *gin.Context) ([]models.TimesheetData, bool) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	filter, err := req.filter()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	ids := make([]uuid.UUID, 0, len(req.EmployeeIDs))
	for _, raw := range req.EmployeeIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid employee id: " + raw})
			return nil, false
		}
		ids = append(ids, id)
	}

	sheets, err := h.Store.Query(ids, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not query timesheets"})
		return nil, false
	}
	if len(sheets) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No timesheet found for the selected period"})
		return nil, false
	}

	data, err := h.Store.ExportData(sheets)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not assemble export data"})
		return nil, false
	}
	return data, true
}

// ExportConsolidatedPDF renders one PDF with a page per selected sheet
func (h *Handler) ExportConsolidatedPDF(c *gin.Context) {
	data, ok := h.collectExportData(c)
	if !ok {
		return
	}
	doc, err := export.ConsolidatedPDF(data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not render PDF"})
		return
	}
	serveFile(c, doc, "application/pdf",
		fmt.Sprintf("releves_heures_consolide_%d_feuilles.pdf", len(data)))
}

// ExportConsolidatedExcel renders the consolidated HR workbook
func (h *Handler) ExportConsolidatedExcel(c *gin.Context) {
	data, ok := h.collectExportData(c)
	if !ok {
		return
	}
	doc, err := export.ConsolidatedExcel(data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not render workbook"})
		return
	}
	serveFile(c, doc, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		fmt.Sprintf("releves_heures_consolide_%d_feuilles.xlsx", len(data)))
}

// ExportArchive renders a ZIP with one PDF per selected sheet
func (h *Handler) ExportArchive(c *gin.Context) {
	data, ok := h.collectExportData(c)
	if !ok {
		return
	}
	doc, err := export.PDFArchive(data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not build archive"})
		return
	}
	serveFile(c, doc, "application/zip",
		fmt.Sprintf("releves_heures_%d_feuilles.zip", len(data)))
}

// GenerateKey creates a new service key using the HMAC strategy
func (h *Handler) GenerateKey(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	// Generate key using HMAC
	key := auth.GenerateHMACKey(req.Name)

	// Create preview (e.g., abc...****)
	preview := "****"
	if len(key) > 8 {
		preview = key[:3] + "..." + key[len(key)-4:]
	}

	serviceKey := database.ServiceKey{
		Key:        key,
		Name:       req.Name,
		KeyPreview: preview,
	}

	if err := h.DB.Create(&serviceKey).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create key record"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name": req.Name,
		"key":  key,
	})
}

// ListKeys returns all service keys
func (h *Handler) ListKeys(c *gin.Context) {
	var keys []database.ServiceKey
	h.DB.Find(&keys)
	c.JSON(http.StatusOK, gin.H{"keys": keys})
}

// RevokeKey deletes a service key
func (h *Handler) RevokeKey(c *gin.Context) {
	id := c.Param("id")
	if err := h.DB.Delete(&database.ServiceKey{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete key"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Key revoked"})
}
