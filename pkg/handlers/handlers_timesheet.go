package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/SinaZyx/timesheet/pkg/export"
	"github.com/SinaZyx/timesheet/pkg/models"
	"github.com/SinaZyx/timesheet/pkg/session"
	"github.com/SinaZyx/timesheet/pkg/timegrid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// openWeek resolves the :week path param (any calendar date, canonicalized
// to its Monday) and navigates the subject's editor there. A failed load is
// logged and surfaced as a notice, never a blocking error: the editor
// carries on from the empty default.
func (h *Handler) openWeek(c *gin.Context) (*session.Editor, time.Time, bool) {
	week, err := timegrid.ParseKey(c.Param("week"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "week must be a YYYY-MM-DD date"})
		return nil, time.Time{}, false
	}

	editor := h.Sessions.Editor(c.MustGet("userID").(uuid.UUID))
	if err := editor.Open(week); err != nil {
		log.Printf("week load failed: %v", err)
		c.Set("loadNotice", "snapshot load failed, starting from an empty week")
	}
	return editor, week, true
}

// GetWeek returns the grid snapshot of a week, with derived totals
func (h *Handler) GetWeek(c *gin.Context) {
	editor, _, ok := h.openWeek(c)
	if !ok {
		return
	}

	grid := editor.Grid()
	resp := gin.H{
		"week_start_date": editor.WeekKey(),
		"grid_data":       grid.Rows(),
		"total_hours":     grid.TotalHours(),
		"overtime_hours":  grid.OvertimeHours(),
	}
	if notice, exists := c.Get("loadNotice"); exists {
		resp["notice"] = notice
	}
	c.JSON(http.StatusOK, resp)
}

// SaveWeek upserts a whole snapshot for a week
func (h *Handler) SaveWeek(c *gin.Context) {
	var req struct {
		GridData [][]bool `json:"grid_data" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	grid, err := timegrid.FromRows(req.GridData)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	editor, _, ok := h.openWeek(c)
	if !ok {
		return
	}
	editor.Replace(grid)

	c.JSON(http.StatusOK, gin.H{
		"week_start_date": editor.WeekKey(),
		"total_hours":     grid.TotalHours(),
		"overtime_hours":  grid.OvertimeHours(),
	})
}

// ClearWeek empties a week and removes its persisted snapshot
func (h *Handler) ClearWeek(c *gin.Context) {
	editor, _, ok := h.openWeek(c)
	if !ok {
		return
	}
	editor.Clear()
	c.JSON(http.StatusOK, gin.H{"message": "Week cleared"})
}

// Strokes applies a paint gesture event stream to a week's grid
func (h *Handler) Strokes(c *gin.Context) {
	var req struct {
		Strokes []models.Stroke `json:"strokes" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	editor, _, ok := h.openWeek(c)
	if !ok {
		return
	}
	if err := editor.Apply(req.Strokes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	grid := editor.Grid()
	c.JSON(http.StatusOK, gin.H{
		"week_start_date": editor.WeekKey(),
		"grid_data":       grid.Rows(),
		"total_hours":     grid.TotalHours(),
		"overtime_hours":  grid.OvertimeHours(),
	})
}

// timesheetData assembles the exporter tuple for the signed-in subject.
func (h *Handler) timesheetData(c *gin.Context, editor *session.Editor, week time.Time) models.TimesheetData {
	return models.TimesheetData{
		EmployeeName:  h.displayName(c),
		WeekStartDate: timegrid.MondayOf(week),
		GridData:      editor.Grid().Rows(),
	}
}

// GetSummary returns the human-readable week view: per-day ranges ("Repos"
// on a free day), hours and the weekly totals
func (h *Handler) GetSummary(c *gin.Context) {
	editor, week, ok := h.openWeek(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, export.Summarize(h.timesheetData(c, editor, week)))
}

// ExportPDF streams the week as a PDF sheet
func (h *Handler) ExportPDF(c *gin.Context) {
	editor, week, ok := h.openWeek(c)
	if !ok {
		return
	}

	doc, err := export.WeeklyPDF(h.timesheetData(c, editor, week))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not render PDF"})
		return
	}
	serveFile(c, doc, "application/pdf",
		fmt.Sprintf("releve_heures_%s.pdf", editor.WeekKey()))
}

// ExportExcel streams the week as an Excel workbook
func (h *Handler) ExportExcel(c *gin.Context) {
	editor, week, ok := h.openWeek(c)
	if !ok {
		return
	}

	doc, err := export.WeeklyExcel(h.timesheetData(c, editor, week))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not render workbook"})
		return
	}
	serveFile(c, doc, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		fmt.Sprintf("releve_heures_%s.xlsx", editor.WeekKey()))
}

// ExportCSV streams the week as CSV
func (h *Handler) ExportCSV(c *gin.Context) {
	editor, week, ok := h.openWeek(c)
	if !ok {
		return
	}

	doc, err := export.WeeklyCSV(h.timesheetData(c, editor, week))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not render CSV"})
		return
	}
	serveFile(c, doc, "text/csv",
		fmt.Sprintf("releve_heures_%s.csv", editor.WeekKey()))
}

func serveFile(c *gin.Context, data []byte, contentType, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
