package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SinaZyx/timesheet/pkg/database"
	"github.com/SinaZyx/timesheet/pkg/export"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecordUsage records export usage in the database using an efficient upsert
func (h *Handler) RecordUsage(c *gin.Context, sheetCount int) {
	keyRaw, exists := c.Get("serviceKey")
	if !exists {
		return
	}
	serviceKey := keyRaw.(*database.ServiceKey)

	now := time.Now()
	serviceKey.LastUsed = &now
	h.DB.Save(serviceKey)

	today := now.Format("2006-01-02")

	// Use OnConflict for a single-query upsert (supported by both Postgres and SQLite)
	h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"export_count": gorm.Expr("export_count + ?", 1),
			"sheet_count":  gorm.Expr("sheet_count + ?", sheetCount),
		}),
	}).Create(&database.ExportUsage{
		KeyID:       serviceKey.ID,
		Date:        today,
		ExportCount: 1,
		SheetCount:  sheetCount,
	})
}

// ServiceExportExcel serves the consolidated workbook to payroll
// integrations authenticated by a service key, recording usage
func (h *Handler) ServiceExportExcel(c *gin.Context) {
	data, ok := h.collectExportData(c)
	if !ok {
		return
	}

	doc, err := export.ConsolidatedExcel(data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not render workbook"})
		return
	}

	h.RecordUsage(c, len(data))

	serveFile(c, doc, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		fmt.Sprintf("releves_heures_consolide_%d_feuilles.xlsx", len(data)))
}

// GetUsage returns usage stats for a service key
func (h *Handler) GetUsage(c *gin.Context) {
	id := c.Param("id")
	var usage []database.ExportUsage
	h.DB.Where("key_id = ?", id).Order("date desc").Limit(30).Find(&usage)
	c.JSON(http.StatusOK, gin.H{"usage": usage})
}
