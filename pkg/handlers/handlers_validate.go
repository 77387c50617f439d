package handlers

import (
	"net/http"

	"github.com/SinaZyx/timesheet/pkg/timegrid"
	"github.com/gin-gonic/gin"
)

// ValidateGrid checks a grid payload against the fixed week shape without
// persisting anything, and echoes the derived figures. Client tooling uses
// this to sanity-check imports before a save.
func (h *Handler) ValidateGrid(c *gin.Context) {
	var input struct {
		GridData [][]bool `json:"grid_data" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	grid, err := timegrid.FromRows(input.GridData)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"occupied_slots": grid.OccupiedCount(),
			"total_hours":    grid.TotalHours(),
			"overtime_hours": grid.OvertimeHours(),
		},
	})
}
