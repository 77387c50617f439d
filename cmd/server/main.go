package main

import (
	"log"
	"net/http"
	"os"

	"github.com/SinaZyx/timesheet/pkg/auth"
	"github.com/SinaZyx/timesheet/pkg/database"
	"github.com/SinaZyx/timesheet/pkg/handlers"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if it exists
	// Try root and parent directories for flexibility
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	db := database.InitDB()
	_ = auth.EnsureAdminExists(db)
	h := handlers.New(db)

	r := gin.Default()

	// Routes
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Timesheet API",
			"version": "1.0.0",
		})
	})

	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)

	// Employee Endpoints
	api := r.Group("/api")
	api.Use(h.AuthMiddleware())
	{
		api.GET("/me", h.Me)
		api.POST("/validate", h.ValidateGrid)
		api.GET("/timesheets/:week", h.GetWeek)
		api.PUT("/timesheets/:week", h.SaveWeek)
		api.DELETE("/timesheets/:week", h.ClearWeek)
		api.POST("/timesheets/:week/strokes", h.Strokes)
		api.GET("/timesheets/:week/summary", h.GetSummary)
		api.GET("/timesheets/:week/export/pdf", h.ExportPDF)
		api.GET("/timesheets/:week/export/xlsx", h.ExportExcel)
		api.GET("/timesheets/:week/export/csv", h.ExportCSV)
	}

	// HR Endpoints
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware(), h.AdminMiddleware())
	{
		admin.GET("/employees", h.ListEmployees)
		admin.POST("/exports/pdf", h.ExportConsolidatedPDF)
		admin.POST("/exports/xlsx", h.ExportConsolidatedExcel)
		admin.POST("/exports/zip", h.ExportArchive)
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	// Payroll integration endpoints
	service := r.Group("/service")
	service.Use(h.ServiceKeyMiddleware())
	{
		service.POST("/exports/xlsx", h.ServiceExportExcel)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
