package database

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/SinaZyx/timesheet/pkg/timegrid"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Role is the coarse access level of a profile.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// Profile represents the profiles table: one row per account.
type Profile struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"unique;not null" json:"email"`
	FullName     string    `json:"full_name"`
	Role         Role      `gorm:"default:employee;not null" json:"role"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// GridJSON stores the 7xTotalSlots boolean matrix as a JSON column, the same
// shape the original snapshot records carry.
type GridJSON [][]bool

// Value implements driver.Valuer.
func (g GridJSON) Value() (driver.Value, error) {
	return json.Marshal(g)
}

// Scan implements sql.Scanner. The matrix shape is validated on the way in,
// so a corrupt row surfaces as a read error instead of panicking whatever
// consumes the grid later.
func (g *GridJSON) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case nil:
		*g = nil
		return nil
	default:
		return fmt.Errorf("unsupported grid_data type %T", value)
	}

	var rows [][]bool
	if err := json.Unmarshal(raw, &rows); err != nil {
		return err
	}
	if _, err := timegrid.FromRows(rows); err != nil {
		return err
	}
	*g = rows
	return nil
}

// Timesheet represents the timesheets table: one grid snapshot per
// (user, week). week_start_date is always a Monday, formatted YYYY-MM-DD.
type Timesheet struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_user_week;not null" json:"user_id"`
	WeekStartDate string    `gorm:"uniqueIndex:idx_user_week;not null" json:"week_start_date"`
	GridData      GridJSON  `gorm:"type:text;not null" json:"grid_data"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ServiceKey represents the service_keys table: HMAC-signed keys handed to
// payroll integrations that pull consolidated exports.
type ServiceKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Key        string     `gorm:"unique;not null" json:"key"`
	Name       string     `gorm:"not null" json:"name"`
	KeyPreview string     `json:"key_preview"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsed   *time.Time `json:"last_used"`
}

// ExportUsage represents the export_usage table: per-(key, date) counters of
// export pulls.
type ExportUsage struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	KeyID       uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date        string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	ExportCount int    `gorm:"default:0" json:"export_count"`
	SheetCount  int    `gorm:"default:0" json:"sheet_count"`
}

// InitDB initializes the database connection and migrates the schema.
// DATABASE_URL selects Postgres; otherwise a local SQLite file is used.
func InitDB() *gorm.DB {
	var db *gorm.DB
	var err error

	dsn := os.Getenv("DATABASE_URL")
	if dsn != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		dbPath := os.Getenv("DATA_PATH")
		if dbPath == "" {
			dbPath = "timesheets.db"
		}
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	}

	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := db.AutoMigrate(&Profile{}, &Timesheet{}, &ServiceKey{}, &ExportUsage{}); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	return db
}
