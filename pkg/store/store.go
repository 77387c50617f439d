package store

import (
	"errors"
	"time"

	"github.com/SinaZyx/timesheet/pkg/database"
	"github.com/SinaZyx/timesheet/pkg/models"
	"github.com/SinaZyx/timesheet/pkg/timegrid"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TimesheetStore persists grid snapshots keyed by (user, week start date).
type TimesheetStore struct {
	DB *gorm.DB
}

// New creates a store bound to a database handle.
func New(db *gorm.DB) *TimesheetStore {
	return &TimesheetStore{DB: db}
}

// Load fetches one week's grid. An absent week is not an error: it returns
// (nil, nil) and the caller starts from an empty grid.
func (s *TimesheetStore) Load(userID uuid.UUID, weekKey string) (*timegrid.Grid, error) {
	var sheet database.Timesheet
	err := s.DB.Where("user_id = ? AND week_start_date = ?", userID, weekKey).First(&sheet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return timegrid.FromRows(sheet.GridData)
}

// Save upserts one week's snapshot in a single query. Conflicts on
// (user_id, week_start_date) overwrite grid_data and updated_at, so a save
// completing out of order still converges on whole snapshots.
func (s *TimesheetStore) Save(userID uuid.UUID, weekKey string, grid *timegrid.Grid) error {
	return s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "week_start_date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"grid_data":  database.GridJSON(grid.Rows()),
			"updated_at": time.Now(),
		}),
	}).Create(&database.Timesheet{
		UserID:        userID,
		WeekStartDate: weekKey,
		GridData:      grid.Rows(),
	}).Error
}

// Delete removes one week's snapshot. Deleting an absent week is a no-op.
func (s *TimesheetStore) Delete(userID uuid.UUID, weekKey string) error {
	return s.DB.Where("user_id = ? AND week_start_date = ?", userID, weekKey).
		Delete(&database.Timesheet{}).Error
}

// Query returns the snapshots of the given users covered by the period
// filter, ordered by user then week.
func (s *TimesheetStore) Query(userIDs []uuid.UUID, filter models.PeriodFilter) ([]database.Timesheet, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	q := s.DB.Where("user_id IN ?", userIDs)

	switch filter.Period {
	case models.PeriodWeek:
		q = q.Where("week_start_date = ?", timegrid.Key(*filter.Week))
	case models.PeriodMonth:
		first := time.Date(filter.Year, filter.Month, 1, 0, 0, 0, 0, time.UTC)
		last := first.AddDate(0, 1, -1)
		q = q.Where("week_start_date BETWEEN ? AND ?",
			first.Format(timegrid.KeyLayout), last.Format(timegrid.KeyLayout))
	case models.PeriodCustom:
		q = q.Where("week_start_date BETWEEN ? AND ?",
			filter.Start.Format(timegrid.KeyLayout), filter.End.Format(timegrid.KeyLayout))
	}

	var sheets []database.Timesheet
	if err := q.Order("user_id, week_start_date").Find(&sheets).Error; err != nil {
		return nil, err
	}

	if filter.Period == models.PeriodLatest {
		sheets = latestPerUser(sheets)
	}
	return sheets, nil
}

// latestPerUser keeps only each user's most recently updated sheet.
func latestPerUser(sheets []database.Timesheet) []database.Timesheet {
	latest := make(map[uuid.UUID]database.Timesheet)
	for _, ts := range sheets {
		if cur, ok := latest[ts.UserID]; !ok || ts.UpdatedAt.After(cur.UpdatedAt) {
			latest[ts.UserID] = ts
		}
	}
	out := make([]database.Timesheet, 0, len(latest))
	for _, ts := range latest {
		out = append(out, ts)
	}
	return out
}

// MonthlyOverview builds the HR roster: every profile with its current-month
// hour total and last snapshot update.
func (s *TimesheetStore) MonthlyOverview(now time.Time) ([]models.EmployeeOverview, error) {
	var profiles []database.Profile
	if err := s.DB.Order("full_name, email").Find(&profiles).Error; err != nil {
		return nil, err
	}

	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	last := first.AddDate(0, 1, -1)

	var sheets []database.Timesheet
	err := s.DB.Where("week_start_date BETWEEN ? AND ?",
		first.Format(timegrid.KeyLayout), last.Format(timegrid.KeyLayout)).
		Find(&sheets).Error
	if err != nil {
		return nil, err
	}

	byUser := make(map[uuid.UUID][]database.Timesheet)
	for _, ts := range sheets {
		byUser[ts.UserID] = append(byUser[ts.UserID], ts)
	}

	overview := make([]models.EmployeeOverview, 0, len(profiles))
	for _, p := range profiles {
		row := models.EmployeeOverview{
			ID:    p.ID.String(),
			Email: p.Email,
			Name:  displayName(p),
		}
		for _, ts := range byUser[p.ID] {
			row.TotalHours += timegrid.TotalHours(ts.GridData)
			if row.LastUpdate == nil || ts.UpdatedAt.After(*row.LastUpdate) {
				t := ts.UpdatedAt
				row.LastUpdate = &t
			}
		}
		overview = append(overview, row)
	}
	return overview, nil
}

func displayName(p database.Profile) string {
	if p.FullName != "" {
		return p.FullName
	}
	for i := 0; i < len(p.Email); i++ {
		if p.Email[i] == '@' {
			return p.Email[:i]
		}
	}
	return p.Email
}

// ExportData joins snapshots with profile names into the tuples the
// exporters consume.
func (s *TimesheetStore) ExportData(sheets []database.Timesheet) ([]models.TimesheetData, error) {
	ids := make([]uuid.UUID, 0, len(sheets))
	seen := make(map[uuid.UUID]bool)
	for _, ts := range sheets {
		if !seen[ts.UserID] {
			seen[ts.UserID] = true
			ids = append(ids, ts.UserID)
		}
	}

	var profiles []database.Profile
	if len(ids) > 0 {
		if err := s.DB.Where("id IN ?", ids).Find(&profiles).Error; err != nil {
			return nil, err
		}
	}
	names := make(map[uuid.UUID]string, len(profiles))
	for _, p := range profiles {
		names[p.ID] = displayName(p)
	}

	data := make([]models.TimesheetData, 0, len(sheets))
	for _, ts := range sheets {
		week, err := time.Parse(timegrid.KeyLayout, ts.WeekStartDate)
		if err != nil {
			return nil, err
		}
		name := names[ts.UserID]
		if name == "" {
			name = "Inconnu"
		}
		data = append(data, models.TimesheetData{
			EmployeeName:  name,
			WeekStartDate: week,
			GridData:      ts.GridData,
		})
	}
	return data, nil
}
