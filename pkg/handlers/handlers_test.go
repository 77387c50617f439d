package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/SinaZyx/timesheet/pkg/auth"
	"github.com/SinaZyx/timesheet/pkg/database"
	"github.com/SinaZyx/timesheet/pkg/timegrid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestAPI wires the full route table over an in-memory database, the same
// layout cmd/server installs.
func newTestAPI(t *testing.T) (*gin.Engine, *Handler) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&database.Profile{}, &database.Timesheet{}, &database.ServiceKey{}, &database.ExportUsage{}))

	h := New(db)
	r := gin.New()

	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)

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

	service := r.Group("/service")
	service.Use(h.ServiceKeyMiddleware())
	{
		service.POST("/exports/xlsx", h.ServiceExportExcel)
	}

	return r, h
}

// seedUser inserts a profile directly and mints its token, skipping the
// bcrypt round trip the register flow pays.
func seedUser(t *testing.T, h *Handler, name string, role database.Role) (uuid.UUID, string) {
	t.Helper()
	p := database.Profile{
		ID:           uuid.New(),
		Email:        uuid.NewString() + "@example.com",
		FullName:     name,
		Role:         role,
		PasswordHash: "x",
	}
	require.NoError(t, h.DB.Create(&p).Error)
	token, err := auth.CreateToken(&p)
	require.NoError(t, err)
	return p.ID, token
}

func do(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRegisterAndLogin(t *testing.T) {
	r, _ := newTestAPI(t)

	creds := gin.H{"email": "alice@example.com", "password": "s3cret-pass", "full_name": "Alice Martin"}
	w := do(r, http.MethodPost, "/auth/register", "", creds)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token := decode(t, w)["access_token"].(string)
	require.NotEmpty(t, token)

	// Duplicate email is rejected.
	w = do(r, http.MethodPost, "/auth/register", "", creds)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Short passwords never reach the database.
	w = do(r, http.MethodPost, "/auth/register", "",
		gin.H{"email": "bob@example.com", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/auth/login", "",
		gin.H{"email": "alice@example.com", "password": "s3cret-pass"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/auth/login", "",
		gin.H{"email": "alice@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode(t, w)
	assert.Equal(t, "alice@example.com", me["email"])
	assert.Equal(t, "employee", me["role"])
}

func TestAuthRequired(t *testing.T) {
	r, _ := newTestAPI(t)

	w := do(r, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "/api/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWeekLifecycle(t *testing.T) {
	r, h := newTestAPI(t)
	_, token := seedUser(t, h, "Alice Martin", database.RoleEmployee)

	// A never-saved week reads back empty.
	w := do(r, http.MethodGet, "/api/timesheets/2024-03-04", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "2024-03-04", resp["week_start_date"])
	assert.Zero(t, resp["total_hours"])

	g := timegrid.New()
	g.SetRange(1, 0, 15, true)
	w = do(r, http.MethodPut, "/api/timesheets/2024-03-04", token, gin.H{"grid_data": g.Rows()})
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode(t, w)
	assert.Equal(t, 8.0, resp["total_hours"])
	assert.Equal(t, 1.0, resp["overtime_hours"])

	// A mid-week date addresses the same snapshot.
	w = do(r, http.MethodGet, "/api/timesheets/2024-03-07", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode(t, w)
	assert.Equal(t, "2024-03-04", resp["week_start_date"])
	assert.Equal(t, 8.0, resp["total_hours"])

	w = do(r, http.MethodDelete, "/api/timesheets/2024-03-04", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/timesheets/2024-03-04", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, decode(t, w)["total_hours"])
}

func TestWeekParamValidation(t *testing.T) {
	r, h := newTestAPI(t)
	_, token := seedUser(t, h, "Alice Martin", database.RoleEmployee)

	w := do(r, http.MethodGet, "/api/timesheets/not-a-date", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	g := timegrid.New()
	w = do(r, http.MethodPut, "/api/timesheets/03-04-2024", token, gin.H{"grid_data": g.Rows()})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveWeekRejectsBadShape(t *testing.T) {
	r, h := newTestAPI(t)
	_, token := seedUser(t, h, "Alice Martin", database.RoleEmployee)

	w := do(r, http.MethodPut, "/api/timesheets/2024-03-04", token,
		gin.H{"grid_data": [][]bool{{true, false}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStrokes(t *testing.T) {
	r, h := newTestAPI(t)
	_, token := seedUser(t, h, "Alice Martin", database.RoleEmployee)

	// Drag across slots 10 to 13 on Tuesday.
	strokes := []gin.H{
		{"type": "press", "day": 1, "slot": 10},
		{"type": "enter", "day": 1, "slot": 11},
		{"type": "enter", "day": 1, "slot": 13},
		{"type": "release"},
	}
	w := do(r, http.MethodPost, "/api/timesheets/2024-03-04/strokes", token, gin.H{"strokes": strokes})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode(t, w)
	assert.Equal(t, 2.0, resp["total_hours"])

	// A second press on an occupied cell erases.
	strokes = []gin.H{
		{"type": "press", "day": 1, "slot": 11},
		{"type": "release"},
	}
	w = do(r, http.MethodPost, "/api/timesheets/2024-03-04/strokes", token, gin.H{"strokes": strokes})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.5, decode(t, w)["total_hours"])

	// Out-of-range coordinates reject the whole batch.
	strokes = []gin.H{{"type": "press", "day": 9, "slot": 0}}
	w = do(r, http.MethodPost, "/api/timesheets/2024-03-04/strokes", token, gin.H{"strokes": strokes})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSummary(t *testing.T) {
	r, h := newTestAPI(t)
	_, token := seedUser(t, h, "Alice Martin", database.RoleEmployee)

	g := timegrid.New()
	g.SetRange(0, 0, 15, true)
	w := do(r, http.MethodPut, "/api/timesheets/2024-03-04", token, gin.H{"grid_data": g.Rows()})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/timesheets/2024-03-04/summary", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)

	days := resp["days"].([]interface{})
	require.Len(t, days, 7)
	monday := days[0].(map[string]interface{})
	assert.Equal(t, "Lundi", monday["day"])
	assert.Equal(t, "04/03/2024", monday["date"])
	assert.Equal(t, "06:00 - 14:00", monday["ranges"])
	tuesday := days[1].(map[string]interface{})
	assert.Equal(t, timegrid.RestLabel, tuesday["ranges"])
	assert.Equal(t, 8.0, resp["total_hours"])
	assert.Equal(t, 1.0, resp["overtime_hours"])
}

func TestWeeklyExports(t *testing.T) {
	r, h := newTestAPI(t)
	_, token := seedUser(t, h, "Alice Martin", database.RoleEmployee)

	g := timegrid.New()
	g.SetRange(0, 0, 15, true)
	w := do(r, http.MethodPut, "/api/timesheets/2024-03-04", token, gin.H{"grid_data": g.Rows()})
	require.Equal(t, http.StatusOK, w.Code)

	cases := []struct {
		path, contentType, filename string
	}{
		{"/api/timesheets/2024-03-04/export/pdf", "application/pdf", `"releve_heures_2024-03-04.pdf"`},
		{"/api/timesheets/2024-03-04/export/xlsx",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			`"releve_heures_2024-03-04.xlsx"`},
		{"/api/timesheets/2024-03-04/export/csv", "text/csv", `"releve_heures_2024-03-04.csv"`},
	}
	for _, tc := range cases {
		w := do(r, http.MethodGet, tc.path, token, nil)
		require.Equal(t, http.StatusOK, w.Code, tc.path)
		assert.Equal(t, tc.contentType, w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), tc.filename)
		assert.NotEmpty(t, w.Body.Bytes())
	}
}

func TestValidateGrid(t *testing.T) {
	r, h := newTestAPI(t)
	_, token := seedUser(t, h, "Alice Martin", database.RoleEmployee)

	g := timegrid.New()
	g.SetRange(2, 0, 3, true)
	w := do(r, http.MethodPost, "/api/validate", token, gin.H{"grid_data": g.Rows()})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, true, resp["valid"])
	stats := resp["stats"].(map[string]interface{})
	assert.Equal(t, 4.0, stats["occupied_slots"])
	assert.Equal(t, 2.0, stats["total_hours"])

	w = do(r, http.MethodPost, "/api/validate", token, gin.H{"grid_data": [][]bool{{true}}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["valid"])
}

func TestAdminGate(t *testing.T) {
	r, h := newTestAPI(t)
	_, employee := seedUser(t, h, "Alice Martin", database.RoleEmployee)
	_, admin := seedUser(t, h, "Claire RH", database.RoleAdmin)

	w := do(r, http.MethodGet, "/admin/employees", employee, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodGet, "/admin/employees", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminConsolidatedExports(t *testing.T) {
	r, h := newTestAPI(t)
	aliceID, _ := seedUser(t, h, "Alice Martin", database.RoleEmployee)
	_, admin := seedUser(t, h, "Claire RH", database.RoleAdmin)

	g := timegrid.New()
	g.SetRange(0, 0, 15, true)
	require.NoError(t, h.Store.Save(aliceID, "2024-03-04", g))

	body := gin.H{"employee_ids": []string{aliceID.String()}, "period": "latest"}

	for _, path := range []string{"/admin/exports/pdf", "/admin/exports/xlsx", "/admin/exports/zip"} {
		w := do(r, http.MethodPost, path, admin, body)
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.NotEmpty(t, w.Body.Bytes())
	}

	// No snapshot in range is a 404, not an empty document.
	wednesday := time.Date(2030, time.January, 2, 0, 0, 0, 0, time.UTC)
	w := do(r, http.MethodPost, "/admin/exports/xlsx", admin, gin.H{
		"employee_ids": []string{aliceID.String()},
		"period":       "week",
		"week":         wednesday.Format("2006-01-02"),
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Unknown employee id fails before touching the store.
	w = do(r, http.MethodPost, "/admin/exports/xlsx", admin, gin.H{
		"employee_ids": []string{"not-a-uuid"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServiceKeyFlow(t *testing.T) {
	r, h := newTestAPI(t)
	aliceID, _ := seedUser(t, h, "Alice Martin", database.RoleEmployee)
	_, admin := seedUser(t, h, "Claire RH", database.RoleAdmin)

	g := timegrid.New()
	g.SetRange(0, 0, 15, true)
	require.NoError(t, h.Store.Save(aliceID, "2024-03-04", g))

	w := do(r, http.MethodPost, "/admin/keys", admin, gin.H{"name": "payroll"})
	require.Equal(t, http.StatusOK, w.Code)
	key := decode(t, w)["key"].(string)
	require.NotEmpty(t, key)

	body := gin.H{"employee_ids": []string{aliceID.String()}}
	w = do(r, http.MethodPost, "/service/exports/xlsx", key, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Usage was recorded against the key.
	var sk database.ServiceKey
	require.NoError(t, h.DB.Where("key = ?", key).First(&sk).Error)
	require.NotNil(t, sk.LastUsed)

	w = do(r, http.MethodGet, "/admin/usage/"+strconv.Itoa(int(sk.ID)), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	usage := decode(t, w)["usage"].([]interface{})
	require.Len(t, usage, 1)
	day := usage[0].(map[string]interface{})
	assert.Equal(t, 1.0, day["export_count"])
	assert.Equal(t, 1.0, day["sheet_count"])
}

func TestServiceKeyRejected(t *testing.T) {
	r, _ := newTestAPI(t)

	w := do(r, http.MethodPost, "/service/exports/xlsx", "payroll.deadbeef", gin.H{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/service/exports/xlsx", "", gin.H{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestKeyListAndRevoke(t *testing.T) {
	r, h := newTestAPI(t)
	_, admin := seedUser(t, h, "Claire RH", database.RoleAdmin)

	w := do(r, http.MethodPost, "/admin/keys", admin, gin.H{"name": "payroll"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/admin/keys", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	keys := decode(t, w)["keys"].([]interface{})
	require.Len(t, keys, 1)
	record := keys[0].(map[string]interface{})
	assert.Equal(t, "payroll", record["name"])
	assert.Contains(t, record["key_preview"], "...")

	id := int(record["id"].(float64))
	w = do(r, http.MethodDelete, "/admin/keys/"+strconv.Itoa(id), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/admin/keys", admin, nil)
	assert.Empty(t, decode(t, w)["keys"])
}
