package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/steve-ongera/Muranga-University-ERP-System/database"
	"github.com/steve-ongera/Muranga-University-ERP-System/models"
	"github.com/steve-ongera/Muranga-University-ERP-System/routes"
)

const testSecret = "test-secret"

// setup opens a fresh in-memory database, swaps it in as the global
// handle and returns a fully routed server.
func setup(t *testing.T) *echo.Echo {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	e := echo.New()
	routes.Register(e, testSecret)
	return e
}

func mustHash(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func createUser(t *testing.T, username, password, role string, active bool) models.User {
	t.Helper()
	u := models.User{
		Username:  username,
		Password:  mustHash(t, password),
		Role:      role,
		FirstName: strings.Split(username, ".")[0],
		LastName:  "Test",
		Email:     username + "@example.com",
		Active:    active,
	}
	require.NoError(t, database.DB.Create(&u).Error)
	return u
}

func createStudent(t *testing.T, username, regNumber string, programmeID *uint, year int) models.Student {
	t.Helper()
	u := createUser(t, username, "student@123", models.RoleStudent, true)
	s := models.Student{UserID: u.ID, RegNumber: regNumber, ProgrammeID: programmeID, YearOfStudy: year}
	require.NoError(t, database.DB.Create(&s).Error)
	s.User = u
	return s
}

func createProgramme(t *testing.T, name, code string) models.Programme {
	t.Helper()
	p := models.Programme{Name: name, Code: code, DurationYears: 3}
	require.NoError(t, database.DB.Create(&p).Error)
	return p
}

func createUnit(t *testing.T, code, name string, programmeID uint, year, semester int) models.Unit {
	t.Helper()
	u := models.Unit{Code: code, Name: name, ProgrammeID: programmeID, Year: year, Semester: semester}
	require.NoError(t, database.DB.Create(&u).Error)
	return u
}

// do performs a JSON request against the routed server.
func do(e *echo.Echo, method, path, token string, body any) *httptest.ResponseRecorder {
	var rd *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

// login authenticates through the real endpoint and returns the token pair.
func login(t *testing.T, e *echo.Echo, username, password string) (access, refresh string) {
	t.Helper()
	rec := do(e, http.MethodPost, "/auth/login", "", map[string]string{
		"username": username, "password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	decode(t, rec, &body)
	require.NotEmpty(t, body.Access)
	require.NotEmpty(t, body.Refresh)
	return body.Access, body.Refresh
}

func adminToken(t *testing.T, e *echo.Echo) string {
	t.Helper()
	createUser(t, "admin", "Admin@1234", models.RoleAdmin, true)
	access, _ := login(t, e, "admin", "Admin@1234")
	return access
}
