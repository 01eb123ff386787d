package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"jobboard/internal/config"
	"jobboard/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupMockDB creates a GORM *gorm.DB backed by sqlmock for unit tests.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)
	return gormDB, mock
}

func TestHumanizeParam(t *testing.T) {
	tests := []struct {
		param    string
		expected string
	}{
		{"id", "ID"},
		{"applicationId", "application ID"},
		{"savedJobId", "saved job ID"},
		{"token", "token"},
	}
	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			assert.Equal(t, tt.expected, humanizeParam(tt.param))
		})
	}
}

func TestParsePagination(t *testing.T) {
	app := fiber.New()
	app.Get("/items", func(c *fiber.Ctx) error {
		p := parsePagination(c)
		return c.JSON(fiber.Map{"page": p.Page, "limit": p.Limit})
	})

	tests := []struct {
		query string
		page  int
		limit int
	}{
		{"", 1, 10},
		{"?page=3&limit=25", 3, 25},
		{"?page=0&limit=0", 1, 10},
		{"?page=-2&limit=500", 1, 100},
		{"?page=abc&limit=xyz", 1, 10},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items"+tt.query, nil))
			require.NoError(t, err)
			var body struct{ Page, Limit int }
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.page, body.Page)
			assert.Equal(t, tt.limit, body.Limit)
		})
	}
}

func TestParseID(t *testing.T) {
	app := fiber.New()
	app.Get("/jobs/:id/applications/:applicationId", func(c *fiber.Ctx) error {
		if _, err := parseID(c, "id"); err != nil {
			return nil
		}
		id, err := parseID(c, "applicationId")
		if err != nil {
			return nil
		}
		return c.JSON(fiber.Map{"id": id})
	})

	tests := []struct {
		path    string
		status  int
		message string
	}{
		{"/jobs/1/applications/7", http.StatusOK, ""},
		{"/jobs/abc/applications/7", http.StatusBadRequest, "Invalid ID"},
		{"/jobs/0/applications/7", http.StatusBadRequest, "Invalid ID"},
		{"/jobs/1/applications/-4", http.StatusBadRequest, "Invalid application ID"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.message != "" {
				env := decode(t, resp)
				require.NotNil(t, env.Error)
				assert.Equal(t, models.CodeValidation, env.Error.Code)
				assert.Equal(t, tt.message, env.Error.Message)
			}
		})
	}
}

func TestRespondError(t *testing.T) {
	app := fiber.New()
	app.Get("/app", func(c *fiber.Ctx) error {
		return respondError(c, models.NewForbiddenError("nope"))
	})
	app.Get("/plain", func(c *fiber.Ctx) error {
		return respondError(c, errors.New("connection reset by peer"))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/app", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	env := decode(t, resp)
	assert.False(t, env.Success)
	assert.Equal(t, models.CodeForbidden, env.Error.Code)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/plain", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	env = decode(t, resp)
	assert.Equal(t, models.CodeInternal, env.Error.Code)
	assert.Equal(t, "Internal server error", env.Error.Message)
}

func TestReadinessCheck_DatabaseDown(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	s, err := NewServerWithDeps(&config.Config{Env: "test", JWTSecret: "readiness-secret-0123456789abcdef", JWTExpire: "1h"}, db, nil)
	require.NoError(t, err)
	app := fiber.New()
	app.Get("/health/ready", s.ReadinessCheck)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "unhealthy", body.Status)
	assert.Equal(t, "unhealthy", body.Checks["database"])
	assert.Equal(t, "disabled", body.Checks["redis"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
