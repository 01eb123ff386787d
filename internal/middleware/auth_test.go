package middleware

import (
	"context"
	"errors"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobboard/internal/auth"
	"jobboard/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func decodeEnvelope(t *testing.T, resp *http.Response) models.Envelope {
	t.Helper()
	var env models.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func TestAuthRequired(t *testing.T) {
	issuer := auth.NewTokenIssuer(testSecret, time.Hour)
	expiredIssuer := auth.NewTokenIssuer(testSecret, -time.Minute)
	foreignIssuer := auth.NewTokenIssuer("another-secret-key-1234567890123456789012", time.Hour)

	valid, _, err := issuer.IssueToken(123, "jane@example.com", "employer")
	require.NoError(t, err)
	expired, _, err := expiredIssuer.IssueToken(123, "jane@example.com", "employer")
	require.NoError(t, err)
	foreign, _, err := foreignIssuer.IssueToken(123, "jane@example.com", "employer")
	require.NoError(t, err)
	reset, err := issuer.IssuePasswordResetToken(123)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/test", AuthRequired(AuthConfig{Verifier: issuer}), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userID": UserIDFrom(c), "role": RoleFrom(c)})
	})

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedCode   string
	}{
		{"valid token", "Bearer " + valid, http.StatusOK, ""},
		{"lower-case scheme", "bearer " + valid, http.StatusOK, ""},
		{"missing header", "", http.StatusUnauthorized, models.CodeNoToken},
		{"wrong scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, models.CodeNoToken},
		{"malformed token", "Bearer not.a.token", http.StatusUnauthorized, models.CodeInvalidToken},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized, models.CodeTokenExpired},
		{"signed with other key", "Bearer " + foreign, http.StatusUnauthorized, models.CodeInvalidToken},
		{"reset token", "Bearer " + reset, http.StatusUnauthorized, models.CodeInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusOK {
				var body struct {
					UserID uint   `json:"userID"`
					Role   string `json:"role"`
				}
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, uint(123), body.UserID)
				assert.Equal(t, "employer", body.Role)
				return
			}
			env := decodeEnvelope(t, resp)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.expectedCode, env.Error.Code)
		})
	}
}

func TestAuthRequired_LookupAndRevocation(t *testing.T) {
	issuer := auth.NewTokenIssuer(testSecret, time.Hour)

	users := map[uint]*models.User{
		1: {ID: 1, Role: models.RoleAdmin, IsActive: true},
		2: {ID: 2, Role: models.RoleJobSeeker, IsActive: false},
	}
	lookup := func(_ context.Context, id uint) (*models.User, error) {
		if u, ok := users[id]; ok {
			return u, nil
		}
		return nil, models.NewNotFoundError("User", id)
	}

	var revokedJTI string
	revoked := func(_ context.Context, jti string) bool { return jti == revokedJTI }

	app := fiber.New()
	app.Get("/me", AuthRequired(AuthConfig{Verifier: issuer, Lookup: lookup, Revoked: revoked}), func(c *fiber.Ctx) error {
		return c.SendString(string(RoleFrom(c)))
	})

	call := func(token string) *http.Response {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("stored role replaces token role", func(t *testing.T) {
		token, _, err := issuer.IssueToken(1, "a@b.co", "jobseeker")
		require.NoError(t, err)
		resp := call(token)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("deactivated account", func(t *testing.T) {
		token, _, err := issuer.IssueToken(2, "b@b.co", "jobseeker")
		require.NoError(t, err)
		resp := call(token)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, models.CodeAccountDeactivated, decodeEnvelope(t, resp).Error.Code)
	})

	t.Run("deleted user", func(t *testing.T) {
		token, _, err := issuer.IssueToken(99, "gone@b.co", "jobseeker")
		require.NoError(t, err)
		resp := call(token)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("revoked token", func(t *testing.T) {
		token, _, err := issuer.IssueToken(1, "a@b.co", "admin")
		require.NoError(t, err)
		claims, err := issuer.VerifyToken(token)
		require.NoError(t, err)
		revokedJTI = claims.ID

		resp := call(token)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestRequireRolesAndAdmin(t *testing.T) {
	withRole := func(role models.Role) fiber.Handler {
		return func(c *fiber.Ctx) error {
			c.Locals(LocalUserID, uint(1))
			c.Locals(LocalRole, role)
			return c.Next()
		}
	}
	ok := func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) }

	tests := []struct {
		name     string
		role     models.Role
		path     string
		expected int
	}{
		{"employer may post", models.RoleEmployer, "/post", http.StatusOK},
		{"admin may post", models.RoleAdmin, "/post", http.StatusOK},
		{"jobseeker may not post", models.RoleJobSeeker, "/post", http.StatusForbidden},
		{"admin passes admin gate", models.RoleAdmin, "/admin", http.StatusOK},
		{"employer fails admin gate", models.RoleEmployer, "/admin", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/post", withRole(tt.role), RequireRoles(models.RoleEmployer, models.RoleAdmin), ok)
			app.Get("/admin", withRole(tt.role), AdminRequired(), ok)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, resp.StatusCode)
		})
	}

	t.Run("admin gate reports NOT_ADMIN", func(t *testing.T) {
		app := fiber.New()
		app.Get("/admin", withRole(models.RoleJobSeeker), AdminRequired(), ok)
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil))
		require.NoError(t, err)
		assert.Equal(t, models.CodeNotAdmin, decodeEnvelope(t, resp).Error.Code)
	})
}

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) VerifyToken(token string) (*auth.Claims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Claims), args.Error(1)
}

func TestAuthRequired_LookupFailure(t *testing.T) {
	verifier := new(mockVerifier)
	claims := &auth.Claims{Role: "employer"}
	claims.Subject = "42"
	verifier.On("VerifyToken", "opaque").Return(claims, nil).Once()

	lookup := func(_ context.Context, id uint) (*models.User, error) {
		assert.Equal(t, uint(42), id)
		return nil, errors.New("db down")
	}

	app := fiber.New()
	app.Get("/me", AuthRequired(AuthConfig{Verifier: verifier, Lookup: lookup}), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer opaque")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, models.CodeInternal, decodeEnvelope(t, resp).Error.Code)
	verifier.AssertExpectations(t)
}
