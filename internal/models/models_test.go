package models

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"jobboard/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPageMeta(t *testing.T) {
	tests := []struct {
		name          string
		page, limit   int
		total         int64
		expectedPages int64
	}{
		{"exact multiple", 1, 10, 20, 2},
		{"partial last page", 3, 10, 25, 3},
		{"empty", 1, 10, 0, 0},
		{"single item", 1, 10, 1, 1},
		{"zero limit", 1, 0, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := NewPageMeta(tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.expectedPages, meta.Pages)
			assert.Equal(t, tt.total, meta.Total)
			assert.Equal(t, tt.page, meta.Page)
		})
	}
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{NewValidationError("bad"), http.StatusBadRequest},
		{NewConflictError(CodeDuplicateEmail, "dup"), http.StatusBadRequest},
		{NewError(CodeAlreadyApplied, "dup"), http.StatusBadRequest},
		{NewUnauthorizedError("no"), http.StatusUnauthorized},
		{NewError(CodeAccountDeactivated, "off"), http.StatusUnauthorized},
		{NewForbiddenError("no"), http.StatusForbidden},
		{NewError(CodeNotAdmin, "no"), http.StatusForbidden},
		{NewNotFoundError("Job", 1), http.StatusNotFound},
		{NewInternalError(errors.New("boom")), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", NewNotFoundError("Job", 1)), http.StatusNotFound},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusCode(tt.err))
		})
	}
}

func TestApplicationTransitions(t *testing.T) {
	assert.True(t, CanTransition(ApplicationPending, ApplicationReviewed))
	assert.True(t, CanTransition(ApplicationReviewed, ApplicationShortlisted))
	assert.True(t, CanTransition(ApplicationShortlisted, ApplicationAccepted))
	assert.False(t, CanTransition(ApplicationAccepted, ApplicationPending))
	assert.False(t, CanTransition(ApplicationRejected, ApplicationAccepted))
	assert.False(t, CanTransition(ApplicationShortlisted, ApplicationReviewed))

	_, err := ParseApplicationStatus("hired")
	assert.Error(t, err)
	status, err := ParseApplicationStatus("shortlisted")
	require.NoError(t, err)
	assert.Equal(t, ApplicationShortlisted, status)
}

func TestUser_BeforeSave(t *testing.T) {
	u := &User{Email: "  Jane.Doe@Example.COM ", Password: "Secret@1234"}
	require.NoError(t, u.BeforeSave(nil))

	assert.Equal(t, "jane.doe@example.com", u.Email)
	assert.True(t, auth.IsHashed(u.Password))
	assert.True(t, auth.VerifyPassword("Secret@1234", u.Password))

	hashed := u.Password
	require.NoError(t, u.BeforeSave(nil))
	assert.Equal(t, hashed, u.Password, "an existing hash must not be re-hashed")
}

func TestRole_Valid(t *testing.T) {
	for _, r := range Roles {
		assert.True(t, r.Valid())
	}
	assert.False(t, Role("superuser").Valid())
}
