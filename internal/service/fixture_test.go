package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"jobboard/internal/auth"
	"jobboard/internal/featureflags"
	"jobboard/internal/models"
	"jobboard/internal/repository"
	"jobboard/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testSecret        = "service-test-secret-with-enough-entropy"
	testAdminEmail    = "root@example.com"
	testAdminPassword = "R00tPassw0rd9!"
)

type revocation struct {
	jti string
	ttl time.Duration
}

type fixture struct {
	db     *gorm.DB
	tokens *auth.TokenIssuer
	flags  *featureflags.Manager

	users     repository.UserRepository
	companies repository.CompanyRepository
	jobs      repository.JobRepository
	apps      repository.ApplicationRepository
	saved     repository.SavedJobRepository

	auth       *AuthService
	companySvc *CompanyService
	jobSvc     *JobService
	admin      *AdminService

	mu      sync.Mutex
	revoked []revocation
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithFlags(t, "")
}

func newFixtureWithFlags(t *testing.T, rawFlags string) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	f := &fixture{
		db:        db,
		tokens:    auth.NewTokenIssuer(testSecret, time.Hour),
		flags:     featureflags.NewManager(rawFlags, featureflags.Defaults(false)),
		users:     repository.NewUserRepository(db),
		companies: repository.NewCompanyRepository(db),
		jobs:      repository.NewJobRepository(db),
		apps:      repository.NewApplicationRepository(db),
		saved:     repository.NewSavedJobRepository(db),
	}
	revoke := func(_ context.Context, jti string, ttl time.Duration) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.revoked = append(f.revoked, revocation{jti: jti, ttl: ttl})
		return nil
	}
	f.auth = NewAuthService(f.users, f.apps, f.saved, f.tokens, f.flags, revoke, AuthSettings{
		AdminEmail:    testAdminEmail,
		AdminPassword: testAdminPassword,
		ClientURL:     "http://localhost:3000/",
	})
	f.companySvc = NewCompanyService(f.companies, f.jobs)
	f.jobSvc = NewJobService(f.jobs, f.companies, f.users, f.apps, f.saved)
	f.admin = NewAdminService(f.users, f.companies, f.jobs, f.apps, f.flags)
	return f
}

func actorOf(u *models.User) Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	require.Error(t, err)
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code, appErr.Message)
}

func ptr[T any](v T) *T {
	return &v
}

func validJobInput(title string) CreateJobInput {
	return CreateJobInput{
		Title:           title,
		Description:     "Design and run backend services",
		Requirements:    []string{"Go", " ", "PostgreSQL"},
		Location:        models.JobLocation{City: "Haifa", Country: "Israel"},
		JobType:         models.JobTypeFullTime,
		ExperienceLevel: models.ExperienceSenior,
		Salary:          SalaryInput{Min: 20000, Max: 30000},
		Category:        "Engineering",
		Skills:          []string{"go", "redis"},
	}
}
