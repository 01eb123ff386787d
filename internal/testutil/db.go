// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"jobboard/internal/config"
	"jobboard/internal/database"
	"jobboard/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// NewTestDB returns a migrated in-memory SQLite database private to t.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))

	db, err := database.Open(sqlite.Open(dsn), &config.Config{Env: "test", DBMaxOpenConns: 1, DBMaxIdleConns: 1})
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user with a valid password ("Passw0rd1234!") and the given role.
func CreateUser(t *testing.T, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		Email:    email,
		Password: Password,
		Role:     role,
		IsActive: true,
		Profile:  models.Profile{FirstName: "Test", LastName: "User"},
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// Password satisfies the password policy.
const Password = "Passw0rd1234!"

// CreateCompany inserts a company owned by ownerID.
func CreateCompany(t *testing.T, db *gorm.DB, name string, ownerID uint) *models.Company {
	t.Helper()
	company := &models.Company{
		Name:        name,
		Description: "A company",
		Industry:    "Technology",
		Location:    models.Location{City: "Tel Aviv", Country: "Israel"},
		Size:        models.CompanySize11To50,
		CreatedByID: ownerID,
	}
	require.NoError(t, db.Create(company).Error)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", ownerID).Update("profile_company_id", company.ID).Error)
	return company
}

// CreateJob inserts an active job for companyID posted by posterID.
func CreateJob(t *testing.T, db *gorm.DB, title string, companyID, posterID uint) *models.Job {
	t.Helper()
	job := &models.Job{
		Title:           title,
		CompanyID:       companyID,
		Description:     "Build things with Go",
		Requirements:    []string{"Go"},
		Location:        models.JobLocation{City: "Tel Aviv", Country: "Israel"},
		JobType:         models.JobTypeFullTime,
		ExperienceLevel: models.ExperienceMid,
		Salary:          models.Salary{Min: 10000, Max: 20000, Currency: models.DefaultCurrency},
		Category:        "Engineering",
		Skills:          []string{"go", "sql"},
		IsActive:        true,
		PostedByID:      posterID,
	}
	require.NoError(t, db.Create(job).Error)
	return job
}
