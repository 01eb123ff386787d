package seed

import (
	"testing"
	"time"

	"jobboard/internal/auth"
	"jobboard/internal/models"
	"jobboard/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildJob_SalaryAndDeadline(t *testing.T) {
	opts := Options{DryRun: true, MaxDays: 30}
	f := NewFactory(nil, opts)
	owner := &models.User{ID: 1}
	company := f.BuildCompany(owner)
	company.ID = 7

	for i := 0; i < 20; i++ {
		job := f.BuildJob(company, owner)
		assert.Equal(t, uint(7), job.CompanyID)
		assert.GreaterOrEqual(t, job.Salary.Max, job.Salary.Min)
		assert.Equal(t, models.DefaultCurrency, job.Salary.Currency)
		assert.NotEmpty(t, job.Category)
		if job.ApplicationDeadline != nil {
			assert.True(t, job.ApplicationDeadline.After(time.Now()))
		}
		assert.Less(t, time.Since(job.CreatedAt), 31*24*time.Hour)
	}
}

func TestDryRunAssignsSyntheticIDs(t *testing.T) {
	f := NewFactory(nil, Options{DryRun: true})

	user, err := f.CreateUser(models.RoleEmployer)
	require.NoError(t, err)
	company, err := f.CreateCompany(user)
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.NotEqual(t, user.ID, company.ID)
	require.NotNil(t, user.Profile.CompanyID)
	assert.Equal(t, company.ID, *user.Profile.CompanyID)
}

func TestSeederRun(t *testing.T) {
	db := testutil.NewTestDB(t)
	opts := Options{Employers: 2, JobSeekers: 3, JobsPerCompany: 3, ApplicationsPerSeeker: 2, MaxDays: 10}

	sum, err := NewSeeder(db, opts).Run()
	require.NoError(t, err)

	assert.Equal(t, 5, sum.Users)
	assert.Equal(t, 2, sum.Companies)
	assert.Equal(t, 6, sum.Jobs)

	var users, companies, jobs, apps int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.Company{}).Count(&companies)
	db.Model(&models.Job{}).Count(&jobs)
	db.Model(&models.Application{}).Count(&apps)
	assert.EqualValues(t, 5, users)
	assert.EqualValues(t, 2, companies)
	assert.EqualValues(t, 6, jobs)
	assert.EqualValues(t, sum.Applications, apps)

	var employer models.User
	require.NoError(t, db.Where("role = ?", models.RoleEmployer).First(&employer).Error)
	assert.NotNil(t, employer.Profile.CompanyID)
	assert.True(t, auth.VerifyPassword(DefaultPassword, employer.Password))

	// A second run with cleaning replaces the data instead of adding to it.
	opts.ShouldClean = true
	_, err = NewSeeder(db, opts).Run()
	require.NoError(t, err)
	db.Model(&models.User{}).Count(&users)
	assert.EqualValues(t, 5, users)
}
