package repository

import (
	"context"
	"testing"

	"jobboard/internal/cache"
	"jobboard/internal/models"
	"jobboard/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyRepository_CreateForOwnerPromotesAndLinks(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCompanyRepository(db)
	ctx := context.Background()

	seeker := testutil.CreateUser(t, db, "seeker@example.com", models.RoleJobSeeker)
	admin := testutil.CreateUser(t, db, "admin@example.com", models.RoleAdmin)

	acme := &models.Company{Name: "Acme", Description: "d", Industry: "Tech", CreatedByID: seeker.ID}
	require.NoError(t, repo.CreateForOwner(ctx, acme))
	assert.Equal(t, models.CompanySize1To10, acme.Size)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, seeker.ID).Error)
	assert.Equal(t, models.RoleEmployer, reloaded.Role)
	require.NotNil(t, reloaded.Profile.CompanyID)
	assert.Equal(t, acme.ID, *reloaded.Profile.CompanyID)

	require.NoError(t, repo.CreateForOwner(ctx, &models.Company{Name: "AdminCo", Description: "d", Industry: "Tech", CreatedByID: admin.ID}))
	require.NoError(t, db.First(&reloaded, admin.ID).Error)
	assert.Equal(t, models.RoleAdmin, reloaded.Role)

	err := repo.CreateForOwner(ctx, &models.Company{Name: "Acme", Description: "d", Industry: "Tech", CreatedByID: admin.ID})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeDuplicateName, appErr.Code)
}

func TestCompanyRepository_GetByIDCountsActiveJobs(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCompanyRepository(db)
	jobs := NewJobRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner@example.com", models.RoleEmployer)
	company := testutil.CreateCompany(t, db, "Acme", owner.ID)
	testutil.CreateJob(t, db, "Go Developer", company.ID, owner.ID)
	testutil.CreateJob(t, db, "SRE", company.ID, owner.ID)

	closed := &models.Job{Title: "Closed", CompanyID: company.ID, Description: "d", JobType: models.JobTypeContract,
		ExperienceLevel: models.ExperienceEntry, Category: "Ops", PostedByID: owner.ID, IsActive: false}
	require.NoError(t, jobs.Create(ctx, closed, nil))
	assert.False(t, closed.IsActive)

	got, err := repo.GetByID(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.JobCount)
	require.NotNil(t, got.CreatedBy)
	assert.Equal(t, "owner@example.com", got.CreatedBy.Email)

	_, err = repo.GetByID(ctx, 999)
	assert.Equal(t, 404, models.StatusCode(err))
}

func TestCompanyRepository_DeleteCascades(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCompanyRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner@example.com", models.RoleEmployer)
	seeker := testutil.CreateUser(t, db, "seeker@example.com", models.RoleJobSeeker)
	company := testutil.CreateCompany(t, db, "Acme", owner.ID)
	job := testutil.CreateJob(t, db, "Go Developer", company.ID, owner.ID)

	require.NoError(t, NewApplicationRepository(db).Create(ctx, &models.Application{JobID: job.ID, ApplicantID: seeker.ID}))
	_, err := NewSavedJobRepository(db).Toggle(ctx, seeker.ID, job.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, company.ID))

	var n int64
	db.Model(&models.Job{}).Count(&n)
	assert.Zero(t, n)
	db.Model(&models.Application{}).Count(&n)
	assert.Zero(t, n)
	db.Model(&models.SavedJob{}).Count(&n)
	assert.Zero(t, n)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, owner.ID).Error)
	assert.Nil(t, reloaded.Profile.CompanyID)

	assert.Equal(t, 404, models.StatusCode(repo.Delete(ctx, company.ID)))
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner@example.com", models.RoleEmployer)
	other := testutil.CreateUser(t, db, "other@example.com", models.RoleEmployer)
	company := testutil.CreateCompany(t, db, "Acme", owner.ID)
	otherCompany := testutil.CreateCompany(t, db, "Other", other.ID)
	testutil.CreateJob(t, db, "Acme job", company.ID, owner.ID)
	kept := testutil.CreateJob(t, db, "Other job", otherCompany.ID, other.ID)

	require.NoError(t, NewApplicationRepository(db).Create(ctx, &models.Application{JobID: kept.ID, ApplicantID: owner.ID}))

	require.NoError(t, users.Delete(ctx, owner.ID))

	var jobs []models.Job
	require.NoError(t, db.Find(&jobs).Error)
	require.Len(t, jobs, 1)
	assert.Equal(t, kept.ID, jobs[0].ID)

	var n int64
	db.Model(&models.Company{}).Count(&n)
	assert.Equal(t, int64(1), n)
	db.Model(&models.Application{}).Count(&n)
	assert.Zero(t, n)

	_, err := users.GetByID(ctx, owner.ID)
	assert.Equal(t, 404, models.StatusCode(err))
}

func TestUserRepository_DeleteDropsCachedCompanies(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(cache.Close)

	db := testutil.NewTestDB(t)
	users := NewUserRepository(db)
	companies := NewCompanyRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner@example.com", models.RoleEmployer)
	recruiter := testutil.CreateUser(t, db, "recruiter@example.com", models.RoleEmployer)
	company := testutil.CreateCompany(t, db, "Acme", owner.ID)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", recruiter.ID).Update("profile_company_id", company.ID).Error)

	_, err := companies.GetByID(ctx, company.ID)
	require.NoError(t, err)
	session, err := users.GetSession(ctx, recruiter.ID)
	require.NoError(t, err)
	require.NotNil(t, session.Profile.CompanyID)
	require.True(t, mr.Exists(cache.CompanyKey(company.ID)))

	require.NoError(t, users.Delete(ctx, owner.ID))

	assert.False(t, mr.Exists(cache.CompanyKey(company.ID)))
	_, err = companies.GetByID(ctx, company.ID)
	assert.Equal(t, 404, models.StatusCode(err))

	session, err = users.GetSession(ctx, recruiter.ID)
	require.NoError(t, err)
	assert.Nil(t, session.Profile.CompanyID)
}

func TestCompanyRepository_DeleteRefreshesLinkedSessions(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(cache.Close)

	db := testutil.NewTestDB(t)
	users := NewUserRepository(db)
	companies := NewCompanyRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner@example.com", models.RoleEmployer)
	company := testutil.CreateCompany(t, db, "Acme", owner.ID)

	session, err := users.GetSession(ctx, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, session.Profile.CompanyID)

	require.NoError(t, companies.Delete(ctx, company.ID))

	session, err = users.GetSession(ctx, owner.ID)
	require.NoError(t, err)
	assert.Nil(t, session.Profile.CompanyID)
}

func TestJobRepository_ListFilters(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewJobRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner@example.com", models.RoleEmployer)
	company := testutil.CreateCompany(t, db, "Acme", owner.ID)
	goJob := testutil.CreateJob(t, db, "Senior Go Developer", company.ID, owner.ID)
	design := testutil.CreateJob(t, db, "Product Designer", company.ID, owner.ID)
	require.NoError(t, db.Model(design).Updates(map[string]any{
		"category": "Design", "location_city": "Haifa", "salary_min": 5000, "salary_max": 9000,
	}).Error)

	minSalary := int64(8000)
	maxSalary := int64(10000)
	tests := []struct {
		name   string
		filter JobFilter
		want   []uint
	}{
		{"all active newest first", JobFilter{}, []uint{design.ID, goJob.ID}},
		{"search title", JobFilter{Search: "go developer"}, []uint{goJob.ID}},
		{"category", JobFilter{Category: "Design"}, []uint{design.ID}},
		{"location substring", JobFilter{Location: "haI"}, []uint{design.ID}},
		{"min salary", JobFilter{MinSalary: &minSalary}, []uint{goJob.ID}},
		{"max salary", JobFilter{MaxSalary: &maxSalary}, []uint{design.ID}},
		{"job type", JobFilter{JobType: models.JobTypeInternship}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			var got []uint
			for _, j := range page.Items {
				got = append(got, j.ID)
				require.NotNil(t, j.Company)
				assert.Equal(t, "Acme", j.Company.Name)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, int64(len(tt.want)), page.Meta.Total)
		})
	}
}

func TestJobRepository_Pagination(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewJobRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner@example.com", models.RoleEmployer)
	company := testutil.CreateCompany(t, db, "Acme", owner.ID)
	for i := 0; i < 25; i++ {
		testutil.CreateJob(t, db, "Job", company.ID, owner.ID)
	}

	page, err := repo.List(ctx, JobFilter{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)
	assert.Equal(t, models.PageMeta{Page: 3, Limit: 10, Total: 25, Pages: 3}, page.Meta)
}

func TestJobRepository_IncrementViews(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewJobRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner@example.com", models.RoleEmployer)
	company := testutil.CreateCompany(t, db, "Acme", owner.ID)
	job := testutil.CreateJob(t, db, "Go Developer", company.ID, owner.ID)

	for want := int64(1); want <= 3; want++ {
		views, err := repo.IncrementViews(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, want, views)
	}

	_, err := repo.IncrementViews(ctx, 999)
	assert.Equal(t, 404, models.StatusCode(err))
}

func TestApplicationRepository_DuplicateRejected(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewApplicationRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner@example.com", models.RoleEmployer)
	seeker := testutil.CreateUser(t, db, "seeker@example.com", models.RoleJobSeeker)
	company := testutil.CreateCompany(t, db, "Acme", owner.ID)
	job := testutil.CreateJob(t, db, "Go Developer", company.ID, owner.ID)

	first := &models.Application{JobID: job.ID, ApplicantID: seeker.ID}
	require.NoError(t, repo.Create(ctx, first))
	assert.Equal(t, models.ApplicationPending, first.Status)

	err := repo.Create(ctx, &models.Application{JobID: job.ID, ApplicantID: seeker.ID})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeAlreadyApplied, appErr.Code)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	mine, err := repo.ListByApplicant(ctx, seeker.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Job)
	require.NotNil(t, mine[0].Job.Company)
	assert.Equal(t, "Acme", mine[0].Job.Company.Name)
}

func TestSavedJobRepository_ToggleTwiceRestoresState(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSavedJobRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner@example.com", models.RoleEmployer)
	company := testutil.CreateCompany(t, db, "Acme", owner.ID)
	job := testutil.CreateJob(t, db, "Go Developer", company.ID, owner.ID)

	saved, err := repo.Toggle(ctx, owner.ID, job.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	jobs, err := repo.ListJobs(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, job.ID, jobs[0].ID)

	saved, err = repo.Toggle(ctx, owner.ID, job.ID)
	require.NoError(t, err)
	assert.False(t, saved)

	ids, err := repo.JobIDs(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
