package repository

import (
	"context"

	"jobboard/internal/cache"
	"jobboard/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JobFilter narrows a job listing. Zero values are ignored.
type JobFilter struct {
	Search          string
	Category        string
	JobType         models.JobType
	ExperienceLevel models.ExperienceLevel
	Location        string
	MinSalary       *int64
	MaxSalary       *int64
	CompanyID       uint
	IncludeInactive bool
	Page            int
	Limit           int
}

// CategoryCount is one row of a jobs-by-category aggregate.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// JobRepository defines persistence operations for jobs.
type JobRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Job, error)
	GetDetail(ctx context.Context, id uint) (*models.Job, error)
	IncrementViews(ctx context.Context, id uint) (int64, error)
	Create(ctx context.Context, job *models.Job, newCompany *models.Company) error
	Update(ctx context.Context, job *models.Job) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, f JobFilter) (*models.Page[models.Job], error)
	Count(ctx context.Context, activeOnly bool) (int64, error)
	CountByCategory(ctx context.Context) ([]CategoryCount, error)
	Recent(ctx context.Context, n int) ([]models.Job, error)
}

type jobRepository struct {
	db *gorm.DB
}

// NewJobRepository returns a new JobRepository implementation.
func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) GetByID(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	if err := r.db.WithContext(ctx).First(&job, id).Error; err != nil {
		return nil, notFoundOr(err, "Job", id)
	}
	return &job, nil
}

// GetDetail loads the job with its company, poster and applications.
func (r *jobRepository) GetDetail(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	err := r.db.WithContext(ctx).
		Preload("Company").
		Preload("PostedBy", userSummary).
		Preload("Applications", func(db *gorm.DB) *gorm.DB { return db.Order("applied_at DESC") }).
		Preload("Applications.Applicant", userSummary).
		First(&job, id).Error
	if err != nil {
		return nil, notFoundOr(err, "Job", id)
	}
	return &job, nil
}

// IncrementViews bumps the counter atomically and returns the new value.
func (r *jobRepository) IncrementViews(ctx context.Context, id uint) (int64, error) {
	var views int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Job{}).Where("id = ?", id).
			UpdateColumn("views", gorm.Expr("views + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.Job{}).Where("id = ?", id).Pluck("views", &views).Error
	})
	if err != nil {
		return 0, notFoundOr(err, "Job", id)
	}
	return views, nil
}

// Create inserts the job. When newCompany is set it is created first, in the
// same transaction, and linked to the poster's profile.
func (r *jobRepository) Create(ctx context.Context, job *models.Job, newCompany *models.Company) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if newCompany != nil {
			if err := createCompanyTx(tx, newCompany); err != nil {
				return err
			}
			job.CompanyID = newCompany.ID
		}
		inactive := !job.IsActive
		if err := tx.Omit(clause.Associations).Create(job).Error; err != nil {
			return err
		}
		// is_active has a database default, so a false value is skipped on insert.
		if inactive {
			job.IsActive = false
			return tx.Model(job).UpdateColumn("is_active", false).Error
		}
		return nil
	})
	if err != nil {
		return companyWriteError(err)
	}
	if newCompany != nil {
		cache.InvalidateUser(ctx, job.PostedByID)
	}
	cache.InvalidateCompany(ctx, job.CompanyID)
	cache.InvalidateAdminStats(ctx)
	return nil
}

func (r *jobRepository) Update(ctx context.Context, job *models.Job) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(job).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCompany(ctx, job.CompanyID)
	cache.InvalidateAdminStats(ctx)
	return nil
}

// Delete removes the job with its applications and saved entries.
func (r *jobRepository) Delete(ctx context.Context, id uint) error {
	var companyID uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var job models.Job
		if err := tx.Select("id", "company_id").First(&job, id).Error; err != nil {
			return err
		}
		companyID = job.CompanyID
		return deleteJobsTx(tx, []uint{id})
	})
	if err != nil {
		return notFoundOr(err, "Job", id)
	}
	cache.InvalidateCompany(ctx, companyID)
	cache.InvalidateAdminStats(ctx)
	return nil
}

func (r *jobRepository) List(ctx context.Context, f JobFilter) (*models.Page[models.Job], error) {
	page, limit, offset := paginate(f.Page, f.Limit)

	q := r.applyFilter(r.db.WithContext(ctx).Model(&models.Job{}), f).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	var jobs []models.Job
	if err := q.Preload("Company", companySummary).
		Preload("PostedBy", userSummary).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&jobs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	return &models.Page[models.Job]{Items: jobs, Meta: models.NewPageMeta(page, limit, total)}, nil
}

func (r *jobRepository) applyFilter(q *gorm.DB, f JobFilter) *gorm.DB {
	if !f.IncludeInactive {
		q = q.Where("is_active = ?", true)
	}
	if f.Search != "" {
		if isPostgres(r.db) {
			q = q.Where(`to_tsvector('english', coalesce(title, '') || ' ' || coalesce(description, '') || ' ' || coalesce(skills, '')) @@ websearch_to_tsquery('english', ?)`, f.Search)
		} else {
			p := likePattern(f.Search)
			q = q.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(skills) LIKE ?)", p, p, p)
		}
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.JobType != "" {
		q = q.Where("job_type = ?", f.JobType)
	}
	if f.ExperienceLevel != "" {
		q = q.Where("experience_level = ?", f.ExperienceLevel)
	}
	if f.Location != "" {
		q = q.Where("LOWER(location_city) LIKE ?", likePattern(f.Location))
	}
	if f.MinSalary != nil {
		q = q.Where("salary_min >= ?", *f.MinSalary)
	}
	if f.MaxSalary != nil {
		q = q.Where("salary_max <= ?", *f.MaxSalary)
	}
	if f.CompanyID != 0 {
		q = q.Where("company_id = ?", f.CompanyID)
	}
	return q
}

func (r *jobRepository) Count(ctx context.Context, activeOnly bool) (int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Job{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

func (r *jobRepository) CountByCategory(ctx context.Context) ([]CategoryCount, error) {
	var rows []CategoryCount
	if err := r.db.WithContext(ctx).Model(&models.Job{}).
		Select("category, COUNT(*) AS count").
		Where("is_active = ?", true).
		Group("category").Order("count DESC").Order("category").
		Scan(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return rows, nil
}

// Recent returns the n newest active jobs with a company summary.
func (r *jobRepository) Recent(ctx context.Context, n int) ([]models.Job, error) {
	var jobs []models.Job
	if err := r.db.WithContext(ctx).
		Preload("Company", companySummary).
		Where("is_active = ?", true).
		Order("created_at DESC").Order("id DESC").
		Limit(n).
		Find(&jobs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return jobs, nil
}
