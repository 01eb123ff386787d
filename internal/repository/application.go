package repository

import (
	"context"
	"errors"
	"time"

	"jobboard/internal/cache"
	"jobboard/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApplicationRepository defines persistence operations for job applications.
type ApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	Exists(ctx context.Context, jobID, applicantID uint) (bool, error)
	GetForJob(ctx context.Context, jobID, id uint) (*models.Application, error)
	ListByJob(ctx context.Context, jobID uint) ([]models.Application, error)
	ListByApplicant(ctx context.Context, applicantID uint) ([]models.Application, error)
	UpdateStatus(ctx context.Context, id uint, status models.ApplicationStatus) error
	Count(ctx context.Context) (int64, error)
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository returns a new ApplicationRepository implementation.
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create inserts one application. A second application for the same job and
// applicant violates idx_applications_job_applicant and maps to ALREADY_APPLIED.
func (r *applicationRepository) Create(ctx context.Context, app *models.Application) error {
	if app.AppliedAt.IsZero() {
		app.AppliedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(app).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError(models.CodeAlreadyApplied, "You have already applied to this job")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateAdminStats(ctx)
	return nil
}

func (r *applicationRepository) Exists(ctx context.Context, jobID, applicantID uint) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("job_id = ? AND applicant_id = ?", jobID, applicantID).
		Count(&n).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return n > 0, nil
}

func (r *applicationRepository) GetForJob(ctx context.Context, jobID, id uint) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).Where("job_id = ?", jobID).First(&app, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Application", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &app, nil
}

func (r *applicationRepository) ListByJob(ctx context.Context, jobID uint) ([]models.Application, error) {
	var apps []models.Application
	if err := r.db.WithContext(ctx).
		Preload("Applicant").
		Where("job_id = ?", jobID).
		Order("applied_at DESC").Order("id DESC").
		Find(&apps).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return apps, nil
}

// ListByApplicant returns the applicant's applications, newest first, with job and company summary.
func (r *applicationRepository) ListByApplicant(ctx context.Context, applicantID uint) ([]models.Application, error) {
	var apps []models.Application
	if err := r.db.WithContext(ctx).
		Preload("Job").
		Preload("Job.Company", companySummary).
		Where("applicant_id = ?", applicantID).
		Order("applied_at DESC").Order("id DESC").
		Find(&apps).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return apps, nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id uint, status models.ApplicationStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Application{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Application", id)
	}
	return nil
}

func (r *applicationRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Application{}).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
