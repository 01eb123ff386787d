package repository

import (
	"context"

	"jobboard/internal/models"

	"gorm.io/gorm"
)

// SavedJobRepository defines persistence operations for a user's saved jobs.
type SavedJobRepository interface {
	Toggle(ctx context.Context, userID, jobID uint) (bool, error)
	ListJobs(ctx context.Context, userID uint) ([]models.Job, error)
	JobIDs(ctx context.Context, userID uint) ([]uint, error)
}

type savedJobRepository struct {
	db *gorm.DB
}

// NewSavedJobRepository returns a new SavedJobRepository implementation.
func NewSavedJobRepository(db *gorm.DB) SavedJobRepository {
	return &savedJobRepository{db: db}
}

// Toggle removes the (user, job) entry if present, otherwise inserts it.
// It returns whether the job is saved afterwards.
func (r *savedJobRepository) Toggle(ctx context.Context, userID, jobID uint) (bool, error) {
	var saved bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND job_id = ?", userID, jobID).Delete(&models.SavedJob{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			saved = false
			return nil
		}
		saved = true
		return tx.Create(&models.SavedJob{UserID: userID, JobID: jobID}).Error
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return saved, nil
}

// ListJobs returns saved jobs, most recently saved first, with a company summary.
func (r *savedJobRepository) ListJobs(ctx context.Context, userID uint) ([]models.Job, error) {
	var jobs []models.Job
	if err := r.db.WithContext(ctx).
		Joins("JOIN saved_jobs ON saved_jobs.job_id = jobs.id").
		Where("saved_jobs.user_id = ?", userID).
		Preload("Company", companySummary).
		Order("saved_jobs.created_at DESC").Order("jobs.id DESC").
		Find(&jobs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return jobs, nil
}

func (r *savedJobRepository) JobIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&models.SavedJob{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("job_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}
