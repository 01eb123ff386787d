// Package repository implements the data access layer for the application.
package repository

import (
	"errors"
	"strings"

	"jobboard/internal/models"

	"gorm.io/gorm"
)

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// notFoundOr maps gorm.ErrRecordNotFound to a NotFound AppError and anything else to Internal.
func notFoundOr(err error, resource string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}

// paginate clamps page/limit and returns the matching offset.
func paginate(page, limit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit, (page - 1) * limit
}

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

func likePattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

func isPostgres(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}

// userSummary limits a preloaded user to the fields listings need.
func userSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "email", "role", "is_active", "profile_first_name", "profile_last_name")
}

// companySummary limits a preloaded company to the fields listings need.
func companySummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "logo", "industry", "location_city", "location_country")
}

// deleteJobsTx removes jobs with their applications and saved entries. Must run inside a transaction.
func deleteJobsTx(tx *gorm.DB, jobIDs []uint) error {
	if len(jobIDs) == 0 {
		return nil
	}
	if err := tx.Where("job_id IN ?", jobIDs).Delete(&models.Application{}).Error; err != nil {
		return err
	}
	if err := tx.Where("job_id IN ?", jobIDs).Delete(&models.SavedJob{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", jobIDs).Delete(&models.Job{}).Error
}
