package database

import (
	"context"
	"fmt"

	"jobboard/internal/middleware"

	"gorm.io/gorm"
)

// jobSearchIndex backs the websearch_to_tsquery lookup in the job repository.
const jobSearchIndex = `CREATE INDEX IF NOT EXISTS idx_jobs_search ON jobs USING GIN (
	to_tsvector('english', coalesce(title, '') || ' ' || coalesce(description, '') || ' ' || coalesce(skills, ''))
)`

// Migrate brings the schema up to date. On PostgreSQL it also creates the
// full-text index used for job search.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	if db.Dialector.Name() == "postgres" {
		if err := db.WithContext(ctx).Exec(jobSearchIndex).Error; err != nil {
			return fmt.Errorf("create job search index: %w", err)
		}
	}

	middleware.Logger.InfoContext(ctx, "Database migration completed")
	return nil
}
