package database

import "jobboard/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Company{},
		&models.Job{},
		&models.Application{},
		&models.SavedJob{},
	}
}
