package models

import "time"

// CompanySize is the headcount bucket of a company.
type CompanySize string

const (
	CompanySize1To10     CompanySize = "1-10"
	CompanySize11To50    CompanySize = "11-50"
	CompanySize51To200   CompanySize = "51-200"
	CompanySize201To500  CompanySize = "201-500"
	CompanySize501To1000 CompanySize = "501-1000"
	CompanySize1000Plus  CompanySize = "1000+"
)

// Location is a city/country pair.
type Location struct {
	City    string `gorm:"size:100" json:"city"`
	Country string `gorm:"size:100" json:"country"`
}

// Company is an employer profile owned by the user who created it.
type Company struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Name        string      `gorm:"uniqueIndex;size:200;not null" json:"name"`
	Description string      `gorm:"type:text;not null" json:"description"`
	Industry    string      `gorm:"size:100;not null;index" json:"industry"`
	Location    Location    `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	Size        CompanySize `gorm:"size:20;not null;default:1-10" json:"size"`
	Website     string      `gorm:"size:500" json:"website,omitempty"`
	Logo        string      `gorm:"size:500" json:"logo,omitempty"`
	CreatedByID uint        `gorm:"column:created_by;not null;index" json:"createdById"`
	CreatedBy   *User       `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
	CreatedAt   time.Time   `json:"createdAt,omitzero"`
	UpdatedAt   time.Time   `json:"updatedAt,omitzero"`

	// Number of active jobs, computed on read.
	JobCount int64 `gorm:"-:all" json:"jobCount"`
}

// OwnedBy reports whether userID created the company.
func (c *Company) OwnedBy(userID uint) bool {
	return c.CreatedByID == userID
}
