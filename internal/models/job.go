package models

import "time"

// JobType is the employment type of a posting.
type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
)

// ExperienceLevel is the seniority a posting asks for.
type ExperienceLevel string

const (
	ExperienceEntry    ExperienceLevel = "entry"
	ExperienceMid      ExperienceLevel = "mid"
	ExperienceSenior   ExperienceLevel = "senior"
	ExperienceManager  ExperienceLevel = "manager"
	ExperienceDirector ExperienceLevel = "director"
)

// DefaultCurrency is applied when a salary has no currency.
const DefaultCurrency = "ILS"

// JobLocation is where the job is performed.
type JobLocation struct {
	City     string `gorm:"size:100;index" json:"city"`
	Country  string `gorm:"size:100" json:"country"`
	IsRemote bool   `gorm:"not null;default:false" json:"isRemote"`
}

// Salary is a pay range. A nil IsDisclosed is stored as true.
type Salary struct {
	Min         int64  `gorm:"index" json:"min"`
	Max         int64  `json:"max"`
	Currency    string `gorm:"size:10;not null;default:ILS" json:"currency"`
	IsDisclosed *bool  `gorm:"not null;default:true" json:"isDisclosed"`
}

// Job is a posting that belongs to a company.
type Job struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	Title               string          `gorm:"size:200;not null" json:"title"`
	CompanyID           uint            `gorm:"not null;index" json:"companyId"`
	Company             *Company        `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Description         string          `gorm:"type:text;not null" json:"description"`
	Requirements        []string        `gorm:"serializer:json;type:text" json:"requirements"`
	Benefits            []string        `gorm:"serializer:json;type:text" json:"benefits"`
	Location            JobLocation     `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	JobType             JobType         `gorm:"size:20;not null;index" json:"jobType"`
	ExperienceLevel     ExperienceLevel `gorm:"size:20;not null;index" json:"experienceLevel"`
	Salary              Salary          `gorm:"embedded;embeddedPrefix:salary_" json:"salary"`
	Category            string          `gorm:"size:100;not null;index" json:"category"`
	Skills              []string        `gorm:"serializer:json;type:text" json:"skills"`
	IsActive            bool            `gorm:"not null;default:true;index" json:"isActive"`
	ApplicationDeadline *time.Time      `json:"applicationDeadline,omitempty"`
	PostedByID          uint            `gorm:"column:posted_by;not null;index" json:"postedById"`
	PostedBy            *User           `gorm:"foreignKey:PostedByID" json:"postedBy,omitempty"`
	Applications        []Application   `gorm:"foreignKey:JobID" json:"applications,omitempty"`
	Views               int64           `gorm:"not null;default:0" json:"views"`
	CreatedAt           time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

// PostedByUser reports whether userID posted the job.
func (j *Job) PostedByUser(userID uint) bool {
	return j.PostedByID == userID
}
