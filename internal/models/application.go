package models

import (
	"fmt"
	"time"
)

// ApplicationStatus is where an application sits in the hiring pipeline.
type ApplicationStatus string

const (
	ApplicationPending     ApplicationStatus = "pending"
	ApplicationReviewed    ApplicationStatus = "reviewed"
	ApplicationShortlisted ApplicationStatus = "shortlisted"
	ApplicationRejected    ApplicationStatus = "rejected"
	ApplicationAccepted    ApplicationStatus = "accepted"
)

var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationPending:     {ApplicationReviewed, ApplicationShortlisted, ApplicationRejected, ApplicationAccepted},
	ApplicationReviewed:    {ApplicationShortlisted, ApplicationRejected, ApplicationAccepted},
	ApplicationShortlisted: {ApplicationRejected, ApplicationAccepted},
	ApplicationRejected:    {},
	ApplicationAccepted:    {},
}

// ParseApplicationStatus validates a raw status string.
func ParseApplicationStatus(raw string) (ApplicationStatus, error) {
	s := ApplicationStatus(raw)
	if _, ok := applicationTransitions[s]; !ok {
		return "", fmt.Errorf("unknown application status %q", raw)
	}
	return s, nil
}

// CanTransition reports whether an application may move from one status to another.
func CanTransition(from, to ApplicationStatus) bool {
	for _, next := range applicationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Application is one applicant's submission to a job. A user applies to a job at most once.
type Application struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	JobID       uint              `gorm:"not null;uniqueIndex:idx_applications_job_applicant" json:"jobId"`
	Job         *Job              `gorm:"foreignKey:JobID" json:"job,omitempty"`
	ApplicantID uint              `gorm:"not null;uniqueIndex:idx_applications_job_applicant;index" json:"applicantId"`
	Applicant   *User             `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
	CoverLetter string            `gorm:"type:text" json:"coverLetter,omitempty"`
	Status      ApplicationStatus `gorm:"size:20;not null;default:pending;index" json:"status"`
	AppliedAt   time.Time         `gorm:"not null" json:"appliedAt"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// SavedJob records that a user bookmarked a job.
type SavedJob struct {
	UserID    uint      `gorm:"primaryKey" json:"userId"`
	JobID     uint      `gorm:"primaryKey;index" json:"jobId"`
	Job       *Job      `gorm:"foreignKey:JobID" json:"job,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
