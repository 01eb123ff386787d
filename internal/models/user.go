// Package models defines the persisted records and API error types.
package models

import (
	"strings"
	"time"

	"jobboard/internal/auth"

	"gorm.io/gorm"
)

// Role controls which endpoints a user may call.
type Role string

const (
	RoleJobSeeker Role = "jobseeker"
	RoleEmployer  Role = "employer"
	RoleAdmin     Role = "admin"
)

// Roles lists every valid role.
var Roles = []Role{RoleJobSeeker, RoleEmployer, RoleAdmin}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleJobSeeker, RoleEmployer, RoleAdmin:
		return true
	}
	return false
}

// Profile is the user's public profile, stored inline on the users table.
type Profile struct {
	FirstName      string   `gorm:"size:50" json:"firstName"`
	LastName       string   `gorm:"size:50" json:"lastName"`
	Phone          string   `gorm:"size:50" json:"phone,omitempty"`
	Location       string   `gorm:"size:200" json:"location,omitempty"`
	ProfilePicture string   `gorm:"size:500" json:"profilePicture,omitempty"`
	Resume         string   `gorm:"size:500" json:"resume,omitempty"`
	Skills         []string `gorm:"serializer:json;type:text" json:"skills"`
	Experience     string   `gorm:"type:text" json:"experience,omitempty"`
	CompanyID      *uint    `gorm:"index" json:"company,omitempty"`
}

// FullName joins first and last name.
func (p Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// AppliedJob is a user's view of one of their applications.
type AppliedJob struct {
	JobID     uint              `json:"jobId"`
	AppliedAt time.Time         `json:"appliedAt"`
	Status    ApplicationStatus `json:"status"`
}

// User is an account of any role.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      Role      `gorm:"size:20;not null;default:jobseeker;index" json:"role"`
	Profile   Profile   `gorm:"embedded;embeddedPrefix:profile_" json:"profile"`
	IsActive  bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`

	// Derived from saved_jobs and applications; never stored on the row.
	SavedJobs   []uint       `gorm:"-" json:"savedJobs,omitempty"`
	AppliedJobs []AppliedJob `gorm:"-" json:"appliedJobs,omitempty"`
	CompanyName string       `gorm:"-" json:"companyName,omitempty"`
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// BeforeSave normalizes the email and hashes a plaintext password.
func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Email = NormalizeEmail(u.Email)
	if u.Password != "" && !auth.IsHashed(u.Password) {
		hash, err := auth.HashPassword(u.Password)
		if err != nil {
			return err
		}
		u.Password = hash
	}
	return nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
