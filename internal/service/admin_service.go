package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"jobboard/internal/cache"
	"jobboard/internal/featureflags"
	"jobboard/internal/middleware"
	"jobboard/internal/models"
	"jobboard/internal/repository"
	"jobboard/internal/validation"
)

const recentJobsLimit = 5

type AdminService struct {
	users     repository.UserRepository
	companies repository.CompanyRepository
	jobs      repository.JobRepository
	apps      repository.ApplicationRepository
	flags     *featureflags.Manager
}

func NewAdminService(
	users repository.UserRepository,
	companies repository.CompanyRepository,
	jobs repository.JobRepository,
	apps repository.ApplicationRepository,
	flags *featureflags.Manager,
) *AdminService {
	return &AdminService{users: users, companies: companies, jobs: jobs, apps: apps, flags: flags}
}

// AdminUpdateUserInput changes a user's role, profile or active flag.
type AdminUpdateUserInput struct {
	Role     *models.Role  `json:"role" validate:"omitempty,oneof=jobseeker employer admin"`
	Profile  *ProfilePatch `json:"profile"`
	IsActive *bool         `json:"isActive"`
}

type SetRoleInput struct {
	Role string `json:"role"`
}

// RecentJob is a slim job row for the dashboard.
type RecentJob struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	CompanyID   uint      `json:"companyId"`
	CompanyName string    `json:"companyName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Statistics is the admin dashboard summary. Job figures count active jobs.
type Statistics struct {
	TotalUsers        int64                      `json:"totalUsers"`
	TotalJobs         int64                      `json:"totalJobs"`
	TotalCompanies    int64                      `json:"totalCompanies"`
	TotalApplications int64                      `json:"totalApplications"`
	UsersByRole       []repository.RoleCount     `json:"usersByRole"`
	JobsByCategory    []repository.CategoryCount `json:"jobsByCategory"`
	RecentJobs        []RecentJob                `json:"recentJobs"`
}

// StatsSummary backs /admin/stats. TotalJobs counts every job, active or not.
type StatsSummary struct {
	TotalUsers        int64 `json:"totalUsers"`
	TotalJobs         int64 `json:"totalJobs"`
	TotalCompanies    int64 `json:"totalCompanies"`
	TotalApplications int64 `json:"totalApplications"`
	JobSeekers        int64 `json:"jobSeekers"`
	Employers         int64 `json:"employers"`
	Admins            int64 `json:"admins"`
}

// FlagSnapshot is the evaluated feature flag state for one caller.
type FlagSnapshot struct {
	Flags map[string]bool   `json:"flags"`
	Raw   map[string]string `json:"raw"`
}

func (s *AdminService) ListUsers(ctx context.Context, f repository.UserFilter) (*models.Page[models.User], error) {
	return s.users.List(ctx, f)
}

func (s *AdminService) ListJobs(ctx context.Context, f repository.JobFilter) (*models.Page[models.Job], error) {
	f.IncludeInactive = true
	return s.jobs.List(ctx, f)
}

func (s *AdminService) ListCompanies(ctx context.Context, f repository.CompanyFilter) (*models.Page[models.Company], error) {
	return s.companies.List(ctx, f)
}

func (s *AdminService) UpdateUser(ctx context.Context, id uint, in AdminUpdateUserInput) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Role != nil && *in.Role != user.Role {
		if err := s.users.SetRole(ctx, id, *in.Role); err != nil {
			return nil, err
		}
		user.Role = *in.Role
	}
	in.Profile.apply(&user.Profile)
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetRole assigns a role by name. Unknown roles are rejected.
func (s *AdminService) SetRole(ctx context.Context, id uint, raw string) (*models.User, error) {
	role := models.Role(strings.ToLower(strings.TrimSpace(raw)))
	if !role.Valid() {
		return nil, models.NewValidationError("Invalid role")
	}
	if err := s.users.SetRole(ctx, id, role); err != nil {
		return nil, err
	}
	middleware.Logger.InfoContext(ctx, "user role changed", slog.Uint64("target_user_id", uint64(id)), slog.String("role", string(role)))
	return s.users.GetByID(ctx, id)
}

// DeleteUser removes a non-admin user and everything they own.
func (s *AdminService) DeleteUser(ctx context.Context, id uint) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.IsAdmin() {
		return models.NewValidationError("Cannot delete admin users")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	middleware.Logger.InfoContext(ctx, "user deleted", slog.Uint64("target_user_id", uint64(id)))
	return nil
}

func (s *AdminService) DeleteJob(ctx context.Context, id uint) error {
	return s.jobs.Delete(ctx, id)
}

func (s *AdminService) DeleteCompany(ctx context.Context, id uint) error {
	return s.companies.Delete(ctx, id)
}

// Statistics returns the dashboard figures, cached briefly in Redis.
func (s *AdminService) Statistics(ctx context.Context) (*Statistics, error) {
	var stats Statistics
	err := cache.Aside(ctx, "admin_stats", cache.AdminStatsKey, &stats, cache.AdminStatsTTL, func() error {
		return s.computeStatistics(ctx, &stats)
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *AdminService) computeStatistics(ctx context.Context, stats *Statistics) error {
	var err error
	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return err
	}
	if stats.TotalJobs, err = s.jobs.Count(ctx, true); err != nil {
		return err
	}
	if stats.TotalCompanies, err = s.companies.Count(ctx); err != nil {
		return err
	}
	if stats.TotalApplications, err = s.apps.Count(ctx); err != nil {
		return err
	}
	if stats.UsersByRole, err = s.users.CountByRole(ctx); err != nil {
		return err
	}
	if stats.JobsByCategory, err = s.jobs.CountByCategory(ctx); err != nil {
		return err
	}

	recent, err := s.jobs.Recent(ctx, recentJobsLimit)
	if err != nil {
		return err
	}
	stats.RecentJobs = make([]RecentJob, 0, len(recent))
	for _, j := range recent {
		row := RecentJob{ID: j.ID, Title: j.Title, CompanyID: j.CompanyID, CreatedAt: j.CreatedAt}
		if j.Company != nil {
			row.CompanyName = j.Company.Name
		}
		stats.RecentJobs = append(stats.RecentJobs, row)
	}
	return nil
}

func (s *AdminService) Stats(ctx context.Context) (*StatsSummary, error) {
	var (
		out StatsSummary
		err error
	)
	if out.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if out.TotalJobs, err = s.jobs.Count(ctx, false); err != nil {
		return nil, err
	}
	if out.TotalCompanies, err = s.companies.Count(ctx); err != nil {
		return nil, err
	}
	if out.TotalApplications, err = s.apps.Count(ctx); err != nil {
		return nil, err
	}

	byRole, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	for _, rc := range byRole {
		switch rc.Role {
		case models.RoleJobSeeker:
			out.JobSeekers = rc.Count
		case models.RoleEmployer:
			out.Employers = rc.Count
		case models.RoleAdmin:
			out.Admins = rc.Count
		}
	}
	return &out, nil
}

func (s *AdminService) FeatureFlags(actor Actor) FlagSnapshot {
	return FlagSnapshot{Flags: s.flags.Snapshot(actor.ID), Raw: s.flags.Raw()}
}

// CreateAdmin creates an admin account, or promotes the existing account with that email.
func (s *AdminService) CreateAdmin(ctx context.Context, email, password, firstName, lastName string) (*models.User, bool, error) {
	email = models.NormalizeEmail(email)
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		if existing.Role != models.RoleAdmin {
			if err := s.users.SetRole(ctx, existing.ID, models.RoleAdmin); err != nil {
				return nil, false, err
			}
			existing.Role = models.RoleAdmin
		}
		return existing, false, nil
	}

	if err := validation.ValidatePassword(password); err != nil {
		return nil, false, models.NewValidationError(err.Error())
	}
	user := &models.User{
		Email:    email,
		Password: password,
		Role:     models.RoleAdmin,
		IsActive: true,
		Profile:  models.Profile{FirstName: firstName, LastName: lastName},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// SetRoleByEmail is the CLI variant of SetRole.
func (s *AdminService) SetRoleByEmail(ctx context.Context, email string, role models.Role) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewError(models.CodeUserNotFound, "User not found")
	}
	return s.SetRole(ctx, user.ID, string(role))
}

func (s *AdminService) ListAdmins(ctx context.Context) ([]models.User, error) {
	return s.users.ListByRole(ctx, models.RoleAdmin)
}
