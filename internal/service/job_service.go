package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"jobboard/internal/middleware"
	"jobboard/internal/models"
	"jobboard/internal/observability"
	"jobboard/internal/repository"
	"jobboard/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// Defaults for a company created implicitly by a poster's first job.
const (
	defaultIndustry           = "Technology"
	defaultCompanyDescription = "Company description"
	defaultCompanyCity        = "New York"
	defaultCompanyCountry     = "USA"
)

type JobService struct {
	jobs      repository.JobRepository
	companies repository.CompanyRepository
	users     repository.UserRepository
	apps      repository.ApplicationRepository
	saved     repository.SavedJobRepository
	now       func() time.Time
}

func NewJobService(
	jobs repository.JobRepository,
	companies repository.CompanyRepository,
	users repository.UserRepository,
	apps repository.ApplicationRepository,
	saved repository.SavedJobRepository,
) *JobService {
	return &JobService{jobs: jobs, companies: companies, users: users, apps: apps, saved: saved, now: time.Now}
}

type SalaryInput struct {
	Min         int64  `json:"min" validate:"gte=0"`
	Max         int64  `json:"max" validate:"omitempty,gtefield=Min"`
	Currency    string `json:"currency" validate:"omitempty,len=3"`
	IsDisclosed *bool  `json:"isDisclosed"`
}

func (in SalaryInput) toModel() models.Salary {
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = models.DefaultCurrency
	}
	disclosed := true
	if in.IsDisclosed != nil {
		disclosed = *in.IsDisclosed
	}
	return models.Salary{Min: in.Min, Max: in.Max, Currency: currency, IsDisclosed: &disclosed}
}

type CreateJobInput struct {
	Title               string                 `json:"title" validate:"required,max=200"`
	Description         string                 `json:"description" validate:"required,max=20000"`
	Requirements        []string               `json:"requirements" validate:"max=50"`
	Benefits            []string               `json:"benefits" validate:"max=50"`
	Location            models.JobLocation     `json:"location"`
	JobType             models.JobType         `json:"jobType" validate:"required,oneof=full-time part-time contract internship"`
	ExperienceLevel     models.ExperienceLevel `json:"experienceLevel" validate:"required,oneof=entry mid senior manager director"`
	Salary              SalaryInput            `json:"salary"`
	Category            string                 `json:"category" validate:"required,max=100"`
	Skills              []string               `json:"skills" validate:"max=50"`
	IsActive            *bool                  `json:"isActive"`
	ApplicationDeadline *time.Time             `json:"applicationDeadline"`

	// Used only when the poster has no company yet.
	CompanyName        string             `json:"companyName" validate:"omitempty,max=200"`
	Industry           string             `json:"industry" validate:"omitempty,max=100"`
	CompanyDescription string             `json:"companyDescription" validate:"omitempty,max=5000"`
	CompanySize        models.CompanySize `json:"companySize" validate:"omitempty,oneof=1-10 11-50 51-200 201-500 501-1000 1000+"`
}

// UpdateJobInput is a partial update; nil fields are left unchanged.
type UpdateJobInput struct {
	Title               *string                 `json:"title" validate:"omitempty,min=1,max=200"`
	Description         *string                 `json:"description" validate:"omitempty,min=1,max=20000"`
	Requirements        *[]string               `json:"requirements" validate:"omitempty,max=50"`
	Benefits            *[]string               `json:"benefits" validate:"omitempty,max=50"`
	Location            *models.JobLocation     `json:"location"`
	JobType             *models.JobType         `json:"jobType" validate:"omitempty,oneof=full-time part-time contract internship"`
	ExperienceLevel     *models.ExperienceLevel `json:"experienceLevel" validate:"omitempty,oneof=entry mid senior manager director"`
	Salary              *SalaryInput            `json:"salary"`
	Category            *string                 `json:"category" validate:"omitempty,min=1,max=100"`
	Skills              *[]string               `json:"skills" validate:"omitempty,max=50"`
	IsActive            *bool                   `json:"isActive"`
	ApplicationDeadline *time.Time              `json:"applicationDeadline"`
}

type ApplyInput struct {
	CoverLetter string `json:"coverLetter" validate:"max=5000"`
}

type UpdateApplicationStatusInput struct {
	Status string `json:"status" validate:"required,oneof=pending reviewed shortlisted rejected accepted"`
}

func (s *JobService) List(ctx context.Context, f repository.JobFilter) (*models.Page[models.Job], error) {
	return s.jobs.List(ctx, f)
}

// Get returns the job detail and counts the view.
func (s *JobService) Get(ctx context.Context, id uint) (*models.Job, error) {
	job, err := s.jobs.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.jobs.IncrementViews(ctx, id)
	if err != nil {
		return nil, err
	}
	job.Views = views
	observability.JobViews.Inc()
	return job, nil
}

// Create posts a job under the actor's company, creating one first if the actor has none.
func (s *JobService) Create(ctx context.Context, actor Actor, in CreateJobInput) (*models.Job, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	poster, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	job := &models.Job{
		Title:               in.Title,
		Description:         in.Description,
		Requirements:        cleanList(in.Requirements),
		Benefits:            cleanList(in.Benefits),
		Location:            in.Location,
		JobType:             in.JobType,
		ExperienceLevel:     in.ExperienceLevel,
		Salary:              in.Salary.toModel(),
		Category:            in.Category,
		Skills:              cleanList(in.Skills),
		IsActive:            in.IsActive == nil || *in.IsActive,
		ApplicationDeadline: in.ApplicationDeadline,
		PostedByID:          actor.ID,
	}

	company, err := s.posterCompany(ctx, poster)
	if err != nil {
		return nil, err
	}
	var newCompany *models.Company
	if company != nil {
		job.CompanyID = company.ID
	} else {
		newCompany, err = s.implicitCompany(ctx, poster, in)
		if err != nil {
			return nil, err
		}
	}

	if err := s.jobs.Create(ctx, job, newCompany); err != nil {
		return nil, err
	}
	if newCompany != nil {
		middleware.Logger.InfoContext(ctx, "company created for first job",
			slog.Uint64("company_id", uint64(newCompany.ID)), slog.Uint64("owner_id", uint64(actor.ID)))
	}
	return s.jobs.GetDetail(ctx, job.ID)
}

func (s *JobService) posterCompany(ctx context.Context, poster *models.User) (*models.Company, error) {
	if poster.Profile.CompanyID != nil {
		company, err := s.companies.GetByID(ctx, *poster.Profile.CompanyID)
		if err == nil {
			return company, nil
		}
		if models.StatusCode(err) != 404 {
			return nil, err
		}
	}
	return s.companies.GetByOwner(ctx, poster.ID)
}

func (s *JobService) implicitCompany(ctx context.Context, poster *models.User, in CreateJobInput) (*models.Company, error) {
	name := strings.TrimSpace(in.CompanyName)
	if name != "" {
		existing, err := s.companies.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, models.NewConflictError(models.CodeDuplicateName, "Company with this name already exists")
		}
	} else {
		name = poster.Profile.FirstName + "'s Company"
		existing, err := s.companies.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			name = fmt.Sprintf("%s #%d", name, poster.ID)
		}
	}

	location := models.Location{City: in.Location.City, Country: in.Location.Country}
	if location.City == "" && location.Country == "" {
		location = models.Location{City: defaultCompanyCity, Country: defaultCompanyCountry}
	}
	size := in.CompanySize
	if size == "" {
		size = models.CompanySize1To10
	}
	return &models.Company{
		Name:        name,
		Industry:    firstNonEmpty(in.Industry, defaultIndustry),
		Description: firstNonEmpty(in.CompanyDescription, defaultCompanyDescription),
		Location:    location,
		Size:        size,
		CreatedByID: poster.ID,
	}, nil
}

func firstNonEmpty(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}

func (s *JobService) postedJob(ctx context.Context, actor Actor, id uint, verb string) (*models.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !job.PostedByUser(actor.ID) && !actor.IsAdmin() {
		return nil, models.NewForbiddenError("Not authorized to " + verb + " this job")
	}
	return job, nil
}

func (s *JobService) Update(ctx context.Context, actor Actor, id uint, in UpdateJobInput) (*models.Job, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	job, err := s.postedJob(ctx, actor, id, "update")
	if err != nil {
		return nil, err
	}

	setString(&job.Title, in.Title)
	setString(&job.Description, in.Description)
	setString(&job.Category, in.Category)
	if job.Title == "" || job.Description == "" || job.Category == "" {
		return nil, models.NewValidationError("title, description and category cannot be empty")
	}
	if in.Requirements != nil {
		job.Requirements = cleanList(*in.Requirements)
	}
	if in.Benefits != nil {
		job.Benefits = cleanList(*in.Benefits)
	}
	if in.Skills != nil {
		job.Skills = cleanList(*in.Skills)
	}
	if in.Location != nil {
		job.Location = *in.Location
	}
	if in.JobType != nil {
		job.JobType = *in.JobType
	}
	if in.ExperienceLevel != nil {
		job.ExperienceLevel = *in.ExperienceLevel
	}
	if in.Salary != nil {
		job.Salary = in.Salary.toModel()
	}
	if in.IsActive != nil {
		job.IsActive = *in.IsActive
	}
	if in.ApplicationDeadline != nil {
		job.ApplicationDeadline = in.ApplicationDeadline
	}

	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, err
	}
	return s.jobs.GetDetail(ctx, job.ID)
}

func (s *JobService) Delete(ctx context.Context, actor Actor, id uint) error {
	if _, err := s.postedJob(ctx, actor, id, "delete"); err != nil {
		return err
	}
	return s.jobs.Delete(ctx, id)
}

// Apply records one application by the actor. Closed jobs and jobs past their
// deadline reject new applications.
func (s *JobService) Apply(ctx context.Context, actor Actor, jobID uint, in ApplyInput) (result *models.Application, err error) {
	ctx, end := observability.StartSpan(ctx, "jobs", "apply",
		attribute.Int64("job.id", int64(jobID)),
		attribute.Int64("applicant.id", int64(actor.ID)),
	)
	defer func() { end(err) }()

	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !job.IsActive {
		return nil, models.NewValidationError("This job is no longer accepting applications")
	}
	if job.ApplicationDeadline != nil && s.now().After(*job.ApplicationDeadline) {
		return nil, models.NewValidationError("The application deadline for this job has passed")
	}

	applied, err := s.apps.Exists(ctx, jobID, actor.ID)
	if err != nil {
		return nil, err
	}
	if applied {
		return nil, models.NewConflictError(models.CodeAlreadyApplied, "You have already applied to this job")
	}

	app := &models.Application{
		JobID:       jobID,
		ApplicantID: actor.ID,
		CoverLetter: strings.TrimSpace(in.CoverLetter),
		Status:      models.ApplicationPending,
		AppliedAt:   s.now().UTC(),
	}
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, err
	}
	observability.ApplicationsSubmitted.Inc()
	return app, nil
}

// ToggleSave flips the saved state of a job for the actor and returns the new state.
func (s *JobService) ToggleSave(ctx context.Context, actor Actor, jobID uint) (bool, error) {
	if _, err := s.jobs.GetByID(ctx, jobID); err != nil {
		return false, err
	}
	return s.saved.Toggle(ctx, actor.ID, jobID)
}

func (s *JobService) ListSaved(ctx context.Context, actor Actor) ([]models.Job, error) {
	return s.saved.ListJobs(ctx, actor.ID)
}

func (s *JobService) ListMyApplications(ctx context.Context, actor Actor) ([]models.Application, error) {
	return s.apps.ListByApplicant(ctx, actor.ID)
}

// ListApplications returns a job's applications to its poster or an admin.
func (s *JobService) ListApplications(ctx context.Context, actor Actor, jobID uint) ([]models.Application, error) {
	if _, err := s.postedJob(ctx, actor, jobID, "view applications for"); err != nil {
		return nil, err
	}
	return s.apps.ListByJob(ctx, jobID)
}

// UpdateApplicationStatus moves an application along its review workflow.
func (s *JobService) UpdateApplicationStatus(ctx context.Context, actor Actor, jobID, applicationID uint, in UpdateApplicationStatusInput) (*models.Application, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	next, err := models.ParseApplicationStatus(in.Status)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if _, err := s.postedJob(ctx, actor, jobID, "review applications for"); err != nil {
		return nil, err
	}

	app, err := s.apps.GetForJob(ctx, jobID, applicationID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(app.Status, next) {
		return nil, models.NewError(models.CodeInvalidTransition,
			fmt.Sprintf("Cannot move application from %s to %s", app.Status, next))
	}
	if err := s.apps.UpdateStatus(ctx, app.ID, next); err != nil {
		return nil, err
	}
	app.Status = next
	return app, nil
}
