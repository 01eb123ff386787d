// Package seed provides helpers to create demo data for the job board
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"jobboard/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "Passw0rd1234!"

var (
	categories = []string{"Engineering", "Design", "Marketing", "Sales", "Finance", "Operations", "Support", "Data"}
	industries = []string{"Technology", "Finance", "Healthcare", "Education", "Retail", "Media", "Manufacturing"}
	jobTypes   = []models.JobType{models.JobTypeFullTime, models.JobTypePartTime, models.JobTypeContract, models.JobTypeInternship}
	levels     = []models.ExperienceLevel{
		models.ExperienceEntry, models.ExperienceMid, models.ExperienceSenior,
		models.ExperienceManager, models.ExperienceDirector,
	}
	sizes = []models.CompanySize{
		models.CompanySize1To10, models.CompanySize11To50, models.CompanySize51To200,
		models.CompanySize201To500, models.CompanySize501To1000, models.CompanySize1000Plus,
	}
	skills = []string{"go", "sql", "react", "typescript", "python", "kubernetes", "figma", "excel", "aws", "docker"}
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rnd  *rand.Rand
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := time.Now().UnixNano()
	gofakeit.Seed(seed)
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{db: db, opts: opts, rnd: rand.New(rand.NewSource(seed)), nextID: 1000}
}

func pick[T any](r *rand.Rand, items []T) T {
	return items[r.Intn(len(items))]
}

func (f *Factory) sample(items []string, n int) []string {
	out := make([]string, 0, n)
	for _, i := range f.rnd.Perm(len(items))[:min(n, len(items))] {
		out = append(out, items[i])
	}
	return out
}

// backdate returns a creation time spread over the last MaxDays days.
func (f *Factory) backdate() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 60
	}
	return time.Now().Add(-time.Duration(f.rnd.Intn(maxDays*24)) * time.Hour)
}

func (f *Factory) persist(v any, id *uint) error {
	if f.opts.DryRun {
		f.nextID++
		*id = f.nextID
		return nil
	}
	return f.db.Create(v).Error
}

// BuildUser constructs a user with the given role without persisting it.
func (f *Factory) BuildUser(role models.Role, overrides ...func(*models.User)) *models.User {
	first, last := gofakeit.FirstName(), gofakeit.LastName()
	user := &models.User{
		Email:    fmt.Sprintf("%s.%s%d@example.com", first, last, gofakeit.Number(100, 9999)),
		Password: DefaultPassword,
		Role:     role,
		IsActive: true,
		Profile: models.Profile{
			FirstName:  first,
			LastName:   last,
			Phone:      gofakeit.Phone(),
			Location:   gofakeit.City(),
			Skills:     f.sample(skills, 3),
			Experience: gofakeit.Sentence(12),
		},
	}
	user.CreatedAt = f.backdate()
	for _, override := range overrides {
		override(user)
	}
	return user
}

// CreateUser builds and persists a user.
func (f *Factory) CreateUser(role models.Role, overrides ...func(*models.User)) (*models.User, error) {
	user := f.BuildUser(role, overrides...)
	if err := f.persist(user, &user.ID); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// BuildCompany constructs a company owned by owner.
func (f *Factory) BuildCompany(owner *models.User, overrides ...func(*models.Company)) *models.Company {
	company := &models.Company{
		Name:        fmt.Sprintf("%s %d", gofakeit.Company(), gofakeit.Number(10, 999)),
		Description: gofakeit.Paragraph(1, 3, 12, " "),
		Industry:    pick(f.rnd, industries),
		Location:    models.Location{City: gofakeit.City(), Country: gofakeit.Country()},
		Size:        pick(f.rnd, sizes),
		Website:     gofakeit.URL(),
		CreatedByID: owner.ID,
	}
	company.CreatedAt = f.backdate()
	for _, override := range overrides {
		override(company)
	}
	return company
}

// CreateCompany persists a company and links it to the owner's profile.
func (f *Factory) CreateCompany(owner *models.User, overrides ...func(*models.Company)) (*models.Company, error) {
	company := f.BuildCompany(owner, overrides...)
	if err := f.persist(company, &company.ID); err != nil {
		return nil, fmt.Errorf("create company: %w", err)
	}
	owner.Profile.CompanyID = &company.ID
	if !f.opts.DryRun {
		if err := f.db.Model(&models.User{}).Where("id = ?", owner.ID).
			Update("profile_company_id", company.ID).Error; err != nil {
			return nil, fmt.Errorf("link company owner: %w", err)
		}
	}
	return company, nil
}

// BuildJob constructs a job for company posted by poster.
func (f *Factory) BuildJob(company *models.Company, poster *models.User, overrides ...func(*models.Job)) *models.Job {
	minSalary := int64(gofakeit.Number(8, 30)) * 1000
	disclosed := f.rnd.Intn(5) > 0
	job := &models.Job{
		Title:        gofakeit.JobTitle(),
		CompanyID:    company.ID,
		Description:  gofakeit.Paragraph(2, 4, 14, "\n"),
		Requirements: []string{gofakeit.Sentence(6), gofakeit.Sentence(6)},
		Benefits:     []string{gofakeit.Sentence(4)},
		Location: models.JobLocation{
			City:     company.Location.City,
			Country:  company.Location.Country,
			IsRemote: f.rnd.Intn(4) == 0,
		},
		JobType:         pick(f.rnd, jobTypes),
		ExperienceLevel: pick(f.rnd, levels),
		Salary: models.Salary{
			Min:         minSalary,
			Max:         minSalary + int64(gofakeit.Number(1, 15))*1000,
			Currency:    models.DefaultCurrency,
			IsDisclosed: &disclosed,
		},
		Category:   pick(f.rnd, categories),
		Skills:     f.sample(skills, 4),
		IsActive:   f.rnd.Intn(10) > 0,
		PostedByID: poster.ID,
		Views:      int64(f.rnd.Intn(500)),
	}
	if f.rnd.Intn(2) == 0 {
		deadline := time.Now().AddDate(0, 0, 7+f.rnd.Intn(60))
		job.ApplicationDeadline = &deadline
	}
	job.CreatedAt = f.backdate()
	for _, override := range overrides {
		override(job)
	}
	return job
}

// CreateJob builds and persists a job.
func (f *Factory) CreateJob(company *models.Company, poster *models.User, overrides ...func(*models.Job)) (*models.Job, error) {
	job := f.BuildJob(company, poster, overrides...)
	if err := f.persist(job, &job.ID); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return job, nil
}

// CreateApplication persists an application from applicant to job with a random status.
func (f *Factory) CreateApplication(job *models.Job, applicant *models.User) (*models.Application, error) {
	statuses := []models.ApplicationStatus{
		models.ApplicationPending, models.ApplicationPending, models.ApplicationReviewed,
		models.ApplicationShortlisted, models.ApplicationRejected, models.ApplicationAccepted,
	}
	app := &models.Application{
		JobID:       job.ID,
		ApplicantID: applicant.ID,
		CoverLetter: gofakeit.Paragraph(1, 2, 10, " "),
		Status:      pick(f.rnd, statuses),
		AppliedAt:   f.backdate(),
	}
	if err := f.persist(app, &app.ID); err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}
	if f.opts.DryRun {
		log.Printf("[dry-run] CreateApplication: job=%d applicant=%d", job.ID, applicant.ID)
	}
	return app, nil
}

// SaveJob bookmarks job for user.
func (f *Factory) SaveJob(job *models.Job, user *models.User) error {
	if f.opts.DryRun {
		return nil
	}
	return f.db.Create(&models.SavedJob{UserID: user.ID, JobID: job.ID}).Error
}
