package seed

import (
	"fmt"
	"log"

	"jobboard/internal/models"

	"gorm.io/gorm"
)

// Options configures a seeding run.
type Options struct {
	Employers      int
	JobSeekers     int
	JobsPerCompany int
	// ApplicationsPerSeeker caps how many jobs each seeker applies to.
	ApplicationsPerSeeker int
	ShouldClean           bool
	DryRun                bool
	MaxDays               int
}

// DefaultOptions is a small but realistic board.
func DefaultOptions() Options {
	return Options{
		Employers:             8,
		JobSeekers:            40,
		JobsPerCompany:        5,
		ApplicationsPerSeeker: 4,
		ShouldClean:           true,
		MaxDays:               60,
	}
}

// Summary counts what a seeding run created.
type Summary struct {
	Users        int
	Companies    int
	Jobs         int
	Applications int
	SavedJobs    int
}

// Seeder populates the database through a Factory.
type Seeder struct {
	db      *gorm.DB
	opts    Options
	factory *Factory
}

// NewSeeder creates a Seeder bound to db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, opts: opts, factory: NewFactory(db, opts)}
}

// ClearAll deletes every board record, children first.
func (s *Seeder) ClearAll() error {
	if s.opts.DryRun {
		return nil
	}
	log.Println("🗑️  Clearing existing data...")
	all := s.db.Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []any{&models.SavedJob{}, &models.Application{}, &models.Job{}} {
		if err := all.Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	if err := all.Model(&models.User{}).Update("profile_company_id", nil).Error; err != nil {
		return fmt.Errorf("unlink companies: %w", err)
	}
	for _, model := range []any{&models.Company{}, &models.User{}} {
		if err := all.Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

// Run seeds employers with companies and jobs, then job seekers who apply
// to and bookmark a few active jobs each.
func (s *Seeder) Run() (*Summary, error) {
	var sum Summary
	if s.opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return nil, err
		}
	}

	var active []*models.Job
	for i := 0; i < s.opts.Employers; i++ {
		employer, err := s.factory.CreateUser(models.RoleEmployer)
		if err != nil {
			return nil, err
		}
		sum.Users++

		company, err := s.factory.CreateCompany(employer)
		if err != nil {
			return nil, err
		}
		sum.Companies++

		for j := 0; j < s.opts.JobsPerCompany; j++ {
			job, err := s.factory.CreateJob(company, employer)
			if err != nil {
				return nil, err
			}
			sum.Jobs++
			if job.IsActive {
				active = append(active, job)
			}
		}
	}
	log.Printf("✓ %d employers, %d companies, %d jobs created", sum.Users, sum.Companies, sum.Jobs)

	for i := 0; i < s.opts.JobSeekers; i++ {
		seeker, err := s.factory.CreateUser(models.RoleJobSeeker)
		if err != nil {
			return nil, err
		}
		sum.Users++
		if len(active) == 0 {
			continue
		}

		perm := s.factory.rnd.Perm(len(active))
		for _, idx := range perm[:min(s.opts.ApplicationsPerSeeker, len(perm))] {
			if _, err := s.factory.CreateApplication(active[idx], seeker); err != nil {
				return nil, err
			}
			sum.Applications++
		}
		// Bookmark the next job in the permutation, which the seeker has not applied to.
		if next := s.opts.ApplicationsPerSeeker; next < len(perm) {
			if err := s.factory.SaveJob(active[perm[next]], seeker); err != nil {
				return nil, fmt.Errorf("save job: %w", err)
			}
			sum.SavedJobs++
		}
	}
	log.Printf("✓ %d applications and %d saved jobs created", sum.Applications, sum.SavedJobs)

	log.Println("🎉 Database seeding completed successfully!")
	return &sum, nil
}
