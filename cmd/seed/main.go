// Command main runs the database seeder for the job board.
package main

import (
	"flag"
	"log"

	"jobboard/internal/config"
	"jobboard/internal/database"
	"jobboard/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	employers := flag.Int("employers", defaults.Employers, "Number of employers (one company each)")
	seekers := flag.Int("seekers", defaults.JobSeekers, "Number of job seekers")
	jobsPerCompany := flag.Int("jobs", defaults.JobsPerCompany, "Jobs per company")
	applications := flag.Int("applications", defaults.ApplicationsPerSeeker, "Applications per job seeker")
	shouldClean := flag.Bool("clean", defaults.ShouldClean, "Clean database before seeding")
	dryRun := flag.Bool("dry-run", false, "Build records without writing them")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d employers, %d seekers, %d jobs per company, clean=%v\n",
		*employers, *seekers, *jobsPerCompany, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	opts := defaults
	opts.Employers = *employers
	opts.JobSeekers = *seekers
	opts.JobsPerCompany = *jobsPerCompany
	opts.ApplicationsPerSeeker = *applications
	opts.ShouldClean = *shouldClean
	opts.DryRun = *dryRun

	sum, err := seed.NewSeeder(db, opts).Run()
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("✨ All done! %d users, %d companies, %d jobs, %d applications.",
		sum.Users, sum.Companies, sum.Jobs, sum.Applications)
	log.Printf("📧 All seeded users have the password: %s", seed.DefaultPassword)
}
