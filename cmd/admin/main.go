// Package main provides admin management utilities for the job board.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"jobboard/internal/config"
	"jobboard/internal/database"
	"jobboard/internal/featureflags"
	"jobboard/internal/models"
	"jobboard/internal/repository"
	"jobboard/internal/service"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/admin create-admin <email> <password> [first] [last]  - Create an admin (or promote an existing account)")
	fmt.Println("  go run ./cmd/admin promote <email>                                  - Promote user to admin")
	fmt.Println("  go run ./cmd/admin demote <email>                                   - Demote admin to job seeker")
	fmt.Println("  go run ./cmd/admin list-admins                                      - List all admins")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	admin := service.NewAdminService(
		repository.NewUserRepository(db),
		repository.NewCompanyRepository(db),
		repository.NewJobRepository(db),
		repository.NewApplicationRepository(db),
		featureflags.NewManager(cfg.FeatureFlags, featureflags.Defaults(cfg.IsProduction())),
	)
	ctx := context.Background()

	switch command := os.Args[1]; command {
	case "create-admin":
		if len(os.Args) < 4 {
			fmt.Println("Usage: go run ./cmd/admin create-admin <email> <password> [first] [last]")
			os.Exit(1)
		}
		first, last := "Admin", "User"
		if len(os.Args) > 4 {
			first = os.Args[4]
		}
		if len(os.Args) > 5 {
			last = os.Args[5]
		}
		createAdmin(ctx, admin, os.Args[2], os.Args[3], first, last)

	case "promote":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin promote <email>")
			os.Exit(1)
		}
		setRole(ctx, admin, os.Args[2], models.RoleAdmin)

	case "demote":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin demote <email>")
			os.Exit(1)
		}
		setRole(ctx, admin, os.Args[2], models.RoleJobSeeker)

	case "list-admins":
		listAdmins(ctx, admin)

	default:
		fmt.Printf("Unknown command: %s\n", command)
		usage()
		os.Exit(1)
	}
}

func createAdmin(ctx context.Context, admin *service.AdminService, email, password, first, last string) {
	user, created, err := admin.CreateAdmin(ctx, email, password, first, last)
	if err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}
	if created {
		fmt.Printf("✅ Created admin %s (ID: %d)\n", user.Email, user.ID)
		return
	}
	fmt.Printf("✅ %s (ID: %d) already existed and is now an admin\n", user.Email, user.ID)
}

func setRole(ctx context.Context, admin *service.AdminService, email string, role models.Role) {
	user, err := admin.SetRoleByEmail(ctx, email, role)
	if err != nil {
		if models.StatusCode(err) == 404 {
			fmt.Printf("User with email %s not found\n", email)
			os.Exit(1)
		}
		log.Fatalf("Failed to update role: %v", err)
	}
	fmt.Printf("✅ %s (ID: %d) is now %s\n", user.Email, user.ID, user.Role)
}

func listAdmins(ctx context.Context, admin *service.AdminService) {
	admins, err := admin.ListAdmins(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch admins: %v", err)
	}

	if len(admins) == 0 {
		fmt.Println("No admins found in the system")
		return
	}

	fmt.Println("\n📋 Current Admins:")
	fmt.Println("─────────────────────────────────────")
	for _, a := range admins {
		fmt.Printf("ID: %d | Name: %s %s | Email: %s\n", a.ID, a.Profile.FirstName, a.Profile.LastName, a.Email)
	}
	fmt.Println("─────────────────────────────────────")
}
