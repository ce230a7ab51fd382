package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"
	"github.com/lockedin-labs/lockin_api/seed/seeders"
	"github.com/lockedin-labs/lockin_api/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var (
		seedType = flag.String("type", "all", "Type of seeding: all, users, challenges, sessions")
		dbPath   = flag.String("db", "", "Database path (overrides DB_DATABASE env var)")
		help     = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	sqlSvc := &services.SqliteService{}
	if *dbPath != "" {
		sqlSvc.SetDatabase(*dbPath)
	}
	if err := sqlSvc.Start(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer sqlSvc.Shutdown()

	log.Println("Connected to database")

	mainSeeder := seeders.NewMainSeeder(sqlSvc.Db())

	switch *seedType {
	case "all":
		log.Println("Running complete database seeding...")
		if err := mainSeeder.SeedAll(); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	case "users":
		log.Println("Seeding users only...")
		if err := mainSeeder.SeedUsersOnly(); err != nil {
			log.Fatalf("Failed to seed users: %v", err)
		}
	case "challenges":
		log.Println("Seeding challenges only...")
		if err := mainSeeder.SeedChallengesOnly(); err != nil {
			log.Fatalf("Failed to seed challenges: %v", err)
		}
	case "sessions":
		log.Println("Seeding focus sessions only...")
		if err := mainSeeder.SeedSessionsOnly(); err != nil {
			log.Fatalf("Failed to seed sessions: %v", err)
		}
	default:
		log.Fatalf("Unknown seed type: %s. Use 'all', 'users', 'challenges', or 'sessions'", *seedType)
	}

	log.Println("Seeding operation completed successfully!")
}

func showHelp() {
	log.Println(`
Database Seeding Tool for the LockIn focus challenge backend

Usage: go run seed/main.go [flags]

Flags:
  -type string
        Type of seeding to perform (default "all")
        Options: all, users, challenges, sessions
  -db string
        Database path (overrides DB_DATABASE environment variable)
  -help
        Show this help message

Examples:
  # Seed everything
  go run seed/main.go

  # Seed only demo users
  go run seed/main.go -type=users

  # Seed with custom database path
  go run seed/main.go -db=./custom.db

Environment Variables:
  DB_DATABASE - Default database path (default: lockin.db)
`)
}
