package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"pollpay/internal/config"
	"pollpay/pkg/database"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

const usage = `
PollPay - Database CLI Tool

Usage:
  migrate [command] [flags]

Commands:
  up          Run all GORM migrations
  status      Show database connection and table status
  seed        Seed the database with the admin user
  seed-dev    Seed with development/test data
  reset       Drop all tables and re-run migrations (DANGEROUS)
  truncate    Truncate all tables (DANGEROUS)

Flags:
  -admin-email string  Admin email for seeding (default "admin@pollpay.app")
  -admin-pass string   Admin password for seeding (default "Admin@123!")

Examples:
  go run cmd/migrate/main.go up
  go run cmd/migrate/main.go seed
  go run cmd/migrate/main.go seed-dev
  go run cmd/migrate/main.go reset
`

func main() {
	adminEmail := flag.String("admin-email", "admin@pollpay.app", "Admin email for seeding")
	adminPass := flag.String("admin-pass", "Admin@123!", "Admin password for seeding")

	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)

	_ = godotenv.Load()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}

	switch command {
	case "up":
		runMigrationsUp(db)
	case "status":
		showStatus(db)
	case "seed":
		runSeedProduction(db, *adminEmail, *adminPass)
	case "seed-dev":
		runSeedDevelopment(db)
	case "reset":
		runReset(db)
	case "truncate":
		runTruncate(db)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func runMigrationsUp(db *gorm.DB) {
	log.Println("🚀 Running migrations UP...")

	if err := database.Migrate(db); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	log.Println("✅ Migrations completed successfully!")
}

func showStatus(db *gorm.DB) {
	log.Println("🔍 Checking database status...")

	if err := database.Ping(db); err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}
	log.Println("✅ Database connection: OK")

	tables := []string{"users", "polls", "votes", "wallet_transactions"}
	for _, table := range tables {
		if !database.TableExists(db, table) {
			log.Printf("❌ Table %-20s does not exist", table)
			continue
		}
		count, _ := database.TableCount(db, table)
		log.Printf("✅ Table %-20s exists (%d rows)", table, count)
	}
}

func runSeedProduction(db *gorm.DB, adminEmail, adminPass string) {
	log.Println("🌱 Seeding database (production mode)...")

	admin, err := database.SeedProduction(db, adminEmail, adminPass)
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("✅ Admin user created/verified: %s (ID: %s)", adminEmail, admin.ID)
	log.Println("✅ Production seeding completed!")
}

func runSeedDevelopment(db *gorm.DB) {
	log.Println("🌱 Seeding database (development mode)...")

	result, err := database.SeedDevelopment(db)
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("📊 Seed Summary:")
	log.Printf("   - Admin user: %s", result.AdminUser.Username)
	log.Printf("   - Test users: %d", len(result.TestUsers))
	log.Printf("   - Polls:      %d", len(result.Polls))
	log.Printf("   - Votes:      %d", result.VoteCount)
	log.Println("✅ Development seeding completed!")
}

func runReset(db *gorm.DB) {
	log.Println("💥 Resetting database (drop + migrate)...")

	if err := database.Reset(db); err != nil {
		log.Fatalf("❌ Reset failed: %v", err)
	}

	log.Println("✅ Database reset completed!")
}

func runTruncate(db *gorm.DB) {
	log.Println("🧹 Truncating all tables...")

	if err := database.Truncate(db); err != nil {
		log.Fatalf("❌ Truncate failed: %v", err)
	}

	log.Println("✅ All tables truncated!")
}
