package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dev-quest/quest_api/model"
	"github.com/dev-quest/quest_api/seed/seeders"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var (
		seedType = flag.String("type", "all", "Type of seeding: all, achievements, challenges, users")
		dbPath   = flag.String("db", "", "Database path (overrides DB_DATABASE env var)")
	)
	flag.Parse()

	databasePath := *dbPath
	if databasePath == "" {
		databasePath = os.Getenv("DB_DATABASE")
		if databasePath == "" {
			databasePath = "quest.db"
		}
	}

	db, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.UserStats{},
		&model.Task{},
		&model.Achievement{},
		&model.UserAchievement{},
		&model.Challenge{},
		&model.UserChallenge{},
		&model.PasswordResetCode{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Printf("Connected to database: %s", databasePath)

	mainSeeder := seeders.NewMainSeeder(db)

	switch *seedType {
	case "all":
		err = mainSeeder.SeedAll()
	case "achievements":
		err = mainSeeder.SeedAchievementsOnly()
	case "challenges":
		err = mainSeeder.SeedChallengesOnly()
	case "users":
		err = mainSeeder.SeedUsersOnly()
	default:
		log.Fatalf("Unknown seed type: %s. Use 'all', 'achievements', 'challenges' or 'users'", *seedType)
	}

	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding operation completed successfully!")
}
