package storage

import (
	"log"
	"os"

	"parkpal-server/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func connectToDB() *gorm.DB {
	// Only load .env in development (when RENDER env var is not set)
	if os.Getenv("RENDER") == "" {
		err := godotenv.Load()
		if err != nil {
			log.Println("Warning: Could not load .env file (this is normal in production)")
		}
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Panic("DB_CONNECTION_STRING environment variable is required")
	}

	db, dbError := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if dbError != nil {
		log.Panic("error connection to db: " + dbError.Error())
	}

	DB = db
	return db
}

// Migrate runs schema migrations for every entity. Order matters for the
// association tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.ParkingSpace{},
		&models.Booking{},
		&models.Review{},
		&models.Conversation{},
		&models.ConversationTurn{},
		&models.Feedback{},
		&models.AuditLog{},
	)
}

func InitializeDB() *gorm.DB {
	db := connectToDB()
	if err := Migrate(db); err != nil {
		log.Panic("error running migrations: " + err.Error())
	}
	return db
}

// UseDB installs an externally constructed handle. Tests use it to point the
// handlers at an in-memory database.
func UseDB(db *gorm.DB) {
	DB = db
}
