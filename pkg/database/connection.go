package database

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AkarshanGhosh/Rail-Web-Server/internal/models"

	"golang.org/x/crypto/bcrypt"
)

var DB *gorm.DB

// InitDB opens the SQLite database and prepares the schema.
func InitDB(dbPath string) {
	var err error

	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	DB, err = gorm.Open(sqlite.Open(dbPath), config)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	migrateDB()

	createDefaultAdmin()
}

func migrateDB() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Division{},
		&models.Coach{},
		&models.Telemetry{},
		&models.ActivityLog{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
}

// createDefaultAdmin seeds an admin account on first boot.
func createDefaultAdmin() {
	var count int64
	DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)

	if count == 0 {
		passwordHash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}

		admin := models.User{
			Username:    "admin",
			Email:       "admin@example.com",
			PhoneNumber: "0000000000",
			Password:    string(passwordHash),
			Role:        models.RoleAdmin,
			IsVerified:  true,
		}

		result := DB.Create(&admin)
		if result.Error != nil {
			log.Fatalf("Failed to create default admin: %v", result.Error)
		} else {
			log.Println("Created default admin account (username: admin, password: admin123)")
		}
	}
}

// GetDB returns the shared database handle.
func GetDB() *gorm.DB {
	return DB
}
