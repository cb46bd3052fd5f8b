package repositories

import (
	"log"

	"github.com/whosturn/server/internal/config"
	"github.com/whosturn/server/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase() {
	dsn := config.Envs.DB_URL
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := Migrate(db); err != nil {
		log.Fatal("Migration failed:", err)
	}
	DB = db
	log.Println("Successfully connected to database")
}

// Migrate creates the schema. The cascade chain
// user -> relationship -> track -> history is declared once here, via the
// foreign keys on the models, and enforced by the database everywhere.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Relationship{},
		&models.Track{},
		&models.History{},
	)
}
