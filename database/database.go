package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/steve-ongera/Muranga-University-ERP-System/config"
	"github.com/steve-ongera/Muranga-University-ERP-System/models"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	DB = db

	if err := Migrate(DB); err != nil {
		log.Fatalf("auto migrate failed: %v", err)
	}
}

// Migrate keeps the schema in step with the models. Unique indexes on
// username, reg_number, programme code, unit code and (student, unit)
// are the write-time guard against concurrent duplicate creates.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Programme{},
		&models.Student{},
		&models.Unit{},
		&models.Mark{},
		&models.RevokedToken{},
	)
}
