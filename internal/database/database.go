package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/staywellhq/staywell-backend/internal/config"
	"github.com/staywellhq/staywell-backend/internal/models"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto migrate the schema
	err = db.AutoMigrate(
		&models.User{},
		&models.Hotel{},
		&models.HotelManager{},
		&models.Room{},
		&models.Booking{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}
