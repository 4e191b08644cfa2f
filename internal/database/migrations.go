package database

import (
	"github.com/staywellhq/staywell-backend/internal/models"
	"gorm.io/gorm"
)

// RunMigrations applies the schema constraints AutoMigrate does not
// cover: enum checks and the composite index availability queries use.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Hotel{},
		&models.HotelManager{},
		&models.Room{},
		&models.Booking{},
	); err != nil {
		return err
	}

	if db.Migrator().HasTable(&models.User{}) {
		db.Exec(`ALTER TABLE users DROP CONSTRAINT IF EXISTS users_role_check`)
		if err := db.Exec(`ALTER TABLE users ADD CONSTRAINT users_role_check CHECK (role IN ('guest', 'hotel_manager'))`).Error; err != nil {
			return err
		}
	}

	if db.Migrator().HasTable(&models.Booking{}) {
		db.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_status_check`)
		if err := db.Exec(`ALTER TABLE bookings ADD CONSTRAINT bookings_status_check CHECK (status IN ('PENDING_RESPONSE', 'ACCEPTED', 'REJECTED', 'CANCELED'))`).Error; err != nil {
			return err
		}
		db.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_date_order_check`)
		if err := db.Exec(`ALTER TABLE bookings ADD CONSTRAINT bookings_date_order_check CHECK (start_date <= end_date)`).Error; err != nil {
			return err
		}

		// Availability checks scan the blocking bookings of one room.
		if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_bookings_room_status_dates ON bookings (room_id, status, start_date, end_date)`).Error; err != nil {
			return err
		}
	}

	return nil
}
