package repository

import "gorm.io/gorm"

// Migrate creates or updates the hotels, rooms and reservations tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&hotelModel{}, &roomModel{}, &reservationModel{})
}
