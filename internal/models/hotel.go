package models

import (
	"gorm.io/gorm"
)

type Hotel struct {
	gorm.Model
	Name        string `json:"name" gorm:"not null"`
	Address     string `json:"address" gorm:"not null"`
	Description string `json:"description"`
	ImageKey    string `json:"imageKey" gorm:"column:image_key"`
}

// HotelManager links a user to the hotel they manage. A user manages at
// most one hotel, hence the unique index on user_id.
type HotelManager struct {
	gorm.Model
	HotelID uint  `json:"hotelId" gorm:"not null;index"`
	Hotel   Hotel `json:"hotel"`
	UserID  uint  `json:"userId" gorm:"not null;uniqueIndex"`
	User    User  `json:"user"`
}
