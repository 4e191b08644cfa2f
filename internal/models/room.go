package models

import (
	"gorm.io/gorm"
)

type Room struct {
	gorm.Model
	HotelID     uint     `json:"hotelId" gorm:"not null;index"`
	Hotel       Hotel    `json:"hotel"`
	CreatedByID uint     `json:"createdById" gorm:"not null"`
	CreatedBy   User     `json:"-" gorm:"foreignKey:CreatedByID"`
	Name        string   `json:"name" gorm:"not null"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Floor       int      `json:"floor"`
	Space       int      `json:"space"` // square meters
	Images      []string `json:"images" gorm:"serializer:json"`
	// PricePerDay is in whole currency units. Bookings snapshot it so
	// later price edits never change historical totals.
	PricePerDay   int     `json:"pricePerDay" gorm:"not null"`
	VatPercentage float64 `json:"vatPercentage" gorm:"not null;default:0"`
	// Rooms are archived, never deleted, so past bookings keep their room.
	IsActive bool `json:"isActive" gorm:"not null;default:true"`
}
