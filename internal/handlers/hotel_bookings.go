package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/staywellhq/staywell-backend/internal/models"
	"github.com/staywellhq/staywell-backend/internal/services"
)

// hotelBookingsQuery scopes bookings to the manager's hotel, matching
// the guest-facing listing which only shows active rooms.
func hotelBookingsQuery(db *gorm.DB, hotelId uint) *gorm.DB {
	return db.Model(&models.Booking{}).
		Joins("JOIN rooms ON rooms.id = bookings.room_id").
		Where("rooms.hotel_id = ? AND rooms.is_active = ?", hotelId, true)
}

// GetHotelBookings lists bookings for the manager's hotel.
func GetHotelBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		hotelId := c.GetUint("hotelId")

		filter, ok := statusFilterFromQuery(c)
		if !ok {
			return
		}

		var bookings []models.Booking
		if err := filter.Apply(hotelBookingsQuery(db, hotelId)).
			Preload("Room").
			Order("bookings.created_at DESC").
			Find(&bookings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		c.JSON(200, gin.H{"bookings": bookings})
	}
}

// GetHotelBookingsCount returns the booking count for the manager's
// hotel.
func GetHotelBookingsCount(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		hotelId := c.GetUint("hotelId")

		statuses, ok := models.ParseStatusFilter(c.Query("status"))
		if !ok {
			c.JSON(400, gin.H{"error": "Invalid status filter"})
			return
		}

		filter := models.BookingFilter{Statuses: statuses}
		var count int64
		if err := filter.Apply(hotelBookingsQuery(db, hotelId)).Count(&count).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to count bookings"})
			return
		}

		c.JSON(200, gin.H{"count": count})
	}
}

// loadHotelBooking fetches a booking and verifies it belongs to the
// manager's hotel.
func loadHotelBooking(c *gin.Context, db *gorm.DB) (*models.Booking, bool) {
	hotelId := c.GetUint("hotelId")
	userId := c.GetUint("userId")

	var booking models.Booking
	if err := db.Preload("Room").First(&booking, c.Param("id")).Error; err != nil {
		c.JSON(404, gin.H{"error": "Booking not found"})
		return nil, false
	}

	if err := booking.AuthorizeActor(userId, hotelId); err != nil {
		c.JSON(403, gin.H{"error": "You are not allowed to modify this booking"})
		return nil, false
	}
	return &booking, true
}

// GetHotelBooking retrieves one booking of the manager's hotel.
func GetHotelBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		booking, ok := loadHotelBooking(c, db)
		if !ok {
			return
		}
		c.JSON(200, booking)
	}
}

type UpdateBookingStatusInput struct {
	Status string `json:"status" binding:"required,oneof=ACCEPTED REJECTED"`
}

// UpdateBookingStatus accepts or rejects a pending booking and records
// the deciding manager.
func UpdateBookingStatus(db *gorm.DB, cache *services.Cache, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input UpdateBookingStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		status, ok := models.ParseBookingStatus(input.Status)
		if !ok {
			c.JSON(400, gin.H{"error": "Invalid status"})
			return
		}

		booking, ok := loadHotelBooking(c, db)
		if !ok {
			return
		}

		if err := booking.CanClose(); err != nil {
			c.JSON(400, gin.H{"error": "Can only update pending bookings"})
			return
		}

		updated, err := applyTransition(db, booking, map[string]interface{}{
			"status":       status,
			"closed_by_id": userId,
		})
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to update booking status"})
			return
		}
		if !updated {
			c.JSON(400, gin.H{"error": models.ErrInvalidTransition.Error()})
			return
		}

		if err := cache.InvalidateRoom(c.Request.Context(), booking.RoomID); err != nil {
			logrus.WithError(err).Warn("failed to invalidate availability cache")
		}
		hub.SendToUsers([]uint{booking.CreatedByID}, services.BookingEvent{
			Type:      "booking_status_changed",
			BookingID: booking.ID,
			RoomID:    booking.RoomID,
			Status:    string(status),
		})

		booking.Status = status
		booking.ClosedByID = &userId
		c.JSON(200, booking)
	}
}

// CancelHotelBooking cancels a booking on behalf of the hotel, recording
// the manager and the reason.
func CancelHotelBooking(db *gorm.DB, cache *services.Cache, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input CancelBookingInput
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&input); err != nil {
				c.JSON(400, gin.H{"error": err.Error()})
				return
			}
		}

		booking, ok := loadHotelBooking(c, db)
		if !ok {
			return
		}

		if err := booking.CanCancel(time.Now()); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		updated, err := applyTransition(db, booking, map[string]interface{}{
			"status":        models.BookingStatusCanceled,
			"closed_by_id":  userId,
			"cancel_reason": input.CancelReason,
		})
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to cancel booking"})
			return
		}
		if !updated {
			c.JSON(400, gin.H{"error": models.ErrInvalidTransition.Error()})
			return
		}

		if err := cache.InvalidateRoom(c.Request.Context(), booking.RoomID); err != nil {
			logrus.WithError(err).Warn("failed to invalidate availability cache")
		}
		hub.SendToUsers([]uint{booking.CreatedByID}, services.BookingEvent{
			Type:      "booking_status_changed",
			BookingID: booking.ID,
			RoomID:    booking.RoomID,
			Status:    string(models.BookingStatusCanceled),
		})

		booking.Status = models.BookingStatusCanceled
		booking.ClosedByID = &userId
		booking.CancelReason = input.CancelReason
		c.JSON(200, booking)
	}
}
