package handlers

import (
	"database/sql"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/staywellhq/staywell-backend/internal/models"
	"github.com/staywellhq/staywell-backend/internal/services"
	"github.com/staywellhq/staywell-backend/pkg/utils"
)

// Booking request rejections. All map to 400 except availability races,
// which also return 400 so the client re-picks dates.
var (
	ErrIncompleteRange  = errors.New("start and end date are required")
	ErrRoomArchived     = errors.New("room is no longer available")
	ErrDatesUnavailable = errors.New("selected dates are not available")
	ErrQuoteMismatch    = errors.New("please confirm total price")
)

type CreateBookingInput struct {
	RoomID     uint      `json:"roomId" binding:"required"`
	StartDate  time.Time `json:"startDate" binding:"required"`
	EndDate    time.Time `json:"endDate" binding:"required"`
	TotalPrice int       `json:"totalPrice" binding:"required"`
	Days       int       `json:"days" binding:"required"`
}

// buildBooking validates a booking request against the room's current
// state and returns the row to insert. The server recomputes the quote
// from its own room data and rejects any mismatch with the client's
// numbers instead of correcting them.
func buildBooking(room *models.Room, blocked []utils.DateRange, input CreateBookingInput, userID uint) (*models.Booking, error) {
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, ErrIncompleteRange
	}
	if !room.IsActive {
		return nil, ErrRoomArchived
	}

	candidate := utils.DateRange{Start: input.StartDate, End: input.EndDate}
	if utils.RangesOverlap(blocked, candidate) {
		return nil, ErrDatesUnavailable
	}

	quote, err := utils.CalculateBookingQuote(room.PricePerDay, room.VatPercentage, input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}
	if quote.Days != input.Days || quote.TotalPrice != input.TotalPrice {
		return nil, ErrQuoteMismatch
	}

	return &models.Booking{
		RoomID:      room.ID,
		CreatedByID: userID,
		StartDate:   utils.NormalizeDate(input.StartDate),
		EndDate:     utils.NormalizeDate(input.EndDate),
		PricePerDay: room.PricePerDay,
		Days:        quote.Days,
		SubTotal:    quote.SubTotal,
		Vat:         quote.Vat,
		TotalPrice:  quote.TotalPrice,
		Status:      models.BookingStatusPendingResponse,
	}, nil
}

// notifyHotelManagers pushes a booking event to every manager of the
// room's hotel.
func notifyHotelManagers(db *gorm.DB, hub *services.Hub, hotelID uint, event services.BookingEvent) {
	var managers []models.HotelManager
	if err := db.Where("hotel_id = ?", hotelID).Find(&managers).Error; err != nil {
		logrus.WithError(err).Warn("failed to load hotel managers for notification")
		return
	}
	ids := make([]uint, 0, len(managers))
	for _, m := range managers {
		ids = append(ids, m.UserID)
	}
	hub.SendToUsers(ids, event)
}

// isSerializationFailure reports whether a transaction lost a
// serialization race and should be retried by the client.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "40001"
}

// CreateBooking handles the creation of a new booking. The availability
// check and the insert run in one serializable transaction so two guests
// cannot both book the same dates: under a weaker isolation level both
// could pass the availability read before either insert commits.
func CreateBooking(db *gorm.DB, cache *services.Cache, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input CreateBookingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var room models.Room
		if err := db.First(&room, input.RoomID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Room not found"})
			return
		}

		var booking *models.Booking
		err := db.Transaction(func(tx *gorm.DB) error {
			blocked, err := blockedRangesForRoom(tx, room.ID, input.StartDate)
			if err != nil {
				return err
			}
			booking, err = buildBooking(&room, blocked, input, userId)
			if err != nil {
				return err
			}
			return tx.Create(booking).Error
		}, &sql.TxOptions{Isolation: sql.LevelSerializable})
		if err != nil {
			switch {
			case isSerializationFailure(err):
				c.JSON(409, gin.H{"error": "The selected dates were just booked, please try again"})
			case errors.Is(err, ErrIncompleteRange),
				errors.Is(err, ErrRoomArchived),
				errors.Is(err, ErrDatesUnavailable),
				errors.Is(err, ErrQuoteMismatch),
				errors.Is(err, utils.ErrEndBeforeStart),
				errors.Is(err, utils.ErrInvalidPrice),
				errors.Is(err, utils.ErrInvalidVat):
				c.JSON(400, gin.H{"error": err.Error()})
			default:
				c.JSON(500, gin.H{"error": "Failed to create booking"})
			}
			return
		}

		if err := cache.InvalidateRoom(c.Request.Context(), room.ID); err != nil {
			logrus.WithError(err).Warn("failed to invalidate availability cache")
		}
		notifyHotelManagers(db, hub, room.HotelID, services.BookingEvent{
			Type:      "booking_created",
			BookingID: booking.ID,
			RoomID:    room.ID,
			Status:    string(booking.Status),
		})

		c.JSON(201, booking)
	}
}

func statusFilterFromQuery(c *gin.Context) (models.BookingFilter, bool) {
	statuses, ok := models.ParseStatusFilter(c.Query("status"))
	if !ok {
		c.JSON(400, gin.H{"error": "Invalid status filter"})
		return models.BookingFilter{}, false
	}
	skip, take := pagination(c)
	return models.BookingFilter{Statuses: statuses, Skip: skip, Take: take}, true
}

// GetGuestBookings retrieves the caller's bookings.
func GetGuestBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		filter, ok := statusFilterFromQuery(c)
		if !ok {
			return
		}

		var bookings []models.Booking
		if err := filter.Apply(db.Where("created_by_id = ?", userId)).
			Preload("Room").
			Order("created_at DESC").
			Find(&bookings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		c.JSON(200, gin.H{"bookings": bookings})
	}
}

// GetGuestBookingsCount returns the caller's booking count for the
// paginator.
func GetGuestBookingsCount(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		statuses, ok := models.ParseStatusFilter(c.Query("status"))
		if !ok {
			c.JSON(400, gin.H{"error": "Invalid status filter"})
			return
		}

		filter := models.BookingFilter{Statuses: statuses}
		var count int64
		if err := filter.Apply(db.Model(&models.Booking{}).Where("created_by_id = ?", userId)).
			Count(&count).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to count bookings"})
			return
		}

		c.JSON(200, gin.H{"count": count})
	}
}

// GetGuestBooking retrieves one of the caller's bookings.
func GetGuestBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var booking models.Booking
		if err := db.Preload("Room").First(&booking, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}
		if booking.CreatedByID != userId {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		c.JSON(200, booking)
	}
}

type CancelBookingInput struct {
	CancelReason string `json:"cancelReason"`
}

// CancelBooking cancels one of the caller's bookings before its start
// date.
func CancelBooking(db *gorm.DB, cache *services.Cache, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input CancelBookingInput
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&input); err != nil {
				c.JSON(400, gin.H{"error": err.Error()})
				return
			}
		}

		var booking models.Booking
		if err := db.Preload("Room").First(&booking, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if err := booking.AuthorizeActor(userId, 0); err != nil {
			c.JSON(403, gin.H{"error": "You are not allowed to modify this booking"})
			return
		}
		if err := booking.CanCancel(time.Now()); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		updated, err := applyTransition(db, &booking, map[string]interface{}{
			"status":        models.BookingStatusCanceled,
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
		notifyHotelManagers(db, hub, booking.Room.HotelID, services.BookingEvent{
			Type:      "booking_status_changed",
			BookingID: booking.ID,
			RoomID:    booking.RoomID,
			Status:    string(models.BookingStatusCanceled),
		})

		booking.Status = models.BookingStatusCanceled
		booking.CancelReason = input.CancelReason
		c.JSON(200, booking)
	}
}

// applyTransition performs a conditional status update: the row is only
// changed if it still has the status the guard saw. A zero rows-affected
// result means a concurrent transition won.
func applyTransition(db *gorm.DB, booking *models.Booking, updates map[string]interface{}) (bool, error) {
	result := db.Model(&models.Booking{}).
		Where("id = ? AND status = ?", booking.ID, booking.Status).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
