package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/staywellhq/staywell-backend/internal/models"
	"github.com/staywellhq/staywell-backend/internal/services"
	"github.com/staywellhq/staywell-backend/pkg/utils"
)

func pagination(c *gin.Context) (skip, take int) {
	skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	take, _ = strconv.Atoi(c.DefaultQuery("take", "20"))
	if take <= 0 || take > 100 {
		take = 20
	}
	if skip < 0 {
		skip = 0
	}
	return skip, take
}

func roomResponse(room *models.Room, storage *services.Storage) gin.H {
	images := make([]string, 0, len(room.Images))
	for _, key := range room.Images {
		images = append(images, storage.ImageURL(key))
	}
	return gin.H{
		"id":            room.ID,
		"hotelId":       room.HotelID,
		"name":          room.Name,
		"description":   room.Description,
		"type":          room.Type,
		"floor":         room.Floor,
		"space":         room.Space,
		"pricePerDay":   room.PricePerDay,
		"vatPercentage": room.VatPercentage,
		"isActive":      room.IsActive,
		"images":        images,
	}
}

// GetRooms lists active rooms for guests to browse.
func GetRooms(db *gorm.DB, storage *services.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		skip, take := pagination(c)

		var rooms []models.Room
		if err := db.Where("is_active = ?", true).
			Offset(skip).Limit(take).
			Find(&rooms).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch rooms"})
			return
		}

		responses := make([]gin.H, 0, len(rooms))
		for i := range rooms {
			responses = append(responses, roomResponse(&rooms[i], storage))
		}
		c.JSON(200, gin.H{"rooms": responses})
	}
}

// GetRoomsCount returns the number of active rooms.
func GetRoomsCount(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var count int64
		if err := db.Model(&models.Room{}).Where("is_active = ?", true).Count(&count).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to count rooms"})
			return
		}
		c.JSON(200, gin.H{"count": count})
	}
}

// GetRoom returns a single room with its hotel.
func GetRoom(db *gorm.DB, storage *services.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		var room models.Room
		if err := db.Preload("Hotel").First(&room, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Room not found"})
			return
		}

		response := roomResponse(&room, storage)
		response["hotel"] = room.Hotel
		c.JSON(200, response)
	}
}

// blockedRangesForRoom loads the date ranges of the room's blocking
// bookings (accepted or awaiting a response) that have not fully passed.
func blockedRangesForRoom(db *gorm.DB, roomID uint, from time.Time) ([]utils.DateRange, error) {
	var bookings []models.Booking
	err := db.Where("room_id = ? AND status IN ?", roomID,
		[]models.BookingStatus{models.BookingStatusAccepted, models.BookingStatusPendingResponse}).
		Where("end_date >= ?", utils.NormalizeDate(from)).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}

	ranges := make([]utils.DateRange, 0, len(bookings))
	for _, b := range bookings {
		ranges = append(ranges, utils.DateRange{Start: b.StartDate, End: b.EndDate})
	}
	return ranges, nil
}

// GetRoomBookedDates returns a room together with the date ranges that
// cannot be booked. Results are cached briefly; the authoritative check
// at booking time always reads the database.
func GetRoomBookedDates(db *gorm.DB, cache *services.Cache, storage *services.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		var room models.Room
		if err := db.First(&room, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Room not found"})
			return
		}

		ctx := c.Request.Context()
		ranges, hit, err := cache.GetRoomBlockedRanges(ctx, room.ID)
		if err != nil {
			logrus.WithError(err).Warn("availability cache read failed")
		}
		if !hit {
			ranges, err = blockedRangesForRoom(db, room.ID, time.Now())
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to fetch booked dates"})
				return
			}
			if err := cache.SetRoomBlockedRanges(ctx, room.ID, ranges); err != nil {
				logrus.WithError(err).Warn("availability cache write failed")
			}
		}

		response := roomResponse(&room, storage)
		response["bookedDates"] = ranges
		c.JSON(200, response)
	}
}
