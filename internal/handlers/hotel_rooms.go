package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/staywellhq/staywell-backend/internal/models"
	"github.com/staywellhq/staywell-backend/internal/services"
)

type CreateRoomInput struct {
	Name          string  `form:"name" binding:"required"`
	Description   string  `form:"description"`
	Type          string  `form:"type"`
	Floor         int     `form:"floor"`
	Space         int     `form:"space"`
	PricePerDay   int     `form:"pricePerDay" binding:"required,gt=0"`
	VatPercentage float64 `form:"vatPercentage" binding:"gte=0"`
}

// CreateRoom adds a room to the manager's hotel. Images arrive as
// multipart files; uploads are rolled back if the insert fails.
func CreateRoom(db *gorm.DB, storage *services.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		hotelId := c.GetUint("hotelId")
		userId := c.GetUint("userId")

		var input CreateRoomInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid multipart form"})
			return
		}

		var imageKeys []string
		for _, file := range form.File["images"] {
			key, err := storage.UploadImage(file, "rooms")
			if err != nil {
				for _, k := range imageKeys {
					storage.DeleteImage(k)
				}
				c.JSON(500, gin.H{"error": "Failed to upload image"})
				return
			}
			imageKeys = append(imageKeys, key)
		}

		room := models.Room{
			HotelID:       hotelId,
			CreatedByID:   userId,
			Name:          input.Name,
			Description:   input.Description,
			Type:          input.Type,
			Floor:         input.Floor,
			Space:         input.Space,
			Images:        imageKeys,
			PricePerDay:   input.PricePerDay,
			VatPercentage: input.VatPercentage,
			IsActive:      true,
		}

		if err := db.Create(&room).Error; err != nil {
			for _, k := range imageKeys {
				storage.DeleteImage(k)
			}
			c.JSON(500, gin.H{"error": "Failed to create room"})
			return
		}

		c.JSON(201, gin.H{"room": roomResponse(&room, storage)})
	}
}

// getHotelRoom loads a room and verifies it belongs to the manager's
// hotel.
func getHotelRoom(c *gin.Context, db *gorm.DB) (*models.Room, bool) {
	hotelId := c.GetUint("hotelId")

	var room models.Room
	if err := db.First(&room, c.Param("id")).Error; err != nil {
		c.JSON(404, gin.H{"error": "Room not found"})
		return nil, false
	}
	if room.HotelID != hotelId {
		c.JSON(403, gin.H{"error": "You do not have access to this room"})
		return nil, false
	}
	return &room, true
}

// EditRoom updates a room in place. The "images" form value lists the
// keys to keep; new files are uploaded and removed keys deleted.
func EditRoom(db *gorm.DB, storage *services.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		room, ok := getHotelRoom(c, db)
		if !ok {
			return
		}

		if name := c.PostForm("name"); name != "" {
			room.Name = name
		}
		if description := c.PostForm("description"); description != "" {
			room.Description = description
		}
		if roomType := c.PostForm("type"); roomType != "" {
			room.Type = roomType
		}
		if floor := c.PostForm("floor"); floor != "" {
			v, err := strconv.Atoi(floor)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid floor"})
				return
			}
			room.Floor = v
		}
		if space := c.PostForm("space"); space != "" {
			v, err := strconv.Atoi(space)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid space"})
				return
			}
			room.Space = v
		}
		if price := c.PostForm("pricePerDay"); price != "" {
			v, err := strconv.Atoi(price)
			if err != nil || v <= 0 {
				c.JSON(400, gin.H{"error": "Price per day must be positive"})
				return
			}
			room.PricePerDay = v
		}
		if vat := c.PostForm("vatPercentage"); vat != "" {
			v, err := strconv.ParseFloat(vat, 64)
			if err != nil || v < 0 {
				c.JSON(400, gin.H{"error": "VAT percentage must not be negative"})
				return
			}
			room.VatPercentage = v
		}

		form, _ := c.MultipartForm()
		if form != nil && (len(form.Value["images"]) > 0 || len(form.File["images"]) > 0) {
			kept := make(map[string]bool)
			finalImages := make([]string, 0)
			for _, key := range form.Value["images"] {
				kept[key] = true
				finalImages = append(finalImages, key)
			}

			var newKeys []string
			for _, file := range form.File["images"] {
				key, err := storage.UploadImage(file, "rooms")
				if err != nil {
					for _, k := range newKeys {
						storage.DeleteImage(k)
					}
					c.JSON(500, gin.H{"error": "Failed to upload image"})
					return
				}
				newKeys = append(newKeys, key)
				finalImages = append(finalImages, key)
			}

			// Old images the client no longer lists are orphans.
			for _, old := range room.Images {
				if !kept[old] {
					if err := storage.DeleteImage(old); err != nil {
						logrus.WithError(err).WithField("key", old).Warn("failed to delete removed room image")
					}
				}
			}
			room.Images = finalImages
		}

		if err := db.Save(room).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update room"})
			return
		}

		c.JSON(200, gin.H{"room": roomResponse(room, storage)})
	}
}

// GetHotelRooms lists the manager's active rooms.
func GetHotelRooms(db *gorm.DB, storage *services.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		hotelId := c.GetUint("hotelId")
		skip, take := pagination(c)

		var rooms []models.Room
		if err := db.Where("hotel_id = ? AND is_active = ?", hotelId, true).
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

// GetHotelRoomsCount returns the number of the manager's active rooms.
func GetHotelRoomsCount(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		hotelId := c.GetUint("hotelId")

		var count int64
		if err := db.Model(&models.Room{}).
			Where("hotel_id = ? AND is_active = ?", hotelId, true).
			Count(&count).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to count rooms"})
			return
		}
		c.JSON(200, gin.H{"count": count})
	}
}

// GetHotelRoomDetails returns one of the manager's rooms with its hotel.
func GetHotelRoomDetails(db *gorm.DB, storage *services.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		room, ok := getHotelRoom(c, db)
		if !ok {
			return
		}

		if err := db.Preload("Hotel").First(room, room.ID).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch room"})
			return
		}

		response := roomResponse(room, storage)
		response["hotel"] = room.Hotel
		c.JSON(200, response)
	}
}

// ArchiveRoom soft-deletes a room and rejects its pending bookings.
// Accepted and closed bookings are left untouched.
func ArchiveRoom(db *gorm.DB, cache *services.Cache, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		room, ok := getHotelRoom(c, db)
		if !ok {
			return
		}

		var rejected []models.Booking
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(room).Update("is_active", false).Error; err != nil {
				return err
			}

			var open []models.Booking
			if err := tx.Where("room_id = ? AND status IN ?", room.ID,
				[]models.BookingStatus{models.BookingStatusAccepted, models.BookingStatusPendingResponse}).
				Find(&open).Error; err != nil {
				return err
			}

			ids := make([]uint, 0, len(open))
			for i := range open {
				next, changed := models.StatusAfterRoomArchive(open[i].Status)
				if !changed {
					continue
				}
				open[i].Status = next
				ids = append(ids, open[i].ID)
				rejected = append(rejected, open[i])
			}
			if len(ids) == 0 {
				return nil
			}
			return tx.Model(&models.Booking{}).
				Where("id IN ?", ids).
				Update("status", models.BookingStatusRejected).Error
		})
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to archive room"})
			return
		}

		if err := cache.InvalidateRoom(c.Request.Context(), room.ID); err != nil {
			logrus.WithError(err).Warn("failed to invalidate availability cache")
		}

		// Tell affected guests their pending bookings were rejected.
		for _, b := range rejected {
			hub.SendToUsers([]uint{b.CreatedByID}, services.BookingEvent{
				Type:      "booking_status_changed",
				BookingID: b.ID,
				RoomID:    b.RoomID,
				Status:    string(models.BookingStatusRejected),
			})
		}

		room.IsActive = false
		c.JSON(200, gin.H{"room": room})
	}
}
