package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/staywellhq/staywell-backend/internal/models"
	"github.com/staywellhq/staywell-backend/internal/services"
)

type RegisterHotelInput struct {
	Name        string `form:"name" binding:"required"`
	Address     string `form:"address" binding:"required"`
	Description string `form:"description"`
	Username    string `form:"username"`
	Email       string `form:"email" binding:"required,email"`
	Password    string `form:"password" binding:"required,min=6"`
}

// RegisterHotel creates a hotel together with its first manager account.
func RegisterHotel(db *gorm.DB, storage *services.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterHotelInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to hash password"})
			return
		}

		imageKey := ""
		if file, err := c.FormFile("image"); err == nil {
			imageKey, err = storage.UploadImage(file, "hotels")
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to upload image"})
				return
			}
		}

		managerName := input.Username
		if managerName == "" {
			managerName = input.Name
		}

		hotel := models.Hotel{
			Name:        input.Name,
			Address:     input.Address,
			Description: input.Description,
			ImageKey:    imageKey,
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&hotel).Error; err != nil {
				return err
			}
			user := models.User{
				Name:         managerName,
				Email:        input.Email,
				PasswordHash: string(hashedPassword),
				Role:         string(models.RoleHotelManager),
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			return tx.Create(&models.HotelManager{
				HotelID: hotel.ID,
				UserID:  user.ID,
			}).Error
		})
		if err != nil {
			if imageKey != "" {
				storage.DeleteImage(imageKey)
			}
			c.JSON(500, gin.H{"error": "Failed to register hotel"})
			return
		}

		c.JSON(201, gin.H{"hotel": hotel})
	}
}

type RegisterHotelExistingInput struct {
	Name        string `form:"name" binding:"required"`
	Address     string `form:"address" binding:"required"`
	Description string `form:"description"`
}

// RegisterHotelWithExistingUser attaches a new hotel to the current
// user. Fails if the user already manages a hotel.
func RegisterHotelWithExistingUser(db *gorm.DB, storage *services.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input RegisterHotelExistingInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var existing models.HotelManager
		if err := db.Where("user_id = ?", userId).First(&existing).Error; err == nil {
			c.JSON(400, gin.H{"error": "User already manages a hotel"})
			return
		}

		imageKey := ""
		if file, err := c.FormFile("image"); err == nil {
			key, err := storage.UploadImage(file, "hotels")
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to upload image"})
				return
			}
			imageKey = key
		}

		hotel := models.Hotel{
			Name:        input.Name,
			Address:     input.Address,
			Description: input.Description,
			ImageKey:    imageKey,
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&hotel).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.User{}).Where("id = ?", userId).
				Update("role", string(models.RoleHotelManager)).Error; err != nil {
				return err
			}
			return tx.Create(&models.HotelManager{
				HotelID: hotel.ID,
				UserID:  userId,
			}).Error
		})
		if err != nil {
			if imageKey != "" {
				storage.DeleteImage(imageKey)
			}
			c.JSON(500, gin.H{"error": "Failed to register hotel"})
			return
		}

		c.JSON(201, gin.H{"hotel": hotel})
	}
}

// GetHotel returns a hotel by id query parameter, or the caller's own
// hotel when they are a manager.
func GetHotel(db *gorm.DB, storage *services.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		var hotel models.Hotel

		if idStr := c.Query("id"); idStr != "" {
			id, err := strconv.ParseUint(idStr, 10, 32)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid hotel ID"})
				return
			}
			if err := db.First(&hotel, uint(id)).Error; err != nil {
				c.JSON(404, gin.H{"error": "Hotel not found"})
				return
			}
		} else {
			hotelId := c.GetUint("hotelId")
			if hotelId == 0 {
				c.JSON(400, gin.H{"error": "Please pass a hotel ID"})
				return
			}
			if err := db.First(&hotel, hotelId).Error; err != nil {
				c.JSON(404, gin.H{"error": "Hotel not found"})
				return
			}
		}

		c.JSON(200, gin.H{
			"hotel": hotel,
			"image": storage.ImageURL(hotel.ImageKey),
		})
	}
}

// UpdateHotel updates the manager's hotel profile.
func UpdateHotel(db *gorm.DB, storage *services.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		hotelId := c.GetUint("hotelId")

		var hotel models.Hotel
		if err := db.First(&hotel, hotelId).Error; err != nil {
			c.JSON(404, gin.H{"error": "Hotel not found"})
			return
		}

		if name := c.PostForm("name"); name != "" {
			hotel.Name = name
		}
		if address := c.PostForm("address"); address != "" {
			hotel.Address = address
		}
		if description := c.PostForm("description"); description != "" {
			hotel.Description = description
		}
		if file, err := c.FormFile("image"); err == nil {
			key, err := storage.UploadImage(file, "hotels")
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to upload image"})
				return
			}
			if hotel.ImageKey != "" {
				storage.DeleteImage(hotel.ImageKey)
			}
			hotel.ImageKey = key
		}

		if err := db.Save(&hotel).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update hotel"})
			return
		}

		c.JSON(200, gin.H{"hotel": hotel})
	}
}
