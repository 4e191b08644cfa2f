package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/staywellhq/staywell-backend/internal/models"
	"github.com/staywellhq/staywell-backend/internal/services"
)

func userResponse(user *models.User, storage *services.Storage) gin.H {
	return gin.H{
		"id":     user.ID,
		"email":  user.Email,
		"name":   user.Name,
		"role":   user.Role,
		"avatar": storage.ImageURL(user.AvatarKey),
	}
}

// GetProfile retrieves the user's profile
func GetProfile(db *gorm.DB, storage *services.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var user models.User
		if err := db.First(&user, userId).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		c.JSON(200, userResponse(&user, storage))
	}
}

// UpdateProfile updates the user's name, password and avatar. The form
// fields are optional; only supplied ones are changed.
func UpdateProfile(db *gorm.DB, storage *services.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var user models.User
		if err := db.First(&user, userId).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		if name := c.PostForm("name"); name != "" {
			user.Name = name
		}
		if password := c.PostForm("password"); password != "" {
			user.Password = password
			if err := user.HashPassword(); err != nil {
				c.JSON(500, gin.H{"error": "Failed to hash password"})
				return
			}
		}

		oldAvatar := ""
		if file, err := c.FormFile("avatar"); err == nil {
			key, err := storage.UploadImage(file, "avatars")
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to upload avatar"})
				return
			}
			oldAvatar = user.AvatarKey
			user.AvatarKey = key
		}

		if err := db.Save(&user).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update profile"})
			return
		}

		if oldAvatar != "" {
			if err := storage.DeleteImage(oldAvatar); err != nil {
				logrus.WithError(err).Warn("failed to delete replaced avatar")
			}
		}

		c.JSON(200, userResponse(&user, storage))
	}
}
