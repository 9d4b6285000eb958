package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/givebridge/givebridge-backend/internal/models"
	"gorm.io/gorm"
)

// GetAllUsers lists every user. Admin only (enforced by route middleware).
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.Order("created_at DESC").Find(&users).Error; err != nil {
			c.JSON(500, gin.H{"success": false, "message": "Failed to fetch users"})
			return
		}

		c.JSON(200, gin.H{
			"success": true,
			"count":   len(users),
			"users":   users,
		})
	}
}

// GetUserByID retrieves a single user
func GetUserByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := db.First(&user, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"success": false, "message": "User not found"})
			return
		}

		c.JSON(200, gin.H{"success": true, "user": user})
	}
}

// UpdateUser updates a user's profile. Self or admin.
func UpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetUint("userId")
		actorRole := models.UserRole(c.GetString("userRole"))

		targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"success": false, "message": "Invalid user ID"})
			return
		}

		if uint(targetID) != actorID && actorRole != models.RoleAdmin {
			c.JSON(403, gin.H{"success": false, "message": "Not authorized to update this user"})
			return
		}

		var input struct {
			Name         *string `json:"name"`
			Phone        *string `json:"phone"`
			Address      *string `json:"address"`
			ProfileImage *string `json:"profileImage"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"success": false, "message": err.Error()})
			return
		}

		var user models.User
		if err := db.First(&user, targetID).Error; err != nil {
			c.JSON(404, gin.H{"success": false, "message": "User not found"})
			return
		}

		// Update fields individually to handle empty strings properly
		if input.Name != nil {
			user.Name = *input.Name
		}
		if input.Phone != nil {
			user.Phone = *input.Phone
		}
		if input.Address != nil {
			user.Address = *input.Address
		}
		if input.ProfileImage != nil {
			user.ProfileImage = *input.ProfileImage
		}

		if err := db.Save(&user).Error; err != nil {
			c.JSON(500, gin.H{"success": false, "message": "Failed to update user"})
			return
		}

		c.JSON(200, gin.H{"success": true, "user": user})
	}
}

// DeleteUser removes a user. Admin only (enforced by route middleware).
func DeleteUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := db.First(&user, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"success": false, "message": "User not found"})
			return
		}

		if err := db.Delete(&user).Error; err != nil {
			c.JSON(500, gin.H{"success": false, "message": "Failed to delete user"})
			return
		}

		c.JSON(200, gin.H{"success": true, "message": "User deleted successfully"})
	}
}

// GetAllVolunteers lists users with the volunteer role.
func GetAllVolunteers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var volunteers []models.User
		if err := db.Where("role = ?", models.RoleVolunteer).Find(&volunteers).Error; err != nil {
			c.JSON(500, gin.H{"success": false, "message": "Failed to fetch volunteers"})
			return
		}

		c.JSON(200, gin.H{
			"success":    true,
			"count":      len(volunteers),
			"volunteers": volunteers,
		})
	}
}
