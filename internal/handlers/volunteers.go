package handlers

import (
	"context"
	"encoding/json"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/givebridge/givebridge-backend/internal/lifecycle"
	"github.com/givebridge/givebridge-backend/internal/models"
	"github.com/givebridge/givebridge-backend/internal/services"
	"github.com/givebridge/givebridge-backend/pkg/utils"
	"gorm.io/gorm"
)

// GetAvailableTasks lists donations a volunteer can still pick up:
// approved and unassigned, most recent first. The listing is cached in
// Redis for a short window and invalidated on every transition.
func GetAvailableTasks(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()

		if cached, err := services.GetCachedAvailableTasks(ctx); err == nil {
			c.Data(200, "application/json", cached)
			return
		}

		var tasks []models.Donation
		if err := db.Where("status = ? AND assigned_volunteer_id IS NULL", models.DonationStatusApproved).
			Preload("Donor").
			Preload("Images").
			Order("created_at DESC").
			Find(&tasks).Error; err != nil {
			respondError(c, err)
			return
		}

		body := gin.H{
			"success": true,
			"count":   len(tasks),
			"tasks":   tasks,
		}

		if payload, err := json.Marshal(body); err == nil {
			if err := services.CacheAvailableTasks(ctx, payload); err != nil {
				log.Printf("Failed to cache available tasks: %v", err)
			}
		}

		c.JSON(200, body)
	}
}

// GetMyTasks lists donations assigned to the requesting volunteer.
func GetMyTasks(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		volunteerID := c.GetUint("userId")

		var tasks []models.Donation
		if err := db.Where("assigned_volunteer_id = ?", volunteerID).
			Preload("Donor").
			Preload("Images").
			Order("created_at DESC").
			Find(&tasks).Error; err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{
			"success": true,
			"count":   len(tasks),
			"tasks":   tasks,
		})
	}
}

// AcceptTask assigns an approved, unassigned donation to the requesting
// volunteer. The assignment is a single conditional update so two
// volunteers racing for the same task get exactly one winner.
func AcceptTask(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		volunteerID := c.GetUint("userId")

		donationID, err := strconv.ParseUint(c.Param("donationId"), 10, 32)
		if err != nil {
			respondError(c, lifecycle.Validation("Invalid donation ID"))
			return
		}

		result := db.Model(&models.Donation{}).
			Where("id = ? AND status = ? AND assigned_volunteer_id IS NULL",
				donationID, models.DonationStatusApproved).
			Updates(map[string]interface{}{
				"status":                models.DonationStatusAssigned,
				"assigned_volunteer_id": volunteerID,
			})
		if result.Error != nil {
			respondError(c, result.Error)
			return
		}

		if result.RowsAffected == 0 {
			// Lost the race or the task was never available; re-read to
			// report why.
			var donation models.Donation
			if err := db.First(&donation, donationID).Error; err != nil {
				respondError(c, lifecycle.NotFound("Donation not found"))
				return
			}
			if err := lifecycle.CanAccept(&donation); err != nil {
				respondError(c, err)
				return
			}
			respondError(c, lifecycle.Conflict("This task is already assigned to another volunteer"))
			return
		}

		var donation models.Donation
		if err := db.Preload("Donor").First(&donation, donationID).Error; err != nil {
			respondError(c, err)
			return
		}

		ctx := context.Background()
		services.InvalidateAvailableTasks(ctx)
		services.PublishDonationUpdate(ctx, donation.ID, string(donation.Status), map[string]interface{}{
			"volunteerId": volunteerID,
		})

		var volunteer models.User
		if err := db.First(&volunteer, volunteerID).Error; err == nil {
			hub.SendTaskAccepted(donation.DonorID, services.TaskAccepted{
				DonationID:  donation.ID,
				VolunteerID: volunteerID,
				Volunteer:   volunteer.Name,
			})
		}

		if donation.Donor != nil {
			go func(email, itemName string) {
				if err := utils.SendDonationStatusEmail(email, itemName, "assigned"); err != nil {
					log.Printf("Failed to send assignment email: %v", err)
				}
			}(donation.Donor.Email, donation.ItemName)
		}

		c.JSON(200, gin.H{
			"success":  true,
			"message":  "Task accepted successfully",
			"donation": donation,
		})
	}
}

// CompleteTask marks an assigned donation as delivered. Only the assigned
// volunteer may complete it.
func CompleteTask(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		volunteerID := c.GetUint("userId")

		donationID, err := strconv.ParseUint(c.Param("donationId"), 10, 32)
		if err != nil {
			respondError(c, lifecycle.Validation("Invalid donation ID"))
			return
		}

		var donation models.Donation
		if err := db.First(&donation, donationID).Error; err != nil {
			respondError(c, lifecycle.NotFound("Donation not found"))
			return
		}

		if err := lifecycle.CanComplete(&donation, volunteerID); err != nil {
			respondError(c, err)
			return
		}

		if err := db.Model(&donation).Update("status", models.DonationStatusDelivered).Error; err != nil {
			respondError(c, err)
			return
		}

		ctx := context.Background()
		services.InvalidateAvailableTasks(ctx)
		services.PublishDonationUpdate(ctx, donation.ID, string(models.DonationStatusDelivered), nil)

		hub.SendTaskCompleted(donation.DonorID, services.TaskCompleted{
			DonationID:  donation.ID,
			VolunteerID: volunteerID,
		})

		go func(donorID uint, itemName string) {
			var donor models.User
			if err := db.First(&donor, donorID).Error; err != nil {
				return
			}
			if err := utils.SendDonationStatusEmail(donor.Email, itemName, "delivered"); err != nil {
				log.Printf("Failed to send delivery email: %v", err)
			}
		}(donation.DonorID, donation.ItemName)

		c.JSON(200, gin.H{
			"success": true,
			"message": "Task marked as completed",
			"donation": gin.H{
				"id":     donation.ID,
				"status": models.DonationStatusDelivered,
			},
		})
	}
}
