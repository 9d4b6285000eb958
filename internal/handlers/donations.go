package handlers

import (
	"context"
	"encoding/json"
	"log"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/givebridge/givebridge-backend/internal/lifecycle"
	"github.com/givebridge/givebridge-backend/internal/models"
	"github.com/givebridge/givebridge-backend/internal/services"
	"github.com/givebridge/givebridge-backend/pkg/utils"
	"gorm.io/gorm"
)

type donationInput struct {
	ItemType            string         `json:"itemType"`
	ItemName            string         `json:"itemName"`
	Description         string         `json:"description"`
	Quantity            int            `json:"quantity"`
	Condition           string         `json:"condition"`
	PickupAddress       models.Address `json:"pickupAddress"`
	PreferredPickupTime string         `json:"preferredPickupTime"`
	Notes               string         `json:"notes"`
}

// bindStrict decodes the JSON body rejecting fields the schema does not
// define. Donations used to accumulate ad hoc fields per code path; the
// boundary is where that stops.
func bindStrict(c *gin.Context, out interface{}) error {
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return lifecycle.Validation("Invalid request body: " + err.Error())
	}
	return nil
}

// donationFromForm reads the create fields out of a multipart form.
// The address arrives as pickupAddress[street] style bracket keys.
func donationFromForm(c *gin.Context) (donationInput, error) {
	quantity := 0
	if raw := c.PostForm("quantity"); raw != "" {
		q, err := strconv.Atoi(raw)
		if err != nil {
			return donationInput{}, lifecycle.Validation("Quantity must be a number")
		}
		quantity = q
	}

	addr := c.PostFormMap("pickupAddress")
	return donationInput{
		ItemType:    c.PostForm("itemType"),
		ItemName:    c.PostForm("itemName"),
		Description: c.PostForm("description"),
		Quantity:    quantity,
		Condition:   c.PostForm("condition"),
		PickupAddress: models.Address{
			Street:  addr["street"],
			City:    addr["city"],
			State:   addr["state"],
			ZipCode: addr["zipCode"],
		},
		PreferredPickupTime: c.PostForm("preferredPickupTime"),
		Notes:               c.PostForm("notes"),
	}, nil
}

// CreateDonation handles the creation of a new donation by a donor.
// Accepts JSON or a multipart form carrying up to 5 images alongside the
// fields. Status is always pending on creation, regardless of input.
func CreateDonation(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		role := models.UserRole(c.GetString("userRole"))

		var input donationInput
		var files []*multipart.FileHeader
		if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
			form, err := c.MultipartForm()
			if err != nil {
				respondError(c, lifecycle.Validation("Invalid multipart form"))
				return
			}
			if input, err = donationFromForm(c); err != nil {
				respondError(c, err)
				return
			}
			files = form.File["images"]
			if len(files) > models.MaxDonationImages {
				respondError(c, lifecycle.Validation("A donation can have at most 5 images"))
				return
			}
		} else if err := bindStrict(c, &input); err != nil {
			respondError(c, err)
			return
		}

		if err := lifecycle.ValidateNew(role, input.ItemType, input.ItemName, input.Quantity); err != nil {
			respondError(c, err)
			return
		}
		if input.Condition == "" {
			input.Condition = "good"
		}
		if !models.ValidCondition(input.Condition) {
			respondError(c, lifecycle.Validation("Invalid item condition"))
			return
		}

		donation := models.Donation{
			DonorID:             userID,
			ItemType:            input.ItemType,
			ItemName:            input.ItemName,
			Description:         input.Description,
			Quantity:            input.Quantity,
			Condition:           input.Condition,
			PickupAddress:       input.PickupAddress,
			PreferredPickupTime: input.PreferredPickupTime,
			Notes:               input.Notes,
			Status:              models.DonationStatusPending,
		}

		if err := db.Create(&donation).Error; err != nil {
			respondError(c, err)
			return
		}

		for _, file := range files {
			path, err := services.UploadImage(file, "donations")
			if err != nil {
				respondError(c, err)
				return
			}
			image := models.DonationImage{
				DonationID: donation.ID,
				URL:        services.GetImageURL(path),
			}
			if err := db.Create(&image).Error; err != nil {
				respondError(c, err)
				return
			}
			donation.Images = append(donation.Images, image)
		}

		c.JSON(201, gin.H{"success": true, "donation": donation})
	}
}

// GetAllDonations lists donations filtered by status and item type,
// paginated, most recent first.
func GetAllDonations(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := c.Query("status")
		itemType := c.Query("itemType")
		page, limit := pagination(c)

		if status != "" && !models.ValidDonationStatus(status) {
			respondError(c, lifecycle.Validation("Invalid donation status"))
			return
		}
		if itemType != "" && !models.ValidItemType(itemType) {
			respondError(c, lifecycle.Validation("Invalid item type"))
			return
		}

		query := db.Model(&models.Donation{})
		if status != "" {
			query = query.Where("status = ?", status)
		}
		if itemType != "" {
			query = query.Where("item_type = ?", itemType)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			respondError(c, err)
			return
		}

		var donations []models.Donation
		if err := query.
			Preload("Donor").
			Preload("AssignedVolunteer").
			Preload("Images").
			Order("created_at DESC").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&donations).Error; err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{
			"success":   true,
			"count":     len(donations),
			"total":     total,
			"page":      page,
			"pages":     pages(total, limit),
			"donations": donations,
		})
	}
}

// GetMyDonations lists the requesting donor's own donations.
func GetMyDonations(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var donations []models.Donation
		if err := db.Where("donor_id = ?", userID).
			Preload("AssignedVolunteer").
			Preload("Images").
			Order("created_at DESC").
			Find(&donations).Error; err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{
			"success":   true,
			"count":     len(donations),
			"donations": donations,
		})
	}
}

// GetDonationByID retrieves a single donation with donor and volunteer
// details joined.
func GetDonationByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var donation models.Donation
		if err := db.
			Preload("Donor").
			Preload("AssignedVolunteer").
			Preload("Images").
			First(&donation, c.Param("id")).Error; err != nil {
			respondError(c, lifecycle.NotFound("Donation not found"))
			return
		}

		c.JSON(200, gin.H{"success": true, "donation": donation})
	}
}

// UpdateDonation edits a donation's fields. Owner or admin only. Status
// and assignment never change through this path.
func UpdateDonation(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		role := models.UserRole(c.GetString("userRole"))

		var donation models.Donation
		if err := db.First(&donation, c.Param("id")).Error; err != nil {
			respondError(c, lifecycle.NotFound("Donation not found"))
			return
		}

		if err := lifecycle.CanEdit(&donation, userID, role); err != nil {
			respondError(c, err)
			return
		}

		var input struct {
			ItemType            *string         `json:"itemType"`
			ItemName            *string         `json:"itemName"`
			Description         *string         `json:"description"`
			Quantity            *int            `json:"quantity"`
			Condition           *string         `json:"condition"`
			PickupAddress       *models.Address `json:"pickupAddress"`
			PreferredPickupTime *string         `json:"preferredPickupTime"`
			Notes               *string         `json:"notes"`
		}
		if err := bindStrict(c, &input); err != nil {
			respondError(c, err)
			return
		}

		if input.ItemType != nil {
			if !models.ValidItemType(*input.ItemType) {
				respondError(c, lifecycle.Validation("Invalid item type"))
				return
			}
			donation.ItemType = *input.ItemType
		}
		if input.ItemName != nil {
			if *input.ItemName == "" {
				respondError(c, lifecycle.Validation("Item name is required"))
				return
			}
			donation.ItemName = *input.ItemName
		}
		if input.Description != nil {
			donation.Description = *input.Description
		}
		if input.Quantity != nil {
			if *input.Quantity < 1 {
				respondError(c, lifecycle.Validation("Quantity must be at least 1"))
				return
			}
			donation.Quantity = *input.Quantity
		}
		if input.Condition != nil {
			if !models.ValidCondition(*input.Condition) {
				respondError(c, lifecycle.Validation("Invalid item condition"))
				return
			}
			donation.Condition = *input.Condition
		}
		if input.PickupAddress != nil {
			donation.PickupAddress = *input.PickupAddress
		}
		if input.PreferredPickupTime != nil {
			donation.PreferredPickupTime = *input.PreferredPickupTime
		}
		if input.Notes != nil {
			donation.Notes = *input.Notes
		}

		if err := db.Save(&donation).Error; err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{"success": true, "donation": donation})
	}
}

// UpdateDonationStatus performs a guarded status transition.
func UpdateDonationStatus(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		role := models.UserRole(c.GetString("userRole"))

		var input struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"success": false, "message": err.Error()})
			return
		}

		var donation models.Donation
		if err := db.First(&donation, c.Param("id")).Error; err != nil {
			respondError(c, lifecycle.NotFound("Donation not found"))
			return
		}

		next := models.DonationStatus(input.Status)
		if err := lifecycle.CanTransition(&donation, userID, role, next); err != nil {
			respondError(c, err)
			return
		}

		updates := map[string]interface{}{"status": next}
		if !next.RequiresVolunteer() {
			// Keep the assignment invariant: leaving the assigned part of
			// the lifecycle releases the volunteer.
			updates["assigned_volunteer_id"] = nil
		}

		if err := db.Model(&donation).Updates(updates).Error; err != nil {
			respondError(c, err)
			return
		}

		ctx := context.Background()
		services.InvalidateAvailableTasks(ctx)
		services.PublishDonationUpdate(ctx, donation.ID, string(next), nil)

		if next == models.DonationStatusApproved {
			hub.SendDonationApproved(donation.DonorID, services.DonationApproved{
				DonationID: donation.ID,
				ItemName:   donation.ItemName,
			})
			hub.SendNewTaskAvailable(services.NewTaskAvailable{
				DonationID: donation.ID,
				ItemType:   donation.ItemType,
				ItemName:   donation.ItemName,
				City:       donation.PickupAddress.City,
			})

			go func(donorID uint, itemName string) {
				var donor models.User
				if err := db.First(&donor, donorID).Error; err != nil {
					return
				}
				if err := utils.SendDonationStatusEmail(donor.Email, itemName, "approved"); err != nil {
					log.Printf("Failed to send approval email: %v", err)
				}
			}(donation.DonorID, donation.ItemName)
		}

		c.JSON(200, gin.H{
			"success":  true,
			"message":  "Donation status updated",
			"donation": gin.H{"id": donation.ID, "status": next},
		})
	}
}

// DeleteDonation removes a donation permanently. Owner or admin only.
func DeleteDonation(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		role := models.UserRole(c.GetString("userRole"))

		var donation models.Donation
		if err := db.Preload("Images").First(&donation, c.Param("id")).Error; err != nil {
			respondError(c, lifecycle.NotFound("Donation not found"))
			return
		}

		if err := lifecycle.CanDelete(&donation, userID, role); err != nil {
			respondError(c, err)
			return
		}

		for _, img := range donation.Images {
			if err := services.DeleteImage(img.URL); err != nil {
				log.Printf("Failed to delete image %s: %v", img.URL, err)
			}
		}

		// Hard delete, no tombstone.
		if err := db.Unscoped().Where("donation_id = ?", donation.ID).Delete(&models.DonationImage{}).Error; err != nil {
			respondError(c, err)
			return
		}
		if err := db.Unscoped().Delete(&donation).Error; err != nil {
			respondError(c, err)
			return
		}

		services.InvalidateAvailableTasks(context.Background())

		c.JSON(200, gin.H{"success": true, "message": "Donation deleted successfully"})
	}
}

// UploadDonationImages attaches uploaded images to a donation, up to the
// per-donation cap. Owner or admin only.
func UploadDonationImages(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		role := models.UserRole(c.GetString("userRole"))

		var donation models.Donation
		if err := db.Preload("Images").First(&donation, c.Param("id")).Error; err != nil {
			respondError(c, lifecycle.NotFound("Donation not found"))
			return
		}

		if err := lifecycle.CanEdit(&donation, userID, role); err != nil {
			respondError(c, err)
			return
		}

		form, err := c.MultipartForm()
		if err != nil {
			respondError(c, lifecycle.Validation("Expected multipart form with images"))
			return
		}

		files := form.File["images"]
		if len(files) == 0 {
			respondError(c, lifecycle.Validation("No images provided"))
			return
		}
		if len(donation.Images)+len(files) > models.MaxDonationImages {
			respondError(c, lifecycle.Validation("A donation can have at most 5 images"))
			return
		}

		var saved []models.DonationImage
		for _, file := range files {
			path, err := services.UploadImage(file, "donations")
			if err != nil {
				respondError(c, err)
				return
			}
			image := models.DonationImage{
				DonationID: donation.ID,
				URL:        services.GetImageURL(path),
			}
			if err := db.Create(&image).Error; err != nil {
				respondError(c, err)
				return
			}
			saved = append(saved, image)
		}

		c.JSON(201, gin.H{"success": true, "images": saved})
	}
}
