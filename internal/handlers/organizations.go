package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/givebridge/givebridge-backend/internal/lifecycle"
	"github.com/givebridge/givebridge-backend/internal/models"
	"gorm.io/gorm"
)

type organizationInput struct {
	Name               string         `json:"name" binding:"required"`
	Type               string         `json:"type" binding:"required"`
	Description        string         `json:"description"`
	RegistrationNumber *string        `json:"registrationNumber"`
	Address            models.Address `json:"address"`
	ContactName        string         `json:"contactName"`
	ContactPhone       string         `json:"contactPhone"`
	ContactEmail       string         `json:"contactEmail"`
	Website            string         `json:"website"`
	Logo               string         `json:"logo"`
}

// GetAllOrganizations lists organizations filtered by type and
// verification, paginated, most recent first. Public.
func GetAllOrganizations(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgType := c.Query("type")
		verified := c.Query("verified")
		page, limit := pagination(c)

		if orgType != "" && !models.ValidOrganizationType(orgType) {
			respondError(c, lifecycle.Validation("Invalid organization type"))
			return
		}

		query := db.Model(&models.Organization{})
		if orgType != "" {
			query = query.Where("type = ?", orgType)
		}
		if verified != "" {
			query = query.Where("is_verified = ?", verified == "true")
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			respondError(c, err)
			return
		}

		var organizations []models.Organization
		if err := query.
			Preload("User").
			Preload("ItemsNeeded").
			Order("created_at DESC").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&organizations).Error; err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{
			"success":       true,
			"count":         len(organizations),
			"total":         total,
			"page":          page,
			"pages":         pages(total, limit),
			"organizations": organizations,
		})
	}
}

// GetOrganizationByID retrieves a single organization. Public.
func GetOrganizationByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var organization models.Organization
		if err := db.
			Preload("User").
			Preload("ItemsNeeded").
			Preload("VerificationDocuments").
			First(&organization, c.Param("id")).Error; err != nil {
			respondError(c, lifecycle.NotFound("Organization not found"))
			return
		}

		c.JSON(200, gin.H{"success": true, "organization": organization})
	}
}

// CreateOrganization registers the requesting user's organization
// profile. One profile per user.
func CreateOrganization(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var input organizationInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"success": false, "message": err.Error()})
			return
		}

		if !models.ValidOrganizationType(input.Type) {
			respondError(c, lifecycle.Validation("Invalid organization type"))
			return
		}

		var existing models.Organization
		if err := db.Where("user_id = ?", userID).First(&existing).Error; err == nil {
			respondError(c, lifecycle.Conflict("Organization profile already exists"))
			return
		}

		organization := models.Organization{
			UserID:             userID,
			Name:               input.Name,
			Type:               input.Type,
			Description:        input.Description,
			RegistrationNumber: input.RegistrationNumber,
			Address:            input.Address,
			ContactName:        input.ContactName,
			ContactPhone:       input.ContactPhone,
			ContactEmail:       input.ContactEmail,
			Website:            input.Website,
			Logo:               input.Logo,
		}

		if err := db.Create(&organization).Error; err != nil {
			respondError(c, err)
			return
		}

		c.JSON(201, gin.H{"success": true, "organization": organization})
	}
}

// UpdateOrganization edits an organization profile. Owner or admin only.
func UpdateOrganization(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		role := models.UserRole(c.GetString("userRole"))

		var organization models.Organization
		if err := db.First(&organization, c.Param("id")).Error; err != nil {
			respondError(c, lifecycle.NotFound("Organization not found"))
			return
		}

		if organization.UserID != userID && role != models.RoleAdmin {
			respondError(c, lifecycle.Authorization("Not authorized to update this organization"))
			return
		}

		var input struct {
			Name               *string         `json:"name"`
			Type               *string         `json:"type"`
			Description        *string         `json:"description"`
			RegistrationNumber *string         `json:"registrationNumber"`
			Address            *models.Address `json:"address"`
			ContactName        *string         `json:"contactName"`
			ContactPhone       *string         `json:"contactPhone"`
			ContactEmail       *string         `json:"contactEmail"`
			Website            *string         `json:"website"`
			Logo               *string         `json:"logo"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"success": false, "message": err.Error()})
			return
		}

		if input.Name != nil {
			organization.Name = *input.Name
		}
		if input.Type != nil {
			if !models.ValidOrganizationType(*input.Type) {
				respondError(c, lifecycle.Validation("Invalid organization type"))
				return
			}
			organization.Type = *input.Type
		}
		if input.Description != nil {
			organization.Description = *input.Description
		}
		if input.RegistrationNumber != nil {
			organization.RegistrationNumber = input.RegistrationNumber
		}
		if input.Address != nil {
			organization.Address = *input.Address
		}
		if input.ContactName != nil {
			organization.ContactName = *input.ContactName
		}
		if input.ContactPhone != nil {
			organization.ContactPhone = *input.ContactPhone
		}
		if input.ContactEmail != nil {
			organization.ContactEmail = *input.ContactEmail
		}
		if input.Website != nil {
			organization.Website = *input.Website
		}
		if input.Logo != nil {
			organization.Logo = *input.Logo
		}

		if err := db.Save(&organization).Error; err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{"success": true, "organization": organization})
	}
}

// UpdateItemsNeeded replaces the organization's needs list. Owner or
// admin only.
func UpdateItemsNeeded(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		role := models.UserRole(c.GetString("userRole"))

		orgID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			respondError(c, lifecycle.Validation("Invalid organization ID"))
			return
		}

		var organization models.Organization
		if err := db.First(&organization, orgID).Error; err != nil {
			respondError(c, lifecycle.NotFound("Organization not found"))
			return
		}

		if organization.UserID != userID && role != models.RoleAdmin {
			respondError(c, lifecycle.Authorization("Not authorized to update this organization"))
			return
		}

		var input struct {
			ItemsNeeded []struct {
				ItemType string `json:"itemType"`
				Quantity int    `json:"quantity"`
				Urgency  string `json:"urgency"`
			} `json:"itemsNeeded" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"success": false, "message": err.Error()})
			return
		}

		needs := make([]models.OrganizationNeed, 0, len(input.ItemsNeeded))
		for _, item := range input.ItemsNeeded {
			if !models.ValidItemType(item.ItemType) {
				respondError(c, lifecycle.Validation("Invalid item type"))
				return
			}
			if item.Quantity < 1 {
				respondError(c, lifecycle.Validation("Quantity must be at least 1"))
				return
			}
			urgency := item.Urgency
			if urgency == "" {
				urgency = "medium"
			}
			if !models.ValidUrgency(urgency) {
				respondError(c, lifecycle.Validation("Invalid urgency level"))
				return
			}
			needs = append(needs, models.OrganizationNeed{
				OrganizationID: organization.ID,
				ItemType:       item.ItemType,
				Quantity:       item.Quantity,
				Urgency:        urgency,
			})
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Unscoped().Where("organization_id = ?", organization.ID).
				Delete(&models.OrganizationNeed{}).Error; err != nil {
				return err
			}
			if len(needs) == 0 {
				return nil
			}
			return tx.Create(&needs).Error
		})
		if err != nil {
			respondError(c, err)
			return
		}

		organization.ItemsNeeded = needs
		c.JSON(200, gin.H{"success": true, "organization": organization})
	}
}

// DeleteOrganization removes an organization. Admin only (enforced by
// route middleware).
func DeleteOrganization(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var organization models.Organization
		if err := db.First(&organization, c.Param("id")).Error; err != nil {
			respondError(c, lifecycle.NotFound("Organization not found"))
			return
		}

		if err := db.Unscoped().Where("organization_id = ?", organization.ID).
			Delete(&models.OrganizationNeed{}).Error; err != nil {
			respondError(c, err)
			return
		}
		if err := db.Unscoped().Where("organization_id = ?", organization.ID).
			Delete(&models.OrganizationDocument{}).Error; err != nil {
			respondError(c, err)
			return
		}
		if err := db.Unscoped().Delete(&organization).Error; err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{"success": true, "message": "Organization deleted successfully"})
	}
}
