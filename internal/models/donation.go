package models

import (
	"gorm.io/gorm"
)

type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "pending"
	DonationStatusApproved  DonationStatus = "approved"
	DonationStatusAssigned  DonationStatus = "assigned"
	DonationStatusPickedUp  DonationStatus = "picked-up"
	DonationStatusDelivered DonationStatus = "delivered"
	DonationStatusCompleted DonationStatus = "completed"
	DonationStatusCancelled DonationStatus = "cancelled"
)

// ValidDonationStatus reports whether s is a member of the status enum.
func ValidDonationStatus(s string) bool {
	switch DonationStatus(s) {
	case DonationStatusPending, DonationStatusApproved, DonationStatusAssigned,
		DonationStatusPickedUp, DonationStatusDelivered, DonationStatusCompleted,
		DonationStatusCancelled:
		return true
	}
	return false
}

// RequiresVolunteer reports whether a status implies an assigned volunteer.
func (s DonationStatus) RequiresVolunteer() bool {
	switch s {
	case DonationStatusAssigned, DonationStatusPickedUp,
		DonationStatusDelivered, DonationStatusCompleted:
		return true
	}
	return false
}

// ValidItemType reports whether s is a supported donation item type.
func ValidItemType(s string) bool {
	switch s {
	case "clothes", "food", "books", "toys", "electronics", "furniture", "medical", "other":
		return true
	}
	return false
}

// ValidCondition reports whether s is a supported item condition.
func ValidCondition(s string) bool {
	switch s {
	case "new", "like-new", "good", "fair":
		return true
	}
	return false
}

// MaxDonationImages caps the number of images per donation.
const MaxDonationImages = 5

// Address is a structured postal address embedded into owning records.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

type Donation struct {
	gorm.Model
	DonorID                uint            `json:"donorId" gorm:"not null;index"`
	Donor                  *User           `json:"donor,omitempty" gorm:"foreignKey:DonorID"`
	ItemType               string          `json:"itemType" gorm:"not null"`
	ItemName               string          `json:"itemName" gorm:"not null"`
	Description            string          `json:"description"`
	Quantity               int             `json:"quantity" gorm:"not null;check:quantity >= 1"`
	Condition              string          `json:"condition" gorm:"not null;default:'good'"`
	Images                 []DonationImage `json:"images" gorm:"foreignKey:DonationID"`
	PickupAddress          Address         `json:"pickupAddress" gorm:"embedded;embeddedPrefix:pickup_"`
	PreferredPickupTime    string          `json:"preferredPickupTime"`
	Notes                  string          `json:"notes"`
	Status                 DonationStatus  `json:"status" gorm:"not null;default:'pending';index"`
	AssignedVolunteerID    *uint           `json:"assignedVolunteerId,omitempty" gorm:"index"`
	AssignedVolunteer      *User           `json:"assignedVolunteer,omitempty" gorm:"foreignKey:AssignedVolunteerID"`
	AssignedOrganizationID *uint           `json:"assignedOrganizationId,omitempty"`
}

// TableName specifies the table name
func (Donation) TableName() string {
	return "donations"
}

// DonationImage is one uploaded image attached to a donation.
type DonationImage struct {
	gorm.Model
	DonationID uint   `json:"-" gorm:"not null;index"`
	URL        string `json:"url" gorm:"not null"`
}

// TableName specifies the table name
func (DonationImage) TableName() string {
	return "donation_images"
}
