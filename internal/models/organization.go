package models

import (
	"gorm.io/gorm"
)

// ValidOrganizationType reports whether s is a supported organization type.
func ValidOrganizationType(s string) bool {
	switch s {
	case "ngo", "charity", "foundation", "community", "religious", "other":
		return true
	}
	return false
}

// ValidUrgency reports whether s is a supported need urgency level.
func ValidUrgency(s string) bool {
	switch s {
	case "low", "medium", "high", "critical":
		return true
	}
	return false
}

type Organization struct {
	gorm.Model
	UserID                 uint                   `json:"userId" gorm:"uniqueIndex;not null"`
	User                   *User                  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Name                   string                 `json:"name" gorm:"not null"`
	Type                   string                 `json:"type" gorm:"not null"`
	Description            string                 `json:"description"`
	RegistrationNumber     *string                `json:"registrationNumber,omitempty" gorm:"uniqueIndex"`
	Address                Address                `json:"address" gorm:"embedded;embeddedPrefix:address_"`
	ContactName            string                 `json:"contactName"`
	ContactPhone           string                 `json:"contactPhone"`
	ContactEmail           string                 `json:"contactEmail"`
	Website                string                 `json:"website"`
	Logo                   string                 `json:"logo"`
	ItemsNeeded            []OrganizationNeed     `json:"itemsNeeded" gorm:"foreignKey:OrganizationID"`
	IsVerified             bool                   `json:"isVerified" gorm:"not null;default:false"`
	VerificationDocuments  []OrganizationDocument `json:"verificationDocuments" gorm:"foreignKey:OrganizationID"`
	Rating                 float64                `json:"rating" gorm:"not null;default:0;check:rating >= 0 AND rating <= 5"`
	TotalDonationsReceived int                    `json:"totalDonationsReceived" gorm:"not null;default:0"`
}

// TableName specifies the table name
func (Organization) TableName() string {
	return "organizations"
}

// OrganizationNeed is one item an organization is currently asking for.
type OrganizationNeed struct {
	gorm.Model
	OrganizationID uint   `json:"-" gorm:"not null;index"`
	ItemType       string `json:"itemType" gorm:"not null"`
	Quantity       int    `json:"quantity" gorm:"not null"`
	Urgency        string `json:"urgency" gorm:"not null;default:'medium'"`
}

// TableName specifies the table name
func (OrganizationNeed) TableName() string {
	return "organization_needs"
}

// OrganizationDocument is one uploaded verification document.
type OrganizationDocument struct {
	gorm.Model
	OrganizationID uint   `json:"-" gorm:"not null;index"`
	URL            string `json:"url" gorm:"not null"`
}

// TableName specifies the table name
func (OrganizationDocument) TableName() string {
	return "organization_documents"
}
