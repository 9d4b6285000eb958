package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleDonor        UserRole = "donor"
	RoleVolunteer    UserRole = "volunteer"
	RoleOrganization UserRole = "organization"
	RoleAdmin        UserRole = "admin"
)

// ValidRole reports whether s is one of the defined user roles.
func ValidRole(s string) bool {
	switch UserRole(s) {
	case RoleDonor, RoleVolunteer, RoleOrganization, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	gorm.Model
	Name         string   `gorm:"not null" json:"name"`
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	Password     string   `gorm:"not null" json:"-"`
	Phone        string   `json:"phone"`
	Address      string   `json:"address"`
	ProfileImage string   `json:"profileImage"`
	Role         UserRole `gorm:"not null;default:'donor'" json:"role"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

func (u *User) HashPassword() error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}
