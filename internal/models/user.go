package models

import "time"

const (
	RoleOwner        = "owner"
	RolePractitioner = "practitioner"
	RoleReceptionist = "receptionist"
	RoleReadOnly     = "read_only"
)

func ValidRole(role string) bool {
	switch role {
	case RoleOwner, RolePractitioner, RoleReceptionist, RoleReadOnly:
		return true
	}
	return false
}

type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PracticeID uint      `gorm:"not null;index" json:"practiceId"`
	Practice   *Practice `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"practice,omitempty"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;not null" json:"role"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
