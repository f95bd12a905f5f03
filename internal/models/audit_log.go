package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PracticeID uint   `gorm:"not null;index" json:"practiceId"`
	UserID     *uint  `json:"userId"`
	Action     string `gorm:"size:50;not null" json:"action"`

	EntityType string         `gorm:"size:50;index" json:"entityType"`
	EntityID   uint           `json:"entityId"`
	Diff       datatypes.JSON `json:"diff"`

	CreatedAt time.Time `json:"createdAt"`
}
