package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PracticeID uint `gorm:"not null;index" json:"practiceId"`

	PractitionerID uint  `gorm:"not null;index" json:"practitionerId"`
	Practitioner   *User `json:"practitioner,omitempty"`

	ClientID uint    `gorm:"not null;index" json:"clientId"`
	Client   *Client `json:"client,omitempty"`

	HorseID *uint  `json:"horseId"`
	Horse   *Horse `gorm:"constraint:OnDelete:SET NULL;" json:"horse,omitempty"`

	ServiceID uint     `gorm:"not null" json:"serviceId"`
	Service   *Service `json:"service,omitempty"`

	StartTime time.Time `gorm:"not null;index" json:"start"`
	EndTime   time.Time `gorm:"not null" json:"end"`

	Status       string `gorm:"size:20;not null" json:"status"`
	LocationText string `gorm:"size:255" json:"locationText"`

	CancelledAt *time.Time `json:"cancelledAt"`
	CompletedAt *time.Time `json:"completedAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
