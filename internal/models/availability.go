package models

import (
	"time"

	"gorm.io/datatypes"
)

// Availability is a recurring weekly window in which a practitioner works.
// StartTime/EndTime are "HH:MM" wall-clock strings in the practice timezone.
type Availability struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PractitionerID uint  `gorm:"not null;index:idx_availability_slot" json:"practitionerId"`
	Practitioner   *User `gorm:"constraint:OnDelete:CASCADE;" json:"practitioner,omitempty"`

	Weekday   int    `gorm:"not null;index:idx_availability_slot" json:"weekday"`
	StartTime string `gorm:"size:5;not null" json:"startTime"`
	EndTime   string `gorm:"size:5;not null" json:"endTime"`

	EffectiveFrom *datatypes.Date `json:"effectiveFrom"`
	EffectiveTo   *datatypes.Date `json:"effectiveTo"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EffectiveOn reports whether the rule applies on the calendar day of d.
func (a *Availability) EffectiveOn(d time.Time) bool {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)

	if a.EffectiveFrom != nil && day.Before(dateOnly(time.Time(*a.EffectiveFrom))) {
		return false
	}
	if a.EffectiveTo != nil && day.After(dateOnly(time.Time(*a.EffectiveTo))) {
		return false
	}
	return true
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
