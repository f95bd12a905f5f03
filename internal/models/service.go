package models

import "time"

// Service is a billable, schedulable offering (farrier visit, dental float...).
type Service struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	PracticeID uint `gorm:"not null;index" json:"practiceId"`

	Name         string  `gorm:"size:100;not null" json:"name"`
	Description  string  `gorm:"size:255" json:"description"`
	DurationMins int     `gorm:"not null" json:"durationMins"`
	PriceCents   int64   `gorm:"not null" json:"priceCents"`
	TaxRate      float64 `gorm:"not null" json:"taxRate"`
	IsActive     bool    `gorm:"not null" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
