package models

import "time"

// Client is a horse owner. Clients do not log in.
type Client struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	PracticeID uint `gorm:"not null;index" json:"practiceId"`

	FirstName string `gorm:"size:100;not null" json:"firstName"`
	LastName  string `gorm:"size:100;not null" json:"lastName"`
	Email     string `gorm:"size:100" json:"email"`
	Phone     string `gorm:"size:20" json:"phone"`
	Address   string `gorm:"size:255" json:"address"`
	Notes     string `gorm:"type:text" json:"notes"`

	Horses []Horse `gorm:"constraint:OnDelete:CASCADE;" json:"horses,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Horse struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	ClientID uint    `gorm:"not null;index" json:"clientId"`
	Client   *Client `json:"client,omitempty"`

	Name     string `gorm:"size:100;not null" json:"name"`
	Breed    string `gorm:"size:100" json:"breed"`
	Age      *int   `json:"age"`
	Notes    string `gorm:"type:text" json:"notes"`
	PhotoKey string `gorm:"size:255" json:"photoKey"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
