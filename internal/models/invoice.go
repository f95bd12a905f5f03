package models

import "time"

type Invoice struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PracticeID uint   `gorm:"not null;uniqueIndex:idx_invoice_practice_number" json:"practiceId"`
	Number     string `gorm:"size:32;not null;uniqueIndex:idx_invoice_practice_number" json:"number"`

	ClientID uint    `gorm:"not null;index" json:"clientId"`
	Client   *Client `json:"client,omitempty"`

	AppointmentID *uint `gorm:"index" json:"appointmentId"`

	IssuedAt time.Time `gorm:"not null" json:"issuedAt"`
	DueAt    time.Time `gorm:"not null" json:"dueAt"`
	Status   string    `gorm:"size:10;not null" json:"status"`

	SubtotalCents int64 `gorm:"not null" json:"subtotalCents"`
	TaxCents      int64 `gorm:"not null" json:"taxCents"`
	TotalCents    int64 `gorm:"not null" json:"totalCents"`

	Items    []InvoiceItem `gorm:"constraint:OnDelete:CASCADE;" json:"items"`
	Payments []Payment     `gorm:"constraint:OnDelete:CASCADE;" json:"payments"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type InvoiceItem struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	InvoiceID uint `gorm:"not null;index" json:"invoiceId"`

	Description    string  `gorm:"size:255;not null" json:"description"`
	Qty            int     `gorm:"not null" json:"qty"`
	UnitPriceCents int64   `gorm:"not null" json:"unitPriceCents"`
	TaxRate        float64 `gorm:"not null" json:"taxRate"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Payment struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	InvoiceID uint `gorm:"not null;index" json:"invoiceId"`

	AmountCents int64     `gorm:"not null" json:"amountCents"`
	Method      string    `gorm:"size:32;not null" json:"method"`
	PaidAt      time.Time `gorm:"not null" json:"paidAt"`

	CreatedAt time.Time `json:"createdAt"`
}
