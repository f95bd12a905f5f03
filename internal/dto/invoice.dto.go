package dto

import "time"

type InvoiceItemRequest struct {
	Description    string   `json:"description" binding:"required,max=255"`
	Qty            int      `json:"qty" binding:"required,min=1"`
	UnitPriceCents int64    `json:"unitPriceCents" binding:"min=0"`
	TaxRate        *float64 `json:"taxRate" binding:"omitempty,min=0,max=1"`
}

type CreateInvoiceRequest struct {
	ClientID uint                 `json:"clientId" binding:"required"`
	IssuedAt time.Time            `json:"issuedAt" binding:"required"`
	DueAt    time.Time            `json:"dueAt" binding:"required"`
	Status   string               `json:"status" binding:"omitempty,oneof=draft sent paid void"`
	Items    []InvoiceItemRequest `json:"items" binding:"dive"`
}

type InvoiceFromAppointmentRequest struct {
	AppointmentID uint `json:"appointmentId" binding:"required"`
}

type UpdateInvoiceRequest struct {
	Status *string    `json:"status" binding:"omitempty,oneof=draft sent paid void"`
	DueAt  *time.Time `json:"dueAt"`
}

type UpdateInvoiceItemRequest struct {
	Description    *string  `json:"description" binding:"omitempty,max=255"`
	Qty            *int     `json:"qty" binding:"omitempty,min=1"`
	UnitPriceCents *int64   `json:"unitPriceCents" binding:"omitempty,min=0"`
	TaxRate        *float64 `json:"taxRate" binding:"omitempty,min=0,max=1"`
}

type CreatePaymentRequest struct {
	AmountCents int64      `json:"amountCents" binding:"required,min=1"`
	Method      string     `json:"method" binding:"required,max=32"`
	PaidAt      *time.Time `json:"paidAt"`
}

type InvoiceListQuery struct {
	Status   string `form:"status"`
	ClientID uint   `form:"clientId"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}
