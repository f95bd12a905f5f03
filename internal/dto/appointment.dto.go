package dto

import "time"

type CreateAppointmentRequest struct {
	PractitionerID uint      `json:"practitionerId" binding:"required"`
	ClientID       uint      `json:"clientId" binding:"required"`
	HorseID        *uint     `json:"horseId"`
	ServiceID      uint      `json:"serviceId" binding:"required"`
	Start          time.Time `json:"start" binding:"required"`
	End            time.Time `json:"end" binding:"required"`
	Status         string    `json:"status" binding:"omitempty,oneof=scheduled confirmed completed cancelled"`
	LocationText   string    `json:"locationText" binding:"max=255"`
}

type UpdateAppointmentRequest struct {
	PractitionerID *uint      `json:"practitionerId"`
	ClientID       *uint      `json:"clientId"`
	HorseID        NullableID `json:"horseId"`
	ServiceID      *uint      `json:"serviceId"`
	Start          *time.Time `json:"start"`
	End            *time.Time `json:"end"`
	Status         *string    `json:"status" binding:"omitempty,oneof=scheduled confirmed completed cancelled"`
	LocationText   *string    `json:"locationText" binding:"omitempty,max=255"`
}

type AppointmentListQuery struct {
	// RFC 3339 instants or YYYY-MM-DD dates.
	From           string `form:"from"`
	To             string `form:"to"`
	PractitionerID uint   `form:"practitionerId"`
	ClientID       uint   `form:"clientId"`
	Status         string `form:"status"`
}
