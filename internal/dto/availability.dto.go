package dto

type CreateAvailabilityRequest struct {
	PractitionerID uint    `json:"practitionerId" binding:"required"`
	Weekday        *int    `json:"weekday" binding:"required,min=0,max=6"`
	StartTime      string  `json:"startTime" binding:"required,clock"`
	EndTime        string  `json:"endTime" binding:"required,clock"`
	EffectiveFrom  *string `json:"effectiveFrom" binding:"omitempty,datetime=2006-01-02"`
	EffectiveTo    *string `json:"effectiveTo" binding:"omitempty,datetime=2006-01-02"`
}

type UpdateAvailabilityRequest struct {
	PractitionerID *uint   `json:"practitionerId"`
	Weekday        *int    `json:"weekday" binding:"omitempty,min=0,max=6"`
	StartTime      *string `json:"startTime" binding:"omitempty,clock"`
	EndTime        *string `json:"endTime" binding:"omitempty,clock"`
	EffectiveFrom  *string `json:"effectiveFrom" binding:"omitempty,datetime=2006-01-02"`
	EffectiveTo    *string `json:"effectiveTo" binding:"omitempty,datetime=2006-01-02"`
}

type SlotsQuery struct {
	PractitionerID uint   `form:"practitionerId" binding:"required"`
	ServiceID      uint   `form:"serviceId" binding:"required"`
	Date           string `form:"date" binding:"required,datetime=2006-01-02"`
}
