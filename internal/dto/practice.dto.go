package dto

type ClientRequest struct {
	FirstName string `json:"firstName" binding:"required,max=100"`
	LastName  string `json:"lastName" binding:"required,max=100"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone" binding:"max=20"`
	Address   string `json:"address" binding:"max=255"`
	Notes     string `json:"notes"`
}

type HorseRequest struct {
	ClientID uint   `json:"clientId" binding:"required"`
	Name     string `json:"name" binding:"required,max=100"`
	Breed    string `json:"breed" binding:"max=100"`
	Age      *int   `json:"age" binding:"omitempty,min=0,max=60"`
	Notes    string `json:"notes"`
}

type ServiceRequest struct {
	Name         string   `json:"name" binding:"required,max=100"`
	Description  string   `json:"description"`
	DurationMins int      `json:"durationMins" binding:"required,min=5,max=480"`
	PriceCents   int64    `json:"priceCents" binding:"min=0"`
	TaxRate      *float64 `json:"taxRate" binding:"omitempty,min=0,max=1"`
	IsActive     *bool    `json:"isActive"`
}

type PracticeUpdateRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=100"`
	Phone    *string `json:"phone" binding:"omitempty,max=20"`
	Address  *string `json:"address" binding:"omitempty,max=255"`
	Timezone *string `json:"timezone" binding:"omitempty,tz"`
}

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=owner practitioner receptionist read_only"`
}

type RegisterRequest struct {
	PracticeName     string `json:"practiceName" binding:"required"`
	PracticeSlug     string `json:"practiceSlug" binding:"required"`
	PracticeTimezone string `json:"practiceTimezone" binding:"omitempty,tz"`
	PracticePhone    string `json:"practicePhone"`

	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
