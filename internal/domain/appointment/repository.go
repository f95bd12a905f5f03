package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/equine-practice/internal/models"
)

// ConflictQuery selects bookings of one practitioner overlapping [Start, End).
type ConflictQuery struct {
	PracticeID      uint
	PractitionerID  uint
	Start           time.Time
	End             time.Time
	ExcludeID       uint
	IgnoreCancelled bool
}

type ListFilter struct {
	PracticeID     uint
	PractitionerID uint
	ClientID       uint
	Status         string
	From           *time.Time
	To             *time.Time
}

type Repository interface {
	// Transaction runs fn against a repository bound to one database transaction.
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	// -------- Tenant lookups --------
	GetPractice(ctx context.Context, id uint) (*models.Practice, error)
	GetPractitioner(ctx context.Context, practiceID, userID uint) (*models.User, error)
	GetClient(ctx context.Context, practiceID, clientID uint) (*models.Client, error)
	GetHorse(ctx context.Context, practiceID, horseID uint) (*models.Horse, error)
	GetService(ctx context.Context, practiceID, serviceID uint) (*models.Service, error)

	// -------- Appointment --------
	AssertNoTimeConflict(ctx context.Context, q ConflictQuery) error
	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error
	GetAppointment(ctx context.Context, practiceID, id uint) (*models.Appointment, error)
	ListAppointments(ctx context.Context, f ListFilter) ([]models.Appointment, error)

	// -------- Slots --------
	ListAvailabilityForWeekday(ctx context.Context, practitionerID uint, weekday int) ([]models.Availability, error)
	ListBookedForPeriod(
		ctx context.Context,
		practiceID uint,
		practitionerID uint,
		start time.Time,
		end time.Time,
		ignoreCancelled bool,
	) ([]models.Appointment, error)
}
