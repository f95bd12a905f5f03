package availability

import (
	"context"

	"github.com/BruksfildServices01/equine-practice/internal/models"
)

// ConflictQuery selects rules of one practitioner on one weekday whose
// [StartTime, EndTime) overlaps the given clock range.
type ConflictQuery struct {
	PractitionerID uint
	Weekday        int
	StartTime      string
	EndTime        string
	ExcludeID      uint
}

type Repository interface {
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	GetPractitioner(ctx context.Context, practiceID, userID uint) (*models.User, error)
	Get(ctx context.Context, practiceID, id uint) (*models.Availability, error)
	List(ctx context.Context, practiceID, practitionerID uint) ([]models.Availability, error)

	AssertNoOverlap(ctx context.Context, q ConflictQuery) error
	Create(ctx context.Context, a *models.Availability) error
	Update(ctx context.Context, a *models.Availability) error
	Delete(ctx context.Context, a *models.Availability) error
}
