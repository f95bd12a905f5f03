package availability

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/equine-practice/internal/audit"
	domain "github.com/BruksfildServices01/equine-practice/internal/domain/availability"
	"github.com/BruksfildServices01/equine-practice/internal/domain/schedule"
	"github.com/BruksfildServices01/equine-practice/internal/httperr"
	"github.com/BruksfildServices01/equine-practice/internal/locker"
	"github.com/BruksfildServices01/equine-practice/internal/models"
)

type CreateAvailabilityInput struct {
	PracticeID uint
	ActorID    *uint

	PractitionerID uint
	Weekday        int
	StartTime      string
	EndTime        string
	EffectiveFrom  *time.Time
	EffectiveTo    *time.Time
}

type CreateAvailability struct {
	repo  domain.Repository
	locks locker.Locker
	audit *audit.Dispatcher
}

func NewCreateAvailability(
	repo domain.Repository,
	locks locker.Locker,
	audit *audit.Dispatcher,
) *CreateAvailability {
	return &CreateAvailability{repo: repo, locks: locks, audit: audit}
}

func (uc *CreateAvailability) Execute(
	ctx context.Context,
	in CreateAvailabilityInput,
) (*models.Availability, error) {

	if err := validateWindow(in.Weekday, in.StartTime, in.EndTime); err != nil {
		return nil, err
	}
	if err := validateEffective(in.EffectiveFrom, in.EffectiveTo); err != nil {
		return nil, err
	}

	if _, err := uc.repo.GetPractitioner(ctx, in.PracticeID, in.PractitionerID); err != nil {
		return nil, notFound(err, "practitioner_not_found")
	}

	a := &models.Availability{
		PractitionerID: in.PractitionerID,
		Weekday:        in.Weekday,
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		EffectiveFrom:  toDate(in.EffectiveFrom),
		EffectiveTo:    toDate(in.EffectiveTo),
	}

	unlock, err := uc.locks.Lock(ctx, locker.PractitionerKey(in.PractitionerID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := tx.AssertNoOverlap(ctx, domain.ConflictQuery{
			PractitionerID: a.PractitionerID,
			Weekday:        a.Weekday,
			StartTime:      a.StartTime,
			EndTime:        a.EndTime,
		}); err != nil {
			return err
		}
		return tx.Create(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		PracticeID: in.PracticeID,
		UserID:     in.ActorID,
		Action:     "create",
		EntityType: "availability",
		EntityID:   a.ID,
		Diff:       a,
	})

	return a, nil
}

// --------------------------------------------------
// Shared rules
// --------------------------------------------------

func validateWindow(weekday int, start, end string) error {
	if weekday < 0 || weekday > 6 {
		return httperr.ErrValidation("invalid_weekday")
	}
	if !schedule.ValidClock(start) || !schedule.ValidClock(end) {
		return httperr.ErrValidation("invalid_clock")
	}
	if !schedule.ValidRange(start, end) {
		return httperr.ErrInvalidRange("invalid_time_range")
	}
	return nil
}

func validateEffective(from, to *time.Time) error {
	if from != nil && to != nil && to.Before(*from) {
		return httperr.ErrInvalidRange("invalid_effective_range")
	}
	return nil
}

func toDate(t *time.Time) *datatypes.Date {
	if t == nil {
		return nil
	}
	d := datatypes.Date(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
	return &d
}

func notFound(err error, code string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound(code)
	}
	return err
}
