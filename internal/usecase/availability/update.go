package availability

import (
	"context"
	"time"

	"github.com/BruksfildServices01/equine-practice/internal/audit"
	domain "github.com/BruksfildServices01/equine-practice/internal/domain/availability"
	"github.com/BruksfildServices01/equine-practice/internal/locker"
	"github.com/BruksfildServices01/equine-practice/internal/models"
)

// UpdateAvailabilityInput is partial; nil fields keep their stored value.
type UpdateAvailabilityInput struct {
	PracticeID uint
	ActorID    *uint
	ID         uint

	PractitionerID *uint
	Weekday        *int
	StartTime      *string
	EndTime        *string
	EffectiveFrom  *time.Time
	EffectiveTo    *time.Time
}

type UpdateAvailability struct {
	repo  domain.Repository
	locks locker.Locker
	audit *audit.Dispatcher
}

func NewUpdateAvailability(
	repo domain.Repository,
	locks locker.Locker,
	audit *audit.Dispatcher,
) *UpdateAvailability {
	return &UpdateAvailability{repo: repo, locks: locks, audit: audit}
}

func (uc *UpdateAvailability) Execute(
	ctx context.Context,
	in UpdateAvailabilityInput,
) (*models.Availability, error) {

	a, err := uc.repo.Get(ctx, in.PracticeID, in.ID)
	if err != nil {
		return nil, notFound(err, "availability_not_found")
	}

	if in.PractitionerID != nil && *in.PractitionerID != a.PractitionerID {
		if _, err := uc.repo.GetPractitioner(ctx, in.PracticeID, *in.PractitionerID); err != nil {
			return nil, notFound(err, "practitioner_not_found")
		}
		a.PractitionerID = *in.PractitionerID
	}
	if in.Weekday != nil {
		a.Weekday = *in.Weekday
	}
	if in.StartTime != nil {
		a.StartTime = *in.StartTime
	}
	if in.EndTime != nil {
		a.EndTime = *in.EndTime
	}
	if in.EffectiveFrom != nil {
		a.EffectiveFrom = toDate(in.EffectiveFrom)
	}
	if in.EffectiveTo != nil {
		a.EffectiveTo = toDate(in.EffectiveTo)
	}

	if err := validateWindow(a.Weekday, a.StartTime, a.EndTime); err != nil {
		return nil, err
	}
	if a.EffectiveFrom != nil && a.EffectiveTo != nil {
		from, to := time.Time(*a.EffectiveFrom), time.Time(*a.EffectiveTo)
		if err := validateEffective(&from, &to); err != nil {
			return nil, err
		}
	}

	unlock, err := uc.locks.Lock(ctx, locker.PractitionerKey(a.PractitionerID))
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
			ExcludeID:      a.ID,
		}); err != nil {
			return err
		}
		return tx.Update(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		PracticeID: in.PracticeID,
		UserID:     in.ActorID,
		Action:     "update",
		EntityType: "availability",
		EntityID:   a.ID,
		Diff:       a,
	})

	return a, nil
}
