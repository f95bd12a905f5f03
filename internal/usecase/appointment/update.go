package appointment

import (
	"context"
	"sort"
	"time"

	"github.com/BruksfildServices01/equine-practice/internal/audit"
	domain "github.com/BruksfildServices01/equine-practice/internal/domain/appointment"
	"github.com/BruksfildServices01/equine-practice/internal/domain/schedule"
	"github.com/BruksfildServices01/equine-practice/internal/httperr"
	"github.com/BruksfildServices01/equine-practice/internal/locker"
	"github.com/BruksfildServices01/equine-practice/internal/models"
)

// UpdateAppointmentInput carries a partial update; nil means "keep".
// HorseSet distinguishes an explicit null (clear the horse) from absence.
type UpdateAppointmentInput struct {
	PracticeID uint
	ActorID    *uint
	ID         uint

	PractitionerID *uint
	ClientID       *uint
	ServiceID      *uint
	HorseSet       bool
	HorseID        *uint

	Start        *time.Time
	End          *time.Time
	Status       *string
	LocationText *string
}

type UpdateAppointment struct {
	repo            domain.Repository
	locks           locker.Locker
	audit           *audit.Dispatcher
	ignoreCancelled bool
}

func NewUpdateAppointment(
	repo domain.Repository,
	locks locker.Locker,
	audit *audit.Dispatcher,
	ignoreCancelled bool,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:            repo,
		locks:           locks,
		audit:           audit,
		ignoreCancelled: ignoreCancelled,
	}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	current, err := uc.repo.GetAppointment(ctx, in.PracticeID, in.ID)
	if err != nil {
		return nil, notFound(err, "appointment_not_found")
	}

	// Both the old and the new practitioner calendars are held while the
	// row is re-read and written.
	keys := []uint{current.PractitionerID}
	if in.PractitionerID != nil && *in.PractitionerID != current.PractitionerID {
		keys = append(keys, *in.PractitionerID)
	}
	unlock, err := uc.lockPractitioners(ctx, keys)
	if err != nil {
		return nil, err
	}
	defer unlock()

	ap, err := uc.repo.GetAppointment(ctx, in.PracticeID, in.ID)
	if err != nil {
		return nil, notFound(err, "appointment_not_found")
	}

	diff, err := uc.apply(ctx, ap, in)
	if err != nil {
		return nil, err
	}

	checkConflict := !(uc.ignoreCancelled && ap.Status == string(domain.StatusCancelled))

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if checkConflict {
			if err := tx.AssertNoTimeConflict(ctx, domain.ConflictQuery{
				PracticeID:      in.PracticeID,
				PractitionerID:  ap.PractitionerID,
				Start:           ap.StartTime,
				End:             ap.EndTime,
				ExcludeID:       ap.ID,
				IgnoreCancelled: uc.ignoreCancelled,
			}); err != nil {
				return err
			}
		}
		return tx.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		if httperr.IsExclusionConflict(err) {
			return nil, httperr.ErrConflict("appointment_conflict")
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		PracticeID: in.PracticeID,
		UserID:     in.ActorID,
		Action:     "update",
		EntityType: "appointment",
		EntityID:   ap.ID,
		Diff:       diff,
	})

	return uc.repo.GetAppointment(ctx, in.PracticeID, ap.ID)
}

// lockPractitioners takes the keys in ascending id order.
func (uc *UpdateAppointment) lockPractitioners(ctx context.Context, ids []uint) (func(), error) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var held []func()
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i]()
		}
	}
	for _, id := range ids {
		unlock, err := uc.locks.Lock(ctx, locker.PractitionerKey(id))
		if err != nil {
			release()
			return nil, err
		}
		held = append(held, unlock)
	}
	return release, nil
}

func (uc *UpdateAppointment) apply(
	ctx context.Context,
	ap *models.Appointment,
	in UpdateAppointmentInput,
) (map[string]any, error) {

	diff := map[string]any{}

	if in.Start != nil && !in.Start.UTC().Equal(ap.StartTime) {
		ap.StartTime = in.Start.UTC()
		diff["start"] = ap.StartTime
	}
	if in.End != nil && !in.End.UTC().Equal(ap.EndTime) {
		ap.EndTime = in.End.UTC()
		diff["end"] = ap.EndTime
	}
	if !schedule.ValidRange(ap.StartTime.UnixNano(), ap.EndTime.UnixNano()) {
		return nil, httperr.ErrInvalidRange("invalid_time_range")
	}

	if in.PractitionerID != nil && *in.PractitionerID != ap.PractitionerID {
		if _, err := uc.repo.GetPractitioner(ctx, in.PracticeID, *in.PractitionerID); err != nil {
			return nil, notFound(err, "practitioner_not_found")
		}
		ap.PractitionerID = *in.PractitionerID
		ap.Practitioner = nil
		diff["practitionerId"] = ap.PractitionerID
	}

	if in.ClientID != nil && *in.ClientID != ap.ClientID {
		if _, err := uc.repo.GetClient(ctx, in.PracticeID, *in.ClientID); err != nil {
			return nil, notFound(err, "client_not_found")
		}
		ap.ClientID = *in.ClientID
		ap.Client = nil
		diff["clientId"] = ap.ClientID
	}

	if in.ServiceID != nil && *in.ServiceID != ap.ServiceID {
		if _, err := uc.repo.GetService(ctx, in.PracticeID, *in.ServiceID); err != nil {
			return nil, notFound(err, "service_not_found")
		}
		ap.ServiceID = *in.ServiceID
		ap.Service = nil
		diff["serviceId"] = ap.ServiceID
	}

	if in.HorseSet {
		if in.HorseID != nil {
			if _, err := uc.repo.GetHorse(ctx, in.PracticeID, *in.HorseID); err != nil {
				return nil, notFound(err, "horse_not_found")
			}
		}
		ap.HorseID = in.HorseID
		ap.Horse = nil
		diff["horseId"] = ap.HorseID
	}

	if in.LocationText != nil {
		ap.LocationText = *in.LocationText
		diff["locationText"] = ap.LocationText
	}

	if in.Status != nil && *in.Status != ap.Status {
		if err := domain.ApplyStatus(ap, domain.Status(*in.Status), time.Now().UTC()); err != nil {
			return nil, err
		}
		diff["status"] = ap.Status
	}

	return diff, nil
}
