package appointment

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/equine-practice/internal/audit"
	domain "github.com/BruksfildServices01/equine-practice/internal/domain/appointment"
	"github.com/BruksfildServices01/equine-practice/internal/domain/schedule"
	"github.com/BruksfildServices01/equine-practice/internal/httperr"
	"github.com/BruksfildServices01/equine-practice/internal/locker"
	"github.com/BruksfildServices01/equine-practice/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	PracticeID uint
	ActorID    *uint

	PractitionerID uint
	ClientID       uint
	HorseID        *uint
	ServiceID      uint

	Start        time.Time
	End          time.Time
	Status       string
	LocationText string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo            domain.Repository
	locks           locker.Locker
	audit           *audit.Dispatcher
	ignoreCancelled bool
}

func NewCreateAppointment(
	repo domain.Repository,
	locks locker.Locker,
	audit *audit.Dispatcher,
	ignoreCancelled bool,
) *CreateAppointment {
	return &CreateAppointment{
		repo:            repo,
		locks:           locks,
		audit:           audit,
		ignoreCancelled: ignoreCancelled,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	start, end := in.Start.UTC(), in.End.UTC()
	if !schedule.ValidRange(start.UnixNano(), end.UnixNano()) {
		return nil, httperr.ErrInvalidRange("invalid_time_range")
	}

	status := domain.InitialStatus()
	if in.Status != "" {
		status = domain.Status(in.Status)
		if !status.Valid() {
			return nil, httperr.ErrValidation("invalid_status")
		}
	}

	// --------------------------------------------------
	// References must belong to the caller's practice
	// --------------------------------------------------
	if _, err := uc.repo.GetPractitioner(ctx, in.PracticeID, in.PractitionerID); err != nil {
		return nil, notFound(err, "practitioner_not_found")
	}
	if _, err := uc.repo.GetClient(ctx, in.PracticeID, in.ClientID); err != nil {
		return nil, notFound(err, "client_not_found")
	}
	if _, err := uc.repo.GetService(ctx, in.PracticeID, in.ServiceID); err != nil {
		return nil, notFound(err, "service_not_found")
	}
	if in.HorseID != nil {
		if _, err := uc.repo.GetHorse(ctx, in.PracticeID, *in.HorseID); err != nil {
			return nil, notFound(err, "horse_not_found")
		}
	}

	ap := &models.Appointment{
		PracticeID:     in.PracticeID,
		PractitionerID: in.PractitionerID,
		ClientID:       in.ClientID,
		HorseID:        in.HorseID,
		ServiceID:      in.ServiceID,
		StartTime:      start,
		EndTime:        end,
		Status:         string(domain.InitialStatus()),
		LocationText:   in.LocationText,
	}
	if err := domain.ApplyStatus(ap, status, time.Now().UTC()); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Conflict check + insert, serialised per practitioner
	// --------------------------------------------------
	unlock, err := uc.locks.Lock(ctx, locker.PractitionerKey(in.PractitionerID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := tx.AssertNoTimeConflict(ctx, domain.ConflictQuery{
			PracticeID:      in.PracticeID,
			PractitionerID:  in.PractitionerID,
			Start:           start,
			End:             end,
			IgnoreCancelled: uc.ignoreCancelled,
		}); err != nil {
			return err
		}
		return tx.CreateAppointment(ctx, ap)
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
		Action:     "create",
		EntityType: "appointment",
		EntityID:   ap.ID,
		Diff: map[string]any{
			"practitionerId": ap.PractitionerID,
			"clientId":       ap.ClientID,
			"horseId":        ap.HorseID,
			"serviceId":      ap.ServiceID,
			"start":          ap.StartTime,
			"end":            ap.EndTime,
			"status":         ap.Status,
		},
	})

	return uc.repo.GetAppointment(ctx, in.PracticeID, ap.ID)
}

func notFound(err error, code string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound(code)
	}
	return err
}
