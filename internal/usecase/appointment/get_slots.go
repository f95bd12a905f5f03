package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/equine-practice/internal/domain/appointment"
	"github.com/BruksfildServices01/equine-practice/internal/timezone"
)

// GetSlots lists bookable start times for one practitioner on one day.
type GetSlots struct {
	repo            domain.Repository
	ignoreCancelled bool
}

func NewGetSlots(repo domain.Repository, ignoreCancelled bool) *GetSlots {
	return &GetSlots{repo: repo, ignoreCancelled: ignoreCancelled}
}

func (uc *GetSlots) Execute(
	ctx context.Context,
	in domain.SlotQuery,
) ([]domain.TimeSlot, error) {

	practice, err := uc.repo.GetPractice(ctx, in.PracticeID)
	if err != nil {
		return nil, notFound(err, "practice_not_found")
	}

	if _, err := uc.repo.GetPractitioner(ctx, in.PracticeID, in.PractitionerID); err != nil {
		return nil, notFound(err, "practitioner_not_found")
	}

	service, err := uc.repo.GetService(ctx, in.PracticeID, in.ServiceID)
	if err != nil {
		return nil, notFound(err, "service_not_found")
	}

	loc := timezone.Location(practice.Timezone)
	day := time.Date(in.Date.Year(), in.Date.Month(), in.Date.Day(), 0, 0, 0, 0, loc)

	windows, err := uc.repo.ListAvailabilityForWeekday(ctx, in.PractitionerID, int(day.Weekday()))
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return []domain.TimeSlot{}, nil
	}

	booked, err := uc.repo.ListBookedForPeriod(
		ctx,
		in.PracticeID,
		in.PractitionerID,
		day,
		day.AddDate(0, 0, 1),
		uc.ignoreCancelled,
	)
	if err != nil {
		return nil, err
	}

	duration := time.Duration(service.DurationMins) * time.Minute
	return domain.FreeSlots(day, loc, windows, booked, duration), nil
}
