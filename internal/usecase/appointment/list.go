package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/equine-practice/internal/domain/appointment"
	"github.com/BruksfildServices01/equine-practice/internal/httperr"
	"github.com/BruksfildServices01/equine-practice/internal/models"
)

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Appointment, error) {

	if f.Status != "" && !domain.Status(f.Status).Valid() {
		return nil, httperr.ErrValidation("invalid_status")
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, httperr.ErrInvalidRange("invalid_time_range")
	}

	return uc.repo.ListAppointments(ctx, f)
}

type GetAppointment struct {
	repo domain.Repository
}

func NewGetAppointment(repo domain.Repository) *GetAppointment {
	return &GetAppointment{repo: repo}
}

func (uc *GetAppointment) Execute(
	ctx context.Context,
	practiceID uint,
	id uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, practiceID, id)
	if err != nil {
		return nil, notFound(err, "appointment_not_found")
	}
	return ap, nil
}
