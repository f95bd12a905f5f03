package availability

import (
	"context"

	"github.com/BruksfildServices01/equine-practice/internal/audit"
	domain "github.com/BruksfildServices01/equine-practice/internal/domain/availability"
	"github.com/BruksfildServices01/equine-practice/internal/models"
)

type DeleteAvailability struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteAvailability(repo domain.Repository, audit *audit.Dispatcher) *DeleteAvailability {
	return &DeleteAvailability{repo: repo, audit: audit}
}

func (uc *DeleteAvailability) Execute(
	ctx context.Context,
	practiceID uint,
	actorID *uint,
	id uint,
) error {

	a, err := uc.repo.Get(ctx, practiceID, id)
	if err != nil {
		return notFound(err, "availability_not_found")
	}

	if err := uc.repo.Delete(ctx, a); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		PracticeID: practiceID,
		UserID:     actorID,
		Action:     "delete",
		EntityType: "availability",
		EntityID:   a.ID,
	})

	return nil
}

type ListAvailability struct {
	repo domain.Repository
}

func NewListAvailability(repo domain.Repository) *ListAvailability {
	return &ListAvailability{repo: repo}
}

func (uc *ListAvailability) Execute(
	ctx context.Context,
	practiceID uint,
	practitionerID uint,
) ([]models.Availability, error) {
	return uc.repo.List(ctx, practiceID, practitionerID)
}

type GetAvailability struct {
	repo domain.Repository
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	practiceID uint,
	id uint,
) (*models.Availability, error) {

	a, err := uc.repo.Get(ctx, practiceID, id)
	if err != nil {
		return nil, notFound(err, "availability_not_found")
	}
	return a, nil
}
