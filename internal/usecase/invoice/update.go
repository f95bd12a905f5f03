package invoice

import (
	"context"
	"time"

	"github.com/BruksfildServices01/equine-practice/internal/audit"
	domain "github.com/BruksfildServices01/equine-practice/internal/domain/invoice"
	"github.com/BruksfildServices01/equine-practice/internal/httperr"
	"github.com/BruksfildServices01/equine-practice/internal/models"
)

type UpdateInvoiceInput struct {
	PracticeID uint
	ActorID    *uint
	ID         uint

	Status *string
	DueAt  *time.Time
}

type UpdateInvoice struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateInvoice(repo domain.Repository, audit *audit.Dispatcher) *UpdateInvoice {
	return &UpdateInvoice{repo: repo, audit: audit}
}

func (uc *UpdateInvoice) Execute(
	ctx context.Context,
	in UpdateInvoiceInput,
) (*models.Invoice, error) {

	inv, err := uc.repo.Get(ctx, in.PracticeID, in.ID)
	if err != nil {
		return nil, notFound(err, "invoice_not_found")
	}

	diff := map[string]any{}

	if in.Status != nil && *in.Status != inv.Status {
		if !domain.Status(*in.Status).Valid() {
			return nil, httperr.ErrValidation("invalid_status")
		}
		inv.Status = *in.Status
		diff["status"] = inv.Status
	}
	if in.DueAt != nil {
		due := in.DueAt.UTC()
		if due.Before(inv.IssuedAt) {
			return nil, httperr.ErrInvalidRange("due_before_issue")
		}
		inv.DueAt = due
		diff["dueAt"] = inv.DueAt
	}

	if err := uc.repo.UpdateHeader(ctx, inv); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		PracticeID: in.PracticeID,
		UserID:     in.ActorID,
		Action:     "update",
		EntityType: "invoice",
		EntityID:   inv.ID,
		Diff:       diff,
	})

	return uc.repo.Get(ctx, in.PracticeID, inv.ID)
}

// VoidInvoice is the delete operation: invoices are never removed.
type VoidInvoice struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewVoidInvoice(repo domain.Repository, audit *audit.Dispatcher) *VoidInvoice {
	return &VoidInvoice{repo: repo, audit: audit}
}

func (uc *VoidInvoice) Execute(
	ctx context.Context,
	practiceID uint,
	actorID *uint,
	id uint,
) (*models.Invoice, error) {

	inv, err := uc.repo.Get(ctx, practiceID, id)
	if err != nil {
		return nil, notFound(err, "invoice_not_found")
	}

	inv.Status = string(domain.StatusVoid)
	if err := uc.repo.UpdateHeader(ctx, inv); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		PracticeID: practiceID,
		UserID:     actorID,
		Action:     "delete",
		EntityType: "invoice",
		EntityID:   inv.ID,
	})

	return uc.repo.Get(ctx, practiceID, inv.ID)
}

type GetInvoice struct {
	repo domain.Repository
}

func NewGetInvoice(repo domain.Repository) *GetInvoice {
	return &GetInvoice{repo: repo}
}

func (uc *GetInvoice) Execute(ctx context.Context, practiceID, id uint) (*models.Invoice, error) {
	inv, err := uc.repo.Get(ctx, practiceID, id)
	if err != nil {
		return nil, notFound(err, "invoice_not_found")
	}
	return inv, nil
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type ListInvoices struct {
	repo domain.Repository
}

func NewListInvoices(repo domain.Repository) *ListInvoices {
	return &ListInvoices{repo: repo}
}

// InvoicePage is one page of a listing with the paging actually applied.
type InvoicePage struct {
	Items    []models.Invoice
	Total    int64
	Page     int
	PageSize int
}

func (uc *ListInvoices) Execute(
	ctx context.Context,
	f domain.ListFilter,
) (*InvoicePage, error) {

	if f.Status != "" && !domain.Status(f.Status).Valid() {
		return nil, httperr.ErrValidation("invalid_status")
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}

	items, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &InvoicePage{Items: items, Total: total, Page: f.Page, PageSize: f.PageSize}, nil
}
