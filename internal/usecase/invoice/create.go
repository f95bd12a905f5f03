package invoice

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/equine-practice/internal/audit"
	domain "github.com/BruksfildServices01/equine-practice/internal/domain/invoice"
	"github.com/BruksfildServices01/equine-practice/internal/httperr"
	"github.com/BruksfildServices01/equine-practice/internal/locker"
	"github.com/BruksfildServices01/equine-practice/internal/models"
)

const numberAttempts = 3

// ======================================================
// INPUT
// ======================================================

type ItemInput struct {
	Description    string
	Qty            int
	UnitPriceCents int64
	TaxRate        *float64
}

type CreateInvoiceInput struct {
	PracticeID uint
	ActorID    *uint

	ClientID uint
	IssuedAt time.Time
	DueAt    time.Time
	Status   string
	Items    []ItemInput
}

// ======================================================
// USE CASE
// ======================================================

type CreateInvoice struct {
	repo  domain.Repository
	locks locker.Locker
	audit *audit.Dispatcher
}

func NewCreateInvoice(
	repo domain.Repository,
	locks locker.Locker,
	audit *audit.Dispatcher,
) *CreateInvoice {
	return &CreateInvoice{repo: repo, locks: locks, audit: audit}
}

func (uc *CreateInvoice) Execute(
	ctx context.Context,
	in CreateInvoiceInput,
) (*models.Invoice, error) {

	if len(in.Items) == 0 {
		return nil, httperr.ErrValidation("items_required")
	}
	for _, it := range in.Items {
		if err := validateItem(it); err != nil {
			return nil, err
		}
	}
	if in.DueAt.Before(in.IssuedAt) {
		return nil, httperr.ErrInvalidRange("due_before_issue")
	}

	status := domain.StatusDraft
	if in.Status != "" {
		status = domain.Status(in.Status)
		if !status.Valid() {
			return nil, httperr.ErrValidation("invalid_status")
		}
	}

	if _, err := uc.repo.GetClient(ctx, in.PracticeID, in.ClientID); err != nil {
		return nil, notFound(err, "client_not_found")
	}

	inv := &models.Invoice{
		PracticeID: in.PracticeID,
		ClientID:   in.ClientID,
		IssuedAt:   in.IssuedAt.UTC(),
		DueAt:      in.DueAt.UTC(),
		Status:     string(status),
		Items:      toItems(in.Items),
	}
	applyTotals(inv, inv.Items)

	if err := insertNumbered(ctx, uc.repo, uc.locks, inv); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		PracticeID: in.PracticeID,
		UserID:     in.ActorID,
		Action:     "create",
		EntityType: "invoice",
		EntityID:   inv.ID,
		Diff: map[string]any{
			"number":     inv.Number,
			"clientId":   inv.ClientID,
			"status":     inv.Status,
			"totalCents": inv.TotalCents,
			"items":      len(inv.Items),
		},
	})

	return uc.repo.Get(ctx, in.PracticeID, inv.ID)
}

// ======================================================
// FROM APPOINTMENT
// ======================================================

// DueAfter is how long a generated invoice stays open.
const DueAfter = 7 * 24 * time.Hour

type CreateInvoiceFromAppointment struct {
	repo  domain.Repository
	locks locker.Locker
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewCreateInvoiceFromAppointment(
	repo domain.Repository,
	locks locker.Locker,
	audit *audit.Dispatcher,
) *CreateInvoiceFromAppointment {
	return &CreateInvoiceFromAppointment{
		repo:  repo,
		locks: locks,
		audit: audit,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (uc *CreateInvoiceFromAppointment) Execute(
	ctx context.Context,
	practiceID uint,
	actorID *uint,
	appointmentID uint,
) (*models.Invoice, error) {

	ap, err := uc.repo.GetAppointment(ctx, practiceID, appointmentID)
	if err != nil {
		return nil, notFound(err, "appointment_not_found")
	}
	if ap.Service == nil {
		return nil, httperr.ErrNotFound("service_not_found")
	}

	now := uc.now()
	inv := &models.Invoice{
		PracticeID:    practiceID,
		ClientID:      ap.ClientID,
		AppointmentID: &ap.ID,
		IssuedAt:      now,
		DueAt:         now.Add(DueAfter),
		Status:        string(domain.StatusDraft),
		Items: []models.InvoiceItem{{
			Description:    ap.Service.Name,
			Qty:            1,
			UnitPriceCents: ap.Service.PriceCents,
			TaxRate:        ap.Service.TaxRate,
		}},
	}
	applyTotals(inv, inv.Items)

	if err := insertNumbered(ctx, uc.repo, uc.locks, inv); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		PracticeID: practiceID,
		UserID:     actorID,
		Action:     "create",
		EntityType: "invoice",
		EntityID:   inv.ID,
		Diff:       map[string]any{"sourceAppointmentId": ap.ID},
	})

	return uc.repo.Get(ctx, practiceID, inv.ID)
}

// --------------------------------------------------
// Shared
// --------------------------------------------------

// insertNumbered assigns the next number of the practice and inserts the
// invoice. The lock serialises writers of one process group; the unique
// index catches anyone else and the insert is retried.
func insertNumbered(
	ctx context.Context,
	repo domain.Repository,
	locks locker.Locker,
	inv *models.Invoice,
) error {

	unlock, err := locks.Lock(ctx, locker.InvoiceNumberKey(inv.PracticeID))
	if err != nil {
		return err
	}
	defer unlock()

	// A taken number moves the next attempt past it rather than re-reading
	// the same latest invoice.
	var taken string
	for attempt := 0; attempt < numberAttempts; attempt++ {
		err = repo.Transaction(ctx, func(tx domain.Repository) error {
			last := taken
			if last == "" {
				n, err := tx.LastNumber(ctx, inv.PracticeID)
				if err != nil {
					return err
				}
				last = n
			}
			inv.Number = domain.NextNumber(last)
			return tx.Create(ctx, inv)
		})
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		taken = inv.Number

		inv.ID = 0
		for i := range inv.Items {
			inv.Items[i].ID = 0
			inv.Items[i].InvoiceID = 0
		}
	}

	return httperr.ErrConflict("invoice_number_conflict")
}

func validateItem(it ItemInput) error {
	if it.Description == "" {
		return httperr.ErrValidation("invalid_item_description")
	}
	if it.Qty < 1 {
		return httperr.ErrValidation("invalid_item_qty")
	}
	if it.UnitPriceCents < 0 {
		return httperr.ErrValidation("invalid_item_price")
	}
	if it.TaxRate != nil && (*it.TaxRate < 0 || *it.TaxRate > 1) {
		return httperr.ErrValidation("invalid_tax_rate")
	}
	return nil
}

func toItems(in []ItemInput) []models.InvoiceItem {
	items := make([]models.InvoiceItem, 0, len(in))
	for _, it := range in {
		items = append(items, models.InvoiceItem{
			Description:    it.Description,
			Qty:            it.Qty,
			UnitPriceCents: it.UnitPriceCents,
			TaxRate:        rateOrDefault(it.TaxRate),
		})
	}
	return items
}

func rateOrDefault(rate *float64) float64 {
	if rate == nil {
		return domain.DefaultTaxRate
	}
	return *rate
}

func applyTotals(inv *models.Invoice, items []models.InvoiceItem) {
	lines := make([]domain.Line, 0, len(items))
	for _, it := range items {
		rate := it.TaxRate
		lines = append(lines, domain.Line{
			Qty:            it.Qty,
			UnitPriceCents: it.UnitPriceCents,
			TaxRate:        &rate,
		})
	}

	t := domain.ComputeTotals(lines)
	inv.SubtotalCents = t.SubtotalCents
	inv.TaxCents = t.TaxCents
	inv.TotalCents = t.TotalCents
}

func notFound(err error, code string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound(code)
	}
	return err
}
