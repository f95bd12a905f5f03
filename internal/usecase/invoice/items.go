package invoice

import (
	"context"

	"github.com/BruksfildServices01/equine-practice/internal/audit"
	domain "github.com/BruksfildServices01/equine-practice/internal/domain/invoice"
	"github.com/BruksfildServices01/equine-practice/internal/httperr"
	"github.com/BruksfildServices01/equine-practice/internal/models"
)

// ItemChange is a partial item update; nil fields keep their value.
type ItemChange struct {
	Description    *string
	Qty            *int
	UnitPriceCents *int64
	TaxRate        *float64
}

// InvoiceItems edits line items. Every edit recomputes the invoice totals
// from the items that remain, in the same transaction.
type InvoiceItems struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewInvoiceItems(repo domain.Repository, audit *audit.Dispatcher) *InvoiceItems {
	return &InvoiceItems{repo: repo, audit: audit}
}

func (uc *InvoiceItems) Add(
	ctx context.Context,
	practiceID uint,
	actorID *uint,
	invoiceID uint,
	in ItemInput,
) (*models.Invoice, error) {

	if err := validateItem(in); err != nil {
		return nil, err
	}

	item := &models.InvoiceItem{
		InvoiceID:      invoiceID,
		Description:    in.Description,
		Qty:            in.Qty,
		UnitPriceCents: in.UnitPriceCents,
		TaxRate:        rateOrDefault(in.TaxRate),
	}

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		inv, err := editable(ctx, tx, practiceID, invoiceID)
		if err != nil {
			return err
		}
		if err := tx.CreateItem(ctx, item); err != nil {
			return err
		}
		return recompute(ctx, tx, inv)
	})
	if err != nil {
		return nil, err
	}

	uc.dispatch(practiceID, actorID, "create", item)
	return uc.repo.Get(ctx, practiceID, invoiceID)
}

func (uc *InvoiceItems) Update(
	ctx context.Context,
	practiceID uint,
	actorID *uint,
	invoiceID uint,
	itemID uint,
	in ItemChange,
) (*models.Invoice, error) {

	var item *models.InvoiceItem

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		inv, err := editable(ctx, tx, practiceID, invoiceID)
		if err != nil {
			return err
		}

		item, err = tx.GetItem(ctx, invoiceID, itemID)
		if err != nil {
			return notFound(err, "invoice_item_not_found")
		}

		if in.Description != nil {
			item.Description = *in.Description
		}
		if in.Qty != nil {
			item.Qty = *in.Qty
		}
		if in.UnitPriceCents != nil {
			item.UnitPriceCents = *in.UnitPriceCents
		}
		if in.TaxRate != nil {
			item.TaxRate = *in.TaxRate
		}
		rate := item.TaxRate
		if err := validateItem(ItemInput{
			Description:    item.Description,
			Qty:            item.Qty,
			UnitPriceCents: item.UnitPriceCents,
			TaxRate:        &rate,
		}); err != nil {
			return err
		}

		if err := tx.UpdateItem(ctx, item); err != nil {
			return err
		}
		return recompute(ctx, tx, inv)
	})
	if err != nil {
		return nil, err
	}

	uc.dispatch(practiceID, actorID, "update", item)
	return uc.repo.Get(ctx, practiceID, invoiceID)
}

func (uc *InvoiceItems) Delete(
	ctx context.Context,
	practiceID uint,
	actorID *uint,
	invoiceID uint,
	itemID uint,
) (*models.Invoice, error) {

	var item *models.InvoiceItem

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		inv, err := editable(ctx, tx, practiceID, invoiceID)
		if err != nil {
			return err
		}

		item, err = tx.GetItem(ctx, invoiceID, itemID)
		if err != nil {
			return notFound(err, "invoice_item_not_found")
		}
		if err := tx.DeleteItem(ctx, item); err != nil {
			return err
		}
		return recompute(ctx, tx, inv)
	})
	if err != nil {
		return nil, err
	}

	uc.dispatch(practiceID, actorID, "delete", item)
	return uc.repo.Get(ctx, practiceID, invoiceID)
}

func (uc *InvoiceItems) dispatch(practiceID uint, actorID *uint, action string, item *models.InvoiceItem) {
	uc.audit.Dispatch(audit.Event{
		PracticeID: practiceID,
		UserID:     actorID,
		Action:     action,
		EntityType: "invoice_item",
		EntityID:   item.ID,
		Diff:       item,
	})
}

func editable(ctx context.Context, tx domain.Repository, practiceID, invoiceID uint) (*models.Invoice, error) {
	inv, err := tx.Get(ctx, practiceID, invoiceID)
	if err != nil {
		return nil, notFound(err, "invoice_not_found")
	}
	if inv.Status == string(domain.StatusVoid) {
		return nil, httperr.ErrBusiness("invoice_void")
	}
	return inv, nil
}

func recompute(ctx context.Context, tx domain.Repository, inv *models.Invoice) error {
	items, err := tx.ListItems(ctx, inv.ID)
	if err != nil {
		return err
	}
	applyTotals(inv, items)
	return tx.UpdateHeader(ctx, inv)
}
