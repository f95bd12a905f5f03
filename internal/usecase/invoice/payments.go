package invoice

import (
	"context"
	"time"

	"github.com/BruksfildServices01/equine-practice/internal/audit"
	domain "github.com/BruksfildServices01/equine-practice/internal/domain/invoice"
	"github.com/BruksfildServices01/equine-practice/internal/httperr"
	"github.com/BruksfildServices01/equine-practice/internal/models"
)

type PaymentInput struct {
	AmountCents int64
	Method      string
	PaidAt      time.Time
}

type InvoicePayments struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewInvoicePayments(repo domain.Repository, audit *audit.Dispatcher) *InvoicePayments {
	return &InvoicePayments{repo: repo, audit: audit}
}

// Record stores a payment and marks the invoice paid once payments cover
// the total.
func (uc *InvoicePayments) Record(
	ctx context.Context,
	practiceID uint,
	actorID *uint,
	invoiceID uint,
	in PaymentInput,
) (*models.Invoice, error) {

	if in.AmountCents < 1 {
		return nil, httperr.ErrValidation("invalid_amount")
	}
	if in.Method == "" {
		return nil, httperr.ErrValidation("invalid_method")
	}

	p := &models.Payment{
		InvoiceID:   invoiceID,
		AmountCents: in.AmountCents,
		Method:      in.Method,
		PaidAt:      in.PaidAt.UTC(),
	}
	var before, after string

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		inv, err := editable(ctx, tx, practiceID, invoiceID)
		if err != nil {
			return err
		}
		if err := tx.CreatePayment(ctx, p); err != nil {
			return err
		}

		paid, err := tx.SumPayments(ctx, inv.ID)
		if err != nil {
			return err
		}

		before = inv.Status
		after = string(domain.AfterPayment(domain.Status(inv.Status), paid, inv.TotalCents))
		if after == before {
			return nil
		}
		inv.Status = after
		return tx.UpdateHeader(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		PracticeID: practiceID,
		UserID:     actorID,
		Action:     "create",
		EntityType: "payment",
		EntityID:   p.ID,
		Diff: map[string]any{
			"invoiceId":   invoiceID,
			"amountCents": p.AmountCents,
			"method":      p.Method,
		},
	})
	if after != before {
		uc.statusChanged(practiceID, actorID, invoiceID, after)
	}

	return uc.repo.Get(ctx, practiceID, invoiceID)
}

// Delete removes a payment and reopens a paid invoice that is no longer
// covered.
func (uc *InvoicePayments) Delete(
	ctx context.Context,
	practiceID uint,
	actorID *uint,
	invoiceID uint,
	paymentID uint,
) (*models.Invoice, error) {

	var before, after string

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		inv, err := tx.Get(ctx, practiceID, invoiceID)
		if err != nil {
			return notFound(err, "invoice_not_found")
		}

		p, err := tx.GetPayment(ctx, invoiceID, paymentID)
		if err != nil {
			return notFound(err, "payment_not_found")
		}
		if err := tx.DeletePayment(ctx, p); err != nil {
			return err
		}

		remaining, err := tx.SumPayments(ctx, inv.ID)
		if err != nil {
			return err
		}

		before = inv.Status
		after = string(domain.AfterPaymentRemoval(domain.Status(inv.Status), remaining, inv.TotalCents))
		if after == before {
			return nil
		}
		inv.Status = after
		return tx.UpdateHeader(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		PracticeID: practiceID,
		UserID:     actorID,
		Action:     "delete",
		EntityType: "payment",
		EntityID:   paymentID,
		Diff:       map[string]any{"invoiceId": invoiceID},
	})
	if after != before {
		uc.statusChanged(practiceID, actorID, invoiceID, after)
	}

	return uc.repo.Get(ctx, practiceID, invoiceID)
}

func (uc *InvoicePayments) statusChanged(practiceID uint, actorID *uint, invoiceID uint, status string) {
	uc.audit.Dispatch(audit.Event{
		PracticeID: practiceID,
		UserID:     actorID,
		Action:     "update",
		EntityType: "invoice",
		EntityID:   invoiceID,
		Diff:       map[string]any{"status": status},
	})
}
