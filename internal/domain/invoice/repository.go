package invoice

import (
	"context"

	"github.com/BruksfildServices01/equine-practice/internal/models"
)

type ListFilter struct {
	PracticeID uint
	ClientID   uint
	Status     string
	// Search matches the invoice number or the client's name and email.
	Search string

	Page     int
	PageSize int
}

type Repository interface {
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	GetClient(ctx context.Context, practiceID, clientID uint) (*models.Client, error)
	GetAppointment(ctx context.Context, practiceID, appointmentID uint) (*models.Appointment, error)

	// LastNumber returns the number of the practice's most recently created
	// invoice, or "" when it has none.
	LastNumber(ctx context.Context, practiceID uint) (string, error)

	Create(ctx context.Context, inv *models.Invoice) error
	Get(ctx context.Context, practiceID, id uint) (*models.Invoice, error)
	List(ctx context.Context, f ListFilter) ([]models.Invoice, int64, error)
	UpdateHeader(ctx context.Context, inv *models.Invoice) error

	ListItems(ctx context.Context, invoiceID uint) ([]models.InvoiceItem, error)
	GetItem(ctx context.Context, invoiceID, itemID uint) (*models.InvoiceItem, error)
	CreateItem(ctx context.Context, item *models.InvoiceItem) error
	UpdateItem(ctx context.Context, item *models.InvoiceItem) error
	DeleteItem(ctx context.Context, item *models.InvoiceItem) error

	GetPayment(ctx context.Context, invoiceID, paymentID uint) (*models.Payment, error)
	CreatePayment(ctx context.Context, p *models.Payment) error
	DeletePayment(ctx context.Context, p *models.Payment) error
	SumPayments(ctx context.Context, invoiceID uint) (int64, error)
}
