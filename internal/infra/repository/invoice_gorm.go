package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/equine-practice/internal/domain/invoice"
	"github.com/BruksfildServices01/equine-practice/internal/models"
)

type InvoiceGormRepository struct {
	db *gorm.DB
}

func NewInvoiceGormRepository(db *gorm.DB) *InvoiceGormRepository {
	return &InvoiceGormRepository{db: db}
}

func (r *InvoiceGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&InvoiceGormRepository{db: tx})
	})
}

// --------------------------------------------------
// References
// --------------------------------------------------

func (r *InvoiceGormRepository) GetClient(
	ctx context.Context,
	practiceID uint,
	clientID uint,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("id = ? AND practice_id = ?", clientID, practiceID).
		First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *InvoiceGormRepository) GetAppointment(
	ctx context.Context,
	practiceID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Where("id = ? AND practice_id = ?", appointmentID, practiceID).
		First(&ap).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

// --------------------------------------------------
// Invoice
// --------------------------------------------------

func (r *InvoiceGormRepository) LastNumber(
	ctx context.Context,
	practiceID uint,
) (string, error) {

	var last models.Invoice
	err := r.db.WithContext(ctx).
		Select("number").
		Where("practice_id = ?", practiceID).
		Order("created_at DESC").
		Order("id DESC").
		Take(&last).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return last.Number, nil
}

// Create inserts the header together with its items.
func (r *InvoiceGormRepository) Create(ctx context.Context, inv *models.Invoice) error {
	return r.db.WithContext(ctx).
		Omit("Client", "Payments").
		Create(inv).Error
}

func (r *InvoiceGormRepository) Get(
	ctx context.Context,
	practiceID uint,
	id uint,
) (*models.Invoice, error) {

	var inv models.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("paid_at ASC") }).
		Where("id = ? AND practice_id = ?", id, practiceID).
		First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceGormRepository) List(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Invoice, int64, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("practice_id = ?", f.PracticeID)

	if f.ClientID != 0 {
		q = q.Where("client_id = ?", f.ClientID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		clients := r.db.Model(&models.Client{}).
			Select("id").
			Where("practice_id = ?", f.PracticeID).
			Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?", like, like, like)
		q = q.Where(r.db.Where("LOWER(number) LIKE ?", like).Or("client_id IN (?)", clients))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invoices []models.Invoice
	if err := q.
		Preload("Client").
		Order("issued_at DESC").
		Order("id DESC").
		Offset((f.Page - 1) * f.PageSize).
		Limit(f.PageSize).
		Find(&invoices).Error; err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

// UpdateHeader writes status, dates and totals; items and payments are
// written through their own methods.
func (r *InvoiceGormRepository) UpdateHeader(ctx context.Context, inv *models.Invoice) error {
	return r.db.WithContext(ctx).
		Model(&models.Invoice{ID: inv.ID}).
		Updates(map[string]any{
			"status":         inv.Status,
			"due_at":         inv.DueAt,
			"issued_at":      inv.IssuedAt,
			"subtotal_cents": inv.SubtotalCents,
			"tax_cents":      inv.TaxCents,
			"total_cents":    inv.TotalCents,
		}).Error
}

// --------------------------------------------------
// Items
// --------------------------------------------------

func (r *InvoiceGormRepository) ListItems(
	ctx context.Context,
	invoiceID uint,
) ([]models.InvoiceItem, error) {

	var items []models.InvoiceItem
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *InvoiceGormRepository) GetItem(
	ctx context.Context,
	invoiceID uint,
	itemID uint,
) (*models.InvoiceItem, error) {

	var item models.InvoiceItem
	if err := r.db.WithContext(ctx).
		Where("id = ? AND invoice_id = ?", itemID, invoiceID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *InvoiceGormRepository) CreateItem(ctx context.Context, item *models.InvoiceItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *InvoiceGormRepository) UpdateItem(ctx context.Context, item *models.InvoiceItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *InvoiceGormRepository) DeleteItem(ctx context.Context, item *models.InvoiceItem) error {
	return r.db.WithContext(ctx).Delete(item).Error
}

// --------------------------------------------------
// Payments
// --------------------------------------------------

func (r *InvoiceGormRepository) GetPayment(
	ctx context.Context,
	invoiceID uint,
	paymentID uint,
) (*models.Payment, error) {

	var p models.Payment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND invoice_id = ?", paymentID, invoiceID).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *InvoiceGormRepository) CreatePayment(ctx context.Context, p *models.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *InvoiceGormRepository) DeletePayment(ctx context.Context, p *models.Payment) error {
	return r.db.WithContext(ctx).Delete(p).Error
}

func (r *InvoiceGormRepository) SumPayments(ctx context.Context, invoiceID uint) (int64, error) {
	var sum int64
	if err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("CAST(COALESCE(SUM(amount_cents), 0) AS BIGINT)").
		Where("invoice_id = ?", invoiceID).
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	return sum, nil
}

var _ domain.Repository = (*InvoiceGormRepository)(nil)
