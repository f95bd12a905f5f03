package invoice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/equine-practice/internal/audit"
	domain "github.com/BruksfildServices01/equine-practice/internal/domain/invoice"
	"github.com/BruksfildServices01/equine-practice/internal/httperr"
	"github.com/BruksfildServices01/equine-practice/internal/infra/repository"
	"github.com/BruksfildServices01/equine-practice/internal/locker"
	"github.com/BruksfildServices01/equine-practice/internal/models"
	"github.com/BruksfildServices01/equine-practice/internal/testutil"
)

type env struct {
	db       *gorm.DB
	fx       testutil.Fixture
	create   *CreateInvoice
	fromAppt *CreateInvoiceFromAppointment
	update   *UpdateInvoice
	void     *VoidInvoice
	list     *ListInvoices
	items    *InvoiceItems
	payments *InvoicePayments
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db := testutil.NewDB(t)
	fx := testutil.Seed(t, db, "north")

	repo := repository.NewInvoiceGormRepository(db)
	locks := locker.NewLocal()
	d := audit.NewDispatcher(audit.New(db), nil, zap.NewNop())
	t.Cleanup(d.Close)

	return &env{
		db:       db,
		fx:       fx,
		create:   NewCreateInvoice(repo, locks, d),
		fromAppt: NewCreateInvoiceFromAppointment(repo, locks, d),
		update:   NewUpdateInvoice(repo, d),
		void:     NewVoidInvoice(repo, d),
		list:     NewListInvoices(repo),
		items:    NewInvoiceItems(repo, d),
		payments: NewInvoicePayments(repo, d),
	}
}

func rate(r float64) *float64 { return &r }

func (e *env) input(items ...ItemInput) CreateInvoiceInput {
	issued := testutil.At(9, 0)
	return CreateInvoiceInput{
		PracticeID: e.fx.Practice.ID,
		ClientID:   e.fx.Client.ID,
		IssuedAt:   issued,
		DueAt:      issued.Add(14 * 24 * time.Hour),
		Items:      items,
	}
}

func trim() ItemInput {
	return ItemInput{Description: "Trim", Qty: 2, UnitPriceCents: 1000, TaxRate: rate(0.10)}
}

func TestCreateInvoice_TotalsAndNumbering(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	first, err := e.create.Execute(ctx, e.input(trim()))
	require.NoError(t, err)
	assert.Equal(t, "INV-0001", first.Number)
	assert.Equal(t, "draft", first.Status)
	assert.Equal(t, int64(2000), first.SubtotalCents)
	assert.Equal(t, int64(200), first.TaxCents)
	assert.Equal(t, int64(2200), first.TotalCents)
	require.Len(t, first.Items, 1)
	require.NotNil(t, first.Client)

	second, err := e.create.Execute(ctx, e.input(trim()))
	require.NoError(t, err)
	assert.Equal(t, "INV-0002", second.Number)
}

func TestCreateInvoice_NumberingIsPerPractice(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	other := testutil.Seed(t, e.db, "south")

	_, err := e.create.Execute(ctx, e.input(trim()))
	require.NoError(t, err)

	in := e.input(trim())
	in.PracticeID = other.Practice.ID
	in.ClientID = other.Client.ID
	got, err := e.create.Execute(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "INV-0001", got.Number)
}

// plantNumbers inserts invoices directly, oldest first, so the last one is
// what the numbering reads as the latest.
func (e *env) plantNumbers(t *testing.T, numbers ...string) {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, n := range numbers {
		require.NoError(t, e.db.Create(&models.Invoice{
			PracticeID: e.fx.Practice.ID,
			ClientID:   e.fx.Client.ID,
			Number:     n,
			IssuedAt:   base,
			DueAt:      base,
			Status:     "draft",
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		}).Error)
	}
}

func TestCreateInvoice_SkipsTakenNumber(t *testing.T) {
	e := newEnv(t)
	e.plantNumbers(t, "INV-0002", "INV-0001")

	got, err := e.create.Execute(context.Background(), e.input(trim()))
	require.NoError(t, err)
	assert.Equal(t, "INV-0003", got.Number)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(2200), got.TotalCents)

	var items int64
	require.NoError(t, e.db.Model(&models.InvoiceItem{}).Where("invoice_id = ?", got.ID).Count(&items).Error)
	assert.Equal(t, int64(1), items)
}

func TestCreateInvoice_NumberConflictAfterRetries(t *testing.T) {
	e := newEnv(t)
	e.plantNumbers(t, "INV-0002", "INV-0003", "INV-0004", "INV-0001")

	_, err := e.create.Execute(context.Background(), e.input(trim()))
	assert.True(t, httperr.IsKind(err, httperr.KindConflict))
	assert.True(t, httperr.IsBusiness(err, "invoice_number_conflict"))

	var count int64
	require.NoError(t, e.db.Model(&models.Invoice{}).Count(&count).Error)
	assert.Equal(t, int64(4), count)
}

func TestCreateInvoice_DefaultAndZeroTaxRate(t *testing.T) {
	e := newEnv(t)

	got, err := e.create.Execute(context.Background(), e.input(
		ItemInput{Description: "Visit", Qty: 1, UnitPriceCents: 1000},
		ItemInput{Description: "Exempt", Qty: 1, UnitPriceCents: 500, TaxRate: rate(0)},
	))
	require.NoError(t, err)
	assert.Equal(t, int64(1500), got.SubtotalCents)
	assert.Equal(t, int64(100), got.TaxCents)
	assert.InDelta(t, 0.10, got.Items[0].TaxRate, 1e-9)
	assert.InDelta(t, 0.0, got.Items[1].TaxRate, 1e-9)
}

func TestCreateInvoice_Validation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.create.Execute(ctx, e.input())
	assert.True(t, httperr.IsBusiness(err, "items_required"))

	in := e.input(trim())
	in.DueAt = in.IssuedAt.Add(-time.Hour)
	_, err = e.create.Execute(ctx, in)
	assert.True(t, httperr.IsKind(err, httperr.KindInvalidRange))

	_, err = e.create.Execute(ctx, e.input(ItemInput{Description: "x", Qty: 0, UnitPriceCents: 1}))
	assert.True(t, httperr.IsKind(err, httperr.KindValidation))

	in = e.input(trim())
	in.ClientID = 9999
	_, err = e.create.Execute(ctx, in)
	assert.True(t, httperr.IsBusiness(err, "client_not_found"))
}

func TestCreateInvoiceFromAppointment(t *testing.T) {
	e := newEnv(t)

	ap := models.Appointment{
		PracticeID:     e.fx.Practice.ID,
		PractitionerID: e.fx.Practitioner.ID,
		ClientID:       e.fx.Client.ID,
		ServiceID:      e.fx.Service.ID,
		StartTime:      testutil.At(10, 0),
		EndTime:        testutil.At(11, 0),
		Status:         "completed",
	}
	require.NoError(t, e.db.Create(&ap).Error)

	now := testutil.At(12, 0)
	e.fromAppt.now = func() time.Time { return now }

	got, err := e.fromAppt.Execute(context.Background(), e.fx.Practice.ID, nil, ap.ID)
	require.NoError(t, err)

	assert.Equal(t, "INV-0001", got.Number)
	assert.Equal(t, "draft", got.Status)
	assert.True(t, got.DueAt.Equal(now.Add(7*24*time.Hour)))
	require.NotNil(t, got.AppointmentID)
	assert.Equal(t, ap.ID, *got.AppointmentID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Trim", got.Items[0].Description)
	assert.Equal(t, int64(2200), got.TotalCents)

	_, err = e.fromAppt.Execute(context.Background(), e.fx.Practice.ID, nil, 9999)
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
}

func TestInvoiceItems_RecomputeTotals(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pid := e.fx.Practice.ID

	inv, err := e.create.Execute(ctx, e.input(trim()))
	require.NoError(t, err)

	inv, err = e.items.Add(ctx, pid, nil, inv.ID, ItemInput{Description: "Rasp", Qty: 1, UnitPriceCents: 500})
	require.NoError(t, err)
	assert.Equal(t, int64(2500), inv.SubtotalCents)
	assert.Equal(t, int64(250), inv.TaxCents)
	assert.Equal(t, int64(2750), inv.TotalCents)
	require.Len(t, inv.Items, 2)

	qty := 3
	inv, err = e.items.Update(ctx, pid, nil, inv.ID, inv.Items[1].ID, ItemChange{Qty: &qty})
	require.NoError(t, err)
	assert.Equal(t, int64(3500), inv.SubtotalCents)
	assert.Equal(t, int64(3850), inv.TotalCents)

	inv, err = e.items.Delete(ctx, pid, nil, inv.ID, inv.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), inv.SubtotalCents)
	assert.Equal(t, int64(150), inv.TaxCents)
	assert.Equal(t, int64(1650), inv.TotalCents)

	_, err = e.items.Delete(ctx, pid, nil, inv.ID, 9999)
	assert.True(t, httperr.IsBusiness(err, "invoice_item_not_found"))
}

func TestInvoicePayments_StatusTransitions(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pid := e.fx.Practice.ID

	in := e.input(trim())
	in.Status = "sent"
	inv, err := e.create.Execute(ctx, in)
	require.NoError(t, err)

	pay := func(amount int64) *models.Invoice {
		got, err := e.payments.Record(ctx, pid, nil, inv.ID, PaymentInput{
			AmountCents: amount,
			Method:      "card",
			PaidAt:      testutil.At(15, 0),
		})
		require.NoError(t, err)
		return got
	}

	got := pay(1000)
	assert.Equal(t, "sent", got.Status)

	got = pay(1200)
	assert.Equal(t, "paid", got.Status)
	require.Len(t, got.Payments, 2)

	got, err = e.payments.Delete(ctx, pid, nil, inv.ID, got.Payments[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "sent", got.Status)
	assert.Len(t, got.Payments, 1)

	_, err = e.payments.Delete(ctx, pid, nil, inv.ID, 9999)
	assert.True(t, httperr.IsBusiness(err, "payment_not_found"))
}

func TestInvoicePayments_RejectedOnVoid(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pid := e.fx.Practice.ID

	inv, err := e.create.Execute(ctx, e.input(trim()))
	require.NoError(t, err)

	voided, err := e.void.Execute(ctx, pid, nil, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "void", voided.Status)

	_, err = e.payments.Record(ctx, pid, nil, inv.ID, PaymentInput{AmountCents: 100, Method: "cash"})
	assert.True(t, httperr.IsBusiness(err, "invoice_void"))
}

func TestUpdateInvoice(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pid := e.fx.Practice.ID

	inv, err := e.create.Execute(ctx, e.input(trim()))
	require.NoError(t, err)

	sent := "sent"
	got, err := e.update.Execute(ctx, UpdateInvoiceInput{PracticeID: pid, ID: inv.ID, Status: &sent})
	require.NoError(t, err)
	assert.Equal(t, "sent", got.Status)

	bogus := "overdue"
	_, err = e.update.Execute(ctx, UpdateInvoiceInput{PracticeID: pid, ID: inv.ID, Status: &bogus})
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))

	early := inv.IssuedAt.Add(-time.Hour)
	_, err = e.update.Execute(ctx, UpdateInvoiceInput{PracticeID: pid, ID: inv.ID, DueAt: &early})
	assert.True(t, httperr.IsKind(err, httperr.KindInvalidRange))

	other := testutil.Seed(t, e.db, "south")
	_, err = e.update.Execute(ctx, UpdateInvoiceInput{PracticeID: other.Practice.ID, ID: inv.ID, Status: &sent})
	assert.True(t, httperr.IsBusiness(err, "invoice_not_found"))
}

func TestListInvoices_FiltersAndSearch(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pid := e.fx.Practice.ID

	for i := 0; i < 3; i++ {
		_, err := e.create.Execute(ctx, e.input(trim()))
		require.NoError(t, err)
	}

	page, err := e.list.Execute(ctx, domain.ListFilter{PracticeID: pid, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.PageSize)

	page, err = e.list.Execute(ctx, domain.ListFilter{PracticeID: pid, Search: "inv-0002"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "INV-0002", page.Items[0].Number)
	assert.Equal(t, DefaultPageSize, page.PageSize)

	page, err = e.list.Execute(ctx, domain.ListFilter{PracticeID: pid, Search: "rider"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)

	page, err = e.list.Execute(ctx, domain.ListFilter{PracticeID: pid, Status: "paid"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)

	_, err = e.list.Execute(ctx, domain.ListFilter{PracticeID: pid, Status: "overdue"})
	assert.True(t, httperr.IsKind(err, httperr.KindValidation))
}
