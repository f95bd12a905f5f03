package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/equine-practice/internal/domain/invoice"
	"github.com/BruksfildServices01/equine-practice/internal/dto"
	"github.com/BruksfildServices01/equine-practice/internal/httperr"
	"github.com/BruksfildServices01/equine-practice/internal/httpresp"
	"github.com/BruksfildServices01/equine-practice/internal/middleware"
	"github.com/BruksfildServices01/equine-practice/internal/usecase/invoice"
)

// InvoiceUseCases groups the invoice operations the handler needs.
type InvoiceUseCases struct {
	Create          *invoice.CreateInvoice
	FromAppointment *invoice.CreateInvoiceFromAppointment
	Update          *invoice.UpdateInvoice
	Void            *invoice.VoidInvoice
	Get             *invoice.GetInvoice
	List            *invoice.ListInvoices
	Items           *invoice.InvoiceItems
	Payments        *invoice.InvoicePayments
}

type InvoiceHandler struct {
	uc InvoiceUseCases
}

func NewInvoiceHandler(uc InvoiceUseCases) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// ======================================================
// INVOICES
// ======================================================

func (h *InvoiceHandler) List(c *gin.Context) {
	var q dto.InvoiceListQuery
	if !bindQuery(c, &q) {
		return
	}

	f := domain.ListFilter{
		PracticeID: middleware.PracticeID(c),
		ClientID:   q.ClientID,
		Status:     q.Status,
		Search:     q.Search,
		Page:       q.Page,
		PageSize:   q.PageSize,
	}
	page, err := h.uc.List.Execute(c.Request.Context(), f)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Page(c, page.Items, page.Total, page.Page, page.PageSize)
}

func (h *InvoiceHandler) Create(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	items := make([]invoice.ItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, invoice.ItemInput{
			Description:    it.Description,
			Qty:            it.Qty,
			UnitPriceCents: it.UnitPriceCents,
			TaxRate:        it.TaxRate,
		})
	}

	inv, err := h.uc.Create.Execute(c.Request.Context(), invoice.CreateInvoiceInput{
		PracticeID: middleware.PracticeID(c),
		ActorID:    middleware.ActorID(c),
		ClientID:   req.ClientID,
		IssuedAt:   req.IssuedAt,
		DueAt:      req.DueAt,
		Status:     req.Status,
		Items:      items,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, inv)
}

func (h *InvoiceHandler) CreateFromAppointment(c *gin.Context) {
	var req dto.InvoiceFromAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	inv, err := h.uc.FromAppointment.Execute(
		c.Request.Context(),
		middleware.PracticeID(c),
		middleware.ActorID(c),
		req.AppointmentID,
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, inv)
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	inv, err := h.uc.Get.Execute(c.Request.Context(), middleware.PracticeID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, inv)
}

func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	inv, err := h.uc.Update.Execute(c.Request.Context(), invoice.UpdateInvoiceInput{
		PracticeID: middleware.PracticeID(c),
		ActorID:    middleware.ActorID(c),
		ID:         id,
		Status:     req.Status,
		DueAt:      req.DueAt,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, inv)
}

// Delete voids the invoice; the record is kept.
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	inv, err := h.uc.Void.Execute(c.Request.Context(), middleware.PracticeID(c), middleware.ActorID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, inv)
}

// ======================================================
// ITEMS
// ======================================================

func (h *InvoiceHandler) AddItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.InvoiceItemRequest
	if !bindJSON(c, &req) {
		return
	}

	inv, err := h.uc.Items.Add(c.Request.Context(), middleware.PracticeID(c), middleware.ActorID(c), id, invoice.ItemInput{
		Description:    req.Description,
		Qty:            req.Qty,
		UnitPriceCents: req.UnitPriceCents,
		TaxRate:        req.TaxRate,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, inv)
}

func (h *InvoiceHandler) UpdateItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "itemId")
	if !ok {
		return
	}

	var req dto.UpdateInvoiceItemRequest
	if !bindJSON(c, &req) {
		return
	}

	inv, err := h.uc.Items.Update(c.Request.Context(), middleware.PracticeID(c), middleware.ActorID(c), id, itemID, invoice.ItemChange{
		Description:    req.Description,
		Qty:            req.Qty,
		UnitPriceCents: req.UnitPriceCents,
		TaxRate:        req.TaxRate,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, inv)
}

func (h *InvoiceHandler) DeleteItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "itemId")
	if !ok {
		return
	}

	inv, err := h.uc.Items.Delete(c.Request.Context(), middleware.PracticeID(c), middleware.ActorID(c), id, itemID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, inv)
}

// ======================================================
// PAYMENTS
// ======================================================

func (h *InvoiceHandler) AddPayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.CreatePaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	paidAt := time.Now().UTC()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	inv, err := h.uc.Payments.Record(c.Request.Context(), middleware.PracticeID(c), middleware.ActorID(c), id, invoice.PaymentInput{
		AmountCents: req.AmountCents,
		Method:      req.Method,
		PaidAt:      paidAt,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

func (h *InvoiceHandler) DeletePayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	paymentID, ok := parseID(c, "paymentId")
	if !ok {
		return
	}

	inv, err := h.uc.Payments.Delete(c.Request.Context(), middleware.PracticeID(c), middleware.ActorID(c), id, paymentID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, inv)
}
