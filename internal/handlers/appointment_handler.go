package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/equine-practice/internal/domain/appointment"
	"github.com/BruksfildServices01/equine-practice/internal/dto"
	"github.com/BruksfildServices01/equine-practice/internal/httperr"
	"github.com/BruksfildServices01/equine-practice/internal/httpresp"
	"github.com/BruksfildServices01/equine-practice/internal/middleware"
	"github.com/BruksfildServices01/equine-practice/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create *appointment.CreateAppointment
	update *appointment.UpdateAppointment
	get    *appointment.GetAppointment
	list   *appointment.ListAppointments
}

func NewAppointmentHandler(
	create *appointment.CreateAppointment,
	update *appointment.UpdateAppointment,
	get *appointment.GetAppointment,
	list *appointment.ListAppointments,
) *AppointmentHandler {
	return &AppointmentHandler{
		create: create,
		update: update,
		get:    get,
		list:   list,
	}
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req dto.CreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), appointment.CreateAppointmentInput{
		PracticeID:     middleware.PracticeID(c),
		ActorID:        middleware.ActorID(c),
		PractitionerID: req.PractitionerID,
		ClientID:       req.ClientID,
		HorseID:        req.HorseID,
		ServiceID:      req.ServiceID,
		Start:          req.Start,
		End:            req.End,
		Status:         req.Status,
		LocationText:   req.LocationText,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// UPDATE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.update.Execute(c.Request.Context(), appointment.UpdateAppointmentInput{
		PracticeID:     middleware.PracticeID(c),
		ActorID:        middleware.ActorID(c),
		ID:             id,
		PractitionerID: req.PractitionerID,
		ClientID:       req.ClientID,
		ServiceID:      req.ServiceID,
		HorseSet:       req.HorseID.Set,
		HorseID:        req.HorseID.Value,
		Start:          req.Start,
		End:            req.End,
		Status:         req.Status,
		LocationText:   req.LocationText,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// READ
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ap, err := h.get.Execute(c.Request.Context(), middleware.PracticeID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// List filters by start time (from/to inclusive), practitioner, client
// and status. Bare dates are read as UTC midnight.
func (h *AppointmentHandler) List(c *gin.Context) {
	var q dto.AppointmentListQuery
	if !bindQuery(c, &q) {
		return
	}

	from, err := parseInstant(q.From, time.UTC)
	if err != nil {
		httperr.BadRequest(c, "invalid_from", "from must be RFC 3339 or YYYY-MM-DD.")
		return
	}
	to, err := parseInstant(q.To, time.UTC)
	if err != nil {
		httperr.BadRequest(c, "invalid_to", "to must be RFC 3339 or YYYY-MM-DD.")
		return
	}

	items, err := h.list.Execute(c.Request.Context(), domain.ListFilter{
		PracticeID:     middleware.PracticeID(c),
		PractitionerID: q.PractitionerID,
		ClientID:       q.ClientID,
		Status:         q.Status,
		From:           from,
		To:             to,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, items)
}
