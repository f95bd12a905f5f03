package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/equine-practice/internal/domain/appointment"
	"github.com/BruksfildServices01/equine-practice/internal/dto"
	"github.com/BruksfildServices01/equine-practice/internal/httperr"
	"github.com/BruksfildServices01/equine-practice/internal/httpresp"
	"github.com/BruksfildServices01/equine-practice/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/equine-practice/internal/usecase/appointment"
	ucAvailability "github.com/BruksfildServices01/equine-practice/internal/usecase/availability"
)

// ======================================================
// HANDLER
// ======================================================

type AvailabilityHandler struct {
	list   *ucAvailability.ListAvailability
	get    *ucAvailability.GetAvailability
	create *ucAvailability.CreateAvailability
	update *ucAvailability.UpdateAvailability
	delete *ucAvailability.DeleteAvailability
	slots  *ucAppointment.GetSlots
}

func NewAvailabilityHandler(
	list *ucAvailability.ListAvailability,
	get *ucAvailability.GetAvailability,
	create *ucAvailability.CreateAvailability,
	update *ucAvailability.UpdateAvailability,
	del *ucAvailability.DeleteAvailability,
	slots *ucAppointment.GetSlots,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		list:   list,
		get:    get,
		create: create,
		update: update,
		delete: del,
		slots:  slots,
	}
}

// ======================================================
// LIST / GET
// ======================================================

func (h *AvailabilityHandler) List(c *gin.Context) {
	var practitionerID uint
	if raw := c.Query("practitionerId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_query", "Invalid practitionerId.")
			return
		}
		practitionerID = uint(id)
	}

	items, err := h.list.Execute(c.Request.Context(), middleware.PracticeID(c), practitionerID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, items)
}

func (h *AvailabilityHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	a, err := h.get.Execute(c.Request.Context(), middleware.PracticeID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, a)
}

// ======================================================
// MUTATIONS
// ======================================================

func (h *AvailabilityHandler) Create(c *gin.Context) {
	var req dto.CreateAvailabilityRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.create.Execute(c.Request.Context(), ucAvailability.CreateAvailabilityInput{
		PracticeID:     middleware.PracticeID(c),
		ActorID:        middleware.ActorID(c),
		PractitionerID: req.PractitionerID,
		Weekday:        *req.Weekday,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		EffectiveFrom:  parseDay(req.EffectiveFrom),
		EffectiveTo:    parseDay(req.EffectiveTo),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, a)
}

func (h *AvailabilityHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateAvailabilityRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.update.Execute(c.Request.Context(), ucAvailability.UpdateAvailabilityInput{
		PracticeID:     middleware.PracticeID(c),
		ActorID:        middleware.ActorID(c),
		ID:             id,
		PractitionerID: req.PractitionerID,
		Weekday:        req.Weekday,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		EffectiveFrom:  parseDay(req.EffectiveFrom),
		EffectiveTo:    parseDay(req.EffectiveTo),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, a)
}

func (h *AvailabilityHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	err := h.delete.Execute(c.Request.Context(), middleware.PracticeID(c), middleware.ActorID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ======================================================
// SLOTS
// ======================================================

func (h *AvailabilityHandler) Slots(c *gin.Context) {
	var q dto.SlotsQuery
	if !bindQuery(c, &q) {
		return
	}

	date, err := time.Parse(dateLayout, q.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Date must be YYYY-MM-DD.")
		return
	}

	slots, err := h.slots.Execute(c.Request.Context(), domain.SlotQuery{
		PracticeID:     middleware.PracticeID(c),
		PractitionerID: q.PractitionerID,
		ServiceID:      q.ServiceID,
		Date:           date,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  q.Date,
		"slots": slots,
	})
}
