package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/equine-practice/internal/audit"
	domain "github.com/BruksfildServices01/equine-practice/internal/domain/invoice"
	"github.com/BruksfildServices01/equine-practice/internal/dto"
	"github.com/BruksfildServices01/equine-practice/internal/httperr"
	"github.com/BruksfildServices01/equine-practice/internal/httpresp"
	"github.com/BruksfildServices01/equine-practice/internal/middleware"
	"github.com/BruksfildServices01/equine-practice/internal/models"
)

type ServiceHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewServiceHandler(db *gorm.DB, audit *audit.Dispatcher) *ServiceHandler {
	return &ServiceHandler{db: db, audit: audit}
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).
		Where("practice_id = ?", middleware.PracticeID(c))

	switch strings.TrimSpace(c.Query("active")) {
	case "true":
		q = q.Where("is_active = ?", true)
	case "false":
		q = q.Where("is_active = ?", false)
	}

	if query := strings.ToLower(strings.TrimSpace(c.Query("query"))); query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("name ASC").Find(&services).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, services)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	service, ok := h.load(c)
	if !ok {
		return
	}
	httpresp.OK(c, service)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req dto.ServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	service := models.Service{
		PracticeID:   middleware.PracticeID(c),
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		DurationMins: req.DurationMins,
		PriceCents:   req.PriceCents,
		TaxRate:      domain.DefaultTaxRate,
		IsActive:     true,
	}
	if req.TaxRate != nil {
		service.TaxRate = *req.TaxRate
	}
	if req.IsActive != nil {
		service.IsActive = *req.IsActive
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&service).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, "create", "service", service.ID, req)
	httpresp.Created(c, service)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	service, ok := h.load(c)
	if !ok {
		return
	}

	var req dto.ServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	service.Name = strings.TrimSpace(req.Name)
	service.Description = req.Description
	service.DurationMins = req.DurationMins
	service.PriceCents = req.PriceCents
	if req.TaxRate != nil {
		service.TaxRate = *req.TaxRate
	}
	if req.IsActive != nil {
		service.IsActive = *req.IsActive
	}

	if err := h.db.WithContext(c.Request.Context()).Save(service).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, "update", "service", service.ID, req)
	httpresp.OK(c, service)
}

// Delete removes an unused service. One referenced by appointments
// answers 409 in_use; deactivate it instead.
func (h *ServiceHandler) Delete(c *gin.Context) {
	service, ok := h.load(c)
	if !ok {
		return
	}

	var used int64
	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.Appointment{}).
		Where("service_id = ?", service.ID).
		Count(&used).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	if used > 0 {
		httperr.Conflict(c, "in_use", "Service has appointments; deactivate it instead.")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(service).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, "delete", "service", service.ID, nil)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *ServiceHandler) load(c *gin.Context) (*models.Service, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}

	var service models.Service
	err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND practice_id = ?", id, middleware.PracticeID(c)).
		First(&service).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return nil, false
	}
	if err != nil {
		httperr.Respond(c, err)
		return nil, false
	}
	return &service, true
}
