package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/equine-practice/internal/audit"
	"github.com/BruksfildServices01/equine-practice/internal/dto"
	"github.com/BruksfildServices01/equine-practice/internal/httperr"
	"github.com/BruksfildServices01/equine-practice/internal/httpresp"
	"github.com/BruksfildServices01/equine-practice/internal/middleware"
	"github.com/BruksfildServices01/equine-practice/internal/models"
)

type PracticeHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewPracticeHandler(db *gorm.DB, audit *audit.Dispatcher) *PracticeHandler {
	return &PracticeHandler{db: db, audit: audit}
}

func (h *PracticeHandler) Get(c *gin.Context) {
	var practice models.Practice
	if err := h.db.WithContext(c.Request.Context()).
		First(&practice, middleware.PracticeID(c)).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, practice)
}

// Update changes the practice settings. The slug is fixed at signup.
func (h *PracticeHandler) Update(c *gin.Context) {
	var practice models.Practice
	if err := h.db.WithContext(c.Request.Context()).
		First(&practice, middleware.PracticeID(c)).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	var req dto.PracticeUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Name != nil {
		practice.Name = *req.Name
	}
	if req.Phone != nil {
		practice.Phone = *req.Phone
	}
	if req.Address != nil {
		practice.Address = *req.Address
	}
	if req.Timezone != nil {
		practice.Timezone = *req.Timezone
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&practice).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, "update", "practice", practice.ID, req)
	httpresp.OK(c, practice)
}
