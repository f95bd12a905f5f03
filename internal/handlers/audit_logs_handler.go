package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/equine-practice/internal/httperr"
	"github.com/BruksfildServices01/equine-practice/internal/httpresp"
	"github.com/BruksfildServices01/equine-practice/internal/middleware"
	"github.com/BruksfildServices01/equine-practice/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

// List pages through the practice's audit trail, newest first. Filters:
// action, entityType, entityId, userId, from/to (YYYY-MM-DD, inclusive).
func (h *AuditLogsHandler) List(c *gin.Context) {
	page, size := pageParams(c)

	// --------------------------------------------------
	// Base query, always tenant-scoped
	// --------------------------------------------------

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.AuditLog{}).
		Where("practice_id = ?", middleware.PracticeID(c))

	// --------------------------------------------------
	// Optional filters
	// --------------------------------------------------

	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}
	if entity := c.Query("entityType"); entity != "" {
		q = q.Where("entity_type = ?", entity)
	}
	if raw := c.Query("entityId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_query", "Invalid entityId.")
			return
		}
		q = q.Where("entity_id = ?", id)
	}
	if raw := c.Query("userId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_query", "Invalid userId.")
			return
		}
		q = q.Where("user_id = ?", id)
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(dateLayout, raw)
		if err != nil {
			httperr.BadRequest(c, "invalid_query", "from must be YYYY-MM-DD.")
			return
		}
		q = q.Where("created_at >= ?", from)
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(dateLayout, raw)
		if err != nil {
			httperr.BadRequest(c, "invalid_query", "to must be YYYY-MM-DD.")
			return
		}
		q = q.Where("created_at < ?", to.AddDate(0, 0, 1))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Order("id DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&logs).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Page(c, logs, total, page, size)
}
