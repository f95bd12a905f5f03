package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/equine-practice/internal/audit"
	"github.com/BruksfildServices01/equine-practice/internal/dto"
	"github.com/BruksfildServices01/equine-practice/internal/httperr"
	"github.com/BruksfildServices01/equine-practice/internal/httpresp"
	"github.com/BruksfildServices01/equine-practice/internal/middleware"
	"github.com/BruksfildServices01/equine-practice/internal/models"
	"github.com/BruksfildServices01/equine-practice/internal/usecase/invoice"
)

type ClientHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewClientHandler(db *gorm.DB, audit *audit.Dispatcher) *ClientHandler {
	return &ClientHandler{db: db, audit: audit}
}

// ======================================================
// LIST
// ======================================================

func (h *ClientHandler) List(c *gin.Context) {
	practiceID := middleware.PracticeID(c)

	query := strings.ToLower(strings.TrimSpace(c.Query("query")))
	page, size := pageParams(c)

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.Client{}).
		Where("practice_id = ?", practiceID)

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?",
			like, like, like, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	var clients []models.Client
	if err := q.
		Order("last_name ASC").
		Order("first_name ASC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&clients).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Page(c, clients, total, page, size)
}

// ======================================================
// CRUD
// ======================================================

func (h *ClientHandler) Get(c *gin.Context) {
	client, ok := h.load(c, true)
	if !ok {
		return
	}
	httpresp.OK(c, client)
}

func (h *ClientHandler) Create(c *gin.Context) {
	var req dto.ClientRequest
	if !bindJSON(c, &req) {
		return
	}

	client := models.Client{
		PracticeID: middleware.PracticeID(c),
		FirstName:  strings.TrimSpace(req.FirstName),
		LastName:   strings.TrimSpace(req.LastName),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:      req.Phone,
		Address:    req.Address,
		Notes:      req.Notes,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&client).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, "create", "client", client.ID, req)
	httpresp.Created(c, client)
}

func (h *ClientHandler) Update(c *gin.Context) {
	client, ok := h.load(c, false)
	if !ok {
		return
	}

	var req dto.ClientRequest
	if !bindJSON(c, &req) {
		return
	}

	client.FirstName = strings.TrimSpace(req.FirstName)
	client.LastName = strings.TrimSpace(req.LastName)
	client.Email = strings.ToLower(strings.TrimSpace(req.Email))
	client.Phone = req.Phone
	client.Address = req.Address
	client.Notes = req.Notes

	if err := h.db.WithContext(c.Request.Context()).Save(client).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, "update", "client", client.ID, req)
	httpresp.OK(c, client)
}

func (h *ClientHandler) Delete(c *gin.Context) {
	client, ok := h.load(c, false)
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(client).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, "delete", "client", client.ID, nil)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *ClientHandler) load(c *gin.Context, withHorses bool) (*models.Client, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}

	q := h.db.WithContext(c.Request.Context())
	if withHorses {
		q = q.Preload("Horses", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") })
	}

	var client models.Client
	err := q.Where("id = ? AND practice_id = ?", id, middleware.PracticeID(c)).First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "client_not_found", "Client not found.")
		return nil, false
	}
	if err != nil {
		httperr.Respond(c, err)
		return nil, false
	}
	return &client, true
}

// pageParams reads page / pageSize with the same limits as invoices.
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.Query("page"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(c.Query("pageSize"))
	if size <= 0 {
		size = invoice.DefaultPageSize
	}
	if size > invoice.MaxPageSize {
		size = invoice.MaxPageSize
	}
	return page, size
}
