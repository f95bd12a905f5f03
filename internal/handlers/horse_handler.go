package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/equine-practice/internal/audit"
	"github.com/BruksfildServices01/equine-practice/internal/dto"
	"github.com/BruksfildServices01/equine-practice/internal/httperr"
	"github.com/BruksfildServices01/equine-practice/internal/httpresp"
	"github.com/BruksfildServices01/equine-practice/internal/imaging"
	"github.com/BruksfildServices01/equine-practice/internal/middleware"
	"github.com/BruksfildServices01/equine-practice/internal/models"
	"github.com/BruksfildServices01/equine-practice/internal/storage"
)

const maxPhotoBytes = 10 << 20

type HorseHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
	store storage.ObjectStore
	log   *zap.Logger
}

// NewHorseHandler accepts a nil store; photo uploads then answer 503.
func NewHorseHandler(
	db *gorm.DB,
	audit *audit.Dispatcher,
	store storage.ObjectStore,
	log *zap.Logger,
) *HorseHandler {
	return &HorseHandler{db: db, audit: audit, store: store, log: log}
}

type horseResponse struct {
	models.Horse
	PhotoURL string `json:"photoUrl,omitempty"`
}

func (h *HorseHandler) present(horse models.Horse) horseResponse {
	resp := horseResponse{Horse: horse}
	if horse.PhotoKey != "" && h.store != nil {
		resp.PhotoURL = h.store.URL(horse.PhotoKey)
	}
	return resp
}

// scoped limits horses to those whose owner belongs to the practice.
func (h *HorseHandler) scoped(c *gin.Context) *gorm.DB {
	return h.db.WithContext(c.Request.Context()).
		Model(&models.Horse{}).
		Joins("JOIN clients ON clients.id = horses.client_id").
		Where("clients.practice_id = ?", middleware.PracticeID(c))
}

// ======================================================
// LIST / GET
// ======================================================

func (h *HorseHandler) List(c *gin.Context) {
	q := h.scoped(c).Preload("Client")

	if raw := c.Query("clientId"); raw != "" {
		clientID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_query", "Invalid clientId.")
			return
		}
		q = q.Where("horses.client_id = ?", clientID)
	}
	if query := strings.ToLower(strings.TrimSpace(c.Query("query"))); query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(horses.name) LIKE ? OR LOWER(horses.breed) LIKE ?", like, like)
	}

	var horses []models.Horse
	if err := q.Order("horses.name ASC").Find(&horses).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	out := make([]horseResponse, 0, len(horses))
	for _, horse := range horses {
		out = append(out, h.present(horse))
	}
	httpresp.List(c, out)
}

func (h *HorseHandler) Get(c *gin.Context) {
	horse, ok := h.load(c)
	if !ok {
		return
	}
	httpresp.OK(c, h.present(*horse))
}

// ======================================================
// MUTATIONS
// ======================================================

func (h *HorseHandler) Create(c *gin.Context) {
	var req dto.HorseRequest
	if !bindJSON(c, &req) {
		return
	}
	if !h.ownerInPractice(c, req.ClientID) {
		return
	}

	horse := models.Horse{
		ClientID: req.ClientID,
		Name:     strings.TrimSpace(req.Name),
		Breed:    req.Breed,
		Age:      req.Age,
		Notes:    req.Notes,
	}
	if err := h.db.WithContext(c.Request.Context()).Omit("Client").Create(&horse).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, "create", "horse", horse.ID, req)
	httpresp.Created(c, h.present(horse))
}

func (h *HorseHandler) Update(c *gin.Context) {
	horse, ok := h.load(c)
	if !ok {
		return
	}

	var req dto.HorseRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.ClientID != horse.ClientID && !h.ownerInPractice(c, req.ClientID) {
		return
	}

	horse.ClientID = req.ClientID
	horse.Client = nil
	horse.Name = strings.TrimSpace(req.Name)
	horse.Breed = req.Breed
	horse.Age = req.Age
	horse.Notes = req.Notes

	if err := h.db.WithContext(c.Request.Context()).Omit("Client").Save(horse).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, "update", "horse", horse.ID, req)
	httpresp.OK(c, h.present(*horse))
}

func (h *HorseHandler) Delete(c *gin.Context) {
	horse, ok := h.load(c)
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(&models.Horse{}, horse.ID).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, "delete", "horse", horse.ID, nil)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// UploadPhoto takes a multipart "photo" (JPEG, PNG or WebP), normalises
// it to WebP and stores it under a per-horse key.
func (h *HorseHandler) UploadPhoto(c *gin.Context) {
	if h.store == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "storage_not_configured", "Photo storage is not configured.")
		return
	}

	horse, ok := h.load(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPhotoBytes)
	file, _, err := c.Request.FormFile("photo")
	if err != nil {
		httperr.BadRequest(c, "photo_required", "Upload the image as multipart field \"photo\".")
		return
	}
	defer file.Close()

	data, err := imaging.ToWebP(file, imaging.DefaultMaxDim)
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "The file is not a supported image.")
		return
	}

	key := storage.HorsePhotoKey(middleware.PracticeID(c), horse.ID)
	if err := h.store.Put(c.Request.Context(), key, imaging.ContentType, data); err != nil {
		h.log.Error("photo upload failed", zap.Uint("horse_id", horse.ID), zap.Error(err))
		httperr.Write(c, http.StatusBadGateway, "storage_failed", "Could not store the photo.")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.Horse{ID: horse.ID}).
		Update("photo_key", key).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	horse.PhotoKey = key

	writeAudit(h.audit, c, "update", "horse", horse.ID, gin.H{"photoKey": key})
	httpresp.OK(c, h.present(*horse))
}

// --------------------------------------------------
// Helpers
// --------------------------------------------------

func (h *HorseHandler) load(c *gin.Context) (*models.Horse, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}

	var horse models.Horse
	err := h.scoped(c).
		Preload("Client").
		Where("horses.id = ?", id).
		First(&horse).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "horse_not_found", "Horse not found.")
		return nil, false
	}
	if err != nil {
		httperr.Respond(c, err)
		return nil, false
	}
	return &horse, true
}

func (h *HorseHandler) ownerInPractice(c *gin.Context, clientID uint) bool {
	var count int64
	err := h.db.WithContext(c.Request.Context()).
		Model(&models.Client{}).
		Where("id = ? AND practice_id = ?", clientID, middleware.PracticeID(c)).
		Count(&count).Error
	if err != nil {
		httperr.Respond(c, err)
		return false
	}
	if count == 0 {
		httperr.NotFound(c, "client_not_found", "Client not found.")
		return false
	}
	return true
}
