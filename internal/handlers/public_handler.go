package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/equine-practice/internal/domain/appointment"
	"github.com/BruksfildServices01/equine-practice/internal/dto"
	"github.com/BruksfildServices01/equine-practice/internal/httperr"
	"github.com/BruksfildServices01/equine-practice/internal/models"
	"github.com/BruksfildServices01/equine-practice/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler serves the unauthenticated, slug-addressed views a
// practice can share with its clients.
type PublicHandler struct {
	db    *gorm.DB
	slots *appointment.GetSlots
}

func NewPublicHandler(db *gorm.DB, slots *appointment.GetSlots) *PublicHandler {
	return &PublicHandler{db: db, slots: slots}
}

type publicPractice struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Phone    string `json:"phone"`
	Timezone string `json:"timezone"`
}

type publicPractitioner struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) Services(c *gin.Context) {
	practice, ok := h.practice(c)
	if !ok {
		return
	}

	var services []models.Service
	if err := h.db.WithContext(c.Request.Context()).
		Where("practice_id = ? AND is_active = ?", practice.ID, true).
		Order("name ASC").
		Find(&services).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	var staff []models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("practice_id = ? AND role IN ?", practice.ID, []string{models.RoleOwner, models.RolePractitioner}).
		Order("name ASC").
		Find(&staff).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	practitioners := make([]publicPractitioner, 0, len(staff))
	for _, u := range staff {
		practitioners = append(practitioners, publicPractitioner{ID: u.ID, Name: u.Name})
	}

	c.JSON(http.StatusOK, gin.H{
		"practice": publicPractice{
			Name:     practice.Name,
			Slug:     practice.Slug,
			Phone:    practice.Phone,
			Timezone: practice.Timezone,
		},
		"services":      services,
		"practitioners": practitioners,
	})
}

////////////////////////////////////////////////////////
// SLOTS (same generator as the private endpoint)
////////////////////////////////////////////////////////

func (h *PublicHandler) Slots(c *gin.Context) {
	practice, ok := h.practice(c)
	if !ok {
		return
	}

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
		PracticeID:     practice.ID,
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

func (h *PublicHandler) practice(c *gin.Context) (*models.Practice, bool) {
	var practice models.Practice
	err := h.db.WithContext(c.Request.Context()).
		Where("slug = ?", c.Param("slug")).
		First(&practice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "practice_not_found", "Practice not found.")
		return nil, false
	}
	if err != nil {
		httperr.Respond(c, err)
		return nil, false
	}
	return &practice, true
}
