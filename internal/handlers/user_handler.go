package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/equine-practice/internal/audit"
	"github.com/BruksfildServices01/equine-practice/internal/dto"
	"github.com/BruksfildServices01/equine-practice/internal/httperr"
	"github.com/BruksfildServices01/equine-practice/internal/httpresp"
	"github.com/BruksfildServices01/equine-practice/internal/middleware"
	"github.com/BruksfildServices01/equine-practice/internal/models"
)

type UserHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewUserHandler(db *gorm.DB, audit *audit.Dispatcher) *UserHandler {
	return &UserHandler{db: db, audit: audit}
}

// List returns the practice's users, optionally one role only. An unknown
// role is ignored.
func (h *UserHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).
		Where("practice_id = ?", middleware.PracticeID(c))

	if role := c.Query("role"); models.ValidRole(role) {
		q = q.Where("role = ?", role)
	}

	var users []models.User
	if err := q.Order("role ASC").Order("name ASC").Find(&users).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, users)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var user models.User
	err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND practice_id = ?", id, middleware.PracticeID(c)).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, user)
}

// Create adds a staff member to the caller's practice. Owners only.
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	user := models.User{
		PracticeID:   middleware.PracticeID(c),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hashed),
		Role:         req.Role,
	}
	if err := h.db.WithContext(c.Request.Context()).Omit("Practice").Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			httperr.Conflict(c, "email_taken", "A user with this email already exists.")
			return
		}
		httperr.Respond(c, err)
		return
	}

	writeAudit(h.audit, c, "create", "user", user.ID, gin.H{"email": user.Email, "role": user.Role})
	httpresp.Created(c, user)
}
