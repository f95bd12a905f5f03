package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/equine-practice/internal/audit"
	"github.com/BruksfildServices01/equine-practice/internal/config"
	"github.com/BruksfildServices01/equine-practice/internal/dto"
	"github.com/BruksfildServices01/equine-practice/internal/httperr"
	"github.com/BruksfildServices01/equine-practice/internal/models"
	"github.com/BruksfildServices01/equine-practice/internal/timezone"
	"github.com/BruksfildServices01/equine-practice/internal/validators"
)

const tokenTTL = 24 * time.Hour

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
	audit  *audit.Dispatcher

	// emailDomainOK guards signups against mistyped domains.
	emailDomainOK func(email string) bool
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, audit *audit.Dispatcher) *AuthHandler {
	return &AuthHandler{
		db:            db,
		config:        cfg,
		audit:         audit,
		emailDomainOK: validators.EmailDomainCheck(nil),
	}
}

// WithEmailCheck replaces the DNS-backed email domain check.
func (h *AuthHandler) WithEmailCheck(fn func(string) bool) *AuthHandler {
	h.emailDomainOK = fn
	return h
}

type authResponse struct {
	User     models.User     `json:"user"`
	Practice models.Practice `json:"practice"`
	Token    string          `json:"token"`
}

// --------- Handlers ---------

// Register creates a practice together with its first owner.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.PracticeSlug))
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !h.emailDomainOK(email) {
		httperr.BadRequest(c, "invalid_email_domain", "The email domain does not appear to be valid.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	tz := req.PracticeTimezone
	if tz == "" {
		tz = timezone.DefaultTimezone
	}

	practice := models.Practice{
		Name:     strings.TrimSpace(req.PracticeName),
		Slug:     slug,
		Phone:    req.PracticePhone,
		Timezone: tz,
	}
	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         models.RoleOwner,
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Practice{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrConflict("slug_taken")
		}
		if err := tx.Where("email = ?", email).Model(&models.User{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrConflict("email_taken")
		}

		if err := tx.Create(&practice).Error; err != nil {
			return err
		}
		user.PracticeID = practice.ID
		return tx.Omit("Practice").Create(&user).Error
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAuditFor(h.audit, practice.ID, &user.ID, "create", "practice", practice.ID, gin.H{"slug": slug})
	c.JSON(http.StatusCreated, authResponse{User: user, Practice: practice, Token: token})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	err := h.db.WithContext(c.Request.Context()).
		Preload("Practice").
		Where("email = ?", email).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
		return
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password.")
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	writeAuditFor(h.audit, user.PracticeID, &user.ID, "signin", "user", user.ID, nil)

	practice := models.Practice{}
	if user.Practice != nil {
		practice = *user.Practice
		user.Practice = nil
	}
	c.JSON(http.StatusOK, authResponse{User: user, Practice: practice, Token: token})
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":        user.ID,
		"practiceId": user.PracticeID,
		"role":       user.Role,
		"exp":        now.Add(tokenTTL).Unix(),
		"iat":        now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
