package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/equine-practice/internal/httperr"
	"github.com/BruksfildServices01/equine-practice/internal/middleware"
	"github.com/BruksfildServices01/equine-practice/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID := middleware.ActorID(c)
	if userID == nil {
		httperr.Unauthorized(c, "user_not_in_context", "No signed-in user.")
		return
	}

	var user models.User
	err := h.db.WithContext(c.Request.Context()).
		Preload("Practice").
		Where("id = ? AND practice_id = ?", *userID, middleware.PracticeID(c)).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	practice := user.Practice
	user.Practice = nil

	c.JSON(http.StatusOK, gin.H{
		"user":     user,
		"practice": practice,
	})
}
