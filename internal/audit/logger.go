package audit

import (
	"context"

	"github.com/goccy/go-json"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/equine-practice/internal/models"
)

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(ctx context.Context, ev Event) error {
	var diff datatypes.JSON
	if ev.Diff != nil {
		if b, err := json.Marshal(ev.Diff); err == nil {
			diff = datatypes.JSON(b)
		}
	}

	entry := models.AuditLog{
		PracticeID: ev.PracticeID,
		UserID:     ev.UserID,
		Action:     ev.Action,
		EntityType: ev.EntityType,
		EntityID:   ev.EntityID,
		Diff:       diff,
	}

	return l.db.WithContext(ctx).Create(&entry).Error
}
