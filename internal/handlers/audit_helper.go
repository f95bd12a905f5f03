package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/equine-practice/internal/audit"
	"github.com/BruksfildServices01/equine-practice/internal/middleware"
)

// writeAudit records a mutation made directly by a CRUD handler.
func writeAudit(
	d *audit.Dispatcher,
	c *gin.Context,
	action string,
	entity string,
	entityID uint,
	diff any,
) {
	writeAuditFor(d, middleware.PracticeID(c), middleware.ActorID(c), action, entity, entityID, diff)
}

// writeAuditFor is used where the scope is not yet on the context (signup, login).
func writeAuditFor(
	d *audit.Dispatcher,
	practiceID uint,
	userID *uint,
	action string,
	entity string,
	entityID uint,
	diff any,
) {
	d.Dispatch(audit.Event{
		PracticeID: practiceID,
		UserID:     userID,
		Action:     action,
		EntityType: entity,
		EntityID:   entityID,
		Diff:       diff,
	})
}
