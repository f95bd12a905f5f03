package appointment

import (
	"time"

	"github.com/BruksfildServices01/equine-practice/internal/httperr"
	"github.com/BruksfildServices01/equine-practice/internal/models"
)

// ApplyStatus moves ap to next and stamps the matching timestamp.
// Any status may follow any other; leaving cancelled/completed clears the stamp.
func ApplyStatus(ap *models.Appointment, next Status, now time.Time) error {
	if !next.Valid() {
		return httperr.ErrValidation("invalid_status")
	}
	if Status(ap.Status) == next {
		return nil
	}

	ap.Status = string(next)

	switch next {
	case StatusCancelled:
		ap.CancelledAt = &now
		ap.CompletedAt = nil
	case StatusCompleted:
		ap.CompletedAt = &now
		ap.CancelledAt = nil
	default:
		ap.CancelledAt = nil
		ap.CompletedAt = nil
	}

	return nil
}
