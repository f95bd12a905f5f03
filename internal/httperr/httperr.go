package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

// Respond maps err onto a JSON error body. Unknown errors become a 500 and
// are attached to the gin context so the request logger records them.
func Respond(c *gin.Context, err error) {
	var be BusinessError
	switch {
	case errors.As(err, &be):
		Write(c, be.Status(), be.Code, messageFor(be))
	case IsExclusionConflict(err):
		Conflict(c, "time_conflict", "The requested time overlaps an existing booking.")
	case errors.Is(err, gorm.ErrRecordNotFound):
		NotFound(c, "not_found", "Resource not found.")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		Conflict(c, "duplicate", "Resource already exists.")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		Conflict(c, "in_use", "Resource is referenced by other records.")
	default:
		_ = c.Error(err)
		Internal(c, "internal_error", "Unexpected error.")
	}
}

func messageFor(be BusinessError) string {
	switch be.Kind {
	case KindValidation:
		return "Invalid request."
	case KindInvalidRange:
		return "Start must be before end."
	case KindNotFound:
		return "Resource not found."
	case KindConflict:
		return "Request conflicts with existing data."
	default:
		return "Request could not be completed."
	}
}

// SQLSTATE exclusion_violation.
const pgExclusionViolation = "23P01"

// IsExclusionConflict reports whether err came from the appointments
// exclusion constraint in Postgres.
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgExclusionViolation
	}
	return false
}
