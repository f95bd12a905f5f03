package validators

import (
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/equine-practice/internal/timezone"
)

func validateTimezone(fl validator.FieldLevel) bool {
	return timezone.IsValid(fl.Field().String())
}
