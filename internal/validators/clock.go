package validators

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/equine-practice/internal/domain/schedule"
)

// RegisterBindings adds the project's tags to gin's validator.
func RegisterBindings() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return Register(v)
}

func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("clock", validateClock); err != nil {
		return err
	}
	return v.RegisterValidation("tz", validateTimezone)
}

// clock: 24-hour "HH:MM".
func validateClock(fl validator.FieldLevel) bool {
	return schedule.ValidClock(fl.Field().String())
}
