package dto

import (
	"github.com/cajaviva/pos_settlement_app/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Custom binding validators for the closed domain enums, so malformed values
// are rejected at bind time with a field-level message.
func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("paymentmethod", func(fl validator.FieldLevel) bool {
		_, err := domain.ParsePaymentMethod(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("ratetype", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseRateType(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("roundingmode", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseRoundingMode(fl.Field().String())
		return err == nil
	})
}
