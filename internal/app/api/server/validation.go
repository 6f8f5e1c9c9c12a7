package server

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/keurgym/membership/pkg/types"
)

// registerValidators wires domain validations into gin's binding layer.
// "paymentmethod" restricts request fields to the supported gateways.
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("paymentmethod", func(fl validator.FieldLevel) bool {
		return types.PaymentMethod(fl.Field().String()).Valid()
	})
}
