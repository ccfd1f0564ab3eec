package dto

import (
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RegisterValidations installs the decimal binding rules on gin's validator
// engine. Amounts crossing the API boundary must be strictly positive and
// carry at most two decimal places; the services enforce the same rules
// again for entries built internally.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	if err := v.RegisterValidation("dpositive", validatePositiveDecimal); err != nil {
		return err
	}
	return v.RegisterValidation("d2dp", validateTwoDecimalPlaces)
}

func validatePositiveDecimal(fl validator.FieldLevel) bool {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	return d.IsPositive()
}

func validateTwoDecimalPlaces(fl validator.FieldLevel) bool {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	return d.Exponent() >= -2
}
