package utils

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var Validate *validator.Validate

// InitValidator builds the shared validator. decimal.Decimal fields validate as
// float64 so numeric tags like gte=0 work on money amounts.
func InitValidator() {
	Validate = validator.New()
	Validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
		if d, ok := v.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
}
