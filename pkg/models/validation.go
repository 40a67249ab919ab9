package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Decimals are validated on their exact string representation
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("positive", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && d.IsPositive()
	})

	_ = v.RegisterValidation("nonnegative", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && !d.IsNegative()
	})

	return v
}

// validateStruct runs the struct validation and translates the first failing
// field to the sentinel error registered for it in fields.
func validateStruct(s any, fields map[string]error) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	if sentinel, ok := fields[verrs[0].Field()]; ok {
		return sentinel
	}

	return fmt.Errorf("%w: %s", ErrInvalid, ValidationErrorToText(verrs[0]))
}

// ValidationErrorToText returns a human readable message for a failed validation.
func ValidationErrorToText(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", e.Field(), e.Param())
	case "positive":
		return fmt.Sprintf("%s must be larger than zero", e.Field())
	case "nonnegative":
		return fmt.Sprintf("%s must not be negative", e.Field())
	}
	return fmt.Sprintf("%s is not valid", e.Field())
}

// normalize trims whitespace and applies Unicode NFC so that
// visually identical strings compare equal.
func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
