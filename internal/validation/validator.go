// Package validation wraps go-playground/validator with the rules and
// field naming the API reports to clients.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
)

// Validator checks request structs and reports violations keyed by JSON field name.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with JSON field names, the notblank rule and the decimal nonnegative rule.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	// NotBlank is stateless; registration only fails on an empty tag.
	_ = v.RegisterValidation("notblank", validators.NotBlank)

	// nonnegative checks the decimal sign exactly; tiny negatives round to -0 as float64.
	_ = v.RegisterValidation("nonnegative", nonNegativeDecimal)

	return &Validator{validate: v}
}

func nonNegativeDecimal(fl validator.FieldLevel) bool {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	return ok && !d.IsNegative()
}

// Struct validates s and returns every violated field mapped to its message.
// messages is keyed by "<json field>.<tag>"; rules without an entry fall back
// to a generic message. A nil map means s is valid.
func (v *Validator) Struct(s any, messages map[string]string) (map[string]string, error) {
	err := v.validate.Struct(s)
	if err == nil {
		return nil, nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil, fmt.Errorf("validating %T: %w", s, err)
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		field := fieldErr.Field()
		if _, seen := fields[field]; seen {
			continue
		}
		if msg, ok := messages[field+"."+fieldErr.Tag()]; ok {
			fields[field] = msg
			continue
		}
		fields[field] = fmt.Sprintf("Field '%s' failed on the '%s' tag", field, fieldErr.Tag())
	}
	return fields, nil
}
