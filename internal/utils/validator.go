package utils

import (
	"reflect"
	"strings"

	apperrors "github.com/SAP-F-2025/grading-service/internal/errors"
	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with the domain's custom rules and
// converts raw field errors into the shared ValidationErrors type.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New()
	registerCustomValidators(validate)
	return &Validator{validate: validate}
}

// Validate checks struct tags and returns ValidationErrors on failure.
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		if errs := apperrors.ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

func validateWeightRange(fl validator.FieldLevel) bool {
	weight := fl.Field().Float()
	return weight > 0 && weight <= 100
}

func validatePercentageRange(fl validator.FieldLevel) bool {
	pct := fl.Field().Float()
	return pct >= 0 && pct <= 100
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("weight_range", validateWeightRange)
	validate.RegisterValidation("percentage_range", validatePercentageRange)

	// Report json field names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
