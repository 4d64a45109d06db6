// Package validation checks entity constraints declared in validate tags and
// reports them as API violations keyed by their JSON attribute names.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"catalog/apierr"
)

type Validator struct {
	validate *validator.Validate
}

// New panics if the custom tags cannot be registered, since every entity
// check would silently skip them.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("validation: register notblank: %v", err))
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// Check validates entity and appends any violations to extra. It returns nil
// when neither reports a problem.
func (v *Validator) Check(entity any, extra ...apierr.Violation) error {
	violations := append([]apierr.Violation(nil), extra...)

	err := v.validate.Struct(entity)
	var fieldErrs validator.ValidationErrors
	switch {
	case err == nil:
	case errors.As(err, &fieldErrs):
		for _, fe := range fieldErrs {
			violations = append(violations, apierr.Violation{
				PropertyPath: fe.Field(),
				Message:      message(fe),
			})
		}
	default:
		return err
	}

	if len(violations) == 0 {
		return nil
	}
	return apierr.Invalid(violations...)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank":
		return "This value should not be blank."
	case "required":
		return "This value should not be null."
	case "max":
		return fmt.Sprintf("This value is too long. It should have %s characters or less.", fe.Param())
	case "email":
		return "This value is not a valid email address."
	}
	return "This value is not valid."
}
