package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"spotmap/pkg/e"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	RegisterCustomValidations(validate)
}

// ValidateStruct runs the struct tags of s. Failures match e.ErrValidation.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return e.Validation(err.Error())
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return e.Validation(strings.Join(msgs, "; "))
}

// ValidateVar checks a single value against tag, e.g. ValidateVar(r, "radius_km").
func ValidateVar(field interface{}, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return e.Validation(fmt.Sprintf("value %v fails %s", field, tag))
	}
	return nil
}
