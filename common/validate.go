package common

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their form name so templates can look errors up directly
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidateForm checks s and returns one message per failing field, or nil.
func ValidateForm(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return map[string]string{"_": err.Error()}
	}

	messages := make(map[string]string, len(fieldErrors))
	for _, fe := range fieldErrors {
		if _, seen := messages[fe.Field()]; seen {
			continue
		}
		messages[fe.Field()] = messageFor(fe)
	}
	return messages
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "url", "http_url":
		return "Invalid URL."
	case "email":
		return "Invalid email address."
	case "max":
		return "Must be at most " + fe.Param() + " characters."
	default:
		return "Invalid value."
	}
}
