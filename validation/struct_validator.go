package validation

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/jobreturn/errors"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// getValidator returns the singleton validator instance.
func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(configKey)
	})
	return validate
}

// configKey names a field after the configuration key it is read from.
func configKey(fld reflect.StructField) string {
	for _, tag := range []string{"config", "mapstructure"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return toSnakeCase(fld.Name)
}

// Validate validates a struct using struct tags and returns an
// INVALID_INPUT AppError listing every failed field.
func Validate(s any) error {
	fieldErrors, err := check(s)
	if err != nil || len(fieldErrors) == 0 {
		return err
	}
	return fieldErrorsToAppError(fieldErrors)
}

// Settings validates resolved settings of the returner configured under
// namespace. When any required setting is absent the first one is reported
// as a MISSING_FIELD AppError ("<namespace>.<key> not defined in config");
// other failures are reported as by Validate.
func Settings(namespace string, s any) error {
	fieldErrors, err := check(s)
	if err != nil || len(fieldErrors) == 0 {
		return err
	}
	for _, fe := range fieldErrors {
		if fe.Tag != "required" {
			continue
		}
		key := fe.Field
		if namespace != "" {
			key = namespace + "." + key
		}
		missing := errors.MissingField(key)
		missing.WithDetail("fields", fieldErrors)
		return missing
	}
	return fieldErrorsToAppError(fieldErrors)
}

func check(s any) ([]FieldError, error) {
	err := getValidator().Struct(s)
	if err == nil {
		return nil, nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil, errors.Validation("validation failed").WithCause(err)
	}
	out := make([]FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		out = append(out, FieldError{
			Field:   e.Field(),
			Tag:     e.Tag(),
			Message: formatValidationError(e),
		})
	}
	return out, nil
}

// formatValidationError creates a human-readable error message.
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "hostname_port":
		return "must be host:port"
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "is invalid"
	}
}

// toSnakeCase converts a field name to snake_case.
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		if r >= 'A' && r <= 'Z' {
			result.WriteRune(r + 32)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
