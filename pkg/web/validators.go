package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ParamValidator is a function type that validates a parameter.
type ParamValidator func(valueToTest int64) bool

func newComparisonValidator(valueInClosure int64, compareFn func(argValue, closedValue int64) bool) ParamValidator {
	return func(argValue int64) bool {
		return compareFn(argValue, valueInClosure)
	}
}

// Gte returns a ParamValidator that checks if the argument is greater than or equal to the value captured in the closure.
func Gte(valToCompareAgainst int64) ParamValidator {
	return newComparisonValidator(valToCompareAgainst, func(argValue, closedValue int64) bool {
		return argValue >= closedValue
	})
}

// Gt returns a ParamValidator that checks if the argument is greater than the value captured in the closure.
func Gt(valToCompareAgainst int64) ParamValidator {
	return newComparisonValidator(valToCompareAgainst, func(argValue, closedValue int64) bool {
		return argValue > closedValue
	})
}

// ParsePathInt parses the named path value as an int64 of the given bit size and checks it with pValidator.
// On failure it writes a 400 response and returns false.
func ParsePathInt(w http.ResponseWriter, r *http.Request, logger *slog.Logger, key string, bitSize int, pValidator ParamValidator) (int64, bool) {
	value := r.PathValue(key)
	intValue, err := strconv.ParseInt(value, 10, bitSize)
	if err != nil || !pValidator(intValue) {
		message := BadParameterMessage(key, value)
		logger.WarnContext(r.Context(), "Type mismatch", "message", message, "error", err)
		RespondError(w, logger, http.StatusBadRequest, message)
		return 0, false
	}
	return intValue, true
}

// Any accepts every value that parses.
func Any(int64) bool { return true }

// ParseID extracts an int64 identifier from the {id} path segment.
// Only unparsable values are rejected; a zero or negative id is simply not found later.
func ParseID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (int64, bool) {
	return ParsePathInt(w, r, logger, "id", 64, Any)
}

// NewValidator returns a validator that reports fields by their json names.
// decimal.Decimal fields are checked exactly with dgte, dlt and dscale (max decimal places).
func NewValidator() *validator.Validate {
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
	mustRegister(v, "dgte", decimalRule(func(d decimal.Decimal, param string) bool {
		bound, err := decimal.NewFromString(param)
		return err == nil && d.GreaterThanOrEqual(bound)
	}))
	mustRegister(v, "dlt", decimalRule(func(d decimal.Decimal, param string) bool {
		bound, err := decimal.NewFromString(param)
		return err == nil && d.LessThan(bound)
	}))
	mustRegister(v, "dscale", decimalRule(func(d decimal.Decimal, param string) bool {
		places, err := strconv.ParseInt(param, 10, 32)
		return err == nil && d.Equal(d.Truncate(int32(places)))
	}))
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("failed to register %s validation: %v", tag, err))
	}
}

// decimalRule fails for any field that is not a decimal.Decimal.
func decimalRule(check func(d decimal.Decimal, param string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(decimal.Decimal)
		return ok && check(d, fl.Param())
	}
}

// ValidationMessages converts validator.ValidationErrors into a field -> message map.
// It returns false if err is not a validation error.
func ValidationMessages(err error) (map[string]string, bool) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil, false
	}
	messages := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		messages[fieldErr.Field()] = fieldMessage(fieldErr)
	}
	return messages, true
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be null or blank"
	case "max":
		return fmt.Sprintf("size must be at most %s", fe.Param())
	case "gte", "dgte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lt", "dlt":
		return fmt.Sprintf("must be less than %s", fe.Param())
	case "dscale":
		return fmt.Sprintf("must have at most %s decimal places", fe.Param())
	default:
		return "failed on rule: " + fe.Tag()
	}
}
