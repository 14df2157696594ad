package validation

import (
	"errors"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"library-circulation/internal/domain/patron"
	"library-circulation/internal/domain/policy"
)

// FieldError is one readable validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New builds the validator shared by request binding and file import.
func New() *validator.Validate {
	v := validator.New()

	// report json names instead of Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("patrontype", func(fl validator.FieldLevel) bool {
		return patron.Type(strings.ToLower(strings.TrimSpace(fl.Field().String()))).Valid()
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := policy.NormalizeDate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("year4", func(fl validator.FieldLevel) bool {
		y := fl.Field().Int()
		return y >= 1000 && y <= 9999
	})
	// max 2 decimal places
	_ = v.RegisterValidation("dec2", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return math.Abs(f-(math.Round(f*100)/100)) < 1e-9
	})
	return v
}

// ToFieldErrors maps validator.ValidationErrors to readable messages.
func ToFieldErrors(err error) []FieldError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		out = append(out, FieldError{Field: e.Field(), Message: message(e)})
	}
	return out
}

// Summary joins every field error into one line, as used for import row errors.
func Summary(err error) string {
	fes := ToFieldErrors(err)
	parts := make([]string, 0, len(fes))
	for _, fe := range fes {
		if fe.Field == "_" {
			parts = append(parts, fe.Message)
			continue
		}
		parts = append(parts, fe.Field+" "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "patrontype":
		return "must be one of student, faculty, staff"
	case "isodate":
		return "must be a date (YYYY-MM-DD)"
	case "year4":
		return "must be a four-digit year"
	case "dec2":
		return "must have at most 2 decimal places"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of " + e.Param()
	case "max":
		return "must be at most " + e.Param() + " characters"
	case "gt":
		return "must be greater than " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	default:
		return e.Tag() + " validation failed"
	}
}
