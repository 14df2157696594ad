package http

import (
	"github.com/go-playground/validator/v10"

	"library-circulation/internal/validation"
)

type FieldError = validation.FieldError

// Reusable error payload
type ErrorResponse struct {
	Error   string       `json:"error"`
	Code    string       `json:"code,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator { return &CustomValidator{v: validation.New()} }

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

func ToFieldErrors(err error) []FieldError { return validation.ToFieldErrors(err) }
