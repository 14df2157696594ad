package http

import (
	"errors"
	"strings"
	"testing"
)

func TestCustomValidator_RequestShapes(t *testing.T) {
	type P struct {
		RollNo string `json:"roll_no" validate:"required,max=5"`
		Type   string `json:"patron_type" validate:"patrontype"`
		Min    int    `json:"min" validate:"gte=10"`
		Max    int    `json:"max" validate:"lte=5"`
	}
	cv := NewValidator()

	if err := cv.Validate(P{RollNo: "R1", Type: "staff", Min: 10, Max: 5}); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	err := cv.Validate(P{RollNo: "", Type: "guest", Min: 9, Max: 6})
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	fe := ToFieldErrors(err)
	if !containsFieldMsg(fe, "roll_no", "is required") {
		t.Fatalf("missing 'is required' for roll_no: %+v", fe)
	}
	if !containsFieldMsg(fe, "patron_type", "student, faculty, staff") {
		t.Fatalf("missing patrontype message: %+v", fe)
	}
	if !containsFieldMsg(fe, "min", "greater than or equal to 10") {
		t.Fatalf("missing gte message for min: %+v", fe)
	}
	if !containsFieldMsg(fe, "max", "less than or equal to 5") {
		t.Fatalf("missing lte message for max: %+v", fe)
	}

	fe = ToFieldErrors(cv.Validate(P{RollNo: "TOOLONG", Type: "staff", Min: 10}))
	if !containsFieldMsg(fe, "roll_no", "at most 5") {
		t.Fatalf("missing max message: %+v", fe)
	}
}

func TestToFieldErrors_NonValidation(t *testing.T) {
	fe := ToFieldErrors(errors.New("boom"))
	if len(fe) != 1 {
		t.Fatalf("expected 1 field error, got %d", len(fe))
	}
	if fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected mapping: %+v", fe[0])
	}
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
