package validation

import (
	"errors"
	"strings"
	"testing"
)

func has(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestPatronTypeAndDate(t *testing.T) {
	type row struct {
		Type string `json:"patron_type" validate:"patrontype"`
		Due  string `json:"due_date"    validate:"omitempty,isodate"`
	}
	v := New()
	for _, ok := range []row{{Type: "student"}, {Type: " Faculty "}, {Type: "staff", Due: "2025-01-31"}, {Type: "staff", Due: "2025-01-31T10:00:00"}} {
		if err := v.Struct(ok); err != nil {
			t.Fatalf("%+v: %v", ok, err)
		}
	}

	err := v.Struct(row{Type: "alumni", Due: "31/01/2025"})
	if err == nil {
		t.Fatal("expected errors")
	}
	fe := ToFieldErrors(err)
	if !has(fe, "patron_type", "student, faculty, staff") {
		t.Fatalf("patron_type: %+v", fe)
	}
	if !has(fe, "due_date", "YYYY-MM-DD") {
		t.Fatalf("due_date: %+v", fe)
	}
}

func TestYear4AndDec2(t *testing.T) {
	type row struct {
		Year int     `json:"publication_year" validate:"omitempty,year4"`
		Fine float64 `json:"fine_amount"      validate:"gte=0,dec2"`
	}
	v := New()
	if err := v.Struct(row{Year: 0, Fine: 1.25}); err != nil {
		t.Fatalf("valid row: %v", err)
	}
	err := v.Struct(row{Year: 99, Fine: 1.234})
	fe := ToFieldErrors(err)
	if !has(fe, "publication_year", "four-digit") || !has(fe, "fine_amount", "2 decimal") {
		t.Fatalf("errors = %+v", fe)
	}
	if s := Summary(err); !strings.Contains(s, "publication_year must be a four-digit year") {
		t.Fatalf("summary = %q", s)
	}
}

func TestRequiredUsesJSONName(t *testing.T) {
	type row struct {
		Name   string `json:"name" validate:"required"`
		Hidden string `json:"-"    validate:"required"`
	}
	fe := ToFieldErrors(New().Struct(row{}))
	if !has(fe, "name", "is required") || !has(fe, "Hidden", "is required") {
		t.Fatalf("errors = %+v", fe)
	}
}

func TestToFieldErrors_NonValidation(t *testing.T) {
	fe := ToFieldErrors(errors.New("boom"))
	if len(fe) != 1 || fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected mapping: %+v", fe)
	}
	if Summary(errors.New("boom")) != "boom" {
		t.Fatal("summary of plain error")
	}
}
