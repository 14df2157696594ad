package roster

import "library-circulation/internal/domain/patron"

type PatronInput struct {
	RollNo     string `json:"roll_no"     validate:"required,max=50"`
	Name       string `json:"name"        validate:"required,max=255"`
	Email      string `json:"email"       validate:"omitempty,email,max=255"`
	Phone      string `json:"phone"       validate:"max=20"`
	PatronType string `json:"patron_type" validate:"omitempty,patrontype"`
	Department string `json:"department"  validate:"max=100"`
	Division   string `json:"division"    validate:"max=50"`
	Status     string `json:"status"      validate:"omitempty,oneof=pending active inactive suspended"`
	// MaxBooks of 0 takes the patron type's configured limit.
	MaxBooks int `json:"max_books" validate:"omitempty,gte=1,lte=100"`
}

type PatronQuery struct {
	Q       string `query:"q"`
	Status  string `query:"status"      validate:"omitempty,oneof=pending active inactive suspended"`
	Type    string `query:"patron_type" validate:"omitempty,patrontype"`
	Page    int    `query:"page"        validate:"omitempty,gte=1"`
	PerPage int    `query:"per_page"    validate:"omitempty,gte=1,lte=100"`
}

// Source tells form entry from bulk upload; they differ only in the default status.
type Source int

const (
	SourceForm Source = iota
	SourceImport
)

func (s Source) defaultStatus() patron.Status {
	if s == SourceImport {
		return patron.StatusActive
	}
	return patron.StatusPending
}
