package opac

import (
	"library-circulation/internal/usecase/catalog"
	"library-circulation/internal/usecase/circulation"
)

const PerPage = 20

type SearchQuery struct {
	Q          string `query:"q"`
	CategoryID uint64 `query:"category_id"`
	// Status defaults to available; "all" drops the filter.
	Status string `query:"status" validate:"omitempty,oneof=all available issued lost damaged"`
	Page   int    `query:"page"   validate:"omitempty,gte=1"`
}

type Dashboard struct {
	LibraryName      string                       `json:"library_name"`
	LibrarianEmail   string                       `json:"librarian_email"`
	RollNo           string                       `json:"roll_no"`
	Name             string                       `json:"name"`
	CurrentLoans     []circulation.TransactionDTO `json:"current_loans"`
	OverdueCount     int                          `json:"overdue_count"`
	TotalBorrowed    int64                        `json:"total_borrowed"`
	OutstandingFines float64                      `json:"outstanding_fines"`
	UnpaidFines      []circulation.TransactionDTO `json:"unpaid_fines"`
	MaxBooks         int                          `json:"max_books"`
	MustChangePass   bool                         `json:"must_change_password"`
}

type BookDetail struct {
	catalog.BookDTO
	Available bool `json:"available"`
}
