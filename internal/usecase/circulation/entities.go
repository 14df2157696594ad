package circulation

import (
	"time"

	"library-circulation/internal/domain/policy"
	"library-circulation/internal/domain/transaction"
	"library-circulation/pkg/pagination"
)

type IssueInput struct {
	RollNo          string `json:"roll_no"          validate:"required,max=50"`
	AccessionNumber string `json:"accession_number" validate:"required,max=50"`
	IssuedBy        uint64 `json:"-"`
}

type ReturnInput struct {
	TransactionID uint64 `json:"transaction_id" validate:"required,gt=0"`
}

type ListQuery struct {
	Status    string `query:"status"     validate:"omitempty,oneof=issued returned"`
	RollNo    string `query:"roll_no"`
	StartDate string `query:"start_date" validate:"omitempty,isodate"`
	EndDate   string `query:"end_date"   validate:"omitempty,isodate"`
	Page      int    `query:"page"       validate:"omitempty,gte=1"`
	PerPage   int    `query:"per_page"   validate:"omitempty,gte=1,lte=100"`
}

// LogQuery selects loans by issue date. Without start_date the window is the
// thirty days up to end_date, which defaults to today.
type LogQuery struct {
	StartDate string `query:"start_date" validate:"omitempty,isodate"`
	EndDate   string `query:"end_date"   validate:"omitempty,isodate"`
	Type      string `query:"type"       validate:"omitempty,oneof=all issued returned"`
	Page      int    `query:"page"       validate:"omitempty,gte=1"`
}

type LogStats struct {
	TotalIssues    int64   `json:"total_issues"`
	TotalReturns   int64   `json:"total_returns"`
	TotalFines     float64 `json:"total_fines"`
	OverdueReturns int64   `json:"overdue_returns"`
}

type TransactionLog struct {
	StartDate    string                          `json:"start_date"`
	EndDate      string                          `json:"end_date"`
	Type         string                          `json:"type"`
	Stats        LogStats                        `json:"stats"`
	Transactions pagination.Page[TransactionDTO] `json:"transactions"`
}

type TransactionDTO struct {
	ID              uint64  `json:"id"`
	Reference       string  `json:"reference"`
	PatronID        uint64  `json:"patron_id"`
	RollNo          string  `json:"roll_no,omitempty"`
	PatronName      string  `json:"patron_name,omitempty"`
	BookID          uint64  `json:"book_id"`
	AccessionNumber string  `json:"accession_number,omitempty"`
	BookTitle       string  `json:"book_title,omitempty"`
	IssueDate       string  `json:"issue_date"`
	DueDate         string  `json:"due_date"`
	ReturnDate      *string `json:"return_date,omitempty"`
	Status          string  `json:"status"`
	FineAmount      float64 `json:"fine_amount"`
	FinePaid        bool    `json:"fine_paid"`
	Overdue         bool    `json:"overdue"`
	DaysOverdue     int     `json:"days_overdue"`
	// LiveFine is the accruing fine of an open loan as of today.
	LiveFine       float64 `json:"live_fine"`
	FineUnresolved bool    `json:"fine_unresolved,omitempty"`
	IssuedBy       uint64  `json:"issued_by"`
}

type DeleteResult struct {
	DeletedTransactions int64 `json:"deleted_transactions"`
}

type FinesReport struct {
	Outstanding   []TransactionDTO `json:"outstanding"`
	Count         int              `json:"count"`
	Total         float64          `json:"total"`
	Average       float64          `json:"average"`
	Accruing      []TransactionDTO `json:"accruing"`
	AccruingTotal float64          `json:"accruing_total"`
}

type Summary struct {
	TotalBooks       int64   `json:"total_books"`
	AvailableBooks   int64   `json:"available_books"`
	IssuedBooks      int64   `json:"issued_books"`
	LostBooks        int64   `json:"lost_books"`
	DamagedBooks     int64   `json:"damaged_books"`
	TotalPatrons     int64   `json:"total_patrons"`
	ActivePatrons    int64   `json:"active_patrons"`
	PendingPatrons   int64   `json:"pending_patrons"`
	OpenLoans        int     `json:"open_loans"`
	OverdueLoans     int     `json:"overdue_loans"`
	OutstandingFines float64 `json:"outstanding_fines"`
}

// ToDTO renders t as of today; stored fines stay frozen, open loans get a live figure.
func ToDTO(t *transaction.Transaction, eng policy.Engine, today time.Time) TransactionDTO {
	dto := TransactionDTO{
		ID:         t.ID,
		Reference:  t.Reference,
		PatronID:   t.PatronID,
		BookID:     t.BookID,
		IssueDate:  policy.FormatDate(t.IssueDate),
		DueDate:    policy.FormatDate(t.DueDate),
		Status:     string(t.Status),
		FineAmount: t.FineAmount.InexactFloat64(),
		FinePaid:   t.FinePaid,
		IssuedBy:   t.IssuedBy,
	}
	if t.ReturnDate != nil {
		s := policy.FormatDate(*t.ReturnDate)
		dto.ReturnDate = &s
	}
	if t.Patron != nil {
		dto.RollNo = t.Patron.RollNo
		dto.PatronName = t.Patron.Name
	}
	if t.Book != nil {
		dto.AccessionNumber = t.Book.AccessionNumber
		dto.BookTitle = t.Book.Title
	}
	if t.IsOpen() {
		res := eng.AssessFine(t, today)
		dto.DaysOverdue = res.DaysLate
		dto.Overdue = res.DaysLate > 0
		dto.LiveFine = res.Amount.InexactFloat64()
		dto.FineUnresolved = !res.OK()
	}
	return dto
}
