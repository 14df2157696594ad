package transaction

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"library-circulation/internal/domain/book"
	"library-circulation/internal/domain/patron"
)

type Status string

const (
	StatusIssued   Status = "issued"
	StatusReturned Status = "returned"
)

func (s Status) Valid() bool { return s == StatusIssued || s == StatusReturned }

var (
	ErrNotFound           = errors.New("transaction not found")
	ErrDuplicateReference = errors.New("transaction reference already exists")
)

// Transaction is one issue/return record of the ledger. Overdue is never stored.
type Transaction struct {
	ID         uint64          `gorm:"primaryKey;column:id" json:"id"`
	Reference  string          `gorm:"size:26;not null;uniqueIndex:ux_transactions_reference" json:"reference"`
	PatronID   uint64          `gorm:"not null;index:idx_transactions_patron_status" json:"patron_id"`
	Patron     *patron.Patron  `gorm:"foreignKey:PatronID" json:"patron,omitempty"`
	BookID     uint64          `gorm:"not null;index:idx_transactions_book_status" json:"book_id"`
	Book       *book.Book      `gorm:"foreignKey:BookID" json:"book,omitempty"`
	IssueDate  time.Time       `gorm:"type:date;not null" json:"issue_date"`
	DueDate    time.Time       `gorm:"type:date;not null" json:"due_date"`
	ReturnDate *time.Time      `gorm:"type:date" json:"return_date,omitempty"`
	Status     Status          `gorm:"size:20;not null;index:idx_transactions_patron_status;index:idx_transactions_book_status" json:"status"`
	FineAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"fine_amount"`
	FinePaid   bool            `gorm:"not null" json:"fine_paid"`
	IssuedBy   uint64          `json:"issued_by"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Transaction) TableName() string { return "transactions" }

func (t *Transaction) IsOpen() bool { return t.Status == StatusIssued && t.ReturnDate == nil }

// RestoreColumns are written when an existing reference is re-imported.
var RestoreColumns = []string{"patron_id", "book_id", "issue_date", "due_date", "return_date", "status", "fine_amount", "fine_paid", "issued_by", "updated_at"}
