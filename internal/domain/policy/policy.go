package policy

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"library-circulation/internal/domain/patron"
	"library-circulation/internal/domain/setting"
	"library-circulation/internal/domain/transaction"
)

const (
	DefaultDueDays  = 14
	DefaultMaxBooks = 3
)

var DefaultFinePerDay = decimal.NewFromInt(1)

// Engine evaluates circulation rules against one settings snapshot.
type Engine struct {
	settings *setting.Snapshot
}

func New(s *setting.Snapshot) Engine { return Engine{settings: s} }

func (e Engine) ResolveDueDays(t patron.Type) int {
	n := e.settings.Int(setting.DueDaysKey(t), DefaultDueDays)
	if n <= 0 {
		return DefaultDueDays
	}
	return n
}

func (e Engine) ResolveMaxBooks(t patron.Type) int {
	n := e.settings.Int(setting.MaxBooksKey(t), DefaultMaxBooks)
	if n <= 0 {
		return DefaultMaxBooks
	}
	return n
}

func (e Engine) FinePerDay() decimal.Decimal {
	r := e.settings.Decimal(setting.KeyFinePerDay, DefaultFinePerDay)
	if r.IsNegative() {
		return DefaultFinePerDay
	}
	return r
}

// CanIssue uses the patron's own max_books; the type default only seeds new patrons.
func (e Engine) CanIssue(p *patron.Patron, openCount int64) bool {
	if p == nil || !p.IsActive() {
		return false
	}
	return openCount < int64(p.MaxBooks)
}

func (e Engine) ComputeDueDate(issueDate time.Time, t patron.Type) time.Time {
	return Day(issueDate).AddDate(0, 0, e.ResolveDueDays(t))
}

// DaysOverdue is 0 for returned or not-yet-due loans.
func (e Engine) DaysOverdue(t *transaction.Transaction, today time.Time) (int, error) {
	if t == nil {
		return 0, errors.New("no transaction")
	}
	if t.Status == transaction.StatusReturned || t.ReturnDate != nil {
		return 0, nil
	}
	due, err := NormalizeDate(t.DueDate)
	if err != nil {
		return 0, err
	}
	days := DaysBetween(due, Day(today))
	if days < 0 {
		return 0, nil
	}
	return days, nil
}

func (e Engine) IsOverdue(t *transaction.Transaction, today time.Time) bool {
	days, err := e.DaysOverdue(t, today)
	return err == nil && days > 0
}

type FineStatus string

const (
	FineOK          FineStatus = "ok"
	FineUnparseable FineStatus = "unparseable"
)

type FineResult struct {
	Amount   decimal.Decimal
	DaysLate int
	Status   FineStatus
	Reason   string
}

func (r FineResult) OK() bool { return r.Status == FineOK }

// AssessFine tells "no fine owed" apart from "fine could not be computed".
func (e Engine) AssessFine(t *transaction.Transaction, today time.Time) FineResult {
	days, err := e.DaysOverdue(t, today)
	if err != nil {
		return FineResult{Amount: decimal.Zero, Status: FineUnparseable, Reason: err.Error()}
	}
	amount := e.FinePerDay().Mul(decimal.NewFromInt(int64(days))).Round(2)
	return FineResult{Amount: amount, DaysLate: days, Status: FineOK}
}

// ComputeFine collapses an unparseable result to zero.
func (e Engine) ComputeFine(t *transaction.Transaction, today time.Time) decimal.Decimal {
	return e.AssessFine(t, today).Amount
}
