package transaction

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ListFilter narrows List and Tally. Zero times leave that bound open;
// IssuedBefore is exclusive.
type ListFilter struct {
	Status       Status
	PatronID     uint64
	BookID       uint64
	IssuedFrom   time.Time
	IssuedBefore time.Time
	ReturnedFrom time.Time
	Limit        int
	Offset       int
}

// Tally aggregates the rows a ListFilter matches.
type Tally struct {
	Issued       int64
	Returned     int64
	FinedReturns int64
	// Fines sums fine_amount over returned rows.
	Fines decimal.Decimal
}

type Repository interface {
	Create(ctx context.Context, t *Transaction) error
	GetByID(ctx context.Context, id uint64) (*Transaction, error)
	GetByIDForUpdate(ctx context.Context, id uint64) (*Transaction, error)
	GetByReference(ctx context.Context, ref string) (*Transaction, error)
	UpsertByReference(ctx context.Context, t *Transaction, columns []string) (created bool, err error)
	// MarkReturned persists the return fields only while the row is still issued.
	MarkReturned(ctx context.Context, t *Transaction) (bool, error)
	// MarkFinePaid flips fine_paid only for an unpaid, positive fine.
	MarkFinePaid(ctx context.Context, id uint64) (bool, error)
	CountOpenByPatron(ctx context.Context, patronID uint64) (int64, error)
	CountOpenByBook(ctx context.Context, bookID uint64) (int64, error)
	DeleteByPatron(ctx context.Context, patronID uint64) (int64, error)
	DeleteByBook(ctx context.Context, bookID uint64) (int64, error)
	List(ctx context.Context, f ListFilter) ([]Transaction, int64, error)
	// Tally ignores Limit and Offset.
	Tally(ctx context.Context, f ListFilter) (Tally, error)
	ListOpen(ctx context.Context, patronID uint64) ([]Transaction, error)
	ListUnpaidFines(ctx context.Context, patronID uint64) ([]Transaction, error)
	ListAll(ctx context.Context) ([]Transaction, error)
	Count(ctx context.Context) (int64, error)
}
