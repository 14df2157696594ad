package uowmock

import (
	"context"
	"errors"

	"library-circulation/internal/domain/book"
	"library-circulation/internal/domain/transaction"
	"library-circulation/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn            func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinBookTxFn        func(ctx context.Context, accession string, fn func(r uow.Repos, b *book.Book) error) error
	WithinTransactionTxFn func(ctx context.Context, txnID uint64, fn func(r uow.Repos, t *transaction.Transaction) error) error
}

func New() *UoW { return &UoW{} }

// Passthrough runs every callback against fixed repos, optionally handing in the locked rows.
func Passthrough(r uow.Repos, b *book.Book, t *transaction.Transaction) *UoW {
	return &UoW{
		WithinTxFn: func(_ context.Context, fn func(uow.Repos) error) error { return fn(r) },
		WithinBookTxFn: func(_ context.Context, _ string, fn func(uow.Repos, *book.Book) error) error {
			if b == nil {
				return book.ErrNotFound
			}
			return fn(r, b)
		},
		WithinTransactionTxFn: func(_ context.Context, _ uint64, fn func(uow.Repos, *transaction.Transaction) error) error {
			if t == nil {
				return transaction.ErrNotFound
			}
			return fn(r, t)
		},
	}
}

func (m *UoW) Reset() { *m = UoW{} }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinBookTx(ctx context.Context, accession string, fn func(r uow.Repos, b *book.Book) error) error {
	if m.WithinBookTxFn != nil {
		return m.WithinBookTxFn(ctx, accession, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinTransactionTx(ctx context.Context, txnID uint64, fn func(r uow.Repos, t *transaction.Transaction) error) error {
	if m.WithinTransactionTxFn != nil {
		return m.WithinTransactionTxFn(ctx, txnID, fn)
	}
	return errUnimplemented
}
