package uow

import (
	"context"

	"library-circulation/internal/domain/book"
	"library-circulation/internal/domain/category"
	"library-circulation/internal/domain/patron"
	"library-circulation/internal/domain/setting"
	"library-circulation/internal/domain/transaction"
)

type Repos struct {
	Categories   category.Repository
	Books        book.Repository
	Patrons      patron.Repository
	Transactions transaction.Repository
	Settings     setting.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the book by accession number first, then pass it in
	WithinBookTx(ctx context.Context, accession string, fn func(r Repos, b *book.Book) error) error
	// lock the ledger row first, then pass it in
	WithinTransactionTx(ctx context.Context, txnID uint64, fn func(r Repos, t *transaction.Transaction) error) error
}
