package gormdb

import (
	"context"

	"gorm.io/gorm"

	"library-circulation/internal/domain/book"
	"library-circulation/internal/domain/transaction"
	"library-circulation/internal/domain/uow"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

// Repos binds every repository to db; inside a transaction db is the tx handle.
func Repos(db *gorm.DB) uow.Repos {
	return uow.Repos{
		Categories:   &CategoryRepository{db: db},
		Books:        &BookRepository{db: db},
		Patrons:      &PatronRepository{db: db},
		Transactions: &TransactionRepository{db: db},
		Settings:     &SettingRepository{db: db},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Repos(tx))
	})
}

func (u *GormUoW) WithinBookTx(ctx context.Context, accession string, fn func(r uow.Repos, b *book.Book) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := Repos(tx)
		// lock the book row up-front so concurrent issues serialize on it
		b, err := r.Books.GetByAccessionForUpdate(ctx, accession)
		if err != nil {
			return err
		}
		return fn(r, b)
	})
}

func (u *GormUoW) WithinTransactionTx(ctx context.Context, txnID uint64, fn func(r uow.Repos, t *transaction.Transaction) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := Repos(tx)
		t, err := r.Transactions.GetByIDForUpdate(ctx, txnID)
		if err != nil {
			return err
		}
		return fn(r, t)
	})
}
