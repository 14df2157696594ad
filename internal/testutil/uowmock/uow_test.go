package uowmock

import (
	"context"
	"errors"
	"testing"

	"library-circulation/internal/domain/book"
	"library-circulation/internal/domain/transaction"
	"library-circulation/internal/domain/uow"
	"library-circulation/internal/testutil/bookmock"
	"library-circulation/internal/testutil/transactionmock"
)

func TestUoW_Unimplemented(t *testing.T) {
	m := New()
	ctx := context.Background()
	if err := m.WithinTx(ctx, func(uow.Repos) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinTx: %v", err)
	}
	if err := m.WithinBookTx(ctx, "A", func(uow.Repos, *book.Book) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinBookTx: %v", err)
	}
	if err := m.WithinTransactionTx(ctx, 1, func(uow.Repos, *transaction.Transaction) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinTransactionTx: %v", err)
	}
}

func TestPassthrough_ForwardsReposAndRows(t *testing.T) {
	books := &bookmock.Repo{}
	txns := &transactionmock.Repo{}
	repos := uow.Repos{Books: books, Transactions: txns}
	b := &book.Book{ID: 7}
	txn := &transaction.Transaction{ID: 9}
	m := Passthrough(repos, b, txn)
	ctx := context.Background()

	called := 0
	_ = m.WithinTx(ctx, func(r uow.Repos) error {
		called++
		if r.Books != books || r.Transactions != txns {
			t.Fatal("repos not forwarded")
		}
		return nil
	})
	_ = m.WithinBookTx(ctx, "X", func(_ uow.Repos, got *book.Book) error {
		called++
		if got != b {
			t.Fatal("book not forwarded")
		}
		return nil
	})
	sentinel := errors.New("stop")
	err := m.WithinTransactionTx(ctx, 9, func(_ uow.Repos, got *transaction.Transaction) error {
		called++
		if got != txn {
			t.Fatal("transaction not forwarded")
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) || called != 3 {
		t.Fatalf("err=%v called=%d", err, called)
	}

	m.Reset()
	if err := m.WithinTx(ctx, func(uow.Repos) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatal("Reset must clear functions")
	}
}

func TestPassthrough_MissingRows(t *testing.T) {
	m := Passthrough(uow.Repos{}, nil, nil)
	ctx := context.Background()
	if err := m.WithinBookTx(ctx, "X", func(uow.Repos, *book.Book) error { return nil }); !errors.Is(err, book.ErrNotFound) {
		t.Fatalf("book: %v", err)
	}
	if err := m.WithinTransactionTx(ctx, 1, func(uow.Repos, *transaction.Transaction) error { return nil }); !errors.Is(err, transaction.ErrNotFound) {
		t.Fatalf("txn: %v", err)
	}
}
