package transactionmock

import (
	"context"
	"errors"

	domain "library-circulation/internal/domain/transaction"
)

var _ domain.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("transactionmock: method not implemented")

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn            func(ctx context.Context, t *domain.Transaction) error
	GetByIDFn           func(ctx context.Context, id uint64) (*domain.Transaction, error)
	GetByIDForUpdateFn  func(ctx context.Context, id uint64) (*domain.Transaction, error)
	GetByReferenceFn    func(ctx context.Context, ref string) (*domain.Transaction, error)
	UpsertByReferenceFn func(ctx context.Context, t *domain.Transaction, columns []string) (bool, error)
	MarkReturnedFn      func(ctx context.Context, t *domain.Transaction) (bool, error)
	MarkFinePaidFn      func(ctx context.Context, id uint64) (bool, error)
	CountOpenByPatronFn func(ctx context.Context, patronID uint64) (int64, error)
	CountOpenByBookFn   func(ctx context.Context, bookID uint64) (int64, error)
	DeleteByPatronFn    func(ctx context.Context, patronID uint64) (int64, error)
	DeleteByBookFn      func(ctx context.Context, bookID uint64) (int64, error)
	ListFn              func(ctx context.Context, f domain.ListFilter) ([]domain.Transaction, int64, error)
	TallyFn             func(ctx context.Context, f domain.ListFilter) (domain.Tally, error)
	ListOpenFn          func(ctx context.Context, patronID uint64) ([]domain.Transaction, error)
	ListUnpaidFinesFn   func(ctx context.Context, patronID uint64) ([]domain.Transaction, error)
	ListAllFn           func(ctx context.Context) ([]domain.Transaction, error)
	CountFn             func(ctx context.Context) (int64, error)
}

func (m *Repo) Create(ctx context.Context, t *domain.Transaction) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Transaction, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.Transaction, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, errUnimplemented
}

func (m *Repo) GetByReference(ctx context.Context, ref string) (*domain.Transaction, error) {
	if m.GetByReferenceFn != nil {
		return m.GetByReferenceFn(ctx, ref)
	}
	return nil, errUnimplemented
}

func (m *Repo) UpsertByReference(ctx context.Context, t *domain.Transaction, columns []string) (bool, error) {
	if m.UpsertByReferenceFn != nil {
		return m.UpsertByReferenceFn(ctx, t, columns)
	}
	return false, errUnimplemented
}

func (m *Repo) MarkReturned(ctx context.Context, t *domain.Transaction) (bool, error) {
	if m.MarkReturnedFn != nil {
		return m.MarkReturnedFn(ctx, t)
	}
	return true, nil
}

func (m *Repo) MarkFinePaid(ctx context.Context, id uint64) (bool, error) {
	if m.MarkFinePaidFn != nil {
		return m.MarkFinePaidFn(ctx, id)
	}
	return true, nil
}

func (m *Repo) CountOpenByPatron(ctx context.Context, patronID uint64) (int64, error) {
	if m.CountOpenByPatronFn != nil {
		return m.CountOpenByPatronFn(ctx, patronID)
	}
	return 0, nil
}

func (m *Repo) CountOpenByBook(ctx context.Context, bookID uint64) (int64, error) {
	if m.CountOpenByBookFn != nil {
		return m.CountOpenByBookFn(ctx, bookID)
	}
	return 0, nil
}

func (m *Repo) DeleteByPatron(ctx context.Context, patronID uint64) (int64, error) {
	if m.DeleteByPatronFn != nil {
		return m.DeleteByPatronFn(ctx, patronID)
	}
	return 0, nil
}

func (m *Repo) DeleteByBook(ctx context.Context, bookID uint64) (int64, error) {
	if m.DeleteByBookFn != nil {
		return m.DeleteByBookFn(ctx, bookID)
	}
	return 0, nil
}

func (m *Repo) List(ctx context.Context, f domain.ListFilter) ([]domain.Transaction, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, 0, nil
}

func (m *Repo) Tally(ctx context.Context, f domain.ListFilter) (domain.Tally, error) {
	if m.TallyFn != nil {
		return m.TallyFn(ctx, f)
	}
	return domain.Tally{}, nil
}

func (m *Repo) ListOpen(ctx context.Context, patronID uint64) ([]domain.Transaction, error) {
	if m.ListOpenFn != nil {
		return m.ListOpenFn(ctx, patronID)
	}
	return nil, nil
}

func (m *Repo) ListUnpaidFines(ctx context.Context, patronID uint64) ([]domain.Transaction, error) {
	if m.ListUnpaidFinesFn != nil {
		return m.ListUnpaidFinesFn(ctx, patronID)
	}
	return nil, nil
}

func (m *Repo) ListAll(ctx context.Context) ([]domain.Transaction, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx)
	}
	return nil, nil
}

func (m *Repo) Count(ctx context.Context) (int64, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx)
	}
	return 0, nil
}
