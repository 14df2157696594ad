package bookmock

import (
	"context"
	"errors"

	domain "library-circulation/internal/domain/book"
)

var _ domain.Repository = (*Repo)(nil)

var errUnimplemented = errors.New("bookmock: method not implemented")

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn                  func(ctx context.Context, b *domain.Book) error
	GetByIDFn                 func(ctx context.Context, id uint64) (*domain.Book, error)
	GetByAccessionFn          func(ctx context.Context, accession string) (*domain.Book, error)
	GetByAccessionForUpdateFn func(ctx context.Context, accession string) (*domain.Book, error)
	UpsertByAccessionFn       func(ctx context.Context, b *domain.Book, columns []string) (bool, error)
	SetStatusIfFn             func(ctx context.Context, id uint64, from, to domain.Status) (bool, error)
	SetStatusFn               func(ctx context.Context, id uint64, to domain.Status) error
	DeleteFn                  func(ctx context.Context, id uint64) error
	SearchFn                  func(ctx context.Context, f domain.SearchFilter) ([]domain.Book, int64, error)
	ListAllFn                 func(ctx context.Context) ([]domain.Book, error)
	CountByStatusFn           func(ctx context.Context) (map[domain.Status]int64, error)
	CountByCategoryFn         func(ctx context.Context) (map[uint64]int64, error)
}

func (m *Repo) Create(ctx context.Context, b *domain.Book) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, b)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Book, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByAccession(ctx context.Context, accession string) (*domain.Book, error) {
	if m.GetByAccessionFn != nil {
		return m.GetByAccessionFn(ctx, accession)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByAccessionForUpdate(ctx context.Context, accession string) (*domain.Book, error) {
	if m.GetByAccessionForUpdateFn != nil {
		return m.GetByAccessionForUpdateFn(ctx, accession)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) UpsertByAccession(ctx context.Context, b *domain.Book, columns []string) (bool, error) {
	if m.UpsertByAccessionFn != nil {
		return m.UpsertByAccessionFn(ctx, b, columns)
	}
	return false, errUnimplemented
}

func (m *Repo) SetStatusIf(ctx context.Context, id uint64, from, to domain.Status) (bool, error) {
	if m.SetStatusIfFn != nil {
		return m.SetStatusIfFn(ctx, id, from, to)
	}
	return true, nil
}

func (m *Repo) SetStatus(ctx context.Context, id uint64, to domain.Status) error {
	if m.SetStatusFn != nil {
		return m.SetStatusFn(ctx, id, to)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, id uint64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *Repo) Search(ctx context.Context, f domain.SearchFilter) ([]domain.Book, int64, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, f)
	}
	return nil, 0, nil
}

func (m *Repo) ListAll(ctx context.Context) ([]domain.Book, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx)
	}
	return nil, nil
}

func (m *Repo) CountByStatus(ctx context.Context) (map[domain.Status]int64, error) {
	if m.CountByStatusFn != nil {
		return m.CountByStatusFn(ctx)
	}
	return map[domain.Status]int64{}, nil
}

func (m *Repo) CountByCategory(ctx context.Context) (map[uint64]int64, error) {
	if m.CountByCategoryFn != nil {
		return m.CountByCategoryFn(ctx)
	}
	return map[uint64]int64{}, nil
}
