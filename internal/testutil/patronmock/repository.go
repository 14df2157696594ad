package patronmock

import (
	"context"

	domain "library-circulation/internal/domain/patron"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn         func(ctx context.Context, p *domain.Patron) error
	GetByIDFn        func(ctx context.Context, id uint64) (*domain.Patron, error)
	GetByRollNoFn    func(ctx context.Context, rollNo string) (*domain.Patron, error)
	UpsertByRollNoFn func(ctx context.Context, p *domain.Patron, columns []string) (bool, error)
	UpdateFn         func(ctx context.Context, p *domain.Patron, columns ...string) error
	DeleteFn         func(ctx context.Context, id uint64) error
	ListFn           func(ctx context.Context, f domain.ListFilter) ([]domain.Patron, int64, error)
	ListAllFn        func(ctx context.Context) ([]domain.Patron, error)
	CountByStatusFn  func(ctx context.Context) (map[domain.Status]int64, error)
}

func (m *Repo) Create(ctx context.Context, p *domain.Patron) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Patron, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByRollNo(ctx context.Context, rollNo string) (*domain.Patron, error) {
	if m.GetByRollNoFn != nil {
		return m.GetByRollNoFn(ctx, rollNo)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) UpsertByRollNo(ctx context.Context, p *domain.Patron, columns []string) (bool, error) {
	if m.UpsertByRollNoFn != nil {
		return m.UpsertByRollNoFn(ctx, p, columns)
	}
	return true, nil
}

func (m *Repo) Update(ctx context.Context, p *domain.Patron, columns ...string) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, p, columns...)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, id uint64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *Repo) List(ctx context.Context, f domain.ListFilter) ([]domain.Patron, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, 0, nil
}

func (m *Repo) ListAll(ctx context.Context) ([]domain.Patron, error) {
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
