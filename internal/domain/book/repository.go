package book

import "context"

type SearchFilter struct {
	Query      string
	CategoryID uint64
	Status     Status // empty means any
	Limit      int
	Offset     int
}

type Repository interface {
	Create(ctx context.Context, b *Book) error
	GetByID(ctx context.Context, id uint64) (*Book, error)
	GetByAccession(ctx context.Context, accession string) (*Book, error)
	// GetByAccessionForUpdate locks the row where the dialect supports it.
	GetByAccessionForUpdate(ctx context.Context, accession string) (*Book, error)
	UpsertByAccession(ctx context.Context, b *Book, columns []string) (created bool, err error)
	// SetStatusIf flips status only when it currently equals from.
	SetStatusIf(ctx context.Context, id uint64, from, to Status) (bool, error)
	SetStatus(ctx context.Context, id uint64, to Status) error
	Delete(ctx context.Context, id uint64) error
	Search(ctx context.Context, f SearchFilter) ([]Book, int64, error)
	ListAll(ctx context.Context) ([]Book, error)
	CountByStatus(ctx context.Context) (map[Status]int64, error)
	CountByCategory(ctx context.Context) (map[uint64]int64, error)
}
