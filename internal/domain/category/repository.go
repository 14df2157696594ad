package category

import "context"

type Repository interface {
	GetByID(ctx context.Context, id uint64) (*Category, error)
	GetByName(ctx context.Context, name string) (*Category, error)
	// UpsertByName matches on the folded name; an existing row keeps its id and created_at.
	UpsertByName(ctx context.Context, c *Category) (created bool, err error)
	// EnsureByName returns the category, creating an active one when absent.
	EnsureByName(ctx context.Context, name string) (*Category, error)
	SetActive(ctx context.Context, id uint64, active bool) error
	List(ctx context.Context, onlyActive bool) ([]Category, error)
	Count(ctx context.Context) (int64, error)
}
