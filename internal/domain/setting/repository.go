package setting

import (
	"context"
)

type Repository interface {
	List(ctx context.Context) ([]Setting, error)
	Get(ctx context.Context, key string) (*Setting, error)
	Put(ctx context.Context, key string, value JSONValue, description string) error
	// SeedMissing inserts the given rows whose keys are not present yet.
	SeedMissing(ctx context.Context, rows []Setting) (int, error)
}
