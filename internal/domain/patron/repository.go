package patron

import "context"

type ListFilter struct {
	Query  string
	Status Status
	Type   Type
	Limit  int
	Offset int
}

type Repository interface {
	Create(ctx context.Context, p *Patron) error
	GetByID(ctx context.Context, id uint64) (*Patron, error)
	GetByRollNo(ctx context.Context, rollNo string) (*Patron, error)
	UpsertByRollNo(ctx context.Context, p *Patron, columns []string) (created bool, err error)
	Update(ctx context.Context, p *Patron, columns ...string) error
	Delete(ctx context.Context, id uint64) error
	List(ctx context.Context, f ListFilter) ([]Patron, int64, error)
	ListAll(ctx context.Context) ([]Patron, error)
	CountByStatus(ctx context.Context) (map[Status]int64, error)
}
