package opac

import (
	"context"

	"github.com/shopspring/decimal"

	"library-circulation/internal/domain/book"
	"library-circulation/internal/domain/category"
	"library-circulation/internal/domain/patron"
	"library-circulation/internal/domain/policy"
	"library-circulation/internal/domain/setting"
	"library-circulation/internal/domain/transaction"
	"library-circulation/internal/usecase/catalog"
	"library-circulation/internal/usecase/circulation"
	"library-circulation/pkg/pagination"
)

type Usecase struct {
	books      book.Repository
	categories category.Repository
	patrons    patron.Repository
	txns       transaction.Repository
	settings   circulation.SettingsSource
	clock      policy.Clock
}

func NewUsecase(books book.Repository, categories category.Repository, patrons patron.Repository,
	txns transaction.Repository, settings circulation.SettingsSource, clock policy.Clock) *Usecase {
	if clock == nil {
		clock = policy.SystemClock{}
	}
	return &Usecase{books: books, categories: categories, patrons: patrons, txns: txns, settings: settings, clock: clock}
}

// Search is the public catalog: title order, fixed page size.
func (u *Usecase) Search(ctx context.Context, q SearchQuery) (*pagination.Page[catalog.BookDTO], error) {
	page, perPage := pagination.Normalize(q.Page, PerPage, PerPage, PerPage)
	status := book.Status(q.Status)
	switch q.Status {
	case "":
		status = book.StatusAvailable
	case "all":
		status = ""
	}
	rows, total, err := u.books.Search(ctx, book.SearchFilter{
		Query:      q.Q,
		CategoryID: q.CategoryID,
		Status:     status,
		Limit:      perPage,
		Offset:     pagination.Offset(page, perPage),
	})
	if err != nil {
		return nil, err
	}
	items := make([]catalog.BookDTO, 0, len(rows))
	for i := range rows {
		items = append(items, catalog.ToBookDTO(&rows[i]))
	}
	out := pagination.New(items, total, page, perPage)
	return &out, nil
}

func (u *Usecase) Book(ctx context.Context, id uint64) (*BookDetail, error) {
	b, err := u.books.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &BookDetail{BookDTO: catalog.ToBookDTO(b), Available: b.Status == book.StatusAvailable}, nil
}

func (u *Usecase) Categories(ctx context.Context) ([]catalog.CategoryDTO, error) {
	rows, err := u.categories.List(ctx, true)
	if err != nil {
		return nil, err
	}
	out := make([]catalog.CategoryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, catalog.ToCategoryDTO(&rows[i]))
	}
	return out, nil
}

// Dashboard is a patron's own view: open loans with live fines, and what is owed.
func (u *Usecase) Dashboard(ctx context.Context, patronID uint64) (*Dashboard, error) {
	p, err := u.patrons.GetByID(ctx, patronID)
	if err != nil {
		return nil, err
	}
	open, err := u.txns.ListOpen(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	unpaid, err := u.txns.ListUnpaidFines(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	_, borrowed, err := u.txns.List(ctx, transaction.ListFilter{PatronID: p.ID, Limit: 1})
	if err != nil {
		return nil, err
	}

	snap := u.settings.Snapshot()
	eng, today := policy.New(snap), policy.Today(u.clock)
	d := &Dashboard{
		LibraryName:    snap.String(setting.KeyLibraryName, "Library"),
		LibrarianEmail: snap.String(setting.KeyLibrarianEmail, "library@example.com"),
		RollNo:         p.RollNo,
		Name:           p.Name,
		TotalBorrowed:  borrowed,
		MaxBooks:       p.MaxBooks,
		MustChangePass: p.FirstLogin,
		CurrentLoans:   make([]circulation.TransactionDTO, 0, len(open)),
		UnpaidFines:    make([]circulation.TransactionDTO, 0, len(unpaid)),
	}

	owed := decimal.Zero
	for i := range open {
		dto := circulation.ToDTO(&open[i], eng, today)
		if dto.Overdue {
			d.OverdueCount++
		}
		owed = owed.Add(eng.ComputeFine(&open[i], today))
		d.CurrentLoans = append(d.CurrentLoans, dto)
	}
	for i := range unpaid {
		owed = owed.Add(unpaid[i].FineAmount)
		d.UnpaidFines = append(d.UnpaidFines, circulation.ToDTO(&unpaid[i], eng, today))
	}
	d.OutstandingFines = owed.InexactFloat64()
	return d, nil
}
