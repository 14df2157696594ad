package circulation

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"library-circulation/internal/domain/book"
	"library-circulation/internal/domain/patron"
	"library-circulation/internal/domain/policy"
	"library-circulation/internal/domain/transaction"
	"library-circulation/pkg/pagination"
)

func (u *Usecase) Get(ctx context.Context, id uint64) (*TransactionDTO, error) {
	t, err := u.txns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := ToDTO(t, u.engine(), policy.Today(u.clock))
	return &dto, nil
}

func (u *Usecase) List(ctx context.Context, q ListQuery) (*pagination.Page[TransactionDTO], error) {
	page, perPage := pagination.Normalize(q.Page, q.PerPage, 20, 100)
	f := transaction.ListFilter{
		Status: transaction.Status(q.Status),
		Limit:  perPage,
		Offset: pagination.Offset(page, perPage),
	}
	from, err := parseDay(q.StartDate)
	if err != nil {
		return nil, err
	}
	to, err := parseDay(q.EndDate)
	if err != nil {
		return nil, err
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, fmt.Errorf("%w: start_date is after end_date", ErrBadRange)
	}
	issuedBetween(&f, from, to)
	if q.RollNo != "" {
		p, err := u.patrons.GetByRollNo(ctx, q.RollNo)
		if err != nil {
			return nil, err
		}
		f.PatronID = p.ID
	}
	rows, total, err := u.txns.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := pagination.New(u.render(rows), total, page, perPage)
	return &out, nil
}

// History lists every loan of one patron, newest first.
func (u *Usecase) History(ctx context.Context, patronID uint64) ([]TransactionDTO, error) {
	if _, err := u.patrons.GetByID(ctx, patronID); err != nil {
		return nil, err
	}
	rows, _, err := u.txns.List(ctx, transaction.ListFilter{PatronID: patronID})
	if err != nil {
		return nil, err
	}
	return u.render(rows), nil
}

// Overdue is derived on read; nothing overdue is ever stored.
func (u *Usecase) Overdue(ctx context.Context) ([]TransactionDTO, error) {
	open, err := u.txns.ListOpen(ctx, 0)
	if err != nil {
		return nil, err
	}
	eng, today := u.engine(), policy.Today(u.clock)
	out := make([]TransactionDTO, 0)
	for i := range open {
		if eng.IsOverdue(&open[i], today) {
			out = append(out, ToDTO(&open[i], eng, today))
		}
	}
	return out, nil
}

func (u *Usecase) Fines(ctx context.Context) (*FinesReport, error) {
	unpaid, err := u.txns.ListUnpaidFines(ctx, 0)
	if err != nil {
		return nil, err
	}
	accruing, err := u.Overdue(ctx)
	if err != nil {
		return nil, err
	}

	rep := &FinesReport{Outstanding: u.render(unpaid), Accruing: accruing, Count: len(unpaid)}
	total := decimal.Zero
	for _, t := range unpaid {
		total = total.Add(t.FineAmount)
	}
	rep.Total = total.InexactFloat64()
	if len(unpaid) > 0 {
		rep.Average = total.Div(decimal.NewFromInt(int64(len(unpaid)))).Round(2).InexactFloat64()
	}
	live := decimal.Zero
	for _, a := range accruing {
		live = live.Add(decimal.NewFromFloat(a.LiveFine))
	}
	rep.AccruingTotal = live.InexactFloat64()
	return rep, nil
}

func (u *Usecase) Summary(ctx context.Context) (*Summary, error) {
	books, err := u.books.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	patrons, err := u.patrons.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	open, err := u.txns.ListOpen(ctx, 0)
	if err != nil {
		return nil, err
	}
	unpaid, err := u.txns.ListUnpaidFines(ctx, 0)
	if err != nil {
		return nil, err
	}

	s := &Summary{
		AvailableBooks: books[book.StatusAvailable],
		IssuedBooks:    books[book.StatusIssued],
		LostBooks:      books[book.StatusLost],
		DamagedBooks:   books[book.StatusDamaged],
		ActivePatrons:  patrons[patron.StatusActive],
		PendingPatrons: patrons[patron.StatusPending],
		OpenLoans:      len(open),
	}
	for _, n := range books {
		s.TotalBooks += n
	}
	for _, n := range patrons {
		s.TotalPatrons += n
	}
	eng, today := u.engine(), policy.Today(u.clock)
	for i := range open {
		if eng.IsOverdue(&open[i], today) {
			s.OverdueLoans++
		}
	}
	total := decimal.Zero
	for _, t := range unpaid {
		total = total.Add(t.FineAmount)
	}
	s.OutstandingFines = total.InexactFloat64()
	return s, nil
}

func (u *Usecase) render(rows []transaction.Transaction) []TransactionDTO {
	eng, today := u.engine(), policy.Today(u.clock)
	out := make([]TransactionDTO, 0, len(rows))
	for i := range rows {
		out = append(out, ToDTO(&rows[i], eng, today))
	}
	return out
}
