package circulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"library-circulation/internal/domain/policy"
	"library-circulation/internal/domain/transaction"
	"library-circulation/pkg/pagination"
)

const (
	LogPerPage    = 25
	logWindowDays = 30
)

var ErrBadRange = errors.New("invalid date range")

func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	d, err := policy.NormalizeDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrBadRange, err)
	}
	return d, nil
}

// issuedBetween sets an inclusive calendar window on issue_date; zero bounds stay open.
func issuedBetween(f *transaction.ListFilter, from, to time.Time) {
	f.IssuedFrom = from
	if !to.IsZero() {
		f.IssuedBefore = to.AddDate(0, 0, 1)
	}
}

type logWindow struct {
	from, to time.Time
	kind     string
}

func (q LogQuery) window(today time.Time) (logWindow, error) {
	to, err := parseDay(q.EndDate)
	if err != nil {
		return logWindow{}, err
	}
	if to.IsZero() {
		to = today
	}
	from, err := parseDay(q.StartDate)
	if err != nil {
		return logWindow{}, err
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -logWindowDays)
	}
	if from.After(to) {
		return logWindow{}, fmt.Errorf("%w: start_date %s is after end_date %s", ErrBadRange, policy.FormatDate(from), policy.FormatDate(to))
	}
	kind := q.Type
	if kind == "" {
		kind = "all"
	}
	return logWindow{from: from, to: to, kind: kind}, nil
}

func (w logWindow) filter() transaction.ListFilter {
	var f transaction.ListFilter
	issuedBetween(&f, w.from, w.to)
	if w.kind != "all" {
		f.Status = transaction.Status(w.kind)
	}
	return f
}

// Log pages through the loans issued inside the window, with totals for the whole window.
func (u *Usecase) Log(ctx context.Context, q LogQuery) (*TransactionLog, error) {
	w, err := q.window(policy.Today(u.clock))
	if err != nil {
		return nil, err
	}
	f := w.filter()
	tally, err := u.txns.Tally(ctx, f)
	if err != nil {
		return nil, err
	}
	page, perPage := pagination.Normalize(q.Page, LogPerPage, LogPerPage, LogPerPage)
	f.Limit, f.Offset = perPage, pagination.Offset(page, perPage)
	rows, total, err := u.txns.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &TransactionLog{
		StartDate: policy.FormatDate(w.from),
		EndDate:   policy.FormatDate(w.to),
		Type:      w.kind,
		Stats: LogStats{
			TotalIssues:    tally.Issued,
			TotalReturns:   tally.Returned,
			TotalFines:     tally.Fines.InexactFloat64(),
			OverdueReturns: tally.FinedReturns,
		},
		Transactions: pagination.New(u.render(rows), total, page, perPage),
	}, nil
}
