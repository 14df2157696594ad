package circulation

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"library-circulation/internal/adapter/csvfile"
	"library-circulation/internal/domain/category"
	"library-circulation/internal/domain/policy"
	"library-circulation/internal/domain/setting"
	"library-circulation/internal/domain/transaction"
	"library-circulation/internal/domain/uow"
)

const (
	exportStamp = "20060102_150405"
	recentDays  = 7
)

// ExportLog writes every loan of the log window as CSV and returns the file name to offer.
func (u *Usecase) ExportLog(ctx context.Context, q LogQuery, w io.Writer) (string, error) {
	win, err := q.window(policy.Today(u.clock))
	if err != nil {
		return "", err
	}
	rows, _, err := u.txns.List(ctx, win.filter())
	if err != nil {
		return "", err
	}
	if err := csvfile.TransactionLog.Write(w, logRows(rows)); err != nil {
		return "", err
	}
	suffix := ""
	if win.kind != "all" {
		suffix = "_" + win.kind
	}
	return fmt.Sprintf("transaction_logs_%s_to_%s%s_%s.csv",
		policy.FormatDate(win.from), policy.FormatDate(win.to), suffix, u.clock.Now().Format(exportStamp)), nil
}

// ExportHistory writes one patron's loans, newest first.
func (u *Usecase) ExportHistory(ctx context.Context, patronID uint64, w io.Writer) (string, error) {
	p, err := u.patrons.GetByID(ctx, patronID)
	if err != nil {
		return "", err
	}
	rows, _, err := u.txns.List(ctx, transaction.ListFilter{PatronID: patronID})
	if err != nil {
		return "", err
	}
	if err := csvfile.PatronHistory.Write(w, logRows(rows)); err != nil {
		return "", err
	}
	return fmt.Sprintf("patron_%s_%s_history_%s.csv",
		fileSafe(p.RollNo), fileSafe(p.Name), u.clock.Now().Format(exportStamp)), nil
}

// ExportSummary writes the report counters, a per-category book count and
// the last week's activity as section,metric,value lines.
func (u *Usecase) ExportSummary(ctx context.Context, w io.Writer) (string, error) {
	s, err := u.Summary(ctx)
	if err != nil {
		return "", err
	}
	var (
		cats   []category.Category
		counts map[uint64]int64
	)
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		if cats, err = r.Categories.List(ctx, true); err != nil {
			return err
		}
		counts, err = r.Books.CountByCategory(ctx)
		return err
	})
	if err != nil {
		return "", err
	}
	sort.SliceStable(cats, func(i, j int) bool { return counts[cats[i].ID] > counts[cats[j].ID] })

	now := u.clock.Now()
	since := policy.Day(now).AddDate(0, 0, -recentDays)
	issued, err := u.txns.Tally(ctx, transaction.ListFilter{IssuedFrom: since})
	if err != nil {
		return "", err
	}
	returned, err := u.txns.Tally(ctx, transaction.ListFilter{ReturnedFrom: since})
	if err != nil {
		return "", err
	}

	snap := u.settings.Snapshot()
	n := func(v int64) string { return strconv.FormatInt(v, 10) }
	lines := []csvfile.ReportLine{
		{Section: "Library", Metric: "Generated On", Value: now.Format("2006-01-02 15:04:05")},
		{Section: "Library", Metric: "Library Name", Value: snap.String(setting.KeyLibraryName, "Library")},
		{Section: "Library", Metric: "Contact Email", Value: snap.String(setting.KeyLibrarianEmail, "")},
		{Section: "Books", Metric: "Total Books", Value: n(s.TotalBooks)},
		{Section: "Books", Metric: "Available Books", Value: n(s.AvailableBooks)},
		{Section: "Books", Metric: "Issued Books", Value: n(s.IssuedBooks)},
		{Section: "Books", Metric: "Overdue Books", Value: strconv.Itoa(s.OverdueLoans)},
		{Section: "Patrons", Metric: "Total Patrons", Value: n(s.TotalPatrons)},
		{Section: "Patrons", Metric: "Active Patrons", Value: n(s.ActivePatrons)},
		{Section: "Fines", Metric: "Outstanding Fines", Value: strconv.FormatFloat(s.OutstandingFines, 'f', 2, 64)},
	}
	for _, c := range cats {
		lines = append(lines, csvfile.ReportLine{Section: "Categories", Metric: c.Name, Value: n(counts[c.ID])})
	}
	lines = append(lines,
		csvfile.ReportLine{Section: "Recent Activity", Metric: fmt.Sprintf("Issues (Last %d days)", recentDays), Value: n(issued.Issued + issued.Returned)},
		csvfile.ReportLine{Section: "Recent Activity", Metric: fmt.Sprintf("Returns (Last %d days)", recentDays), Value: n(returned.Returned)},
	)
	if err := csvfile.ReportSummary.Write(w, lines); err != nil {
		return "", err
	}
	return "library_reports_" + now.Format(exportStamp) + ".csv", nil
}

func logRows(in []transaction.Transaction) []csvfile.LogRow {
	out := make([]csvfile.LogRow, 0, len(in))
	for _, t := range in {
		row := csvfile.LogRow{
			ID:         strconv.FormatUint(t.ID, 10),
			Reference:  t.Reference,
			IssueDate:  policy.FormatDate(t.IssueDate),
			DueDate:    policy.FormatDate(t.DueDate),
			Status:     string(t.Status),
			FineAmount: t.FineAmount.StringFixed(2),
			CreatedAt:  t.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		if t.Patron != nil {
			row.RollNo, row.PatronName = t.Patron.RollNo, t.Patron.Name
		}
		if t.Book != nil {
			row.AccessionNumber, row.BookTitle = t.Book.AccessionNumber, t.Book.Title
		}
		if t.ReturnDate != nil {
			row.ReturnDate = policy.FormatDate(*t.ReturnDate)
		}
		out = append(out, row)
	}
	return out
}

// fileSafe keeps letters, digits, dash and underscore; anything else becomes "_".
func fileSafe(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, strings.TrimSpace(s))
}
