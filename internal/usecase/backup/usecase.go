package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"library-circulation/internal/adapter/csvfile"
	"library-circulation/internal/domain/book"
	"library-circulation/internal/domain/category"
	"library-circulation/internal/domain/patron"
	"library-circulation/internal/domain/policy"
	"library-circulation/internal/domain/transaction"
	"library-circulation/internal/domain/uow"
	"library-circulation/internal/usecase/circulation"
	"library-circulation/internal/usecase/roster"
	"library-circulation/internal/validation"
)

var (
	ErrUnknownType = errors.New("unknown table")
	ErrRestoreOnly = errors.New("transactions can only be restored from a backup")
)

type Usecase struct {
	uow      uow.UnitOfWork
	roster   *roster.Usecase
	settings circulation.SettingsSource
	validate *validator.Validate
	dir      string
	now      func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, rs *roster.Usecase, settings circulation.SettingsSource, dir string) *Usecase {
	return &Usecase{uow: tx, roster: rs, settings: settings, validate: validation.New(), dir: dir, now: time.Now}
}

func (u *Usecase) Dir() string { return u.dir }

// Export writes the four CSV files and their manifest from one consistent read.
func (u *Usecase) Export(ctx context.Context) (*ExportResult, error) {
	var (
		cats  []category.Category
		pats  []patron.Patron
		books []book.Book
		txns  []transaction.Transaction
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		if cats, err = r.Categories.List(ctx, false); err != nil {
			return err
		}
		if pats, err = r.Patrons.ListAll(ctx); err != nil {
			return err
		}
		if books, err = r.Books.ListAll(ctx); err != nil {
			return err
		}
		txns, err = r.Transactions.ListAll(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("read for backup: %w", err)
	}

	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}
	ts := u.now().Format(TimestampLayout)
	writes := []struct {
		kind  string
		count int
		write func(io.Writer) error
	}{
		{TypeCategories, len(cats), func(w io.Writer) error { return csvfile.Categories.Write(w, categoryRows(cats)) }},
		{TypePatrons, len(pats), func(w io.Writer) error { return csvfile.Patrons.Write(w, patronRows(pats)) }},
		{TypeBooks, len(books), func(w io.Writer) error { return csvfile.Books.Write(w, bookRows(books)) }},
		{TypeTransactions, len(txns), func(w io.Writer) error { return csvfile.Transactions.Write(w, transactionRows(txns)) }},
	}
	counts := map[string]int{}
	for _, wr := range writes {
		if err := writeFile(filepath.Join(u.dir, FileName(wr.kind, ts)), wr.write); err != nil {
			return nil, fmt.Errorf("write %s: %w", wr.kind, err)
		}
		counts[wr.kind] = wr.count
	}

	m := newManifest(ts, counts)
	name := ManifestName(ts)
	err = writeFile(filepath.Join(u.dir, name), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	})
	if err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}
	log.Printf("backup: wrote %s (%d categories, %d patrons, %d books, %d transactions)",
		name, len(cats), len(pats), len(books), len(txns))
	return &ExportResult{Dir: u.dir, ManifestFile: name, Manifest: m}, nil
}

// Restore validates the manifest at path and applies its files in import order.
// Data files are looked up next to the manifest.
func (u *Usecase) Restore(ctx context.Context, manifestPath string) (*RestoreResult, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(manifestPath)
	for _, f := range m.Ordered() {
		if _, err := os.Stat(filepath.Join(dir, f.Filename)); err != nil {
			return nil, &ManifestError{Problems: []string{"backup file not found: " + f.Filename}}
		}
	}

	res := &RestoreResult{Manifest: m}
	for _, f := range m.Ordered() {
		rep, err := u.importPath(ctx, f.Type, filepath.Join(dir, f.Filename))
		if err != nil {
			return res, fmt.Errorf("restore %s: %w", f.Filename, err)
		}
		log.Printf("backup: restored %s: %d created, %d updated, %d errors",
			f.Type, rep.Created, rep.Updated, len(rep.Errors))
		res.Reports = append(res.Reports, *rep)
	}
	return res, nil
}

func (u *Usecase) importPath(ctx context.Context, kind, path string) (*ImportReport, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return u.Import(ctx, kind, fh, ModeRestore)
}

// Import reads one table. Every row is committed on its own; a bad row is
// reported and skipped.
func (u *Usecase) Import(ctx context.Context, kind string, r io.Reader, mode Mode) (*ImportReport, error) {
	switch kind {
	case TypeCategories:
		return u.ImportCategories(ctx, r)
	case TypePatrons:
		return u.ImportPatrons(ctx, r, mode)
	case TypeBooks:
		return u.ImportBooks(ctx, r, mode)
	case TypeTransactions:
		if mode != ModeRestore {
			return nil, ErrRestoreOnly
		}
		return u.ImportTransactions(ctx, r)
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownType, kind)
}

// ExportTable writes a single table in its backup layout and returns the file
// name to offer. Nothing is stored under the backup directory.
func (u *Usecase) ExportTable(ctx context.Context, kind string, w io.Writer) (string, error) {
	var write func(io.Writer) error
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		switch kind {
		case TypeCategories:
			rows, err := r.Categories.List(ctx, false)
			write = func(w io.Writer) error { return csvfile.Categories.Write(w, categoryRows(rows)) }
			return err
		case TypePatrons:
			rows, err := r.Patrons.ListAll(ctx)
			write = func(w io.Writer) error { return csvfile.Patrons.Write(w, patronRows(rows)) }
			return err
		case TypeBooks:
			rows, err := r.Books.ListAll(ctx)
			write = func(w io.Writer) error { return csvfile.Books.Write(w, bookRows(rows)) }
			return err
		case TypeTransactions:
			rows, err := r.Transactions.ListAll(ctx)
			write = func(w io.Writer) error { return csvfile.Transactions.Write(w, transactionRows(rows)) }
			return err
		}
		return fmt.Errorf("%w %q", ErrUnknownType, kind)
	})
	if err != nil {
		return "", err
	}
	if err := write(w); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_export_%s.csv", kind, u.now().Format(TimestampLayout)), nil
}

func writeFile(path string, write func(io.Writer) error) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(fh); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}

func categoryRows(in []category.Category) []csvfile.CategoryRow {
	out := make([]csvfile.CategoryRow, 0, len(in))
	for _, c := range in {
		out = append(out, csvfile.CategoryRow{
			Name: c.Name, Description: c.Description,
			IsActive: strconv.FormatBool(c.IsActive), CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

func patronRows(in []patron.Patron) []csvfile.PatronRow {
	out := make([]csvfile.PatronRow, 0, len(in))
	for _, p := range in {
		out = append(out, csvfile.PatronRow{
			RollNo: p.RollNo, Name: p.Name, Email: p.Email, Phone: p.Phone,
			PatronType: string(p.PatronType), Department: p.Department, Division: p.Division,
			Status: string(p.Status), MaxBooks: strconv.Itoa(p.MaxBooks), FirstLogin: strconv.FormatBool(p.FirstLogin),
		})
	}
	return out
}

func bookRows(in []book.Book) []csvfile.BookRow {
	out := make([]csvfile.BookRow, 0, len(in))
	for _, b := range in {
		row := csvfile.BookRow{
			AccessionNumber: b.AccessionNumber, Title: b.Title, Author: b.Author, ISBN: b.ISBN,
			Publisher: b.Publisher, CallNumber: b.CallNumber, Status: string(b.Status),
		}
		if b.PublicationYear > 0 {
			row.PublicationYear = strconv.Itoa(b.PublicationYear)
		}
		if b.Category != nil {
			row.Category = b.Category.Name
		}
		out = append(out, row)
	}
	return out
}

func transactionRows(in []transaction.Transaction) []csvfile.TransactionRow {
	out := make([]csvfile.TransactionRow, 0, len(in))
	for _, t := range in {
		row := csvfile.TransactionRow{
			Reference: t.Reference, IssueDate: policy.FormatDate(t.IssueDate), DueDate: policy.FormatDate(t.DueDate),
			Status: string(t.Status), FineAmount: t.FineAmount.StringFixed(2), FinePaid: strconv.FormatBool(t.FinePaid),
		}
		if t.Patron != nil {
			row.PatronRollNo = t.Patron.RollNo
		}
		if t.Book != nil {
			row.BookAccessionNumber = t.Book.AccessionNumber
		}
		if t.ReturnDate != nil {
			row.ReturnDate = policy.FormatDate(*t.ReturnDate)
		}
		if t.IssuedBy > 0 {
			row.IssuedBy = strconv.FormatUint(t.IssuedBy, 10)
		}
		out = append(out, row)
	}
	return out
}
