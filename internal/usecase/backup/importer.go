package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"library-circulation/internal/adapter/csvfile"
	"library-circulation/internal/domain/book"
	"library-circulation/internal/domain/category"
	"library-circulation/internal/domain/patron"
	"library-circulation/internal/domain/policy"
	"library-circulation/internal/domain/transaction"
	"library-circulation/internal/domain/uow"
	"library-circulation/internal/usecase/roster"
	"library-circulation/internal/validation"
)

var (
	errIssuedOnUpload  = errors.New("status issued can only be set by circulation")
	errOpenWithReturn  = errors.New("an issued transaction cannot carry a return date or fine")
	errReturnedNoDate  = errors.New("a returned transaction needs a return_date")
	errBookAlreadyOpen = errors.New("book already has an open loan")
)

func (u *Usecase) check(row any) error {
	if err := u.validate.Struct(row); err != nil {
		return errors.New(validation.Summary(err))
	}
	return nil
}

func parseBool(s string, def bool) bool {
	if s == "" {
		return def
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}

func (u *Usecase) ImportCategories(ctx context.Context, r io.Reader) (*ImportReport, error) {
	recs, err := csvfile.Categories.Read(r)
	if err != nil {
		return nil, err
	}
	rep := &ImportReport{Type: TypeCategories, Total: len(recs)}
	for _, rec := range recs {
		row, n := rec.Value, rec.Row
		if rec.Err != nil {
			rep.fail(n, "", rec.Err)
			continue
		}
		if err := u.check(row); err != nil {
			rep.fail(n, row.Name, err)
			continue
		}
		c := &category.Category{Name: row.Name, Description: row.Description, IsActive: parseBool(row.IsActive, true)}
		var created bool
		err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
			var err error
			created, err = r.Categories.UpsertByName(ctx, c)
			return err
		})
		if err != nil {
			rep.fail(n, row.Name, err)
			continue
		}
		rep.count(created)
	}
	return rep, nil
}

// ImportPatrons upserts by roll number. An upload resets every credential to
// the default; a restore keeps the stored password and the exported first_login.
func (u *Usecase) ImportPatrons(ctx context.Context, r io.Reader, mode Mode) (*ImportReport, error) {
	recs, err := csvfile.Patrons.Read(r)
	if err != nil {
		return nil, err
	}
	rep := &ImportReport{Type: TypePatrons, Total: len(recs)}
	for _, rec := range recs {
		row, n := rec.Value, rec.Row
		if rec.Err != nil {
			rep.fail(n, "", rec.Err)
			continue
		}
		if err := u.check(row); err != nil {
			rep.fail(n, row.RollNo, err)
			continue
		}
		maxBooks, _ := strconv.Atoi(row.MaxBooks)
		var created bool
		if mode == ModeUpload {
			_, created, err = u.roster.Upsert(ctx, roster.PatronInput{
				RollNo: row.RollNo, Name: row.Name, Email: row.Email, Phone: row.Phone,
				PatronType: row.PatronType, Department: row.Department, Division: row.Division,
				Status: row.Status, MaxBooks: maxBooks,
			}, roster.SourceImport)
		} else {
			created, err = u.restorePatron(ctx, row, maxBooks)
		}
		if err != nil {
			rep.fail(n, row.RollNo, err)
			continue
		}
		rep.count(created)
	}
	return rep, nil
}

func (u *Usecase) restorePatron(ctx context.Context, row csvfile.PatronRow, maxBooks int) (bool, error) {
	hash, err := u.roster.DefaultCredential()
	if err != nil {
		return false, fmt.Errorf("hash default password: %w", err)
	}
	p := &patron.Patron{
		RollNo: row.RollNo, Name: row.Name, Email: row.Email, Phone: row.Phone,
		PatronType: patron.Type(strings.ToLower(row.PatronType)), Department: row.Department, Division: row.Division,
		Status: patron.Status(row.Status), MaxBooks: maxBooks,
		// only used when the row is new
		PasswordHash: hash,
		FirstLogin:   parseBool(row.FirstLogin, true),
	}
	if p.PatronType == "" {
		p.PatronType = patron.TypeStudent
	}
	if p.Status == "" {
		p.Status = patron.StatusActive
	}
	if p.MaxBooks <= 0 {
		p.MaxBooks = policy.New(u.settings.Snapshot()).ResolveMaxBooks(p.PatronType)
	}
	var created bool
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		created, err = r.Patrons.UpsertByRollNo(ctx, p, patron.RestoreColumns)
		return err
	})
	return created, err
}

// ImportBooks upserts by accession number. An upload only touches catalog
// fields of existing copies; a restore also writes the exported status.
func (u *Usecase) ImportBooks(ctx context.Context, r io.Reader, mode Mode) (*ImportReport, error) {
	recs, err := csvfile.Books.Read(r)
	if err != nil {
		return nil, err
	}
	rep := &ImportReport{Type: TypeBooks, Total: len(recs)}
	for _, rec := range recs {
		row, n := rec.Value, rec.Row
		if rec.Err != nil {
			rep.fail(n, "", rec.Err)
			continue
		}
		if err := u.check(row); err != nil {
			rep.fail(n, row.AccessionNumber, err)
			continue
		}
		status := book.Status(row.Status)
		if status == "" {
			status = book.StatusAvailable
		}
		columns := book.RestoreColumns
		if mode == ModeUpload {
			if status == book.StatusIssued {
				rep.fail(n, row.AccessionNumber, errIssuedOnUpload)
				continue
			}
			columns = book.CatalogColumns
		}
		year, _ := strconv.Atoi(row.PublicationYear)

		var created bool
		err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
			name := row.Category
			if name == "" {
				name = category.DefaultName
			}
			cat, err := r.Categories.EnsureByName(ctx, name)
			if err != nil {
				return err
			}
			cols := columns
			if mode == ModeRestore {
				if cols, err = keepIssued(ctx, r, row.AccessionNumber, cols); err != nil {
					return err
				}
			}
			b := &book.Book{
				AccessionNumber: row.AccessionNumber, Title: row.Title, Author: row.Author, ISBN: row.ISBN,
				Publisher: row.Publisher, PublicationYear: year, CallNumber: row.CallNumber,
				CategoryID: cat.ID, Status: status,
			}
			created, err = r.Books.UpsertByAccession(ctx, b, cols)
			return err
		})
		if err != nil {
			rep.fail(n, row.AccessionNumber, err)
			continue
		}
		rep.count(created)
	}
	return rep, nil
}

// keepIssued drops the status column while the copy is out on an open loan.
func keepIssued(ctx context.Context, r uow.Repos, accession string, cols []string) ([]string, error) {
	b, err := r.Books.GetByAccessionForUpdate(ctx, accession)
	if errors.Is(err, book.ErrNotFound) {
		return cols, nil
	}
	if err != nil {
		return nil, err
	}
	open, err := r.Transactions.CountOpenByBook(ctx, b.ID)
	if err != nil || open == 0 {
		return cols, err
	}
	return book.CatalogColumns, nil
}

// ImportTransactions restores ledger rows, resolving patron and book by their
// natural keys. An issued row also marks its book issued.
func (u *Usecase) ImportTransactions(ctx context.Context, r io.Reader) (*ImportReport, error) {
	recs, err := csvfile.Transactions.Read(r)
	if err != nil {
		return nil, err
	}
	rep := &ImportReport{Type: TypeTransactions, Total: len(recs)}
	for _, rec := range recs {
		row, n := rec.Value, rec.Row
		if rec.Err != nil {
			rep.fail(n, "", rec.Err)
			continue
		}
		if err := u.check(row); err != nil {
			rep.fail(n, row.Reference, err)
			continue
		}
		t, err := ledgerRow(row)
		if err != nil {
			rep.fail(n, row.Reference, err)
			continue
		}
		var created bool
		err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
			p, err := r.Patrons.GetByRollNo(ctx, row.PatronRollNo)
			if err != nil {
				return fmt.Errorf("patron %s: %w", row.PatronRollNo, err)
			}
			b, err := r.Books.GetByAccession(ctx, row.BookAccessionNumber)
			if err != nil {
				return fmt.Errorf("book %s: %w", row.BookAccessionNumber, err)
			}
			t.PatronID, t.BookID = p.ID, b.ID

			if t.Status == transaction.StatusIssued {
				open, err := r.Transactions.CountOpenByBook(ctx, b.ID)
				if err != nil {
					return err
				}
				existing, err := r.Transactions.GetByReference(ctx, t.Reference)
				switch {
				case err == nil && existing.IsOpen() && existing.BookID == b.ID:
					open--
				case err != nil && !errors.Is(err, transaction.ErrNotFound):
					return err
				}
				if open > 0 {
					return errBookAlreadyOpen
				}
			}
			if created, err = r.Transactions.UpsertByReference(ctx, t, transaction.RestoreColumns); err != nil {
				return err
			}
			if t.Status == transaction.StatusIssued {
				return r.Books.SetStatus(ctx, b.ID, book.StatusIssued)
			}
			return nil
		})
		if err != nil {
			rep.fail(n, row.Reference, err)
			continue
		}
		rep.count(created)
	}
	return rep, nil
}

func ledgerRow(row csvfile.TransactionRow) (*transaction.Transaction, error) {
	issue, err := policy.NormalizeDate(row.IssueDate)
	if err != nil {
		return nil, fmt.Errorf("issue_date: %w", err)
	}
	due, err := policy.NormalizeDate(row.DueDate)
	if err != nil {
		return nil, fmt.Errorf("due_date: %w", err)
	}
	fine := decimal.Zero
	if row.FineAmount != "" {
		if fine, err = decimal.NewFromString(row.FineAmount); err != nil {
			return nil, fmt.Errorf("fine_amount: %w", err)
		}
	}
	if fine.IsNegative() {
		return nil, errors.New("fine_amount must not be negative")
	}
	issuedBy, _ := strconv.ParseUint(row.IssuedBy, 10, 64)

	t := &transaction.Transaction{
		Reference: row.Reference, IssueDate: issue, DueDate: due,
		Status: transaction.Status(row.Status), FineAmount: fine.Round(2),
		FinePaid: parseBool(row.FinePaid, false), IssuedBy: issuedBy,
	}
	if row.ReturnDate != "" {
		ret, err := policy.NormalizeDate(row.ReturnDate)
		if err != nil {
			return nil, fmt.Errorf("return_date: %w", err)
		}
		t.ReturnDate = &ret
	}
	switch t.Status {
	case transaction.StatusIssued:
		if t.ReturnDate != nil || !t.FineAmount.IsZero() {
			return nil, errOpenWithReturn
		}
	case transaction.StatusReturned:
		if t.ReturnDate == nil {
			return nil, errReturnedNoDate
		}
	}
	return t, nil
}
