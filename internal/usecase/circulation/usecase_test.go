package circulation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"library-circulation/internal/adapter/repository/gormdb"
	"library-circulation/internal/domain/book"
	"library-circulation/internal/domain/patron"
	"library-circulation/internal/domain/policy"
	"library-circulation/internal/domain/setting"
	"library-circulation/internal/domain/transaction"
	"library-circulation/internal/testutil/dbtest"
)

var day0 = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

type staticSettings struct{ snap *setting.Snapshot }

func (s staticSettings) Snapshot() *setting.Snapshot { return s.snap }

type fixture struct {
	db  *gorm.DB
	uc  *Usecase
	now time.Time
	cat uint64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	dbtest.SeedSettings(t, db)
	f := &fixture{db: db, now: day0}
	f.cat = dbtest.Category(t, db, "General").ID
	clock := policy.ClockFunc(func() time.Time { return f.now })
	f.uc = NewUsecase(
		gormdb.NewBookRepository(db), gormdb.NewPatronRepository(db), gormdb.NewTransactionRepository(db),
		gormdb.NewGormUoW(db), staticSettings{setting.NewSnapshot(nil)}, clock,
	)
	return f
}

func (f *fixture) advance(days int) { f.now = day0.AddDate(0, 0, days) }

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	var pe *PolicyError
	if !errors.As(err, &pe) {
		t.Fatalf("want PolicyError %s, got %v", code, err)
	}
	if pe.Code != code {
		t.Fatalf("code = %s, want %s (%s)", pe.Code, code, pe.Message)
	}
}

// checkLedger asserts the book/ledger invariants over the whole DB.
func checkLedger(t *testing.T, db *gorm.DB) {
	t.Helper()
	var books []book.Book
	if err := db.Find(&books).Error; err != nil {
		t.Fatal(err)
	}
	for _, b := range books {
		var open int64
		db.Model(&transaction.Transaction{}).Where("book_id = ? AND status = ?", b.ID, transaction.StatusIssued).Count(&open)
		if open > 1 {
			t.Fatalf("book %s has %d open loans", b.AccessionNumber, open)
		}
		if (b.Status == book.StatusIssued) != (open == 1) {
			t.Fatalf("book %s status %s with %d open loans", b.AccessionNumber, b.Status, open)
		}
	}
	var txns []transaction.Transaction
	if err := db.Where("status = ?", transaction.StatusIssued).Find(&txns).Error; err != nil {
		t.Fatal(err)
	}
	for _, x := range txns {
		if x.ReturnDate != nil || !x.FineAmount.IsZero() {
			t.Fatalf("open loan %d carries return data: %+v", x.ID, x)
		}
	}
}

func TestScenarioA_LateReturnFreezesFine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dbtest.Patron(t, f.db, "S-1", patron.TypeStudent, 3)
	b := dbtest.Book(t, f.db, "ACC-1", f.cat)

	issued, err := f.uc.Issue(ctx, IssueInput{RollNo: "S-1", AccessionNumber: "ACC-1", IssuedBy: 7})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if issued.DueDate != "2026-03-16" || issued.Status != "issued" || issued.IssuedBy != 7 {
		t.Fatalf("issued dto = %+v", issued)
	}
	if issued.Reference == "" || issued.BookTitle == "" || issued.RollNo != "S-1" {
		t.Fatalf("dto labels = %+v", issued)
	}
	checkLedger(t, f.db)

	f.advance(20)
	got, err := f.uc.Get(ctx, issued.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Overdue || got.DaysOverdue != 6 || got.LiveFine != 6 || got.FineAmount != 0 {
		t.Fatalf("live view before return = %+v", got)
	}

	ret, err := f.uc.Return(ctx, ReturnInput{TransactionID: issued.ID})
	if err != nil {
		t.Fatalf("Return: %v", err)
	}
	if ret.FineAmount != 6 || ret.DaysOverdue != 6 || ret.ReturnDate == nil || *ret.ReturnDate != "2026-03-22" {
		t.Fatalf("returned dto = %+v", ret)
	}
	if ret.AccessionNumber != "ACC-1" {
		t.Fatalf("labels missing: %+v", ret)
	}

	var stored transaction.Transaction
	f.db.First(&stored, issued.ID)
	if stored.Status != transaction.StatusReturned || !stored.FineAmount.Equal(decimal.NewFromInt(6)) {
		t.Fatalf("stored = %+v", stored)
	}
	var bk book.Book
	f.db.First(&bk, b.ID)
	if bk.Status != book.StatusAvailable {
		t.Fatalf("book status = %s", bk.Status)
	}
	checkLedger(t, f.db)

	// a later rate change must not touch the frozen fine
	f.advance(40)
	if err := gormdb.NewSettingRepository(f.db).Put(ctx, setting.KeyFinePerDay, setting.JSONValue("5"), ""); err != nil {
		t.Fatal(err)
	}
	again, _ := f.uc.Get(ctx, issued.ID)
	if again.FineAmount != 6 || again.LiveFine != 0 {
		t.Fatalf("returned fine drifted: %+v", again)
	}
}

func TestScenarioB_MaxBooksRejectsFourth(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dbtest.Patron(t, f.db, "S-2", patron.TypeStudent, 3)
	for _, acc := range []string{"B-1", "B-2", "B-3", "B-4"} {
		dbtest.Book(t, f.db, acc, f.cat)
	}
	for _, acc := range []string{"B-1", "B-2", "B-3"} {
		if _, err := f.uc.Issue(ctx, IssueInput{RollNo: "S-2", AccessionNumber: acc}); err != nil {
			t.Fatalf("Issue %s: %v", acc, err)
		}
	}

	_, err := f.uc.Issue(ctx, IssueInput{RollNo: "S-2", AccessionNumber: "B-4"})
	wantCode(t, err, CodeMaxBooks)

	var n int64
	f.db.Model(&transaction.Transaction{}).Count(&n)
	if n != 3 {
		t.Fatalf("transactions = %d, want 3", n)
	}
	var b4 book.Book
	f.db.Where("accession_number = ?", "B-4").First(&b4)
	if b4.Status != book.StatusAvailable {
		t.Fatalf("B-4 status = %s", b4.Status)
	}
	checkLedger(t, f.db)
}

func TestScenarioC_PayTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dbtest.Patron(t, f.db, "S-3", patron.TypeStudent, 3)
	dbtest.Book(t, f.db, "C-1", f.cat)

	issued, err := f.uc.Issue(ctx, IssueInput{RollNo: "S-3", AccessionNumber: "C-1"})
	if err != nil {
		t.Fatal(err)
	}
	f.advance(17)
	if _, err := f.uc.Return(ctx, ReturnInput{TransactionID: issued.ID}); err != nil {
		t.Fatal(err)
	}

	paid, err := f.uc.MarkFinePaid(ctx, issued.ID)
	if err != nil {
		t.Fatalf("first pay: %v", err)
	}
	if !paid.FinePaid || paid.FineAmount != 3 {
		t.Fatalf("paid dto = %+v", paid)
	}

	_, err = f.uc.MarkFinePaid(ctx, issued.ID)
	wantCode(t, err, CodeAlreadyPaid)
	if err.Error() != "fine already paid" {
		t.Fatalf("message = %q", err.Error())
	}

	var stored transaction.Transaction
	f.db.First(&stored, issued.ID)
	if !stored.FinePaid || !stored.FineAmount.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestMarkFinePaid_NoFine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dbtest.Patron(t, f.db, "F-1", patron.TypeFaculty, 5)
	dbtest.Book(t, f.db, "N-1", f.cat)

	issued, err := f.uc.Issue(ctx, IssueInput{RollNo: "F-1", AccessionNumber: "N-1"})
	if err != nil {
		t.Fatal(err)
	}
	if issued.DueDate != "2026-04-01" {
		t.Fatalf("faculty due date = %s", issued.DueDate)
	}
	_, err = f.uc.MarkFinePaid(ctx, issued.ID)
	wantCode(t, err, CodeNoFine)

	f.advance(30)
	ret, err := f.uc.Return(ctx, ReturnInput{TransactionID: issued.ID})
	if err != nil {
		t.Fatal(err)
	}
	if ret.FineAmount != 0 || ret.Overdue {
		t.Fatalf("on-time return = %+v", ret)
	}
	_, err = f.uc.MarkFinePaid(ctx, issued.ID)
	wantCode(t, err, CodeNoFine)
}

func TestIssue_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := dbtest.Patron(t, f.db, "P-1", patron.TypeStaff, 4)
	dbtest.Patron(t, f.db, "P-2", patron.TypeStudent, 3)
	dbtest.Book(t, f.db, "R-1", f.cat)
	lost := dbtest.Book(t, f.db, "R-2", f.cat)
	f.db.Model(lost).Update("status", book.StatusLost)
	f.db.Model(p).Update("status", patron.StatusSuspended)

	_, err := f.uc.Issue(ctx, IssueInput{RollNo: "P-1", AccessionNumber: "R-1"})
	wantCode(t, err, CodePatronInactive)

	_, err = f.uc.Issue(ctx, IssueInput{RollNo: "P-2", AccessionNumber: "R-2"})
	wantCode(t, err, CodeBookUnavailable)

	if _, err := f.uc.Issue(ctx, IssueInput{RollNo: "P-2", AccessionNumber: "NOPE"}); !errors.Is(err, book.ErrNotFound) {
		t.Fatalf("unknown book: %v", err)
	}
	if _, err := f.uc.Issue(ctx, IssueInput{RollNo: "NOPE", AccessionNumber: "R-1"}); !errors.Is(err, patron.ErrNotFound) {
		t.Fatalf("unknown patron: %v", err)
	}

	if _, err := f.uc.Issue(ctx, IssueInput{RollNo: "P-2", AccessionNumber: "R-1"}); err != nil {
		t.Fatal(err)
	}
	_, err = f.uc.Issue(ctx, IssueInput{RollNo: "P-2", AccessionNumber: "R-1"})
	wantCode(t, err, CodeBookUnavailable)
	checkLedger(t, f.db)
}

func TestReturn_TwiceAndMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dbtest.Patron(t, f.db, "T-1", patron.TypeStudent, 3)
	dbtest.Book(t, f.db, "T-1", f.cat)

	issued, err := f.uc.Issue(ctx, IssueInput{RollNo: "T-1", AccessionNumber: "T-1"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.uc.Return(ctx, ReturnInput{TransactionID: issued.ID}); err != nil {
		t.Fatal(err)
	}
	_, err = f.uc.Return(ctx, ReturnInput{TransactionID: issued.ID})
	wantCode(t, err, CodeAlreadyReturned)

	if _, err := f.uc.Return(ctx, ReturnInput{TransactionID: 9999}); !errors.Is(err, transaction.ErrNotFound) {
		t.Fatalf("missing txn: %v", err)
	}
	checkLedger(t, f.db)
}

func TestReturn_ReadsRateInsideTransaction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dbtest.Patron(t, f.db, "R-9", patron.TypeStudent, 3)
	dbtest.Book(t, f.db, "RATE-1", f.cat)

	issued, err := f.uc.Issue(ctx, IssueInput{RollNo: "R-9", AccessionNumber: "RATE-1"})
	if err != nil {
		t.Fatal(err)
	}
	// the process snapshot still says 1.0; the stored row wins
	if err := gormdb.NewSettingRepository(f.db).Put(ctx, setting.KeyFinePerDay, setting.JSONValue("2.5"), ""); err != nil {
		t.Fatal(err)
	}
	f.advance(17)
	ret, err := f.uc.Return(ctx, ReturnInput{TransactionID: issued.ID})
	if err != nil {
		t.Fatal(err)
	}
	if ret.FineAmount != 7.5 {
		t.Fatalf("fine = %v, want 7.5", ret.FineAmount)
	}
}

func TestIssue_ConcurrentSameBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dbtest.Patron(t, f.db, "X-1", patron.TypeStudent, 3)
	dbtest.Patron(t, f.db, "X-2", patron.TypeStudent, 3)
	dbtest.Book(t, f.db, "HOT-1", f.cat)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, roll := range []string{"X-1", "X-2"} {
		wg.Add(1)
		go func(i int, roll string) {
			defer wg.Done()
			_, errs[i] = f.uc.Issue(ctx, IssueInput{RollNo: roll, AccessionNumber: "HOT-1"})
		}(i, roll)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		wantCode(t, err, CodeBookUnavailable)
	}
	if ok != 1 {
		t.Fatalf("successful issues = %d, want 1 (errs %v)", ok, errs)
	}
	checkLedger(t, f.db)
}

func TestDeleteCascade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := dbtest.Patron(t, f.db, "D-1", patron.TypeStudent, 3)
	b := dbtest.Book(t, f.db, "DEL-1", f.cat)
	dbtest.Book(t, f.db, "DEL-2", f.cat)

	issued, err := f.uc.Issue(ctx, IssueInput{RollNo: "D-1", AccessionNumber: "DEL-1"})
	if err != nil {
		t.Fatal(err)
	}
	_, err = f.uc.DeletePatron(ctx, p.ID)
	wantCode(t, err, CodeHasOpenLoans)
	_, err = f.uc.DeleteBook(ctx, b.ID)
	wantCode(t, err, CodeHasOpenLoans)

	if _, err := f.uc.Return(ctx, ReturnInput{TransactionID: issued.ID}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.uc.Issue(ctx, IssueInput{RollNo: "D-1", AccessionNumber: "DEL-2"}); err != nil {
		t.Fatal(err)
	}

	res, err := f.uc.DeleteBook(ctx, b.ID)
	if err != nil {
		t.Fatalf("DeleteBook: %v", err)
	}
	if res.DeletedTransactions != 1 {
		t.Fatalf("deleted = %d", res.DeletedTransactions)
	}
	if _, err := gormdb.NewBookRepository(f.db).GetByID(ctx, b.ID); !errors.Is(err, book.ErrNotFound) {
		t.Fatalf("book still present: %v", err)
	}

	// patron still holds DEL-2
	_, err = f.uc.DeletePatron(ctx, p.ID)
	wantCode(t, err, CodeHasOpenLoans)

	if _, err := f.uc.DeleteBook(ctx, 4242); !errors.Is(err, book.ErrNotFound) {
		t.Fatalf("missing book: %v", err)
	}
	if _, err := f.uc.DeletePatron(ctx, 4242); !errors.Is(err, patron.ErrNotFound) {
		t.Fatalf("missing patron: %v", err)
	}
	checkLedger(t, f.db)
}

func TestDeletePatron_RemovesHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := dbtest.Patron(t, f.db, "H-1", patron.TypeStudent, 3)
	dbtest.Book(t, f.db, "H-1", f.cat)
	dbtest.Book(t, f.db, "H-2", f.cat)
	for _, acc := range []string{"H-1", "H-2"} {
		issued, err := f.uc.Issue(ctx, IssueInput{RollNo: "H-1", AccessionNumber: acc})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.uc.Return(ctx, ReturnInput{TransactionID: issued.ID}); err != nil {
			t.Fatal(err)
		}
	}

	res, err := f.uc.DeletePatron(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if res.DeletedTransactions != 2 {
		t.Fatalf("deleted = %d", res.DeletedTransactions)
	}
	var n int64
	f.db.Model(&transaction.Transaction{}).Count(&n)
	if n != 0 {
		t.Fatalf("ledger rows left = %d", n)
	}
}

func seedPatron(t *testing.T, f *fixture, roll string) *patron.Patron {
	t.Helper()
	return dbtest.Patron(t, f.db, roll, patron.TypeStudent, 3)
}

func seedBook(t *testing.T, f *fixture, acc string) *book.Book {
	t.Helper()
	return dbtest.Book(t, f.db, acc, f.cat)
}
