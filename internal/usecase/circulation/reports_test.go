package circulation

import (
	"context"
	"errors"
	"testing"

	"library-circulation/internal/domain/patron"
)

func TestReports_OverdueFinesSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, r := range []string{"Q-1", "Q-2"} {
		seedPatron(t, f, r)
	}
	for _, acc := range []string{"Q-A", "Q-B", "Q-C"} {
		seedBook(t, f, acc)
	}

	a, err := f.uc.Issue(ctx, IssueInput{RollNo: "Q-1", AccessionNumber: "Q-A"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := f.uc.Issue(ctx, IssueInput{RollNo: "Q-2", AccessionNumber: "Q-B"})
	if err != nil {
		t.Fatal(err)
	}

	// Q-A comes back 4 days late, Q-B stays out
	f.advance(18)
	if _, err := f.uc.Return(ctx, ReturnInput{TransactionID: a.ID}); err != nil {
		t.Fatal(err)
	}
	f.advance(19)

	overdue, err := f.uc.Overdue(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(overdue) != 1 || overdue[0].ID != b.ID || overdue[0].DaysOverdue != 5 || overdue[0].LiveFine != 5 {
		t.Fatalf("overdue = %+v", overdue)
	}

	fines, err := f.uc.Fines(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if fines.Count != 1 || fines.Total != 4 || fines.Average != 4 || fines.AccruingTotal != 5 {
		t.Fatalf("fines = %+v", fines)
	}
	if fines.Outstanding[0].RollNo != "Q-1" || len(fines.Accruing) != 1 {
		t.Fatalf("fine rows = %+v", fines)
	}

	sum, err := f.uc.Summary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := Summary{
		TotalBooks: 3, AvailableBooks: 2, IssuedBooks: 1,
		TotalPatrons: 2, ActivePatrons: 2,
		OpenLoans: 1, OverdueLoans: 1, OutstandingFines: 4,
	}
	if *sum != want {
		t.Fatalf("summary = %+v, want %+v", *sum, want)
	}

	if _, err := f.uc.MarkFinePaid(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	fines, _ = f.uc.Fines(ctx)
	if fines.Count != 0 || fines.Total != 0 || fines.Average != 0 {
		t.Fatalf("fines after pay = %+v", fines)
	}
}

func TestList_FiltersAndPages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedPatron(t, f, "L-1")
	seedPatron(t, f, "L-2")
	for _, acc := range []string{"L-A", "L-B", "L-C"} {
		seedBook(t, f, acc)
	}
	first, _ := f.uc.Issue(ctx, IssueInput{RollNo: "L-1", AccessionNumber: "L-A"})
	if _, err := f.uc.Issue(ctx, IssueInput{RollNo: "L-1", AccessionNumber: "L-B"}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.uc.Issue(ctx, IssueInput{RollNo: "L-2", AccessionNumber: "L-C"}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.uc.Return(ctx, ReturnInput{TransactionID: first.ID}); err != nil {
		t.Fatal(err)
	}

	all, err := f.uc.List(ctx, ListQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if all.Total != 3 || all.PerPage != 20 || len(all.Items) != 3 {
		t.Fatalf("all = %+v", all)
	}

	issued, _ := f.uc.List(ctx, ListQuery{Status: "issued"})
	if issued.Total != 2 {
		t.Fatalf("issued total = %d", issued.Total)
	}

	mine, err := f.uc.List(ctx, ListQuery{RollNo: "L-1", PerPage: 1, Page: 2})
	if err != nil {
		t.Fatal(err)
	}
	if mine.Total != 2 || len(mine.Items) != 1 || mine.Pages != 2 {
		t.Fatalf("paged = %+v", mine)
	}

	if _, err := f.uc.List(ctx, ListQuery{RollNo: "ghost"}); !errors.Is(err, patron.ErrNotFound) {
		t.Fatalf("unknown roll: %v", err)
	}

	var p patron.Patron
	f.db.Where("roll_no = ?", "L-1").First(&p)
	hist, err := f.uc.History(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 2 {
		t.Fatalf("history = %d rows", len(hist))
	}
}
