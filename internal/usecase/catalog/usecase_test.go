package catalog

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"library-circulation/internal/adapter/repository/gormdb"
	"library-circulation/internal/domain/book"
	"library-circulation/internal/domain/category"
	"library-circulation/internal/domain/patron"
	"library-circulation/internal/testutil/dbtest"
)

func newUsecase(t *testing.T) (*Usecase, *gorm.DB) {
	t.Helper()
	db := dbtest.Open(t)
	return NewUsecase(gormdb.NewBookRepository(db), gormdb.NewCategoryRepository(db), gormdb.NewGormUoW(db)), db
}

func TestUpsertBook_CreatesThenUpdatesInPlace(t *testing.T) {
	uc, db := newUsecase(t)
	ctx := context.Background()

	in := BookInput{AccessionNumber: " ACC-10 ", Title: "Dune", Author: "Herbert", Category: "Fiction", PublicationYear: 1965}
	dto, created, err := uc.UpsertBook(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created || dto.AccessionNumber != "ACC-10" || dto.Category != "Fiction" || dto.Status != "available" {
		t.Fatalf("created dto = %+v created=%v", dto, created)
	}

	// case-insensitive category match, no second category row
	in.Title, in.Category = "Dune (2nd ed.)", "FICTION"
	again, created, err := uc.UpsertBook(ctx, in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if created || again.ID != dto.ID || again.Title != "Dune (2nd ed.)" || again.Category != "Fiction" {
		t.Fatalf("updated dto = %+v created=%v", again, created)
	}
	var n int64
	db.Model(&category.Category{}).Count(&n)
	if n != 1 {
		t.Fatalf("categories = %d", n)
	}
}

func TestUpsertBook_KeepsStatusOfIssuedCopy(t *testing.T) {
	uc, db := newUsecase(t)
	ctx := context.Background()
	cat := dbtest.Category(t, db, "Science")
	p := dbtest.Patron(t, db, "S-1", patron.TypeStudent, 3)
	b := dbtest.Book(t, db, "SCI-1", cat.ID)
	dbtest.Issued(t, db, "REF-1", p, b, b.CreatedAt, b.CreatedAt.AddDate(0, 0, 14))

	dto, _, err := uc.UpsertBook(ctx, BookInput{AccessionNumber: "SCI-1", Title: "Cosmos", Author: "Sagan"})
	if err != nil {
		t.Fatal(err)
	}
	if dto.Status != "issued" || dto.Category != category.DefaultName {
		t.Fatalf("dto = %+v", dto)
	}
}

func TestSetBookStatus(t *testing.T) {
	uc, db := newUsecase(t)
	ctx := context.Background()
	cat := dbtest.Category(t, db, "General")
	b := dbtest.Book(t, db, "ST-1", cat.ID)

	dto, err := uc.SetBookStatus(ctx, b.ID, book.StatusLost)
	if err != nil || dto.Status != "lost" {
		t.Fatalf("lost: %+v %v", dto, err)
	}
	if _, err := uc.SetBookStatus(ctx, b.ID, book.StatusIssued); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("issued by hand: %v", err)
	}
	if _, err := uc.SetBookStatus(ctx, b.ID, "gone"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("unknown status: %v", err)
	}
	if _, err := uc.SetBookStatus(ctx, 999, book.StatusAvailable); !errors.Is(err, book.ErrNotFound) {
		t.Fatalf("missing: %v", err)
	}

	p := dbtest.Patron(t, db, "S-2", patron.TypeStudent, 3)
	b2 := dbtest.Book(t, db, "ST-2", cat.ID)
	dbtest.Issued(t, db, "REF-2", p, b2, b2.CreatedAt, b2.CreatedAt)
	if _, err := uc.SetBookStatus(ctx, b2.ID, book.StatusDamaged); !errors.Is(err, book.ErrIssued) {
		t.Fatalf("issued copy: %v", err)
	}
}

func TestSearchBooks(t *testing.T) {
	uc, db := newUsecase(t)
	ctx := context.Background()
	for _, in := range []BookInput{
		{AccessionNumber: "A-1", Title: "Go in Action", Author: "Kennedy", Category: "Programming"},
		{AccessionNumber: "A-2", Title: "The Go Programming Language", Author: "Donovan", Category: "Programming"},
		{AccessionNumber: "A-3", Title: "Gardening", Author: "Smith", Category: "Hobby"},
	} {
		if _, _, err := uc.UpsertBook(ctx, in); err != nil {
			t.Fatal(err)
		}
	}
	db.Model(&book.Book{}).Where("accession_number = ?", "A-2").Update("status", book.StatusLost)

	page, err := uc.SearchBooks(ctx, BookQuery{Q: "go"})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 2 || page.Items[0].AccessionNumber != "A-1" {
		t.Fatalf("query page = %+v", page)
	}
	page, _ = uc.SearchBooks(ctx, BookQuery{Q: "go", Status: "available"})
	if page.Total != 1 {
		t.Fatalf("available = %d", page.Total)
	}
	page, _ = uc.SearchBooks(ctx, BookQuery{PerPage: 2, Page: 2})
	if page.Total != 3 || len(page.Items) != 1 || page.Pages != 2 {
		t.Fatalf("paged = %+v", page)
	}

	got, err := uc.GetBook(ctx, page.Items[0].ID)
	if err != nil || got.Category == "" {
		t.Fatalf("GetBook: %+v %v", got, err)
	}
}

func TestCategories(t *testing.T) {
	uc, _ := newUsecase(t)
	ctx := context.Background()

	c, created, err := uc.SaveCategory(ctx, CategoryInput{Name: "History", Description: "old things"})
	if err != nil || !created {
		t.Fatalf("create: %+v %v", c, err)
	}
	if _, err := uc.SetCategoryActive(ctx, c.ID, false); err != nil {
		t.Fatal(err)
	}
	active, _ := uc.ListCategories(ctx, true)
	if len(active) != 0 {
		t.Fatalf("active = %+v", active)
	}
	all, _ := uc.ListCategories(ctx, false)
	if len(all) != 1 || all[0].IsActive {
		t.Fatalf("all = %+v", all)
	}

	// saving the same name again reactivates
	c2, created, err := uc.SaveCategory(ctx, CategoryInput{Name: "history"})
	if err != nil || created || c2.ID != c.ID || !c2.IsActive {
		t.Fatalf("resave: %+v created=%v err=%v", c2, created, err)
	}

	if _, _, err := uc.SaveCategory(ctx, CategoryInput{Name: "   "}); !errors.Is(err, category.ErrNameEmpty) {
		t.Fatalf("blank: %v", err)
	}
	if _, err := uc.SetCategoryActive(ctx, 77, true); !errors.Is(err, category.ErrNotFound) {
		t.Fatalf("missing: %v", err)
	}
}
