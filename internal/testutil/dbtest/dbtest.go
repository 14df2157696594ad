package dbtest

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"library-circulation/internal/domain/book"
	"library-circulation/internal/domain/category"
	"library-circulation/internal/domain/patron"
	"library-circulation/internal/domain/setting"
	"library-circulation/internal/domain/transaction"
	infradb "library-circulation/internal/infrastructure/db"
)

// Open returns a migrated in-memory sqlite DB on a single connection.
// Code running inside a tx must use the tx handle, or it blocks on the pool.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := infradb.Migrate(db); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func SeedSettings(t testing.TB, db *gorm.DB) {
	t.Helper()
	for _, d := range setting.Defaults {
		row := d.Row()
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("seed setting %s: %v", d.Key, err)
		}
	}
}

func Category(t testing.TB, db *gorm.DB, name string) *category.Category {
	t.Helper()
	c := &category.Category{Name: name, NameKey: category.NameKey(name), IsActive: true}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return c
}

func Patron(t testing.TB, db *gorm.DB, rollNo string, pt patron.Type, maxBooks int) *patron.Patron {
	t.Helper()
	p := &patron.Patron{
		RollNo: rollNo, Name: "Patron " + rollNo, Email: rollNo + "@example.com",
		PatronType: pt, Status: patron.StatusActive, MaxBooks: maxBooks,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed patron: %v", err)
	}
	return p
}

func Book(t testing.TB, db *gorm.DB, accession string, categoryID uint64) *book.Book {
	t.Helper()
	b := &book.Book{
		Title: "Title " + accession, Author: "Author", AccessionNumber: accession,
		CategoryID: categoryID, Status: book.StatusAvailable,
	}
	if err := db.Omit("Category").Create(b).Error; err != nil {
		t.Fatalf("seed book: %v", err)
	}
	return b
}

// Issued inserts an open loan and marks the book issued.
func Issued(t testing.TB, db *gorm.DB, ref string, p *patron.Patron, b *book.Book, issue, due time.Time) *transaction.Transaction {
	t.Helper()
	txn := &transaction.Transaction{
		Reference: ref, PatronID: p.ID, BookID: b.ID, IssueDate: issue, DueDate: due,
		Status: transaction.StatusIssued, FineAmount: decimal.Zero,
	}
	if err := db.Omit("Patron", "Book").Create(txn).Error; err != nil {
		t.Fatalf("seed transaction: %v", err)
	}
	if err := db.Model(&book.Book{}).Where("id = ?", b.ID).Update("status", book.StatusIssued).Error; err != nil {
		t.Fatalf("mark book issued: %v", err)
	}
	return txn
}
