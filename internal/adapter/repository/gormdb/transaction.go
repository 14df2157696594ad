package gormdb

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"library-circulation/internal/domain/transaction"
)

type TransactionRepository struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(t).Error
	return translate(err, nil, transaction.ErrDuplicateReference)
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uint64) (*transaction.Transaction, error) {
	var out transaction.Transaction
	err := r.db.WithContext(ctx).Preload("Patron").Preload("Book").First(&out, id).Error
	if err != nil {
		return nil, translate(err, transaction.ErrNotFound, nil)
	}
	return &out, nil
}

func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*transaction.Transaction, error) {
	var out transaction.Transaction
	err := forUpdate(r.db.WithContext(ctx)).Where("id = ?", id).Take(&out).Error
	if err != nil {
		return nil, translate(err, transaction.ErrNotFound, nil)
	}
	return &out, nil
}

func (r *TransactionRepository) GetByReference(ctx context.Context, ref string) (*transaction.Transaction, error) {
	var out transaction.Transaction
	err := r.db.WithContext(ctx).Where("reference = ?", ref).Take(&out).Error
	if err != nil {
		return nil, translate(err, transaction.ErrNotFound, nil)
	}
	return &out, nil
}

func (r *TransactionRepository) UpsertByReference(ctx context.Context, t *transaction.Transaction, columns []string) (bool, error) {
	existing, err := r.GetByReference(ctx, t.Reference)
	switch {
	case errors.Is(err, transaction.ErrNotFound):
		return true, r.Create(ctx, t)
	case err != nil:
		return false, err
	}
	t.ID = existing.ID
	t.CreatedAt = existing.CreatedAt
	err = r.db.WithContext(ctx).Model(t).Omit(clause.Associations).Select(columns).Updates(t).Error
	return false, err
}

func (r *TransactionRepository) MarkReturned(ctx context.Context, t *transaction.Transaction) (bool, error) {
	res := r.db.WithContext(ctx).Model(&transaction.Transaction{}).
		Where("id = ? AND status = ?", t.ID, transaction.StatusIssued).
		Updates(map[string]any{
			"status":      transaction.StatusReturned,
			"return_date": t.ReturnDate,
			"fine_amount": t.FineAmount,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *TransactionRepository) MarkFinePaid(ctx context.Context, id uint64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&transaction.Transaction{}).
		Where("id = ? AND fine_paid = ? AND fine_amount > 0", id, false).
		Update("fine_paid", true)
	return res.RowsAffected == 1, res.Error
}

func (r *TransactionRepository) CountOpenByPatron(ctx context.Context, patronID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&transaction.Transaction{}).
		Where("patron_id = ? AND status = ?", patronID, transaction.StatusIssued).
		Count(&n).Error
	return n, err
}

func (r *TransactionRepository) CountOpenByBook(ctx context.Context, bookID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&transaction.Transaction{}).
		Where("book_id = ? AND status = ?", bookID, transaction.StatusIssued).
		Count(&n).Error
	return n, err
}

func (r *TransactionRepository) DeleteByPatron(ctx context.Context, patronID uint64) (int64, error) {
	res := r.db.WithContext(ctx).Where("patron_id = ?", patronID).Delete(&transaction.Transaction{})
	return res.RowsAffected, res.Error
}

func (r *TransactionRepository) DeleteByBook(ctx context.Context, bookID uint64) (int64, error) {
	res := r.db.WithContext(ctx).Where("book_id = ?", bookID).Delete(&transaction.Transaction{})
	return res.RowsAffected, res.Error
}

func (r *TransactionRepository) filtered(ctx context.Context, f transaction.ListFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&transaction.Transaction{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.PatronID > 0 {
		q = q.Where("patron_id = ?", f.PatronID)
	}
	if f.BookID > 0 {
		q = q.Where("book_id = ?", f.BookID)
	}
	if !f.IssuedFrom.IsZero() {
		q = q.Where("issue_date >= ?", f.IssuedFrom)
	}
	if !f.IssuedBefore.IsZero() {
		q = q.Where("issue_date < ?", f.IssuedBefore)
	}
	if !f.ReturnedFrom.IsZero() {
		q = q.Where("return_date >= ?", f.ReturnedFrom)
	}
	return q
}

func (r *TransactionRepository) List(ctx context.Context, f transaction.ListFilter) ([]transaction.Transaction, int64, error) {
	q := r.filtered(ctx, f)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []transaction.Transaction
	err := page(q.Preload("Patron").Preload("Book").Order("issue_date DESC, id DESC"), f.Limit, f.Offset).
		Find(&out).Error
	return out, total, err
}

func (r *TransactionRepository) Tally(ctx context.Context, f transaction.ListFilter) (transaction.Tally, error) {
	var rows []struct {
		Status transaction.Status
		N      int64
		Fined  int64
		Fines  decimal.Decimal
	}
	err := r.filtered(ctx, f).
		Select("status, COUNT(*) AS n, " +
			"COALESCE(SUM(CASE WHEN fine_amount > 0 THEN 1 ELSE 0 END), 0) AS fined, " +
			"COALESCE(SUM(fine_amount), 0) AS fines").
		Group("status").
		Scan(&rows).Error
	out := transaction.Tally{Fines: decimal.Zero}
	if err != nil {
		return out, err
	}
	for _, row := range rows {
		switch row.Status {
		case transaction.StatusIssued:
			out.Issued = row.N
		case transaction.StatusReturned:
			out.Returned, out.FinedReturns, out.Fines = row.N, row.Fined, row.Fines
		}
	}
	return out, nil
}

func (r *TransactionRepository) ListOpen(ctx context.Context, patronID uint64) ([]transaction.Transaction, error) {
	q := r.db.WithContext(ctx).Preload("Patron").Preload("Book").
		Where("status = ?", transaction.StatusIssued)
	if patronID > 0 {
		q = q.Where("patron_id = ?", patronID)
	}
	var out []transaction.Transaction
	return out, q.Order("due_date ASC, id ASC").Find(&out).Error
}

func (r *TransactionRepository) ListUnpaidFines(ctx context.Context, patronID uint64) ([]transaction.Transaction, error) {
	q := r.db.WithContext(ctx).Preload("Patron").Preload("Book").
		Where("status = ? AND fine_paid = ? AND fine_amount > 0", transaction.StatusReturned, false)
	if patronID > 0 {
		q = q.Where("patron_id = ?", patronID)
	}
	var out []transaction.Transaction
	return out, q.Order("return_date DESC, id DESC").Find(&out).Error
}

func (r *TransactionRepository) ListAll(ctx context.Context) ([]transaction.Transaction, error) {
	var out []transaction.Transaction
	return out, r.db.WithContext(ctx).Preload("Patron").Preload("Book").Order("id ASC").Find(&out).Error
}

func (r *TransactionRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	return n, r.db.WithContext(ctx).Model(&transaction.Transaction{}).Count(&n).Error
}
