package gormdb

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"library-circulation/internal/domain/book"
)

type BookRepository struct{ db *gorm.DB }

func NewBookRepository(db *gorm.DB) *BookRepository { return &BookRepository{db: db} }

func (r *BookRepository) Create(ctx context.Context, b *book.Book) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error
	return translate(err, nil, book.ErrDuplicateAccession)
}

func (r *BookRepository) GetByID(ctx context.Context, id uint64) (*book.Book, error) {
	var out book.Book
	err := r.db.WithContext(ctx).Preload("Category").First(&out, id).Error
	if err != nil {
		return nil, translate(err, book.ErrNotFound, nil)
	}
	return &out, nil
}

func (r *BookRepository) GetByAccession(ctx context.Context, accession string) (*book.Book, error) {
	var out book.Book
	err := r.db.WithContext(ctx).Where("accession_number = ?", accession).Take(&out).Error
	if err != nil {
		return nil, translate(err, book.ErrNotFound, nil)
	}
	return &out, nil
}

func (r *BookRepository) GetByAccessionForUpdate(ctx context.Context, accession string) (*book.Book, error) {
	var out book.Book
	err := forUpdate(r.db.WithContext(ctx)).Where("accession_number = ?", accession).Take(&out).Error
	if err != nil {
		return nil, translate(err, book.ErrNotFound, nil)
	}
	return &out, nil
}

func (r *BookRepository) UpsertByAccession(ctx context.Context, b *book.Book, columns []string) (bool, error) {
	existing, err := r.GetByAccession(ctx, b.AccessionNumber)
	switch {
	case errors.Is(err, book.ErrNotFound):
		return true, r.Create(ctx, b)
	case err != nil:
		return false, err
	}
	b.ID = existing.ID
	b.CreatedAt = existing.CreatedAt
	err = r.db.WithContext(ctx).Model(b).Omit(clause.Associations).Select(columns).Updates(b).Error
	return false, err
}

func (r *BookRepository) SetStatusIf(ctx context.Context, id uint64, from, to book.Status) (bool, error) {
	res := r.db.WithContext(ctx).Model(&book.Book{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected == 1, res.Error
}

func (r *BookRepository) SetStatus(ctx context.Context, id uint64, to book.Status) error {
	return r.db.WithContext(ctx).Model(&book.Book{}).Where("id = ?", id).Update("status", to).Error
}

func (r *BookRepository) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Delete(&book.Book{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return book.ErrNotFound
	}
	return nil
}

func (r *BookRepository) Search(ctx context.Context, f book.SearchFilter) ([]book.Book, int64, error) {
	q := r.db.WithContext(ctx).Model(&book.Book{})
	if f.Query != "" {
		like := likePattern(f.Query)
		q = q.Where("(LOWER(title) LIKE ? OR LOWER(author) LIKE ? OR LOWER(accession_number) LIKE ? OR LOWER(call_number) LIKE ? OR LOWER(isbn) LIKE ?)",
			like, like, like, like, like)
	}
	if f.CategoryID > 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []book.Book
	err := page(q.Preload("Category").Order("title ASC, id ASC"), f.Limit, f.Offset).Find(&out).Error
	return out, total, err
}

func (r *BookRepository) ListAll(ctx context.Context) ([]book.Book, error) {
	var out []book.Book
	return out, r.db.WithContext(ctx).Preload("Category").Order("id ASC").Find(&out).Error
}

func (r *BookRepository) CountByStatus(ctx context.Context) (map[book.Status]int64, error) {
	var rows []struct {
		Status book.Status
		N      int64
	}
	err := r.db.WithContext(ctx).Model(&book.Book{}).
		Select("status, COUNT(*) AS n").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[book.Status]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}

func (r *BookRepository) CountByCategory(ctx context.Context) (map[uint64]int64, error) {
	var rows []struct {
		CategoryID uint64
		N          int64
	}
	err := r.db.WithContext(ctx).Model(&book.Book{}).
		Select("category_id, COUNT(*) AS n").Group("category_id").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint64]int64, len(rows))
	for _, row := range rows {
		out[row.CategoryID] = row.N
	}
	return out, nil
}
