package gormdb

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"library-circulation/internal/domain/patron"
)

type PatronRepository struct{ db *gorm.DB }

func NewPatronRepository(db *gorm.DB) *PatronRepository { return &PatronRepository{db: db} }

func (r *PatronRepository) Create(ctx context.Context, p *patron.Patron) error {
	return translate(r.db.WithContext(ctx).Create(p).Error, nil, patron.ErrDuplicateRollNo)
}

func (r *PatronRepository) GetByID(ctx context.Context, id uint64) (*patron.Patron, error) {
	var out patron.Patron
	if err := r.db.WithContext(ctx).First(&out, id).Error; err != nil {
		return nil, translate(err, patron.ErrNotFound, nil)
	}
	return &out, nil
}

func (r *PatronRepository) GetByRollNo(ctx context.Context, rollNo string) (*patron.Patron, error) {
	var out patron.Patron
	if err := r.db.WithContext(ctx).Where("roll_no = ?", rollNo).Take(&out).Error; err != nil {
		return nil, translate(err, patron.ErrNotFound, nil)
	}
	return &out, nil
}

func (r *PatronRepository) UpsertByRollNo(ctx context.Context, p *patron.Patron, columns []string) (bool, error) {
	existing, err := r.GetByRollNo(ctx, p.RollNo)
	switch {
	case errors.Is(err, patron.ErrNotFound):
		return true, r.Create(ctx, p)
	case err != nil:
		return false, err
	}
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	return false, r.Update(ctx, p, columns...)
}

func (r *PatronRepository) Update(ctx context.Context, p *patron.Patron, columns ...string) error {
	if len(columns) == 0 {
		return errors.New("patron update: no columns")
	}
	// RowsAffected is not checked: MySQL reports 0 for an unchanged row
	return r.db.WithContext(ctx).Model(p).Select(columns).Updates(p).Error
}

func (r *PatronRepository) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Delete(&patron.Patron{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return patron.ErrNotFound
	}
	return nil
}

func (r *PatronRepository) List(ctx context.Context, f patron.ListFilter) ([]patron.Patron, int64, error) {
	q := r.db.WithContext(ctx).Model(&patron.Patron{})
	if f.Query != "" {
		like := likePattern(f.Query)
		q = q.Where("(LOWER(roll_no) LIKE ? OR LOWER(name) LIKE ? OR LOWER(email) LIKE ?)", like, like, like)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Type != "" {
		q = q.Where("patron_type = ?", f.Type)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []patron.Patron
	err := page(q.Order("name ASC, id ASC"), f.Limit, f.Offset).Find(&out).Error
	return out, total, err
}

func (r *PatronRepository) ListAll(ctx context.Context) ([]patron.Patron, error) {
	var out []patron.Patron
	return out, r.db.WithContext(ctx).Order("id ASC").Find(&out).Error
}

func (r *PatronRepository) CountByStatus(ctx context.Context) (map[patron.Status]int64, error) {
	var rows []struct {
		Status patron.Status
		N      int64
	}
	err := r.db.WithContext(ctx).Model(&patron.Patron{}).
		Select("status, COUNT(*) AS n").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[patron.Status]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}
