package gormdb

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"library-circulation/internal/domain/category"
)

type CategoryRepository struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) *CategoryRepository { return &CategoryRepository{db: db} }

func (r *CategoryRepository) GetByID(ctx context.Context, id uint64) (*category.Category, error) {
	var out category.Category
	err := r.db.WithContext(ctx).First(&out, id).Error
	if err != nil {
		return nil, translate(err, category.ErrNotFound, nil)
	}
	return &out, nil
}

func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*category.Category, error) {
	var out category.Category
	err := r.db.WithContext(ctx).Where("name_key = ?", category.NameKey(name)).Take(&out).Error
	if err != nil {
		return nil, translate(err, category.ErrNotFound, nil)
	}
	return &out, nil
}

func (r *CategoryRepository) UpsertByName(ctx context.Context, c *category.Category) (bool, error) {
	c.NameKey = category.NameKey(c.Name)
	if c.NameKey == "" {
		return false, category.ErrNameEmpty
	}
	existing, err := r.GetByName(ctx, c.Name)
	switch {
	case errors.Is(err, category.ErrNotFound):
		return true, r.db.WithContext(ctx).Create(c).Error
	case err != nil:
		return false, err
	}
	c.ID = existing.ID
	c.CreatedAt = existing.CreatedAt
	err = r.db.WithContext(ctx).Model(c).Select("name", "description", "is_active").Updates(c).Error
	return false, err
}

func (r *CategoryRepository) EnsureByName(ctx context.Context, name string) (*category.Category, error) {
	existing, err := r.GetByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, category.ErrNotFound) {
		return nil, err
	}
	c := &category.Category{Name: name, NameKey: category.NameKey(name), IsActive: true}
	if c.NameKey == "" {
		return nil, category.ErrNameEmpty
	}
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		if isDuplicateKey(err) {
			return r.GetByName(ctx, name)
		}
		return nil, err
	}
	return c, nil
}

func (r *CategoryRepository) SetActive(ctx context.Context, id uint64, active bool) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&category.Category{}).Where("id = ?", id).Update("is_active", active).Error
}

func (r *CategoryRepository) List(ctx context.Context, onlyActive bool) ([]category.Category, error) {
	q := r.db.WithContext(ctx).Order("name ASC")
	if onlyActive {
		q = q.Where("is_active = ?", true)
	}
	var out []category.Category
	return out, q.Find(&out).Error
}

func (r *CategoryRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	return n, r.db.WithContext(ctx).Model(&category.Category{}).Count(&n).Error
}
