package gormdb

import (
	"context"

	"gorm.io/gorm"

	"library-circulation/internal/domain/user"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error, nil, user.ErrDuplicateUsername)
}

func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*user.User, error) {
	var out user.User
	if err := r.db.WithContext(ctx).First(&out, id).Error; err != nil {
		return nil, translate(err, user.ErrNotFound, nil)
	}
	return &out, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	var out user.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).Take(&out).Error; err != nil {
		return nil, translate(err, user.ErrNotFound, nil)
	}
	return &out, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	return n, r.db.WithContext(ctx).Model(&user.User{}).Count(&n).Error
}
