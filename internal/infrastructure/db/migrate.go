package db

import (
	"gorm.io/gorm"

	"library-circulation/internal/domain/book"
	"library-circulation/internal/domain/category"
	"library-circulation/internal/domain/patron"
	"library-circulation/internal/domain/setting"
	"library-circulation/internal/domain/transaction"
	"library-circulation/internal/domain/user"
)

// Models in dependency order.
func Models() []any {
	return []any{
		&category.Category{},
		&patron.Patron{},
		&book.Book{},
		&transaction.Transaction{},
		&setting.Setting{},
		&user.User{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
