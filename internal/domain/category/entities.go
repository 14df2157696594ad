package category

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// DefaultName is assigned to books imported without a category.
const DefaultName = "General"

var (
	ErrNotFound  = errors.New("category not found")
	ErrNameEmpty = errors.New("category name is empty")
)

type Category struct {
	ID          uint64    `gorm:"primaryKey;column:id" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	NameKey     string    `gorm:"size:100;not null;uniqueIndex:ux_category_name_key" json:"-"`
	Description string    `gorm:"type:text" json:"description"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Category) TableName() string { return "category" }

var folder = cases.Fold()

// NameKey is the case-insensitive identity of a category name.
func NameKey(name string) string {
	return folder.String(strings.TrimSpace(name))
}
