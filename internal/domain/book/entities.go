package book

import (
	"errors"
	"time"

	"library-circulation/internal/domain/category"
)

type Status string

const (
	StatusAvailable Status = "available"
	StatusIssued    Status = "issued"
	StatusLost      Status = "lost"
	StatusDamaged   Status = "damaged"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusIssued, StatusLost, StatusDamaged:
		return true
	}
	return false
}

var (
	ErrNotFound           = errors.New("book not found")
	ErrDuplicateAccession = errors.New("accession number already exists")
	ErrIssued             = errors.New("book is currently issued")
)

// Book is one physical copy, identified by its accession number.
type Book struct {
	ID              uint64             `gorm:"primaryKey;column:id" json:"id"`
	Title           string             `gorm:"size:255;not null;index" json:"title"`
	Author          string             `gorm:"size:255;not null" json:"author"`
	ISBN            string             `gorm:"column:isbn;size:20;index" json:"isbn"`
	Publisher       string             `gorm:"size:255" json:"publisher"`
	PublicationYear int                `json:"publication_year"`
	AccessionNumber string             `gorm:"size:50;not null;uniqueIndex:ux_books_accession" json:"accession_number"`
	CallNumber      string             `gorm:"size:50" json:"call_number"`
	CategoryID      uint64             `gorm:"not null;index" json:"category_id"`
	Category        *category.Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Status          Status             `gorm:"size:20;not null;index" json:"status"`
	CreatedAt       time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Book) TableName() string { return "books" }

// Columns written when an existing accession number is upserted.
var (
	CatalogColumns = []string{"title", "author", "isbn", "publisher", "publication_year", "call_number", "category_id", "updated_at"}
	RestoreColumns = append(append([]string{}, CatalogColumns...), "status")
)
