package catalog

import (
	"time"

	"library-circulation/internal/domain/book"
	"library-circulation/internal/domain/category"
)

type BookInput struct {
	AccessionNumber string `json:"accession_number" validate:"required,max=50"`
	Title           string `json:"title"            validate:"required,max=255"`
	Author          string `json:"author"           validate:"required,max=255"`
	ISBN            string `json:"isbn"             validate:"max=20"`
	Publisher       string `json:"publisher"        validate:"max=255"`
	PublicationYear int    `json:"publication_year" validate:"omitempty,year4"`
	CallNumber      string `json:"call_number"      validate:"max=50"`
	// Category is matched by name, case-insensitively; blank means the default category.
	Category string `json:"category" validate:"max=100"`
}

type BookQuery struct {
	Q          string `query:"q"`
	CategoryID uint64 `query:"category_id"`
	Status     string `query:"status"   validate:"omitempty,oneof=available issued lost damaged"`
	Page       int    `query:"page"     validate:"omitempty,gte=1"`
	PerPage    int    `query:"per_page" validate:"omitempty,gte=1,lte=100"`
}

type CategoryInput struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

type BookDTO struct {
	ID              uint64    `json:"id"`
	AccessionNumber string    `json:"accession_number"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	ISBN            string    `json:"isbn"`
	Publisher       string    `json:"publisher"`
	PublicationYear int       `json:"publication_year,omitempty"`
	CallNumber      string    `json:"call_number"`
	CategoryID      uint64    `json:"category_id"`
	Category        string    `json:"category"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type CategoryDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToBookDTO(b *book.Book) BookDTO {
	dto := BookDTO{
		ID: b.ID, AccessionNumber: b.AccessionNumber, Title: b.Title, Author: b.Author,
		ISBN: b.ISBN, Publisher: b.Publisher, PublicationYear: b.PublicationYear,
		CallNumber: b.CallNumber, CategoryID: b.CategoryID, Status: string(b.Status),
		CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt,
	}
	if b.Category != nil {
		dto.Category = b.Category.Name
	}
	return dto
}

func ToCategoryDTO(c *category.Category) CategoryDTO {
	return CategoryDTO{ID: c.ID, Name: c.Name, Description: c.Description, IsActive: c.IsActive, CreatedAt: c.CreatedAt}
}
