package catalog

import (
	"context"
	"errors"
	"strings"

	"library-circulation/internal/domain/book"
	"library-circulation/internal/domain/category"
	"library-circulation/internal/domain/uow"
	"library-circulation/pkg/pagination"
)

var ErrInvalidStatus = errors.New("status must be one of available, lost, damaged")

type Usecase struct {
	books      book.Repository
	categories category.Repository
	uow        uow.UnitOfWork
}

func NewUsecase(books book.Repository, categories category.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{books: books, categories: categories, uow: tx}
}

// UpsertBook adds a copy or edits the catalog fields of an existing accession number.
// Status is never touched here; a new copy starts available.
func (u *Usecase) UpsertBook(ctx context.Context, in BookInput) (*BookDTO, bool, error) {
	var (
		dto     BookDTO
		created bool
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		name := strings.TrimSpace(in.Category)
		if name == "" {
			name = category.DefaultName
		}
		cat, err := r.Categories.EnsureByName(ctx, name)
		if err != nil {
			return err
		}
		b := &book.Book{
			AccessionNumber: strings.TrimSpace(in.AccessionNumber),
			Title:           strings.TrimSpace(in.Title),
			Author:          strings.TrimSpace(in.Author),
			ISBN:            strings.TrimSpace(in.ISBN),
			Publisher:       strings.TrimSpace(in.Publisher),
			PublicationYear: in.PublicationYear,
			CallNumber:      strings.TrimSpace(in.CallNumber),
			CategoryID:      cat.ID,
			Status:          book.StatusAvailable,
		}
		if created, err = r.Books.UpsertByAccession(ctx, b, book.CatalogColumns); err != nil {
			return err
		}
		stored, err := r.Books.GetByID(ctx, b.ID)
		if err != nil {
			return err
		}
		dto = ToBookDTO(stored)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &dto, created, nil
}

func (u *Usecase) GetBook(ctx context.Context, id uint64) (*BookDTO, error) {
	b, err := u.books.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := ToBookDTO(b)
	return &dto, nil
}

func (u *Usecase) SearchBooks(ctx context.Context, q BookQuery) (*pagination.Page[BookDTO], error) {
	page, perPage := pagination.Normalize(q.Page, q.PerPage, 20, 100)
	rows, total, err := u.books.Search(ctx, book.SearchFilter{
		Query:      q.Q,
		CategoryID: q.CategoryID,
		Status:     book.Status(q.Status),
		Limit:      perPage,
		Offset:     pagination.Offset(page, perPage),
	})
	if err != nil {
		return nil, err
	}
	items := make([]BookDTO, 0, len(rows))
	for i := range rows {
		items = append(items, ToBookDTO(&rows[i]))
	}
	out := pagination.New(items, total, page, perPage)
	return &out, nil
}

// SetBookStatus marks a copy lost, damaged or available again. Issued copies
// only change status through circulation.
func (u *Usecase) SetBookStatus(ctx context.Context, id uint64, to book.Status) (*BookDTO, error) {
	if !to.Valid() || to == book.StatusIssued {
		return nil, ErrInvalidStatus
	}
	var dto BookDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		b, err := r.Books.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if b.Status == book.StatusIssued {
			return book.ErrIssued
		}
		ok, err := r.Books.SetStatusIf(ctx, b.ID, b.Status, to)
		if err != nil {
			return err
		}
		if !ok {
			return book.ErrIssued
		}
		b.Status = to
		dto = ToBookDTO(b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

func (u *Usecase) ListCategories(ctx context.Context, onlyActive bool) ([]CategoryDTO, error) {
	rows, err := u.categories.List(ctx, onlyActive)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, ToCategoryDTO(&rows[i]))
	}
	return out, nil
}

// SaveCategory creates a category or, on a case-insensitive name match, updates
// its description and reactivates it.
func (u *Usecase) SaveCategory(ctx context.Context, in CategoryInput) (*CategoryDTO, bool, error) {
	c := &category.Category{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		IsActive:    true,
	}
	created, err := u.categories.UpsertByName(ctx, c)
	if err != nil {
		return nil, false, err
	}
	dto := ToCategoryDTO(c)
	return &dto, created, nil
}

// SetCategoryActive soft-(de)activates; categories are never hard-deleted.
func (u *Usecase) SetCategoryActive(ctx context.Context, id uint64, active bool) (*CategoryDTO, error) {
	if err := u.categories.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	c, err := u.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := ToCategoryDTO(c)
	return &dto, nil
}
