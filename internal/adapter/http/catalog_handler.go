package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"library-circulation/internal/domain/book"
	"library-circulation/internal/usecase/backup"
	"library-circulation/internal/usecase/catalog"
	"library-circulation/internal/usecase/circulation"
)

type CatalogHandler struct {
	catalog     *catalog.Usecase
	circulation *circulation.Usecase
	backup      *backup.Usecase
}

func NewCatalogHandler(cat *catalog.Usecase, circ *circulation.Usecase, bk *backup.Usecase) *CatalogHandler {
	return &CatalogHandler{catalog: cat, circulation: circ, backup: bk}
}

type statusReq struct {
	Status string `json:"status" validate:"required"`
}

func (h *CatalogHandler) ListBooks(c echo.Context) error {
	var q catalog.BookQuery
	if ok, err := bindValid(c, &q); !ok {
		return err
	}
	page, err := h.catalog.SearchBooks(c.Request().Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *CatalogHandler) GetBook(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	dto, err := h.catalog.GetBook(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// SaveBook adds a copy or edits the one with the same accession number.
func (h *CatalogHandler) SaveBook(c echo.Context) error {
	var req catalog.BookInput
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, created, err := h.catalog.UpsertBook(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	return c.JSON(code, dto)
}

func (h *CatalogHandler) SetBookStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req statusReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.catalog.SetBookStatus(c.Request().Context(), id, book.Status(req.Status))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *CatalogHandler) DeleteBook(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	res, err := h.circulation.DeleteBook(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *CatalogHandler) ImportBooks(c echo.Context) error {
	return importUpload(c, h.backup, backup.TypeBooks)
}

func (h *CatalogHandler) ListCategories(c echo.Context) error {
	onlyActive := c.QueryParam("active") == "true"
	out, err := h.catalog.ListCategories(c.Request().Context(), onlyActive)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) SaveCategory(c echo.Context) error {
	var req catalog.CategoryInput
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, created, err := h.catalog.SaveCategory(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	return c.JSON(code, dto)
}

func (h *CatalogHandler) DeactivateCategory(c echo.Context) error { return h.setCategoryActive(c, false) }

func (h *CatalogHandler) ActivateCategory(c echo.Context) error { return h.setCategoryActive(c, true) }

func (h *CatalogHandler) setCategoryActive(c echo.Context, active bool) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	dto, err := h.catalog.SetCategoryActive(c.Request().Context(), id, active)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
