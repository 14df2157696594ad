package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"library-circulation/internal/adapter/middleware"
	"library-circulation/internal/usecase/opac"
)

// OpacHandler is the public catalogue and the patron's own dashboard.
type OpacHandler struct{ uc *opac.Usecase }

func NewOpacHandler(uc *opac.Usecase) *OpacHandler { return &OpacHandler{uc: uc} }

func (h *OpacHandler) Search(c echo.Context) error {
	var q opac.SearchQuery
	if ok, err := bindValid(c, &q); !ok {
		return err
	}
	page, err := h.uc.Search(c.Request().Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *OpacHandler) Book(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	b, err := h.uc.Book(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *OpacHandler) Categories(c echo.Context) error {
	out, err := h.uc.Categories(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OpacHandler) Dashboard(c echo.Context) error {
	a, _ := middleware.ActorFrom(c)
	d, err := h.uc.Dashboard(c.Request().Context(), a.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}
