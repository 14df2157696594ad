package http

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"library-circulation/internal/adapter/middleware"
	"library-circulation/internal/usecase/circulation"
)

type CirculationHandler struct{ uc *circulation.Usecase }

func NewCirculationHandler(uc *circulation.Usecase) *CirculationHandler {
	return &CirculationHandler{uc: uc}
}

func (h *CirculationHandler) Issue(c echo.Context) error {
	var req circulation.IssueInput
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	if a, ok := middleware.ActorFrom(c); ok {
		req.IssuedBy = a.ID
	}
	dto, err := h.uc.Issue(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *CirculationHandler) Return(c echo.Context) error {
	var req circulation.ReturnInput
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Return(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *CirculationHandler) PayFine(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	dto, err := h.uc.MarkFinePaid(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *CirculationHandler) List(c echo.Context) error {
	var q circulation.ListQuery
	if ok, err := bindValid(c, &q); !ok {
		return err
	}
	page, err := h.uc.List(c.Request().Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *CirculationHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	dto, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *CirculationHandler) Overdue(c echo.Context) error {
	rows, err := h.uc.Overdue(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *CirculationHandler) Fines(c echo.Context) error {
	rep, err := h.uc.Fines(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *CirculationHandler) Summary(c echo.Context) error {
	s, err := h.uc.Summary(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *CirculationHandler) Log(c echo.Context) error {
	var q circulation.LogQuery
	if ok, err := bindValid(c, &q); !ok {
		return err
	}
	out, err := h.uc.Log(c.Request().Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CirculationHandler) ExportLog(c echo.Context) error {
	var q circulation.LogQuery
	if ok, err := bindValid(c, &q); !ok {
		return err
	}
	return sendCSV(c, func(w io.Writer) (string, error) {
		return h.uc.ExportLog(c.Request().Context(), q, w)
	})
}

func (h *CirculationHandler) ExportSummary(c echo.Context) error {
	return sendCSV(c, func(w io.Writer) (string, error) {
		return h.uc.ExportSummary(c.Request().Context(), w)
	})
}
