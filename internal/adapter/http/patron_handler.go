package http

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"library-circulation/internal/adapter/middleware"
	"library-circulation/internal/domain/patron"
	"library-circulation/internal/usecase/backup"
	"library-circulation/internal/usecase/circulation"
	"library-circulation/internal/usecase/roster"
)

type PatronHandler struct {
	roster      *roster.Usecase
	circulation *circulation.Usecase
	backup      *backup.Usecase
}

func NewPatronHandler(rs *roster.Usecase, circ *circulation.Usecase, bk *backup.Usecase) *PatronHandler {
	return &PatronHandler{roster: rs, circulation: circ, backup: bk}
}

// Save adds or edits a patron by roll number; a new form entry starts pending.
func (h *PatronHandler) Save(c echo.Context) error {
	var req roster.PatronInput
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	p, created, err := h.roster.Upsert(c.Request().Context(), req, roster.SourceForm)
	if err != nil {
		return respondError(c, err)
	}
	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	return c.JSON(code, p)
}

func (h *PatronHandler) List(c echo.Context) error {
	var q roster.PatronQuery
	if ok, err := bindValid(c, &q); !ok {
		return err
	}
	page, err := h.roster.List(c.Request().Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *PatronHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	p, err := h.roster.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PatronHandler) Approve(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	a, _ := middleware.ActorFrom(c)
	p, err := h.roster.Approve(c.Request().Context(), id, a.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PatronHandler) SetStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req statusReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	p, err := h.roster.SetStatus(c.Request().Context(), id, patron.Status(req.Status))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PatronHandler) ResetPassword(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	a, _ := middleware.ActorFrom(c)
	p, err := h.roster.ResetPassword(c.Request().Context(), id, a.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PatronHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	res, err := h.circulation.DeletePatron(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *PatronHandler) History(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	rows, err := h.circulation.History(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *PatronHandler) ExportHistory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	return sendCSV(c, func(w io.Writer) (string, error) {
		return h.circulation.ExportHistory(c.Request().Context(), id, w)
	})
}

func (h *PatronHandler) Import(c echo.Context) error {
	return importUpload(c, h.backup, backup.TypePatrons)
}
