package http

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"library-circulation/internal/usecase/backup"
	"library-circulation/internal/usecase/settings"
)

// AdminHandler serves settings and whole-system backup.
type AdminHandler struct {
	settings *settings.Store
	backup   *backup.Usecase
}

func NewAdminHandler(st *settings.Store, bk *backup.Usecase) *AdminHandler {
	return &AdminHandler{settings: st, backup: bk}
}

func (h *AdminHandler) GetSettings(c echo.Context) error {
	return c.JSON(http.StatusOK, h.settings.All())
}

func (h *AdminHandler) UpdateSettings(c echo.Context) error {
	var req map[string]any
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	out, err := h.settings.Update(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) Backup(c echo.Context) error {
	res, err := h.backup.Export(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

type restoreReq struct {
	// Manifest is a file name inside the backup directory.
	Manifest string `json:"manifest" validate:"required,max=255"`
}

func (h *AdminHandler) Restore(c echo.Context) error {
	var req restoreReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	name := strings.TrimSpace(req.Manifest)
	if name != filepath.Base(name) || name == "." || name == ".." {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "manifest must be a file name inside the backup directory"})
	}
	res, err := h.backup.Restore(c.Request().Context(), filepath.Join(h.backup.Dir(), name))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// ExportTable downloads one table in its backup layout.
func (h *AdminHandler) ExportTable(c echo.Context) error {
	return sendCSV(c, func(w io.Writer) (string, error) {
		return h.backup.ExportTable(c.Request().Context(), c.Param("table"), w)
	})
}

// importUpload feeds a multipart "file" field to a single-table import.
func importUpload(c echo.Context, bk *backup.Usecase, kind string) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing file field"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unreadable upload"})
	}
	defer f.Close()
	rep, err := bk.Import(c.Request().Context(), kind, f, backup.ModeUpload)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, rep)
}
