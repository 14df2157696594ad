package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"library-circulation/internal/adapter/csvfile"
	"library-circulation/internal/domain/book"
	"library-circulation/internal/domain/category"
	"library-circulation/internal/domain/patron"
	"library-circulation/internal/domain/setting"
	"library-circulation/internal/domain/transaction"
	"library-circulation/internal/domain/user"
	"library-circulation/internal/usecase/auth"
	"library-circulation/internal/usecase/backup"
	"library-circulation/internal/usecase/catalog"
	"library-circulation/internal/usecase/circulation"
	"library-circulation/internal/usecase/roster"
	"library-circulation/internal/usecase/settings"
)

var errBadID = errors.New("id must be a positive integer")

var (
	notFound = []error{book.ErrNotFound, patron.ErrNotFound, transaction.ErrNotFound, category.ErrNotFound, user.ErrNotFound}
	conflict = []error{book.ErrIssued, book.ErrDuplicateAccession, patron.ErrDuplicateRollNo,
		transaction.ErrDuplicateReference, user.ErrDuplicateUsername, roster.ErrNotPending}
	badInput = []error{errBadID, settings.ErrInvalidValue, setting.ErrUnknownKey, catalog.ErrInvalidStatus,
		roster.ErrInvalidStatus, category.ErrNameEmpty, auth.ErrSamePassword, backup.ErrInvalidManifest, csvfile.ErrEmptyFile,
		circulation.ErrBadRange, backup.ErrUnknownType, backup.ErrRestoreOnly, csvfile.ErrWriteOnly}
	unauthorized = []error{user.ErrBadCredentials, patron.ErrBadCredentials}
)

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// respondError maps use-case errors onto status codes; anything unknown is a 500.
func respondError(c echo.Context, err error) error {
	var (
		pe      *circulation.PolicyError
		ve      validator.ValidationErrors
		missing *csvfile.MissingColumnsError
	)
	switch {
	case errors.As(err, &pe):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: pe.Message, Code: pe.Code})
	case errors.As(err, &ve):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	case errors.As(err, &missing):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: missing.Error()})
	case isAny(err, notFound), errors.Is(err, fs.ErrNotExist):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case isAny(err, conflict):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case isAny(err, badInput):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case isAny(err, unauthorized):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case errors.Is(err, patron.ErrNotActive):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	}
	log.Printf("http: %s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// bindValid binds and validates req. When it reports false the error response
// has already been written and its write error is returned.
func bindValid(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

// sendCSV renders write into memory first so a failure still gets a JSON error.
func sendCSV(c echo.Context, write func(io.Writer) (string, error)) error {
	var buf bytes.Buffer
	name, err := write(&buf)
	if err != nil {
		return respondError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errBadID
	}
	return id, nil
}
