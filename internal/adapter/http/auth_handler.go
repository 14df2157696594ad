package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"library-circulation/internal/adapter/middleware"
	"library-circulation/internal/usecase/auth"
)

type AuthHandler struct{ uc *auth.Usecase }

func NewAuthHandler(uc *auth.Usecase) *AuthHandler { return &AuthHandler{uc: uc} }

func (h *AuthHandler) Login(c echo.Context) error {
	var req auth.LoginInput
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Login(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AuthHandler) PatronLogin(c echo.Context) error {
	var req auth.PatronLoginInput
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	dto, err := h.uc.PatronLogin(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AuthHandler) ChangePassword(c echo.Context) error {
	a, _ := middleware.ActorFrom(c)
	var req auth.ChangePasswordInput
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	p, err := h.uc.ChangePatronPassword(c.Request().Context(), a.ID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}
