package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"library-circulation/internal/infrastructure/cache"
)

const healthTimeout = 2 * time.Second

// Handler serves /health. The database is required; Redis is reported but optional.
type Handler struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewHandler(db *gorm.DB, rdb *redis.Client) *Handler { return &Handler{db: db, rdb: rdb} }

type healthResponse struct {
	Status   string `json:"status"`
	Time     string `json:"time"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

func (h *Handler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	resp := healthResponse{
		Status:   "ok",
		Time:     time.Now().UTC().Format(time.RFC3339Nano),
		Database: "ok",
		Redis:    "ok",
	}
	code := http.StatusOK

	if err := h.pingDB(ctx); err != nil {
		resp.Status, resp.Database = "unavailable", err.Error()
		code = http.StatusServiceUnavailable
	}
	switch err := cache.Ping(ctx, h.rdb); {
	case errors.Is(err, cache.ErrDisabled):
		resp.Redis = "disabled"
	case err != nil:
		resp.Redis = err.Error()
		if code == http.StatusOK {
			resp.Status = "degraded"
		}
	}
	return c.JSON(code, resp)
}

func (h *Handler) pingDB(ctx context.Context) error {
	if h.db == nil {
		return errors.New("database not configured")
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
