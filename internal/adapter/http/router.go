package http

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"library-circulation/internal/adapter/middleware"
	"library-circulation/internal/app"
	"library-circulation/internal/domain/user"
)

type Handlers struct {
	Health      *Handler
	Auth        *AuthHandler
	Catalog     *CatalogHandler
	Patrons     *PatronHandler
	Circulation *CirculationHandler
	Admin       *AdminHandler
	Opac        *OpacHandler
}

// HandlersFor builds every handler over a; rdb may be nil.
func HandlersFor(a *app.App, rdb *redis.Client) Handlers {
	return Handlers{
		Health:      NewHandler(a.DB, rdb),
		Auth:        NewAuthHandler(a.Auth),
		Catalog:     NewCatalogHandler(a.Catalog, a.Circulation, a.Backup),
		Patrons:     NewPatronHandler(a.Roster, a.Circulation, a.Backup),
		Circulation: NewCirculationHandler(a.Circulation),
		Admin:       NewAdminHandler(a.Settings, a.Backup),
		Opac:        NewOpacHandler(a.Opac),
	}
}

type RouteConfig struct {
	Secret   []byte
	Redis    *redis.Client // nil disables idempotency keys
	IdempTTL time.Duration
}

// NewEcho returns an echo instance with the validator and the common middleware stack.
func NewEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()
	e.Use(
		echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: middleware.NewRequestID}),
		echomw.Logger(),
		echomw.Recover(),
		echomw.CORS(),
	)
	return e
}

func Register(e *echo.Echo, h Handlers, cfg RouteConfig) {
	e.GET("/health", h.Health.Health)

	api := e.Group("/api/v1")
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/patron/login", h.Auth.PatronLogin)

	opac := api.Group("/opac")
	opac.GET("/books", h.Opac.Search)
	opac.GET("/books/:id", h.Opac.Book)
	opac.GET("/categories", h.Opac.Categories)

	authed := middleware.RequireAuth(cfg.Secret)

	me := api.Group("/patron", authed, middleware.RequireRole(user.RolePatron))
	me.GET("/dashboard", h.Opac.Dashboard)
	me.POST("/password", h.Auth.ChangePassword)

	staff := api.Group("", authed, middleware.RequireRole(user.RoleAdmin, user.RoleLibrarian))

	staff.GET("/books", h.Catalog.ListBooks)
	staff.POST("/books", h.Catalog.SaveBook)
	staff.POST("/books/import", h.Catalog.ImportBooks)
	staff.GET("/books/:id", h.Catalog.GetBook)
	staff.PUT("/books/:id/status", h.Catalog.SetBookStatus)
	staff.DELETE("/books/:id", h.Catalog.DeleteBook)

	staff.GET("/categories", h.Catalog.ListCategories)
	staff.POST("/categories", h.Catalog.SaveCategory)
	staff.POST("/categories/:id/deactivate", h.Catalog.DeactivateCategory)
	staff.POST("/categories/:id/activate", h.Catalog.ActivateCategory)

	staff.GET("/patrons", h.Patrons.List)
	staff.POST("/patrons", h.Patrons.Save)
	staff.POST("/patrons/import", h.Patrons.Import)
	staff.GET("/patrons/:id", h.Patrons.Get)
	staff.POST("/patrons/:id/approve", h.Patrons.Approve)
	staff.PUT("/patrons/:id/status", h.Patrons.SetStatus)
	staff.POST("/patrons/:id/reset-password", h.Patrons.ResetPassword)
	staff.DELETE("/patrons/:id", h.Patrons.Delete)
	staff.GET("/patrons/:id/history", h.Patrons.History)
	staff.GET("/patrons/:id/history/export", h.Patrons.ExportHistory)

	circ := staff.Group("/circulation", middleware.Idempotency(cfg.Redis, cfg.IdempTTL))
	circ.POST("/issue", h.Circulation.Issue)
	circ.POST("/return", h.Circulation.Return)
	circ.POST("/transactions/:id/pay", h.Circulation.PayFine)
	circ.GET("/transactions", h.Circulation.List)
	circ.GET("/transactions/:id", h.Circulation.Get)
	circ.GET("/overdue", h.Circulation.Overdue)
	circ.GET("/fines", h.Circulation.Fines)
	circ.GET("/logs", h.Circulation.Log)
	circ.GET("/logs/export", h.Circulation.ExportLog)
	staff.GET("/reports/summary", h.Circulation.Summary)
	staff.GET("/reports/summary/export", h.Circulation.ExportSummary)

	staff.GET("/settings", h.Admin.GetSettings)
	staff.PUT("/settings", h.Admin.UpdateSettings)
	staff.POST("/backup", h.Admin.Backup)
	staff.POST("/restore", h.Admin.Restore)
	staff.GET("/export/:table", h.Admin.ExportTable)
}
