package app

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"library-circulation/internal/adapter/repository/gormdb"
	"library-circulation/internal/domain/policy"
	"library-circulation/internal/usecase/auth"
	"library-circulation/internal/usecase/backup"
	"library-circulation/internal/usecase/catalog"
	"library-circulation/internal/usecase/circulation"
	"library-circulation/internal/usecase/opac"
	"library-circulation/internal/usecase/roster"
	"library-circulation/internal/usecase/settings"
)

type Options struct {
	JWTSecret string
	BackupDir string
	// Notifier is optional; nil keeps settings reloads local.
	Notifier settings.Notifier
	// Clock defaults to the system clock.
	Clock policy.Clock
}

// App holds the use cases shared by the API server and the CLI.
type App struct {
	DB          *gorm.DB
	Settings    *settings.Store
	Auth        *auth.Usecase
	Catalog     *catalog.Usecase
	Roster      *roster.Usecase
	Circulation *circulation.Usecase
	Opac        *opac.Usecase
	Backup      *backup.Usecase
}

func New(db *gorm.DB, o Options) *App {
	var (
		books      = gormdb.NewBookRepository(db)
		categories = gormdb.NewCategoryRepository(db)
		patrons    = gormdb.NewPatronRepository(db)
		txns       = gormdb.NewTransactionRepository(db)
		users      = gormdb.NewUserRepository(db)
		tx         = gormdb.NewGormUoW(db)
	)
	st := settings.NewStore(gormdb.NewSettingRepository(db), tx, o.Notifier)
	rs := roster.NewUsecase(patrons, tx, st)
	return &App{
		DB:          db,
		Settings:    st,
		Auth:        auth.NewUsecase(users, patrons, o.JWTSecret),
		Catalog:     catalog.NewUsecase(books, categories, tx),
		Roster:      rs,
		Circulation: circulation.NewUsecase(books, patrons, txns, tx, st, o.Clock),
		Opac:        opac.NewUsecase(books, categories, patrons, txns, st, o.Clock),
		Backup:      backup.NewUsecase(tx, rs, st, o.BackupDir),
	}
}

// Init seeds missing settings rows and loads the snapshot.
func (a *App) Init(ctx context.Context) error {
	n, err := a.Settings.Seed(ctx)
	if err != nil {
		return err
	}
	if err := a.Settings.Reload(ctx); err != nil {
		return fmt.Errorf("init settings: %w", err)
	}
	if n > 0 {
		log.Printf("app: seeded %d settings", n)
	}
	return nil
}
