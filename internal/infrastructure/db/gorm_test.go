package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	gormLogger "gorm.io/gorm/logger"
)

func TestOpenGormWithDialector_Success(t *testing.T) {
	sqlDB, mock, err := sqlmock.New() // pings are not monitored
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer sqlDB.Close()

	dial := mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	})

	gdb, err := OpenGormWithDialector(dial)
	if err != nil {
		t.Fatalf("OpenGormWithDialector error: %v", err)
	}
	if gdb == nil {
		t.Fatalf("got nil gorm.DB")
	}
	if !gdb.Config.TranslateError {
		t.Fatal("TranslateError must be enabled for duplicate-key detection")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOpenGormWithDialector_PingFails(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer sqlDB.Close()

	mock.ExpectPing().WillReturnError(errors.New("no ping"))

	dial := mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	})

	gdb, err := OpenGormWithDialector(dial)
	if err == nil {
		t.Fatalf("expected error, got nil (gdb=%v)", gdb)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDialector(t *testing.T) {
	for driver, want := range map[string]string{"sqlite": "sqlite", "": "sqlite", "MySQL": "mysql", "postgres": "postgres"} {
		d, err := Dialector(driver, "dsn")
		if err != nil {
			t.Fatalf("Dialector(%q): %v", driver, err)
		}
		if d.Name() != want {
			t.Fatalf("Dialector(%q).Name() = %q, want %q", driver, d.Name(), want)
		}
	}
	if _, err := Dialector("oracle", "dsn"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestSqliteDSN(t *testing.T) {
	if got := sqliteDSN("lib.db"); got != "file:lib.db?_busy_timeout=5000&_foreign_keys=1" {
		t.Fatalf("sqliteDSN = %q", got)
	}
	for _, raw := range []string{":memory:", "file:x.db?cache=shared"} {
		if got := sqliteDSN(raw); got != raw {
			t.Fatalf("sqliteDSN(%q) = %q", raw, got)
		}
	}
}

func TestOpenGormAndMigrate_SqliteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.db")
	gdb, err := OpenGorm("sqlite", path, false)
	if err != nil {
		t.Fatalf("OpenGorm: %v", err)
	}
	if err := Migrate(gdb); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	for _, table := range []string{"category", "patrons", "books", "transactions", "library_settings", "users"} {
		if !gdb.Migrator().HasTable(table) {
			t.Fatalf("missing table %s", table)
		}
	}
	sqlDB, _ := gdb.DB()
	if got := sqlDB.Stats().MaxOpenConnections; got != 1 {
		t.Fatalf("sqlite MaxOpenConnections = %d, want 1", got)
	}
}

func TestLogger_LogModeCopies(t *testing.T) {
	l := NewLogger(false)
	if l.LogLevel != gormLogger.Warn {
		t.Fatalf("default level = %v", l.LogLevel)
	}
	v := l.LogMode(gormLogger.Info).(*Logger)
	if v.LogLevel != gormLogger.Info || l.LogLevel != gormLogger.Warn {
		t.Fatal("LogMode must not mutate the receiver")
	}
	// Silent traces never call fc
	s := l.LogMode(gormLogger.Silent)
	s.Trace(context.Background(), time.Now(), func() (string, int64) {
		t.Fatal("fc called at Silent level")
		return "", 0
	}, nil)
	if NewLogger(true).LogLevel != gormLogger.Info {
		t.Fatal("logSQL must enable Info level")
	}
}
