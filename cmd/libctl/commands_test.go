package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"library-circulation/internal/app"
	"library-circulation/internal/domain/user"
	"library-circulation/internal/testutil/dbtest"
	"library-circulation/pkg/password"
)

func init() { password.Cost = bcrypt.MinCost }

// setup points libctl at one in-memory database for the whole test.
func setup(t *testing.T) (*app.App, func(args ...string) (string, error)) {
	t.Helper()
	a := app.New(dbtest.Open(t), app.Options{JWTSecret: "x", BackupDir: t.TempDir()})
	prevOpen, prevRead := openApp, readPassword
	openApp = func(context.Context) (*app.App, error) { return a, nil }
	readPassword = func(string) (string, error) { return "correct-horse", nil }
	t.Cleanup(func() { openApp, readPassword = prevOpen, prevRead })

	return a, func(args ...string) (string, error) {
		var out bytes.Buffer
		cmd := newRootCmd()
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(args)
		err := cmd.ExecuteContext(context.Background())
		return out.String(), err
	}
}

func TestCreateUser(t *testing.T) {
	a, run := setup(t)
	out, err := run("create-user", "alice", "--role", "admin", "--email", "alice@example.com")
	if err != nil {
		t.Fatalf("create-user: %v\n%s", err, out)
	}
	if !strings.Contains(out, "created admin alice") {
		t.Fatalf("output = %q", out)
	}
	var u user.User
	a.DB.Where("username = ?", "alice").First(&u)
	if !password.Matches(u.PasswordHash, "correct-horse") || u.Role != user.RoleAdmin {
		t.Fatalf("stored user = %+v", u)
	}

	if _, err := run("create-user", "bob", "--role", "patron"); err == nil {
		t.Fatal("patron role must be rejected")
	}
}

func TestImportBackupRestore(t *testing.T) {
	a, run := setup(t)
	csv := filepath.Join(t.TempDir(), "books.csv")
	if err := os.WriteFile(csv, []byte("accession_number,title,author\nK-1,Emma,Austen\nK-2,,Nobody\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := run("import", "books", csv)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "created=1") || !strings.Contains(out, `"key":"K-2"`) {
		t.Fatalf("import output = %q", out)
	}
	if _, err := run("import", "transactions", csv); err == nil {
		t.Fatal("transactions upload must be refused")
	}

	out, err = run("backup")
	if err != nil {
		t.Fatalf("backup: %v", err)
	}
	entries, _ := filepath.Glob(filepath.Join(a.Backup.Dir(), "system_backup_manifest_*.json"))
	if len(entries) != 1 {
		t.Fatalf("manifests = %v (%s)", entries, out)
	}

	out, err = run("restore", entries[0])
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !strings.Contains(out, "books        total=1 created=0 updated=1 errors=0") {
		t.Fatalf("restore output = %q", out)
	}
}

func TestMigrateAndSeed(t *testing.T) {
	_, run := setup(t)
	out, err := run("migrate")
	if err != nil || !strings.Contains(out, "up to date") {
		t.Fatalf("migrate: %v %q", err, out)
	}
	out, err = run("seed")
	if err != nil || !strings.Contains(out, "seeded 9 settings") {
		t.Fatalf("first seed: %v %q", err, out)
	}
	out, _ = run("seed")
	if !strings.Contains(out, "seeded 0 settings") {
		t.Fatalf("second seed: %q", out)
	}
}
