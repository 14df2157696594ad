package gormdb

import (
	"context"
	"errors"
	"testing"

	"library-circulation/internal/domain/setting"
	"library-circulation/internal/testutil/dbtest"
)

func TestSettingRepository_SeedPutGet(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	repo := NewSettingRepository(db)

	rows := make([]setting.Setting, 0, len(setting.Defaults))
	for _, d := range setting.Defaults {
		rows = append(rows, d.Row())
	}
	n, err := repo.SeedMissing(ctx, rows)
	if err != nil || n != len(setting.Defaults) {
		t.Fatalf("first seed: %d %v", n, err)
	}

	if err := repo.Put(ctx, setting.KeyFinePerDay, setting.JSONValue(`2.5`), ""); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// re-seed must not overwrite the edited value
	again := make([]setting.Setting, 0, len(setting.Defaults))
	for _, d := range setting.Defaults {
		again = append(again, d.Row())
	}
	if n, err := repo.SeedMissing(ctx, again); err != nil || n != 0 {
		t.Fatalf("second seed: %d %v", n, err)
	}

	got, err := repo.Get(ctx, setting.KeyFinePerDay)
	if err != nil {
		t.Fatal(err)
	}
	if string(got.SettingValue) != "2.5" {
		t.Fatalf("value = %s", got.SettingValue)
	}
	if got.Description == "" {
		t.Fatal("empty description must keep the seeded one")
	}

	if err := repo.Put(ctx, "custom_key", setting.JSONValue(`"x"`), "custom"); err != nil {
		t.Fatal(err)
	}
	all, _ := repo.List(ctx)
	if len(all) != len(setting.Defaults)+1 {
		t.Fatalf("List = %d rows", len(all))
	}
	if _, err := repo.Get(ctx, "nope"); !errors.Is(err, setting.ErrUnknownKey) {
		t.Fatalf("Get missing: %v", err)
	}
}

func TestSettingRepository_StoresValuesAsText(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	repo := NewSettingRepository(db)

	rows := make([]setting.Setting, 0, len(setting.Defaults))
	for _, d := range setting.Defaults {
		rows = append(rows, d.Row())
	}
	if _, err := repo.SeedMissing(ctx, rows); err != nil {
		t.Fatal(err)
	}
	if err := repo.Put(ctx, setting.KeyFinePerDay, setting.JSONValue(`2.5`), ""); err != nil {
		t.Fatal(err)
	}
	var types []string
	db.Raw("SELECT DISTINCT typeof(setting_value) FROM library_settings").Scan(&types)
	if len(types) != 1 || types[0] != "text" {
		t.Fatalf("stored types = %v", types)
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	snap := setting.NewSnapshot(all)
	if got := snap.Int(setting.DueDaysKey("student"), 0); got != 14 {
		t.Fatalf("student due days = %d", got)
	}
	if got := snap.All()[setting.KeyFinePerDay]; got != 2.5 {
		t.Fatalf("fine_per_day = %v", got)
	}
}
