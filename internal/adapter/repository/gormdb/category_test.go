package gormdb

import (
	"context"
	"errors"
	"testing"

	"library-circulation/internal/domain/category"
	"library-circulation/internal/testutil/dbtest"
)

func TestCategoryRepository_CaseInsensitiveUpsert(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	repo := NewCategoryRepository(db)

	c := &category.Category{Name: "Fiction", Description: "novels", IsActive: true}
	created, err := repo.UpsertByName(ctx, c)
	if err != nil || !created {
		t.Fatalf("create: created=%v err=%v", created, err)
	}

	again := &category.Category{Name: "FICTION", Description: "prose", IsActive: false}
	created, err = repo.UpsertByName(ctx, again)
	if err != nil || created {
		t.Fatalf("update: created=%v err=%v", created, err)
	}
	if again.ID != c.ID {
		t.Fatalf("id changed %d -> %d", c.ID, again.ID)
	}

	got, err := repo.GetByName(ctx, " fiction ")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if got.Description != "prose" || got.IsActive {
		t.Fatalf("not updated in place: %+v", got)
	}
	if n, _ := repo.Count(ctx); n != 1 {
		t.Fatalf("count = %d", n)
	}

	if _, err := repo.UpsertByName(ctx, &category.Category{Name: "  "}); !errors.Is(err, category.ErrNameEmpty) {
		t.Fatalf("empty name: %v", err)
	}
}

func TestCategoryRepository_EnsureAndList(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	repo := NewCategoryRepository(db)

	a, err := repo.EnsureByName(ctx, "History")
	if err != nil {
		t.Fatalf("EnsureByName: %v", err)
	}
	b, err := repo.EnsureByName(ctx, "history")
	if err != nil || b.ID != a.ID {
		t.Fatalf("EnsureByName must reuse: %v %d/%d", err, a.ID, b.ID)
	}
	if _, err := repo.EnsureByName(ctx, "Art"); err != nil {
		t.Fatal(err)
	}
	if err := repo.SetActive(ctx, a.ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if err := repo.SetActive(ctx, 999, false); !errors.Is(err, category.ErrNotFound) {
		t.Fatalf("SetActive missing: %v", err)
	}

	active, _ := repo.List(ctx, true)
	if len(active) != 1 || active[0].Name != "Art" {
		t.Fatalf("active list = %+v", active)
	}
	all, _ := repo.List(ctx, false)
	if len(all) != 2 || all[0].Name != "Art" {
		t.Fatalf("full list = %+v", all)
	}
}
