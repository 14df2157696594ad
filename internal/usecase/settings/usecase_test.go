package settings

import (
	"context"
	"errors"
	"sync"
	"testing"

	"library-circulation/internal/adapter/repository/gormdb"
	"library-circulation/internal/domain/setting"
	"library-circulation/internal/testutil/dbtest"
)

type fakeNotifier struct {
	mu        sync.Mutex
	published []string
	err       error
}

func (f *fakeNotifier) Publish(_ context.Context, msg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, msg)
	return f.err
}

func (f *fakeNotifier) Subscribe(ctx context.Context, fn func(string)) error {
	fn("fine_per_day")
	<-ctx.Done()
	return ctx.Err()
}

func newStore(t *testing.T, n Notifier) (*Store, *gormdb.SettingRepository) {
	t.Helper()
	db := dbtest.Open(t)
	repo := gormdb.NewSettingRepository(db)
	return NewStore(repo, gormdb.NewGormUoW(db), n), repo
}

func TestStore_DefaultsBeforeLoad(t *testing.T) {
	s, _ := newStore(t, nil)
	if got := s.Get(setting.KeyLibraryName); got != "Library" {
		t.Fatalf("library_name = %v", got)
	}
	if got := s.Get("student_due_days"); got != 14 {
		t.Fatalf("student_due_days = %v", got)
	}
	if s.Get("unknown") != nil {
		t.Fatal("unknown key must be nil")
	}
}

func TestStore_SeedReloadIdempotent(t *testing.T) {
	s, repo := newStore(t, nil)
	ctx := context.Background()
	n, err := s.Seed(ctx)
	if err != nil || n != len(setting.Defaults) {
		t.Fatalf("Seed: %d %v", n, err)
	}
	if n, _ := s.Seed(ctx); n != 0 {
		t.Fatalf("second Seed inserted %d", n)
	}
	rows, _ := repo.List(ctx)
	if len(rows) != len(setting.Defaults) {
		t.Fatalf("rows = %d", len(rows))
	}
	if err := s.Reload(ctx); err != nil {
		t.Fatal(err)
	}
	if got := s.Get("faculty_due_days"); got != 30 {
		t.Fatalf("faculty_due_days = %v", got)
	}
}

func TestStore_UpdateSwapsSnapshotAndNotifies(t *testing.T) {
	n := &fakeNotifier{}
	s, _ := newStore(t, n)
	ctx := context.Background()
	if _, err := s.Seed(ctx); err != nil {
		t.Fatal(err)
	}
	before := s.Snapshot()

	all, err := s.Update(ctx, map[string]any{
		"fine_per_day":     2.5,
		"student_due_days": float64(10),
		"library_name":     "Central",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if all["fine_per_day"] != 2.5 || all["student_due_days"] != 10 || all["library_name"] != "Central" {
		t.Fatalf("Update result = %v", all)
	}
	if before == s.Snapshot() {
		t.Fatal("snapshot pointer not swapped")
	}
	// the old snapshot is immutable
	if before.Int("student_due_days", 0) != 14 {
		t.Fatal("previous snapshot changed")
	}
	if len(n.published) != 1 || n.published[0] != "fine_per_day,library_name,student_due_days" {
		t.Fatalf("published = %v", n.published)
	}
}

func TestStore_UpdateRejectsBadValuesAtomically(t *testing.T) {
	s, _ := newStore(t, nil)
	ctx := context.Background()
	if _, err := s.Seed(ctx); err != nil {
		t.Fatal(err)
	}
	_ = s.Reload(ctx)

	cases := []map[string]any{
		{"student_due_days": "abc"},
		{"student_due_days": 0},
		{"staff_max_books": 2.5},
		{"fine_per_day": -1},
		{"library_name": ""},
		{"librarian_email": "not-an-email"},
	}
	for _, c := range cases {
		if _, err := s.Update(ctx, c); !errors.Is(err, ErrInvalidValue) {
			t.Fatalf("Update(%v) err = %v", c, err)
		}
	}
	if _, err := s.Update(ctx, map[string]any{"fine_per_day": 3, "nope": 1}); !errors.Is(err, setting.ErrUnknownKey) {
		t.Fatalf("unknown key err = %v", err)
	}
	if got := s.Get("fine_per_day"); got != 1.0 {
		t.Fatalf("rejected batch must not write, fine_per_day = %v", got)
	}
}

func TestStore_PublishFailureDoesNotFailUpdate(t *testing.T) {
	s, _ := newStore(t, &fakeNotifier{err: errors.New("redis down")})
	if _, err := s.Update(context.Background(), map[string]any{"fine_per_day": "1.25"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := s.Get("fine_per_day"); got != 1.25 {
		t.Fatalf("fine_per_day = %v", got)
	}
}

func TestStore_ListenReloads(t *testing.T) {
	s, repo := newStore(t, &fakeNotifier{})
	ctx, cancel := context.WithCancel(context.Background())
	row, _ := setting.Lookup("fine_per_day")
	r := row.Row()
	r.SettingValue = []byte(`4`)
	if _, err := repo.SeedMissing(ctx, []setting.Setting{r}); err != nil {
		t.Fatal(err)
	}
	cancel()
	if err := s.Listen(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Listen = %v", err)
	}
	// the notice arrived before cancel was observed
	if got := s.Get("fine_per_day"); got != 4.0 {
		t.Fatalf("fine_per_day = %v", got)
	}
}
