package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	mdwerror "github.com/msto63/fmwkit/foundation/core/error"
)

type schedule struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func stores(t *testing.T) map[string]Store {
	t.Helper()

	fs, err := NewFileStore(filepath.Join(t.TempDir(), "files"))
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	sq, err := NewSQLiteStore(SQLiteConfig{Path: filepath.Join(t.TempDir(), "db", "cache.db")})
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { sq.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
		"sqlite": sq,
	}
}

func TestKey(t *testing.T) {
	loc := time.FixedZone("PST", -8*3600)
	k := NewKey("fme_schedules", time.Date(2026, 10, 14, 23, 30, 0, 0, loc))

	if got := k.String(); got != "fme_schedules_2026-10-14" {
		t.Errorf("String() = %q", got)
	}
	if k.Day.Location() != time.UTC || k.Day.Hour() != 0 {
		t.Errorf("Day = %v, want midnight UTC", k.Day)
	}

	parsed, err := ParseKey(k.String())
	if err != nil {
		t.Fatalf("ParseKey() error = %v", err)
	}
	if parsed.Label != k.Label || !parsed.Day.Equal(k.Day) {
		t.Errorf("ParseKey() = %+v, want %+v", parsed, k)
	}

	for _, bad := range []string{"nolabel", "_2026-01-01", "label_notaday"} {
		if _, err := ParseKey(bad); err == nil {
			t.Errorf("ParseKey(%q) expected error", bad)
		}
	}
}

func TestStores_PutGet(t *testing.T) {
	ctx := context.Background()
	key := NewKey("prod", day("2026-10-14"))
	want := []schedule{{Name: "nightly", Enabled: true}, {Name: "weekly"}}

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			var got []schedule
			found, err := store.Get(ctx, key, &got)
			if err != nil || found {
				t.Fatalf("Get() on empty store = %v, %v", found, err)
			}

			if err := store.Put(ctx, key, want); err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			found, err = store.Get(ctx, key, &got)
			if err != nil || !found {
				t.Fatalf("Get() = %v, %v", found, err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Get() = %v, want %v", got, want)
			}

			replacement := []schedule{{Name: "hourly", Enabled: true}}
			if err := store.Put(ctx, key, replacement); err != nil {
				t.Fatalf("Put() replace error = %v", err)
			}
			got = nil
			if _, err := store.Get(ctx, key, &got); err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if !reflect.DeepEqual(got, replacement) {
				t.Errorf("Get() after replace = %v, want %v", got, replacement)
			}

			var other []schedule
			found, err = store.Get(ctx, NewKey("prod", day("2026-10-13")), &other)
			if err != nil || found {
				t.Errorf("Get() other day = %v, %v", found, err)
			}
		})
	}
}

func TestStores_Prune(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, d := range []string{"2026-10-01", "2026-10-10", "2026-10-14"} {
				if err := store.Put(ctx, NewKey("prod", day(d)), d); err != nil {
					t.Fatalf("Put(%s) error = %v", d, err)
				}
			}

			removed, err := store.Prune(ctx, day("2026-10-10"))
			if err != nil {
				t.Fatalf("Prune() error = %v", err)
			}
			if removed != 1 {
				t.Errorf("Prune() removed %d, want 1", removed)
			}

			var v string
			if found, _ := store.Get(ctx, NewKey("prod", day("2026-10-01")), &v); found {
				t.Error("pruned document still present")
			}
			if found, _ := store.Get(ctx, NewKey("prod", day("2026-10-10")), &v); !found || v != "2026-10-10" {
				t.Errorf("document on the cutoff day should stay, got %v %q", found, v)
			}
		})
	}
}

func TestStores_InvalidKey(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []Key{
				{Label: "", Day: day("2026-10-14")},
				{Label: "../escape", Day: day("2026-10-14")},
				{Label: "nodate"},
			} {
				err := store.Put(ctx, key, "x")
				if !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
					t.Errorf("Put(%+v) error = %v, want INVALID_INPUT", key, err)
				}
			}
		})
	}
}

func TestFileStore_Layout(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	key := NewKey("fme_prod", day("2026-10-14"))
	if err := fs.Put(context.Background(), key, map[string]int{"n": 1}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	want := filepath.Join(dir, "fme_prod_2026-10-14.json")
	if fs.Path(key) != want {
		t.Errorf("Path() = %q, want %q", fs.Path(key), want)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read %s: %v", want, err)
	}
	if string(data) != `{"n":1}` {
		t.Errorf("file content = %s", data)
	}

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := fs.Prune(context.Background(), day("2030-01-01")); err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "notes.txt")); err != nil {
		t.Error("Prune() removed a foreign file")
	}
}

func TestSQLiteStore_Labels(t *testing.T) {
	sq, err := NewSQLiteStore(SQLiteConfig{Path: filepath.Join(t.TempDir(), "cache.db")})
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer sq.Close()

	ctx := context.Background()
	for _, label := range []string{"test", "prod", "prod"} {
		if err := sq.Put(ctx, NewKey(label, day("2026-10-14")), label); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}
	labels, err := sq.Labels(ctx)
	if err != nil {
		t.Fatalf("Labels() error = %v", err)
	}
	if !reflect.DeepEqual(labels, []string{"prod", "test"}) {
		t.Errorf("Labels() = %v", labels)
	}
}

func TestReadThrough(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	key := NewKey("prod", day("2026-10-14"))

	calls := 0
	fetch := func(context.Context) (any, error) {
		calls++
		return []schedule{{Name: "nightly", Enabled: true}}, nil
	}

	var first []schedule
	hit, err := ReadThrough(ctx, store, key, &first, fetch)
	if err != nil || hit {
		t.Fatalf("first ReadThrough() = %v, %v", hit, err)
	}
	var second []schedule
	hit, err = ReadThrough(ctx, store, key, &second, fetch)
	if err != nil || !hit {
		t.Fatalf("second ReadThrough() = %v, %v", hit, err)
	}
	if calls != 1 {
		t.Errorf("fetch called %d times, want 1", calls)
	}
	if !reflect.DeepEqual(first, second) || len(first) != 1 || first[0].Name != "nightly" {
		t.Errorf("documents differ: %v vs %v", first, second)
	}

	hits, misses, rate := store.Stats()
	if hits != 1 || misses != 1 || rate != 50 {
		t.Errorf("Stats() = %d, %d, %v", hits, misses, rate)
	}
}

func TestReadThrough_FetchError(t *testing.T) {
	store := NewMemoryStore()
	boom := errors.New("server down")

	var out []schedule
	_, err := ReadThrough(context.Background(), store, NewKey("prod", day("2026-10-14")), &out,
		func(context.Context) (any, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Errorf("ReadThrough() error = %v, want %v", err, boom)
	}
	if store.Size() != 0 {
		t.Errorf("failed fetch was cached")
	}
}
