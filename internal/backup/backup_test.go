package backup

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/studyline/internal/storage"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "studyline.db")

	store := storage.NewSQLiteStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	if err := store.Put("streak/default", []byte(`{"current":3}`)); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("failed to close store: %v", err)
	}
	return dbPath
}

func readValue(t *testing.T, dbPath, key string) string {
	t.Helper()
	store := storage.NewSQLiteStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}
	defer store.Close()

	data, ok, err := store.Get(key)
	if err != nil {
		t.Fatalf("Get(%q) failed: %v", key, err)
	}
	if !ok {
		return ""
	}
	return string(data)
}

func stepClock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		t := now
		now = now.Add(time.Minute)
		return t
	}
}

func TestCreate(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, WithClock(func() time.Time {
		return time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	}))

	info, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if info.Name != "studyline-20250304-050607.db" {
		t.Errorf("Name = %q", info.Name)
	}
	if info.Size == 0 {
		t.Error("backup should not be empty")
	}
	if got := readValue(t, info.Path, "streak/default"); got != `{"current":3}` {
		t.Errorf("backup content = %q", got)
	}
}

func TestCreateSameSecond(t *testing.T) {
	dbPath := setupTestDB(t)
	fixed := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	mgr := NewManager(dbPath, WithClock(func() time.Time { return fixed }))

	first, err := mgr.Create()
	if err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	second, err := mgr.Create()
	if err != nil {
		t.Fatalf("second Create failed: %v", err)
	}
	if first.Path == second.Path {
		t.Fatal("backups in the same second must not collide")
	}
	if second.Name != "studyline-20250304-050607-1.db" {
		t.Errorf("second Name = %q", second.Name)
	}

	list, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("List returned %d backups, want 2", len(list))
	}
}

func TestCreateMissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(); err == nil {
		t.Error("Create should fail when the database does not exist")
	}
}

func TestCreateRejectsForeignDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "other.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if _, err := db.Exec("CREATE TABLE notes (id INTEGER PRIMARY KEY)"); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	db.Close()

	_, err = NewManager(dbPath).Create()
	if !errors.Is(err, ErrNotStudylineDB) {
		t.Errorf("Create = %v, want ErrNotStudylineDB", err)
	}
}

func TestRotation(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath,
		WithRetention(3),
		WithClock(stepClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))),
	)

	var created []Info
	for i := 0; i < 5; i++ {
		info, err := mgr.Create()
		if err != nil {
			t.Fatalf("Create #%d failed: %v", i, err)
		}
		created = append(created, info)
	}

	list, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("List returned %d backups, want 3", len(list))
	}
	for i, want := range []Info{created[4], created[3], created[2]} {
		if list[i].Name != want.Name {
			t.Errorf("list[%d] = %s, want %s", i, list[i].Name, want.Name)
		}
	}
	if _, err := os.Stat(created[0].Path); !os.IsNotExist(err) {
		t.Error("oldest backup should have been rotated out")
	}
}

func TestListIgnoresUnrelatedFiles(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	if err := os.MkdirAll(mgr.Dir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "studyline-garbage.db", "studyline-20250101-000000x.db"} {
		if err := os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	list, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("List returned %v, want none", list)
	}
}

func TestListMissingDir(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "studyline.db"))
	list, err := mgr.List()
	if err != nil || len(list) != 0 {
		t.Errorf("List = (%v, %v), want empty", list, err)
	}
}

func TestRestore(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, WithClock(stepClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))))

	snap, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	store := storage.NewSQLiteStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := store.Put("streak/default", []byte(`{"current":0}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	store.Close()

	safety, err := mgr.Restore(mgr.Resolve(snap.Name))
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if safety.Path == "" {
		t.Error("restore should back up the current database first")
	}
	if got := readValue(t, dbPath, "streak/default"); got != `{"current":3}` {
		t.Errorf("restored value = %q", got)
	}
	if got := readValue(t, safety.Path, "streak/default"); got != `{"current":0}` {
		t.Errorf("safety copy value = %q", got)
	}
}

func TestRestoreInvalid(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	if err := os.WriteFile(bogus, []byte("not a database"), 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(t.TempDir(), "nope.db")},
		{"not sqlite", bogus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := mgr.Restore(tt.path); err == nil {
				t.Error("Restore should fail")
			}
			if got := readValue(t, dbPath, "streak/default"); got != `{"current":3}` {
				t.Errorf("database changed after failed restore: %q", got)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	mgr := NewManager("/data/studyline.db")
	if got := mgr.Resolve("studyline-20250101-000000.db"); got != filepath.Join("/data", "backups", "studyline-20250101-000000.db") {
		t.Errorf("Resolve(name) = %q", got)
	}
	if got := mgr.Resolve("/tmp/x.db"); got != "/tmp/x.db" {
		t.Errorf("Resolve(path) = %q", got)
	}
}

func TestListOrdersCollisionsNewestFirst(t *testing.T) {
	dbPath := setupTestDB(t)
	fixed := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	mgr := NewManager(dbPath, WithClock(func() time.Time { return fixed }))

	for i := 0; i < 3; i++ {
		if _, err := mgr.Create(); err != nil {
			t.Fatalf("Create #%d failed: %v", i, err)
		}
	}
	list, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []string{"studyline-20250304-050607-2.db", "studyline-20250304-050607-1.db", "studyline-20250304-050607.db"}
	for i, name := range want {
		if list[i].Name != name {
			t.Errorf("list[%d] = %s, want %s", i, list[i].Name, name)
		}
	}
}
