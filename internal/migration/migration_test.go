package migration

import (
	"database/sql"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/julianstephens/studyline/migrations"
	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	return db, func() { _ = db.Close() }
}

func mapFS(files map[string]string) fstest.MapFS {
	m := fstest.MapFS{}
	for name, body := range files {
		m[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return m
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&n); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	return n == 1
}

func TestGetCurrentVersionFreshDatabase(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	runner := NewRunner(db, mapFS(nil))
	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}
}

func TestApplyMigrations(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	runner := NewRunner(db, mapFS(map[string]string{
		"001_kv.sql":    `CREATE TABLE kv (key TEXT PRIMARY KEY, value TEXT);`,
		"002_audit.sql": `CREATE TABLE audit (id INTEGER PRIMARY KEY, key TEXT);`,
		"README.md":     "ignored",
	}))

	var logs []string
	count, err := runner.ApplyMigrations(func(s string) { logs = append(logs, s) })
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 migrations applied, got %d", count)
	}
	if len(logs) == 0 {
		t.Error("expected progress messages")
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}
	for _, name := range []string{"kv", "audit"} {
		if !tableExists(t, db, name) {
			t.Errorf("%s table was not created", name)
		}
	}

	count, err = runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("second ApplyMigrations failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no-op on second run, got %d", count)
	}
}

func TestApplyMigrationsIncremental(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	files := mapFS(map[string]string{
		"001_kv.sql": `CREATE TABLE kv (key TEXT PRIMARY KEY);`,
	})
	runner := NewRunner(db, files)
	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}

	files["002_more.sql"] = &fstest.MapFile{Data: []byte(`CREATE TABLE more (id INTEGER);`)}
	count, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 migration applied, got %d", count)
	}
}

func TestMigrationRollbackOnError(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	runner := NewRunner(db, mapFS(map[string]string{
		"001_broken.sql": `
			CREATE TABLE kv (key TEXT PRIMARY KEY);
			NOT A STATEMENT;
		`,
	}))

	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Fatal("ApplyMigrations should have failed")
	}
	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0 after failed migration, got %d", version)
	}
	if tableExists(t, db, "kv") {
		t.Error("table should not exist after rollback")
	}
}

func TestValidateVersionNewerDatabase(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	runner := NewRunner(db, mapFS(map[string]string{
		"001_kv.sql": `CREATE TABLE kv (key TEXT);`,
	}))
	if err := runner.SetVersion(7); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	if err := runner.ValidateVersion(); err == nil {
		t.Error("ValidateVersion should fail when the database is ahead")
	}
	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Error("ApplyMigrations should fail when the database is ahead")
	}
}

func TestReadMigrationFiles(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		wantErr string
		latest  int
	}{
		{
			name: "sorted by version",
			files: map[string]string{
				"003_c.sql": "SELECT 1;",
				"001_a.sql": "SELECT 1;",
				"002_b.sql": "SELECT 1;",
			},
			latest: 3,
		},
		{
			name:    "missing underscore",
			files:   map[string]string{"001init.sql": "SELECT 1;"},
			wantErr: "invalid migration filename format",
		},
		{
			name:    "zero version",
			files:   map[string]string{"000_init.sql": "SELECT 1;"},
			wantErr: "version must be at least 1",
		},
		{
			name: "duplicate version",
			files: map[string]string{
				"001_a.sql": "SELECT 1;",
				"001_b.sql": "SELECT 1;",
			},
			wantErr: "duplicate migration version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, cleanup := setupTestDB(t)
			defer cleanup()

			runner := NewRunner(db, mapFS(tt.files))
			latest, err := runner.GetLatestVersion()
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if latest != tt.latest {
				t.Errorf("expected latest %d, got %d", tt.latest, latest)
			}
		})
	}
}

func TestEmbeddedSQLiteMigrations(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	sub, err := fsSub(t, "sqlite")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	runner := NewRunner(db, sub)
	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("embedded migrations failed: %v", err)
	}
	if !tableExists(t, db, "kv") {
		t.Error("kv table was not created by embedded migrations")
	}
}

func fsSub(t *testing.T, dir string) (fs.FS, error) {
	t.Helper()
	return fs.Sub(migrations.FS, dir)
}
