package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func setupProviders(t *testing.T) map[string]Provider {
	t.Helper()
	dir := t.TempDir()

	providers := map[string]Provider{
		"json":   NewJSONStore(filepath.Join(dir, "studyline.json")),
		"sqlite": NewSQLiteStore(filepath.Join(dir, "studyline.db")),
	}
	for name, p := range providers {
		if err := p.Init(); err != nil {
			t.Fatalf("%s: failed to init store: %v", name, err)
		}
		if err := p.Load(); err != nil {
			t.Fatalf("%s: failed to load store: %v", name, err)
		}
		p := p
		t.Cleanup(func() { _ = p.Close() })
	}
	return providers
}

func TestProviderGetPut(t *testing.T) {
	for name, p := range setupProviders(t) {
		t.Run(name, func(t *testing.T) {
			data, ok, err := p.Get(Key("streak", "default"))
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if ok || data != nil {
				t.Fatalf("expected cold start, got ok=%v data=%s", ok, data)
			}

			if err := p.Put(Key("streak", "default"), []byte(`{"current_streak":1}`)); err != nil {
				t.Fatalf("Put failed: %v", err)
			}
			if err := p.Put(Key("streak", "default"), []byte(`{"current_streak":2}`)); err != nil {
				t.Fatalf("Put (overwrite) failed: %v", err)
			}

			data, ok, err = p.Get(Key("streak", "default"))
			if err != nil || !ok {
				t.Fatalf("Get after Put: ok=%v err=%v", ok, err)
			}
			if string(data) != `{"current_streak":2}` {
				t.Errorf("unexpected value %s", data)
			}
		})
	}
}

func TestProviderKeys(t *testing.T) {
	for name, p := range setupProviders(t) {
		t.Run(name, func(t *testing.T) {
			for _, k := range []string{"progress/bio", "progress/chem", "streak/default", "progressive/x"} {
				if err := p.Put(k, []byte(`{}`)); err != nil {
					t.Fatalf("Put %s failed: %v", k, err)
				}
			}

			keys, err := p.Keys("progress/")
			if err != nil {
				t.Fatalf("Keys failed: %v", err)
			}
			want := []string{"progress/bio", "progress/chem"}
			if !reflect.DeepEqual(keys, want) {
				t.Errorf("Keys() = %v, want %v", keys, want)
			}
		})
	}
}

func TestProviderPersistsAcrossReload(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		open func() Provider
	}{
		{"json", func() Provider { return NewJSONStore(filepath.Join(dir, "s.json")) }},
		{"sqlite", func() Provider { return NewSQLiteStore(filepath.Join(dir, "s.db")) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.open()
			if err := p.Init(); err != nil {
				t.Fatalf("Init failed: %v", err)
			}
			if err := p.Load(); err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if err := p.Put("challenge/default", []byte(`{"streak":4}`)); err != nil {
				t.Fatalf("Put failed: %v", err)
			}
			_ = p.Close()

			reopened := tt.open()
			if err := reopened.Load(); err != nil {
				t.Fatalf("reload failed: %v", err)
			}
			defer reopened.Close()

			data, ok, err := reopened.Get("challenge/default")
			if err != nil || !ok {
				t.Fatalf("Get after reload: ok=%v err=%v", ok, err)
			}
			if string(data) != `{"streak":4}` {
				t.Errorf("unexpected value %s", data)
			}
		})
	}
}

func TestLoadUninitialized(t *testing.T) {
	dir := t.TempDir()
	for name, p := range map[string]Provider{
		"json":   NewJSONStore(filepath.Join(dir, "missing.json")),
		"sqlite": NewSQLiteStore(filepath.Join(dir, "missing.db")),
	} {
		t.Run(name, func(t *testing.T) {
			if err := p.Load(); err == nil {
				t.Error("expected error loading uninitialized store")
			}
		})
	}
}

func TestJSONStoreInitTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studyline.json")
	if err := NewJSONStore(path).Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := NewJSONStore(path).Init(); err == nil {
		t.Error("expected error initializing an existing store")
	}
}

func TestJSONStoreRejectsInvalidJSON(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "studyline.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := store.Put("streak/default", []byte("not json")); err == nil {
		t.Error("expected error for invalid JSON value")
	}
}

func TestJSONStoreFailedSaveRollsBack(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}

	dir := filepath.Join(t.TempDir(), "store")
	store := NewJSONStore(filepath.Join(dir, "studyline.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := store.Put("streak/default", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if err := os.Chmod(dir, 0500); err != nil {
		t.Fatalf("chmod failed: %v", err)
	}
	defer os.Chmod(dir, 0700)

	if err := store.Put("streak/default", []byte(`{"v":2}`)); err == nil {
		t.Fatal("expected Put to fail on a read-only directory")
	}
	if err := store.Put("streak/other", []byte(`{"v":3}`)); err == nil {
		t.Fatal("expected Put to fail on a read-only directory")
	}

	data, _, _ := store.Get("streak/default")
	if string(data) != `{"v":1}` {
		t.Errorf("in-memory value diverged from disk: %s", data)
	}
	if _, ok, _ := store.Get("streak/other"); ok {
		t.Error("failed insert should not be visible")
	}

	reloaded := NewJSONStore(filepath.Join(dir, "studyline.json"))
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	data, _, _ = reloaded.Get("streak/default")
	if string(data) != `{"v":1}` {
		t.Errorf("file on disk changed: %s", data)
	}
}

func TestSplitKey(t *testing.T) {
	ns, id := SplitKey(Key("progress", "bio/unit-1"))
	if ns != "progress" || id != "bio/unit-1" {
		t.Errorf("SplitKey() = %q, %q", ns, id)
	}
}
