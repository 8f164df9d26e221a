package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// storeContract exercises the behaviour every backend shares.
func storeContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "keybinds"); err != nil || ok {
		t.Fatalf("Get(missing) = ok=%v err=%v, want absent", ok, err)
	}

	if err := s.Set(ctx, "keybinds", []byte(`{"zoomIn":["+"]}`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	v, ok, err := s.Get(ctx, "keybinds")
	if err != nil || !ok {
		t.Fatalf("Get() = ok=%v err=%v", ok, err)
	}
	if string(v) != `{"zoomIn":["+"]}` {
		t.Errorf("Get() = %s", v)
	}

	if err := s.Set(ctx, "keybinds", []byte(`{"zoomIn":["="]}`)); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}
	v, _, _ = s.Get(ctx, "keybinds")
	if string(v) != `{"zoomIn":["="]}` {
		t.Errorf("Get() after overwrite = %s", v)
	}

	if err := s.Delete(ctx, "keybinds"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete(ctx, "keybinds"); err != nil {
		t.Fatalf("Delete(missing) error = %v", err)
	}
	if _, ok, _ := s.Get(ctx, "keybinds"); ok {
		t.Error("Get() after Delete reported present")
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	storeContract(t, s)

	s.Close()
	if err := s.Set(context.Background(), "k", []byte(`1`)); !errors.Is(err, ErrClosed) {
		t.Errorf("Set() after Close error = %v, want ErrClosed", err)
	}
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	buf := []byte(`["a"]`)
	_ = s.Set(ctx, "k", buf)
	buf[2] = 'z'

	v, _, _ := s.Get(ctx, "k")
	if string(v) != `["a"]` {
		t.Errorf("Get() = %s, stored value aliased caller buffer", v)
	}
}

func TestCopyToMemoryDetachesFromSource(t *testing.T) {
	ctx := context.Background()
	src, err := NewFileStore(filepath.Join(t.TempDir(), "keybinds.json"))
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	defer src.Close()
	if err := src.Set(ctx, "keybinds", []byte(`{"zoomIn":["+"]}`)); err != nil {
		t.Fatal(err)
	}

	cp, err := CopyToMemory(ctx, src, "keybinds", "blueMarble_keybinds")
	if err != nil {
		t.Fatalf("CopyToMemory() error = %v", err)
	}
	if v, ok, _ := cp.Get(ctx, "keybinds"); !ok || string(v) != `{"zoomIn":["+"]}` {
		t.Errorf("copied keybinds = %s (ok=%v)", v, ok)
	}
	if _, ok, _ := cp.Get(ctx, "blueMarble_keybinds"); ok {
		t.Error("missing key present in the copy")
	}

	if err := cp.Set(ctx, "keybinds", []byte(`{}`)); err != nil {
		t.Fatal(err)
	}
	if v, _, _ := src.Get(ctx, "keybinds"); string(v) != `{"zoomIn":["+"]}` {
		t.Errorf("source changed to %s after writing the copy", v)
	}

	src.Close()
	if _, err := CopyToMemory(ctx, src, "keybinds"); err == nil {
		t.Error("CopyToMemory() from a closed store succeeded")
	}
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.json")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	storeContract(t, s)
}

func TestFileStoreRejectsInvalidJSON(t *testing.T) {
	s, _ := NewFileStore(filepath.Join(t.TempDir(), "store.json"))
	if err := s.Set(context.Background(), "k", []byte(`{not json`)); err == nil {
		t.Error("Set(invalid) error = nil")
	}
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	ctx := context.Background()

	a, _ := NewFileStore(path)
	if err := a.Set(ctx, "keybinds", []byte(`{"opacity":["v"]}`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	b, _ := NewFileStore(path)
	v, ok, err := b.Get(ctx, "keybinds")
	if err != nil || !ok {
		t.Fatalf("Get() = ok=%v err=%v", ok, err)
	}
	if string(v) != `{"opacity":["v"]}` {
		t.Errorf("Get() = %s", v)
	}
}

func TestFileStoreWatchSeesExternalWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	s, _ := NewFileStore(path)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Set(ctx, "keybinds", []byte(`{}`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	changed := make(chan struct{}, 1)
	onChange := func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}
	if err := s.Watch(ctx, onChange); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	if err := os.WriteFile(path, []byte(`{"keybinds":{"zoomOut":["_"]}}`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("onChange not called for external write")
	}

	deadline := time.Now().Add(3 * time.Second)
	for {
		v, _, _ := s.Get(ctx, "keybinds")
		if string(v) == `{"zoomOut":["_"]}` {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("Get() after external write = %s", v)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer s.Close()

	storeContract(t, s)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"default is memory", Options{}, false},
		{"memory", Options{Backend: BackendMemory}, false},
		{"file", Options{Backend: BackendFile, Path: filepath.Join(dir, "s.json")}, false},
		{"sqlite", Options{Backend: BackendSQLite, Path: filepath.Join(dir, "s.db")}, false},
		{"file without path", Options{Backend: BackendFile}, true},
		{"unknown", Options{Backend: "redis"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(ctx, tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if s != nil {
				s.Close()
			}
		})
	}
}
