package keymap

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/dshills/canvaskeys/internal/action"
	"github.com/dshills/canvaskeys/internal/store"
)

func TestLegacyMigrationUpgradesStrings(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	_ = st.Set(ctx, LegacyStorageKey, []byte(`{"zoomIn":"+"}`))

	r := newTestRegistry(t, st)
	m, err := r.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(m[action.ZoomIn], []string{"+"}) {
		t.Errorf("Load()[zoomIn] = %v, want [+]", m[action.ZoomIn])
	}

	if _, ok, _ := st.Get(ctx, LegacyStorageKey); ok {
		t.Error("legacy key not cleared")
	}
	if got := stored(t, r, st)[action.ZoomIn]; !reflect.DeepEqual(got, []string{"+"}) {
		t.Errorf("persisted zoomIn = %v, want [+]", got)
	}
}

func TestOldestKeyRenamedThenPromoted(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	_ = st.Set(ctx, OldestStorageKey, []byte(`{"eraser":"q","opacity":["b","n"]}`))

	r := newTestRegistry(t, st)
	m, err := r.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !reflect.DeepEqual(m[action.Eraser], []string{"q"}) {
		t.Errorf("eraser = %v, want [q]", m[action.Eraser])
	}
	if !reflect.DeepEqual(m[action.Opacity], []string{"b", "n"}) {
		t.Errorf("opacity = %v, want [b n]", m[action.Opacity])
	}
	for _, k := range []string{OldestStorageKey, LegacyStorageKey} {
		if _, ok, _ := st.Get(ctx, k); ok {
			t.Errorf("%s not cleared", k)
		}
	}
}

func TestMigrationsKeepNewerData(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	_ = st.Set(ctx, OldestStorageKey, []byte(`{"eraser":"1"}`))
	_ = st.Set(ctx, LegacyStorageKey, []byte(`{"eraser":"2"}`))
	_ = st.Set(ctx, StorageKey, []byte(`{"eraser":["3"]}`))

	applied, err := RunMigrations(ctx, st, DefaultMigrations())
	if err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}
	if len(applied) != 2 {
		t.Errorf("applied = %v, want both migrations", applied)
	}

	v, _, _ := st.Get(ctx, StorageKey)
	if string(v) != `{"eraser":["3"]}` {
		t.Errorf("current map = %s, want untouched", v)
	}
}

func TestRunMigrationsNothingToDo(t *testing.T) {
	applied, err := RunMigrations(context.Background(), store.NewMemoryStore(), DefaultMigrations())
	if err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}
	if len(applied) != 0 {
		t.Errorf("applied = %v, want none", applied)
	}
}

func TestRunMigrationsStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	ran := false
	migrations := []Migration{
		{Name: "first", Apply: func(context.Context, store.Store) (bool, error) { return false, boom }},
		{Name: "second", Apply: func(context.Context, store.Store) (bool, error) { ran = true; return true, nil }},
	}

	_, err := RunMigrations(context.Background(), store.NewMemoryStore(), migrations)
	var merr *MigrationError
	if !errors.As(err, &merr) || merr.Migration != "first" {
		t.Fatalf("RunMigrations() error = %v, want MigrationError for first", err)
	}
	if !errors.Is(err, boom) {
		t.Error("MigrationError does not unwrap to cause")
	}
	if ran {
		t.Error("migration after failure ran")
	}
}

func TestUpgradeLegacy(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		want     string
		upgraded int
		wantErr  bool
	}{
		{"single string", `{"zoomIn":"+"}`, `{"zoomIn":["+"]}`, 1, false},
		{"mixed", `{"a":"x","b":["y"]}`, `{"a":["x"],"b":["y"]}`, 1, false},
		{"dotted id", `{"a.b":"x"}`, `{"a.b":["x"]}`, 1, false},
		{"nothing to do", `{"b":["y"]}`, `{"b":["y"]}`, 0, false},
		{"not an object", `"x"`, "", 0, true},
		{"invalid", `{`, "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, n, err := upgradeLegacy([]byte(tt.in))
			if (err != nil) != tt.wantErr {
				t.Fatalf("upgradeLegacy() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrCorrupt) {
					t.Errorf("error = %v, want ErrCorrupt", err)
				}
				return
			}
			if string(out) != tt.want {
				t.Errorf("upgradeLegacy() = %s, want %s", out, tt.want)
			}
			if n != tt.upgraded {
				t.Errorf("upgraded = %d, want %d", n, tt.upgraded)
			}
		})
	}
}

func TestDecodeSkipsMalformedEntries(t *testing.T) {
	res, err := decode([]byte(`{"a":["x",1,"y"],"b":null,"c":"z"}`))
	if err != nil {
		t.Fatalf("decode() error = %v", err)
	}
	if !reflect.DeepEqual(res.Bindings["a"], []string{"x", "y"}) {
		t.Errorf("a = %v, want [x y]", res.Bindings["a"])
	}
	if _, ok := res.Bindings["b"]; ok {
		t.Error("null entry decoded")
	}
	if !reflect.DeepEqual(res.Skipped, []string{"b"}) {
		t.Errorf("Skipped = %v, want [b]", res.Skipped)
	}
	if !reflect.DeepEqual(res.Upgraded, []string{"c"}) {
		t.Errorf("Upgraded = %v, want [c]", res.Upgraded)
	}
}
