package saves

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/napolitain/hamlet/internal/models"
)

func sampleState() *models.GameState {
	s := models.DefaultCatalog().NewGameState()
	s.Player.Name = "Tester"
	s.Player.Level = 3
	s.Player.Exp = 12.5
	s.Resources[models.Wood].Stored = 12.34
	s.Resources[models.Wood].IsAutoSelling = true
	s.Resources[models.Gold].Stored = 1234.56
	s.Buildings[models.Woodcutter].Amount = 2
	s.Buildings[models.Woodcutter].CostValues[models.Wood] = models.ScalingPair{Base: 10, Current: 11.45}
	return s
}

// exerciseStore runs the behaviour every Store must share
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Load(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := store.Save(ctx, "../escape", sampleState()); !errors.Is(err, ErrInvalidSlot) {
		t.Fatalf("Save(../escape) error = %v, want ErrInvalidSlot", err)
	}

	state := sampleState()
	first, err := store.Save(ctx, "slot-b", state)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if first.Revision == "" || first.SavedAt.IsZero() {
		t.Errorf("Save() snapshot = %+v, want revision and timestamp", first)
	}

	loaded, err := store.Load(ctx, "slot-b")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Revision != first.Revision {
		t.Errorf("Revision = %q, want %q", loaded.Revision, first.Revision)
	}
	if !loaded.SavedAt.Equal(first.SavedAt) {
		t.Errorf("SavedAt = %v, want %v", loaded.SavedAt, first.SavedAt)
	}
	if !reflect.DeepEqual(loaded.State, state) {
		t.Errorf("loaded state differs from saved state\n got: %+v\nwant: %+v", loaded.State.Player, state.Player)
	}

	loaded.State.Resources[models.Wood].Stored = 99
	again, err := store.Load(ctx, "slot-b")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := again.State.Stored(models.Wood); got != 12.34 {
		t.Errorf("Wood after editing a loaded copy = %v, want 12.34", got)
	}

	second, err := store.Save(ctx, "slot-b", state)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if second.Revision == first.Revision {
		t.Error("re-save kept the same revision")
	}

	if _, err := store.Save(ctx, models.DefaultAutoSaveKey, state); err != nil {
		t.Fatalf("Save(autoSave) error = %v", err)
	}
	slots, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{models.DefaultAutoSaveKey, "slot-b"}
	if !reflect.DeepEqual(slots, want) {
		t.Errorf("List() = %v, want %v", slots, want)
	}
}

func TestValidateSlot(t *testing.T) {
	tests := []struct {
		slot string
		ok   bool
	}{
		{"autoSave", true},
		{"slot_1-b", true},
		{"", false},
		{"a/b", false},
		{"..", false},
		{"white space", false},
	}
	for _, tt := range tests {
		err := ValidateSlot(tt.slot)
		if (err == nil) != tt.ok {
			t.Errorf("ValidateSlot(%q) = %v, want ok=%v", tt.slot, err, tt.ok)
		}
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	exerciseStore(t, store)

	if _, err := os.Stat(filepath.Join(dir, "slot-b.yaml")); err != nil {
		t.Errorf("slot file missing: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("state: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load(context.Background(), "broken"); err == nil {
		t.Error("Load(broken) succeeded")
	}
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "saves.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	exerciseStore(t, store)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("HAMLET_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("HAMLET_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	store, err := NewPostgresStore(ctx, dsn)
	if err != nil {
		t.Fatalf("NewPostgresStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if _, err := store.DB().ExecContext(ctx, `DELETE FROM saves`); err != nil {
		t.Fatalf("reset table: %v", err)
	}
	exerciseStore(t, store)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		opts    Options
		want    string
		wantErr bool
	}{
		{"memory", Options{Driver: DriverMemory}, "*saves.MemoryStore", false},
		{"file", Options{Driver: DriverFile, Target: t.TempDir()}, "*saves.FileStore", false},
		{"default is file", Options{Target: t.TempDir()}, "*saves.FileStore", false},
		{"sqlite", Options{Driver: DriverSQLite, Target: filepath.Join(t.TempDir(), "x.db")}, "*saves.SQLStore", false},
		{"postgres without dsn", Options{Driver: DriverPostgres}, "", true},
		{"s3 without bucket", Options{Driver: DriverS3}, "", true},
		{"unknown", Options{Driver: "tape"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(ctx, tt.opts)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Open() succeeded, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer func() { _ = store.Close() }()
			if got := reflect.TypeOf(store).String(); got != tt.want {
				t.Errorf("Open() type = %s, want %s", got, tt.want)
			}
		})
	}
}
