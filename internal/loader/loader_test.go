package loader

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/napolitain/hamlet/internal/models"
)

func TestShippedCatalogMatchesDefault(t *testing.T) {
	catalog, err := LoadCatalogDir("../../data")
	if err != nil {
		t.Fatalf("LoadCatalogDir() error = %v", err)
	}
	def := models.DefaultCatalog()

	if catalog.Config != def.Config {
		t.Errorf("Config = %+v, want %+v", catalog.Config, def.Config)
	}
	if len(catalog.Resources) != len(def.Resources) || len(catalog.Buildings) != len(def.Buildings) {
		t.Errorf("loaded %d resources and %d buildings, want %d and %d",
			len(catalog.Resources), len(catalog.Buildings), len(def.Resources), len(def.Buildings))
	}
	if !reflect.DeepEqual(catalog.LevelUnlocks, def.LevelUnlocks) {
		t.Errorf("LevelUnlocks = %+v, want %+v", catalog.LevelUnlocks, def.LevelUnlocks)
	}

	got, want := catalog.NewGameState(), def.NewGameState()
	for _, name := range want.ResourceNames() {
		if !reflect.DeepEqual(got.Resources[name], want.Resources[name]) {
			t.Errorf("resource %s = %+v, want %+v", name, got.Resources[name], want.Resources[name])
		}
	}
	for _, name := range want.BuildingNames() {
		if !reflect.DeepEqual(got.Buildings[name], want.Buildings[name]) {
			t.Errorf("building %s = %+v, want %+v", name, got.Buildings[name], want.Buildings[name])
		}
	}
	if !reflect.DeepEqual(got, want) {
		t.Error("new game from the shipped catalog differs from the built-in one")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const minimalJSON = `{
  "config": {"cost_multiplier": 1.5, "auto_save_interval": "1m"},
  "resources": {
    "GOLD": {"category": "BASE_RESOURCE", "unlocked": true},
    "WOOD": {"category": "BASE_RESOURCE", "max_storage": 50, "per_click": 2, "sell": {"gold": 3, "exp": 1}, "unlocked": true}
  },
  "buildings": {
    "WOODCUTTER": {"category": "BASE_RESOURCE", "resource": "WOOD", "costs": {"GOLD": 5}, "increase": {"WOOD": 1}, "unlocked": true}
  },
  "unlocks": {"2": {"resources": ["WOOD"]}}
}`

func TestLoadCatalogJSON(t *testing.T) {
	catalog, err := LoadCatalog(writeFile(t, "catalog.json", minimalJSON))
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}

	if catalog.Config.CostMultiplier != 1.5 {
		t.Errorf("CostMultiplier = %v, want 1.5", catalog.Config.CostMultiplier)
	}
	if catalog.Config.ExpMultiplier != 1.05 {
		t.Errorf("ExpMultiplier = %v, want default 1.05", catalog.Config.ExpMultiplier)
	}
	if catalog.Config.AutoSaveInterval != time.Minute {
		t.Errorf("AutoSaveInterval = %v, want 1m", catalog.Config.AutoSaveInterval)
	}

	s := catalog.NewGameState()
	wood := s.Resources[models.Wood]
	if wood == nil || !wood.Bounded() || *wood.MaxStorage != 50 || wood.ProductionValues.PerClick != 2 {
		t.Fatalf("WOOD = %+v", wood)
	}
	if wood.ProductionValues.Multiplier != 1 {
		t.Errorf("WOOD multiplier = %v, want 1", wood.ProductionValues.Multiplier)
	}
	if s.Resources[models.Gold].Bounded() {
		t.Error("GOLD without max_storage should be unbounded")
	}
	if got := s.Buildings[models.Woodcutter].CostValues[models.Gold]; got.Base != 5 || got.Current != 5 {
		t.Errorf("WOODCUTTER GOLD cost = %+v, want 5/5", got)
	}
	if len(catalog.LevelUnlocks) != 1 || catalog.LevelUnlocks[0].Level != 2 {
		t.Errorf("LevelUnlocks = %+v", catalog.LevelUnlocks)
	}
}

func TestLoadCatalogErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		target  error
		want    string
	}{
		{"unsupported format", "catalog.toml", "", nil, "unsupported catalog format"},
		{"malformed yaml", "catalog.yaml", "resources: [", nil, "failed to parse"},
		{"malformed json", "catalog.json", "{", nil, "failed to parse"},
		{"unknown category", "catalog.yaml", "resources:\n  GOLD: {category: LIQUID}\n", nil, "unknown category"},
		{"bad duration", "catalog.yaml", "config: {auto_save_interval: soon}\n", nil, "auto_save_interval"},
		{"missing gold", "catalog.yaml", "resources:\n  WOOD: {category: BASE_RESOURCE}\n", models.ErrInvalidCatalog, "GOLD"},
		{"unknown unlock", "catalog.yaml", "resources:\n  GOLD: {category: BASE_RESOURCE}\nunlocks:\n  2: {buildings: [CASTLE]}\n", models.ErrInvalidCatalog, "CASTLE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCatalog(writeFile(t, tt.file, tt.content))
			if err == nil {
				t.Fatal("LoadCatalog() succeeded")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("error = %v, want %v", err, tt.target)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoadCatalogDir(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadCatalogDir(dir); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("empty dir error = %v, want fs.ErrNotExist", err)
	}

	catalog, err := LoadCatalogOrDefault(dir)
	if err != nil {
		t.Fatalf("LoadCatalogOrDefault() error = %v", err)
	}
	if len(catalog.Buildings) != len(models.DefaultCatalog().Buildings) {
		t.Error("empty dir did not fall back to the built-in catalog")
	}

	if err := os.WriteFile(filepath.Join(dir, "catalog.json"), []byte(minimalJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	catalog, err = LoadCatalogOrDefault(dir)
	if err != nil {
		t.Fatalf("LoadCatalogOrDefault() error = %v", err)
	}
	if len(catalog.Buildings) != 1 {
		t.Errorf("loaded %d buildings, want 1 from catalog.json", len(catalog.Buildings))
	}
}
