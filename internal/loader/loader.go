// Package loader reads economy catalogs from YAML or JSON files.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/napolitain/hamlet/internal/models"
)

// CatalogFiles are the names LoadCatalogDir looks for, in order
var CatalogFiles = []string{"catalog.yaml", "catalog.yml", "catalog.json"}

// catalogFile is the on-disk layout of a catalog. Entities are keyed by name
// and carry only base values; scaled values start at their base.
type catalogFile struct {
	Config    configFile              `json:"config" yaml:"config"`
	Resources map[string]resourceFile `json:"resources" yaml:"resources"`
	Buildings map[string]buildingFile `json:"buildings" yaml:"buildings"`
	Upgrades  map[string]upgradeFile  `json:"upgrades" yaml:"upgrades"`
	Unlocks   map[int]unlockFile      `json:"unlocks" yaml:"unlocks"`
}

// configFile fields left out keep their default
type configFile struct {
	ExpMultiplier          *float64 `json:"exp_multiplier" yaml:"exp_multiplier"`
	CostMultiplier         *float64 `json:"cost_multiplier" yaml:"cost_multiplier"`
	ProductionMultiplier   *float64 `json:"production_multiplier" yaml:"production_multiplier"`
	StartingExpToNextLevel *float64 `json:"starting_exp_to_next_level" yaml:"starting_exp_to_next_level"`
	AutoSaveInterval       string   `json:"auto_save_interval" yaml:"auto_save_interval"` // Go duration, e.g. "30s"
	AutoSaveKey            string   `json:"auto_save_key" yaml:"auto_save_key"`
}

type resourceFile struct {
	Category   string             `json:"category" yaml:"category"`
	MaxStorage *float64           `json:"max_storage" yaml:"max_storage"` // Omit for unbounded
	Base       float64            `json:"base" yaml:"base"`
	PerSecond  float64            `json:"per_second" yaml:"per_second"`
	PerClick   float64            `json:"per_click" yaml:"per_click"`
	Multiplier *float64           `json:"multiplier" yaml:"multiplier"`
	Costs      map[string]float64 `json:"costs" yaml:"costs"`
	Sell       *models.SellValues `json:"sell" yaml:"sell"`
	AutoSell   bool               `json:"auto_sell" yaml:"auto_sell"`
	Unlocked   bool               `json:"unlocked" yaml:"unlocked"`
}

type buildingFile struct {
	Category string             `json:"category" yaml:"category"`
	Resource string             `json:"resource" yaml:"resource"`
	Costs    map[string]float64 `json:"costs" yaml:"costs"`
	Increase map[string]float64 `json:"increase" yaml:"increase"`
	Uses     map[string]float64 `json:"uses" yaml:"uses"`
	Unlocked bool               `json:"unlocked" yaml:"unlocked"`
}

type upgradeFile struct {
	Title    string             `json:"title" yaml:"title"`
	Type     string             `json:"type" yaml:"type"`
	Cost     float64            `json:"cost" yaml:"cost"`
	Effects  map[string]float64 `json:"effects" yaml:"effects"`
	Unlocked bool               `json:"unlocked" yaml:"unlocked"`
}

type unlockFile struct {
	Resources []string `json:"resources" yaml:"resources"`
	Buildings []string `json:"buildings" yaml:"buildings"`
	Upgrades  []string `json:"upgrades" yaml:"upgrades"`
}

// LoadCatalog reads and validates a catalog. The format follows the file
// extension: .yaml and .yml are YAML, .json is JSON.
func LoadCatalog(path string) (*models.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var raw catalogFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".json":
		err = json.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	catalog, err := raw.catalog()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return catalog, nil
}

// LoadCatalogDir loads the first of CatalogFiles found in dataDir. The error
// wraps fs.ErrNotExist when there is none.
func LoadCatalogDir(dataDir string) (*models.Catalog, error) {
	for _, name := range CatalogFiles {
		path := filepath.Join(dataDir, name)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		return LoadCatalog(path)
	}
	return nil, fmt.Errorf("no catalog in %s: %w", dataDir, fs.ErrNotExist)
}

// LoadCatalogOrDefault loads from dataDir, falling back to the built-in
// catalog when the directory holds none.
func LoadCatalogOrDefault(dataDir string) (*models.Catalog, error) {
	if dataDir == "" {
		return models.DefaultCatalog(), nil
	}
	catalog, err := LoadCatalogDir(dataDir)
	if errors.Is(err, fs.ErrNotExist) {
		return models.DefaultCatalog(), nil
	}
	return catalog, err
}

func (f *catalogFile) catalog() (*models.Catalog, error) {
	cfg, err := f.Config.gameConfig()
	if err != nil {
		return nil, err
	}
	c := &models.Catalog{Config: cfg}

	for _, name := range sortedKeys(f.Resources) {
		r, err := f.Resources[name].resource(models.ResourceName(name))
		if err != nil {
			return nil, err
		}
		c.Resources = append(c.Resources, r)
	}
	for _, name := range sortedKeys(f.Buildings) {
		b, err := f.Buildings[name].building(models.BuildingName(name))
		if err != nil {
			return nil, err
		}
		c.Buildings = append(c.Buildings, b)
	}
	for _, name := range sortedKeys(f.Upgrades) {
		raw := f.Upgrades[name]
		c.Upgrades = append(c.Upgrades, models.Upgrade{
			Name:       models.UpgradeName(name),
			Title:      raw.Title,
			Type:       models.UpgradeType(raw.Type),
			Cost:       raw.Cost,
			Effects:    effects(raw.Effects),
			IsUnlocked: raw.Unlocked,
		})
	}

	levels := make([]int, 0, len(f.Unlocks))
	for level := range f.Unlocks {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	for _, level := range levels {
		raw := f.Unlocks[level]
		c.LevelUnlocks = append(c.LevelUnlocks, models.LevelUnlock{
			Level:     level,
			Resources: names[models.ResourceName](raw.Resources),
			Buildings: names[models.BuildingName](raw.Buildings),
			Upgrades:  names[models.UpgradeName](raw.Upgrades),
		})
	}

	return c, nil
}

func (f configFile) gameConfig() (models.GameConfig, error) {
	cfg := models.DefaultGameConfig()
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&cfg.ExpMultiplier, f.ExpMultiplier)
	set(&cfg.CostMultiplier, f.CostMultiplier)
	set(&cfg.ProductionMultiplier, f.ProductionMultiplier)
	set(&cfg.StartingExpToNextLevel, f.StartingExpToNextLevel)
	if f.AutoSaveInterval != "" {
		d, err := time.ParseDuration(f.AutoSaveInterval)
		if err != nil {
			return cfg, fmt.Errorf("auto_save_interval: %w", err)
		}
		cfg.AutoSaveInterval = d
	}
	if f.AutoSaveKey != "" {
		cfg.AutoSaveKey = f.AutoSaveKey
	}
	return cfg, nil
}

func (f resourceFile) resource(name models.ResourceName) (models.Resource, error) {
	category := models.ResourceCategory(f.Category)
	switch category {
	case models.BaseResource, models.ProcessedResource:
	default:
		return models.Resource{}, fmt.Errorf("resource %s: unknown category %q", name, f.Category)
	}

	multiplier := 1.0
	if f.Multiplier != nil {
		multiplier = *f.Multiplier
	}
	r := models.Resource{
		Name:       name,
		Category:   category,
		MaxStorage: f.MaxStorage,
		ProductionValues: models.ProductionValues{
			Base:       f.Base,
			PerSecond:  f.PerSecond,
			PerClick:   f.PerClick,
			Multiplier: multiplier,
		},
		ProductionCosts: scaling(f.Costs),
		IsAutoSelling:   f.AutoSell,
		IsUnlocked:      f.Unlocked,
	}
	if f.Sell != nil {
		sell := *f.Sell
		r.SellValues = &sell
	}
	return r, nil
}

func (f buildingFile) building(name models.BuildingName) (models.Building, error) {
	category := models.BuildingCategory(f.Category)
	switch category {
	case models.HousingBuilding, models.BaseResourceBuilding, models.ProcessedResourceBuilding, models.SpecialBuilding:
	default:
		return models.Building{}, fmt.Errorf("building %s: unknown category %q", name, f.Category)
	}
	return models.Building{
		Name:                  name,
		Category:              category,
		AssociatedResource:    models.ResourceName(f.Resource),
		CostValues:            scaling(f.Costs),
		IncreaseValues:        scaling(f.Increase),
		PerSecondResourceUsed: scaling(f.Uses),
		IsUnlocked:            f.Unlocked,
	}, nil
}

func scaling(m map[string]float64) models.ScalingTable {
	if len(m) == 0 {
		return nil
	}
	t := make(models.ScalingTable, len(m))
	for k, v := range m {
		t[models.ResourceName(k)] = models.ScalingPair{Base: v, Current: v}
	}
	return t
}

func effects(m map[string]float64) map[models.ResourceName]float64 {
	out := make(map[models.ResourceName]float64, len(m))
	for k, v := range m {
		out[models.ResourceName(k)] = v
	}
	return out
}

func names[K ~string](in []string) []K {
	if len(in) == 0 {
		return nil
	}
	out := make([]K, len(in))
	for i, s := range in {
		out[i] = K(s)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
