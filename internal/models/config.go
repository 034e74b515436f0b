package models

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultPlayerName is the name a fresh game starts with
	DefaultPlayerName = "Player"
	// DefaultAutoSaveKey is the save slot used for periodic saves
	DefaultAutoSaveKey = "autoSave"
)

// GameConfig holds the economy-wide tuning constants
type GameConfig struct {
	ExpMultiplier          float64       `json:"exp_multiplier" yaml:"exp_multiplier"`
	CostMultiplier         float64       `json:"cost_multiplier" yaml:"cost_multiplier"`
	ProductionMultiplier   float64       `json:"production_multiplier" yaml:"production_multiplier"`
	StartingExpToNextLevel float64       `json:"starting_exp_to_next_level" yaml:"starting_exp_to_next_level"`
	AutoSaveInterval       time.Duration `json:"auto_save_interval" yaml:"auto_save_interval"`
	AutoSaveKey            string        `json:"auto_save_key" yaml:"auto_save_key"`
}

// DefaultGameConfig returns the stock tuning constants
func DefaultGameConfig() GameConfig {
	return GameConfig{
		ExpMultiplier:          1.05,
		CostMultiplier:         1.07,
		ProductionMultiplier:   1.05,
		StartingExpToNextLevel: 100,
		AutoSaveInterval:       30 * time.Second,
		AutoSaveKey:            DefaultAutoSaveKey,
	}
}

// Catalog is the static definition of an economy: tuning constants, the
// entity definitions every new game starts from, and the unlock schedule.
type Catalog struct {
	Config       GameConfig    `json:"config" yaml:"config"`
	Resources    []Resource    `json:"resources" yaml:"resources"`
	Buildings    []Building    `json:"buildings" yaml:"buildings"`
	Upgrades     []Upgrade     `json:"upgrades" yaml:"upgrades"`
	LevelUnlocks []LevelUnlock `json:"level_unlocks" yaml:"level_unlocks"`
}

// ErrInvalidCatalog is wrapped by every Validate failure
var ErrInvalidCatalog = errors.New("invalid catalog")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidCatalog, fmt.Sprintf(format, args...))
}

// Validate checks the catalog is internally consistent
func (c *Catalog) Validate() error {
	cfg := c.Config
	if cfg.ExpMultiplier <= 0 || cfg.CostMultiplier <= 0 || cfg.ProductionMultiplier <= 0 {
		return invalid("multipliers must be positive")
	}
	if cfg.StartingExpToNextLevel <= 0 {
		return invalid("starting exp to next level must be positive")
	}
	if len(c.Resources) == 0 {
		return invalid("no resources defined")
	}

	resources := make(map[ResourceName]bool, len(c.Resources))
	for _, r := range c.Resources {
		if r.Name == "" {
			return invalid("resource with empty name")
		}
		if resources[r.Name] {
			return invalid("duplicate resource %s", r.Name)
		}
		resources[r.Name] = true
		if r.MaxStorage != nil && *r.MaxStorage < 0 {
			return invalid("resource %s has negative max storage", r.Name)
		}
		if r.ProductionValues.PerClick < 0 {
			return invalid("resource %s has negative per click", r.Name)
		}
	}
	if !resources[Gold] {
		return invalid("resource %s is required", Gold)
	}

	checkTable := func(owner string, t ScalingTable) error {
		for _, name := range t.Names() {
			if !resources[name] {
				return invalid("%s references unknown resource %s", owner, name)
			}
			if t[name].Base < 0 {
				return invalid("%s has negative base for %s", owner, name)
			}
		}
		return nil
	}

	for _, r := range c.Resources {
		if err := checkTable("resource "+string(r.Name), r.ProductionCosts); err != nil {
			return err
		}
	}

	buildings := make(map[BuildingName]bool, len(c.Buildings))
	for _, b := range c.Buildings {
		if buildings[b.Name] {
			return invalid("duplicate building %s", b.Name)
		}
		buildings[b.Name] = true
		owner := "building " + string(b.Name)
		if b.AssociatedResource != "" && !resources[b.AssociatedResource] {
			return invalid("%s references unknown resource %s", owner, b.AssociatedResource)
		}
		if err := checkTable(owner, b.CostValues); err != nil {
			return err
		}
		if err := checkTable(owner, b.IncreaseValues); err != nil {
			return err
		}
		if err := checkTable(owner, b.PerSecondResourceUsed); err != nil {
			return err
		}
		if b.Category == ProcessedResourceBuilding && len(b.PerSecondResourceUsed) == 0 {
			return invalid("%s is a processed resource building without resource usage", owner)
		}
	}

	upgrades := make(map[UpgradeName]bool, len(c.Upgrades))
	for _, u := range c.Upgrades {
		if upgrades[u.Name] {
			return invalid("duplicate upgrade %s", u.Name)
		}
		upgrades[u.Name] = true
		if u.Cost < 0 {
			return invalid("upgrade %s has negative cost", u.Name)
		}
		switch u.Type {
		case MaxStorageUpgrade, ProductionUpgrade, PopulationUpgrade:
		default:
			return invalid("upgrade %s has unknown type %q", u.Name, u.Type)
		}
		for name := range u.Effects {
			if !resources[name] {
				return invalid("upgrade %s references unknown resource %s", u.Name, name)
			}
		}
	}

	levels := make(map[int]bool, len(c.LevelUnlocks))
	for _, lu := range c.LevelUnlocks {
		if lu.Level < 2 {
			return invalid("unlock level %d is below 2", lu.Level)
		}
		if levels[lu.Level] {
			return invalid("duplicate unlock level %d", lu.Level)
		}
		levels[lu.Level] = true
		for _, r := range lu.Resources {
			if !resources[r] {
				return invalid("unlock level %d references unknown resource %s", lu.Level, r)
			}
		}
		for _, b := range lu.Buildings {
			if !buildings[b] {
				return invalid("unlock level %d references unknown building %s", lu.Level, b)
			}
		}
		for _, u := range lu.Upgrades {
			if !upgrades[u] {
				return invalid("unlock level %d references unknown upgrade %s", lu.Level, u)
			}
		}
	}

	return nil
}

// NewGameState builds a fresh game from the catalog: stock and amounts
// zeroed, every scaled value at its base, unlock flags as configured.
func (c *Catalog) NewGameState() *GameState {
	state := NewEmptyGameState()
	state.Player.ExpToNextLevel = c.Config.StartingExpToNextLevel

	for i := range c.Resources {
		r := c.Resources[i].Clone()
		r.Stored = 0
		if r.ProductionValues.Multiplier == 0 {
			r.ProductionValues.Multiplier = 1
		}
		resetTable(r.ProductionCosts)
		state.Resources[r.Name] = r
	}
	for i := range c.Buildings {
		b := c.Buildings[i].Clone()
		b.Amount = 0
		resetTable(b.CostValues)
		resetTable(b.IncreaseValues)
		resetTable(b.PerSecondResourceUsed)
		state.Buildings[b.Name] = b
	}
	for i := range c.Upgrades {
		u := c.Upgrades[i].Clone()
		u.IsPurchased = false
		state.Upgrades[u.Name] = u
	}

	return state
}

func resetTable(t ScalingTable) {
	for k, v := range t {
		v.Current = v.Base
		t[k] = v
	}
}
