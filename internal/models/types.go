package models

import "sort"

// ResourceName identifies a resource in the economy
type ResourceName string

const (
	Population ResourceName = "POPULATION"
	Gold       ResourceName = "GOLD"
	Wood       ResourceName = "WOOD"
	Stone      ResourceName = "STONE"
	Iron       ResourceName = "IRON"
	Wheat      ResourceName = "WHEAT"
	Plank      ResourceName = "PLANK"
	Brick      ResourceName = "BRICK"
	Bread      ResourceName = "BREAD"
	Sword      ResourceName = "SWORD"
)

// AllResourceNames returns all resource names in display order
func AllResourceNames() []ResourceName {
	return []ResourceName{
		Population, Gold,
		Wood, Stone, Iron, Wheat,
		Plank, Brick, Bread, Sword,
	}
}

// ResourceCategory separates gathered resources from crafted ones
type ResourceCategory string

const (
	BaseResource      ResourceCategory = "BASE_RESOURCE"
	ProcessedResource ResourceCategory = "PROCESSED_RESOURCE"
)

// BuildingName identifies a building in the economy
type BuildingName string

const (
	Tent        BuildingName = "TENT"
	SmallHouse  BuildingName = "SMALL_HOUSE"
	LargeHouse  BuildingName = "LARGE_HOUSE"
	Tavern      BuildingName = "TAVERN"
	Woodcutter  BuildingName = "WOODCUTTER"
	Quarry      BuildingName = "QUARRY"
	IronMine    BuildingName = "IRON_MINE"
	Farm        BuildingName = "FARM"
	LumberMill  BuildingName = "LUMBER_MILL"
	Blacksmith  BuildingName = "BLACKSMITH"
	Bakery      BuildingName = "BAKERY"
	Stonecutter BuildingName = "STONECUTTER"
	Market      BuildingName = "MARKET"
	Barracks    BuildingName = "BARRACKS"
	TownHall    BuildingName = "TOWN_HALL"
	WatchTower  BuildingName = "WATCH_TOWER"
)

// AllBuildingNames returns all building names in display order
func AllBuildingNames() []BuildingName {
	return []BuildingName{
		Tent, SmallHouse, LargeHouse, Tavern,
		Woodcutter, Quarry, IronMine, Farm,
		LumberMill, Blacksmith, Bakery, Stonecutter,
		Market, Barracks, TownHall, WatchTower,
	}
}

// BuildingCategory groups buildings by what they produce
type BuildingCategory string

const (
	HousingBuilding           BuildingCategory = "HOUSING"
	BaseResourceBuilding      BuildingCategory = "BASE_RESOURCE"
	ProcessedResourceBuilding BuildingCategory = "PROCESSED_RESOURCE"
	SpecialBuilding           BuildingCategory = "SPECIAL"
)

// UpgradeName identifies a one-time upgrade
type UpgradeName string

const (
	WoodProduction UpgradeName = "WOOD_PRODUCTION"
	WoodStorage    UpgradeName = "WOOD_STORAGE"
)

// UpgradeType selects how an upgrade's effects are applied
type UpgradeType string

const (
	MaxStorageUpgrade UpgradeType = "MAX_STORAGE"
	ProductionUpgrade UpgradeType = "PRODUCTION"
	PopulationUpgrade UpgradeType = "POPULATION"
)

// ScalingPair holds the configured base of a scaled value and its value at
// the current owned count.
type ScalingPair struct {
	Base    float64 `json:"base" yaml:"base"`
	Current float64 `json:"current,omitempty" yaml:"current,omitempty"`
}

// ScalingTable maps a resource to a scaled amount of it
type ScalingTable map[ResourceName]ScalingPair

// Clone returns an independent copy of the table (nil stays nil)
func (t ScalingTable) Clone() ScalingTable {
	if t == nil {
		return nil
	}
	out := make(ScalingTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Names returns the table's resources sorted by name
func (t ScalingTable) Names() []ResourceName {
	names := make([]ResourceName, 0, len(t))
	for k := range t {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// ProductionValues describes how fast a resource accrues
type ProductionValues struct {
	Base       float64 `json:"base" yaml:"base"`
	PerSecond  float64 `json:"per_second" yaml:"per_second"`
	PerClick   float64 `json:"per_click" yaml:"per_click"`
	Multiplier float64 `json:"multiplier" yaml:"multiplier"`
}

// SellValues is what one unit of a resource sells for
type SellValues struct {
	Gold float64 `json:"gold" yaml:"gold"`
	Exp  float64 `json:"exp" yaml:"exp"`
}

// Resource is a stockpile with its production and market settings
type Resource struct {
	Name             ResourceName     `json:"name" yaml:"name"`
	Category         ResourceCategory `json:"category" yaml:"category"`
	Stored           float64          `json:"stored" yaml:"stored"`
	MaxStorage       *float64         `json:"max_storage" yaml:"max_storage"` // nil if unbounded
	ProductionValues ProductionValues `json:"production_values" yaml:"production_values"`
	ProductionCosts  ScalingTable     `json:"production_costs,omitempty" yaml:"production_costs,omitempty"`
	SellValues       *SellValues      `json:"sell_values,omitempty" yaml:"sell_values,omitempty"`
	IsAutoSelling    bool             `json:"is_auto_selling" yaml:"is_auto_selling"`
	IsUnlocked       bool             `json:"is_unlocked" yaml:"is_unlocked"`
}

// Bounded reports whether the resource has a storage cap
func (r *Resource) Bounded() bool { return r.MaxStorage != nil }

// Sellable reports whether the resource can be sold for gold
func (r *Resource) Sellable() bool { return r.SellValues != nil }

// Clone returns a deep copy of the resource
func (r *Resource) Clone() *Resource {
	c := *r
	if r.MaxStorage != nil {
		v := *r.MaxStorage
		c.MaxStorage = &v
	}
	if r.SellValues != nil {
		v := *r.SellValues
		c.SellValues = &v
	}
	c.ProductionCosts = r.ProductionCosts.Clone()
	return &c
}

// Building is a purchasable structure whose cost and output grow with the
// number owned.
type Building struct {
	Name                  BuildingName     `json:"name" yaml:"name"`
	Category              BuildingCategory `json:"category" yaml:"category"`
	Amount                int              `json:"amount" yaml:"amount"`
	AssociatedResource    ResourceName     `json:"associated_resource" yaml:"associated_resource"`
	CostValues            ScalingTable     `json:"cost_values" yaml:"cost_values"`
	IncreaseValues        ScalingTable     `json:"increase_values" yaml:"increase_values"`
	PerSecondResourceUsed ScalingTable     `json:"per_second_resource_used,omitempty" yaml:"per_second_resource_used,omitempty"`
	IsUnlocked            bool             `json:"is_unlocked" yaml:"is_unlocked"`
}

// Clone returns a deep copy of the building
func (b *Building) Clone() *Building {
	c := *b
	c.CostValues = b.CostValues.Clone()
	c.IncreaseValues = b.IncreaseValues.Clone()
	c.PerSecondResourceUsed = b.PerSecondResourceUsed.Clone()
	return &c
}

// Upgrade is a one-time gold purchase with permanent effects
type Upgrade struct {
	Name        UpgradeName              `json:"name" yaml:"name"`
	Title       string                   `json:"title" yaml:"title"`
	Type        UpgradeType              `json:"type" yaml:"type"`
	Cost        float64                  `json:"cost" yaml:"cost"`
	Effects     map[ResourceName]float64 `json:"effects" yaml:"effects"`
	IsUnlocked  bool                     `json:"is_unlocked" yaml:"is_unlocked"`
	IsPurchased bool                     `json:"is_purchased" yaml:"is_purchased"`
}

// Clone returns a deep copy of the upgrade
func (u *Upgrade) Clone() *Upgrade {
	c := *u
	if u.Effects != nil {
		c.Effects = make(map[ResourceName]float64, len(u.Effects))
		for k, v := range u.Effects {
			c.Effects[k] = v
		}
	}
	return &c
}

// Player tracks name and progression
type Player struct {
	Name           string  `json:"name" yaml:"name"`
	Level          int     `json:"level" yaml:"level"`
	Exp            float64 `json:"exp" yaml:"exp"`
	ExpToNextLevel float64 `json:"exp_to_next_level" yaml:"exp_to_next_level"`
}

// LevelUnlock lists what becomes available when a player reaches Level
type LevelUnlock struct {
	Level     int            `json:"level" yaml:"level"`
	Resources []ResourceName `json:"resources,omitempty" yaml:"resources,omitempty"`
	Buildings []BuildingName `json:"buildings,omitempty" yaml:"buildings,omitempty"`
	Upgrades  []UpgradeName  `json:"upgrades,omitempty" yaml:"upgrades,omitempty"`
}

func sortStrings[K ~string](s []K) {
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
}
