package models

func storage(v float64) *float64 { return &v }

func table(entries map[ResourceName]float64) ScalingTable {
	t := make(ScalingTable, len(entries))
	for k, v := range entries {
		t[k] = ScalingPair{Base: v, Current: v}
	}
	return t
}

// DefaultCatalog returns the built-in hamlet economy
func DefaultCatalog() *Catalog {
	return &Catalog{
		Config:       DefaultGameConfig(),
		Resources:    defaultResources(),
		Buildings:    defaultBuildings(),
		Upgrades:     defaultUpgrades(),
		LevelUnlocks: defaultLevelUnlocks(),
	}
}

func gathered(name ResourceName, unlocked bool) Resource {
	return Resource{
		Name:             name,
		Category:         BaseResource,
		MaxStorage:       storage(100),
		ProductionValues: ProductionValues{PerClick: 1, Multiplier: 1},
		SellValues:       &SellValues{Gold: 1, Exp: 0.5},
		IsUnlocked:       unlocked,
	}
}

func crafted(name ResourceName, limit float64, costs map[ResourceName]float64, sell SellValues) Resource {
	return Resource{
		Name:             name,
		Category:         ProcessedResource,
		MaxStorage:       storage(limit),
		ProductionValues: ProductionValues{PerClick: 1, Multiplier: 1},
		ProductionCosts:  table(costs),
		SellValues:       &sell,
	}
}

func defaultResources() []Resource {
	return []Resource{
		{
			Name:             Population,
			Category:         BaseResource,
			MaxStorage:       storage(10),
			ProductionValues: ProductionValues{PerSecond: 1, Multiplier: 1},
			IsUnlocked:       true,
		},
		{
			Name:             Gold,
			Category:         BaseResource,
			ProductionValues: ProductionValues{Multiplier: 1},
			IsUnlocked:       true,
		},
		gathered(Wood, true),
		gathered(Stone, true),
		gathered(Iron, false),
		gathered(Wheat, false),
		crafted(Sword, 20, map[ResourceName]float64{Wood: 5, Iron: 2}, SellValues{Gold: 10, Exp: 5}),
		crafted(Bread, 50, map[ResourceName]float64{Wheat: 5}, SellValues{Gold: 5, Exp: 2.5}),
		crafted(Plank, 100, map[ResourceName]float64{Wood: 2}, SellValues{Gold: 2, Exp: 1}),
		crafted(Brick, 100, map[ResourceName]float64{Stone: 2}, SellValues{Gold: 2, Exp: 1}),
	}
}

func defaultBuildings() []Building {
	housing := func(name BuildingName, costs map[ResourceName]float64, pop float64, unlocked bool) Building {
		return Building{
			Name:               name,
			Category:           HousingBuilding,
			AssociatedResource: Population,
			CostValues:         table(costs),
			IncreaseValues:     table(map[ResourceName]float64{Population: pop}),
			IsUnlocked:         unlocked,
		}
	}
	producer := func(name BuildingName, costs map[ResourceName]float64, output ResourceName, unlocked bool) Building {
		return Building{
			Name:               name,
			Category:           BaseResourceBuilding,
			AssociatedResource: output,
			CostValues:         table(costs),
			IncreaseValues:     table(map[ResourceName]float64{output: 1}),
			IsUnlocked:         unlocked,
		}
	}
	processor := func(name BuildingName, costs map[ResourceName]float64, output, input ResourceName) Building {
		return Building{
			Name:                  name,
			Category:              ProcessedResourceBuilding,
			AssociatedResource:    output,
			CostValues:            table(costs),
			IncreaseValues:        table(map[ResourceName]float64{output: 1}),
			PerSecondResourceUsed: table(map[ResourceName]float64{input: 5}),
		}
	}

	return []Building{
		housing(Tent, map[ResourceName]float64{Wood: 5, Gold: 10}, 1, true),
		housing(SmallHouse, map[ResourceName]float64{Wood: 20, Gold: 10}, 5, false),
		housing(LargeHouse, map[ResourceName]float64{Wood: 50, Stone: 20, Gold: 20}, 10, false),
		housing(Tavern, map[ResourceName]float64{Wood: 100, Stone: 50, Iron: 20, Gold: 50}, 20, false),

		producer(Woodcutter, map[ResourceName]float64{Wood: 10, Population: 1, Gold: 10}, Wood, true),
		producer(Quarry, map[ResourceName]float64{Wood: 10, Stone: 5, Population: 4, Gold: 20}, Stone, true),
		producer(IronMine, map[ResourceName]float64{Wood: 10, Stone: 5, Population: 4, Gold: 20}, Iron, false),
		producer(Farm, map[ResourceName]float64{Wood: 15, Stone: 5, Population: 2, Gold: 20}, Wheat, false),

		processor(LumberMill, map[ResourceName]float64{Wood: 10, Population: 2, Gold: 20}, Plank, Wood),
		processor(Blacksmith, map[ResourceName]float64{Wood: 20, Iron: 10, Stone: 5, Population: 5, Gold: 50}, Sword, Iron),
		processor(Bakery, map[ResourceName]float64{Wood: 35, Stone: 10, Population: 5, Gold: 50}, Bread, Wheat),
		processor(Stonecutter, map[ResourceName]float64{Wood: 20, Stone: 10, Iron: 5, Population: 5, Gold: 50}, Brick, Stone),
	}
}

func defaultUpgrades() []Upgrade {
	return []Upgrade{
		{
			Name:    WoodProduction,
			Title:   "Wood Production Upgrade 1",
			Type:    ProductionUpgrade,
			Cost:    1000,
			Effects: map[ResourceName]float64{Wood: 0.01},
		},
		{
			Name:    WoodStorage,
			Title:   "Wood Storage Upgrade 1",
			Type:    MaxStorageUpgrade,
			Cost:    1000,
			Effects: map[ResourceName]float64{Wood: 50},
		},
	}
}

func defaultLevelUnlocks() []LevelUnlock {
	return []LevelUnlock{
		{Level: 3, Resources: []ResourceName{Wheat}, Buildings: []BuildingName{Farm}},
		{Level: 5, Resources: []ResourceName{Iron, Plank}, Buildings: []BuildingName{IronMine, LumberMill}},
		{Level: 7, Resources: []ResourceName{Bread, Brick}, Buildings: []BuildingName{Bakery, Stonecutter, SmallHouse}},
		{Level: 10, Resources: []ResourceName{Sword}, Buildings: []BuildingName{Blacksmith, LargeHouse}},
		{Level: 12, Upgrades: []UpgradeName{WoodProduction, WoodStorage}},
	}
}
