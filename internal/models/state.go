package models

// GameState is the whole economy: player progression plus every resource,
// building and upgrade ledger. Operations replace it rather than edit it.
type GameState struct {
	Player    Player                     `json:"player" yaml:"player"`
	Resources map[ResourceName]*Resource `json:"resources" yaml:"resources"`
	Buildings map[BuildingName]*Building `json:"buildings" yaml:"buildings"`
	Upgrades  map[UpgradeName]*Upgrade   `json:"upgrades" yaml:"upgrades"`
}

// NewEmptyGameState returns a state with a default player and empty ledgers
func NewEmptyGameState() *GameState {
	return &GameState{
		Player:    Player{Name: DefaultPlayerName, Level: 1},
		Resources: make(map[ResourceName]*Resource),
		Buildings: make(map[BuildingName]*Building),
		Upgrades:  make(map[UpgradeName]*Upgrade),
	}
}

// Clone creates a deep copy of the state
func (s *GameState) Clone() *GameState {
	c := &GameState{
		Player:    s.Player,
		Resources: make(map[ResourceName]*Resource, len(s.Resources)),
		Buildings: make(map[BuildingName]*Building, len(s.Buildings)),
		Upgrades:  make(map[UpgradeName]*Upgrade, len(s.Upgrades)),
	}
	for k, v := range s.Resources {
		c.Resources[k] = v.Clone()
	}
	for k, v := range s.Buildings {
		c.Buildings[k] = v.Clone()
	}
	for k, v := range s.Upgrades {
		c.Upgrades[k] = v.Clone()
	}
	return c
}

// Stored returns the stored amount of a resource, 0 if it is absent
func (s *GameState) Stored(name ResourceName) float64 {
	if r, ok := s.Resources[name]; ok {
		return r.Stored
	}
	return 0
}

// ResourceNames returns the state's resources in display order, followed by
// any catalog-defined names not in AllResourceNames.
func (s *GameState) ResourceNames() []ResourceName {
	return orderedKeys(s.Resources, AllResourceNames())
}

// BuildingNames returns the state's buildings in display order
func (s *GameState) BuildingNames() []BuildingName {
	return orderedKeys(s.Buildings, AllBuildingNames())
}

// UpgradeNames returns the state's upgrades sorted by name
func (s *GameState) UpgradeNames() []UpgradeName {
	return orderedKeys(s.Upgrades, nil)
}

func orderedKeys[K ~string, V any](m map[K]V, order []K) []K {
	out := make([]K, 0, len(m))
	seen := make(map[K]bool, len(m))
	for _, k := range order {
		if _, ok := m[k]; ok {
			out = append(out, k)
			seen[k] = true
		}
	}
	var rest []K
	for k := range m {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sortStrings(rest)
	return append(out, rest...)
}
