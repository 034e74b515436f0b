package planner

import (
	"sort"

	"github.com/napolitain/hamlet/internal/models"
)

// ROIMetric represents the components of an ROI calculation, both valued
// in gold.
type ROIMetric struct {
	GainPerSecond float64
	TotalCost     float64
}

// Calculate computes the final ROI value
func (m ROIMetric) Calculate() float64 {
	if m.TotalCost <= 0 {
		return m.GainPerSecond * 1000 // Very high ROI if free
	}
	return m.GainPerSecond / m.TotalCost
}

// Candidate is a building the planner could buy next
type Candidate struct {
	Building models.BuildingName
	Metric   ROIMetric
	ROI      float64
}

// worth prices one unit of a resource in gold
func worth(s *models.GameState, name models.ResourceName) float64 {
	if name == models.Gold {
		return 1
	}
	if name == models.Population {
		return PopulationWorth
	}
	if r, ok := s.Resources[name]; ok && r.Sellable() {
		return r.SellValues.Gold
	}
	return 0
}

func saturated(r *models.Resource) bool {
	return r.MaxStorage != nil && r.Stored >= *r.MaxStorage
}

// BuildingMetric values the next unit of a building: extra output per second
// minus the raw material it draws, against the price of its costs. Output
// into a full store is worth nothing.
func BuildingMetric(s *models.GameState, b *models.Building) ROIMetric {
	var m ROIMetric
	for _, res := range b.CostValues.Names() {
		m.TotalCost += b.CostValues[res].Current * worth(s, res)
	}
	for _, res := range b.IncreaseValues.Names() {
		r, ok := s.Resources[res]
		if !ok || !r.IsUnlocked || saturated(r) {
			continue
		}
		m.GainPerSecond += b.IncreaseValues[res].Current * r.ProductionValues.Multiplier * worth(s, res)
	}
	if b.Category == models.ProcessedResourceBuilding {
		for _, res := range b.PerSecondResourceUsed.Names() {
			m.GainPerSecond -= b.PerSecondResourceUsed[res].Current * worth(s, res)
		}
	}
	return m
}

// viable reports whether a building can ever be paid for in the current
// state: it is unlocked and every cost fits in an unlocked store.
func viable(s *models.GameState, b *models.Building) bool {
	if !b.IsUnlocked {
		return false
	}
	for res, pair := range b.CostValues {
		r, ok := s.Resources[res]
		if !ok || !r.IsUnlocked {
			return false
		}
		if r.MaxStorage != nil && pair.Current > *r.MaxStorage {
			return false
		}
	}
	return true
}

// Rank returns the viable buildings with positive gain, best ROI first
func Rank(s *models.GameState) []Candidate {
	var out []Candidate
	for _, name := range s.BuildingNames() {
		b := s.Buildings[name]
		if !viable(s, b) {
			continue
		}
		m := BuildingMetric(s, b)
		if m.GainPerSecond <= 0 {
			continue
		}
		out = append(out, Candidate{Building: name, Metric: m, ROI: m.Calculate()})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ROI > out[j].ROI
	})
	return out
}
