package game

import (
	"github.com/napolitain/hamlet/internal/models"
	"github.com/napolitain/hamlet/internal/numeric"
)

// BuyBuilding purchases one more unit of a building.
//
// Costs are checked all-or-nothing before anything changes; an unaffordable
// purchase returns an *InsufficientResourcesError naming the first missing
// resource. On success the costs are paid, the building's output rates rise
// by their current increase values, processed-resource buildings draw down
// their raw material's rate, and the cost and increase tables are rescaled
// for the new amount. Locked buildings are left untouched.
func (e *Economy) BuyBuilding(s *models.GameState, name models.BuildingName) (*models.GameState, error) {
	b, err := buildingOf(s, name)
	if err != nil {
		return s, err
	}
	if !b.IsUnlocked {
		return s, nil
	}
	if err := shortfall(s, string(name), b.CostValues, 1); err != nil {
		return s, err
	}

	next := s.Clone()
	nb := next.Buildings[name]

	for _, res := range nb.CostValues.Names() {
		r := next.Resources[res]
		r.Stored = numeric.Subtract(r.Stored, nb.CostValues[res].Current)
	}
	for _, res := range nb.IncreaseValues.Names() {
		adjustRate(next.Resources[res], nb.IncreaseValues[res].Current, numeric.Add)
	}
	if nb.Category == models.ProcessedResourceBuilding {
		for _, res := range nb.PerSecondResourceUsed.Names() {
			adjustRate(next.Resources[res], nb.PerSecondResourceUsed[res].Current, numeric.Subtract)
		}
	}

	nb.Amount++
	e.rescale(nb)
	return next, nil
}

// SellBuilding demolishes the most recently bought unit of a building.
// Half of that unit's gold price is refunded and the production it added is
// taken back. Selling a building with no units is a no-op.
func (e *Economy) SellBuilding(s *models.GameState, name models.BuildingName) (*models.GameState, error) {
	b, err := buildingOf(s, name)
	if err != nil {
		return s, err
	}
	if b.Amount <= 0 {
		return s, nil
	}
	if _, err := resourceOf(s, models.Gold); err != nil {
		return s, err
	}

	next := s.Clone()
	nb := next.Buildings[name]
	last := nb.Amount - 1

	if price, ok := nb.CostValues[models.Gold]; ok {
		refund := numeric.Divide(numeric.Scale(price.Base, last, e.config.CostMultiplier), 2)
		credit(next.Resources[models.Gold], refund)
	}
	for _, res := range nb.IncreaseValues.Names() {
		marginal := numeric.Scale(nb.IncreaseValues[res].Base, last, e.config.ProductionMultiplier)
		adjustRate(next.Resources[res], marginal, numeric.Subtract)
	}
	if nb.Category == models.ProcessedResourceBuilding {
		for _, res := range nb.PerSecondResourceUsed.Names() {
			adjustRate(next.Resources[res], nb.PerSecondResourceUsed[res].Current, numeric.Add)
		}
	}

	nb.Amount = last
	e.rescale(nb)
	return next, nil
}

// rescale recomputes the current columns of a building for its amount.
// Population is spent once per unit, so its price does not grow.
func (e *Economy) rescale(b *models.Building) {
	for res, pair := range b.CostValues {
		if res == models.Population {
			continue
		}
		pair.Current = numeric.Scale(pair.Base, b.Amount, e.config.CostMultiplier)
		b.CostValues[res] = pair
	}
	for res, pair := range b.IncreaseValues {
		pair.Current = numeric.Scale(pair.Base, b.Amount, e.config.ProductionMultiplier)
		b.IncreaseValues[res] = pair
	}
}
