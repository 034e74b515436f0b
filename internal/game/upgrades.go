package game

import (
	"fmt"
	"sort"

	"github.com/napolitain/hamlet/internal/models"
	"github.com/napolitain/hamlet/internal/numeric"
)

// BuyUpgrade purchases a one-time upgrade for its gold cost and applies its
// effects. Locked or already purchased upgrades are left untouched.
func (e *Economy) BuyUpgrade(s *models.GameState, name models.UpgradeName) (*models.GameState, error) {
	u, ok := s.Upgrades[name]
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrUnknownUpgrade, name)
	}
	if !u.IsUnlocked || u.IsPurchased {
		return s, nil
	}
	gold, err := resourceOf(s, models.Gold)
	if err != nil {
		return s, err
	}
	if gold.Stored < u.Cost {
		return s, &InsufficientResourcesError{Item: string(name), Resource: models.Gold, Required: u.Cost, Available: gold.Stored}
	}

	next := s.Clone()
	ng := next.Resources[models.Gold]
	ng.Stored = numeric.Subtract(ng.Stored, u.Cost)

	for _, res := range effectTargets(u.Effects) {
		magnitude := u.Effects[res]
		switch u.Type {
		case models.ProductionUpgrade:
			if r, ok := next.Resources[res]; ok {
				r.ProductionValues.Multiplier = numeric.Add(r.ProductionValues.Multiplier, magnitude)
			}
		case models.MaxStorageUpgrade:
			raiseStorage(next.Resources[res], magnitude)
		case models.PopulationUpgrade:
			raiseStorage(next.Resources[models.Population], magnitude)
		default:
			return s, fmt.Errorf("upgrade %s: unsupported type %q", name, u.Type)
		}
	}

	next.Upgrades[name].IsPurchased = true
	return next, nil
}

func raiseStorage(r *models.Resource, amount float64) {
	if r == nil || r.MaxStorage == nil {
		return
	}
	v := numeric.Add(*r.MaxStorage, amount)
	r.MaxStorage = &v
}

func effectTargets(effects map[models.ResourceName]float64) []models.ResourceName {
	names := make([]models.ResourceName, 0, len(effects))
	for k := range effects {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
