// Package game implements the economy rules as pure state transitions.
//
// Every operation takes a *models.GameState and returns the successor state.
// The input is never modified: a rejected or no-op call returns the input
// itself, anything else returns a fresh clone carrying the changes.
package game

import (
	"fmt"

	"github.com/napolitain/hamlet/internal/models"
	"github.com/napolitain/hamlet/internal/numeric"
)

// Economy applies the rules of one catalog
type Economy struct {
	catalog *models.Catalog
	config  models.GameConfig
	unlocks map[int]models.LevelUnlock
}

// NewEconomy validates the catalog and indexes its unlock schedule
func NewEconomy(catalog *models.Catalog) (*Economy, error) {
	if catalog == nil {
		return nil, fmt.Errorf("%w: nil catalog", models.ErrInvalidCatalog)
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	unlocks := make(map[int]models.LevelUnlock, len(catalog.LevelUnlocks))
	for _, lu := range catalog.LevelUnlocks {
		unlocks[lu.Level] = lu
	}
	return &Economy{catalog: catalog, config: catalog.Config, unlocks: unlocks}, nil
}

// Config returns the tuning constants in use
func (e *Economy) Config() models.GameConfig { return e.config }

// Catalog returns the catalog the economy was built from
func (e *Economy) Catalog() *models.Catalog { return e.catalog }

// NewGame returns a fresh state for the catalog
func (e *Economy) NewGame() *models.GameState { return e.catalog.NewGameState() }

func resourceOf(s *models.GameState, name models.ResourceName) (*models.Resource, error) {
	r, ok := s.Resources[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownResource, name)
	}
	return r, nil
}

func buildingOf(s *models.GameState, name models.BuildingName) (*models.Building, error) {
	b, ok := s.Buildings[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBuilding, name)
	}
	return b, nil
}

// shortfall returns an error naming the first resource (in name order) whose
// stock cannot cover factor times its current cost.
func shortfall(s *models.GameState, item string, costs models.ScalingTable, factor float64) error {
	for _, name := range costs.Names() {
		r, err := resourceOf(s, name)
		if err != nil {
			return err
		}
		need := numeric.Multiply(costs[name].Current, factor)
		if r.Stored < need {
			return &InsufficientResourcesError{Item: item, Resource: name, Required: need, Available: r.Stored}
		}
	}
	return nil
}

// credit adds amount to a resource held in a working clone, respecting the
// storage cap.
func credit(r *models.Resource, amount float64) {
	r.Stored = numeric.Add(r.Stored, amount)
	if r.MaxStorage != nil && r.Stored > *r.MaxStorage {
		r.Stored = *r.MaxStorage
	}
}
