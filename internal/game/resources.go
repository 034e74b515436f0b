package game

import (
	"fmt"

	"github.com/napolitain/hamlet/internal/models"
	"github.com/napolitain/hamlet/internal/numeric"
)

// Produce adds amount to a resource's stock, capped at its max storage.
// Locked resources are left untouched.
func (e *Economy) Produce(s *models.GameState, name models.ResourceName, amount float64) (*models.GameState, error) {
	if err := checkAmount(amount); err != nil {
		return s, err
	}
	r, err := resourceOf(s, name)
	if err != nil {
		return s, err
	}
	if !r.IsUnlocked {
		return s, nil
	}
	next := s.Clone()
	credit(next.Resources[name], amount)
	return next, nil
}

// Consume removes amount from a resource's stock. It is all-or-nothing: if
// the stock cannot cover amount, nothing changes.
func (e *Economy) Consume(s *models.GameState, name models.ResourceName, amount float64) (*models.GameState, error) {
	if err := checkAmount(amount); err != nil {
		return s, err
	}
	r, err := resourceOf(s, name)
	if err != nil {
		return s, err
	}
	if amount > r.Stored {
		return s, nil
	}
	next := s.Clone()
	nr := next.Resources[name]
	nr.Stored = numeric.Subtract(nr.Stored, amount)
	return next, nil
}

// Sell trades amount units of a resource for gold and awards the
// resource's flat experience value once per sale.
func (e *Economy) Sell(s *models.GameState, name models.ResourceName, amount float64) (*models.GameState, error) {
	if err := checkAmount(amount); err != nil {
		return s, err
	}
	r, err := resourceOf(s, name)
	if err != nil {
		return s, err
	}
	if !r.IsUnlocked || !r.Sellable() || amount > r.Stored {
		return s, nil
	}
	gold, err := resourceOf(s, models.Gold)
	if err != nil {
		return s, err
	}

	next := s.Clone()
	nr := next.Resources[name]
	nr.Stored = numeric.Subtract(nr.Stored, amount)
	credit(next.Resources[gold.Name], numeric.Multiply(nr.SellValues.Gold, amount))
	e.addExp(next, nr.SellValues.Exp)
	return next, nil
}

// IncreaseProduction raises a resource's per-second rate. Locked resources
// are left untouched.
func (e *Economy) IncreaseProduction(s *models.GameState, name models.ResourceName, amount float64) (*models.GameState, error) {
	return e.adjustProduction(s, name, amount, numeric.Add)
}

// DecreaseProduction lowers a resource's per-second rate. Locked resources
// are left untouched.
func (e *Economy) DecreaseProduction(s *models.GameState, name models.ResourceName, amount float64) (*models.GameState, error) {
	return e.adjustProduction(s, name, amount, numeric.Subtract)
}

func (e *Economy) adjustProduction(s *models.GameState, name models.ResourceName, amount float64, op func(a, b float64) float64) (*models.GameState, error) {
	if err := checkAmount(amount); err != nil {
		return s, err
	}
	r, err := resourceOf(s, name)
	if err != nil {
		return s, err
	}
	if !r.IsUnlocked {
		return s, nil
	}
	next := s.Clone()
	adjustRate(next.Resources[name], amount, op)
	return next, nil
}

// adjustRate changes the per-second rate of a resource in a working clone
func adjustRate(r *models.Resource, amount float64, op func(a, b float64) float64) {
	if r == nil || !r.IsUnlocked {
		return
	}
	r.ProductionValues.PerSecond = op(r.ProductionValues.PerSecond, amount)
}

// SetAutoSell turns automatic selling of a resource on or off
func (e *Economy) SetAutoSell(s *models.GameState, name models.ResourceName, enabled bool) (*models.GameState, error) {
	r, err := resourceOf(s, name)
	if err != nil {
		return s, err
	}
	if !r.Sellable() {
		return s, fmt.Errorf("%w: %s", ErrNotSellable, name)
	}
	if r.IsAutoSelling == enabled {
		return s, nil
	}
	next := s.Clone()
	next.Resources[name].IsAutoSelling = enabled
	return next, nil
}
