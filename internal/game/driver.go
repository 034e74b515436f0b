package game

import (
	"fmt"

	"github.com/napolitain/hamlet/internal/models"
	"github.com/napolitain/hamlet/internal/numeric"
)

// Click gathers a resource by hand, yielding its per-click amount.
// Crafted resources first pay their production costs for every unit made;
// if the stock cannot cover them an *InsufficientResourcesError is returned.
// Locked resources and resources with no per-click yield are left untouched.
func (e *Economy) Click(s *models.GameState, name models.ResourceName) (*models.GameState, error) {
	r, err := resourceOf(s, name)
	if err != nil {
		return s, err
	}
	yield := r.ProductionValues.PerClick
	if !r.IsUnlocked || yield <= 0 {
		return s, nil
	}
	if err := shortfall(s, string(name), r.ProductionCosts, yield); err != nil {
		return s, err
	}

	next := s.Clone()
	for _, res := range r.ProductionCosts.Names() {
		src := next.Resources[res]
		src.Stored = numeric.Subtract(src.Stored, numeric.Multiply(r.ProductionCosts[res].Current, yield))
	}
	credit(next.Resources[name], yield)
	return next, nil
}

// Tick advances the idle economy by seconds of elapsed time.
//
// Each unlocked resource accrues its per-second rate times its multiplier.
// A negative rate drains the stock all-or-nothing, mirroring Consume. After
// production every auto-selling resource sells its whole stock.
func (e *Economy) Tick(s *models.GameState, seconds float64) (*models.GameState, error) {
	if err := checkAmount(seconds); err != nil {
		return s, fmt.Errorf("tick: %w", err)
	}
	if seconds == 0 {
		return s, nil
	}

	next := s.Clone()
	for _, name := range next.ResourceNames() {
		r := next.Resources[name]
		if !r.IsUnlocked {
			continue
		}
		rate := numeric.Multiply(r.ProductionValues.PerSecond, r.ProductionValues.Multiplier)
		delta := numeric.Multiply(rate, seconds)
		switch {
		case delta > 0:
			credit(r, delta)
		case delta < 0 && -delta <= r.Stored:
			r.Stored = numeric.Subtract(r.Stored, -delta)
		}
	}

	for _, name := range next.ResourceNames() {
		r := next.Resources[name]
		if !r.IsAutoSelling || r.Stored <= 0 {
			continue
		}
		sold, err := e.Sell(next, name, r.Stored)
		if err != nil {
			return s, fmt.Errorf("tick: auto-sell %s: %w", name, err)
		}
		next = sold
	}
	return next, nil
}
