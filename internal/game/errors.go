package game

import (
	"errors"
	"fmt"
	"math"

	"github.com/napolitain/hamlet/internal/models"
)

var (
	ErrUnknownResource       = errors.New("unknown resource")
	ErrUnknownBuilding       = errors.New("unknown building")
	ErrUnknownUpgrade        = errors.New("unknown upgrade")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrInsufficientResources = errors.New("insufficient resources")
	ErrNotSellable           = errors.New("resource cannot be sold")
)

// InsufficientResourcesError reports the first resource an item could not
// be paid with. It matches ErrInsufficientResources under errors.Is.
type InsufficientResourcesError struct {
	Item      string
	Resource  models.ResourceName
	Required  float64
	Available float64
}

func (e *InsufficientResourcesError) Error() string {
	return fmt.Sprintf("insufficient resources for %s: need %.2f %s, have %.2f",
		e.Item, e.Required, e.Resource, e.Available)
}

func (e *InsufficientResourcesError) Unwrap() error { return ErrInsufficientResources }

func checkAmount(amount float64) error {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	return nil
}
