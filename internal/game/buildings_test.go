package game

import (
	"errors"
	"reflect"
	"testing"

	"github.com/napolitain/hamlet/internal/models"
)

func TestBuyBuilding(t *testing.T) {
	econ, s := newTestEconomy(t)
	s = stock(s, starterStock())

	s = must(t)(econ.BuyBuilding(s, models.Woodcutter))

	wc := s.Buildings[models.Woodcutter]
	if wc.Amount != 1 {
		t.Errorf("Amount = %d, want 1", wc.Amount)
	}

	want := map[models.ResourceName]float64{
		models.Wood:       90,
		models.Gold:       90,
		models.Population: 9,
		models.Stone:      100,
	}
	for name, v := range want {
		if got := s.Stored(name); got != v {
			t.Errorf("%s = %v, want %v", name, got, v)
		}
	}

	if got := s.Resources[models.Wood].ProductionValues.PerSecond; got != 1 {
		t.Errorf("Wood per second = %v, want 1", got)
	}
	if got := wc.CostValues[models.Wood].Current; got != 10.7 {
		t.Errorf("next Wood cost = %v, want 10.7", got)
	}
	if got := wc.CostValues[models.Population].Current; got != 1 {
		t.Errorf("next Population cost = %v, want 1 (unscaled)", got)
	}
	if got := wc.IncreaseValues[models.Wood].Current; got != 1.05 {
		t.Errorf("next Wood increase = %v, want 1.05", got)
	}
}

func TestBuyBuildingInsufficientResources(t *testing.T) {
	econ, s := newTestEconomy(t)
	s = stock(s, map[models.ResourceName]float64{models.Wood: 100, models.Population: 10, models.Gold: 5})

	next, err := econ.BuyBuilding(s, models.Woodcutter)
	if !errors.Is(err, ErrInsufficientResources) {
		t.Fatalf("error = %v, want ErrInsufficientResources", err)
	}
	var ire *InsufficientResourcesError
	if !errors.As(err, &ire) {
		t.Fatalf("error %T is not *InsufficientResourcesError", err)
	}
	if ire.Item != string(models.Woodcutter) || ire.Resource != models.Gold {
		t.Errorf("error names %s/%s, want WOODCUTTER/GOLD", ire.Item, ire.Resource)
	}
	if ire.Required != 10 || ire.Available != 5 {
		t.Errorf("Required/Available = %v/%v, want 10/5", ire.Required, ire.Available)
	}

	if next != s {
		t.Error("failed purchase returned a new state")
	}
	if s.Stored(models.Wood) != 100 || s.Buildings[models.Woodcutter].Amount != 0 {
		t.Error("failed purchase changed balances")
	}
}

func TestInsufficientResourcesNamesFirstByName(t *testing.T) {
	econ, s := newTestEconomy(t)
	// Both GOLD and POPULATION are short; names are checked in sorted order
	s = stock(s, map[models.ResourceName]float64{models.Wood: 100, models.Population: 0, models.Gold: 5})

	_, err := econ.BuyBuilding(s, models.Woodcutter)
	var ire *InsufficientResourcesError
	if !errors.As(err, &ire) {
		t.Fatalf("error = %v, want *InsufficientResourcesError", err)
	}
	if ire.Resource != models.Gold {
		t.Errorf("first missing resource = %s, want GOLD", ire.Resource)
	}
}

func TestBuyLockedBuildingIsNoop(t *testing.T) {
	econ, s := newTestEconomy(t)
	s = stock(s, starterStock())

	next := must(t)(econ.BuyBuilding(s, models.Farm))
	if next != s || next.Buildings[models.Farm].Amount != 0 {
		t.Error("locked Farm was bought")
	}
}

func TestBuyThenSellBuilding(t *testing.T) {
	econ, s := newTestEconomy(t)
	s = stock(s, starterStock())

	s = must(t)(econ.BuyBuilding(s, models.Woodcutter))
	s = must(t)(econ.SellBuilding(s, models.Woodcutter))

	if got := s.Stored(models.Gold); got != 95 {
		t.Errorf("Gold = %v, want 95 (half refund)", got)
	}
	if got := s.Buildings[models.Woodcutter].Amount; got != 0 {
		t.Errorf("Amount = %d, want 0", got)
	}
	if got := s.Resources[models.Wood].ProductionValues.PerSecond; got != 0 {
		t.Errorf("Wood per second = %v, want 0", got)
	}
}

func TestSellSecondBuilding(t *testing.T) {
	econ, s := newTestEconomy(t)
	s = stock(s, starterStock())

	s = must(t)(econ.BuyBuilding(s, models.Woodcutter))
	s = must(t)(econ.BuyBuilding(s, models.Woodcutter))
	if got := s.Resources[models.Wood].ProductionValues.PerSecond; got != 2.05 {
		t.Fatalf("Wood per second = %v, want 2.05", got)
	}
	if got := s.Stored(models.Gold); got != 79.3 {
		t.Fatalf("Gold = %v, want 79.3", got)
	}

	s = must(t)(econ.SellBuilding(s, models.Woodcutter))
	if got := s.Resources[models.Wood].ProductionValues.PerSecond; got != 1 {
		t.Errorf("Wood per second = %v, want 1", got)
	}
	if got := s.Stored(models.Gold); got != 84.65 {
		t.Errorf("Gold = %v, want 84.65", got)
	}
	if got := s.Buildings[models.Woodcutter].CostValues[models.Gold].Current; got != 10.7 {
		t.Errorf("Gold cost = %v, want 10.7", got)
	}
}

func TestSellBuildingWithNoUnits(t *testing.T) {
	econ, s := newTestEconomy(t)

	next := must(t)(econ.SellBuilding(s, models.Woodcutter))
	if next != s {
		t.Error("selling zero units returned a new state")
	}
}

func TestBuySellRoundTrip(t *testing.T) {
	for k := 0; k < 5; k++ {
		econ, s := newTestEconomy(t)
		for name := range s.Resources {
			s.Resources[name].MaxStorage = nil
			s.Resources[name].Stored = 10000
		}
		for i := 0; i < k; i++ {
			s = must(t)(econ.BuyBuilding(s, models.Quarry))
		}
		before := s.Buildings[models.Quarry].Clone()
		rate := s.Resources[models.Stone].ProductionValues.PerSecond

		s = must(t)(econ.BuyBuilding(s, models.Quarry))
		s = must(t)(econ.SellBuilding(s, models.Quarry))

		after := s.Buildings[models.Quarry]
		if !reflect.DeepEqual(before.CostValues, after.CostValues) {
			t.Errorf("k=%d: CostValues = %v, want %v", k, after.CostValues, before.CostValues)
		}
		if !reflect.DeepEqual(before.IncreaseValues, after.IncreaseValues) {
			t.Errorf("k=%d: IncreaseValues = %v, want %v", k, after.IncreaseValues, before.IncreaseValues)
		}
		if got := s.Resources[models.Stone].ProductionValues.PerSecond; got != rate {
			t.Errorf("k=%d: Stone per second = %v, want %v", k, got, rate)
		}
	}
}

func TestProcessedBuildingDrawsUpstream(t *testing.T) {
	econ, s := newTestEconomy(t)
	for i := 0; i < 4; i++ {
		s = must(t)(econ.AddExp(s, 500))
	}
	s = stock(s, starterStock())

	s = must(t)(econ.BuyBuilding(s, models.Woodcutter))
	s = must(t)(econ.BuyBuilding(s, models.LumberMill))

	if got := s.Resources[models.Plank].ProductionValues.PerSecond; got != 1 {
		t.Errorf("Plank per second = %v, want 1", got)
	}
	if got := s.Resources[models.Wood].ProductionValues.PerSecond; got != -4 {
		t.Errorf("Wood per second = %v, want -4", got)
	}

	s = must(t)(econ.SellBuilding(s, models.LumberMill))
	if got := s.Resources[models.Plank].ProductionValues.PerSecond; got != 0 {
		t.Errorf("Plank per second after sell = %v, want 0", got)
	}
	if got := s.Resources[models.Wood].ProductionValues.PerSecond; got != 1 {
		t.Errorf("Wood per second after sell = %v, want 1", got)
	}
}
