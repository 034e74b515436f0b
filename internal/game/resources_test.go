package game

import (
	"errors"
	"testing"

	"github.com/napolitain/hamlet/internal/models"
)

func TestProduce(t *testing.T) {
	econ, s := newTestEconomy(t)

	s = must(t)(econ.Produce(s, models.Wood, 1))
	if got := s.Stored(models.Wood); got != 1 {
		t.Errorf("Wood = %v, want 1", got)
	}

	s = must(t)(econ.Produce(s, models.Stone, 10.125))
	if got := s.Stored(models.Stone); got != 10.13 {
		t.Errorf("Stone = %v, want 10.13", got)
	}
}

func TestProduceClampsToMaxStorage(t *testing.T) {
	econ, s := newTestEconomy(t)

	s = must(t)(econ.Produce(s, models.Wood, 101))
	if got := s.Stored(models.Wood); got != 100 {
		t.Errorf("Wood = %v, want 100", got)
	}

	s = must(t)(econ.Produce(s, models.Gold, 1e6))
	if got := s.Stored(models.Gold); got != 1e6 {
		t.Errorf("Gold = %v, want unbounded 1e6", got)
	}
}

func TestProduceLockedIsNoop(t *testing.T) {
	econ, s := newTestEconomy(t)

	next, err := econ.Produce(s, models.Iron, 10)
	if err != nil {
		t.Fatalf("Produce() error = %v", err)
	}
	if next != s {
		t.Error("Produce on locked resource returned a new state")
	}
	if got := next.Stored(models.Iron); got != 0 {
		t.Errorf("Iron = %v, want 0", got)
	}
}

func TestProduceDoesNotMutateInput(t *testing.T) {
	econ, s := newTestEconomy(t)

	next := must(t)(econ.Produce(s, models.Wood, 5))
	if s.Stored(models.Wood) != 0 {
		t.Errorf("input Wood = %v, want 0", s.Stored(models.Wood))
	}
	if next.Stored(models.Wood) != 5 {
		t.Errorf("output Wood = %v, want 5", next.Stored(models.Wood))
	}
}

func TestInvalidInputs(t *testing.T) {
	econ, s := newTestEconomy(t)

	tests := []struct {
		name string
		call func() (*models.GameState, error)
		want error
	}{
		{"negative produce", func() (*models.GameState, error) { return econ.Produce(s, models.Wood, -1) }, ErrInvalidAmount},
		{"negative consume", func() (*models.GameState, error) { return econ.Consume(s, models.Wood, -1) }, ErrInvalidAmount},
		{"negative sell", func() (*models.GameState, error) { return econ.Sell(s, models.Wood, -1) }, ErrInvalidAmount},
		{"negative exp", func() (*models.GameState, error) { return econ.AddExp(s, -5) }, ErrInvalidAmount},
		{"unknown resource", func() (*models.GameState, error) { return econ.Produce(s, "MITHRIL", 1) }, ErrUnknownResource},
		{"unknown building", func() (*models.GameState, error) { return econ.BuyBuilding(s, models.Market) }, ErrUnknownBuilding},
		{"unknown upgrade", func() (*models.GameState, error) { return econ.BuyUpgrade(s, "NOPE") }, ErrUnknownUpgrade},
		{"negative tick", func() (*models.GameState, error) { return econ.Tick(s, -1) }, ErrInvalidAmount},
		{"autosell population", func() (*models.GameState, error) { return econ.SetAutoSell(s, models.Population, true) }, ErrNotSellable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.call()
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if got != s {
				t.Error("failed call returned a different state")
			}
		})
	}
}

func TestConsume(t *testing.T) {
	econ, s := newTestEconomy(t)
	s = must(t)(econ.Produce(s, models.Wood, 10))

	s = must(t)(econ.Consume(s, models.Wood, 4))
	if got := s.Stored(models.Wood); got != 6 {
		t.Errorf("Wood = %v, want 6", got)
	}

	next := must(t)(econ.Consume(s, models.Wood, 20))
	if next != s || next.Stored(models.Wood) != 6 {
		t.Errorf("over-consume changed state: Wood = %v", next.Stored(models.Wood))
	}
}

func TestSell(t *testing.T) {
	econ, s := newTestEconomy(t)
	s = must(t)(econ.Produce(s, models.Wood, 10))

	s = must(t)(econ.Sell(s, models.Wood, 5))
	if got := s.Stored(models.Wood); got != 5 {
		t.Errorf("Wood = %v, want 5", got)
	}
	if got := s.Stored(models.Gold); got != 5 {
		t.Errorf("Gold = %v, want 5", got)
	}
	if got := s.Player.Exp; got != 0.5 {
		t.Errorf("Exp = %v, want flat 0.5", got)
	}
}

func TestSellNoops(t *testing.T) {
	econ, s := newTestEconomy(t)
	s = stock(s, map[models.ResourceName]float64{models.Wood: 5, models.Population: 5, models.Iron: 5})

	tests := []struct {
		name   string
		res    models.ResourceName
		amount float64
	}{
		{"more than stored", models.Wood, 6},
		{"no sell values", models.Population, 1},
		{"locked", models.Iron, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := econ.Sell(s, tt.res, tt.amount)
			if err != nil {
				t.Fatalf("Sell() error = %v", err)
			}
			if next != s {
				t.Error("Sell returned a new state")
			}
		})
	}
}

func TestProductionAdjustments(t *testing.T) {
	econ, s := newTestEconomy(t)

	s = must(t)(econ.IncreaseProduction(s, models.Wood, 1.5))
	s = must(t)(econ.DecreaseProduction(s, models.Wood, 0.25))
	if got := s.Resources[models.Wood].ProductionValues.PerSecond; got != 1.25 {
		t.Errorf("Wood per second = %v, want 1.25", got)
	}

	next := must(t)(econ.IncreaseProduction(s, models.Iron, 1))
	if next != s {
		t.Error("IncreaseProduction on locked resource returned a new state")
	}
}

func TestSetAutoSell(t *testing.T) {
	econ, s := newTestEconomy(t)

	s = must(t)(econ.SetAutoSell(s, models.Wood, true))
	if !s.Resources[models.Wood].IsAutoSelling {
		t.Error("Wood not auto-selling")
	}
	same := must(t)(econ.SetAutoSell(s, models.Wood, true))
	if same != s {
		t.Error("idempotent SetAutoSell returned a new state")
	}
}

func FuzzProduceWithinStorage(f *testing.F) {
	f.Add(1.0, 1.0)
	f.Add(101.0, 0.0)
	f.Add(55.555, 60.0)

	f.Fuzz(func(t *testing.T, a, b float64) {
		econ, s := newTestEconomy(t)
		for _, amount := range []float64{a, b} {
			next, err := econ.Produce(s, models.Wood, amount)
			if err != nil {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("Produce(%v) error = %v", amount, err)
				}
				continue
			}
			s = next
		}
		if got := s.Stored(models.Wood); got < 0 || got > 100 {
			t.Errorf("Wood = %v, want within [0, 100]", got)
		}
	})
}
