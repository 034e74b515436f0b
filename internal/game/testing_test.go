package game

import (
	"testing"

	"github.com/napolitain/hamlet/internal/models"
)

func newTestEconomy(t *testing.T) (*Economy, *models.GameState) {
	t.Helper()
	econ, err := NewEconomy(models.DefaultCatalog())
	if err != nil {
		t.Fatalf("NewEconomy() error = %v", err)
	}
	return econ, econ.NewGame()
}

// stock sets stored amounts directly on a state owned by the test
func stock(s *models.GameState, amounts map[models.ResourceName]float64) *models.GameState {
	for name, v := range amounts {
		s.Resources[name].Stored = v
	}
	return s
}

// must unwraps an operation result, failing the test on error:
// s = must(t)(econ.Produce(s, models.Wood, 5))
func must(t *testing.T) func(*models.GameState, error) *models.GameState {
	return func(s *models.GameState, err error) *models.GameState {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return s
	}
}

func starterStock() map[models.ResourceName]float64 {
	return map[models.ResourceName]float64{
		models.Wood:       100,
		models.Stone:      100,
		models.Gold:       100,
		models.Population: 10,
	}
}
