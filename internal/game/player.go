package game

import (
	"github.com/napolitain/hamlet/internal/models"
	"github.com/napolitain/hamlet/internal/numeric"
)

// SetName replaces the player's name
func (e *Economy) SetName(s *models.GameState, name string) (*models.GameState, error) {
	next := s.Clone()
	next.Player.Name = name
	return next, nil
}

// AddExp awards experience. Reaching the threshold unlocks the next level's
// features, advances one level and resets experience to zero; any excess is
// discarded and at most one level is gained per call.
func (e *Economy) AddExp(s *models.GameState, exp float64) (*models.GameState, error) {
	if err := checkAmount(exp); err != nil {
		return s, err
	}
	next := s.Clone()
	e.addExp(next, exp)
	return next, nil
}

func (e *Economy) addExp(next *models.GameState, exp float64) {
	p := &next.Player
	p.Exp = numeric.Add(p.Exp, exp)
	if p.Exp < p.ExpToNextLevel {
		return
	}
	e.unlock(next)
	p.Level++
	p.Exp = 0
	p.ExpToNextLevel = numeric.Scale(p.ExpToNextLevel, 1, e.config.ExpMultiplier)
}

// UnlockGameFeatures unlocks everything scheduled for the level after the
// player's current one.
func (e *Economy) UnlockGameFeatures(s *models.GameState) (*models.GameState, error) {
	if _, ok := e.unlocks[s.Player.Level+1]; !ok {
		return s, nil
	}
	next := s.Clone()
	e.unlock(next)
	return next, nil
}

func (e *Economy) unlock(next *models.GameState) {
	lu, ok := e.unlocks[next.Player.Level+1]
	if !ok {
		return
	}
	for _, name := range lu.Resources {
		if r, ok := next.Resources[name]; ok {
			r.IsUnlocked = true
		}
	}
	for _, name := range lu.Buildings {
		if b, ok := next.Buildings[name]; ok {
			b.IsUnlocked = true
		}
	}
	for _, name := range lu.Upgrades {
		if u, ok := next.Upgrades[name]; ok {
			u.IsUnlocked = true
		}
	}
}
