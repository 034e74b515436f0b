// Package service owns the live game: it serializes access to the current
// state, advances it with wall-clock time and persists it to a save slot.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/napolitain/hamlet/internal/clock"
	"github.com/napolitain/hamlet/internal/game"
	"github.com/napolitain/hamlet/internal/models"
	"github.com/napolitain/hamlet/internal/planner"
	"github.com/napolitain/hamlet/internal/saves"
)

// finalSaveTimeout bounds the save Run performs on shutdown
const finalSaveTimeout = 5 * time.Second

// Listener receives a private copy of the state after every change
type Listener func(*models.GameState)

type Options struct {
	Store            saves.Store // Optional; Save and Load fail without one
	Slot             string
	TickInterval     time.Duration
	AutoSaveInterval time.Duration // 0 disables periodic saves
	Clock            clock.Clock
	Logger           *slog.Logger
}

type GameService struct {
	mu          sync.Mutex
	econ        *game.Economy
	opts        Options
	log         *slog.Logger
	st          *models.GameState
	lastSettled time.Time
	listeners   []Listener
}

// ErrNoStore is returned by Save and Load when no store is configured
var ErrNoStore = errors.New("no save store configured")

func New(econ *game.Economy, initial *models.GameState, opts Options) *GameService {
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Slot == "" {
		opts.Slot = econ.Config().AutoSaveKey
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if initial == nil {
		initial = econ.NewGame()
	}
	return &GameService{
		econ:        econ,
		opts:        opts,
		log:         opts.Logger.With("slot", opts.Slot),
		st:          initial,
		lastSettled: opts.Clock.Now(),
	}
}

// Economy returns the rules the service plays by
func (s *GameService) Economy() *game.Economy { return s.econ }

// Subscribe registers fn to be called after every state change
func (s *GameService) Subscribe(fn Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// State returns a copy of the current state
func (s *GameService) State() *models.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Clone()
}

// settleStep is the granularity of settled time. Production is credited in
// whole steps and the remainder carries over to the next settle, so frequent
// operations never round small deltas away.
const settleStep = time.Second

// Settle ticks the game forward by the whole seconds elapsed since the last
// settle and returns the number of seconds applied.
func (s *GameService) Settle() (float64, error) {
	s.mu.Lock()
	elapsed, changed, err := s.settleLocked()
	snap, listeners := s.snapshotLocked(changed)
	s.mu.Unlock()

	notify(listeners, snap)
	return elapsed, err
}

func (s *GameService) settleLocked() (float64, bool, error) {
	due := s.opts.Clock.Now().Sub(s.lastSettled).Truncate(settleStep)
	if due <= 0 {
		return 0, false, nil
	}
	elapsed := due.Seconds()
	next, err := s.econ.Tick(s.st, elapsed)
	if err != nil {
		return 0, false, err
	}
	s.lastSettled = s.lastSettled.Add(due)
	changed := s.replaceLocked("tick", next)
	return elapsed, changed, nil
}

// replaceLocked installs next as the current state and reports whether it
// differs from the previous one.
func (s *GameService) replaceLocked(op string, next *models.GameState) bool {
	prev := s.st
	if next == prev {
		return false
	}
	s.st = next
	if next.Player.Level > prev.Player.Level {
		s.log.Info("level up", "level", next.Player.Level, "exp_to_next", next.Player.ExpToNextLevel)
	}
	s.log.Debug("state changed", "op", op)
	return true
}

func (s *GameService) snapshotLocked(changed bool) (*models.GameState, []Listener) {
	if !changed || len(s.listeners) == 0 {
		return nil, nil
	}
	return s.st.Clone(), append([]Listener(nil), s.listeners...)
}

func notify(listeners []Listener, snap *models.GameState) {
	for _, fn := range listeners {
		fn(snap)
	}
}

// apply settles elapsed time, then runs op against the current state
func (s *GameService) apply(name string, op func(*models.GameState) (*models.GameState, error), attrs ...any) (*models.GameState, error) {
	s.mu.Lock()
	_, settled, err := s.settleLocked()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	next, err := op(s.st)
	if err != nil {
		snap, listeners := s.snapshotLocked(settled)
		s.mu.Unlock()
		notify(listeners, snap)
		s.log.Debug("operation rejected", append([]any{"op", name, "err", err}, attrs...)...)
		return nil, err
	}

	changed := s.replaceLocked(name, next)
	out := s.st.Clone()
	snap, listeners := s.snapshotLocked(changed || settled)
	s.mu.Unlock()

	notify(listeners, snap)
	return out, nil
}

func (s *GameService) Click(name models.ResourceName) (*models.GameState, error) {
	return s.apply("click", func(st *models.GameState) (*models.GameState, error) {
		return s.econ.Click(st, name)
	}, "resource", name)
}

func (s *GameService) Sell(name models.ResourceName, amount float64) (*models.GameState, error) {
	return s.apply("sell", func(st *models.GameState) (*models.GameState, error) {
		return s.econ.Sell(st, name, amount)
	}, "resource", name, "amount", amount)
}

func (s *GameService) SetAutoSell(name models.ResourceName, enabled bool) (*models.GameState, error) {
	return s.apply("autosell", func(st *models.GameState) (*models.GameState, error) {
		return s.econ.SetAutoSell(st, name, enabled)
	}, "resource", name, "enabled", enabled)
}

func (s *GameService) SetName(name string) (*models.GameState, error) {
	return s.apply("rename", func(st *models.GameState) (*models.GameState, error) {
		return s.econ.SetName(st, name)
	})
}

func (s *GameService) BuyBuilding(name models.BuildingName) (*models.GameState, error) {
	return s.apply("buy_building", func(st *models.GameState) (*models.GameState, error) {
		next, err := s.econ.BuyBuilding(st, name)
		if err == nil && next != st {
			s.log.Info("building bought", "building", name, "amount", next.Buildings[name].Amount)
		}
		return next, err
	}, "building", name)
}

func (s *GameService) SellBuilding(name models.BuildingName) (*models.GameState, error) {
	return s.apply("sell_building", func(st *models.GameState) (*models.GameState, error) {
		next, err := s.econ.SellBuilding(st, name)
		if err == nil && next != st {
			s.log.Info("building sold", "building", name, "amount", next.Buildings[name].Amount)
		}
		return next, err
	}, "building", name)
}

func (s *GameService) BuyUpgrade(name models.UpgradeName) (*models.GameState, error) {
	return s.apply("buy_upgrade", func(st *models.GameState) (*models.GameState, error) {
		next, err := s.econ.BuyUpgrade(st, name)
		if err == nil && next != st {
			s.log.Info("upgrade bought", "upgrade", name)
		}
		return next, err
	}, "upgrade", name)
}

// Plan runs the greedy planner from the current state
func (s *GameService) Plan(opts planner.Options) (*planner.Plan, error) {
	return planner.New(s.econ, opts).Plan(s.State())
}

// Save writes the current state to the configured slot
func (s *GameService) Save(ctx context.Context) (saves.Snapshot, error) {
	if s.opts.Store == nil {
		return saves.Snapshot{}, ErrNoStore
	}
	snap, err := s.opts.Store.Save(ctx, s.opts.Slot, s.State())
	if err != nil {
		return saves.Snapshot{}, fmt.Errorf("save %s: %w", s.opts.Slot, err)
	}
	s.log.Debug("game saved", "revision", snap.Revision)
	return snap, nil
}

// Load replaces the current state with the one saved in the configured
// slot. Time spent offline is not replayed.
func (s *GameService) Load(ctx context.Context) error {
	if s.opts.Store == nil {
		return ErrNoStore
	}
	snap, err := s.opts.Store.Load(ctx, s.opts.Slot)
	if err != nil {
		return fmt.Errorf("load %s: %w", s.opts.Slot, err)
	}

	s.mu.Lock()
	s.st = snap.State
	s.lastSettled = s.opts.Clock.Now()
	out, listeners := s.snapshotLocked(true)
	s.mu.Unlock()

	notify(listeners, out)
	s.log.Info("game loaded", "revision", snap.Revision, "saved_at", snap.SavedAt)
	return nil
}

// Run settles the game every TickInterval and saves every AutoSaveInterval
// until ctx is done, then saves one last time.
func (s *GameService) Run(ctx context.Context) error {
	tick := time.NewTicker(s.opts.TickInterval)
	defer tick.Stop()

	var autosave <-chan time.Time
	if s.opts.Store != nil && s.opts.AutoSaveInterval > 0 {
		t := time.NewTicker(s.opts.AutoSaveInterval)
		defer t.Stop()
		autosave = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return s.shutdown(ctx)
		case <-tick.C:
			if _, err := s.Settle(); err != nil {
				s.log.Error("tick failed", "err", err)
			}
		case <-autosave:
			if _, err := s.Save(ctx); err != nil {
				s.log.Error("autosave failed", "err", err)
			}
		}
	}
}

func (s *GameService) shutdown(ctx context.Context) error {
	if _, err := s.Settle(); err != nil {
		s.log.Error("final tick failed", "err", err)
	}
	if s.opts.Store == nil {
		return nil
	}
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finalSaveTimeout)
	defer cancel()
	if _, err := s.Save(saveCtx); err != nil {
		return err
	}
	s.log.Info("game saved on shutdown")
	return nil
}
