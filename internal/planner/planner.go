// Package planner simulates an idle session ahead of time to suggest which
// buildings to buy and when.
//
// The simulation is event driven: every step the economy ticks, the player
// clicks, and a greedy decision sells surplus stock and buys the building
// with the best return on investment.
package planner

import (
	"errors"
	"fmt"

	"github.com/napolitain/hamlet/internal/game"
	"github.com/napolitain/hamlet/internal/models"
	"github.com/napolitain/hamlet/internal/numeric"
)

// ActionKind labels a step of a plan
type ActionKind string

const (
	ActionBuy     ActionKind = "buy"
	ActionSell    ActionKind = "sell"
	ActionLevelUp ActionKind = "level_up"
)

// Action is one recorded decision of a plan
type Action struct {
	Time   int        `json:"time"`
	Kind   ActionKind `json:"kind"`
	Target string     `json:"target"`
	Amount float64    `json:"amount,omitempty"`
	Level  int        `json:"level"`
	Gold   float64    `json:"gold"`
}

// Plan is the outcome of a simulation
type Plan struct {
	Actions []Action          `json:"actions"`
	Final   *models.GameState `json:"final"`
	Horizon int               `json:"horizon"`
	Clicks  int               `json:"clicks"`
}

// Purchases returns only the buy actions
func (p *Plan) Purchases() []Action {
	var out []Action
	for _, a := range p.Actions {
		if a.Kind == ActionBuy {
			out = append(out, a)
		}
	}
	return out
}

// Next returns the first purchase of the plan
func (p *Plan) Next() (Action, bool) {
	for _, a := range p.Actions {
		if a.Kind == ActionBuy {
			return a, true
		}
	}
	return Action{}, false
}

// Options tunes a simulation
type Options struct {
	Horizon       int // Seconds to simulate
	Step          int // Seconds between decisions
	ClicksPerStep int // Manual gathers per step
}

func (o Options) withDefaults() Options {
	if o.Horizon <= 0 {
		o.Horizon = DefaultHorizon
	}
	if o.Step <= 0 {
		o.Step = 1
	}
	if o.ClicksPerStep < 0 {
		o.ClicksPerStep = 0
	}
	return o
}

// Planner runs greedy simulations against an economy
type Planner struct {
	econ *game.Economy
	opts Options
}

// New creates a planner
func New(econ *game.Economy, opts Options) *Planner {
	return &Planner{econ: econ, opts: opts.withDefaults()}
}

// run is the mutable bookkeeping of one simulation
type run struct {
	econ    *game.Economy
	opts    Options
	state   *models.GameState
	now     int
	target  models.BuildingName
	rr      int
	clicks  int
	actions []Action
}

// Plan simulates from initial up to the horizon. initial is not modified.
func (p *Planner) Plan(initial *models.GameState) (*Plan, error) {
	r := &run{econ: p.econ, opts: p.opts, state: initial}
	events := NewEventQueue()
	events.Push(Event{Time: 0, Type: EventDecide})

	for !events.Empty() {
		ev := events.Pop()
		if ev.Time > r.opts.Horizon {
			break
		}

		var err error
		switch ev.Type {
		case EventTick:
			err = r.tick(ev.Time)
		case EventClick:
			err = r.click()
		case EventDecide:
			err = r.decide()
			if next := ev.Time + r.opts.Step; next <= r.opts.Horizon {
				events.Push(Event{Time: next, Type: EventTick})
				events.Push(Event{Time: next, Type: EventClick})
				events.Push(Event{Time: next, Type: EventDecide})
			}
		}
		if err != nil {
			return nil, fmt.Errorf("planner at %ds (%s): %w", ev.Time, ev.Type, err)
		}
	}

	return &Plan{
		Actions: r.actions,
		Final:   r.state,
		Horizon: r.opts.Horizon,
		Clicks:  r.clicks,
	}, nil
}

// apply swaps in a successor state and records any level gained
func (r *run) apply(next *models.GameState) {
	before := r.state.Player.Level
	r.state = next
	if next.Player.Level > before {
		r.record(ActionLevelUp, fmt.Sprintf("level %d", next.Player.Level), 0)
	}
}

func (r *run) record(kind ActionKind, target string, amount float64) {
	r.actions = append(r.actions, Action{
		Time:   r.now,
		Kind:   kind,
		Target: target,
		Amount: amount,
		Level:  r.state.Player.Level,
		Gold:   r.state.Stored(models.Gold),
	})
}

func (r *run) tick(at int) error {
	elapsed := at - r.now
	r.now = at
	if elapsed <= 0 {
		return nil
	}
	next, err := r.econ.Tick(r.state, float64(elapsed))
	if err != nil {
		return err
	}
	r.apply(next)
	return nil
}

// click gathers whatever the current target is short of, falling back to a
// round robin over the clickable base resources.
func (r *run) click() error {
	for i := 0; i < r.opts.ClicksPerStep; i++ {
		name, ok := r.clickTarget()
		if !ok {
			return nil
		}
		next, err := r.econ.Click(r.state, name)
		if err != nil {
			return err
		}
		r.clicks++
		r.apply(next)
	}
	return nil
}

func (r *run) clickable() []models.ResourceName {
	var out []models.ResourceName
	for _, name := range r.state.ResourceNames() {
		res := r.state.Resources[name]
		if res.IsUnlocked && res.Category == models.BaseResource &&
			res.ProductionValues.PerClick > 0 && len(res.ProductionCosts) == 0 && !saturated(res) {
			out = append(out, name)
		}
	}
	return out
}

func (r *run) clickTarget() (models.ResourceName, bool) {
	options := r.clickable()
	if len(options) == 0 {
		return "", false
	}
	if b, ok := r.state.Buildings[r.target]; ok {
		for _, res := range b.CostValues.Names() {
			if r.state.Stored(res) >= b.CostValues[res].Current {
				continue
			}
			for _, o := range options {
				if o == res {
					return res, true
				}
			}
		}
	}
	name := options[r.rr%len(options)]
	r.rr++
	return name, true
}

func (r *run) decide() error {
	for i := 0; i < MaxPurchasesPerDecision; i++ {
		// Selling first frees full stores, which Rank treats as worthless
		if err := r.sellSurplus(); err != nil {
			return err
		}
		ranked := Rank(r.state)
		if len(ranked) == 0 {
			r.target = ""
			break
		}
		r.target = ranked[0].Building

		next, err := r.econ.BuyBuilding(r.state, r.target)
		if err != nil {
			if errors.Is(err, game.ErrInsufficientResources) {
				break
			}
			return err
		}
		r.apply(next)
		r.record(ActionBuy, string(r.target), 1)
	}
	return nil
}

// reserve is the stock of a resource worth keeping: the most any viable
// building currently charges for it.
func (r *run) reserve(name models.ResourceName) float64 {
	var keep float64
	for _, bn := range r.state.BuildingNames() {
		b := r.state.Buildings[bn]
		if !viable(r.state, b) {
			continue
		}
		if pair, ok := b.CostValues[name]; ok && pair.Current > keep {
			keep = pair.Current
		}
	}
	return keep
}

func (r *run) sellSurplus() error {
	for _, name := range r.state.ResourceNames() {
		res := r.state.Resources[name]
		if !res.IsUnlocked || !res.Sellable() || res.IsAutoSelling {
			continue
		}
		surplus := numeric.Subtract(res.Stored, r.reserve(name))
		if surplus <= 0 || (surplus < SellBatch && !saturated(res)) {
			continue
		}
		next, err := r.econ.Sell(r.state, name, surplus)
		if err != nil {
			return err
		}
		r.apply(next)
		r.record(ActionSell, string(name), surplus)
	}
	return nil
}
