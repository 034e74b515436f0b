// Package saves persists game states in named slots.
package saves

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/napolitain/hamlet/internal/models"
)

var (
	// ErrNotFound is returned when a slot has never been saved
	ErrNotFound = errors.New("save slot not found")
	// ErrInvalidSlot is returned for slot names outside [A-Za-z0-9_-]{1,64}
	ErrInvalidSlot = errors.New("invalid save slot name")
)

var slotRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Snapshot is one saved game
type Snapshot struct {
	Slot     string            `json:"slot" yaml:"slot"`
	Revision string            `json:"revision" yaml:"revision"`
	SavedAt  time.Time         `json:"saved_at" yaml:"saved_at"`
	State    *models.GameState `json:"state" yaml:"state"`
}

// Store saves and restores game states by slot name
type Store interface {
	Save(ctx context.Context, slot string, state *models.GameState) (Snapshot, error)
	Load(ctx context.Context, slot string) (Snapshot, error)
	List(ctx context.Context) ([]string, error)
	Close() error
}

// ValidateSlot checks a slot name can be used as a file name or object key
func ValidateSlot(slot string) error {
	if !slotRegex.MatchString(slot) {
		return fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}
	return nil
}

func newSnapshot(slot string, state *models.GameState, now time.Time) (Snapshot, error) {
	if err := ValidateSlot(slot); err != nil {
		return Snapshot{}, err
	}
	if state == nil {
		return Snapshot{}, errors.New("save: nil state")
	}
	return Snapshot{
		Slot:     slot,
		Revision: uuid.NewString(),
		SavedAt:  now.UTC(),
		State:    state.Clone(),
	}, nil
}

func notFound(slot string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, slot)
}
