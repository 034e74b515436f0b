package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/napolitain/hamlet/internal/game"
	"github.com/napolitain/hamlet/internal/loader"
	"github.com/napolitain/hamlet/internal/models"
	"github.com/napolitain/hamlet/internal/saves"
)

// session is one loaded save slot
type session struct {
	econ  *game.Economy
	store saves.Store
	slot  string
	state *models.GameState
	fresh bool // No save existed yet
}

func openSession(ctx context.Context, opts *options, s3 saves.S3Config) (*session, error) {
	catalog, err := loader.LoadCatalogOrDefault(opts.dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	econ, err := game.NewEconomy(catalog)
	if err != nil {
		return nil, err
	}
	if err := saves.ValidateSlot(opts.slot); err != nil {
		return nil, err
	}
	store, err := saves.Open(ctx, opts.saveOptions(s3))
	if err != nil {
		return nil, fmt.Errorf("failed to open save store: %w", err)
	}

	s := &session{econ: econ, store: store, slot: opts.slot}
	snap, err := store.Load(ctx, opts.slot)
	switch {
	case err == nil:
		s.state = snap.State
	case errors.Is(err, saves.ErrNotFound):
		s.state = econ.NewGame()
		s.fresh = true
	default:
		store.Close()
		return nil, err
	}
	return s, nil
}

func (s *session) save(ctx context.Context) error {
	if _, err := s.store.Save(ctx, s.slot, s.state); err != nil {
		return fmt.Errorf("failed to save %s: %w", s.slot, err)
	}
	return nil
}

func (s *session) close() { s.store.Close() }
