package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/napolitain/hamlet/internal/api"
	"github.com/napolitain/hamlet/internal/config"
	"github.com/napolitain/hamlet/internal/game"
	"github.com/napolitain/hamlet/internal/loader"
	"github.com/napolitain/hamlet/internal/saves"
	"github.com/napolitain/hamlet/internal/service"
)

const shutdownTimeout = 10 * time.Second

// server bundles everything one running game needs
type server struct {
	cfg   config.Config
	log   *slog.Logger
	store saves.Store
	svc   *service.GameService
	hub   *api.Hub
	http  *api.Server
}

// newServer loads the catalog, opens the save store and resumes the slot,
// starting a new game if the slot is empty.
func newServer(ctx context.Context, cfg config.Config, logger *slog.Logger) (*server, error) {
	catalog, err := loader.LoadCatalogOrDefault(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	econ, err := game.NewEconomy(catalog)
	if err != nil {
		return nil, err
	}

	store, err := saves.Open(ctx, cfg.SaveOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.SaveDriver, err)
	}

	svc := service.New(econ, nil, service.Options{
		Store:            store,
		Slot:             cfg.Slot,
		TickInterval:     cfg.TickInterval,
		AutoSaveInterval: cfg.AutoSaveInterval,
		Logger:           logger,
	})
	if err := svc.Load(ctx); err != nil {
		if !errors.Is(err, saves.ErrNotFound) {
			store.Close()
			return nil, err
		}
		logger.Info("starting a new game", "slot", cfg.Slot)
	}

	hub := api.NewHub(logger)
	return &server{
		cfg:   cfg,
		log:   logger,
		store: store,
		svc:   svc,
		hub:   hub,
		http: api.NewServer(svc, hub, api.NewMetrics(hub), api.Options{
			ClickRate:  cfg.ClickRate,
			ClickBurst: cfg.ClickBurst,
			Logger:     logger,
		}),
	}, nil
}

// run serves until ctx is done, then drains HTTP and saves the game
func (s *server) run(ctx context.Context) error {
	defer s.store.Close()

	go s.hub.Run(ctx)
	gameDone := make(chan error, 1)
	go func() { gameDone <- s.svc.Run(ctx) }()

	httpServer := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.http.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", s.cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Warn("http shutdown", "err", err)
	}
	return <-gameDone
}

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	flag.StringVar(&cfg.ListenAddr, "addr", cfg.ListenAddr, "HTTP listen address")
	flag.StringVar(&cfg.DataDir, "data", cfg.DataDir, "Path to data directory")
	driver := flag.String("store", string(cfg.SaveDriver), "Save store: memory, file, sqlite, postgres, s3")
	flag.StringVar(&cfg.SaveTarget, "target", cfg.SaveTarget, "Save directory, database path, DSN or bucket")
	flag.StringVar(&cfg.Slot, "slot", cfg.Slot, "Save slot")
	flag.DurationVar(&cfg.TickInterval, "tick", cfg.TickInterval, "Tick interval")
	flag.DurationVar(&cfg.AutoSaveInterval, "autosave", cfg.AutoSaveInterval, "Autosave interval (0 disables)")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	cfg.SaveDriver = saves.Driver(*driver)
	if *verbose {
		cfg.LogLevel = slog.LevelDebug
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := newServer(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "err", err)
		os.Exit(1)
	}
	if err := srv.run(ctx); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
