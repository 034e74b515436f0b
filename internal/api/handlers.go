// Package api serves a live game over HTTP: JSON endpoints for every player
// action, a websocket stream of state snapshots and Prometheus metrics.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/napolitain/hamlet/internal/game"
	"github.com/napolitain/hamlet/internal/models"
	"github.com/napolitain/hamlet/internal/planner"
	"github.com/napolitain/hamlet/internal/service"
)

// ErrRateLimited is reported to clients that click too fast
var ErrRateLimited = errors.New("rate limited")

// maxPlanHorizon caps the simulated seconds of GET /api/plan
const maxPlanHorizon = 24 * 3600

type Options struct {
	ClickRate  float64
	ClickBurst int
	Logger     *slog.Logger
}

// Server routes HTTP requests to a GameService
type Server struct {
	svc     *service.GameService
	hub     *Hub
	metrics *Metrics
	clicks  *limiters
	log     *slog.Logger
}

// Request bodies

type nameRequest struct {
	Name string `json:"name"`
}

type sellRequest struct {
	Amount *float64 `json:"amount"`
}

type autoSellRequest struct {
	Enabled *bool `json:"enabled"`
}

// Responses

type stateResponse struct {
	State *models.GameState `json:"state"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type saveResponse struct {
	Slot     string    `json:"slot"`
	Revision string    `json:"revision"`
	SavedAt  time.Time `json:"saved_at"`
}

// NewServer wires the handlers and subscribes to state changes, which are
// mirrored into metrics and pushed to websocket clients.
func NewServer(svc *service.GameService, hub *Hub, metrics *Metrics, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.ClickRate <= 0 {
		opts.ClickRate = 10
	}
	if opts.ClickBurst <= 0 {
		opts.ClickBurst = 20
	}
	s := &Server{
		svc:     svc,
		hub:     hub,
		metrics: metrics,
		clicks:  newLimiters(opts.ClickRate, opts.ClickBurst),
		log:     opts.Logger,
	}
	metrics.Observe(svc.State())
	svc.Subscribe(s.publish)
	return s
}

func (s *Server) publish(st *models.GameState) {
	s.metrics.Observe(st)
	if err := s.hub.Publish(MessageState, st); err != nil {
		s.log.Error("encode state", "err", err)
	}
}

// Handler returns the routed mux
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /api/plan", s.handlePlan)
	mux.HandleFunc("PUT /api/player/name", s.action("rename", s.rename))
	mux.HandleFunc("POST /api/resources/{name}/click", s.handleClick)
	mux.HandleFunc("POST /api/resources/{name}/sell", s.action("sell", s.sell))
	mux.HandleFunc("PUT /api/resources/{name}/autosell", s.action("autosell", s.autoSell))
	mux.HandleFunc("POST /api/buildings/{name}/buy", s.action("buy_building", func(r *http.Request) (*models.GameState, error) {
		return s.svc.BuyBuilding(models.BuildingName(r.PathValue("name")))
	}))
	mux.HandleFunc("POST /api/buildings/{name}/sell", s.action("sell_building", func(r *http.Request) (*models.GameState, error) {
		return s.svc.SellBuilding(models.BuildingName(r.PathValue("name")))
	}))
	mux.HandleFunc("POST /api/upgrades/{name}/buy", s.action("buy_upgrade", func(r *http.Request) (*models.GameState, error) {
		return s.svc.BuyUpgrade(models.UpgradeName(r.PathValue("name")))
	}))
	mux.HandleFunc("POST /api/save", s.handleSave)
	mux.HandleFunc("GET /ws", s.handleWs)
	mux.Handle("GET /metrics", s.metrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("http request", "method", r.Method, "path", r.URL.Path, "took", time.Since(start))
	})
}

// action adapts a state-changing operation into a handler
func (s *Server) action(op string, fn func(*http.Request) (*models.GameState, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := fn(r)
		s.metrics.Action(op, err)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stateResponse{State: st})
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stateResponse{State: s.svc.State()})
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	if !s.clicks.allow(r) {
		s.metrics.Action("click", ErrRateLimited)
		s.writeError(w, ErrRateLimited)
		return
	}
	s.action("click", func(r *http.Request) (*models.GameState, error) {
		return s.svc.Click(models.ResourceName(r.PathValue("name")))
	})(w, r)
}

func (s *Server) rename(r *http.Request) (*models.GameState, error) {
	var req nameRequest
	if err := decode(r, &req); err != nil {
		return nil, err
	}
	return s.svc.SetName(req.Name)
}

func (s *Server) sell(r *http.Request) (*models.GameState, error) {
	var req sellRequest
	if err := decode(r, &req); err != nil {
		return nil, err
	}
	if req.Amount == nil {
		return nil, badRequest("amount is required")
	}
	return s.svc.Sell(models.ResourceName(r.PathValue("name")), *req.Amount)
}

func (s *Server) autoSell(r *http.Request) (*models.GameState, error) {
	var req autoSellRequest
	if err := decode(r, &req); err != nil {
		return nil, err
	}
	if req.Enabled == nil {
		return nil, badRequest("enabled is required")
	}
	return s.svc.SetAutoSell(models.ResourceName(r.PathValue("name")), *req.Enabled)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.Save(r.Context())
	s.metrics.Action("save", err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saveResponse{Slot: snap.Slot, Revision: snap.Revision, SavedAt: snap.SavedAt})
}

// handlePlan runs the planner from the live state.
// Query: horizon (seconds, default 3600), clicks (per second, default 1).
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	opts := planner.Options{Horizon: planner.DefaultHorizon, ClicksPerStep: 1}
	q := r.URL.Query()
	for key, dst := range map[string]*int{"horizon": &opts.Horizon, "clicks": &opts.ClicksPerStep} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, badRequest(key+" must be a non-negative integer"))
			return
		}
		*dst = n
	}
	if opts.Horizon > maxPlanHorizon {
		s.writeError(w, badRequest("horizon too large"))
		return
	}

	plan, err := s.svc.Plan(opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleWs(w http.ResponseWriter, r *http.Request) {
	greeting, err := json.Marshal(Message{Type: MessageState, Payload: s.svc.State()})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.hub.ServeWs(w, r, greeting)
}

// requestError is a malformed request
type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }

func badRequest(msg string) error { return &requestError{msg: msg} }

func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return badRequest("invalid body: " + err.Error())
	}
	return nil
}

// statusFor maps an operation error to an HTTP status
func statusFor(err error) int {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr),
		errors.Is(err, game.ErrInvalidAmount),
		errors.Is(err, game.ErrNotSellable):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrUnknownResource),
		errors.Is(err, game.ErrUnknownBuilding),
		errors.Is(err, game.ErrUnknownUpgrade):
		return http.StatusNotFound
	case errors.Is(err, game.ErrInsufficientResources):
		return http.StatusConflict
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, service.ErrNoStore):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
