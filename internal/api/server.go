// Package api exposes the simulation over HTTP and websocket. The core is
// single-threaded; one mutex serializes every request that touches the game
// state, so handlers never race the tick engine.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/rs/cors"

	"github.com/talgya/eos-server/internal/config"
	"github.com/talgya/eos-server/internal/game"
	"github.com/talgya/eos-server/internal/persistence"
	"github.com/talgya/eos-server/internal/sim"
	"github.com/talgya/eos-server/internal/world"
)

// Server serves the game over HTTP.
type Server struct {
	st     *world.GameState
	cfg    *config.Config
	engine *sim.Engine
	store  *persistence.Store // nil when persistence is disabled
	hub    *Hub
	log    *slog.Logger

	movement   *game.MovementService
	collection *game.CollectionService
	building   *game.BuildingService
	factory    *game.UnitFactoryService
	ports      *game.SpacePortService

	mu sync.Mutex
}

// Deps bundles what the server needs beyond the state itself.
type Deps struct {
	Config *config.Config
	Engine *sim.Engine
	Store  *persistence.Store
	Logger *slog.Logger
}

// NewServer wires the service layer over a game state. Call Start (or mount
// Handler) afterwards; the hub loop starts here.
func NewServer(st *world.GameState, deps Deps) *Server {
	calc := game.NewMovementCalculator(st, deps.Config.Balance)
	s := &Server{
		st:         st,
		cfg:        deps.Config,
		engine:     deps.Engine,
		store:      deps.Store,
		hub:        NewHub(deps.Logger),
		log:        deps.Logger,
		movement:   game.NewMovementService(st, calc, deps.Logger),
		collection: game.NewCollectionService(st, deps.Logger),
		building:   game.NewBuildingService(st, deps.Logger),
		factory:    game.NewUnitFactoryService(st, deps.Config.Balance, deps.Logger),
		ports:      game.NewSpacePortService(st, calc, deps.Logger),
	}
	go s.hub.Run()
	return s
}

// Handler builds the full middleware-wrapped route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/system", s.handleSystem)
	mux.HandleFunc("GET /api/game_state", s.handleGameState)
	mux.HandleFunc("GET /api/unit/{id}", s.handleUnit)
	mux.HandleFunc("GET /api/player_units/{id}", s.handlePlayerUnits)

	mux.HandleFunc("POST /api/move_unit", s.handleMoveUnit)
	mux.HandleFunc("GET /api/movement_destinations/{unit}", s.handleMovementDestinations)
	mux.HandleFunc("GET /api/movement_cost", s.handleMovementCost)

	mux.HandleFunc("POST /api/collect_item", s.handleCollectItem)
	mux.HandleFunc("POST /api/build_structure", s.handleBuildStructure)
	mux.HandleFunc("GET /api/building_requirements/{type}", s.handleBuildingRequirements)
	mux.HandleFunc("GET /api/can_afford/{unit}/{type}", s.handleCanAfford)

	mux.HandleFunc("POST /api/advance_time", s.handleAdvanceTime)
	mux.HandleFunc("GET /api/current_time", s.handleCurrentTime)

	mux.HandleFunc("GET /api/space_ports", s.handleSpacePorts)
	mux.HandleFunc("GET /api/space_port_destinations/{unit}", s.handleSpacePortDestinations)
	mux.HandleFunc("GET /api/factory_status/{id}", s.handleFactoryStatus)
	mux.HandleFunc("POST /api/build_unit", s.handleBuildUnit)

	mux.HandleFunc("GET /ws", s.hub.serveWs)

	limiter := NewRateLimiter(s.cfg.Server.RateLimit, s.cfg.Server.RateBurst)
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(limiter.Middleware(mux))
}

// Start blocks serving HTTP on the configured address.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.log.Info("http server starting", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// --- read endpoints ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, map[string]any{
		"status":     "ok",
		"tick":       s.st.Tick,
		"units":      len(s.st.Units),
		"structures": len(s.st.Structures),
		"spaces":     len(s.st.Spaces),
	})
}

func (s *Server) handleSystem(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	systems := make([]map[string]any, 0, len(s.st.Systems))
	for _, sys := range s.st.Systems {
		systems = append(systems, sys.Snapshot(s.st))
	}
	writeJSON(w, map[string]any{"systems": systems})
}

func (s *Server) handleGameState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, s.st.Snapshot())
}

func (s *Server) handleUnit(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.st.FindUnit(r.PathValue("id"))
	if u == nil {
		s.writeError(w, fmt.Errorf("%w: unit %s", game.ErrNotFound, r.PathValue("id")))
		return
	}
	writeJSON(w, u.Snapshot(s.st))
}

func (s *Server) handlePlayerUnits(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.st.Players[r.PathValue("id")]
	if p == nil {
		s.writeError(w, fmt.Errorf("%w: player %s", game.ErrNotFound, r.PathValue("id")))
		return
	}
	units := make([]map[string]any, 0, len(p.Entities))
	for _, id := range p.Entities {
		if u := s.st.Units[id]; u != nil {
			units = append(units, u.Snapshot(s.st))
		}
	}
	writeJSON(w, map[string]any{"player_id": p.ID, "units": units})
}

// --- movement ---

type moveUnitRequest struct {
	PlayerID      string `json:"player_id"`
	UnitID        string `json:"unit_id"`
	Direction     *int   `json:"direction"`
	TargetSpaceID string `json:"target_space_id"`
}

func (s *Server) handleMoveUnit(w http.ResponseWriter, r *http.Request) {
	var req moveUnitRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	target, quote, err := s.movement.MoveUnit(game.MoveRequest{
		PlayerID:      req.PlayerID,
		UnitID:        req.UnitID,
		Direction:     req.Direction,
		TargetSpaceID: req.TargetSpaceID,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"unit_id":       req.UnitID,
		"space":         target.Snapshot(s.st),
		"cost":          quote.Cost,
		"movement_type": string(quote.Type),
	})
}

func (s *Server) handleMovementDestinations(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dests, err := s.movement.Destinations(r.PathValue("unit"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"destinations": dests})
}

func (s *Server) handleMovementCost(w http.ResponseWriter, r *http.Request) {
	unitID := r.URL.Query().Get("unit")
	targetID := r.URL.Query().Get("target")
	if unitID == "" || targetID == "" {
		s.writeError(w, fmt.Errorf("%w: unit and target query parameters required", game.ErrInvalidInput))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	q, err := s.movement.Cost(unitID, targetID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"cost": q.Cost, "movement_type": string(q.Type)})
}

// --- collection and construction ---

type collectItemRequest struct {
	PlayerID    string `json:"player_id"`
	UnitID      string `json:"unit_id"`
	Resource    string `json:"resource"`
	Amount      int    `json:"amount"`
	StructureID string `json:"structure_id"`
}

func (s *Server) handleCollectItem(w http.ResponseWriter, r *http.Request) {
	var req collectItemRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	moved, err := s.collection.Collect(game.CollectRequest{
		PlayerID:    req.PlayerID,
		UnitID:      req.UnitID,
		Resource:    req.Resource,
		Amount:      req.Amount,
		StructureID: req.StructureID,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"resource": req.Resource, "collected": moved})
}

type buildStructureRequest struct {
	PlayerID      string `json:"player_id"`
	UnitID        string `json:"unit_id"`
	StructureType string `json:"structure_type"`
}

func (s *Server) handleBuildStructure(w http.ResponseWriter, r *http.Request) {
	var req buildStructureRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	structure, err := s.building.Build(game.BuildRequest{
		PlayerID:      req.PlayerID,
		UnitID:        req.UnitID,
		StructureType: req.StructureType,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"structure": structure.Snapshot(s.st)})
}

func (s *Server) handleBuildingRequirements(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reqs, err := s.building.Requirements(r.PathValue("type"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"structure_type": r.PathValue("type"),
		"requirements":   reqs,
	})
}

func (s *Server) handleCanAfford(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok, missing, err := s.building.CanAfford(r.PathValue("unit"), r.PathValue("type"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"structure_type": r.PathValue("type"),
		"can_afford":     ok,
		"missing":        missing,
	})
}

// --- time ---

func (s *Server) handleAdvanceTime(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	result := s.engine.AdvanceTime()
	if s.store != nil {
		if err := s.store.Save(s.st); err != nil {
			s.log.Error("snapshot save failed", "tick", result.Tick, "err", err)
		}
	}
	s.mu.Unlock()

	s.hub.Broadcast("tick", result)
	writeJSON(w, result)
}

func (s *Server) handleCurrentTime(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, map[string]any{"tick": s.engine.Tick()})
}

// --- ports and factories ---

func (s *Server) handleSpacePorts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, map[string]any{"space_ports": s.ports.Ports()})
}

func (s *Server) handleSpacePortDestinations(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dests, err := s.ports.Destinations(r.PathValue("unit"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"destinations": dests})
}

func (s *Server) handleFactoryStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	status, err := s.factory.Status(r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, status)
}

type buildUnitRequest struct {
	PlayerID       string `json:"player_id"`
	UnitID         string `json:"unit_id"`
	FactoryID      string `json:"factory_id"`
	UnitType       string `json:"unit_type"`
	TargetResource string `json:"target_resource"`
}

func (s *Server) handleBuildUnit(w http.ResponseWriter, r *http.Request) {
	var req buildUnitRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	drone, err := s.factory.BuildUnit(game.BuildUnitRequest{
		PlayerID:       req.PlayerID,
		UnitID:         req.UnitID,
		FactoryID:      req.FactoryID,
		UnitType:       req.UnitType,
		TargetResource: req.TargetResource,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{"unit": drone.Snapshot(s.st)})
}

// --- plumbing ---

func decodeBody(r *http.Request, into any) error {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		return fmt.Errorf("%w: %v", game.ErrInvalidInput, err)
	}
	return nil
}

// writeError maps the rule layer's error kinds onto HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrPermissionDenied):
		status = http.StatusForbidden
	case errors.Is(err, game.ErrInvalidLocation),
		errors.Is(err, game.ErrInsufficientResource),
		errors.Is(err, game.ErrSlotFull),
		errors.Is(err, game.ErrInvalidInput):
		status = http.StatusBadRequest
	default:
		s.log.Error("unexpected handler error", "err", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "encoding error", http.StatusInternalServerError)
	}
}
