// Package server provides the HTTP and websocket front end of the game.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/ayusman/mudra/internal/lobby"
	"github.com/ayusman/mudra/internal/monitor"
	"github.com/ayusman/mudra/internal/server/api"
)

// Config holds the server's collaborators and limits.
type Config struct {
	StaticDir string

	// MaxEventsPerSecond and EventBurst bound inbound events per socket.
	MaxEventsPerSecond float64
	EventBurst         int

	Registry  *lobby.Registry
	Hub       *Hub
	Describer Describer        // optional; enables /api/practice
	Monitor   *monitor.Monitor // optional; enables /metrics
	Log       *zap.SugaredLogger
}

// Server routes HTTP requests for the game.
type Server struct {
	config Config
	router *mux.Router
	log    *zap.SugaredLogger
	start  time.Time
}

// New creates a Server with the given configuration.
func New(config Config) *Server {
	if config.Log == nil {
		config.Log = zap.NewNop().Sugar()
	}
	if config.MaxEventsPerSecond <= 0 {
		config.MaxEventsPerSecond = 10
	}
	if config.EventBurst <= 0 {
		config.EventBurst = 20
	}

	s := &Server{
		config: config,
		router: mux.NewRouter(),
		log:    config.Log,
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)

	rooms := api.NewRoomsHandler(s.config.Registry)
	s.router.HandleFunc("/api/rooms", rooms.List).Methods(http.MethodGet)
	s.router.HandleFunc("/api/rooms/{id}", rooms.Get).Methods(http.MethodGet)

	s.router.HandleFunc("/ws", s.handleGameSocket)

	if s.config.Describer != nil {
		s.router.HandleFunc("/api/practice", s.handlePractice)
	}

	if s.config.Monitor != nil {
		s.router.Handle("/metrics", s.config.Monitor.Handler()).Methods(http.MethodGet)
	}

	if s.config.StaticDir != "" {
		s.router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.config.StaticDir)))
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type healthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Rooms   int    `json:"rooms"`
	Players int    `json:"players"`
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := s.config.Registry.Stats()

	uptime := time.Since(s.start)
	if s.config.Monitor != nil {
		uptime = s.config.Monitor.Uptime()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(healthResponse{
		Status:  "ok",
		Uptime:  uptime.Round(time.Second).String(),
		Rooms:   stats.Rooms,
		Players: stats.Players,
	}); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
