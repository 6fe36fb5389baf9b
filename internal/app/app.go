// Package app wires the game server together from its configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/lobby"
	"github.com/ayusman/mudra/internal/monitor"
	"github.com/ayusman/mudra/internal/server"
)

// shutdownTimeout bounds how long Run waits for open requests on exit.
const shutdownTimeout = 5 * time.Second

// Option customises an App.
type Option func(*App)

// WithDetector replaces the configured hand-tracking backend.
func WithDetector(d detector.Detector) Option {
	return func(a *App) { a.detector = d }
}

// App owns every long-lived component of the game server.
type App struct {
	cfg *config.Config
	log *zap.SugaredLogger

	detector   detector.Detector
	recognizer *gesture.Recognizer
	monitor    *monitor.Monitor
	hub        *server.Hub
	registry   *lobby.Registry
	server     *server.Server
}

// New builds an App. Unless a detector is supplied, the configured backend
// is used; a missing MediaPipe service script falls back to the mock.
func New(cfg *config.Config, log *zap.SugaredLogger, opts ...Option) (*App, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	a := &App{cfg: cfg, log: log}
	for _, opt := range opts {
		opt(a)
	}

	if a.detector == nil {
		d, err := NewDetector(cfg, log)
		if err != nil {
			return nil, err
		}
		a.detector = d
	}

	a.recognizer = gesture.NewRecognizer(a.detector, cfg.Detector.MinConfidence)
	a.monitor = monitor.NewMonitor(cfg.Metrics.Namespace)
	a.hub = server.NewHub(log.Named("hub"))
	a.registry = lobby.New(cfg.LobbyConfig(), a.hub, a.recognizer, log.Named("lobby"), a.monitor)

	staticDir := cfg.Server.StaticDir
	if staticDir == "" {
		staticDir = findWebDir()
	}
	if staticDir != "" {
		log.Infow("serving static files", "dir", staticDir)
	}

	a.server = server.New(server.Config{
		StaticDir:          staticDir,
		MaxEventsPerSecond: cfg.Server.MaxEventsPerSecond,
		EventBurst:         cfg.Server.EventBurst,
		Registry:           a.registry,
		Hub:                a.hub,
		Describer:          a.recognizer,
		Monitor:            a.monitor,
		Log:                log.Named("server"),
	})

	return a, nil
}

// NewDetector builds the configured hand-tracking backend. A missing MediaPipe
// service script falls back to the mock.
func NewDetector(cfg *config.Config, log *zap.SugaredLogger) (detector.Detector, error) {
	if cfg.Detector.Backend == config.BackendMock {
		log.Infow("using mock hand detection")
		return detector.NewMockDetector(), nil
	}

	mp, err := detector.NewMediaPipeDetector(cfg.DetectorConfig())
	if errors.Is(err, detector.ErrScriptNotFound) {
		log.Warnw("MediaPipe not available, using mock detector", "error", err)
		return detector.NewMockDetector(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("start detector: %w", err)
	}
	log.Infow("using MediaPipe hand detection")
	return mp, nil
}

// Handler returns the HTTP handler serving the game.
func (a *App) Handler() http.Handler {
	return a.server
}

// Registry returns the lobby registry.
func (a *App) Registry() *lobby.Registry {
	return a.registry
}

// Recognizer returns the gesture recognizer shared by game and practice.
func (a *App) Recognizer() *gesture.Recognizer {
	return a.recognizer
}

// Run listens on the configured address and serves until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.cfg.Server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully and
// releases the App's resources.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Infow("server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		a.log.Infow("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.log.Warnw("graceful shutdown failed", "error", err)
			srv.Close()
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = err
		}
	}

	if err := a.Close(); err != nil && serveErr == nil {
		serveErr = err
	}
	return serveErr
}

// Close stops running countdowns and the hand-tracking backend.
func (a *App) Close() error {
	a.registry.Close()
	if err := a.detector.Close(); err != nil {
		return fmt.Errorf("close detector: %w", err)
	}
	return nil
}

// findWebDir searches for the web directory in common locations: "web",
// "../web", "../../web" and ~/.mudra/web. It returns the first existing
// directory or an empty string.
func findWebDir() string {
	for _, p := range []string{"web", "../web", "../../web"} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	dir := filepath.Join(home, ".mudra", "web")
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir
	}
	return ""
}
