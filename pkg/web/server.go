// Package web serves the avatar session over HTTP and WebSocket: a REST API
// for tracking, avatar and accessory management, a frame ingest socket for
// landmark producers and a pose broadcast socket for renderers.
package web

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/teslashibe/go-avatar/pkg/accessory"
	"github.com/teslashibe/go-avatar/pkg/avatar"
	"github.com/teslashibe/go-avatar/pkg/hub"
	"github.com/teslashibe/go-avatar/pkg/rig"
)

// Store persists accessory layouts per avatar source.
type Store interface {
	Save(ctx context.Context, avatar string, a accessory.Accessory) error
	List(ctx context.Context, avatar string) ([]accessory.Accessory, error)
	Delete(ctx context.Context, avatar, id string) error
}

// Loader reads an avatar asset into a rig tree.
type Loader func(ctx context.Context, source string) (*rig.Node, error)

// Option configures a Server.
type Option func(*Server)

// WithStore persists accessories.
func WithStore(store Store) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithLoader replaces rig.Load for avatar changes.
func WithLoader(loader Loader) Option {
	return func(s *Server) {
		s.loader = loader
	}
}

// WithTracerProvider sets the provider of the per-frame tracer.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Server) {
		s.tracer = tp.Tracer(tracerName)
	}
}

const tracerName = "github.com/teslashibe/go-avatar/pkg/web"

// Server is the avatar API server
type Server struct {
	app     *fiber.App
	addr    string
	session *avatar.Session
	store   Store
	loader  Loader
	tracer  trace.Tracer
	logger  *slog.Logger

	// Hub for pose broadcast to renderers
	poseHub *hub.Hub
}

// NewServer creates a new API server for a session
func NewServer(addr string, session *avatar.Session, opts ...Option) *Server {
	s := &Server{
		addr:    addr,
		session: session,
		loader:  rig.Load,
		tracer:  otel.Tracer(tracerName),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "web")
	s.poseHub = hub.New("pose", s.logger)

	app := fiber.New(fiber.Config{
		AppName:               "go-avatar",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})

	// CORS for browser renderers
	app.Use(cors.New())

	// API routes
	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/tracking", s.handleGetTracking)
	api.Put("/tracking", s.handlePutTracking)
	api.Put("/live", s.handlePutLive)
	api.Post("/avatar", s.handleLoadAvatar)
	api.Get("/bones", s.handleBones)
	api.Get("/accessories", s.handleListAccessories)
	api.Post("/accessories", s.handleAddAccessory)
	api.Patch("/accessories/:id", s.handleUpdateAccessory)
	api.Delete("/accessories/:id", s.handleDeleteAccessory)
	api.Get("/tuning", s.handleGetTuning)
	api.Put("/tuning", s.handlePutTuning)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket routes
	app.Get("/ws/frames", websocket.New(s.handleFramesWS))
	app.Get("/ws/pose", websocket.New(s.handlePoseWS))

	s.app = app
	return s
}

// Start runs the pose hub and serves until ctx is done or the listener
// fails.
func (s *Server) Start(ctx context.Context) error {
	go s.poseHub.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errCh <- s.app.Listen(s.addr)
	}()

	select {
	case <-ctx.Done():
		return s.app.Shutdown()
	case err := <-errCh:
		return err
	}
}

// PoseHub returns the renderer broadcast hub
func (s *Server) PoseHub() *hub.Hub {
	return s.poseHub
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
