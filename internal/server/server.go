// Package server exposes the note store over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/aretw0/talktyper/pkg/core"
	"github.com/aretw0/talktyper/pkg/share"
)

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = ":8080"

const shutdownTimeout = 5 * time.Second

// Server serves one Store. Indices on the wire are insertion-order indices;
// the listing carries both the index and the newest-first row number.
type Server struct {
	app    *fiber.App
	store  *core.Store
	sender share.Sender
	logger *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSender enables server-side delivery of the message channel.
func WithSender(sender share.Sender) Option {
	return func(s *Server) {
		s.sender = sender
	}
}

// New creates a server for store and registers its routes.
func New(store *core.Store, opts ...Option) *Server {
	s := &Server{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "talktyper",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(recover.New())
	s.app.Use(cors.New())
	s.app.Use(s.logRequest)
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/healthz", s.health)

	notes := s.app.Group("/notes")
	notes.Get("/", s.list)
	notes.Post("/", s.create)
	notes.Post("/voice", s.createVoice)
	notes.Delete("/", s.clear)
	notes.Get("/:index", s.get)
	notes.Put("/:index", s.update)
	notes.Delete("/:index", s.remove)
	notes.Get("/:index/share", s.shareLink)
	notes.Post("/:index/share", s.shareSend)
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Listen(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- s.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("http server shutting down")
		return s.app.ShutdownWithContext(shutdownCtx)
	}
}

func (s *Server) logRequest(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.logger.Debug("http request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
	)
	return err
}

// handleError maps domain errors to status codes.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
	case errors.Is(err, core.ErrIndexOutOfRange):
		code = fiber.StatusNotFound
	case errors.Is(err, share.ErrInvalidChoice):
		code = fiber.StatusBadRequest
	case errors.Is(err, core.ErrPersist):
		s.logger.Error("history not persisted", "path", c.Path(), "error", err)
	}

	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
