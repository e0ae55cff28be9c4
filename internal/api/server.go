// Package api provides the HTTP API server and handlers for ShiftMatch.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shiftmatch/shiftmatch-server/internal/service"
	"github.com/shiftmatch/shiftmatch-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store             *store.Store
	matchService      *service.MatchService
	subscriberService *service.SubscriberService
	router            *chi.Mux
	api               huma.API
	logger            *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	st *store.Store,
	matchService *service.MatchService,
	subscriberService *service.SubscriberService,
	logger *slog.Logger,
) *Server {
	router := chi.NewRouter()

	s := &Server{
		store:             st,
		matchService:      matchService,
		subscriberService: subscriberService,
		router:            router,
		logger:            logger,
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("ShiftMatch API", "1.0.0")
	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerMatchRoutes()
	s.registerSubscriberRoutes()
	s.registerRawRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}
