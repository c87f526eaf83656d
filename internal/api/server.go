// Package api provides the HTTP API server and handlers for NoteVault.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/notevault/notevault-server/internal/auth"
	"github.com/notevault/notevault-server/internal/http/response"
	"github.com/notevault/notevault-server/internal/ratelimit"
	"github.com/notevault/notevault-server/internal/service"
	"github.com/notevault/notevault-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store            *store.Store
	tokenService     *auth.TokenService
	authService      *service.AuthService
	subjectService   *service.SubjectService
	chapterService   *service.ChapterService
	noteService      *service.NoteService
	dashboardService *service.DashboardService
	searchService    *service.SearchService
	router           *chi.Mux
	logger           *slog.Logger
	corsOrigins      []string
	authLimiter      *ratelimit.KeyedRateLimiter
}

// ServerOptions bundles the dependencies NewServer needs.
type ServerOptions struct {
	Store            *store.Store
	TokenService     *auth.TokenService
	AuthService      *service.AuthService
	SubjectService   *service.SubjectService
	ChapterService   *service.ChapterService
	NoteService      *service.NoteService
	DashboardService *service.DashboardService
	SearchService    *service.SearchService
	Logger           *slog.Logger
	CORSOrigins      []string
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(opts ServerOptions) *Server {
	s := &Server{
		store:            opts.Store,
		tokenService:     opts.TokenService,
		authService:      opts.AuthService,
		subjectService:   opts.SubjectService,
		chapterService:   opts.ChapterService,
		noteService:      opts.NoteService,
		dashboardService: opts.DashboardService,
		searchService:    opts.SearchService,
		router:           chi.NewRouter(),
		logger:           opts.Logger,
		corsOrigins:      opts.CORSOrigins,
		authLimiter:      ratelimit.New(authRateRPS, authRateBurst),
	}

	s.setupMiddleware()
	s.setupRoutes()

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
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	origins := s.corsOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints (public, rate limited per IP).
		r.Route("/auth", func(r chi.Router) {
			r.Use(s.rateLimitByIP(s.authLimiter))
			r.Post("/signup", s.handleSignup)
			r.Post("/login", s.handleLogin)
			r.Post("/logout", s.handleLogout)
		})

		// Profile (requires auth).
		r.Route("/profile", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleGetProfile)
			r.Put("/", s.handleUpdateProfile)
		})

		// Subjects (require auth).
		r.Route("/subjects", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/", s.handleCreateSubject)
			r.Get("/", s.handleListSubjects)
			r.Get("/{id}", s.handleGetSubject)
			r.Put("/{id}", s.handleUpdateSubject)
			r.Delete("/{id}", s.handleDeleteSubject)
			r.Get("/{id}/chapters", s.handleListChapters)
		})

		// Chapters (require auth).
		r.Route("/chapters", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/", s.handleCreateChapter)
			r.Get("/{id}", s.handleGetChapter)
			r.Put("/{id}", s.handleUpdateChapter)
			r.Delete("/{id}", s.handleDeleteChapter)
			r.Get("/{id}/notes", s.handleListNotes)
		})

		// Notes (require auth).
		r.Route("/notes", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/", s.handleCreateNote)
			r.Get("/{id}", s.handleGetNote)
			r.Put("/{id}", s.handleUpdateNote)
			r.Delete("/{id}", s.handleDeleteNote)
		})

		// Search (requires auth).
		r.With(s.requireAuth).Get("/search", s.handleSearch)

		// Dashboard (requires auth).
		r.Route("/dashboard", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/stats", s.handleDashboardStats)
			r.Get("/activity", s.handleActivityLog)
		})
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
