package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/kalamantia/larder/internal/handler"
	"github.com/kalamantia/larder/internal/middleware"
	"github.com/kalamantia/larder/internal/oauth"
	"github.com/kalamantia/larder/internal/store"
	"github.com/kalamantia/larder/internal/sync"
)

type Server struct {
	db           *sql.DB
	cat          store.Catalog
	sessionStore *store.SessionStore
	hub          *sync.Hub
	h            *handler.Handler
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, googleCfg oauth.Config, logger *slog.Logger) *Server {
	hub := sync.NewHub(logger.With("component", "websocket"))
	cat := store.NewSQLCatalog(db)
	sessionStore := store.NewSessionStore(db)
	google := oauth.NewClient(googleCfg)

	return &Server{
		db:           db,
		cat:          cat,
		sessionStore: sessionStore,
		hub:          hub,
		h:            handler.New(cat, sessionStore, google, hub, logger.With("component", "handler")),
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("GET /login", s.h.LoginPage)
	outerMux.HandleFunc("GET /auth/google", s.rateLimitedHandler(s.h.GoogleLogin))
	outerMux.HandleFunc("GET /auth/google/callback", s.rateLimitedHandler(s.h.GoogleCallback))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes — wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore, s.cat)
	outerMux.Handle("/", authMiddleware(protectedMux))

	// Apply request logging middleware
	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimit(s.rateLimiter, middleware.RealIP, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(h).ServeHTTP(w, r)
	}
}

// pantry wraps a handler with the per-request pantry authorization guard.
func (s *Server) pantry(h http.HandlerFunc) http.Handler {
	return middleware.RequirePantry(s.cat)(h)
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /logout", s.h.Logout)

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/pantry/", http.StatusSeeOther)
	})

	// Pantry pages
	mux.HandleFunc("GET /pantry/{$}", s.h.PantryIndex)
	mux.HandleFunc("GET /pantry/json/{$}", s.h.PantryIndexJSON)
	mux.HandleFunc("GET /pantry/add/{$}", s.h.PantryAddForm)
	mux.HandleFunc("POST /pantry/add/{$}", s.h.PantryAdd)
	mux.Handle("GET /pantry/{pantry_id}/edit/{$}", s.pantry(s.h.PantryEditForm))
	mux.Handle("POST /pantry/{pantry_id}/edit/{$}", s.pantry(s.h.PantryEdit))
	mux.Handle("GET /pantry/{pantry_id}/delete/{$}", s.pantry(s.h.PantryDeleteForm))
	mux.Handle("POST /pantry/{pantry_id}/delete/{$}", s.pantry(s.h.PantryDelete))

	// Category pages
	mux.Handle("GET /pantry/{pantry_id}/{$}", s.pantry(s.h.CategoryIndex))
	mux.Handle("GET /pantry/{pantry_id}/json/{$}", s.pantry(s.h.CategoryIndexJSON))
	mux.Handle("GET /pantry/{pantry_id}/category/add/{$}", s.pantry(s.h.CategoryAddForm))
	mux.Handle("POST /pantry/{pantry_id}/category/add/{$}", s.pantry(s.h.CategoryAdd))
	mux.Handle("GET /pantry/{pantry_id}/category/{category_id}/edit/{$}", s.pantry(s.h.CategoryEditForm))
	mux.Handle("POST /pantry/{pantry_id}/category/{category_id}/edit/{$}", s.pantry(s.h.CategoryEdit))
	mux.Handle("GET /pantry/{pantry_id}/category/{category_id}/delete/{$}", s.pantry(s.h.CategoryDeleteForm))
	mux.Handle("POST /pantry/{pantry_id}/category/{category_id}/delete/{$}", s.pantry(s.h.CategoryDelete))

	// Item pages
	mux.Handle("GET /pantry/{pantry_id}/category/{category_id}/{$}", s.pantry(s.h.ItemIndex))
	mux.Handle("GET /pantry/{pantry_id}/category/{category_id}/json/{$}", s.pantry(s.h.ItemIndexJSON))
	mux.Handle("GET /pantry/{pantry_id}/category/{category_id}/item/add/{$}", s.pantry(s.h.ItemAddForm))
	mux.Handle("POST /pantry/{pantry_id}/category/{category_id}/item/add/{$}", s.pantry(s.h.ItemAdd))
	mux.Handle("GET /pantry/{pantry_id}/category/{category_id}/item/{item_id}/{$}", s.pantry(s.h.ItemView))
	mux.Handle("GET /pantry/{pantry_id}/category/{category_id}/item/{item_id}/json/{$}", s.pantry(s.h.ItemJSON))
	mux.Handle("GET /pantry/{pantry_id}/category/{category_id}/item/{item_id}/edit/{$}", s.pantry(s.h.ItemEditForm))
	mux.Handle("POST /pantry/{pantry_id}/category/{category_id}/item/{item_id}/edit/{$}", s.pantry(s.h.ItemEdit))
	mux.Handle("GET /pantry/{pantry_id}/category/{category_id}/item/{item_id}/delete/{$}", s.pantry(s.h.ItemDeleteForm))
	mux.Handle("POST /pantry/{pantry_id}/category/{category_id}/item/{item_id}/delete/{$}", s.pantry(s.h.ItemDelete))

	// Share requests
	mux.HandleFunc("GET /shares/{$}", s.h.ShareIndex)
	mux.Handle("GET /pantry/{pantry_id}/share/{$}", s.pantry(s.h.ShareForm))
	mux.Handle("POST /pantry/{pantry_id}/share/{$}", s.pantry(s.h.ShareSend))
	mux.HandleFunc("POST /shares/{id}/accept", s.h.ShareAccept)
	mux.HandleFunc("POST /shares/{id}/decline", s.h.ShareDecline)

	// WebSocket
	mux.HandleFunc("GET /ws", sync.HandleWebSocket(s.hub))
}
