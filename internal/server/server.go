package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/givemapp/givem/internal/config"
	"github.com/givemapp/givem/internal/handler"
	"github.com/givemapp/givem/internal/middleware"
	"github.com/givemapp/givem/internal/realtime"
	"github.com/givemapp/givem/internal/session"
	"github.com/givemapp/givem/internal/store"
)

type Server struct {
	db       *sql.DB
	sessions *session.Manager
	hub      *realtime.Hub
	authH    *handler.AuthHandler
	homeH    *handler.HomeHandler
	kudosH   *handler.KudosHandler
	logger   *slog.Logger
}

func New(db *sql.DB, cfg config.Config, logger *slog.Logger) *Server {
	sessions := session.NewManager(cfg.SessionSecret, cfg.Production())
	hub := realtime.NewHub(logger.With("component", "realtime"))

	userStore := store.NewUserStore(db)
	kudosStore := store.NewKudosStore(db)

	return &Server{
		db:       db,
		sessions: sessions,
		hub:      hub,
		authH:    handler.NewAuthHandler(userStore, sessions, logger.With("component", "auth")),
		homeH:    handler.NewHomeHandler(userStore, kudosStore, sessions, hub, logger.With("component", "home")),
		kudosH:   handler.NewKudosHandler(kudosStore, hub, logger.With("component", "kudos")),
		logger:   logger,
	}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(s.sessions)

	// Public routes
	mux.HandleFunc("GET /{$}", s.indexHandler)
	mux.HandleFunc("POST /signup", s.authH.Signup)
	mux.HandleFunc("POST /login", s.authH.Login)
	mux.HandleFunc("GET /home", s.homeH.Home)
	mux.HandleFunc("GET /api/users", s.homeH.ListUsers)
	mux.HandleFunc("GET /health", s.healthHandler)

	// Routes behind the auth gate
	mux.Handle("POST /home", requireAuth(http.HandlerFunc(s.homeH.Action)))
	mux.Handle("POST /logout", requireAuth(http.HandlerFunc(s.authH.Logout)))
	mux.Handle("PATCH /api/kudos/{id}", requireAuth(http.HandlerFunc(s.kudosH.Update)))
	mux.Handle("GET /ws", requireAuth(realtime.Handler(s.hub)))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

// indexHandler sends authenticated visitors to the feed and everyone
// else to the login page.
func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	if s.sessions.UserID(r) != "" {
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
