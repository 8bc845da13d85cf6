package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/tempnest/tempnest/internal/auth"
	"github.com/tempnest/tempnest/internal/handler"
	"github.com/tempnest/tempnest/internal/middleware"
	"github.com/tempnest/tempnest/internal/store"
	"github.com/tempnest/tempnest/internal/upload"
	ws "github.com/tempnest/tempnest/internal/websocket"
)

// Config carries the wiring the server cannot derive from the database.
type Config struct {
	JWTSecret string
	// CORSOrigin is the browser origin allowed to send credentialed
	// requests. Empty disables CORS headers entirely.
	CORSOrigin string
	// UploadStore receives listing photos.
	UploadStore upload.Store
	// UploadDir, when non-empty, is served under /uploads/ for
	// locally stored photos. Leave empty when UploadStore is S3.
	UploadDir string
}

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	authH       *handler.AuthHandler
	propertyH   *handler.PropertyHandler
	uploadH     *handler.UploadHandler
	issuer      *auth.TokenIssuer
	rateLimiter *middleware.RateLimiter
	cfg         Config
	logger      *slog.Logger
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))
	issuer := auth.NewTokenIssuer([]byte(cfg.JWTSecret))

	userStore := store.NewUserStore(db)
	propertyStore := store.NewPropertyStore(db)

	return &Server{
		db:          db,
		hub:         hub,
		authH:       handler.NewAuthHandler(userStore, issuer, logger.With("component", "auth")),
		propertyH:   handler.NewPropertyHandler(propertyStore, hub, logger.With("component", "property")),
		uploadH:     handler.NewUploadHandler(cfg.UploadStore, logger.With("component", "upload")),
		issuer:      issuer,
		rateLimiter: middleware.NewRateLimiter(),
		cfg:         cfg,
		logger:      logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /api/register", s.rateLimitedHandler(s.authH.Register))
	mux.HandleFunc("POST /api/login", s.rateLimitedHandler(s.authH.Login))
	mux.HandleFunc("POST /api/logout", s.authH.Logout)
	mux.HandleFunc("GET /api/properties", s.propertyH.List)
	mux.HandleFunc("GET /api/properties/{id}", s.propertyH.Get)
	mux.HandleFunc("GET /api/users/{id}/listings", s.propertyH.UserListings)
	mux.HandleFunc("POST /api/upload", s.uploadH.Upload)
	mux.HandleFunc("GET /ws", ws.Handle(s.hub))
	mux.HandleFunc("GET /health", s.healthHandler)
	if s.cfg.UploadDir != "" {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.cfg.UploadDir))))
	}

	// Routes that require a valid session cookie
	requireAuth := middleware.RequireAuth(s.issuer)
	mux.Handle("GET /api/my-listings", requireAuth(http.HandlerFunc(s.propertyH.MyListings)))
	mux.Handle("POST /api/properties", requireAuth(http.HandlerFunc(s.propertyH.Create)))
	mux.Handle("DELETE /api/properties/{id}", requireAuth(http.HandlerFunc(s.propertyH.Delete)))

	var h http.Handler = mux
	if s.cfg.CORSOrigin != "" {
		h = cors.New(cors.Options{
			AllowedOrigins:   []string{s.cfg.CORSOrigin},
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: true,
		}).Handler(h)
	}

	return middleware.RequestLogger(s.logger.With("component", "http"))(h)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimit(s.rateLimiter, middleware.RealIP, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
