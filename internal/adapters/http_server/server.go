package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type Server struct{ mux *chi.Mux }

// Options tunes the middleware stack; zero RatePerSec disables rate limiting.
type Options struct {
	Timeout    time.Duration
	RatePerSec float64
	RateBurst  int
}

func New(opt Options) *Server {
	if opt.Timeout <= 0 {
		opt.Timeout = 15 * time.Second
	}
	m := chi.NewRouter()

	// middlewares must be registered before any route
	m.Use(chimw.RealIP)
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)
	m.Use(Timeout(opt.Timeout))
	m.Use(Metrics)
	m.Use(Logger(log.Logger))
	if opt.RatePerSec > 0 {
		m.Use(RateLimit(opt.RatePerSec, opt.RateBurst))
	}
	m.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	m.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return &Server{mux: m}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount attaches any extra handler (e.g., /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}
