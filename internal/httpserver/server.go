// internal/httpserver/server.go
//
// HTTP wiring for the microblog backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request
//     IDs, identity resolution).
//   - Public endpoints: "/", "/health".
//   - Auth endpoints: POST /auth/login, GET /auth/me.
//   - Account endpoints under /users, posts and likes under /posts.
//
// Notes:
//   - The identity middleware runs on every request and only decorates;
//     it never rejects. Each handler checks its own authorization rule
//     and denies with one uniform Unauthorized body, no rule detail.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/microblog/go-server/internal/auth"
	"github.com/microblog/go-server/internal/store"
)

// Pagination defaults for list endpoints.
const (
	defaultLimit  = 10
	defaultOffset = 0
	maxLimit      = 100
)

// Server bundles router, store, and token codec.
type Server struct {
	r     *chi.Mux
	store *store.Store
	codec *auth.Codec
}

// New constructs a Server, installs middleware, and registers routes.
func New(st *store.Store, codec *auth.Codec, clientOrigin string) *Server {
	s := &Server{r: chi.NewRouter(), store: st, codec: codec}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{clientOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	s.r.Use(codec.Middleware)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"microblog-go","endpoints":["/health","/auth/*","/users","/posts"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.mountAuthRoutes()
	s.mountUserRoutes()
	s.mountPostRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ helpers ------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// unauthorized is the single denial response for every authentication and
// authorization failure; it never says which check failed.
func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "Unauthorized")
}

// authorize evaluates rule against the request identity and denies
// uniformly on failure.
func (s *Server) authorize(w http.ResponseWriter, r *http.Request, rule auth.Rule) (auth.Identity, bool) {
	ident := auth.FromContext(r.Context())
	if !rule.Allows(ident) {
		unauthorized(w)
		return ident, false
	}
	return ident, true
}

// storeError maps store sentinels to status codes; anything else is logged
// server-side and surfaces as an opaque 500.
func storeError(w http.ResponseWriter, err error, what string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, "conflict")
	default:
		log.Error().Err(err).Msg(what)
		writeError(w, http.StatusInternalServerError, "internal_error")
	}
}

// idParam parses the {id} URL parameter.
func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// pagination reads limit/offset query values with defaults and a cap.
func pagination(r *http.Request) (limit, offset int) {
	limit, offset = defaultLimit, defaultOffset
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
