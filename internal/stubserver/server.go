package stubserver

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/raovat-dev/raovat/internal/bangtin"
	"github.com/raovat-dev/raovat/internal/query"
)

// tokenTTLSeconds is the lifetime the token endpoint reports. The stub
// never actually expires tokens.
const tokenTTLSeconds = 3600

// Options configure a stub service instance.
type Options struct {
	// AnonKey, when non-empty, must arrive in the apikey header of every
	// request. Leave empty to accept unauthenticated requests.
	AnonKey string
	// Latency delays every response. Useful for exercising the
	// dashboard's loading states against a local service.
	Latency time.Duration
	// Logger receives one line per request. Nil discards them.
	Logger *slog.Logger
	// Dataset seeds the backing store.
	Dataset Dataset
}

// Server is an in-process stand-in for the hosted bangtin service. It
// serves the posts collection under /rest/v1 and the identity endpoints
// under /auth/v1 with the same wire grammar the real service speaks, so
// the dashboard runs against it unchanged.
type Server struct {
	store   *Store
	anonKey string
	latency time.Duration
	logger  *slog.Logger
	router  chi.Router
}

// New builds a Server from the given options.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		store:   NewStore(opts.Dataset),
		anonKey: strings.TrimSpace(opts.AnonKey),
		latency: opts.Latency,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(s.requestLogger, middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "apikey", "Range", "Range-Unit", "Prefer"},
		ExposedHeaders: []string{"Content-Range"},
		MaxAge:         300,
	}))
	if s.latency > 0 {
		r.Use(s.delay)
	}
	r.Use(s.requireAPIKey)

	r.Get("/rest/v1/posts", s.handlePosts)
	r.Post("/auth/v1/token", s.handleToken)
	r.Post("/auth/v1/logout", s.handleLogout)

	s.router = r
	return s
}

// Handler returns the root handler for serving or mounting.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Store exposes the backing store so callers can reseed it between
// requests.
func (s *Server) Store() *Store {
	return s.store
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		w.Header().Set("X-Request-Id", reqID)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

func (s *Server) delay(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(s.latency)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.anonKey != "" && r.Header.Get("apikey") != s.anonKey {
			s.writeError(w, http.StatusUnauthorized, "No API key found in request")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handlePosts answers a posts query: decode the parameters back into a
// filter, evaluate it against the store, order, and slice the requested
// item window.
func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	q, err := decodePostsQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conds := q.Filter.Conditions()
	matched := make([]bangtin.Post, 0)
	for _, post := range s.store.Posts() {
		if post.Status != q.Status {
			continue
		}
		keep := true
		for _, cond := range conds {
			if !query.Match(cond, post) {
				keep = false
				break
			}
		}
		if keep {
			matched = append(matched, post)
		}
	}
	query.SortPosts(matched, q.Filter.Sorts)

	total := len(matched)
	from, to, err := parseItemRange(r.Header.Get("Range"), total)
	if err != nil {
		s.writeError(w, http.StatusRequestedRangeNotSatisfiable, err.Error())
		return
	}

	window := matched[:0]
	if from < total {
		if to > total-1 {
			to = total - 1
		}
		window = matched[from : to+1]
	}

	if len(window) == 0 {
		w.Header().Set("Content-Range", fmt.Sprintf("*/%d", total))
	} else {
		w.Header().Set("Content-Range", fmt.Sprintf("%d-%d/%d", from, from+len(window)-1, total))
	}
	status := http.StatusOK
	if len(window) < total {
		status = http.StatusPartialContent
	}
	writeJSON(w, status, window)
}

// handleToken implements the password grant. Anything else the hosted
// identity service supports (refresh, magic links) is out of scope for a
// development stub.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("grant_type") != "password" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":             "unsupported_grant_type",
			"error_description": "only the password grant is supported",
		})
		return
	}
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":             "invalid_request",
			"error_description": "malformed credentials payload",
		})
		return
	}
	user, ok := s.store.UserByEmail(creds.Email)
	if !ok || user.Password != creds.Password {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":             "invalid_grant",
			"error_description": "Invalid login credentials",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": s.store.IssueToken(user),
		"token_type":   "bearer",
		"expires_in":   tokenTTLSeconds,
		"user": map[string]string{
			"id":    user.ID,
			"email": user.Email,
		},
	})
}

// handleLogout revokes the bearer token. Unknown tokens revoke to the
// same place, so the endpoint never fails.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		s.store.RevokeToken(token)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
