package web

import (
	"crypto/subtle"
	"embed"
	"encoding/json"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"panchview/internal/almanac"
	"panchview/internal/config"
	"panchview/internal/ical"
	appLog "panchview/internal/log"
	"panchview/internal/view"
)

// Server exposes the resolved almanac over HTTP: a JSON API, an iCal feed,
// the embedded display page, and the last PNG preview.
type Server struct {
	cfg   *config.Config
	store *almanac.Store
	conv  *almanac.Converter
	debug bool
	mux   *http.ServeMux
}

// embeddedStatic contains the display page served at /.
//
//go:embed all:static
var embeddedStatic embed.FS

// NewServer constructs a new Server reading documents from store.
func NewServer(cfg *config.Config, store *almanac.Store, conv *almanac.Converter, debug bool) *Server {
	s := &Server{
		cfg:   cfg,
		store: store,
		conv:  conv,
		debug: debug,
		mux:   http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Empty username or password counts as disabled.
	if s.cfg.BasicAuth.Username == "" || s.cfg.BasicAuth.Password == "" {
		return false
	}
	return true
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// /health stays unauthenticated for liveness probes.
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="panchview", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/panchangam", s.handlePanchangam)
	s.mux.HandleFunc("/export.ics", s.handleExport)
	s.mux.HandleFunc("/preview.png", s.handlePreview)
	s.mux.Handle("/", s.staticFileServer())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// panchangamResponse is the JSON shape for /api/panchangam. Status is "ok"
// or "error"; on error only Error and UpdatedAt are populated, so the page
// shows a single load-failure state instead of a partial almanac.
type panchangamResponse struct {
	Status    string     `json:"status"`
	Error     string     `json:"error,omitempty"`
	FromCache bool       `json:"from_cache,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
	View      *view.View `json:"view,omitempty"`
}

// handlePanchangam resolves the stored document against a single sampled
// instant and returns the display view.
func (s *Server) handlePanchangam(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()
	if snap.Doc == nil {
		msg := "almanac not loaded yet"
		if snap.Err != nil {
			msg = snap.Err.Error()
		}
		writeJSON(w, http.StatusServiceUnavailable, panchangamResponse{
			Status:    "error",
			Error:     msg,
			UpdatedAt: snap.UpdatedAt,
		})
		return
	}

	// One instant for all four categories.
	now := time.Now()
	v := view.Build(snap.Doc, now, s.conv)

	writeJSON(w, http.StatusOK, panchangamResponse{
		Status:    "ok",
		FromCache: snap.FromCache,
		UpdatedAt: snap.UpdatedAt,
		View:      &v,
	})
}

// handleExport serves the almanac as an iCalendar feed.
func (s *Server) handleExport(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()
	if snap.Doc == nil {
		http.Error(w, "almanac not loaded", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="panchangam.ics"`)
	_, _ = w.Write([]byte(ical.Export(snap.Doc, s.conv)))
}

// handlePreview serves the last rendered PNG preview from disk. The path
// matches the capture pipeline in cmd/panchview.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, PreviewPath(s.debug))
}

// PreviewPath is where the capture pipeline writes, and this server reads,
// the rendered snapshot.
func PreviewPath(debug bool) string {
	if debug {
		return "./cache/preview.png"
	}
	return "/var/lib/panchview/preview.png"
}

// staticFileServer serves the embedded display page for everything that is
// not an API route.
func (s *Server) staticFileServer() http.Handler {
	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		appLog.Error("failed to initialize embedded static filesystem", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "static UI not available", http.StatusServiceUnavailable)
		})
	}

	fileServer := http.FileServer(http.FS(sub))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// API paths must 404, not fall back to HTML.
		if r.URL.Path == "/api" || strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
			return
		}
		fileServer.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}
