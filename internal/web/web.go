// Package web exposes the export pipeline over HTTP: trigger an export,
// list finished artifacts, download one. The surface is deliberately small;
// scheduling lives in cmd/weekpack.
package web

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"weekpack/internal/config"
	"weekpack/internal/export"
	appLog "weekpack/internal/log"
	"weekpack/internal/model"
)

const maxRequestBody = 4 << 20

// Server provides the HTTP API around a shared Exporter.
type Server struct {
	cfg *config.Config
	exp *export.Exporter
	mux *http.ServeMux

	// One export runs at a time; concurrent triggers queue on this mutex
	// rather than racing on the same artifact path.
	exportMu sync.Mutex

	// Short-lived cache for the artifact listing so UI polling does not
	// hit the filesystem on every request.
	listMu    sync.RWMutex
	listCache *listCache
}

type listCache struct {
	resp      listResponse
	updatedAt time.Time
}

func NewServer(cfg *config.Config, exp *export.Exporter) *Server {
	s := &Server{
		cfg: cfg,
		exp: exp,
		mux: http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the full handler chain, including basic auth when
// configured.
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
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="weekpack", charset="UTF-8"`)
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
	s.mux.HandleFunc("/api/export", s.handleExport)
	s.mux.HandleFunc("/api/exports", s.handleList)
	s.mux.HandleFunc("/exports/", s.handleDownload)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// exportRequest is the POST /api/export body. All fields are optional: an
// empty body exports the current week from the configured ICS sources.
// When events are present they are merged in as a backend feed, and
// weekStart from the feed wins over the top-level field.
type exportRequest struct {
	WeekStart string          `json:"weekStart"`
	Events    json.RawMessage `json:"events"`
	WeekEnd   string          `json:"weekEnd"`
}

// handleExport triggers one export run.
//
// POST /api/export
//
//	{"weekStart": "2025-07-07", "events": [ ... ]}
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	ref := time.Now().In(s.exp.Location())
	var extra []model.Event

	if len(body) > 0 {
		var req exportRequest
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		if len(req.Events) > 0 {
			input, dropped, err := model.ParseWeekInput(body)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			for _, derr := range dropped {
				appLog.Info("api export: event dropped from feed", "reason", derr.Error())
			}
			extra = input.Events
			if !input.WeekStart.IsZero() {
				ref = input.WeekStart
			}
		} else if req.WeekStart != "" {
			t, err := time.ParseInLocation("2006-01-02", req.WeekStart, s.exp.Location())
			if err != nil {
				writeError(w, http.StatusBadRequest, "weekStart must be YYYY-MM-DD")
				return
			}
			ref = t
		}
	}

	s.exportMu.Lock()
	res, err := s.exp.Export(r.Context(), ref, extra)
	s.exportMu.Unlock()
	if err != nil {
		appLog.Error("api export failed", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	s.invalidateList()
	writeJSON(w, http.StatusOK, res)
}

type artifactDTO struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
	URL      string    `json:"url"`
}

type listResponse struct {
	Exports []artifactDTO `json:"exports"`
}

// handleList returns the finished artifacts in the output directory, newest
// first.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}

	const listCacheTTL = 5 * time.Second
	now := time.Now()

	s.listMu.RLock()
	lc := s.listCache
	s.listMu.RUnlock()
	if lc != nil && now.Sub(lc.updatedAt) < listCacheTTL {
		writeJSON(w, http.StatusOK, lc.resp)
		return
	}

	entries, err := os.ReadDir(s.cfg.OutputDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeJSON(w, http.StatusOK, listResponse{Exports: []artifactDTO{}})
			return
		}
		appLog.Error("api exports: listing failed", err)
		writeError(w, http.StatusInternalServerError, "failed to list exports")
		return
	}

	resp := listResponse{Exports: []artifactDTO{}}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".pdf") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		resp.Exports = append(resp.Exports, artifactDTO{
			Name:     entry.Name(),
			Size:     info.Size(),
			Modified: info.ModTime(),
			URL:      "/exports/" + entry.Name(),
		})
	}
	for i, j := 0, len(resp.Exports)-1; i < j; {
		// ReadDir sorts by name; artifact names embed the week date, so a
		// simple reversal yields newest first.
		resp.Exports[i], resp.Exports[j] = resp.Exports[j], resp.Exports[i]
		i++
		j--
	}

	s.listMu.Lock()
	s.listCache = &listCache{resp: resp, updatedAt: time.Now()}
	s.listMu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) invalidateList() {
	s.listMu.Lock()
	s.listCache = nil
	s.listMu.Unlock()
}

// handleDownload serves one artifact from the output directory. Only flat
// .pdf names are allowed; anything with a path separator is rejected.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/exports/")
	if name == "" || name != filepath.Base(name) || !strings.HasSuffix(name, ".pdf") {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, filepath.Join(s.cfg.OutputDir, name))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
