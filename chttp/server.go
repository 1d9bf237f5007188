// Package chttp serves a crest file table over HTTP.
//
// A client uploads files, forgets their contents,
// and later verifies downloads against the root it kept,
// using the proof endpoints.
package chttp

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/crest-engine/crest"
	"github.com/crest-engine/crest/cstore"
)

// ServerConfig is the configuration for NewServer.
type ServerConfig struct {
	Log *slog.Logger

	// Store is the file table the server exposes.
	Store *cstore.Store

	// Metrics may be nil, in which case the server creates its own.
	Metrics *Metrics
}

// Server is the HTTP front end over a file table.
// It satisfies http.Handler.
type Server struct {
	log *slog.Logger

	store *cstore.Store
	m     *Metrics

	router *mux.Router
}

func NewServer(cfg ServerConfig) *Server {
	if cfg.Store == nil {
		panic(errors.New("BUG: ServerConfig.Store must not be nil"))
	}

	m := cfg.Metrics
	if m == nil {
		m = NewMetrics()
	}

	s := &Server{
		log:   cfg.Log,
		store: cfg.Store,
		m:     m,
	}

	r := mux.NewRouter()
	r.Use(s.observe)

	r.HandleFunc("/v1/files", s.handleUpload).Methods(http.MethodPost)
	r.HandleFunc("/v1/files/{name}", s.handleDownload).Methods(http.MethodGet)
	r.HandleFunc("/v1/root", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/v1/proofs/{name}", s.handleProof).Methods(http.MethodGet)
	r.HandleFunc("/v1/multiproof", s.handleMultiProof).Methods(http.MethodPost)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodGet)
	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// observe tags each request with an ID,
// logs its outcome, and feeds the latency histogram.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		w.Header().Set("X-Request-Id", reqID)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tmpl, err := cur.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)
		elapsed := time.Since(start)

		s.m.RequestSeconds.WithLabelValues(route).Observe(elapsed.Seconds())
		if sw.code >= 400 {
			s.m.RequestErrors.WithLabelValues(route, strconv.Itoa(sw.code)).Inc()
		}

		if s.log != nil {
			s.log.Info(
				"Handled request",
				"id", reqID,
				"method", r.Method,
				"route", route,
				"code", sw.code,
				"elapsed", elapsed,
			)
		}
	})
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	var req UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed upload body: "+err.Error())
		return
	}
	if len(req.Files) == 0 {
		s.writeError(w, http.StatusBadRequest, "upload contains no files")
		return
	}

	var root crest.HashValue
	for name, content := range req.Files {
		if name == "" {
			s.writeError(w, http.StatusBadRequest, "upload contains a file with an empty name")
			return
		}
		root = s.store.Put(name, content)
	}
	s.m.UploadedFiles.Add(float64(len(req.Files)))

	s.writeJSON(w, http.StatusOK, RootResponse{Root: root})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	content, ok := s.store.Get(name)
	if !ok {
		s.writeError(w, http.StatusNotFound, "no file named "+name)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(content)
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, RootResponse{Root: s.store.Root()})
}

func (s *Server) handleProof(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	root, proof, err := s.store.Proof(name)
	if err != nil {
		if errors.Is(err, cstore.ErrUnknownFile) {
			s.writeError(w, http.StatusNotFound, err.Error())
		} else {
			s.writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	s.m.ProofsServed.Inc()

	s.writeJSON(w, http.StatusOK, ProofResponse{Root: root, Proof: proof})
}

func (s *Server) handleMultiProof(w http.ResponseWriter, r *http.Request) {
	var req MultiProofRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed multiproof body: "+err.Error())
		return
	}

	root, proof, leaves, err := s.store.MultiProof(req.Names)
	if err != nil {
		if errors.Is(err, cstore.ErrUnknownFile) {
			s.writeError(w, http.StatusNotFound, err.Error())
		} else {
			s.writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	s.m.MultiProofs.Inc()

	s.writeJSON(w, http.StatusOK, MultiProofResponse{
		Root:   root,
		Proof:  proof,
		Leaves: leaves,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil && s.log != nil {
		s.log.Warn("Failed to write response body", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, errorResponse{Error: msg})
}
