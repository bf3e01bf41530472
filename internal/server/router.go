package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
	allowedHeaders = "Content-Type"
)

// Server exposes sessions over a JSON API for a browser front end.
type Server struct {
	store *Store
	// AllowedOrigins is sent as Access-Control-Allow-Origin.
	AllowedOrigins string
	logger         *zap.Logger
}

func New(store *Store, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	return &Server{
		store:          store,
		AllowedOrigins: "*",
		logger:         log,
	}
}

// Handler builds the API router.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.Use(s.corsMiddleware)
	r.Use(s.logMiddleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/questions", s.questions).Methods("GET", "OPTIONS")
	v1.HandleFunc("/sessions", s.create).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}", s.get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/sessions/{id}", s.remove).Methods("DELETE", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/start", s.start).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/answer", s.answer).Methods("PUT", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/toggle", s.toggle).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/next", s.next).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/reset", s.reset).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/report", s.report).Methods("GET", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/share", s.share).Methods("GET", "OPTIONS")

	return r
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.AllowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(started)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
