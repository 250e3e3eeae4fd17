// Package httpapi serves personal-best reports and run history over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"speedrun_pbs/internal/app"
	"speedrun_pbs/internal/domain/normalize"
	"speedrun_pbs/internal/metrics"
	"speedrun_pbs/internal/processing"
	"speedrun_pbs/internal/speedrun"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const (
	readHeaderTimeout = 10 * time.Second
	writeTimeout      = 2 * time.Minute
)

// Server exposes the personal-best service
type Server struct {
	service    processing.PersonalBestServiceInterface
	registry   *prometheus.Registry
	router     *mux.Router
	httpServer *http.Server
}

// NewServer wires the routes onto addr
func NewServer(addr string, service processing.PersonalBestServiceInterface) *Server {
	s := &Server{
		service:  service,
		registry: metrics.Registry(),
		router:   mux.NewRouter(),
	}
	s.routes(metrics.Default())

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}
	return s
}

func (s *Server) routes(m *metrics.Manager) {
	s.router.Use(requestIDMiddleware, accessMiddleware(m))

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/runners/{name}/personal-bests", s.handlePersonalBests).Methods(http.MethodGet)
	api.HandleFunc("/runners/{runnerID}/games/{gameID}/categories/{categoryID}/history", s.handleHistory).Methods(http.MethodGet)
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving HTTP until Shutdown is called
func (s *Server) ListenAndServe() error {
	log.Info().Str("addr", s.httpServer.Addr).Msg("HTTP server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handlePersonalBests serves GET /api/runners/{name}/personal-bests[?expand=true]
func (s *Server) handlePersonalBests(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	expand := false
	if raw := r.URL.Query().Get("expand"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", errors.New("expand must be a boolean"))
			return
		}
		expand = parsed
	}

	report, err := s.service.Search(r.Context(), name)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	if expand {
		if err := s.service.ExpandAll(r.Context(), report); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, report)
}

type historyResponse struct {
	RunnerID    string              `json:"runner_id"`
	GameID      string              `json:"game_id"`
	CategoryID  string              `json:"category_id"`
	Combination app.Combination     `json:"combination"`
	History     []app.HistoryReport `json:"history"`
}

// handleHistory serves the matched history of one summary row. The row's
// subcategory combination is passed as repeated value parameters, in order.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	combination := app.Combination(r.URL.Query()["value"])
	if combination == nil {
		combination = app.Combination{}
	}

	rows, err := s.service.History(r.Context(), vars["runnerID"], vars["gameID"], vars["categoryID"], combination)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, historyResponse{
		RunnerID:    vars["runnerID"],
		GameID:      vars["gameID"],
		CategoryID:  vars["categoryID"],
		Combination: combination,
		History:     processing.FormatHistory(rows),
	})
}

// writeServiceError maps service errors onto HTTP statuses
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := http.StatusBadGateway, "upstream_error"
	switch {
	case errors.Is(err, processing.ErrRunnerNotFound):
		status, code = http.StatusNotFound, "runner_not_found"
	case errors.Is(err, speedrun.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, normalize.ErrMalformedRecord):
		status, code = http.StatusBadGateway, "malformed_upstream_record"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status, code = http.StatusGatewayTimeout, "timeout"
	}

	log.Warn().
		Err(err).
		Str("request_id", RequestID(r.Context())).
		Int("status", status).
		Msg("Request failed")

	writeError(w, status, code, err)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
