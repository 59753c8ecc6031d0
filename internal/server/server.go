// Package server exposes a session over a small JSON HTTP API.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bethropolis/deck/internal/app"
	"github.com/bethropolis/deck/internal/core/selection"
	"github.com/bethropolis/deck/internal/logger"
	"github.com/bethropolis/deck/internal/model"
	"github.com/bethropolis/deck/internal/outline"
)

// Session is the part of app.App the server drives. Implementations must
// be safe for concurrent use.
type Session interface {
	Dispatch(token string) bool
	Snapshot() model.Presentation
	Selection() selection.State
	History() app.HistoryInfo
	Undo() bool
	Redo() bool
	BeginTransaction(label string)
	EndTransaction() bool
	Select(kind string, ids []string) (bool, error)
	ReorderSlides(refs []string) (bool, error)
	Outline(opts outline.Options) string
}

// Server holds the handlers.
type Server struct {
	session Session
}

// NewHandler creates the HTTP handler for session. When gatherer is not
// nil its metrics are served on /metrics.
func NewHandler(session Session, gatherer prometheus.Gatherer) http.Handler {
	s := &Server{session: session}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.health)
	r.Get("/snapshot", s.snapshot)
	r.Get("/outline", s.outline)
	r.Post("/actions", s.actions)
	r.Post("/undo", s.undo)
	r.Post("/redo", s.redo)
	r.Post("/transactions/begin", s.beginTransaction)
	r.Post("/transactions/end", s.endTransaction)
	r.Post("/selection", s.selection)
	r.Post("/slides/order", s.reorderSlides)

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// SnapshotResponse is the body of GET /snapshot.
type SnapshotResponse struct {
	Document  model.Presentation `json:"document"`
	Selection selection.State    `json:"selection"`
	History   app.HistoryInfo    `json:"history"`
}

// ActionsRequest is the body of POST /actions. Token and Tokens may be
// combined; Token runs first.
type ActionsRequest struct {
	Token  string   `json:"token,omitempty"`
	Tokens []string `json:"tokens,omitempty"`
}

// ActionResult reports one dispatched token.
type ActionResult struct {
	Token   string `json:"token"`
	Changed bool   `json:"changed"`
}

// ActionsResponse is the body returned by POST /actions.
type ActionsResponse struct {
	Results []ActionResult  `json:"results"`
	History app.HistoryInfo `json:"history"`
}

// HistoryResponse is returned by the undo, redo and transaction endpoints.
type HistoryResponse struct {
	Changed bool            `json:"changed"`
	History app.HistoryInfo `json:"history"`
}

// TransactionRequest is the optional body of POST /transactions/begin.
type TransactionRequest struct {
	Label string `json:"label"`
}

// SelectionRequest is the body of POST /selection.
type SelectionRequest struct {
	Kind string   `json:"kind"`
	IDs  []string `json:"ids"`
}

// SelectionResponse is returned by POST /selection.
type SelectionResponse struct {
	Changed   bool            `json:"changed"`
	Selection selection.State `json:"selection"`
}

// SlideOrderRequest is the body of POST /slides/order.
type SlideOrderRequest struct {
	IDs []string `json:"ids"`
}

// SlideOrderResponse is returned by POST /slides/order.
type SlideOrderResponse struct {
	Changed bool            `json:"changed"`
	Order   []string        `json:"order"`
	History app.HistoryInfo `json:"history"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SnapshotResponse{
		Document:  s.session.Snapshot(),
		Selection: s.session.Selection(),
		History:   s.session.History(),
	})
}

func (s *Server) outline(w http.ResponseWriter, r *http.Request) {
	geometry, _ := strconv.ParseBool(r.URL.Query().Get("geometry"))
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write([]byte(s.session.Outline(outline.Options{Geometry: geometry})))
}

func (s *Server) actions(w http.ResponseWriter, r *http.Request) {
	var body ActionsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	tokens := body.Tokens
	if body.Token != "" {
		tokens = append([]string{body.Token}, tokens...)
	}
	if len(tokens) == 0 {
		http.Error(w, "No action tokens", http.StatusBadRequest)
		return
	}

	resp := ActionsResponse{Results: make([]ActionResult, 0, len(tokens))}
	for _, token := range tokens {
		resp.Results = append(resp.Results, ActionResult{Token: token, Changed: s.session.Dispatch(token)})
	}
	resp.History = s.session.History()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) undo(w http.ResponseWriter, r *http.Request) {
	changed := s.session.Undo()
	writeJSON(w, http.StatusOK, HistoryResponse{Changed: changed, History: s.session.History()})
}

func (s *Server) redo(w http.ResponseWriter, r *http.Request) {
	changed := s.session.Redo()
	writeJSON(w, http.StatusOK, HistoryResponse{Changed: changed, History: s.session.History()})
}

func (s *Server) beginTransaction(w http.ResponseWriter, r *http.Request) {
	var body TransactionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}
	s.session.BeginTransaction(body.Label)
	writeJSON(w, http.StatusOK, HistoryResponse{History: s.session.History()})
}

func (s *Server) endTransaction(w http.ResponseWriter, r *http.Request) {
	recorded := s.session.EndTransaction()
	writeJSON(w, http.StatusOK, HistoryResponse{Changed: recorded, History: s.session.History()})
}

func (s *Server) selection(w http.ResponseWriter, r *http.Request) {
	var body SelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	changed, err := s.session.Select(body.Kind, body.IDs)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SelectionResponse{Changed: changed, Selection: s.session.Selection()})
}

func (s *Server) reorderSlides(w http.ResponseWriter, r *http.Request) {
	var body SlideOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	changed, err := s.session.ReorderSlides(body.IDs)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SlideOrderResponse{
		Changed: changed,
		Order:   s.session.Snapshot().SlideIDs(),
		History: s.session.History(),
	})
}

// writeSessionError maps request errors from the session to 400.
func writeSessionError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, app.ErrBadReference) || errors.Is(err, app.ErrUnknownSelection) || errors.Is(err, app.ErrMissingArgument) {
		status = http.StatusBadRequest
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf("server: encoding response: %v", err)
	}
}
