package http

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Aum2411/Task-4-Raag/internal/agent"
	"github.com/Aum2411/Task-4-Raag/internal/document"
	"github.com/Aum2411/Task-4-Raag/internal/log"
	"github.com/Aum2411/Task-4-Raag/pkg/models"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	shutdownTimeout = 30 * time.Second

	defaultQueryResults = 5
	maxQueryResults     = 20
)

// Server exposes the research agents over a JSON API.
type Server struct {
	router   *mux.Router
	rag      *agent.RAGAgent
	research *agent.ResearchAgent
}

func NewServer(rag *agent.RAGAgent, research *agent.ResearchAgent) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		rag:      rag,
		research: research,
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(instrument)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/query", s.handleQuery).Methods(http.MethodPost)
	api.HandleFunc("/answer", s.handleAnswer).Methods(http.MethodPost)
	api.HandleFunc("/research", s.handleResearch).Methods(http.MethodPost)
	api.HandleFunc("/documents", s.handleAddDocument).Methods(http.MethodPost)
	api.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
}

// Start serves the API on addr until SIGINT or SIGTERM, then drains in-flight
// requests before returning.
func Start(addr string, srv *Server) error {
	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv,
	}

	errCh := make(chan error, 1)
	go func() {
		log.GetLogger().Infof("Research server listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.GetLogger().Infof("Received %s, shutting down gracefully", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type queryRequest struct {
	Query string `json:"query"`
	K     int    `json:"k"`
}

type queryMatch struct {
	Source    string  `json:"source"`
	Ordinal   int     `json:"ordinal"`
	Content   string  `json:"content"`
	Distance  float64 `json:"distance"`
	Relevance float64 `json:"relevance"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "missing 'query'")
		return
	}
	k := req.K
	if k <= 0 {
		k = defaultQueryResults
	}
	if k > maxQueryResults {
		k = maxQueryResults
	}

	matches, err := s.rag.Query(r.Context(), req.Query, k)
	if err != nil {
		serverError(w, "query failed", err)
		return
	}

	out := make([]queryMatch, 0, len(matches))
	for _, m := range matches {
		out = append(out, queryMatch{
			Source:    m.Source,
			Ordinal:   m.Ordinal,
			Content:   m.Content,
			Distance:  m.Distance,
			Relevance: m.Relevance(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"matches": out})
}

type answerRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "missing 'query'")
		return
	}

	answer, err := s.rag.Answer(r.Context(), req.Query)
	if err != nil {
		serverError(w, "answer failed", err)
		return
	}
	writeJSON(w, http.StatusOK, answer)
}

type researchRequest struct {
	Topic string `json:"topic"`
	Depth string `json:"depth"`
}

func (s *Server) handleResearch(w http.ResponseWriter, r *http.Request) {
	var req researchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		writeError(w, http.StatusBadRequest, "missing 'topic'")
		return
	}

	report, err := s.research.DeepResearch(r.Context(), req.Topic, models.ParseResearchDepth(req.Depth))
	if err != nil {
		serverError(w, "research failed", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type addDocumentRequest struct {
	Path string `json:"path"`
}

func (s *Server) handleAddDocument(w http.ResponseWriter, r *http.Request) {
	var req addDocumentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Path) == "" {
		writeError(w, http.StatusBadRequest, "missing 'path'")
		return
	}

	doc, err := s.rag.AddDocument(r.Context(), req.Path)
	if err != nil {
		var formatErr *document.UnsupportedFormatError
		switch {
		case errors.As(err, &formatErr):
			writeError(w, http.StatusBadRequest, formatErr.Error())
		case errors.Is(err, os.ErrNotExist):
			writeError(w, http.StatusNotFound, "no such file: "+req.Path)
		default:
			serverError(w, "adding document failed", err)
		}
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.rag.Stats(r.Context())
	if err != nil {
		serverError(w, "stats failed", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.GetLogger().Errorf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func serverError(w http.ResponseWriter, msg string, err error) {
	log.GetLogger().Errorf("%s: %v", msg, err)
	writeError(w, http.StatusInternalServerError, msg+": "+err.Error())
}
