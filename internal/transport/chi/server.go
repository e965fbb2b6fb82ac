package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/korthouse/mediadex/internal/corpus"
	"github.com/korthouse/mediadex/internal/domain"
	"github.com/korthouse/mediadex/internal/domain/media"
	"github.com/korthouse/mediadex/internal/domain/search/mode"
	"github.com/korthouse/mediadex/internal/domain/search/request"
	"github.com/korthouse/mediadex/internal/metrics"
	healthuc "github.com/korthouse/mediadex/internal/usecase/health"
	searchuc "github.com/korthouse/mediadex/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the search core and the corpus listing over HTTP.
type Server struct {
	search          *searchuc.Service
	store           *corpus.Store
	health          *healthuc.Service
	logger          *zap.Logger
	defaultPageSize int
	maxPageSize     int
	errorHandlers   []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	store *corpus.Store,
	health *healthuc.Service,
	defaultPageSize, maxPageSize int,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:          search,
		store:           store,
		health:          health,
		logger:          logger,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmbeddingNotConfigured,
			http.StatusServiceUnavailable, errCodeEmbeddingNotConfigured),
		sentinelHandler(domain.ErrEmbeddingProviderError,
			http.StatusBadGateway, errCodeEmbeddingProviderError),
		sentinelHandler(domain.ErrVectorDimMismatch,
			http.StatusBadGateway, errCodeEmbeddingProviderError),
		sentinelHandler(domain.ErrCorpusInconsistent,
			http.StatusInternalServerError, errCodeInternal),
	}
	return s
}

// Routes registers all handlers on the router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/search", s.handleSearch)
	r.Get("/media", s.handleListMedia)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// searchRequest is the POST /search body.
type searchRequest struct {
	Query string `json:"query"`
	Mode  string `json:"mode,omitempty"`
	TopK  int    `json:"top_k,omitempty"`
}

// searchResponse is the POST /search reply.
type searchResponse struct {
	Results []mediaItem `json:"results"`
	Mode    string      `json:"mode"`
	Total   int         `json:"total"`
}

// mediaItem is one media record on the wire. Similarity is the ranking
// score for the mode used (BM25, cosine or RRF) and is absent on
// listing responses; callers must not compare it across modes.
type mediaItem struct {
	PostIndex  int       `json:"post_index"`
	MediaIndex int       `json:"media_index"`
	Title      string    `json:"title"`
	URI        string    `json:"uri"`
	IsVideo    bool      `json:"is_video"`
	CreatedAt  time.Time `json:"created_at"`
	Similarity *float64  `json:"similarity,omitempty"`
}

// handleSearch handles POST /search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sreq, err := request.New(req.Query, mode.Mode(req.Mode), req.TopK)
	if err != nil {
		writeError(w, http.StatusBadRequest, errCodeValidationFailed, err.Error())
		return
	}

	start := time.Now()
	results, err := s.search.Search(r.Context(), &sreq)
	metrics.SearchDuration.WithLabelValues(string(sreq.Mode())).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SearchesTotal.WithLabelValues(string(sreq.Mode()), "error").Inc()
		s.handleDomainError(w, err)
		return
	}
	metrics.SearchesTotal.WithLabelValues(string(sreq.Mode()), "success").Inc()

	items := make([]mediaItem, len(results))
	for i := range results {
		res := &results[i]
		sim := res.Similarity()
		items[i] = mediaItem{
			PostIndex:  res.Key().PostIndex,
			MediaIndex: res.Key().MediaIndex,
			Title:      res.Title(),
			URI:        res.URI(),
			IsVideo:    res.IsVideo(),
			CreatedAt:  res.CreatedAt(),
			Similarity: &sim,
		}
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Results: items,
		Mode:    string(sreq.Mode()),
		Total:   len(items),
	})
}

// mediaListResponse is the GET /media reply.
type mediaListResponse struct {
	Items      []mediaItem `json:"items"`
	NextCursor string      `json:"next_cursor,omitempty"`
	Total      int         `json:"total"`
}

// handleListMedia handles GET /media with cursor pagination over the
// corpus in load order. Presentation glue only: no ranking logic.
func (s *Server) handleListMedia(w http.ResponseWriter, r *http.Request) {
	limit := s.defaultPageSize
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := parsePositiveInt(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, errCodeValidationFailed, "limit must be a positive integer")
			return
		}
		limit = n
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}

	startIdx := 0
	if cursor := r.URL.Query().Get("cursor"); cursor != "" {
		key, err := media.ParseKey(cursor)
		if err != nil {
			writeError(w, http.StatusBadRequest, errCodeValidationFailed, "invalid cursor")
			return
		}
		ord, ok := s.store.Ordinal(key)
		if !ok {
			writeError(w, http.StatusBadRequest, errCodeValidationFailed, "unknown cursor")
			return
		}
		startIdx = ord + 1
	}

	records := s.store.Records()
	end := startIdx + limit
	if end > len(records) {
		end = len(records)
	}

	items := make([]mediaItem, 0, end-startIdx)
	for _, rec := range records[startIdx:end] {
		items = append(items, mediaItem{
			PostIndex:  rec.Key().PostIndex,
			MediaIndex: rec.Key().MediaIndex,
			Title:      rec.Title(),
			URI:        rec.URI(),
			IsVideo:    rec.IsVideo(),
			CreatedAt:  rec.CreatedAt(),
		})
	}

	resp := mediaListResponse{Items: items, Total: len(records)}
	if end < len(records) {
		resp.NextCursor = records[end-1].Key().String()
	}
	writeJSON(w, http.StatusOK, resp)
}

// healthResponse is the GET /health reply.
type healthResponse struct {
	Status  string            `json:"status"`
	Records int               `json:"records"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for name, res := range report.Checks {
		checks[name] = string(res)
	}

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, healthResponse{
		Status:  string(report.Status),
		Records: report.Records,
		Checks:  checks,
	})
}

// handleDomainError maps domain errors to HTTP responses.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	msg := err.Error()
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("Unhandled domain error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, errCodeInternal, "internal error")
}

// sentinelHandler builds an errorHandler matching one sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("not a positive integer")
	}
	return n, nil
}
