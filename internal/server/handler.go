package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"docseek/internal/adapter/retriever"
	"docseek/internal/domain"
	"docseek/internal/logging"
	"docseek/internal/metrics"
)

// maxQueryBytes bounds a POST body.
const maxQueryBytes = 64 << 10

// Searcher is the loaded index the handler queries.
type Searcher interface {
	Search(query string, limit int) ([]domain.ScoredDoc, bool)
	Stats() domain.IndexStats
	Documents() int
}

type SearchResponse struct {
	Query   string             `json:"query"`
	Results []domain.ScoredDoc `json:"results"`
}

type Handler struct {
	searcher     Searcher
	metrics      *metrics.Metrics
	defaultLimit int
	maxLimit     int
	logger       *slog.Logger
}

// NewHandler creates a handler. maxLimit <= 0 leaves limit uncapped.
func NewHandler(searcher Searcher, m *metrics.Metrics, defaultLimit, maxLimit int) *Handler {
	return &Handler{
		searcher:     searcher,
		metrics:      m,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		logger:       logging.WithComponent("search-handler"),
	}
}

// Search answers GET ?q= and POST with the query as the request body.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := logging.FromContext(r.Context())

	limit, err := h.parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	query, err := readQuery(r)
	if err != nil {
		h.writeError(w, statusFor(err), err.Error())
		return
	}

	if len(retriever.QueryTerms(query)) == 0 {
		h.metrics.SearchQueriesTotal.WithLabelValues("empty_query").Inc()
		h.writeJSON(w, http.StatusOK, SearchResponse{Query: query, Results: []domain.ScoredDoc{}})
		return
	}

	results, cacheHit := h.searcher.Search(query, limit)
	if results == nil {
		results = []domain.ScoredDoc{}
	}

	elapsed := time.Since(start)
	cacheStatus := "miss"
	if cacheHit {
		cacheStatus = "hit"
	}
	resultType := cacheStatus
	if len(results) == 0 || results[0].Score == 0 {
		resultType = "zero_result"
	}
	h.metrics.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	h.metrics.SearchLatency.WithLabelValues(cacheStatus).Observe(elapsed.Seconds())
	h.metrics.SearchResultsCount.Observe(float64(len(results)))

	log.Info("search completed",
		"query", query,
		"limit", limit,
		"returned", len(results),
		"cache_hit", cacheHit,
		"latency_ms", elapsed.Milliseconds(),
	)

	h.writeJSON(w, http.StatusOK, SearchResponse{Query: query, Results: results})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.searcher.Stats())
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"documents": h.searcher.Documents(),
	})
}

// parseLimit applies the default for a missing limit, then caps any limit
// (0 included) at maxLimit.
func (h *Handler) parseLimit(raw string) (int, error) {
	limit := h.defaultLimit
	if raw != "" {
		var err error
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return 0, errBadLimit
		}
	}
	if h.maxLimit > 0 && (limit == 0 || limit > h.maxLimit) {
		limit = h.maxLimit
	}
	return limit, nil
}

var (
	errBadLimit    = errors.New("limit must be a non-negative integer")
	errBodyTooLong = errors.New("query body too large")
)

func readQuery(r *http.Request) (string, error) {
	if r.Method != http.MethodPost {
		return r.URL.Query().Get("q"), nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxQueryBytes+1))
	if err != nil {
		return "", err
	}
	if len(body) > maxQueryBytes {
		return "", errBodyTooLong
	}
	return strings.TrimSpace(string(body)), nil
}

// statusFor maps an error to the HTTP status reported to the client.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadLimit):
		return http.StatusBadRequest
	case errors.Is(err, errBodyTooLong):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrFormat):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
