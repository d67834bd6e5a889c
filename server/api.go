package main

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/chattools/msgparse/server/store/linkcache"
)

// APIHandler exposes message parsing and cache administration over HTTP.
type APIHandler struct {
	processor *MessageProcessor
	cache     *linkcache.Cache[Link]
	config    *configuration
	logger    *zap.Logger
	router    *mux.Router
}

// parseMessageRequest is the body of POST /api/v1/message. MaxURLs overrides
// the configured cap for this request when present.
type parseMessageRequest struct {
	Content string `json:"content"`
	MaxURLs *int   `json:"max_urls,omitempty"`
}

// cacheStatsResponse is the body of GET /api/v1/cache.
type cacheStatsResponse struct {
	Size     int `json:"size"`
	Capacity int `json:"capacity"`
}

// NewAPIHandler creates the HTTP handler and wires its routes.
func NewAPIHandler(processor *MessageProcessor, cache *linkcache.Cache[Link], config *configuration, logger *zap.Logger) *APIHandler {
	handler := &APIHandler{
		processor: processor,
		cache:     cache,
		config:    config,
		logger:    logger,
	}

	router := mux.NewRouter()

	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	apiRouter.HandleFunc("/message", handler.ParseMessage).Methods(http.MethodPost)
	apiRouter.HandleFunc("/cache", handler.CacheStats).Methods(http.MethodGet)
	apiRouter.HandleFunc("/cache", handler.ClearCache).Methods(http.MethodDelete)

	handler.router = router
	return handler
}

func (h *APIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// ParseMessage parses one message and writes the serialized response.
func (h *APIHandler) ParseMessage(w http.ResponseWriter, r *http.Request) {
	var request parseMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	maxURLs := h.config.MaxURLs
	if request.MaxURLs != nil {
		maxURLs = *request.MaxURLs
	}

	response, err := h.processor.ParseMessage(r.Context(), request.Content, maxURLs)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("Failed to parse message", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write([]byte(response)); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// CacheStats reports the current size and capacity of the link cache.
func (h *APIHandler) CacheStats(w http.ResponseWriter, r *http.Request) {
	stats := cacheStatsResponse{
		Size:     h.cache.Len(),
		Capacity: h.config.CacheCapacity,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		h.logger.Error("Failed to encode cache stats", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// ClearCache empties the link cache; subsequent resolutions refetch.
func (h *APIHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.cache.Clear()
	h.logger.Info("Link cache cleared")
	w.WriteHeader(http.StatusNoContent)
}
