// Package web serves the published prayer-time dataset over HTTP.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"acju-prayer-times/internal/cache"
	"acju-prayer-times/internal/model"
	"acju-prayer-times/internal/store"
)

const loadTimeout = 30 * time.Second

// Handler holds the HTTP handlers and their dependencies.
type Handler struct {
	store       store.Store
	datasetKey  string
	calendarKey string
	cache       *cache.Cache
	log         *zap.Logger
}

// New creates a Handler reading the dataset and calendar objects from s.
func New(s store.Store, datasetKey, calendarKey string, c *cache.Cache, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if c == nil {
		c = cache.New(0)
	}
	return &Handler{store: s, datasetKey: datasetKey, calendarKey: calendarKey, cache: c, log: logger}
}

// RegisterRoutes registers all HTTP routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /prayer-times", h.noCache(h.handleDataset))
	mux.HandleFunc("GET /prayer-times/{city}", h.noCache(h.handleCity))
	mux.HandleFunc("GET /calendar", h.noCache(h.handleCalendar))
	mux.HandleFunc("GET /health", h.handleHealth)
}

func (h *Handler) noCache(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next(w, r)
	}
}

func (h *Handler) handleDataset(w http.ResponseWriter, r *http.Request) {
	doc, err := h.dataset(r.Context())
	if err != nil {
		h.writeLoadError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, doc)
}

// cityResponse is one city with its prayer times.
type cityResponse struct {
	City     model.City   `json:"city"`
	Timezone string       `json:"timezone"`
	Times    model.Record `json:"times"`
}

func (h *Handler) handleCity(w http.ResponseWriter, r *http.Request) {
	doc, err := h.dataset(r.Context())
	if err != nil {
		h.writeLoadError(w, err)
		return
	}
	id := r.PathValue("city")
	times, ok := doc.PrayerTimes[id]
	if !ok {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown city " + id})
		return
	}
	resp := cityResponse{City: model.City{ID: id}, Timezone: times.Timezone, Times: times.Times}
	for _, c := range doc.Cities {
		if c.ID == id {
			resp.City = c
			break
		}
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), loadTimeout)
	defer cancel()

	var day model.CalendarDay
	if err := store.GetJSON(ctx, h.store, h.calendarKey, &day); err != nil {
		h.writeLoadError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, day)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (h *Handler) dataset(ctx context.Context) (model.Document, error) {
	if doc, ok := h.cache.Get(h.datasetKey); ok {
		return doc, nil
	}
	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	var doc model.Document
	if err := store.GetJSON(ctx, h.store, h.datasetKey, &doc); err != nil {
		return model.Document{}, err
	}
	h.cache.Set(h.datasetKey, doc)
	return doc, nil
}

func (h *Handler) writeLoadError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "not published yet"})
		return
	}
	h.log.Error("load_failed", zap.Error(err))
	h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load data"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := store.EncodeJSON(v)
	if err != nil {
		h.log.Error("encode_failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}
