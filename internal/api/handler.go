// Package api serves the map, chart, catalog and onboarding endpoints as JSON.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/opensensemap/osem-map/internal/catalog"
)

// Handler holds dependencies for API handlers.
type Handler struct {
	devices      deviceQuerier
	campaigns    campaignQuerier
	measurements measurementQuerier
	onboarding   onboardingRunner
	catalog      *catalog.Catalog
	bufferPool   *sync.Pool // Pool of bytes.Buffer for JSON encoding
}

// New creates a new API Handler.
func New(
	devices deviceQuerier,
	campaigns campaignQuerier,
	measurements measurementQuerier,
	onboarding onboardingRunner,
	cat *catalog.Catalog,
) (*Handler, error) {
	if devices == nil {
		return nil, errors.New("device repository is required")
	}
	if campaigns == nil {
		return nil, errors.New("campaign repository is required")
	}
	if measurements == nil {
		return nil, errors.New("measurement repository is required")
	}
	if onboarding == nil {
		return nil, errors.New("onboarding service is required")
	}
	if cat == nil {
		return nil, errors.New("device catalog is required")
	}
	return &Handler{
		devices:      devices,
		campaigns:    campaigns,
		measurements: measurements,
		onboarding:   onboarding,
		catalog:      cat,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				return new(bytes.Buffer)
			},
		},
	}, nil
}

// RegisterRoutes registers all API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/devices", h.ListDevices)
	mux.HandleFunc("GET /api/v1/devices/{id}", h.GetDevice)
	mux.HandleFunc("GET /api/v1/devices/{id}/measurements", h.GetMeasurements)
	mux.HandleFunc("GET /api/v1/campaigns", h.ListCampaigns)
	mux.HandleFunc("GET /api/v1/map", h.Map)
	mux.HandleFunc("GET /api/v1/catalog", h.Catalog)

	mux.HandleFunc("POST /api/v1/onboarding", h.StartOnboarding)
	mux.HandleFunc("GET /api/v1/onboarding/{id}", h.GetOnboarding)
	mux.HandleFunc("POST /api/v1/onboarding/{id}/next", h.NextOnboarding)
	mux.HandleFunc("POST /api/v1/onboarding/{id}/back", h.BackOnboarding)
	mux.HandleFunc("POST /api/v1/onboarding/{id}/steps/{step}", h.GoToOnboardingStep)
	mux.HandleFunc("POST /api/v1/onboarding/{id}/submit", h.SubmitOnboarding)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	buf := h.bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		h.bufferPool.Put(buf)
	}()

	if err := json.NewEncoder(buf).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
		http.Error(w, `{"error":"internal server error","code":500}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, ErrorResponse{
		Error: msg,
		Code:  status,
	})
}
