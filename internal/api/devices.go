package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/opensensemap/osem-map/internal/filter"
	"github.com/opensensemap/osem-map/internal/mapview"
	"github.com/opensensemap/osem-map/internal/model"
	"github.com/opensensemap/osem-map/internal/repository"
	"github.com/opensensemap/osem-map/internal/viewport"
	"github.com/samber/lo"
)

// ListDevices handles GET /api/v1/devices.
//
//	@Summary		List devices
//	@Description	List sensor devices filtered by criteria and narrowed to the viewport
//	@Tags			devices
//	@Produce		json
//	@Param			priority	query		string	false	"Campaign priority"	Enums(urgent, high, medium, low)
//	@Param			status		query		string	false	"Device status"	Enums(active, inactive, old)
//	@Param			country		query		string	false	"Country code"
//	@Param			exposure	query		string	false	"Exposure"	Enums(indoor, outdoor, mobile, unknown)
//	@Param			phenomena	query		string	false	"Comma-separated phenomena"
//	@Param			tags		query		string	false	"Comma-separated tags"
//	@Param			from		query		string	false	"Range start (RFC3339)"
//	@Param			to			query		string	false	"Range end (RFC3339)"
//	@Param			time_match	query		string	false	"Time range matching"	Enums(endpoint, overlap)	default(endpoint)
//	@Param			bbox		query		string	false	"Viewport minLon,minLat,maxLon,maxLat"
//	@Success		200			{object}	ListResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/api/v1/devices [get]
func (h *Handler) ListDevices(w http.ResponseWriter, r *http.Request) {
	criteria, bbox, err := parseQuery(r)
	if err != nil {
		h.writeParseError(w, err)
		return
	}

	devices, err := h.devices.ListDevices(r.Context())
	if err != nil {
		slog.Error("api: failed to list devices", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list devices")
		return
	}

	view := narrow(devices, criteria, bbox)
	h.writeJSON(w, http.StatusOK, ListResponse{
		Data:     lo.Map(view.Visible(), toDeviceResponse),
		Counts:   counts(view),
		Criteria: criteria,
		BBox:     bbox,
	})
}

// GetDevice handles GET /api/v1/devices/{id}.
//
//	@Summary		Get device
//	@Tags			devices
//	@Produce		json
//	@Param			id	path		string	true	"Device ID"
//	@Success		200	{object}	DeviceResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/api/v1/devices/{id} [get]
func (h *Handler) GetDevice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "device ID is required")
		return
	}

	device, err := h.devices.GetDevice(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		h.writeError(w, http.StatusNotFound, "device not found")
		return
	}
	if err != nil {
		slog.Error("api: failed to get device", "device_id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to get device")
		return
	}

	h.writeJSON(w, http.StatusOK, toDeviceResponse(*device, 0))
}

func parseQuery(r *http.Request) (filter.Criteria, *viewport.Bounds, error) {
	criteria, err := parseCriteria(r)
	if err != nil {
		return filter.Criteria{}, nil, err
	}
	bbox, err := parseBBox(r)
	if err != nil {
		return filter.Criteria{}, nil, err
	}
	return criteria, bbox, nil
}

// narrow filters items by criteria, then restricts them to bbox when given.
func narrow[T mapview.Item](items []T, criteria filter.Criteria, bbox *viewport.Bounds) *mapview.View[T] {
	view := mapview.New(items)
	view.SetCriteria(criteria)
	if bbox != nil {
		view.SetBounds(*bbox)
	}
	return view
}

func counts[T mapview.Item](view *mapview.View[T]) Counts {
	return Counts{
		Total:    view.Total(),
		Filtered: len(view.Filtered()),
		Visible:  len(view.Visible()),
	}
}

func toDeviceResponse(d model.Device, _ int) DeviceResponse {
	resp := DeviceResponse{
		ID:        d.ID,
		Name:      d.Name,
		Exposure:  d.Exposure,
		Status:    d.Status,
		Model:     d.Model,
		Country:   d.Country,
		Tags:      d.Tags,
		Sensors:   d.Sensors,
		CreatedAt: d.CreatedAt,
	}
	if p, ok := d.Point(); ok {
		resp.Location = &p
	}
	return resp
}
