package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/opensensemap/osem-map/internal/chart"
	"github.com/opensensemap/osem-map/internal/config"
	"github.com/opensensemap/osem-map/internal/model"
	"github.com/opensensemap/osem-map/internal/repository"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const maxCompareDevices = 4

// GetMeasurements handles GET /api/v1/devices/{id}/measurements.
//
// Query parameters: from, to (RFC3339; default is the last 24 hours) and compare, a comma
// separated list of further device ids whose sensors are added to the same chart.
//
//	@Summary		Device measurements
//	@Description	Chart datasets for a device, optionally compared with other devices
//	@Tags			devices
//	@Produce		json
//	@Param			id		path		string	true	"Device ID"
//	@Param			from	query		string	false	"Window start (RFC3339)"
//	@Param			to		query		string	false	"Window end (RFC3339)"
//	@Param			compare	query		string	false	"Comma-separated device IDs"	maxItems(4)
//	@Success		200		{object}	MeasurementsResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/v1/devices/{id}/measurements [get]
func (h *Handler) GetMeasurements(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "device ID is required")
		return
	}

	from, to, err := measurementWindow(r, time.Now())
	if err != nil {
		h.writeParseError(w, err)
		return
	}

	ids := lo.Uniq(append([]string{id}, splitList(r.URL.Query().Get("compare"))...))
	if len(ids) > maxCompareDevices+1 {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("at most %d devices can be compared", maxCompareDevices))
		return
	}

	series := make([][]chart.Series, len(ids))
	g, ctx := errgroup.WithContext(r.Context())
	for i, deviceID := range ids {
		g.Go(func() error {
			device, err := h.devices.GetDevice(ctx, deviceID)
			if err != nil {
				return err
			}
			measurements, err := h.measurements.ListMeasurements(ctx, deviceID, from, to)
			if err != nil {
				return fmt.Errorf("list measurements of %s: %w", deviceID, err)
			}
			series[i] = deviceSeries(*device, measurements)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "device not found")
			return
		}
		slog.Error("api: failed to load measurements", "device_id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load measurements")
		return
	}

	compare := len(ids) > 1
	h.writeJSON(w, http.StatusOK, MeasurementsResponse{
		From:     from,
		To:       to,
		Compare:  compare,
		Datasets: chart.Build(lo.Flatten(series), chart.Options{Compare: compare}),
	})
}

// deviceSeries groups measurements by sensor, following the device's sensor order.
func deviceSeries(device model.Device, measurements []model.Measurement) []chart.Series {
	bySensor := lo.GroupBy(measurements, func(m model.Measurement) string { return m.SensorID })
	return lo.Map(device.Sensors, func(s model.Sensor, _ int) chart.Series {
		return chart.Series{
			DeviceID:     device.ID,
			DeviceName:   device.Name,
			Sensor:       s,
			Measurements: bySensor[s.ID],
		}
	})
}

// measurementWindow resolves the requested [from, to) window relative to now.
func measurementWindow(r *http.Request, now time.Time) (time.Time, time.Time, error) {
	fromParam, err := parseTimeParam(r, "from")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	toParam, err := parseTimeParam(r, "to")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	to := now
	if toParam != nil {
		to = *toParam
	}
	from := to.Add(-config.DefaultMeasurementWindow)
	if fromParam != nil {
		from = *fromParam
	}

	if !from.Before(to) {
		return time.Time{}, time.Time{}, badRequest("from must be before to")
	}
	if to.Sub(from) > config.MaxMeasurementWindow {
		return time.Time{}, time.Time{}, badRequest("time window must not exceed %d days",
			int(config.MaxMeasurementWindow.Hours()/24))
	}
	return from, to, nil
}
