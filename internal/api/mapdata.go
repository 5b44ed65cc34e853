package api

import (
	"log/slog"
	"net/http"

	"github.com/opensensemap/osem-map/internal/model"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Map handles GET /api/v1/map. Devices and campaigns are loaded concurrently and
// narrowed with the same criteria and bbox.
//
//	@Summary		Map entities
//	@Tags			map
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
//	@Success		200			{object}	MapResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/api/v1/map [get]
func (h *Handler) Map(w http.ResponseWriter, r *http.Request) {
	criteria, bbox, err := parseQuery(r)
	if err != nil {
		h.writeParseError(w, err)
		return
	}

	var (
		devices   []model.Device
		campaigns []model.Campaign
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		devices, err = h.devices.ListDevices(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		campaigns, err = h.campaigns.ListCampaigns(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		slog.Error("api: failed to load map data", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load map data")
		return
	}

	deviceView := narrow(devices, criteria, bbox)
	campaignView := narrow(campaigns, criteria, bbox)

	h.writeJSON(w, http.StatusOK, MapResponse{
		Devices:        lo.Map(deviceView.Visible(), toDeviceResponse),
		Campaigns:      lo.Map(campaignView.Visible(), toCampaignResponse),
		DeviceCounts:   counts(deviceView),
		CampaignCounts: counts(campaignView),
		Criteria:       criteria,
		BBox:           bbox,
	})
}
