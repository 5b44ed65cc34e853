package api

import (
	"log/slog"
	"net/http"

	"github.com/opensensemap/osem-map/internal/markdown"
	"github.com/opensensemap/osem-map/internal/model"
	"github.com/samber/lo"
)

// ListCampaigns handles GET /api/v1/campaigns.
//
//	@Summary		List campaigns
//	@Description	List campaigns filtered by criteria and narrowed to the viewport
//	@Tags			campaigns
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
//	@Router			/api/v1/campaigns [get]
func (h *Handler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	criteria, bbox, err := parseQuery(r)
	if err != nil {
		h.writeParseError(w, err)
		return
	}

	campaigns, err := h.campaigns.ListCampaigns(r.Context())
	if err != nil {
		slog.Error("api: failed to list campaigns", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list campaigns")
		return
	}

	view := narrow(campaigns, criteria, bbox)
	h.writeJSON(w, http.StatusOK, ListResponse{
		Data:     lo.Map(view.Visible(), toCampaignResponse),
		Counts:   counts(view),
		Criteria: criteria,
		BBox:     bbox,
	})
}

func toCampaignResponse(c model.Campaign, _ int) CampaignResponse {
	resp := CampaignResponse{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		DescriptionHTML: markdown.Render(c.Description),
		Priority:        c.Priority,
		Exposure:        c.Exposure,
		Countries:       c.Countries,
		Phenomena:       c.Phenomena,
		Tags:            c.Tags,
		StartDate:       c.StartDate,
		EndDate:         c.EndDate,
		CreatedAt:       c.CreatedAt,
	}
	if p, ok := c.Point(); ok {
		resp.Centerpoint = &p
	}
	return resp
}
