package api

import "net/http"

// Catalog handles GET /api/v1/catalog.
//
//	@Summary		Device model catalog
//	@Tags			onboarding
//	@Produce		json
//	@Success		200	{object}	CatalogResponse
//	@Router			/api/v1/catalog [get]
func (h *Handler) Catalog(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, CatalogResponse{Models: h.catalog.Models()})
}
