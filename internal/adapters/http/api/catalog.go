package api

import (
	"errors"
	"net/http"
)

// CatalogHandler exposes the service catalog.
type CatalogHandler struct {
	deps CatalogProvider
}

// HandleGetCatalog handles GET /v1/catalog.
func (h *CatalogHandler) HandleGetCatalog(w http.ResponseWriter, r *http.Request) {
	c := h.deps.Catalog()
	if c == nil {
		writeFailure(w, "api.get_catalog", errors.New("catalog not loaded"))
		return
	}
	writeJSON(w, http.StatusOK, c)
}
