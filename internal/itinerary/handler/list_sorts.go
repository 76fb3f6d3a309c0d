package handler

import (
	"net/http"
)

type ListSortsResponse struct {
	Available []string `json:"available" example:"best,cheapest,fastest"`
}

// ListSorts godoc
// @Summary List sorting types
// @Description Names accepted as sorting_type by POST /sort_itineraries
// @Tags Itineraries
// @Produce json
// @Success 200 {object} ListSortsResponse
// @Router /sorts [get]
func (h *Handler) ListSorts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ListSortsResponse{Available: h.sorter.Names()})
}
