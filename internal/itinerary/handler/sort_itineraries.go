package handler

import (
	"context"
	"encoding/json"
	"errors"
	"itinsort/internal/domain"
	"itinsort/internal/itinerary"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

// Amount and DurationMinutes keep absent and null apart from zero so the
// validator can reject them.
type PriceDTO struct {
	Amount   decimal.NullDecimal `json:"amount" swaggertype:"string" example:"90.00"`
	Currency string              `json:"currency" example:"EUR"`
}

type ItineraryDTO struct {
	ID              string   `json:"id" example:"sunny_beach"`
	DurationMinutes *int     `json:"duration_minutes" example:"330"`
	Price           PriceDTO `json:"price"`
}

type SortItinerariesRequest struct {
	SortingType string         `json:"sorting_type" example:"cheapest"`
	Itineraries []ItineraryDTO `json:"itineraries"`
}

type SortItinerariesResponse struct {
	SortingType       string         `json:"sorting_type" example:"cheapest"`
	SortedItineraries []ItineraryDTO `json:"sorted_itineraries"`
}

// SortItineraries godoc
// @Summary Sort itineraries
// @Description Orders itineraries by the requested strategy. Prices in different currencies are compared after conversion to the configured target currency.
// @Tags Itineraries
// @Accept json
// @Produce json
// @Param request body SortItinerariesRequest true "Sorting type and itineraries"
// @Success 200 {object} SortItinerariesResponse
// @Failure 400 {object} errorResponse
// @Failure 413 {object} errorResponse
// @Failure 422 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Failure 503 {object} errorResponse
// @Router /sort_itineraries [post]
func (h *Handler) SortItineraries(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req SortItinerariesRequest
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items, err := h.validator.Validate(req.SortingType, toInputs(req.Itineraries))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.sorter.Sort(r.Context(), req.SortingType, items)
	if err != nil {
		h.writeSortError(w, r, req.SortingType, len(items), err)
		return
	}

	if !res.RatesFetchedAt.IsZero() {
		w.Header().Set("X-Rates-Snapshot-Id", res.SnapshotID.String())
		w.Header().Set("X-Rates-Fetched-At", res.RatesFetchedAt.UTC().Format(time.RFC3339))
	}
	writeJSON(w, http.StatusOK, SortItinerariesResponse{
		SortingType:       res.SortingType,
		SortedItineraries: toDTOs(res.Itineraries),
	})
}

func (h *Handler) writeSortError(w http.ResponseWriter, r *http.Request, sortingType string, count int, err error) {
	log := logrus.WithError(err).WithFields(logrus.Fields{
		"handler":      "SortItineraries",
		"sorting_type": sortingType,
		"itineraries":  count,
	})

	switch {
	case errors.Is(err, domain.ErrUnknownStrategy):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrRateUnavailable):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrRateFetchFailed):
		log.Warn("rates unavailable, sort rejected")
		writeError(w, http.StatusServiceUnavailable, "currency rates are temporarily unavailable")
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(r.Context().Err(), context.Canceled):
		log.Warn("sort aborted")
		writeError(w, http.StatusServiceUnavailable, "request timed out")
	default:
		msg := "ups, couldn't sort itineraries this time"
		log.Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
	}
}

func toInputs(dtos []ItineraryDTO) []itinerary.Input {
	if dtos == nil {
		return nil
	}
	inputs := make([]itinerary.Input, len(dtos))
	for i, d := range dtos {
		inputs[i] = itinerary.Input{
			ID:              d.ID,
			DurationMinutes: d.DurationMinutes,
			Amount:          d.Price.Amount,
			Currency:        d.Price.Currency,
		}
	}
	return inputs
}

func toDTOs(items []domain.Itinerary) []ItineraryDTO {
	dtos := make([]ItineraryDTO, len(items))
	for i, it := range items {
		minutes := it.DurationMinutes
		dtos[i] = ItineraryDTO{
			ID:              it.ID,
			DurationMinutes: &minutes,
			Price: PriceDTO{
				Amount:   decimal.NullDecimal{Decimal: it.Price.Amount, Valid: true},
				Currency: it.Price.Currency,
			},
		}
	}
	return dtos
}
