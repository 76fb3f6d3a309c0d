package handler

import (
	"context"
	"encoding/json"
	"itinsort/internal/domain"
	"itinsort/internal/itinerary"
	"net/http"
)

type Sorter interface {
	Sort(ctx context.Context, sortingType string, items []domain.Itinerary) (itinerary.SortResult, error)
	Names() []string
}

type RequestValidator interface {
	Validate(sortingType string, inputs []itinerary.Input) ([]domain.Itinerary, error)
}

type Handler struct {
	validator RequestValidator
	sorter    Sorter
}

func NewItineraryHandler(validator RequestValidator, sorter Sorter) *Handler {
	return &Handler{validator: validator, sorter: sorter}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	writeJSON(w, statusCode, errorResponse{Error: errorMsg})
}
