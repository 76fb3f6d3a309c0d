package api

import (
	_ "itinsort/docs"
	"itinsort/internal/itinerary/handler"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	swagger "github.com/swaggo/http-swagger"
)

type RouterOptions struct {
	RequestTimeout time.Duration
	AllowedOrigins []string
}

func NewRouter(itineraryHandler *handler.Handler, opts RouterOptions) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(AccessLog)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))
	router.Use(cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"X-Rates-Snapshot-Id", "X-Rates-Fetched-At"},
	}).Handler)
	if opts.RequestTimeout > 0 {
		router.Use(middleware.Timeout(opts.RequestTimeout))
	}

	// Swagger UI
	router.Get("/swagger/*", swagger.WrapHandler)

	router.Get("/sorts", itineraryHandler.ListSorts)
	router.Post("/sort_itineraries", itineraryHandler.SortItineraries)
	return router
}
