package main

import (
	"itinsort/internal/app"

	"github.com/sirupsen/logrus"
)

// @title Itinerary Sorting API
// @version 1.0
// @description Sorts travel itineraries by duration, price or a balance of both.
// @BasePath /
func main() {
	if err := app.Run(); err != nil {
		logrus.WithError(err).Fatal("Application stopped")
	}
}
