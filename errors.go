package itinerary

import "errors"

var (
	// ErrInvalidConfiguration flags malformed input: non-positive days or
	// hours, negative budgets, or a distance matrix that does not match
	// the catalogue. Detected before any variable is allocated.
	ErrInvalidConfiguration = errors.New("itinerary: invalid configuration")

	// ErrModelConstruction flags an internal bookkeeping fault while
	// wiring variables and constraints. It cannot be triggered by bad
	// user input alone.
	ErrModelConstruction = errors.New("itinerary: model construction failed")

	// ErrReconstruction flags a solver assignment whose arcs do not form
	// one simple path per day over exactly the visited attractions.
	ErrReconstruction = errors.New("itinerary: route reconstruction failed")
)
