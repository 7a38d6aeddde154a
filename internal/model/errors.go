package model

import "errors"

// Error taxonomy for the rectification engine.
//
// Only ErrInvalidInput and the terminal outcomes are user-facing; the rest
// are internal signals for callers of the engine API.
var (
	// ErrInvalidInput indicates a malformed or missing birth date, time range,
	// or location. Fatal to session start.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidInstant indicates an instant without a resolved UTC offset
	// reached the ephemeris. Always a bug in the calling code.
	ErrInvalidInstant = errors.New("invalid instant")

	// ErrIncompleteChartData indicates fewer than the full body set was
	// available for chart assembly. Aborts that iteration only.
	ErrIncompleteChartData = errors.New("incomplete chart data")

	// ErrInvalidWeights indicates sensitivity weights that do not sum to 1.0.
	// Fatal at configuration load, never at runtime.
	ErrInvalidWeights = errors.New("invalid sensitivity weights")

	// ErrSessionClosed indicates an operation on a terminated session.
	ErrSessionClosed = errors.New("session closed")

	// ErrSessionNotTerminated indicates a result was requested before the
	// session reached a terminal state.
	ErrSessionNotTerminated = errors.New("session not terminated")

	// ErrNotFound indicates a geocoding or timezone lookup miss.
	ErrNotFound = errors.New("not found")
)
