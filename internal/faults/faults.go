// Package faults defines the error taxonomy of the pipeline. Categories are
// marker sentinels combined with cockroachdb/errors wrapping, so call sites
// attach context with Wrapf and the pipeline classifies with errors.Is.
package faults

import "github.com/cockroachdb/errors"

var (
	// ErrMissingParent: a roster or schedule lookup failed. Recovered locally
	// with a null FK; never fatal.
	ErrMissingParent = errors.New("missing parent reference")

	// ErrMalformedInterval: a shift with non-positive or inverted duration.
	// The shift is excluded from TOI sums but retained for event attribution.
	ErrMalformedInterval = errors.New("malformed shift interval")

	// ErrSegmentationGap: an event lacks a resolvable start time. The event is
	// excluded from boundary detection but retained in the output.
	ErrSegmentationGap = errors.New("event without resolvable start time")

	// ErrFatalInput: a required input table is entirely missing for a game.
	// Aborts that game only, never the batch.
	ErrFatalInput = errors.New("required input table missing")
)

// Category returns the taxonomy label for an error, or "internal" when the
// error carries no marker.
func Category(err error) string {
	switch {
	case errors.Is(err, ErrFatalInput):
		return "fatal-input"
	case errors.Is(err, ErrMissingParent):
		return "missing-parent"
	case errors.Is(err, ErrMalformedInterval):
		return "malformed-interval"
	case errors.Is(err, ErrSegmentationGap):
		return "segmentation-gap"
	default:
		return "internal"
	}
}
