package contracts

import "errors"

var (
	// ErrDataDirMissing is a run-level failure: the per-symbol store is not there at all
	ErrDataDirMissing = errors.New("data directory missing")

	// ErrMalformedSeries marks a per-symbol ingestion failure (missing column, bad number, unordered dates)
	ErrMalformedSeries = errors.New("malformed series")

	// ErrInsufficientHistory marks a series shorter than the registry minimum
	ErrInsufficientHistory = errors.New("insufficient history")
)
