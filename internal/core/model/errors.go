package model

import "errors"

var (
	// ErrInvalidArgument is returned for nonpositive counts or out-of-range
	// request parameters. Nothing is computed when it is returned.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrMalformedRecord marks a row that cannot become a ScoredEdge.
	// Readers skip and count such rows; it is never fatal on its own.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrMalformedHeader means the source lacks a required column.
	ErrMalformedHeader = errors.New("malformed header")
	// ErrSourceUnavailable wraps failures to open or read a record source.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrDatasetNotFound is returned by dataset drivers for unknown names.
	ErrDatasetNotFound = errors.New("dataset not found")
)
