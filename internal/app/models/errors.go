package models

import "errors"

// Domain specific errors shared across the search workflow.
var (
	ErrNotFound   = errors.New("requested item not found")
	ErrBadRequest = errors.New("bad request")
	ErrValidation = errors.New("validation failed")

	// ErrNoSession means a dependent call ran without a live session token.
	// That is a caller bug, not user input to correct.
	ErrNoSession = errors.New("no active search session token")

	// ErrUpstream covers any non-success response or malformed body from
	// the place or event APIs. It is surfaced as a single failure message;
	// partial results are never shown.
	ErrUpstream = errors.New("upstream service error")
)
