package services

import "errors"

// Failure kinds surfaced by the suggestion broker. The broker reports the
// kind and nothing else; handlers decide how each maps to an HTTP status.
var (
	ErrInvalidCategory         = errors.New("invalid suggestion category")
	ErrSuggestionTimeout       = errors.New("suggestion agent timed out")
	ErrUpstreamInvalidResponse = errors.New("agent response failed validation")
	ErrSuggestionUnavailable   = errors.New("suggestions unavailable after retry")
)
