package domain

import "errors"

// ErrNotFound is returned by repo, graph, and service functions when the
// requested document or entity does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails
// validation (e.g. an uploaded document that is not JSON, a missing query param).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")
