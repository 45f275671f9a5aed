package domain

import "errors"

// ErrNotFound is returned when the requested resource does not exist: a
// record id with no matching row, or a question the query catalog does not
// recognise. Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input is rejected before it reaches the
// store, such as a catalog entry with an empty query.
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")
