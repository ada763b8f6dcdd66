package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing name, stars out of range, malformed ZIP).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrLocationNotFound is returned by the geocoder when a postal code does not
// resolve to any location.
var ErrLocationNotFound = errors.New("location not found")

// ErrGeocoderUnavailable is returned by the geocoder when the upstream service
// timed out or failed after all retries.
var ErrGeocoderUnavailable = errors.New("geocoder unavailable")
