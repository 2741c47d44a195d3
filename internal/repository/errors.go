package repository

import (
	"errors"
	"fmt"
)

// Custom error types
var (
	ErrLocationNotFound = errors.New("location not found")
	ErrAPIKeyMissing    = errors.New("API key missing")
	ErrNetwork          = errors.New("network error")
	ErrNoSavedLocation  = errors.New("no saved location")
	ErrCountryNotFound  = errors.New("country not found")
)

// LocationNotFoundError carries the upstream message for a place that does not exist.
type LocationNotFoundError struct {
	Query   string
	Message string
}

func (e *LocationNotFoundError) Error() string {
	if e.Message == "" {
		return ErrLocationNotFound.Error()
	}
	return e.Message
}

func (e *LocationNotFoundError) Is(target error) bool {
	return target == ErrLocationNotFound
}

// NetworkError is a transport failure or a non-2xx answer other than not-found.
// Code is the "cod" of the upstream error body, if any.
type NetworkError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *NetworkError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("upstream returned status %d", e.StatusCode)
	case e.Err != nil:
		return "network error: " + e.Err.Error()
	}
	return ErrNetwork.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}
