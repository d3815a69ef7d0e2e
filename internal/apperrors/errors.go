// Package apperrors holds the error taxonomy shared by repositories, services and handlers.
// Callers wrap these sentinels with fmt.Errorf("...: %w", err) and match them with errors.Is.
package apperrors

import "errors"

var (
	// ErrInvalidInput is returned for bad uploads and malformed request payloads.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidDocument is returned when a PDF cannot be parsed or has no pages.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrEmptyContent is returned when a PDF yields no extractable text.
	ErrEmptyContent = errors.New("no extractable text")

	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrModelUnavailable marks a summarization backend failure. The summarizer
	// recovers from it locally; it never reaches an HTTP response.
	ErrModelUnavailable = errors.New("summarization model unavailable")

	// ErrStoreUnavailable is returned once store retries are exhausted.
	ErrStoreUnavailable = errors.New("store unavailable")
)
