// Package fetcher extracts full article bodies for items whose feed content
// is too thin to score or summarize well.
package fetcher

import "errors"

var (
	// ErrInvalidURL is returned when a URL fails validation.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrPrivateIP is returned when a hostname resolves to a private,
	// loopback or link-local address and such targets are denied.
	ErrPrivateIP = errors.New("private IP address not allowed")

	// ErrTimeout is returned when a fetch exceeds the configured timeout.
	ErrTimeout = errors.New("content fetch timeout")

	// ErrBodyTooLarge is returned when a response exceeds the size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTooManyRedirects is returned when the redirect limit is exceeded.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrExtractionFailed is returned when no readable article content
	// could be extracted from the fetched page.
	ErrExtractionFailed = errors.New("content extraction failed")
)
