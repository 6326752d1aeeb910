package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a platform API failure so call sites can branch on the
// kind instead of matching substrings of the error text.
type ErrorKind string

const (
	// KindForbidden is an access-tier restriction (HTTP 403). The account's
	// API plan does not include the endpoint.
	KindForbidden ErrorKind = "forbidden"
	// KindUnauthorized is a credential failure (HTTP 401).
	KindUnauthorized ErrorKind = "unauthorized"
	// KindNotFound is a missing resource (HTTP 404).
	KindNotFound ErrorKind = "not_found"
	// KindUnsupported means the client does not implement the operation at
	// all, e.g. DMs on the v2 client.
	KindUnsupported ErrorKind = "unsupported"
	// KindTransport covers everything else: network errors, 5xx, rate
	// limiting, malformed responses.
	KindTransport ErrorKind = "transport"
)

// APIError is a typed platform API failure.
type APIError struct {
	Kind    ErrorKind
	Op      string // e.g. "v1.post_tweet"
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Op, e.Message, e.Kind)
}

// KindOf extracts the error kind, defaulting to KindTransport for errors that
// did not come from a platform client.
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindTransport
}
