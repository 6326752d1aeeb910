// Package twitter holds the two platform API clients (v1.1 and v2) and the
// gateway that applies the primary/secondary fallback policy between them.
package twitter

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/example/chirp/internal/domain"
)

const (
	v1BaseURL = "https://api.twitter.com/1.1"
	v2BaseURL = "https://api.twitter.com/2"
)

// kindFromStatus maps an HTTP status to a typed error kind, so call sites
// never have to inspect response text.
func kindFromStatus(status int) domain.ErrorKind {
	switch status {
	case http.StatusForbidden:
		return domain.KindForbidden
	case http.StatusUnauthorized:
		return domain.KindUnauthorized
	case http.StatusNotFound:
		return domain.KindNotFound
	default:
		return domain.KindTransport
	}
}

// decodeResponse consumes resp, maps non-2xx statuses to *domain.APIError and
// otherwise unmarshals the body into out (out may be nil).
func decodeResponse(resp *http.Response, op string, out any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &domain.APIError{Kind: domain.KindTransport, Op: op, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.APIError{
			Kind:    kindFromStatus(resp.StatusCode),
			Op:      op,
			Message: fmt.Sprintf("status %d: %s", resp.StatusCode, truncateBody(body)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &domain.APIError{Kind: domain.KindTransport, Op: op, Message: "decoding response: " + err.Error()}
	}
	return nil
}

func transportErr(op string, err error) error {
	return &domain.APIError{Kind: domain.KindTransport, Op: op, Message: err.Error()}
}

func truncateBody(b []byte) string {
	const max = 256
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
