package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/wkarimi/shulebook/pkg/api"
)

// Error is the typed error returned for every non-2xx response. Detail
// carries the server-supplied message when one is present.
type Error struct {
	StatusCode int
	Detail     string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("server error (%d)", e.StatusCode)
	}
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Detail)
}

// IsUnauthorized reports whether err is a 401 API error.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsNotFound reports whether err is a 404 API error. Domain endpoints
// use 404 for "no data yet", which callers map to an empty list.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

func hasStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// decodeError maps a non-2xx response body to an *Error. The backend
// answers with {"detail": ...} on API errors and {"error": ...} in a
// few legacy views; both are accepted, anything else is kept raw.
func decodeError(status int, body []byte) error {
	var errResp api.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		detail := errResp.Detail
		if detail == "" {
			detail = errResp.Error
		}
		if detail != "" {
			return &Error{StatusCode: status, Detail: detail}
		}
	}
	return &Error{StatusCode: status, Detail: string(body)}
}
