package boundary

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// ErrMissingCredentials is returned when a client is built without an API key or organization id
var ErrMissingCredentials = errors.New("boundary: api key and organization id are required")

// APIError is a response from the Boundary API outside the 2xx range
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s %s returned %s", e.Method, e.URL, e.Status)
	}
	return fmt.Sprintf("%s %s returned %s: %s", e.Method, e.URL, e.Status, body)
}

// IsUnauthorized reports whether err is an APIError for a rejected API key
func IsUnauthorized(err error) bool {
	apiErr, ok := errors.Cause(err).(*APIError)
	return ok && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden)
}

func newAPIError(resp *resty.Response) *APIError {
	e := &APIError{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Body:       resp.String(),
	}
	if e.Status == "" {
		e.Status = fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	if resp.Request != nil {
		e.Method = resp.Request.Method
		e.URL = resp.Request.URL
	}
	return e
}
