package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a failed catalog API call, keyed by the upstream HTTP status so
// callers can classify without matching on message text.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("catalog API error (status %d): %s", e.StatusCode, e.Message)
}

// IsAuthError reports whether err is a catalog credential failure. Retrying
// cannot fix those, so webhook delivery must not be re-signaled for them.
func IsAuthError(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}
	return false
}
