package steamapi

import (
	"errors"
	"fmt"
)

// APIError is a non-2xx response from the Steam Web API.
type APIError struct {
	StatusCode int
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("steam api: unexpected status %d from %s", e.StatusCode, e.URL)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, statusCode int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == statusCode
}
