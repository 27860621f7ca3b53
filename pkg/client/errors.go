package client

import "fmt"

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("supportqa: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("supportqa: HTTP %d %s: %s", e.StatusCode, e.Code, e.Message)
}
