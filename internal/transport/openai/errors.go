package openai

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kailas-cloud/supportqa/internal/domain"
)

// parseAPIError extracts a human-readable error from the API response and wraps it
// with the given provider sentinel. 429 responses also wrap domain.ErrRateLimited.
func parseAPIError(kind string, err error, wrap error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = string(reqErr.Body)
		}
		return fmt.Errorf("%s API error %d: %s: %w",
			kind, reqErr.HTTPStatusCode, detail, statusWrap(reqErr.HTTPStatusCode, wrap))
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s API error %d: %s: %w",
			kind, apiErr.HTTPStatusCode, apiErr.Message, statusWrap(apiErr.HTTPStatusCode, wrap))
	}

	return fmt.Errorf("%s request failed: %w: %w", kind, wrap, err)
}

func statusWrap(status int, wrap error) error {
	if status == http.StatusTooManyRequests {
		return errors.Join(wrap, domain.ErrRateLimited)
	}
	return wrap
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
