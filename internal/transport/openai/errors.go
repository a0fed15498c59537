package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kailas-cloud/cvdex/internal/domain"
)

// parseAPIError extracts a human-readable error from the API response.
// Every error wraps the given provider sentinel; HTTP 429 also wraps domain.ErrRateLimited.
func parseAPIError(err error, kind string, wrap error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = string(reqErr.Body)
		}
		return withStatus(fmt.Errorf("%s API error %d: %s: %w",
			kind, reqErr.HTTPStatusCode, detail, wrap), reqErr.HTTPStatusCode)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return withStatus(fmt.Errorf("%s API error %d: %s: %w",
			kind, apiErr.HTTPStatusCode, apiErr.Message, wrap), apiErr.HTTPStatusCode)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s request: %w: %w", kind, err, wrap)
	}

	return fmt.Errorf("%s request failed: %w", kind, wrap)
}

func withStatus(err error, status int) error {
	if status == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %w", domain.ErrRateLimited, err)
	}
	return err
}

// extractDetail extracts the "detail" field from a JSON error body (Nebius error format).
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
