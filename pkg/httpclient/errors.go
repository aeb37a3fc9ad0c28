package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/kanavphull/stores-rest-api/pkg/errors"
)

// ProviderErrorResponse is the JSON error body shape returned by external HTTP
// APIs such as the mail provider. Mailgun-style APIs return {"message": "..."};
// some return {"error": "..."} instead, so both fields are tried.
type ProviderErrorResponse struct {
	Message string `json:"message"`
	ErrMsg  string `json:"error"`
}

func (p ProviderErrorResponse) text() string {
	if p.Message != "" {
		return p.Message
	}
	return p.ErrMsg
}

// ParseResponseError reads the body of a non-2xx HTTP response from an
// external provider and translates it into an appropriate AppError. If the
// body carries a JSON message it is preserved; otherwise the raw body is used.
//
// The caller should only invoke this when resp.StatusCode indicates an error
// (i.e., not 2xx). The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, providerName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", providerName, resp.StatusCode, err)
	}

	message := string(bodyBytes)
	var provider ProviderErrorResponse
	if json.Unmarshal(bodyBytes, &provider) == nil && provider.text() != "" {
		message = provider.text()
	}

	return mapProviderError(resp.StatusCode, message, providerName)
}

// mapProviderError translates a provider's HTTP status code into an AppError
// that preserves the error semantics.
func mapProviderError(status int, message, providerName string) error {
	qualifiedMsg := fmt.Sprintf("%s: %s", providerName, message)

	switch {
	case status == http.StatusBadRequest:
		return apperrors.InvalidInput(qualifiedMsg)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		// Bad API key or unverified sending domain.
		return apperrors.Internal(fmt.Errorf("%s rejected credentials (%d): %s", providerName, status, message))
	case status == http.StatusNotFound:
		return apperrors.NotFound(providerName, message)
	case status >= 500:
		return fmt.Errorf("%s server error (%d): %s", providerName, status, message)
	default:
		return &apperrors.AppError{
			Code:    "PROVIDER_ERROR",
			Message: qualifiedMsg,
			Status:  status,
		}
	}
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
// Client errors will not succeed on retry, so callers should not requeue them.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
