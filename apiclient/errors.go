// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// FallbackMessage is shown when the API gives no message of its own.
const FallbackMessage = "Terjadi kesalahan. Silakan coba lagi."

// ErrUnavailable wraps transport failures (connection refused, timeouts).
var ErrUnavailable = errors.New("external API unavailable")

// APIError is a non-2xx answer from the external API.
type APIError struct {
	Status  int
	Message string
	Errors  map[string][]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func decodeError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var envelope struct {
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		apiErr.Message = strings.TrimSpace(envelope.Message)
		apiErr.Errors = envelope.Errors
	}
	if apiErr.Message == "" {
		apiErr.Message = FallbackMessage
	}
	return apiErr
}

// Message returns the text to show for err: the API's own message when it
// sent one, otherwise FallbackMessage.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return FallbackMessage
}
