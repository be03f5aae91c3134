package repository

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"flightdeals-service/internal/domain/entity"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	maxErrorBody       = 512
)

// NewHTTPClient returns the client used for the row store and travel API calls
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultHTTPTimeout}
}

func isSuccess(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// checkResponse reads the whole body and converts non-2xx responses into *entity.StatusError
func checkResponse(op string, resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w: %w", op, entity.ErrTransport, err)
	}

	if !isSuccess(resp) {
		snippet := body
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return body, &entity.StatusError{Op: op, StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	return body, nil
}

// transportError wraps a failed round trip, keeping any wrapped ErrAuth intact
func transportError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, entity.ErrTransport, err)
}
