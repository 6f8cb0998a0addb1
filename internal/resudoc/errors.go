package resudoc

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrEmptyJobDescription = errors.New("job description is empty")
	ErrInvalidTopK         = fmt.Errorf("k must be between %d and %d", MinTopK, MaxTopK)
	ErrNoFiles             = errors.New("no files selected")
)

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Status     string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("bad status: %s", e.Status)
	}
	return fmt.Sprintf("bad status: %s: %s", e.Status, e.Detail)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

func newAPIError(resp *http.Response, body []byte) *APIError {
	status := resp.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Status:     status,
		Detail:     detailFromBody(body),
	}
}

// detailFromBody extracts the "detail" member the backend puts in error bodies.
// Validation errors carry a list there, which is kept as compact JSON.
func detailFromBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	return valueAsString(payload.Detail)
}

func valueAsString(v any) string {
	if v == nil {
		return ""
	}

	switch typed := v.(type) {
	case string:
		return strings.TrimSpace(typed)
	case fmt.Stringer:
		return typed.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
