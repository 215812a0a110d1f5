package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is a non-2xx answer from the backend
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Detail)
}

// newError builds an Error from a response body. The backend reports
// failures as {"detail": "..."}; request validation failures carry a list
// of {"msg": "..."} objects instead.
func newError(status int, body []byte) *Error {
	e := &Error{StatusCode: status, Detail: http.StatusText(status)}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return e
	}

	if len(envelope.Detail) > 0 {
		var text string
		if err := json.Unmarshal(envelope.Detail, &text); err == nil && text != "" {
			e.Detail = text
			return e
		}

		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(envelope.Detail, &items); err == nil {
			var msgs []string
			for _, item := range items {
				if item.Msg != "" {
					msgs = append(msgs, item.Msg)
				}
			}
			if len(msgs) > 0 {
				e.Detail = strings.Join(msgs, "; ")
				return e
			}
		}
	}

	if envelope.Error != "" {
		e.Detail = envelope.Error
	}
	return e
}

// ErrorDetail returns the backend's message for err, or fallback when the
// failure did not come with one (transport errors, decode errors).
func ErrorDetail(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

// IsStatus reports whether err is a backend error with the given status
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}
