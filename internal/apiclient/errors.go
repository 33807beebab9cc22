package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
	ErrUnavailable  = errors.New("api unavailable")
)

// APIError is a non-2xx answer from the REST API.
type APIError struct {
	Status  int
	Message string
	// Fields holds per-field messages when the API reports them.
	Fields map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned status %d", e.Status)
	}
	return fmt.Sprintf("api returned status %d: %s", e.Status, e.Message)
}

// Unwrap maps the status to a sentinel so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return ErrForbidden
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status == http.StatusConflict:
		return ErrConflict
	case e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity:
		return ErrValidation
	case e.Status >= 500:
		return ErrUnavailable
	}
	return nil
}

// Message is the text to show a user for err: the API's own message when
// there is one, fallback otherwise.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	return fallback
}

type errorBody struct {
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Errors  json.RawMessage `json:"errors"`
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
		if len(apiErr.Message) > 200 {
			apiErr.Message = apiErr.Message[:200]
		}
		return apiErr
	}
	apiErr.Message = eb.Message
	if apiErr.Message == "" {
		apiErr.Message = eb.Error
	}
	if len(eb.Errors) > 0 {
		apiErr.Fields = parseFieldErrors(eb.Errors)
	}
	return apiErr
}

// parseFieldErrors accepts {"field": "msg"} or [{"field"|"path": .., "message"|"msg": ..}].
func parseFieldErrors(raw json.RawMessage) map[string]string {
	out := map[string]string{}
	var asMap map[string]string
	if err := json.Unmarshal(raw, &asMap); err == nil {
		for k, v := range asMap {
			out[k] = v
		}
		return out
	}
	var asList []struct {
		Field   string `json:"field"`
		Path    string `json:"path"`
		Message string `json:"message"`
		Msg     string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &asList); err == nil {
		for _, item := range asList {
			field := item.Field
			if field == "" {
				field = item.Path
			}
			msg := item.Message
			if msg == "" {
				msg = item.Msg
			}
			if field != "" && msg != "" {
				out[field] = msg
			}
		}
	}
	return out
}
