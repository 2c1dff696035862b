package apperrors

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrorBody is the JSON error payload returned by the records backend.
type ErrorBody struct {
	Message    string     `json:"message,omitempty"`
	Error      string     `json:"error,omitempty"`
	Errors     FieldIssue `json:"errors,omitempty"`
	Suggestion string     `json:"suggestion,omitempty"`
	Type       string     `json:"type,omitempty"`
}

// FieldIssue holds the "errors" member, which the backend sends either as a
// field -> message object or as a plain string. Object key order is kept.
type FieldIssue struct {
	Fields []FieldMessage
	Text   string
	isText bool
}

// FieldMessage is one entry of a field error map.
type FieldMessage struct {
	Field   string
	Message string
}

// IsMap reports whether the member arrived as a JSON object.
func (f FieldIssue) IsMap() bool {
	return !f.isText && f.Fields != nil
}

// IsText reports whether the member arrived as a JSON string.
func (f FieldIssue) IsText() bool {
	return f.isText
}

// UnmarshalJSON accepts an object, a string or null.
func (f *FieldIssue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f.Text = s
		f.isText = true
		return nil
	case '{':
		return f.decodeObject(data)
	default:
		// numbers, arrays and booleans carry nothing displayable
		return nil
	}
}

func (f *FieldIssue) decodeObject(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return err
	}

	fields := make([]FieldMessage, 0)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}

		var msg string
		if err := json.Unmarshal(raw, &msg); err != nil {
			msg = string(raw)
		}
		fields = append(fields, FieldMessage{Field: key, Message: msg})
	}

	f.Fields = fields
	return nil
}

// MarshalJSON writes the member back in the shape it arrived in.
func (f FieldIssue) MarshalJSON() ([]byte, error) {
	if f.isText {
		return json.Marshal(f.Text)
	}
	if f.Fields == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, fm := range f.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(fm.Field)
		v, _ := json.Marshal(fm.Message)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// APIError is a failed call to the records backend. StatusCode is zero when
// no response was received.
type APIError struct {
	StatusCode int
	Body       *ErrorBody
	Err        error
}

// NewHTTPError builds an APIError for a response with a non-2xx status.
func NewHTTPError(status int, body *ErrorBody) *APIError {
	return &APIError{
		StatusCode: status,
		Body:       body,
		Err:        fmt.Errorf("request failed with status code %d", status),
	}
}

// NewNetworkError builds an APIError for a request that never got a response.
func NewNetworkError(err error) *APIError {
	return &APIError{Err: err}
}

// Error implements error interface
func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		if e.Err != nil {
			return "backend unreachable: " + e.Err.Error()
		}
		return "backend unreachable"
	}
	if e.Body != nil {
		if msg := e.Body.Message; msg != "" {
			return fmt.Sprintf("backend %d: %s", e.StatusCode, msg)
		}
		if msg := e.Body.Error; msg != "" {
			return fmt.Sprintf("backend %d: %s", e.StatusCode, msg)
		}
	}
	return fmt.Sprintf("backend %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Unwrap implements errors.Unwrap interface
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is maps backend statuses onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrResourceNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrConflict:
		return e.StatusCode == http.StatusConflict
	case ErrUnauthenticated:
		return e.StatusCode == http.StatusUnauthorized
	case ErrPermissionDenied:
		return e.StatusCode == http.StatusForbidden
	case ErrBackendUnavailable:
		return e.StatusCode == 0 || e.StatusCode == http.StatusBadGateway || e.StatusCode == http.StatusServiceUnavailable
	}
	return false
}

// IsNetworkError reports whether the request never got a response.
func (e *APIError) IsNetworkError() bool {
	return e.StatusCode == 0
}

// AsAPIError unwraps err to an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
