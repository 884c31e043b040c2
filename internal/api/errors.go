package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Error is a failed persistence call. Status is the HTTP status (0 for
// transport-level failures), Code a machine-readable code when the server
// provided one.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

// IsNotFound reports whether err is an API error with a 404 status.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == 404
}

// ErrorDetail is the error field of a bulk-generation response. The server
// returns either a bare string or a {message, code} object; both decode.
type ErrorDetail struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (d *ErrorDetail) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		d.Message = s
		return nil
	}
	type plain ErrorDetail
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*d = ErrorDetail(p)
	return nil
}

func (d ErrorDetail) Empty() bool {
	return d.Message == "" && d.Code == ""
}

func (d ErrorDetail) String() string {
	if d.Message != "" {
		return d.Message
	}
	return d.Code
}
