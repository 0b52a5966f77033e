package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultErrorMessage is used when a failed response carries no detail.
const DefaultErrorMessage = "Request failed"

// Error is a non-2xx response from the API.
type Error struct {
	Status  int
	Message string
	// Data is the decoded response body, or nil when it was not JSON.
	Data map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// UserMessage returns the server-provided message for display.
func (e *Error) UserMessage() string {
	return e.Message
}

func newError(status int, body []byte) *Error {
	e := &Error{Status: status, Message: DefaultErrorMessage}

	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		return e
	}
	e.Data = data
	if msg := detailMessage(data["detail"]); msg != "" {
		e.Message = msg
	}
	return e
}

// detailMessage extracts a message from a "detail" value, which is either a
// string or a list of validation entries each carrying "msg".
func detailMessage(detail any) string {
	switch d := detail.(type) {
	case string:
		return strings.TrimSpace(d)
	case []any:
		for _, item := range d {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if msg, ok := entry["msg"].(string); ok && msg != "" {
				return msg
			}
		}
	}
	return ""
}
