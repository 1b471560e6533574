package classify

import (
	"encoding/json"
	"strings"
)

// Status is the outcome reported in a classification response.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

const fallbackServerError = "unknown server error"

// Result is the service's verdict for one submission.
type Result struct {
	Status        Status
	Category      string
	Response      string
	Message       string
	ContentLength int
}

type wireResponse struct {
	Status        string `json:"status"`
	Category      string `json:"category"`
	Response      string `json:"response"`
	Error         string `json:"error"`
	ContentLength int    `json:"content_length"`
}

// decodeResult parses a 2xx body. A non-success status yields both an error
// result and a *ServerReportedError.
func decodeResult(body []byte) (*Result, error) {
	var parsed wireResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &MalformedResponseError{Cause: err}
	}
	if Status(parsed.Status) == StatusSuccess {
		return &Result{
			Status:        StatusSuccess,
			Category:      parsed.Category,
			Response:      parsed.Response,
			ContentLength: parsed.ContentLength,
		}, nil
	}
	message := strings.TrimSpace(parsed.Error)
	if message == "" {
		message = fallbackServerError
	}
	return &Result{Status: StatusError, Message: message}, &ServerReportedError{Message: message}
}
