package client

import (
	"errors"
	"fmt"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// GenericMessage is shown if the server does not provide a detail.
const GenericMessage = "Comparison failed"

var detailPath = jp.MustParseString("$.detail")

// APIError is returned for non-success responses.
type APIError struct {
	StatusCode int
	Detail     string // empty if the body has no string detail
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Detail)
}

// UserMessage returns the server provided detail or fallback.
func (e *APIError) UserMessage(fallback string) string {
	if e.Detail != "" {
		return e.Detail
	}
	return fallback
}

// UserMessage returns the message to show for err. Errors other than APIError
// with a detail get the fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage(fallback)
	}
	return fallback
}

func newAPIError(status int, body []byte) *APIError {
	return &APIError{StatusCode: status, Detail: extractDetail(body)}
}

// extractDetail reads $.detail if it is a string. Validation errors carry a
// list there, which is ignored.
func extractDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	obj, err := oj.Parse(body)
	if err != nil {
		return ""
	}
	if s, ok := detailPath.First(obj).(string); ok {
		return s
	}
	return ""
}
