// SPDX-License-Identifier: MIT

package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-strut/strut/log"
)

// Error is an error carrying an HTTP status code and user-facing
// messages. Handlers return it to have the envelope written for them.
type Error struct {
	Code     int
	Messages []string
}

// NewError builds an Error for the given status code.
func NewError(code int, msgs ...string) *Error {
	return &Error{Code: code, Messages: msgs}
}

func (e *Error) Error() string {
	text := StatusText(e.Code)
	if text == "" {
		text = http.StatusText(e.Code)
	}
	if len(e.Messages) == 0 {
		return fmt.Sprintf("%d %s", e.Code, text)
	}
	return fmt.Sprintf("%d %s: %s", e.Code, text, strings.Join(e.Messages, "; "))
}

// Response converts the error into its envelope. Codes outside the
// permitted table degrade to a 503 envelope carrying the error text.
func (e *Error) Response() *Response {
	resp, err := New(e.Code, nil, e.Messages...)
	if err != nil {
		return ServiceUnavailable(e.Error())
	}
	return resp
}

// Handler adapts a handler that returns an error into a plain
// http.HandlerFunc. A returned *Error is rendered as its envelope; any
// other error is logged and rendered as a 503 envelope. The handler is
// responsible for its own success output.
func Handler(fn func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}
		var werr *Error
		if errors.As(err, &werr) {
			_ = werr.Response().Write(w)
			return
		}
		logger := log.WithComponentFromContext(r.Context(), "response")
		logger.Error().
			Err(err).
			Str("event", "handler.error").
			Str(log.FieldMethod, r.Method).
			Str(log.FieldPath, r.URL.Path).
			Msg("unhandled handler error")
		_ = ServiceUnavailable("service unavailable").Write(w)
	}
}
