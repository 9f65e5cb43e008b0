// SPDX-License-Identifier: MIT

// Package response provides a unified JSON envelope for web-service
// responses. Every payload carries the same skeleton:
//
//	{
//	    "status_code": 200,
//	    "status_text": "OK",
//	    "data": {...},
//	    "errors": []
//	}
//
// By default the envelope is written with HTTP 200 and the real status
// only inside the body, so transport-level tooling never mistakes an
// application error for a broken endpoint. Call Exposed to mirror the
// status onto the wire as well.
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// ErrInvalidStatus is returned when a status code outside the permitted
// table is used to build a response.
var ErrInvalidStatus = errors.New("response: invalid status code")

// statusText is the closed set of status codes an envelope may carry.
var statusText = map[int]string{
	http.StatusOK:                 "OK",
	http.StatusCreated:            "Created",
	http.StatusNotModified:        "Not Modified",
	http.StatusBadRequest:         "Bad Request",
	http.StatusUnauthorized:       "Unauthorized",
	http.StatusForbidden:          "Forbidden",
	http.StatusNotFound:           "Not Found",
	http.StatusMethodNotAllowed:   "Method Not Allowed",
	http.StatusNotImplemented:     "Not Implemented",
	http.StatusServiceUnavailable: "Service Unavailable",
}

// StatusText returns the reason phrase for a permitted status code, or
// the empty string if the code is outside the table.
func StatusText(code int) string {
	return statusText[code]
}

// Response is the unified web-service response envelope.
type Response struct {
	StatusCode int      `json:"status_code"`
	StatusText string   `json:"status_text"`
	Data       any      `json:"data"`
	Errors     []string `json:"errors"`

	expose bool
}

// New builds an envelope for the given status code. Codes outside the
// permitted table yield ErrInvalidStatus.
func New(code int, data any, errs ...string) (*Response, error) {
	text, ok := statusText[code]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, code)
	}
	if errs == nil {
		errs = []string{}
	}
	return &Response{
		StatusCode: code,
		StatusText: text,
		Data:       data,
		Errors:     errs,
	}, nil
}

func mustNew(code int, data any, errs ...string) *Response {
	r, err := New(code, data, errs...)
	if err != nil {
		panic(err)
	}
	return r
}

// OK is a shortcut for an HTTP 200 envelope carrying data.
func OK(data any) *Response {
	return mustNew(http.StatusOK, data)
}

// Created is a shortcut for an HTTP 201 envelope carrying data.
func Created(data any) *Response {
	return mustNew(http.StatusCreated, data)
}

// NotModified is a shortcut for an HTTP 304 envelope.
func NotModified(errs ...string) *Response {
	return mustNew(http.StatusNotModified, nil, errs...)
}

// BadRequest is a shortcut for an HTTP 400 envelope.
func BadRequest(errs ...string) *Response {
	return mustNew(http.StatusBadRequest, nil, errs...)
}

// Unauthorized is a shortcut for an HTTP 401 envelope.
func Unauthorized(errs ...string) *Response {
	return mustNew(http.StatusUnauthorized, nil, errs...)
}

// Forbidden is a shortcut for an HTTP 403 envelope.
func Forbidden(errs ...string) *Response {
	return mustNew(http.StatusForbidden, nil, errs...)
}

// NotFound is a shortcut for an HTTP 404 envelope.
func NotFound(errs ...string) *Response {
	return mustNew(http.StatusNotFound, nil, errs...)
}

// MethodNotAllowed is a shortcut for an HTTP 405 envelope.
func MethodNotAllowed(errs ...string) *Response {
	return mustNew(http.StatusMethodNotAllowed, nil, errs...)
}

// NotImplemented is a shortcut for an HTTP 501 envelope.
func NotImplemented(errs ...string) *Response {
	return mustNew(http.StatusNotImplemented, nil, errs...)
}

// ServiceUnavailable is a shortcut for an HTTP 503 envelope.
func ServiceUnavailable(errs ...string) *Response {
	return mustNew(http.StatusServiceUnavailable, nil, errs...)
}

// FromStatus builds an envelope from a status line such as
// "401 Unauthorized". The reason phrase is taken from the permitted
// table, not from the input.
func FromStatus(statusLine string, errs ...string) (*Response, error) {
	fields := strings.Fields(statusLine)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty status line", ErrInvalidStatus)
	}
	code, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, statusLine)
	}
	return New(code, nil, errs...)
}

// Exposed marks the response so Write mirrors the envelope status code
// onto the HTTP status line instead of masking it with 200.
func (r *Response) Exposed() *Response {
	r.expose = true
	return r
}

// Write renders the envelope as JSON. The wire status is 200 unless the
// response has been marked with Exposed.
func (r *Response) Write(w http.ResponseWriter) error {
	if r.Errors == nil {
		r.Errors = []string{}
	}
	code := http.StatusOK
	if r.expose {
		code = r.StatusCode
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(r)
}
