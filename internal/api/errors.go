package api

import (
	"fmt"
	"net/http"
)

// TransportError marks any failure before a valid HTTP status was obtained:
// connection refused, timeout, TLS trouble, or an unreadable/undecodable body.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusMessages maps the HTTP status codes one operation can produce to the
// human-readable message shown for each. Zero-value fields fall back to
// generic wording.
type StatusMessages struct {
	BadRequest   string // 400
	Unauthorized string // 401
	Forbidden    string // 403
	NotFound     string // 404
	Conflict     string // 409
	Invalid      string // 422
	Server       string // 5xx
}

const (
	MsgEmptyBody      = "empty response from server"
	MsgSessionExpired = "session expired, please log in again"
	MsgNotAuthorized  = "you are not authorized to perform this action"
	MsgNotFound       = "resource not found"
	MsgServerError    = "server error, please try again later"
)

// MessageFor resolves the failure message for a non-2xx status.
func (m StatusMessages) MessageFor(status int) string {
	switch {
	case status == http.StatusBadRequest:
		return pick(m.BadRequest, "invalid request")
	case status == http.StatusUnauthorized:
		return pick(m.Unauthorized, MsgSessionExpired)
	case status == http.StatusForbidden:
		return pick(m.Forbidden, MsgNotAuthorized)
	case status == http.StatusNotFound:
		return pick(m.NotFound, MsgNotFound)
	case status == http.StatusConflict:
		return pick(m.Conflict, "resource already exists")
	case status == http.StatusUnprocessableEntity:
		return pick(m.Invalid, "invalid data submitted")
	case status >= 500:
		return pick(m.Server, MsgServerError)
	default:
		return fmt.Sprintf("unexpected response from server (status %d)", status)
	}
}

// ConnectionMessage formats a transport failure for display.
func ConnectionMessage(err error) string {
	return fmt.Sprintf("connection error: %v", err)
}

func pick(specific, fallback string) string {
	if specific != "" {
		return specific
	}
	return fallback
}
