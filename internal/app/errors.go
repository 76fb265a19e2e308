package app

import (
	"errors"
	"net/http"

	"evbus/internal/host"
)

// statusError carries an HTTP status for the API layer.
type statusError struct {
	code int
	msg  string
}

func (e statusError) Error() string   { return e.msg }
func (e statusError) StatusCode() int { return e.code }

func notFound(msg string) error { return statusError{code: http.StatusNotFound, msg: msg} }

// IsNotFound reports whether err indicates a missing event or overlay.
func IsNotFound(err error) bool {
	var se statusError
	return errors.As(err, &se) && se.code == http.StatusNotFound
}

var errStopped = statusError{code: http.StatusServiceUnavailable, msg: "dispatcher stopped"}

// callErr maps loop errors to API errors.
func callErr(err error) error {
	if errors.Is(err, host.ErrNotRunning) {
		return statusError{code: http.StatusServiceUnavailable, msg: err.Error()}
	}
	return err
}
