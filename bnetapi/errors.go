package bnetapi

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidURL marks every failure to build or parse a request URL.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrHTTP marks every transport or HTTP status failure.
	ErrHTTP = errors.New("HTTP error")
)

// HTTPError is a failed exchange with a Battle.net host. StatusCode is 0
// when no response was received.
type HTTPError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *HTTPError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s: HTTP %d: %v", e.Op, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: HTTP %d", e.Op, e.StatusCode)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NewHTTPError returns an *HTTPError marked with ErrHTTP.
func NewHTTPError(op string, statusCode int, err error) error {
	return errors.Mark(&HTTPError{Op: op, StatusCode: statusCode, Err: err}, ErrHTTP)
}
