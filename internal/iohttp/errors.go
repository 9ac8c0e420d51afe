package iohttp

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/viltkamera/wcimport/pkg/errcode"
)

// ErrRetryExhausted is the cause of RetryExhaustedError.
var ErrRetryExhausted = errors.New("retry budget exhausted")

// statusError is an unexpected HTTP status.
type statusError struct {
	url  string
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.url, e.code)
}

// LoginError is returned when the image service rejects credentials
// or cannot be reached for login.
func LoginError(user, url string, err error) error {
	msg := `Cannot log in to <em>%s</em> as <em>%s</em>

Check api.url, api.user and api.password settings.`

	return &gn.Error{
		Code: errcode.HTTPLoginError,
		Msg:  msg,
		Vars: []any{url, user},
		Err:  fmt.Errorf("login %s as %s: %w", url, user, err),
	}
}

// RequestError is returned when a request cannot be built.
func RequestError(url string, err error) error {
	return &gn.Error{
		Code: errcode.HTTPRequestError,
		Msg:  "Cannot create request to <em>%s</em>",
		Vars: []any{url},
		Err:  fmt.Errorf("request %s: %w", url, err),
	}
}

// StatusError is returned for a response that will not get better on
// retry, for example 404.
func StatusError(url string, code int) error {
	return &gn.Error{
		Code: errcode.HTTPStatusError,
		Msg:  "Request to <em>%s</em> failed with status <em>%d</em>",
		Vars: []any{url, code},
		Err:  &statusError{url: url, code: code},
	}
}

// RetryExhaustedError is returned when a request kept failing for
// longer than api.max_retry_time.
func RetryExhaustedError(url string, attempts int, err error) error {
	msg := `Giving up on <em>%s</em> after %d attempts

The image service seems to be down.`

	return &gn.Error{
		Code: errcode.HTTPRetryExhaustedError,
		Msg:  msg,
		Vars: []any{url, attempts},
		Err:  fmt.Errorf("%w: %s after %d attempts: %w", ErrRetryExhausted, url, attempts, err),
	}
}
