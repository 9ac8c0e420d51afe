// Package iohttp downloads images from the camera-trap service. The
// session is authenticated with a cookie set by the login endpoint.
// Failed requests are retried with exponential backoff.
package iohttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gnames/gn"
	"github.com/viltkamera/wcimport/pkg/config"
	"github.com/viltkamera/wcimport/pkg/errcode"
	"github.com/viltkamera/wcimport/pkg/wcimport"
	"golang.org/x/time/rate"
)

type client struct {
	cfg        config.APIConfig
	http       *http.Client
	limiter    *rate.Limiter
	newBackOff func() backoff.BackOff
}

// Option customizes the client.
type Option func(*client)

// WithHTTPClient replaces the HTTP client. Its cookie jar is replaced
// when it has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		if hc.Jar == nil {
			hc.Jar = c.http.Jar
		}
		c.http = hc
	}
}

// WithBackOff replaces the backoff policy of retries.
func WithBackOff(fn func() backoff.BackOff) Option {
	return func(c *client) {
		c.newBackOff = fn
	}
}

// New creates an ImageFetcher for cfg.API.
func New(cfg *config.Config, opts ...Option) (wcimport.ImageFetcher, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, RequestError(cfg.API.URL, err)
	}

	res := &client{
		cfg: cfg.API,
		http: &http.Client{
			Jar:     jar,
			Timeout: cfg.API.Timeout,
		},
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
	if rps := cfg.API.RequestsPerSecond; rps > 0 {
		res.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	res.newBackOff = func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.MaxElapsedTime = cfg.API.MaxRetryTime
		return b
	}

	for _, opt := range opts {
		opt(res)
	}
	return res, nil
}

// Login implements wcimport.ImageFetcher.
func (c *client) Login(ctx context.Context) error {
	u := c.cfg.URL + "/login"
	body, err := json.Marshal(map[string]string{
		"username": c.cfg.User,
		"password": c.cfg.Password,
	})
	if err != nil {
		return LoginError(c.cfg.User, u, err)
	}

	slog.Debug("Trying to authenticate", "url", u, "user", c.cfg.User)
	_, err = c.do(ctx, u, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, u,
			bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return LoginError(c.cfg.User, u, err)
	}
	slog.Info("Logged in to image service", "url", c.cfg.URL)
	return nil
}

// Image implements wcimport.ImageFetcher. An expired session is
// renewed once.
func (c *client) Image(ctx context.Context, id string) ([]byte, error) {
	u := c.cfg.URL + "/images/" + url.PathEscape(id)
	get := func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	res, err := c.do(ctx, u, get)
	if status(err) == http.StatusUnauthorized {
		slog.Warn("Session expired, logging in again", "image_id", id)
		if err = c.Login(ctx); err != nil {
			return nil, err
		}
		res, err = c.do(ctx, u, get)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// do sends requests built by newReq until one succeeds, the status is
// permanent or the backoff gives up.
func (c *client) do(
	ctx context.Context,
	u string,
	newReq func() (*http.Request, error),
) ([]byte, error) {
	var res []byte
	var attempts int

	operation := func() error {
		attempts++
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		req, err := newReq()
		if err != nil {
			return backoff.Permanent(RequestError(u, err))
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode >= http.StatusBadRequest {
			serr := StatusError(u, resp.StatusCode)
			if retryable(resp.StatusCode) {
				return serr
			}
			return backoff.Permanent(serr)
		}
		res = data
		return nil
	}

	notify := func(err error, d time.Duration) {
		slog.Warn("Request failed, retrying",
			"url", u,
			"attempt", attempts,
			"wait", d.Round(time.Millisecond).String(),
			"error", err,
		)
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(c.newBackOff(), ctx), notify)
	switch {
	case err == nil:
		return res, nil
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case isPermanent(err):
		return nil, err
	default:
		return nil, RetryExhaustedError(u, attempts, err)
	}
}

// retryable statuses are server errors, timeouts and rate limiting.
func retryable(code int) bool {
	return code >= http.StatusInternalServerError ||
		code == http.StatusRequestTimeout ||
		code == http.StatusTooManyRequests
}

// isPermanent reports errors returned without retries: statuses that
// will not change and requests that cannot be built.
func isPermanent(err error) bool {
	var gnErr *gn.Error
	if !errors.As(err, &gnErr) {
		return false
	}
	if gnErr.Code == errcode.HTTPRequestError {
		return true
	}
	code := status(err)
	return code != 0 && !retryable(code)
}

func status(err error) int {
	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		err = gnErr.Err
	}
	var serr *statusError
	if errors.As(err, &serr) {
		return serr.code
	}
	return 0
}
