// Package apiclient is the web app's only way to reach the Hospot API.
// Calls are made once; there is no retry or backoff.
package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	Method string
	Path   string
	Status int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s %s: %d", e.Method, e.Path, e.Status)
}

func statusIs(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == code
}

func IsNotFound(err error) bool { return statusIs(err, http.StatusNotFound) }
func IsConflict(err error) bool { return statusIs(err, http.StatusConflict) }

// IsClientError reports a 4xx answer, whose detail is safe to show to the user.
func IsClientError(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status >= 400 && se.Status < 500
}

// Detail returns the API's message for a StatusError, or "".
func Detail(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Detail
	}
	return ""
}

type Client struct {
	BaseURL string
	Timeout time.Duration
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), Timeout: timeout}
}

func (c *Client) Get(path string, q url.Values, out any) error {
	return c.do(fiber.MethodGet, path, q, nil, out)
}

func (c *Client) Post(path string, q url.Values, body, out any) error {
	return c.do(fiber.MethodPost, path, q, body, out)
}

func (c *Client) Put(path string, q url.Values, body, out any) error {
	return c.do(fiber.MethodPut, path, q, body, out)
}

func (c *Client) Delete(path string, q url.Values, out any) error {
	return c.do(fiber.MethodDelete, path, q, nil, out)
}

func (c *Client) url(path string, q url.Values) string {
	u := c.BaseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (c *Client) do(method, path string, q url.Values, body, out any) error {
	var a *fiber.Agent
	target := c.url(path, q)
	switch method {
	case fiber.MethodPost:
		a = fiber.Post(target)
	case fiber.MethodPut:
		a = fiber.Put(target)
	case fiber.MethodDelete:
		a = fiber.Delete(target)
	default:
		a = fiber.Get(target)
	}
	a.Timeout(c.Timeout)
	if body != nil {
		a.JSON(body)
	}
	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)

	code, raw, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%s %s: %w", method, path, errors.Join(errs...))
	}
	if code < 200 || code > 299 {
		se := &StatusError{Method: method, Path: path, Status: code}
		var body struct {
			Detail any `json:"detail"`
		}
		if json.Unmarshal(raw, &body) == nil {
			switch d := body.Detail.(type) {
			case string:
				se.Detail = d
			case nil:
			default:
				b, _ := json.Marshal(d)
				se.Detail = string(b)
			}
		}
		return se
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	return nil
}
