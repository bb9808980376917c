/*
Package gateway implements generic.Gateway over JSON/HTTP.

PURPOSE:
  The dashboard's records live in a remote webhook-style backend that
  exposes one REST collection per kind (/rooms, /bookings, ...). This
  package turns those calls into typed Gateway methods and normalises
  the backend's inconsistent response shapes.

FAILURE CONTRACT:
  - 404                          -> *generic.NotFoundError
  - 400/422 with an errors map   -> *generic.ValidationFailedError
  - any other non-2xx, transport
    error, timeout, or a body
    that cannot be decoded       -> *generic.NetworkFailureError
  - {"success": false, ...}      -> same mapping, using the envelope message

  Requests are one-shot. A failure is reported, never replaced by an
  empty result or by fixture data.

USAGE:
  client, err := gateway.NewClient(cfg.API.BaseURL, cfg.API.OrganizationID, cfg.API.Timeout, log)
  rooms, err := gateway.NewResource[hostel.Room](client, hostel.KindRoom, cfg.Pagination.Defaults())
  page, err := rooms.List(ctx, generic.ListQuery{Filters: map[string]string{"status": "AVAILABLE"}})

SEE ALSO:
  - envelope.go: response normalisation
  - resource.go: typed CRUD per kind
  - fanout.go: parallel loads for detail pages
*/
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/warp/student-hotel/generic"
)

// DefaultTimeout bounds every backend request unless configured otherwise.
const DefaultTimeout = 30 * time.Second

// Client holds the connection settings shared by all resources.
type Client struct {
	BaseURL        *url.URL
	OrganizationID string
	HTTP           *http.Client
	Log            logrus.FieldLogger
}

// NewClient parses baseURL and builds an http.Client with the given timeout.
// A zero timeout uses DefaultTimeout; a nil logger discards output.
func NewClient(baseURL, organizationID string, timeout time.Duration, log logrus.FieldLogger) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &Client{
		BaseURL:        parsed,
		OrganizationID: organizationID,
		HTTP:           &http.Client{Timeout: timeout},
		Log:            log,
	}, nil
}

// response is a completed exchange with a 2xx or error status.
type response struct {
	url    string
	status int
	body   []byte
}

func (r response) ok() bool { return r.status >= 200 && r.status <= 299 }

// do performs one request. Only transport-level problems are returned as
// errors here; status handling is left to the caller.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body any) (response, error) {
	u := c.BaseURL.JoinPath(path)
	if query == nil {
		query = url.Values{}
	}
	if c.OrganizationID != "" && query.Get("organization_id") == "" {
		query.Set("organization_id", c.OrganizationID)
	}
	u.RawQuery = query.Encode()
	target := u.String()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return response{url: target}, fmt.Errorf("%s %s: encode body: %w", op, target, err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return response{url: target}, &generic.NetworkFailureError{Op: op, URL: target, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.Log.WithFields(logrus.Fields{"op": op, "url": target}).WithError(err).Warn("backend request failed")
		return response{url: target}, &generic.NetworkFailureError{Op: op, URL: target, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{url: target}, &generic.NetworkFailureError{Op: op, URL: target, StatusCode: resp.StatusCode, Err: err}
	}

	entry := c.Log.WithFields(logrus.Fields{
		"op":       op,
		"method":   method,
		"url":      target,
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	})
	if resp.StatusCode >= 400 {
		entry.Warn("backend returned error status")
	} else {
		entry.Debug("backend request")
	}
	return response{url: target, status: resp.StatusCode, body: data}, nil
}
