// Copyright 2026 The rasdaman WCPS Authors
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

// Package service executes WCPS queries against
// a remote OGC WCS endpoint and decodes the results.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/rasdaman/wcps/auth"
	"github.com/rasdaman/wcps/compr"
	"github.com/rasdaman/wcps/expr"
)

const (
	// DefaultConnectTimeout bounds the time
	// spent establishing a connection.
	DefaultConnectTimeout = 10 * time.Second
	// DefaultReadTimeout bounds the time spent
	// waiting for a query to execute.
	DefaultReadTimeout = 10 * time.Minute

	processCoverages = "service=WCS&version=2.0.1&request=ProcessCoverages&query="

	// maximum error body we bother to read
	maxErrorBody = 1 << 20
)

var (
	ErrInvalidEndpoint = errors.New("invalid endpoint")
	ErrInvalidQuery    = errors.New("invalid query")
)

// Client executes queries on a single endpoint.
// A Client is safe for concurrent use.
type Client struct {
	endpoint string
	client   *http.Client
	creds    auth.Provider
	logger   *slog.Logger
	cache    *Cache

	connectTimeout time.Duration
	readTimeout    time.Duration

	tp   trace.TracerProvider
	mp   metric.MeterProvider
	inst *instruments
}

// Option configures a Client.
type Option func(c *Client)

// WithHTTPClient makes the Client send requests
// through hc. Timeouts are then left to hc.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithCredentials attaches credentials
// to every request.
func WithCredentials(p auth.Provider) Option {
	return func(c *Client) { c.creds = p }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithTimeouts sets the connect and read timeouts.
// Zero values keep the defaults.
func WithTimeouts(connect, read time.Duration) Option {
	return func(c *Client) {
		if connect > 0 {
			c.connectTimeout = connect
		}
		if read > 0 {
			c.readTimeout = read
		}
	}
}

// WithCache enables caching of Execute results.
func WithCache(cache *Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithTracerProvider sets the OpenTelemetry tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) { c.tp = tp }
}

// WithMeterProvider sets the OpenTelemetry meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *Client) { c.mp = mp }
}

// New constructs a Client for endpoint,
// e.g. https://ows.rasdaman.org/rasdaman/ows
func New(endpoint string, opts ...Option) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEndpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w %q", ErrInvalidEndpoint, endpoint)
	}
	c := &Client{
		endpoint:       endpoint,
		connectTimeout: DefaultConnectTimeout,
		readTimeout:    DefaultReadTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.client == nil {
		c.client = c.defaultClient()
	}
	c.inst = newInstruments(c.tp, c.mp)
	return c, nil
}

func (c *Client) defaultClient() *http.Client {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.DialContext = (&net.Dialer{
		Timeout:   c.connectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	tr.TLSHandshakeTimeout = c.connectTimeout
	tr.ResponseHeaderTimeout = c.readTimeout
	return &http.Client{Transport: tr}
}

// Endpoint returns the endpoint the Client talks to.
func (c *Client) Endpoint() string { return c.endpoint }

// QueryText returns the text of a query given
// either as a string or as an expression tree.
func QueryText(q any) (string, error) {
	switch q := q.(type) {
	case string:
		if strings.TrimSpace(q) == "" {
			return "", fmt.Errorf("%w: empty query", ErrInvalidQuery)
		}
		return q, nil
	case expr.Node:
		return expr.Render(q)
	default:
		return "", fmt.Errorf("%w: unexpected query type %T", ErrInvalidQuery, q)
	}
}

// QueryURL returns the ProcessCoverages request URL for query.
func (c *Client) QueryURL(query string) string {
	sep := "?"
	if strings.Contains(c.endpoint, "?") {
		sep = "&"
	}
	return c.endpoint + sep + processCoverages + url.QueryEscape(query)
}

// ExecuteRaw sends q (a string or an expr.Node) and
// returns the response with a decoded body.
// The caller must close the response body.
// Responses with a non-2xx status are returned
// as a *ServerError.
func (c *Client) ExecuteRaw(ctx context.Context, q any) (*http.Response, error) {
	query, err := QueryText(q)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, "wcps.execute_raw", query)
}

func (c *Client) do(ctx context.Context, op, query string) (res *http.Response, err error) {
	id := uuid.NewString()
	ctx, span := c.inst.start(ctx, op, id, query)
	start := time.Now()
	status := 0
	defer func() {
		c.inst.finish(ctx, span, op, status, time.Since(start), err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.QueryURL(query), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Encoding", compr.AcceptEncoding)
	req.Header.Set("X-Request-Id", id)
	if c.creds != nil {
		creds, err := c.creds.Credentials(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading credentials: %w", err)
		}
		creds.Apply(req)
	}

	log := c.logger.With(slog.String("request_id", id))
	log.Debug("sending query", slog.String("endpoint", c.endpoint), slog.Int("query_len", len(query)))
	res, err = c.client.Do(req)
	if err != nil {
		log.Warn("query failed", slog.Any("error", err))
		return nil, err
	}
	status = res.StatusCode
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		res.Body.Close()
		err = parseServerError(res.StatusCode, body)
		log.Warn("server rejected query", slog.Int("status", res.StatusCode), slog.Any("error", err))
		return nil, err
	}
	if err := decodeBody(res); err != nil {
		res.Body.Close()
		return nil, err
	}
	log.Debug("query done", slog.Int("status", res.StatusCode),
		slog.String("content_type", res.Header.Get("Content-Type")),
		slog.Duration("elapsed", time.Since(start)))
	return res, nil
}

type decodedBody struct {
	io.ReadCloser
	raw io.Closer
}

func (d *decodedBody) Close() error {
	err := d.ReadCloser.Close()
	if err2 := d.raw.Close(); err == nil {
		err = err2
	}
	return err
}

// decodeBody replaces res.Body with a reader
// that undoes the Content-Encoding.
func decodeBody(res *http.Response) error {
	enc := res.Header.Get("Content-Encoding")
	if enc == "" {
		return nil
	}
	rc, err := compr.NewReader(enc, res.Body)
	if err != nil {
		return err
	}
	res.Body = &decodedBody{ReadCloser: rc, raw: res.Body}
	res.Header.Del("Content-Encoding")
	res.Header.Del("Content-Length")
	res.ContentLength = -1
	res.Uncompressed = true
	return nil
}

// Execute sends q (a string or an expr.Node)
// and classifies the response.
func (c *Client) Execute(ctx context.Context, q any) (*Result, error) {
	query, err := QueryText(q)
	if err != nil {
		return nil, err
	}
	fp := QueryFingerprint(query)
	if c.cache != nil {
		if ct, body, ok := c.cache.Get(fp); ok {
			c.logger.Debug("cache hit", slog.String("fingerprint", fp.String()))
			return Classify(ct, body)
		}
	}
	res, err := c.do(ctx, "wcps.execute", query)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	ct := res.Header.Get("Content-Type")
	out, err := Classify(ct, body)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		c.cache.Put(fp, ct, body)
	}
	return out, nil
}

// Download sends q (a string or an expr.Node) and
// copies the response body to w. It returns the
// number of bytes written.
func (c *Client) Download(ctx context.Context, q any, w io.Writer) (int64, error) {
	query, err := QueryText(q)
	if err != nil {
		return 0, err
	}
	res, err := c.do(ctx, "wcps.download", query)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()
	n, err := io.Copy(w, res.Body)
	if err != nil {
		return n, fmt.Errorf("downloading result: %w", err)
	}
	return n, nil
}
