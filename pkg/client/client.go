// Package client talks to the RaceTrace lap API.
package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"

	"github.com/mpapenbr/lapcompare/log"
	"github.com/mpapenbr/lapcompare/pkg/model"
	"github.com/mpapenbr/lapcompare/pkg/utils/cache"
	"github.com/mpapenbr/lapcompare/pkg/utils/cache/loadercache"
)

const (
	comparePath   = "/api/v1/laps/compare"
	telemetryPath = "/api/v1/laps/%d/telemetry"
)

type Option func(*Client)

type Client struct {
	baseURL   string
	token     string
	header    http.Header
	timeout   time.Duration
	transport http.RoundTripper
	http      *http.Client
	tracer    trace.Tracer
	log       *log.Logger
}

func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.header.Add(key, value)
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = rt
	}
}

// WithTLSConfig replaces the transport by one using cfg.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(c *Client) {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.TLSClientConfig = cfg
		c.transport = t
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) {
		c.tracer = tracer
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

func New(baseURL string, opts ...Option) *Client {
	ret := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		header:    http.Header{},
		timeout:   30 * time.Second,
		transport: http.DefaultTransport,
		log:       log.Default().Named("client"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.tracer == nil {
		ret.tracer = otel.Tracer("lcmp")
	}
	rt := ret.transport
	if ret.token != "" {
		rt = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(
				&oauth2.Token{AccessToken: ret.token, TokenType: "Bearer"}),
			Base: rt,
		}
	}
	ret.http = &http.Client{Transport: rt, Timeout: ret.timeout}
	return ret
}

// Compare requests the comparison of the given laps. The first lap is the
// reference for the deltas.
//
//nolint:whitespace // can't make both editor and linter happy
func (c *Client) Compare(ctx context.Context, req *model.CompareRequest) (
	*model.ComparisonResult, error,
) {
	ctx, span := c.tracer.Start(ctx, "client.Compare",
		trace.WithAttributes(attribute.IntSlice("lap_ids", req.LapIDs)))
	defer span.End()

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	var ret model.ComparisonResult
	if err := c.do(ctx, http.MethodPost, comparePath, body, &ret); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if err := ret.Validate(); err != nil {
		c.log.Warn("inconsistent comparison result", log.ErrorField(err))
	}
	span.SetAttributes(
		attribute.Int("laps", len(ret.Laps)),
		attribute.Int("deltas", len(ret.Deltas)))
	return &ret, nil
}

// LapTelemetry fetches all channels of a single lap.
//
//nolint:whitespace // can't make both editor and linter happy
func (c *Client) LapTelemetry(ctx context.Context, lapID int) (
	*model.LapTelemetry, error,
) {
	ctx, span := c.tracer.Start(ctx, "client.LapTelemetry",
		trace.WithAttributes(attribute.Int("lap_id", lapID)))
	defer span.End()

	var ret model.LapTelemetry
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf(telemetryPath, lapID), nil, &ret); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if err := ret.Validate(); err != nil {
		c.log.Warn("inconsistent lap telemetry", log.ErrorField(err))
	}
	return &ret, nil
}

// TelemetryCache returns a cache which loads lap telemetry via this client.
func (c *Client) TelemetryCache(expiration time.Duration) cache.Cache[int, model.LapTelemetry] {
	return loadercache.New(
		loadercache.WithLoader[int, model.LapTelemetry](c.LapTelemetry),
		loadercache.WithExpiration[int, model.LapTelemetry](expiration),
		loadercache.WithLogger[int, model.LapTelemetry](c.log.Named("cache")),
	)
}

//nolint:whitespace // can't make both editor and linter happy
func (c *Client) do(
	ctx context.Context, method, path string, body []byte, target any,
) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	for k, v := range c.header {
		req.Header[k] = append([]string(nil), v...)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	c.log.Debug("api call",
		log.String("method", method),
		log.String("path", path),
		log.Int("status", resp.StatusCode),
		log.Int("bytes", len(data)),
		log.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, data)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
