package oaipmh

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"oai-harvester/internal/observability/metrics"
	"oai-harvester/internal/observability/tracing"
	"oai-harvester/internal/resilience/circuitbreaker"
	"oai-harvester/internal/resilience/retry"
	"oai-harvester/internal/usecase/harvest"
)

// Config holds the client settings.
type Config struct {
	// Timeout bounds one HTTP exchange including the body read
	Timeout time.Duration

	// MaxAttempts is the number of tries per request; 1 disables retrying
	MaxAttempts int

	// RequestsPerSecond throttles requests across all hosts; 0 means unlimited
	RequestsPerSecond float64

	// UserAgent is sent on every request
	UserAgent string

	// MaxBodyBytes caps a response body
	MaxBodyBytes int64

	// MaxPages bounds ListSets pagination
	MaxPages int
}

// DefaultConfig returns the client defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:      60 * time.Second,
		MaxAttempts:  1,
		UserAgent:    "oai-harvester/1.0",
		MaxBodyBytes: 64 << 20,
		MaxPages:     10000,
	}
}

// Client issues OAI-PMH requests. It is safe for concurrent use.
type Client struct {
	http        *http.Client
	cfg         Config
	limiter     *rate.Limiter
	retryConfig retry.Config
	tracer      trace.Tracer

	mu       sync.Mutex
	breakers map[string]*circuitbreaker.CircuitBreaker
}

// NewClient creates a Client. When httpClient is nil one is built with cfg.Timeout.
// Zero-valued settings fall back to DefaultConfig.
func NewClient(httpClient *http.Client, cfg Config) *Client {
	def := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = def.MaxBodyBytes
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = def.MaxPages
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		http:        httpClient,
		cfg:         cfg,
		limiter:     rate.NewLimiter(limit, 1),
		retryConfig: retry.OAIRequestConfig(cfg.MaxAttempts),
		tracer:      tracing.GetTracer(),
		breakers:    make(map[string]*circuitbreaker.CircuitBreaker),
	}
}

// breaker returns the circuit breaker for host, creating it on first use.
func (c *Client) breaker(host string) *circuitbreaker.CircuitBreaker {
	c.mu.Lock()
	defer c.mu.Unlock()

	cb, ok := c.breakers[host]
	if !ok {
		cb = circuitbreaker.New(circuitbreaker.OAIEndpointConfig(host))
		c.breakers[host] = cb
	}
	return cb
}

// Get sends req to endpoint and returns the raw response body.
// Failures are *harvest.TransportError values; a non-2xx status sets StatusCode.
func (c *Client) Get(ctx context.Context, endpoint string, req Request) ([]byte, error) {
	target, err := req.URL(endpoint)
	if err != nil {
		return nil, err
	}
	parsed, err := url.Parse(target)
	if err != nil {
		return nil, &harvest.TransportError{URL: target, Err: err}
	}
	cb := c.breaker(parsed.Host)

	start := time.Now()
	var body []byte
	err = retry.WithBackoff(ctx, c.retryConfig, func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		result, err := cb.Execute(func() (interface{}, error) {
			return c.do(ctx, target)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				slog.Warn("oai circuit breaker open, request rejected",
					slog.String("circuit", cb.Name()),
					slog.String("url", target),
					slog.String("state", cb.State().String()))
				return &harvest.TransportError{URL: target, Err: err}
			}
			return err
		}

		body = result.([]byte)
		return nil
	})
	metrics.RecordOAIRequest(req.Verb, err == nil, time.Since(start), len(body))
	if err != nil {
		return nil, err
	}
	return body, nil
}

// do performs one HTTP exchange without retry or circuit breaker.
func (c *Client) do(ctx context.Context, target string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &harvest.TransportError{URL: target, Err: err}
	}
	httpReq.Header.Set("User-Agent", c.cfg.UserAgent)
	httpReq.Header.Set("Accept", "text/xml, application/xml")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &harvest.TransportError{URL: target, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &harvest.TransportError{
			URL:        target,
			StatusCode: resp.StatusCode,
			Err:        &retry.HTTPError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)},
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxBodyBytes+1))
	if err != nil {
		return nil, &harvest.TransportError{URL: target, Err: err}
	}
	if int64(len(body)) > c.cfg.MaxBodyBytes {
		return nil, &harvest.TransportError{URL: target, Err: ErrResponseTooLarge}
	}
	return body, nil
}

// ListRecords fetches and parses one ListRecords page. With an empty token the
// request carries metadataPrefix; otherwise it carries only the token.
func (c *Client) ListRecords(ctx context.Context, baseURL, metadataPrefix, token string) (*harvest.Page, error) {
	ctx, span := c.tracer.Start(ctx, "oaipmh.ListRecords",
		trace.WithAttributes(
			attribute.String("oai.base_url", baseURL),
			attribute.Bool("oai.resumption", token != ""),
		))
	defer span.End()

	req := Request{Verb: VerbListRecords, MetadataPrefix: metadataPrefix, ResumptionToken: token}
	body, err := c.Get(ctx, baseURL, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, err
	}

	page, err := ParseListRecords(body)
	if err != nil {
		var parseErr *harvest.ProtocolParseError
		if errors.As(err, &parseErr) {
			slog.Warn("unparseable ListRecords response",
				slog.String("base_url", baseURL),
				slog.String("excerpt", describe(body)))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("oai.records", len(page.Records)),
		attribute.Int("oai.skipped", len(page.Skipped)),
	)
	return page, nil
}
