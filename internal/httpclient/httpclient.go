// Package httpclient provides an instrumented HTTP client with OTEL tracing
// and request metrics, used by REST exchange adapters.
package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/httptrace/otelhttptrace"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultDialKeepAlive    = 10 * time.Second
	defaultRequestTimeout   = 10 * time.Second
	defaultMaxConnsPerHost  = 5
	defaultIdleConnTimeout  = 2 * time.Minute
	metricRequestCounter    = "http_client_requests_total"
	instrumentationClientID = "instrumented_http_client"
)

// ResponseErrorHandler maps a non-transport failure (bad status, API error
// envelope) to an error. Returning nil accepts the response.
type ResponseErrorHandler func(statusCode int, body []byte) error

// Options configures a Client.
type Options struct {
	baseURL        string
	providerName   string
	requestTimeout time.Duration
	headers        map[string]string
	transport      http.RoundTripper
	errorHandler   ResponseErrorHandler
}

// Option configures Options.
type Option func(*Options)

// WithBaseURL sets the base URL prepended to relative request paths.
func WithBaseURL(u string) Option {
	return func(o *Options) { o.baseURL = u }
}

// WithProviderName tags traces and metrics with the upstream provider.
func WithProviderName(name string) Option {
	return func(o *Options) { o.providerName = name }
}

// WithRequestTimeout overrides the default request timeout.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *Options) { o.requestTimeout = d }
}

// WithHeaders sets default headers applied to every request.
func WithHeaders(h map[string]string) Option {
	return func(o *Options) { o.headers = h }
}

// WithTransport sets a custom round tripper, wrapped with instrumentation.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *Options) { o.transport = rt }
}

// WithResponseErrorHandler sets the default response error handler.
func WithResponseErrorHandler(h ResponseErrorHandler) Option {
	return func(o *Options) { o.errorHandler = h }
}

// Client executes JSON HTTP requests against a single upstream provider.
type Client struct {
	hc             *http.Client
	baseURL        string
	providerName   string
	headers        map[string]string
	errorHandler   ResponseErrorHandler
	tracer         trace.Tracer
	requestCounter metric.Int64Counter
}

// New creates an instrumented client. Metrics errors are surfaced so callers
// fail fast on a misconfigured meter provider.
func New(opts ...Option) (*Client, error) {
	options := &Options{
		providerName:   "default",
		requestTimeout: defaultRequestTimeout,
	}
	for _, o := range opts {
		o(options)
	}

	transport := options.transport
	if transport == nil {
		transport = &http.Transport{
			DialContext: (&net.Dialer{
				KeepAlive: defaultDialKeepAlive,
			}).DialContext,
			MaxConnsPerHost:   defaultMaxConnsPerHost,
			IdleConnTimeout:   defaultIdleConnTimeout,
			ForceAttemptHTTP2: true,
		}
	}

	hc := &http.Client{
		Timeout: options.requestTimeout,
		Transport: otelhttp.NewTransport(
			transport,
			otelhttp.WithClientTrace(func(ctx context.Context) *httptrace.ClientTrace {
				return otelhttptrace.NewClientTrace(ctx)
			}),
		),
	}

	meter := otel.GetMeterProvider().Meter(
		instrumentationClientID,
		metric.WithInstrumentationAttributes(attribute.String("provider", options.providerName)),
	)
	requestCounter, err := meter.Int64Counter(
		metricRequestCounter,
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	return &Client{
		hc:             hc,
		baseURL:        strings.TrimSuffix(options.baseURL, "/"),
		providerName:   options.providerName,
		headers:        options.headers,
		errorHandler:   options.errorHandler,
		tracer:         otel.GetTracerProvider().Tracer(instrumentationClientID),
		requestCounter: requestCounter,
	}, nil
}

// Request builds a single HTTP call.
type Request struct {
	client      *Client
	queryParams url.Values
	headers     map[string]string
	result      any
}

// NewRequest starts a request builder.
func (c *Client) NewRequest() *Request {
	return &Request{
		client:      c,
		queryParams: url.Values{},
		headers:     map[string]string{},
	}
}

// SetQueryParam adds a query parameter.
func (r *Request) SetQueryParam(key, value string) *Request {
	r.queryParams.Set(key, value)
	return r
}

// SetHeader sets a request header.
func (r *Request) SetHeader(key, value string) *Request {
	r.headers[key] = value
	return r
}

// SetResult sets the destination for JSON decoding of the response body.
func (r *Request) SetResult(result any) *Request {
	r.result = result
	return r
}

// Response carries the status and raw body of a completed request.
type Response struct {
	StatusCode int
	Body       []byte
}

// IsError reports whether the status code indicates failure.
func (r *Response) IsError() bool { return r.StatusCode >= 400 }

// Get executes a GET request against path, relative to the base URL.
func (r *Request) Get(ctx context.Context, path string) (*Response, error) {
	return r.execute(ctx, http.MethodGet, path)
}

func (r *Request) execute(ctx context.Context, method, path string) (*Response, error) {
	fullURL := path
	if r.client.baseURL != "" && !strings.HasPrefix(path, "http") {
		fullURL = r.client.baseURL + "/" + strings.TrimPrefix(path, "/")
	}
	if len(r.queryParams) > 0 {
		fullURL += "?" + r.queryParams.Encode()
	}

	ctx, span := r.client.tracer.Start(ctx, "http.request",
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.url", fullURL),
			attribute.String("provider", r.client.providerName),
		),
	)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create request")
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range r.client.headers {
		req.Header.Set(k, v)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	resp, err := r.client.hc.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.client.count(ctx, false)
		return nil, err
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read body")
		r.client.count(ctx, false)
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	response := &Response{StatusCode: resp.StatusCode, Body: body}

	if r.client.errorHandler != nil {
		if herr := r.client.errorHandler(resp.StatusCode, body); herr != nil {
			span.SetStatus(codes.Error, herr.Error())
			r.client.count(ctx, false)
			return response, herr
		}
	} else if response.IsError() {
		r.client.count(ctx, false)
		return response, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if r.result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, r.result); err != nil {
			span.RecordError(err)
			r.client.count(ctx, false)
			return response, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	r.client.count(ctx, !response.IsError())
	return response, nil
}

func (c *Client) count(ctx context.Context, success bool) {
	c.requestCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", c.providerName),
		attribute.Bool("success", success),
	))
}
