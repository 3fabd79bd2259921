package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samvad-hq/checkout-kit/internal/domain"
	"github.com/samvad-hq/checkout-kit/pkg/httpclient"
	"github.com/samvad-hq/checkout-kit/pkg/metrics"
)

// Operation names used in errors, logs and metrics.
const (
	OpCreateOrder  = "create_order"
	OpProcessOrder = "process_order"
	OpAccessToken  = "access_token"
)

// RequestIDHeader carries a unique id per API call.
const RequestIDHeader = "X-Request-ID"

// TokenSource yields the bearer token attached to order calls.
// An empty token means no Authorization header is sent.
type TokenSource interface {
	AccessToken(ctx context.Context, env domain.Environment) string
}

// Client talks to the demo merchant server.
type Client struct {
	baseURL string
	env     domain.Environment
	http    httpclient.Client
	tokens  TokenSource
	log     Logger
	metrics *metrics.ClientMetrics
	newID   func() string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient sets the transport. Defaults to a resty client with the platform timeout.
func WithHTTPClient(hc httpclient.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTokenSource attaches bearer tokens to order calls.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithEnvironment sets the environment passed to the token source.
func WithEnvironment(env domain.Environment) Option {
	return func(c *Client) { c.env = env }
}

// WithLogger sets the client logger.
func WithLogger(log Logger) Option {
	return func(c *Client) { c.log = ensureLogger(log) }
}

// WithMetrics records call counts and latency.
func WithMetrics(m *metrics.ClientMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient builds a client for the merchant server at baseURL.
// The URL is validated lazily so a malformed value surfaces as ErrInvalidURL on each call.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSpace(baseURL),
		env:     domain.Sandbox,
		log:     noopLogger{},
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(0)
	}
	return c
}

// CreateOrder posts the demo merchant payload to /orders.
func (c *Client) CreateOrder(ctx context.Context, params CreateOrderParams) (*Order, error) {
	return c.postOrder(ctx, OpCreateOrder, "orders", params)
}

// CreateCheckoutOrder posts the checkout-flow payload to /orders.
func (c *Client) CreateCheckoutOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	return c.postOrder(ctx, OpCreateOrder, "orders", req)
}

// ProcessOrder posts to /{intent}-order, e.g. /capture-order or /authorize-order.
func (c *Client) ProcessOrder(ctx context.Context, params ProcessOrderParams) (*Order, error) {
	intent := strings.ToLower(strings.TrimSpace(params.Intent))
	if intent == "" || strings.ContainsAny(intent, "/?#% ") {
		err := newError(OpProcessOrder, ErrInvalidURL, fmt.Errorf("invalid intent %q", params.Intent))
		c.metrics.Observe(OpProcessOrder, time.Now(), err)
		return nil, err
	}
	return c.postOrder(ctx, OpProcessOrder, intent+"-order", params)
}

// FetchAccessToken performs a single token request against this client's base URL.
func (c *Client) FetchAccessToken(ctx context.Context, req AccessTokenRequest) (*AccessTokenResponse, error) {
	started := time.Now()

	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodPost
	}
	headers := map[string]string{"Accept": "application/json"}
	for k, v := range req.Headers {
		headers[k] = v
	}

	var out AccessTokenResponse
	endpoint, err := c.endpoint(req.Path)
	if err != nil {
		err = newError(OpAccessToken, ErrInvalidURL, err)
	} else {
		err = c.roundTrip(ctx, OpAccessToken, method, endpoint, headers, req.Body, &out)
	}
	if err == nil && strings.TrimSpace(out.AccessToken) == "" {
		err = newError(OpAccessToken, ErrParsing, errors.New("response has no access_token"))
	}
	c.metrics.Observe(OpAccessToken, started, err)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) postOrder(ctx context.Context, op, path string, payload any) (*Order, error) {
	started := time.Now()
	order, err := c.sendOrder(ctx, op, path, payload)
	c.metrics.Observe(op, started, err)
	if err != nil {
		c.log.WarnObj("merchant api call failed", "order_error", map[string]any{
			"operation": op,
			"error":     err.Error(),
		})
		return nil, err
	}
	c.log.InfoObj("merchant api call completed", "order_result", map[string]any{
		"operation":   op,
		"order_id":    order.ID,
		"status":      order.Status,
		"elapsed_ms":  time.Since(started).Milliseconds(),
		"environment": c.env.String(),
	})
	return order, nil
}

func (c *Client) sendOrder(ctx context.Context, op, path string, payload any) (*Order, error) {
	endpoint, err := c.endpoint(path)
	if err != nil {
		return nil, newError(op, ErrInvalidURL, err)
	}

	body, err := marshalSnakeCase(payload)
	if err != nil {
		return nil, newError(op, ErrParsing, fmt.Errorf("encode request: %w", err))
	}

	headers := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
	if c.tokens != nil {
		if token := c.tokens.AccessToken(ctx, c.env); token != "" {
			headers["Authorization"] = "Bearer " + token
		}
	}

	var order Order
	if err := c.roundTrip(ctx, op, http.MethodPost, endpoint, headers, body, &order); err != nil {
		return nil, err
	}
	if order.ID == "" || order.Status == "" {
		return nil, newError(op, ErrParsing, errors.New("order response is missing id or status"))
	}
	return &order, nil
}

// roundTrip issues one request and decodes a 2xx JSON body into out.
func (c *Client) roundTrip(ctx context.Context, op, method, endpoint string, headers map[string]string, body []byte, out any) error {
	headers[RequestIDHeader] = c.newID()
	c.log.DebugObj("merchant api request", "request", map[string]any{
		"operation":  op,
		"method":     method,
		"url":        endpoint,
		"request_id": headers[RequestIDHeader],
	})

	resp, err := c.http.Do(ctx, method, endpoint, headers, body)
	if err != nil {
		if errors.Is(err, httpclient.ErrNoResponse) {
			return newError(op, ErrServer, err)
		}
		return newError(op, ErrNetwork, err)
	}

	if status := resp.StatusCode(); status < 200 || status > 299 {
		return &Error{
			Op:         op,
			Kind:       ErrNetwork,
			StatusCode: status,
			Body:       bodySnippet(resp.Body()),
		}
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return newError(op, ErrParsing, err)
	}
	return nil
}

// endpoint joins path onto the base URL, rejecting anything that is not an absolute http(s) URL.
func (c *Client) endpoint(path string) (string, error) {
	if c.baseURL == "" {
		return "", errors.New("base url is empty")
	}
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return "", fmt.Errorf("base url %q must use http or https", c.baseURL)
	}
	if base.Host == "" {
		return "", fmt.Errorf("base url %q has no host", c.baseURL)
	}
	return base.JoinPath(strings.TrimPrefix(path, "/")).String(), nil
}
