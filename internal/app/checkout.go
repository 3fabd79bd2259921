package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samvad-hq/checkout-kit/internal/config"
	"github.com/samvad-hq/checkout-kit/internal/logger"
	"github.com/samvad-hq/checkout-kit/internal/storage"
	"github.com/samvad-hq/checkout-kit/pkg/httpclient"
	"github.com/samvad-hq/checkout-kit/pkg/metrics"
	"github.com/samvad-hq/checkout-kit/pkg/orders"
	"github.com/samvad-hq/checkout-kit/pkg/publishers"
)

// Checkout is the order runtime. It owns the token provider, the order
// client and the event fan-out, and runs a single create or process call.
type Checkout struct {
	cfg      *config.Config
	client   *orders.Client
	tokens   *orders.TokenProvider
	fanout   *publishers.Fanout
	store    storage.Store
	registry *prometheus.Registry
	log      logger.Logger
}

// CheckoutOption customizes the runtime, mostly for tests.
type CheckoutOption func(*checkoutOptions)

type checkoutOptions struct {
	http httpclient.Client
}

// WithTransport replaces the resty transport used by every merchant call.
func WithTransport(hc httpclient.Client) CheckoutOption {
	return func(o *checkoutOptions) { o.http = hc }
}

// NewCheckout builds the order runtime from config.
func NewCheckout(ctx context.Context, cfg *config.Config, log logger.Logger, opts ...CheckoutOption) (*Checkout, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	var o checkoutOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.http == nil {
		o.http = httpclient.NewRestyClient(cfg.HTTPTimeout)
	}

	store, err := storage.NewStore(cfg.TokenCacheType, cfg.BBoltPath, storage.Options{
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init token storage: %w", err)
	}
	log.InfoObj("token storage initialized", "storage_config", map[string]any{
		"type":                     cfg.TokenCacheType,
		"path":                     cfg.BBoltPath,
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	fanout, err := buildFanout(ctx, cfg.PublishersFile, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	registry := prometheus.NewRegistry()
	clientMetrics := metrics.NewClientMetrics(registry)

	tokenRequest := orders.MerchantTokenRequest()
	if cfg.ClientID != "" && cfg.ClientSecret != "" {
		tokenRequest = orders.ClientCredentialsRequest(cfg.ClientID, cfg.ClientSecret)
	}
	tokens := orders.NewTokenProvider(cfg.BaseURLs(),
		orders.WithTokenHTTPClient(o.http),
		orders.WithFetchTimeout(cfg.HTTPTimeout),
		orders.WithTokenRequest(tokenRequest),
		orders.WithRefreshPolicy(orders.RefreshPolicy{TTL: cfg.TokenTTL, Skew: cfg.TokenRefreshSkew}),
		orders.WithTokenStore(store),
		orders.WithTokenLogger(log),
		orders.WithTokenMetrics(clientMetrics),
	)

	client := orders.NewClient(cfg.BaseURL(cfg.Environment),
		orders.WithHTTPClient(o.http),
		orders.WithEnvironment(cfg.Environment),
		orders.WithTokenSource(tokens),
		orders.WithLogger(log),
		orders.WithMetrics(clientMetrics),
	)

	return &Checkout{
		cfg:      cfg,
		client:   client,
		tokens:   tokens,
		fanout:   fanout,
		store:    store,
		registry: registry,
		log:      log,
	}, nil
}

func buildFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	if strings.TrimSpace(path) == "" {
		log.InfoObj("no publishers file configured; order events disabled", "publishers_file", path)
		return publishers.NewFanout(nil), nil
	}

	publisherReg, err := publishers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := publisherReg.Enabled()
	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubClients), nil
}

// Gatherer exposes the runtime's API call metrics.
func (c *Checkout) Gatherer() prometheus.Gatherer { return c.registry }

// Run creates an order, or processes cfg.OrderID when one is configured.
// Resources are released before it returns.
func (c *Checkout) Run(ctx context.Context) (*orders.Order, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("checkout is not initialized")
	}
	defer c.close()

	start := time.Now()
	var (
		order *orders.Order
		op    string
		err   error
	)
	if c.cfg.OrderID != "" {
		op = publishers.OperationProcessOrder
		order, err = c.ProcessOrder(ctx, c.cfg.OrderID)
	} else {
		op = publishers.OperationCreateOrder
		order, err = c.CreateOrder(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c.log.InfoObj("checkout run completed", "checkout_meta", map[string]any{
		"operation":    op,
		"order_id":     order.ID,
		"status":       order.Status,
		"approval_url": order.ApprovalURL(),
		"elapsed_ms":   time.Since(start).Milliseconds(),
	})
	return order, nil
}

// CreateOrder posts an order built from the configured amount and context.
func (c *Checkout) CreateOrder(ctx context.Context) (*orders.Order, error) {
	amount, err := orders.ParseAmount(c.cfg.OrderCurrency, c.cfg.OrderAmount)
	if err != nil {
		return nil, err
	}
	params := orders.CreateOrderParams{
		Intent:        strings.ToUpper(c.cfg.OrderIntent),
		PurchaseUnits: []orders.PurchaseUnit{{Amount: amount}},
		ApplicationContext: &orders.ApplicationContext{
			UserAction:         c.cfg.OrderUserAction,
			ShippingPreference: c.cfg.OrderShippingPreference,
		},
	}

	order, err := c.client.CreateOrder(ctx, params)
	if err != nil {
		return nil, err
	}
	c.publish(ctx, publishers.OperationCreateOrder, order)
	return order, nil
}

// ProcessOrder captures or authorizes orderID according to the configured intent.
func (c *Checkout) ProcessOrder(ctx context.Context, orderID string) (*orders.Order, error) {
	order, err := c.client.ProcessOrder(ctx, orders.ProcessOrderParams{
		OrderID:     orderID,
		Intent:      c.cfg.OrderIntent,
		CountryCode: c.cfg.OrderCountryCode,
	})
	if err != nil {
		if errors.Is(err, orders.ErrNetwork) {
			var apiErr *orders.Error
			if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
				// The cached token was rejected; next run fetches a fresh one.
				c.tokens.Invalidate(c.cfg.Environment)
			}
		}
		return nil, err
	}
	c.publish(ctx, publishers.OperationProcessOrder, order)
	return order, nil
}

// publish fans the event out; delivery failures never fail the order call.
func (c *Checkout) publish(ctx context.Context, op string, order *orders.Order) {
	if c.fanout.Size() == 0 {
		return
	}
	evt := publishers.NewEvent(c.cfg.Environment, op, *order)
	delivered, err := c.fanout.Publish(ctx, evt)
	if err != nil {
		c.log.ErrorObj("order event delivery failed", "publish_error", map[string]any{
			"event_id":  evt.ID,
			"delivered": delivered,
			"error":     err.Error(),
		})
		return
	}
	c.log.InfoObj("order event delivered", "publish_meta", map[string]any{
		"event_id":  evt.ID,
		"delivered": delivered,
	})
}

// close releases publishers and the token store and exports metrics,
// logging any errors encountered.
func (c *Checkout) close() {
	c.exportMetrics()
	if err := c.fanout.Close(); err != nil {
		c.log.ErrorObj("publishers close failed", "error", err.Error())
	}
	if c.store == nil {
		return
	}
	if err := c.store.Close(); err != nil {
		c.log.ErrorObj("storage close failed", "error", err.Error())
	}
}

func (c *Checkout) exportMetrics() {
	if c.cfg.MetricsFile == "" {
		return
	}
	if err := metrics.WriteTextfile(c.cfg.MetricsFile, c.registry); err != nil {
		c.log.ErrorObj("metrics export failed", "error", err.Error())
		return
	}
	c.log.InfoObj("metrics exported", "metrics_file", c.cfg.MetricsFile)
}
