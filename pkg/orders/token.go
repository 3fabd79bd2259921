package orders

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/samvad-hq/checkout-kit/internal/domain"
	"github.com/samvad-hq/checkout-kit/pkg/httpclient"
	"github.com/samvad-hq/checkout-kit/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

// MerchantTokenRequest asks the demo merchant server for a token.
func MerchantTokenRequest() AccessTokenRequest {
	return AccessTokenRequest{
		Method:  http.MethodPost,
		Path:    "/access_tokens",
		Headers: map[string]string{"Content-Type": "application/json"},
	}
}

// ClientCredentialsRequest performs an OAuth2 client-credentials grant with HTTP Basic auth.
func ClientCredentialsRequest(clientID, secret string) AccessTokenRequest {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("response_type", "token")

	creds := base64.StdEncoding.EncodeToString([]byte(clientID + ":" + secret))
	return AccessTokenRequest{
		Method: http.MethodPost,
		Path:   "/v1/oauth2/token",
		Body:   []byte(form.Encode()),
		Headers: map[string]string{
			"Content-Type":  "application/x-www-form-urlencoded",
			"Authorization": "Basic " + creds,
		},
	}
}

// Token is an access token with an optional expiry. A zero ExpiresAt never expires.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Expired reports whether the token is unusable at now.
func (t Token) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !t.ExpiresAt.After(now)
}

// RefreshPolicy decides how long a fetched token stays usable.
// The server's expires_in wins over TTL; a zero TTL without expires_in never expires.
// A lifetime no longer than Skew is halved instead.
type RefreshPolicy struct {
	TTL  time.Duration
	Skew time.Duration
}

func (p RefreshPolicy) expiry(now time.Time, resp *AccessTokenResponse) time.Time {
	if resp.ExpiresIn > 0 {
		lifetime := time.Duration(resp.ExpiresIn) * time.Second
		if lifetime > p.Skew {
			lifetime -= p.Skew
		} else {
			lifetime /= 2
		}
		return now.Add(lifetime)
	}
	if p.TTL > 0 {
		return now.Add(p.TTL)
	}
	return time.Time{}
}

// DefaultFetchTimeout bounds a token fetch shared by concurrent callers.
const DefaultFetchTimeout = 30 * time.Second

// TokenStore persists tokens between provider instances.
type TokenStore interface {
	Token(key string) (Token, bool, error)
	SaveToken(key string, token Token) error
}

// TokenProvider caches one access token per environment.
// Concurrent callers for an environment share a single in-flight fetch.
type TokenProvider struct {
	clients map[domain.Environment]*Client
	request AccessTokenRequest
	policy  RefreshPolicy
	store   TokenStore
	log     Logger
	now     func() time.Time
	timeout time.Duration

	group singleflight.Group
	mu    sync.Mutex
	cache map[domain.Environment]Token
}

// TokenOption customizes a TokenProvider.
type TokenOption func(*tokenOptions)

type tokenOptions struct {
	http    httpclient.Client
	request AccessTokenRequest
	policy  RefreshPolicy
	store   TokenStore
	log     Logger
	metrics *metrics.ClientMetrics
	now     func() time.Time
	timeout time.Duration
}

// WithTokenHTTPClient sets the transport used for token fetches.
func WithTokenHTTPClient(hc httpclient.Client) TokenOption {
	return func(o *tokenOptions) { o.http = hc }
}

// WithTokenRequest overrides the default MerchantTokenRequest.
func WithTokenRequest(req AccessTokenRequest) TokenOption {
	return func(o *tokenOptions) { o.request = req }
}

// WithRefreshPolicy sets token lifetime rules.
func WithRefreshPolicy(p RefreshPolicy) TokenOption {
	return func(o *tokenOptions) { o.policy = p }
}

// WithTokenStore persists tokens across restarts.
func WithTokenStore(s TokenStore) TokenOption {
	return func(o *tokenOptions) { o.store = s }
}

// WithTokenLogger sets the provider logger.
func WithTokenLogger(log Logger) TokenOption {
	return func(o *tokenOptions) { o.log = log }
}

// WithTokenMetrics records token fetches.
func WithTokenMetrics(m *metrics.ClientMetrics) TokenOption {
	return func(o *tokenOptions) { o.metrics = m }
}

// WithFetchTimeout bounds a shared token fetch. Defaults to DefaultFetchTimeout.
func WithFetchTimeout(d time.Duration) TokenOption {
	return func(o *tokenOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func withClock(now func() time.Time) TokenOption {
	return func(o *tokenOptions) { o.now = now }
}

// NewTokenProvider builds a provider fetching from the given environment base URLs.
func NewTokenProvider(baseURLs map[domain.Environment]string, opts ...TokenOption) *TokenProvider {
	o := tokenOptions{
		request: MerchantTokenRequest(),
		now:     time.Now,
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	log := ensureLogger(o.log)

	clients := make(map[domain.Environment]*Client, len(baseURLs))
	for env, base := range baseURLs {
		clients[env] = NewClient(base,
			WithHTTPClient(o.http),
			WithEnvironment(env),
			WithLogger(log),
			WithMetrics(o.metrics),
		)
	}

	return &TokenProvider{
		clients: clients,
		request: o.request,
		policy:  o.policy,
		store:   o.store,
		log:     log,
		now:     o.now,
		timeout: o.timeout,
		cache:   make(map[domain.Environment]Token),
	}
}

// AccessToken returns the cached token for env, fetching it on first use or after expiry.
// Any failure is logged and reported as an empty token.
func (p *TokenProvider) AccessToken(ctx context.Context, env domain.Environment) string {
	if token, ok := p.cached(env); ok {
		return token
	}

	// The fetch outlives any single caller: each waiter gives up on its own
	// context while the shared fetch runs detached under the fetch timeout.
	ch := p.group.DoChan(env.String(), func() (any, error) {
		if token, ok := p.cached(env); ok {
			return token, nil
		}
		if token, ok := p.loadStored(env); ok {
			return token, nil
		}
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
		defer cancel()
		return p.fetch(fetchCtx, env)
	})

	select {
	case <-ctx.Done():
		p.log.WarnObj("access token wait abandoned", "token_error", map[string]any{
			"environment": env.String(),
			"error":       ctx.Err().Error(),
		})
		return ""
	case res := <-ch:
		if res.Err != nil {
			p.log.WarnObj("access token unavailable", "token_error", map[string]any{
				"environment": env.String(),
				"shared":      res.Shared,
				"error":       res.Err.Error(),
			})
			return ""
		}
		return res.Val.(string)
	}
}

// Invalidate drops the cached token for env so the next call refetches.
func (p *TokenProvider) Invalidate(env domain.Environment) {
	p.mu.Lock()
	delete(p.cache, env)
	p.mu.Unlock()
	if p.store != nil {
		if err := p.store.SaveToken(env.String(), Token{}); err != nil {
			p.log.WarnObj("token store invalidate failed", "token_store_error", map[string]any{
				"environment": env.String(),
				"error":       err.Error(),
			})
		}
	}
}

func (p *TokenProvider) cached(env domain.Environment) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	token, ok := p.cache[env]
	if !ok || token.Value == "" || token.Expired(p.now()) {
		return "", false
	}
	return token.Value, true
}

func (p *TokenProvider) remember(env domain.Environment, token Token) {
	p.mu.Lock()
	p.cache[env] = token
	p.mu.Unlock()
}

func (p *TokenProvider) loadStored(env domain.Environment) (string, bool) {
	if p.store == nil {
		return "", false
	}
	token, found, err := p.store.Token(env.String())
	if err != nil {
		p.log.WarnObj("token store read failed", "token_store_error", map[string]any{
			"environment": env.String(),
			"error":       err.Error(),
		})
		return "", false
	}
	if !found || token.Value == "" || token.Expired(p.now()) {
		return "", false
	}
	p.remember(env, token)
	return token.Value, true
}

func (p *TokenProvider) fetch(ctx context.Context, env domain.Environment) (string, error) {
	client, ok := p.clients[env]
	if !ok {
		return "", newError(OpAccessToken, ErrInvalidURL, errUnknownEnvironment(env))
	}

	resp, err := client.FetchAccessToken(ctx, p.request)
	if err != nil {
		return "", err
	}

	token := Token{
		Value:     resp.AccessToken,
		ExpiresAt: p.policy.expiry(p.now(), resp),
	}
	p.remember(env, token)
	if p.store != nil {
		if err := p.store.SaveToken(env.String(), token); err != nil {
			p.log.WarnObj("token store write failed", "token_store_error", map[string]any{
				"environment": env.String(),
				"error":       err.Error(),
			})
		}
	}
	p.log.InfoObj("access token fetched", "token_meta", map[string]any{
		"environment": env.String(),
		"expires_at":  token.ExpiresAt,
	})
	return token.Value, nil
}

type errUnknownEnvironment domain.Environment

func (e errUnknownEnvironment) Error() string {
	return "no base url configured for environment " + string(e)
}
