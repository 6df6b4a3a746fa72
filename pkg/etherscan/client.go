package etherscan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/archon-research/etherscan/internal/pkg/retry"
	"github.com/archon-research/etherscan/internal/pkg/telemetry"
)

// ClientConfig holds configuration for the Etherscan client.
type ClientConfig struct {
	// Network is the target chain. Defaults to Mainnet.
	Network Network

	// APIKey is appended to every typed call when set. Anonymous use is
	// allowed but heavily rate limited by the service.
	APIKey string

	// ProxyURL is an optional outbound HTTP proxy ("http://proxy:3128").
	ProxyURL string

	// Timeout bounds one HTTP round trip. Zero means no timeout.
	Timeout time.Duration

	// BaseURL overrides the endpoint derived from Network and UnifiedAPI.
	BaseURL string

	// UnifiedAPI sends calls to the multichain V2 endpoint with a chainid
	// parameter instead of the per-network host.
	UnifiedAPI bool

	// HTTPClient is an optional custom HTTP client. Timeout and ProxyURL are
	// ignored when it is set.
	HTTPClient *http.Client

	// Logger is the structured logger for the client.
	Logger *slog.Logger

	// MaxRetries retries NetworkError and MaxRateError outcomes. Zero disables retries.
	MaxRetries int

	// InitialBackoff is the initial delay before the first retry.
	InitialBackoff time.Duration

	// MaxBackoff is the maximum delay between retries.
	MaxBackoff time.Duration

	// BackoffFactor is the multiplier applied to backoff after each retry.
	BackoffFactor float64

	// RateLimitPerSec paces calls client-side. Zero disables pacing.
	RateLimitPerSec float64

	// TracerProvider and MeterProvider default to the otel globals.
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

// ClientConfigDefaults returns a config with default values.
func ClientConfigDefaults() ClientConfig {
	return ClientConfig{
		Network:        Mainnet,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     10 * time.Second,
		BackoffFactor:  2.0,
		Logger:         slog.Default(),
	}
}

func applyDefaults(config *ClientConfig, defaults ClientConfig) {
	if config.InitialBackoff == 0 {
		config.InitialBackoff = defaults.InitialBackoff
	}
	if config.MaxBackoff == 0 {
		config.MaxBackoff = defaults.MaxBackoff
	}
	if config.BackoffFactor == 0 {
		config.BackoffFactor = defaults.BackoffFactor
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.Logger == nil {
		config.Logger = defaults.Logger
	}
}

// Client issues calls against the Etherscan API.
//
// Calls may run concurrently. The setters are not synchronised with calls and
// belong to the configuration phase.
type Client struct {
	config      ClientConfig
	httpClient  *http.Client
	logger      *slog.Logger
	limiter     *rate.Limiter
	retryPolicy retry.Policy
	telemetry   *telemetry.Telemetry
}

// NewClient creates a new Etherscan API client.
func NewClient(config ClientConfig) (*Client, error) {
	applyDefaults(&config, ClientConfigDefaults())

	if !config.Network.Valid() {
		return nil, fmt.Errorf("unsupported network %s", config.Network)
	}

	tel, err := telemetry.New(config.TracerProvider, config.MeterProvider)
	if err != nil {
		return nil, fmt.Errorf("creating telemetry: %w", err)
	}

	c := &Client{
		config:    config,
		logger:    config.Logger.With("component", "etherscan-client"),
		telemetry: tel,
		retryPolicy: retry.Policy{
			MaxRetries:     config.MaxRetries,
			InitialBackoff: config.InitialBackoff,
			MaxBackoff:     config.MaxBackoff,
			BackoffFactor:  config.BackoffFactor,
		},
	}
	if config.RateLimitPerSec > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(config.RateLimitPerSec), 1)
	}
	if err := c.rebuildHTTPClient(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Client) rebuildHTTPClient() error {
	if c.config.HTTPClient != nil {
		c.httpClient = c.config.HTTPClient
		return nil
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if c.config.ProxyURL != "" {
		proxy, err := url.Parse(c.config.ProxyURL)
		if err != nil || proxy.Host == "" {
			return fmt.Errorf("invalid proxy URL %q", c.config.ProxyURL)
		}
		transport.Proxy = http.ProxyURL(proxy)
	}

	c.httpClient = &http.Client{
		Timeout:   c.config.Timeout,
		Transport: transport,
	}
	return nil
}

// Network returns the configured network.
func (c *Client) Network() Network {
	return c.config.Network
}

// SetNetwork switches the target chain.
func (c *Client) SetNetwork(n Network) error {
	if !n.Valid() {
		return fmt.Errorf("unsupported network %s", n)
	}
	c.config.Network = n
	return nil
}

// SetAPIKey replaces the API key used by typed calls.
func (c *Client) SetAPIKey(key string) {
	c.config.APIKey = key
}

// SetProxy routes calls through proxyURL. An empty proxyURL disables the proxy.
func (c *Client) SetProxy(proxyURL string) error {
	previous := c.config.ProxyURL
	c.config.ProxyURL = proxyURL
	if err := c.rebuildHTTPClient(); err != nil {
		c.config.ProxyURL = previous
		return err
	}
	return nil
}

// SetTimeout bounds each HTTP round trip. Zero disables the timeout.
func (c *Client) SetTimeout(d time.Duration) {
	c.config.Timeout = d
	_ = c.rebuildHTTPClient()
}

func (c *Client) baseURL() string {
	switch {
	case c.config.BaseURL != "":
		return c.config.BaseURL
	case c.config.UnifiedAPI:
		return UnifiedBaseURL
	default:
		return c.config.Network.BaseURL()
	}
}

// Call sends q as is and returns the raw response body. It is the escape hatch
// for endpoints without a typed method: the API key is not added, and the only
// error it reports is a NetworkError for transport failures. Use Classify on
// the body to interpret it.
func (c *Client) Call(ctx context.Context, q *Query) (json.RawMessage, error) {
	module, action := q.Get("module"), q.Get("action")
	body, _, err := c.fetch(ctx, q.clone())
	if err != nil {
		return nil, &Error{Kind: NetworkError, Module: module, Action: action, Err: err}
	}
	return body, nil
}

// get runs one typed call: credentials, pacing, transport, classification,
// optional retries and instrumentation.
func (c *Client) get(ctx context.Context, q *Query) (envelope, error) {
	q = q.clone()
	if c.config.UnifiedAPI && !q.Has("chainid") {
		q.AddInt("chainid", c.config.Network.ChainID())
	}
	if c.config.APIKey != "" {
		q.Set("apikey", c.config.APIKey)
	}

	module, action := q.Get("module"), q.Get("action")
	ctx, span := c.telemetry.StartSpan(ctx, module, action)
	start := time.Now()

	shouldRetry := func(err error) bool {
		return KindOf(err).Transient()
	}
	onRetry := func(attempt int, err error, backoff time.Duration) {
		c.telemetry.RecordRetry(ctx, module, action, attempt)
		c.logger.Warn("request failed, retrying",
			"module", module,
			"action", action,
			"attempt", attempt,
			"maxRetries", c.retryPolicy.MaxRetries,
			"backoff", backoff,
			"error", err,
		)
	}

	env, err := retry.Do(ctx, c.retryPolicy, shouldRetry, onRetry, func() (envelope, error) {
		return c.roundTrip(ctx, q, module, action)
	})

	kind := KindOf(err)
	c.telemetry.RecordRequest(ctx, module, action, kind.String(), time.Since(start))
	telemetry.EndSpan(span, kind.String(), err)

	if err != nil {
		c.logger.Debug("request classified as failure",
			"module", module,
			"action", action,
			"kind", kind.String(),
			"error", err,
		)
	}
	return env, err
}

func (c *Client) roundTrip(ctx context.Context, q *Query, module, action string) (envelope, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &Error{Kind: NetworkError, Module: module, Action: action, Err: fmt.Errorf("rate limiter: %w", err)}
		}
	}

	body, status, err := c.fetch(ctx, q)
	if err != nil {
		return nil, &Error{Kind: NetworkError, Module: module, Action: action, Err: err}
	}

	env, ok := parseEnvelope(body)
	if !ok {
		return nil, &Error{
			Kind:    NetworkError,
			Module:  module,
			Action:  action,
			Message: fmt.Sprintf("empty or unparseable response (HTTP %d)", status),
		}
	}

	if kind, msg := env.classify(); kind != NoError {
		return env, &Error{Kind: kind, Module: module, Action: action, Message: msg}
	}
	return env, nil
}

// fetch performs the GET and returns the body regardless of the HTTP status.
func (c *Client) fetch(ctx context.Context, q *Query) ([]byte, int, error) {
	fullURL := fmt.Sprintf("%s?%s", c.baseURL(), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("sending request",
		"network", c.config.Network.String(),
		"query", q.redacted(),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("failed to close response body", "error", closeErr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response body: %w", err)
	}
	return body, resp.StatusCode, nil
}

// fetchResult decodes the result of a native call into T.
func fetchResult[T any](ctx context.Context, c *Client, q *Query) (T, error) {
	env, err := c.get(ctx, q)
	if err != nil {
		return defaultOf[T](), err
	}
	return decode[T](env.result()), nil
}

// fetchScalar decodes a scalar result, using def when it is missing or malformed.
func fetchScalar[T any](ctx context.Context, c *Client, q *Query, def string) (T, error) {
	env, err := c.get(ctx, q)
	if err != nil {
		return decodeWithDefault[T](nil, def), err
	}
	return decodeWithDefault[T](env.result(), def), nil
}

// fetchList decodes an array result element-wise.
func fetchList[T any](ctx context.Context, c *Client, q *Query) ([]T, error) {
	env, err := c.get(ctx, q)
	if err != nil {
		return nil, err
	}
	return decodeList[T](env.result()), nil
}

var errNoAddresses = errors.New("at least one address is required")
