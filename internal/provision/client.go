package provision

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/hogflix-traffic/internal/config"
	"github.com/xkilldash9x/hogflix-traffic/internal/observability"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrInvalidResponse is returned when a 2xx response cannot be used.
var ErrInvalidResponse = errors.New("invalid provisioning response")

const maxErrorBody = 4 << 10

// Client is a rate-limited client for the provisioning REST API.
type Client struct {
	baseURL    string
	apiKey     string
	projectID  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithMetrics counts every call by operation and result.
func WithMetrics(m *observability.Metrics) Option {
	return func(cl *Client) { cl.metrics = m }
}

// NewClient builds a client from configuration and credentials.
func NewClient(cfg config.ProvisionerConfig, creds config.Credentials, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		baseURL:    strings.TrimRight(cfg.APIURL, "/"),
		apiKey:     creds.APIKey,
		projectID:  creds.ProjectID,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:     logger.Named("provision"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Create provisions a browser.
func (c *Client) Create(ctx context.Context, req SessionRequest) (*Session, error) {
	var resp sessionResponse
	err := c.do(ctx, http.MethodPost, "/v1/sessions", newCreateBody(c.projectID, req), &resp)
	c.metrics.ObserveProvision("create", err)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if resp.ID == "" || resp.ConnectURL == "" {
		return nil, fmt.Errorf("create session: %w: missing id or connectUrl", ErrInvalidResponse)
	}

	c.logger.Debug("Provisioned browser session.",
		zap.String("session_id", resp.ID),
		zap.String("city", req.Geo.City),
		zap.String("device", req.Device.Name()))
	return &Session{ID: resp.ID, ConnectURL: resp.ConnectURL, Status: domainStatus(resp.Status)}, nil
}

// Update changes the lifecycle state of a session. Releasing is the only
// supported transition.
func (c *Client) Update(ctx context.Context, id string, update SessionUpdate) error {
	status, err := wireStatus(update.Status)
	if err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("update session: empty session id")
	}

	body := updateSessionBody{ProjectID: c.projectID, Status: status}
	err = c.do(ctx, http.MethodPost, "/v1/sessions/"+url.PathEscape(id), body, nil)
	c.metrics.ObserveProvision("update", err)
	if err != nil {
		return fmt.Errorf("update session %s: %w", id, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-BB-API-Key", c.apiKey)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}
