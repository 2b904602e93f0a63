package unisender

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/foxzi/unisender-sync/internal/metrics"
	"github.com/foxzi/unisender-sync/internal/quota"
)

// DefaultBaseURL is the public Unisender API host
const DefaultBaseURL = "https://api.unisender.com"

const maxResponseSize = 10 << 20

// ErrQuotaExceeded is returned when the local call quota refuses a call
var ErrQuotaExceeded = errors.New("api call quota exceeded")

// Limiter decides whether an outgoing call may be made
type Limiter interface {
	Allow(ctx context.Context, req *quota.Request) (*quota.Result, error)
}

// Client is a Unisender API client
type Client struct {
	baseURL    string
	lang       string
	apiKey     string
	httpClient *http.Client
	limiter    Limiter
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithLimiter makes every call pass the limiter first
func WithLimiter(l Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithLogger sets the client logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a new Unisender API client
func NewClient(baseURL, lang, apiKey string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if lang == "" {
		lang = "en"
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		lang:    lang,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "unisender_client")
	return c
}

type failer interface {
	ErrorCode() string
}

// request performs one API call
func (c *Client) request(ctx context.Context, method string, params url.Values, result failer) error {
	if c.limiter != nil {
		res, err := c.limiter.Allow(ctx, &quota.Request{Method: method, APIKey: c.apiKey})
		if err != nil {
			return fmt.Errorf("check quota: %w", err)
		}
		if !res.Allowed {
			metrics.IncQuotaDenied(string(res.DeniedBy))
			return fmt.Errorf("%w: %s denied by %s limit, retry after %s",
				ErrQuotaExceeded, method, res.DeniedBy, res.RetryAfter.Round(time.Second))
		}
	}

	form := url.Values{}
	for k, v := range params {
		form[k] = v
	}
	form.Set("format", "json")
	form.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(method), strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveAPICall(method, "transport", time.Since(start))
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		metrics.ObserveAPICall(method, "transport", time.Since(start))
		return fmt.Errorf("read response: %w", err)
	}

	if err := json.Unmarshal(data, result); err != nil {
		metrics.ObserveAPICall(method, "transport", time.Since(start))
		if resp.StatusCode >= 400 {
			return fmt.Errorf("HTTP %d", resp.StatusCode)
		}
		return fmt.Errorf("decode response: %w", err)
	}

	code := result.ErrorCode()
	if code == "" && resp.StatusCode >= 400 {
		metrics.ObserveAPICall(method, "transport", time.Since(start))
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	if code != "" {
		metrics.ObserveAPICall(method, "error", time.Since(start))
		metrics.IncAPIErrors(code)
		c.logger.Debug("api returned error", "method", method, "code", code)
		return nil
	}

	metrics.ObserveAPICall(method, "ok", time.Since(start))
	return nil
}

func (c *Client) endpoint(method string) string {
	return c.baseURL + "/" + c.lang + "/api/" + method
}

func (c *Client) logWarnings(method string, warnings []Warning) {
	for _, w := range warnings {
		c.logger.Warn("api warning", "method", method, "warning", w.Warning, "index", w.Index)
	}
}

func call[T any](ctx context.Context, c *Client, method string, params url.Values) (*Envelope[T], error) {
	var env Envelope[T]
	if err := c.request(ctx, method, params, &env); err != nil {
		return nil, err
	}
	c.logWarnings(method, env.Warnings)
	return &env, nil
}

func idParams(name string, id int64) url.Values {
	v := url.Values{}
	v.Set(name, formatID(id))
	return v
}

// CreateField creates a custom subscriber field
func (c *Client) CreateField(ctx context.Context, req *CreateFieldRequest) (*Envelope[IDResult], error) {
	return call[IDResult](ctx, c, "createField", req.values())
}

// UpdateField renames a field
func (c *Client) UpdateField(ctx context.Context, req *UpdateFieldRequest) (*FlatID, error) {
	var resp FlatID
	if err := c.request(ctx, "updateField", req.values(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteField deletes a field
func (c *Client) DeleteField(ctx context.Context, id int64) (*Envelope[Empty], error) {
	return call[Empty](ctx, c, "deleteField", idParams("id", id))
}

// CreateList creates a subscribe list
func (c *Client) CreateList(ctx context.Context, req *CreateListRequest) (*Envelope[IDResult], error) {
	return call[IDResult](ctx, c, "createList", req.values())
}

// UpdateList changes a list title
func (c *Client) UpdateList(ctx context.Context, req *UpdateListRequest) (*Envelope[Empty], error) {
	return call[Empty](ctx, c, "updateList", req.values())
}

// DeleteList deletes a list
func (c *Client) DeleteList(ctx context.Context, id int64) (*Envelope[Empty], error) {
	return call[Empty](ctx, c, "deleteList", idParams("id", id))
}

// Subscribe adds a contact to lists
func (c *Client) Subscribe(ctx context.Context, req *SubscribeRequest) (*Envelope[SubscribeResult], error) {
	return call[SubscribeResult](ctx, c, "subscribe", req.values())
}

// Unsubscribe marks a contact as unsubscribed from lists
func (c *Client) Unsubscribe(ctx context.Context, req *ContactRequest) (*Envelope[Empty], error) {
	return call[Empty](ctx, c, "unsubscribe", req.values())
}

// Exclude removes a contact from lists
func (c *Client) Exclude(ctx context.Context, req *ContactRequest) (*Envelope[Empty], error) {
	return call[Empty](ctx, c, "exclude", req.values())
}

// CreateEmailMessage creates an email message bound to a list
func (c *Client) CreateEmailMessage(ctx context.Context, req *CreateEmailMessageRequest) (*Envelope[MessageResult], error) {
	return call[MessageResult](ctx, c, "createEmailMessage", req.values())
}

// DeleteMessage deletes a message
func (c *Client) DeleteMessage(ctx context.Context, id int64) (*Envelope[Empty], error) {
	return call[Empty](ctx, c, "deleteMessage", idParams("id", id))
}

// CreateCampaign schedules a message for delivery
func (c *Client) CreateCampaign(ctx context.Context, req *CreateCampaignRequest) (*Envelope[CampaignResult], error) {
	return call[CampaignResult](ctx, c, "createCampaign", req.values())
}

// GetCampaignStatus gets the campaign status
func (c *Client) GetCampaignStatus(ctx context.Context, campaignID int64) (*Envelope[CampaignStatusResult], error) {
	return call[CampaignStatusResult](ctx, c, "getCampaignStatus", idParams("campaign_id", campaignID))
}

// GetCampaignAggregateStats gets delivery counts grouped by status
func (c *Client) GetCampaignAggregateStats(ctx context.Context, campaignID int64) (*Envelope[AggregateStats], error) {
	return call[AggregateStats](ctx, c, "getCampaignAggregateStats", idParams("campaign_id", campaignID))
}

// GetVisitedLinks gets links visited by campaign recipients
func (c *Client) GetVisitedLinks(ctx context.Context, campaignID int64, group bool) (*Envelope[VisitedLinks], error) {
	params := idParams("campaign_id", campaignID)
	if group {
		params.Set("group", "1")
	}
	return call[VisitedLinks](ctx, c, "getVisitedLinks", params)
}
