// Package client implements the platform REST operations hookcache
// depends on: fetching webhook metadata and executing webhooks. It
// satisfies both hookcache capabilities, so a single *Client can be
// passed to hookcache.WithClient.
//
// Retries are deliberately absent; hookcache surfaces every failure to
// the caller, whose HTTP stack owns the retry policy.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/xraph/hookcache"
	"github.com/xraph/hookcache/id"
	"github.com/xraph/hookcache/webhook"
)

const (
	defaultBaseURL   = "https://discord.com/api/v10"
	defaultUserAgent = "hookcache/1.0"
	defaultTimeout   = 30 * time.Second

	maxErrorBody = 1024 // 1KB cap on error response body storage
)

// compile-time interface check.
var _ hookcache.API = (*Client)(nil)

// Config holds the configuration for a Client.
type Config struct {
	// BaseURL is the platform API root. Defaults to the public API.
	BaseURL string

	// Token is the application's bot token, used to authorize metadata
	// fetches. Executions authenticate with the webhook's own token and
	// don't need it.
	Token string

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// UserAgent overrides the default User-Agent header.
	UserAgent string
}

// Client performs webhook fetches and executions over HTTP.
type Client struct {
	http      *http.Client
	baseURL   string
	token     string
	userAgent string
}

// New creates a platform API client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	return &Client{
		http:      &http.Client{Timeout: cfg.Timeout},
		baseURL:   cfg.BaseURL,
		token:     cfg.Token,
		userAgent: cfg.UserAgent,
	}
}

// wireWebhook is the platform's webhook object. Decoded here rather than
// on webhook.Webhook directly: the cached record never serializes its
// token, and the application-owned flag is derived, not transported.
type wireWebhook struct {
	ID            id.ID  `json:"id"`
	ChannelID     id.ID  `json:"channel_id"`
	GuildID       id.ID  `json:"guild_id"`
	Name          string `json:"name"`
	Avatar        string `json:"avatar"`
	Token         string `json:"token"`
	ApplicationID id.ID  `json:"application_id"`
}

func (w wireWebhook) record() webhook.Webhook {
	return webhook.Webhook{
		ID:               w.ID,
		ChannelID:        w.ChannelID,
		GuildID:          w.GuildID,
		Name:             w.Name,
		Avatar:           w.Avatar,
		Token:            w.Token,
		ApplicationOwned: !w.ApplicationID.IsZero(),
	}
}

// FetchWebhook retrieves current webhook metadata by ID.
// Requires the bot to have webhook management permission in the
// webhook's channel, otherwise the platform omits the token.
func (c *Client) FetchWebhook(ctx context.Context, webhookID id.ID) (webhook.Webhook, error) {
	endpoint := fmt.Sprintf("%s/webhooks/%s", c.baseURL, webhookID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return webhook.Webhook{}, fmt.Errorf("client: create request: %w", err)
	}
	c.setHeaders(req, true)

	resp, err := c.http.Do(req)
	if err != nil {
		return webhook.Webhook{}, fmt.Errorf("client: fetch webhook %s: %w", webhookID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return webhook.Webhook{}, c.apiError(resp)
	}

	var wire wireWebhook
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return webhook.Webhook{}, fmt.Errorf("client: decode webhook %s: %w", webhookID, err)
	}

	return wire.record(), nil
}

// SendWebhook executes a webhook, posting a message with its token. The
// token travels in the URL path, as the platform requires; it is never
// logged or attached to headers.
func (c *Client) SendWebhook(ctx context.Context, webhookID id.ID, token string, p hookcache.Payload) (hookcache.Message, error) {
	endpoint := fmt.Sprintf("%s/webhooks/%s/%s", c.baseURL, webhookID, url.PathEscape(token))

	// wait=true makes the platform return the created message instead
	// of a bare 204.
	query := url.Values{"wait": {"true"}}
	if !p.ThreadID.IsZero() {
		query.Set("thread_id", p.ThreadID.String())
	}
	endpoint += "?" + query.Encode()

	body, err := json.Marshal(p)
	if err != nil {
		return hookcache.Message{}, fmt.Errorf("client: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return hookcache.Message{}, fmt.Errorf("client: create request: %w", err)
	}
	c.setHeaders(req, false)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return hookcache.Message{}, fmt.Errorf("client: execute webhook %s: %w", webhookID, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var msg hookcache.Message
		if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
			return hookcache.Message{}, fmt.Errorf("client: decode message: %w", err)
		}
		return msg, nil
	case http.StatusNoContent:
		// The platform skipped the message body; nothing to report.
		return hookcache.Message{}, nil
	default:
		return hookcache.Message{}, c.apiError(resp)
	}
}

func (c *Client) setHeaders(req *http.Request, authorize bool) {
	req.Header.Set("User-Agent", c.userAgent)
	if authorize && c.token != "" {
		req.Header.Set("Authorization", "Bot "+c.token)
	}
}

// apiError decodes the platform's error envelope from a non-success
// response. The body read is capped; platform errors are small.
func (c *Client) apiError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apiErr
	}

	// Best effort: keep the raw body when the envelope doesn't parse.
	if jsonErr := json.Unmarshal(body, apiErr); jsonErr != nil {
		apiErr.Message = string(body)
	}

	return apiErr
}

// APIError is a non-success response from the platform.
type APIError struct {
	// Status is the HTTP status code.
	Status int `json:"-"`

	// Code is the platform's machine-readable error code.
	Code int `json:"code"`

	// Message is the platform's human-readable error text.
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("client: API error: status %d", e.Status)
	}
	return fmt.Sprintf("client: API error: status %d, code %d: %s", e.Status, e.Code, e.Message)
}
