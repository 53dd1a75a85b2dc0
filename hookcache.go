package hookcache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/xraph/hookcache/cache"
	"github.com/xraph/hookcache/id"
	"github.com/xraph/hookcache/observability"
	"github.com/xraph/hookcache/ratelimit"
	"github.com/xraph/hookcache/webhook"
)

// Fetcher retrieves current webhook metadata from the remote platform.
type Fetcher = cache.Fetcher

// FetcherFunc adapts a plain function to the Fetcher interface.
type FetcherFunc = cache.FetcherFunc

// Sender performs the actual message-posting invocation of a webhook.
type Sender interface {
	SendWebhook(ctx context.Context, webhookID id.ID, token string, p Payload) (Message, error)
}

// SenderFunc adapts a plain function to the Sender interface.
type SenderFunc func(ctx context.Context, webhookID id.ID, token string, p Payload) (Message, error)

// SendWebhook calls f.
func (f SenderFunc) SendWebhook(ctx context.Context, webhookID id.ID, token string, p Payload) (Message, error) {
	return f(ctx, webhookID, token, p)
}

// API bundles both platform capabilities, as implemented by a REST client.
type API interface {
	Fetcher
	Sender
}

// Payload is the body of a webhook execution.
type Payload struct {
	// Content is the message text.
	Content string `json:"content,omitempty"`

	// Username overrides the webhook's display name for this message.
	Username string `json:"username,omitempty"`

	// AvatarURL overrides the webhook's avatar for this message.
	// Build member/user URLs with the cdn package.
	AvatarURL string `json:"avatar_url,omitempty"`

	// TTS marks the message as text-to-speech.
	TTS bool `json:"tts,omitempty"`

	// ThreadID posts into a thread of the webhook's channel instead of
	// the channel itself. Sent as a query parameter, not in the body.
	ThreadID id.ID `json:"-"`
}

// Message is the platform's record of a posted message.
type Message struct {
	ID        id.ID     `json:"id"`
	ChannelID id.ID     `json:"channel_id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Service owns the webhook cache and the execution path. It is safe for
// use from arbitrary concurrent goroutines; construct one per
// application context and share it by reference.
type Service struct {
	config  Config
	cache   *cache.Cache
	fetcher Fetcher
	sender  Sender
	limiter *ratelimit.Limiter
	metrics *observability.Metrics
	tracer  *observability.Tracer
	logger  *slog.Logger
}

// New creates a new Service with the given options. A Fetcher and a
// Sender (or a combined client via WithClient) are required.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.fetcher == nil {
		return nil, ErrNoFetcher
	}
	if s.sender == nil {
		return nil, ErrNoSender
	}

	var copts []cache.Option
	if s.metrics != nil {
		copts = append(copts, cache.WithMetrics(s.metrics))
	}
	if s.tracer != nil {
		copts = append(copts, cache.WithTracer(s.tracer))
	}
	s.cache = cache.New(copts...)
	s.limiter = ratelimit.New()

	return s, nil
}

// Cache returns the underlying webhook store, for callers that need the
// full CRUD surface or want to pass a different fetcher per lookup.
func (s *Service) Cache() *cache.Cache {
	return s.cache
}

// Get returns the cached webhook, if present. Never performs network I/O.
func (s *Service) Get(webhookID id.ID) (webhook.Webhook, bool) {
	return s.cache.Get(webhookID)
}

// GetOrFetch returns the cached webhook, filling a miss through the
// configured fetcher with concurrent callers coalesced per webhook.
func (s *Service) GetOrFetch(ctx context.Context, webhookID id.ID) (webhook.Webhook, error) {
	return s.cache.GetOrFetch(ctx, webhookID, s.fetcher)
}

// Insert unconditionally stores a webhook record obtained elsewhere.
func (s *Service) Insert(wh webhook.Webhook) {
	s.cache.Insert(wh)
}

// Update applies a partial patch to a cached webhook and reports whether
// one existed. An update for an unknown webhook is an accepted no-op.
func (s *Service) Update(webhookID id.ID, patch webhook.Patch) bool {
	return s.cache.Update(webhookID, patch)
}

// Remove evicts a webhook and drops its rate limit state.
func (s *Service) Remove(webhookID id.ID) (webhook.Webhook, bool) {
	s.limiter.Reset(webhookID)
	return s.cache.Remove(webhookID)
}

// Clear removes all cached webhooks, for full resyncs.
func (s *Service) Clear() {
	s.cache.Clear()
}

// Apply folds a platform gateway event into the cache.
func (s *Service) Apply(ev webhook.Event) {
	if d, ok := ev.(webhook.Deleted); ok {
		s.limiter.Reset(d.ID)
	}
	s.cache.Apply(ev)
}

// Execute posts a message through a webhook.
//
// The webhook record is resolved through the cache (fetch-fill on miss,
// coalesced across concurrent callers), then the execution token is
// chosen: an explicit non-empty tokenHint wins over the cached token.
// The send is a single attempt; retry policy belongs to the caller's
// HTTP client.
//
// Errors: ErrMissingToken when no token is available from either source
// (the sender is never invoked), *cache.FetchError when resolution
// failed, *SendError when the sender failed.
func (s *Service) Execute(ctx context.Context, webhookID id.ID, tokenHint string, p Payload) (Message, error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.StartExecuteSpan(ctx, webhookID.String(), tokenHint != "")
	}

	msg, err := s.execute(ctx, webhookID, tokenHint, p)

	if s.tracer != nil {
		s.tracer.EndSpan(span, err)
	}
	return msg, err
}

func (s *Service) execute(ctx context.Context, webhookID id.ID, tokenHint string, p Payload) (Message, error) {
	wh, err := s.cache.GetOrFetch(ctx, webhookID, s.fetcher)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordExecute("fetch_error", 0)
		}
		return Message{}, err
	}

	token := tokenHint
	if token == "" {
		token = wh.Token
	}
	if token == "" {
		if s.metrics != nil {
			s.metrics.RecordExecute("missing_token", 0)
		}
		return Message{}, fmt.Errorf("%w: %s", ErrMissingToken, webhookID)
	}

	if err := s.limiter.Wait(ctx, webhookID, s.config.RateLimit); err != nil {
		return Message{}, err
	}

	start := time.Now()
	msg, err := s.sender.SendWebhook(ctx, webhookID, token, p)
	latency := time.Since(start)

	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordExecute("send_error", latency.Seconds())
		}
		return Message{}, &SendError{WebhookID: webhookID, Err: err}
	}

	if s.metrics != nil {
		s.metrics.RecordExecute("success", latency.Seconds())
	}
	s.logger.DebugContext(ctx, "webhook executed",
		"webhook_id", webhookID,
		"latency_ms", latency.Milliseconds(),
	)

	return msg, nil
}
