package hookcache

import (
	"log/slog"

	"github.com/xraph/hookcache/observability"
)

// Option configures a Service instance.
type Option func(*Service) error

// WithFetcher sets the fetch capability used to fill cache misses.
func WithFetcher(f Fetcher) Option {
	return func(s *Service) error {
		s.fetcher = f
		return nil
	}
}

// WithSender sets the send capability used to execute webhooks.
func WithSender(snd Sender) Option {
	return func(s *Service) error {
		s.sender = snd
		return nil
	}
}

// WithClient sets an API client providing both capabilities at once,
// e.g. a *client.Client.
func WithClient(c API) Option {
	return func(s *Service) error {
		s.fetcher = c
		s.sender = c
		return nil
	}
}

// WithLogger sets the structured logger for the Service instance.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		s.logger = logger
		return nil
	}
}

// WithMetrics sets the metric instruments recorded by the cache and the
// execution path.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) error {
		s.metrics = m
		return nil
	}
}

// WithTracer enables OpenTelemetry spans around fills and executions.
func WithTracer(t *observability.Tracer) Option {
	return func(s *Service) error {
		s.tracer = t
		return nil
	}
}

// WithRateLimit sets the per-webhook executions-per-second cap.
func WithRateLimit(n int) Option {
	return func(s *Service) error {
		s.config.RateLimit = n
		return nil
	}
}
