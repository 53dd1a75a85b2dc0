// Package cache implements the concurrent in-memory webhook store.
//
// The store maps webhook snowflakes to cached records, fills misses
// through a caller-supplied Fetcher with at most one fetch in flight per
// webhook, and stays consistent by absorbing platform gateway events.
// Entries live until an explicit deletion event or removal call; there is
// no capacity- or time-based eviction, and nothing is persisted across
// process restarts.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/xraph/hookcache/id"
	"github.com/xraph/hookcache/observability"
	"github.com/xraph/hookcache/webhook"
)

// shardCount is the number of lock shards. Power of two so the shard
// index is the top bits of the mixed key.
const shardCount = 64

// Fetcher retrieves current webhook metadata from the remote platform.
type Fetcher interface {
	FetchWebhook(ctx context.Context, webhookID id.ID) (webhook.Webhook, error)
}

// FetcherFunc adapts a plain function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, webhookID id.ID) (webhook.Webhook, error)

// FetchWebhook calls f.
func (f FetcherFunc) FetchWebhook(ctx context.Context, webhookID id.ID) (webhook.Webhook, error) {
	return f(ctx, webhookID)
}

// FetchError wraps a failure from the Fetcher. The store is left
// unchanged when a fetch fails.
type FetchError struct {
	WebhookID id.ID
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("hookcache: fetch webhook %s: %v", e.WebhookID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Cache is a concurrent webhook store. The map is split across lock
// shards so reads and writes for unrelated webhooks never contend, and
// fill fetches are coalesced per webhook so concurrent callers racing on
// the same miss issue a single network request.
type Cache struct {
	shards  [shardCount]shard
	flight  singleflight.Group
	metrics *observability.Metrics
	tracer  *observability.Tracer
}

type shard struct {
	mu       sync.RWMutex
	webhooks map[id.ID]webhook.Webhook
}

// Option configures a Cache.
type Option func(*Cache)

// WithMetrics sets the metric instruments recorded by the cache.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

// WithTracer sets the tracer used for fill-fetch spans.
func WithTracer(t *observability.Tracer) Option {
	return func(c *Cache) { c.tracer = t }
}

// New creates an empty webhook cache.
func New(opts ...Option) *Cache {
	c := &Cache{}
	for i := range c.shards {
		c.shards[i].webhooks = make(map[id.ID]webhook.Webhook)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// shardFor picks the lock shard for a webhook. Snowflakes are mixed with
// a fibonacci constant first; sequential IDs would otherwise cluster.
func (c *Cache) shardFor(webhookID id.ID) *shard {
	h := uint64(webhookID) * 0x9e3779b97f4a7c15
	return &c.shards[h>>(64-6)]
}

// Get returns the cached webhook, if present. It never performs network
// I/O and never blocks on another webhook's in-flight fetch.
func (c *Cache) Get(webhookID id.ID) (webhook.Webhook, bool) {
	wh, ok := c.lookup(webhookID)
	if c.metrics != nil {
		c.metrics.RecordLookup(ok)
	}
	return wh, ok
}

// lookup is Get without metrics, for internal re-checks.
func (c *Cache) lookup(webhookID id.ID) (webhook.Webhook, bool) {
	s := c.shardFor(webhookID)
	s.mu.RLock()
	wh, ok := s.webhooks[webhookID]
	s.mu.RUnlock()
	return wh, ok
}

// GetOrFetch returns the cached webhook, fetching and storing it on a
// miss. Concurrent callers for the same webhook share a single fetch and
// its outcome; callers for different webhooks proceed independently.
//
// On fetch failure the store is left unchanged and the error is returned
// as a *FetchError. The failed flight is not remembered, so a later call
// retries. A caller whose ctx ends while waiting gets its ctx error; the
// fetch itself runs on the initiating caller's ctx and completes for the
// remaining waiters.
func (c *Cache) GetOrFetch(ctx context.Context, webhookID id.ID, fetcher Fetcher) (webhook.Webhook, error) {
	if wh, ok := c.Get(webhookID); ok {
		return wh, nil
	}

	ch := c.flight.DoChan(webhookID.String(), func() (any, error) {
		// A concurrent Insert or a finished flight may have filled the
		// entry between the miss and here.
		if wh, ok := c.lookup(webhookID); ok {
			return wh, nil
		}

		fetchCtx := ctx
		var span trace.Span
		if c.tracer != nil {
			fetchCtx, span = c.tracer.StartFetchSpan(ctx, webhookID.String())
		}

		start := time.Now()
		wh, err := fetcher.FetchWebhook(fetchCtx, webhookID)
		latency := time.Since(start).Seconds()

		if c.tracer != nil {
			c.tracer.EndSpan(span, err)
		}

		if err != nil {
			if c.metrics != nil {
				c.metrics.RecordFetch("error", latency)
			}
			return webhook.Webhook{}, &FetchError{WebhookID: webhookID, Err: err}
		}

		if c.metrics != nil {
			c.metrics.RecordFetch("success", latency)
		}
		c.Insert(wh)
		return wh, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return webhook.Webhook{}, res.Err
		}
		return res.Val.(webhook.Webhook), nil
	case <-ctx.Done():
		return webhook.Webhook{}, ctx.Err()
	}
}

// Insert unconditionally creates or overwrites the entry for the
// webhook's ID.
func (c *Cache) Insert(wh webhook.Webhook) {
	s := c.shardFor(wh.ID)
	s.mu.Lock()
	_, existed := s.webhooks[wh.ID]
	s.webhooks[wh.ID] = wh
	s.mu.Unlock()

	if !existed && c.metrics != nil {
		c.metrics.RecordSize(1)
	}
}

// Update applies a partial patch to an existing entry and reports whether
// one existed. An update for an unknown webhook is an accepted no-op:
// the platform may deliver edit events before the cache has warmed up.
func (c *Cache) Update(webhookID id.ID, patch webhook.Patch) bool {
	s := c.shardFor(webhookID)
	s.mu.Lock()
	defer s.mu.Unlock()

	wh, ok := s.webhooks[webhookID]
	if !ok {
		return false
	}
	s.webhooks[webhookID] = patch.Apply(wh)
	return true
}

// Remove deletes and returns the entry for the webhook, if present.
// Removing an absent webhook is a safe no-op.
func (c *Cache) Remove(webhookID id.ID) (webhook.Webhook, bool) {
	s := c.shardFor(webhookID)
	s.mu.Lock()
	wh, ok := s.webhooks[webhookID]
	if ok {
		delete(s.webhooks, webhookID)
	}
	s.mu.Unlock()

	if ok && c.metrics != nil {
		c.metrics.RecordSize(-1)
	}
	return wh, ok
}

// RemoveChannel deletes every webhook posting to the given channel and
// returns how many were removed. Used when a channel is deleted.
func (c *Cache) RemoveChannel(channelID id.ID) int {
	return c.removeWhere(func(wh webhook.Webhook) bool {
		return wh.ChannelID == channelID
	})
}

// RemoveGuild deletes every webhook owned by the given guild and returns
// how many were removed. Used when a guild is deleted or lost.
func (c *Cache) RemoveGuild(guildID id.ID) int {
	return c.removeWhere(func(wh webhook.Webhook) bool {
		return wh.GuildID == guildID
	})
}

func (c *Cache) removeWhere(match func(webhook.Webhook) bool) int {
	removed := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		for whID, wh := range s.webhooks {
			if match(wh) {
				delete(s.webhooks, whID)
				removed++
			}
		}
		s.mu.Unlock()
	}

	if removed > 0 && c.metrics != nil {
		c.metrics.RecordSize(-removed)
	}
	return removed
}

// Clear removes all entries. Used for full resyncs.
func (c *Cache) Clear() {
	removed := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		removed += len(s.webhooks)
		s.webhooks = make(map[id.ID]webhook.Webhook)
		s.mu.Unlock()
	}

	if removed > 0 && c.metrics != nil {
		c.metrics.RecordSize(-removed)
	}
}

// Len returns the number of cached webhooks.
func (c *Cache) Len() int {
	n := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.RLock()
		n += len(s.webhooks)
		s.mu.RUnlock()
	}
	return n
}

// Apply folds a platform gateway event into the cache. Events for one
// webhook must be applied in the order the platform delivered them;
// hookcache assumes gateway ordering rather than reordering itself.
func (c *Cache) Apply(ev webhook.Event) {
	switch e := ev.(type) {
	case webhook.Created:
		c.Insert(e.Webhook)
	case webhook.Updated:
		c.Update(e.ID, e.Patch)
	case webhook.Deleted:
		c.Remove(e.ID)
	case webhook.ChannelDeleted:
		c.RemoveChannel(e.ChannelID)
	case webhook.GuildDeleted:
		c.RemoveGuild(e.GuildID)
	}
}
