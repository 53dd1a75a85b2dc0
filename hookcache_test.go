package hookcache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/xraph/hookcache"
	"github.com/xraph/hookcache/cache"
	"github.com/xraph/hookcache/id"
	"github.com/xraph/hookcache/webhook"
)

func ctx() context.Context { return context.Background() }

// fakeAPI implements hookcache.API with scripted responses.
type fakeAPI struct {
	mu      sync.Mutex
	fetches atomic.Int64
	sends   atomic.Int64

	webhooks map[id.ID]webhook.Webhook
	fetchErr error
	sendErr  error

	lastToken   string
	lastPayload hookcache.Payload
}

func newFakeAPI(whs ...webhook.Webhook) *fakeAPI {
	api := &fakeAPI{webhooks: make(map[id.ID]webhook.Webhook)}
	for _, wh := range whs {
		api.webhooks[wh.ID] = wh
	}
	return api
}

func (a *fakeAPI) FetchWebhook(_ context.Context, webhookID id.ID) (webhook.Webhook, error) {
	a.fetches.Add(1)
	if a.fetchErr != nil {
		return webhook.Webhook{}, a.fetchErr
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	wh, ok := a.webhooks[webhookID]
	if !ok {
		return webhook.Webhook{}, errors.New("unknown webhook")
	}
	return wh, nil
}

func (a *fakeAPI) SendWebhook(_ context.Context, webhookID id.ID, token string, p hookcache.Payload) (hookcache.Message, error) {
	a.sends.Add(1)
	a.mu.Lock()
	a.lastToken = token
	a.lastPayload = p
	a.mu.Unlock()
	if a.sendErr != nil {
		return hookcache.Message{}, a.sendErr
	}
	return hookcache.Message{ID: id.New(999), ChannelID: webhookID, Content: p.Content}, nil
}

func setup(t *testing.T, api *fakeAPI, opts ...hookcache.Option) *hookcache.Service {
	t.Helper()
	svc, err := hookcache.New(append([]hookcache.Option{hookcache.WithClient(api)}, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	return svc
}

func TestNewRequiresCapabilities(t *testing.T) {
	if _, err := hookcache.New(); !errors.Is(err, hookcache.ErrNoFetcher) {
		t.Fatalf("expected ErrNoFetcher, got %v", err)
	}

	api := newFakeAPI()
	if _, err := hookcache.New(hookcache.WithFetcher(api)); !errors.Is(err, hookcache.ErrNoSender) {
		t.Fatalf("expected ErrNoSender, got %v", err)
	}

	if _, err := hookcache.New(hookcache.WithClient(api)); err != nil {
		t.Fatal(err)
	}
}

func TestExecuteUsesFetchedToken(t *testing.T) {
	// Uncached webhook 5 resolves via fetch to a record with token "T";
	// the sender must observe "T".
	api := newFakeAPI(webhook.Webhook{ID: id.New(5), ChannelID: id.New(50), Token: "T"})
	svc := setup(t, api)

	msg, err := svc.Execute(ctx(), id.New(5), "", hookcache.Payload{Content: "hi"})
	if err != nil {
		t.Fatal(err)
	}
	if api.lastToken != "T" {
		t.Fatalf("sender observed token %q, want %q", api.lastToken, "T")
	}
	if msg.Content != "hi" {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if api.fetches.Load() != 1 {
		t.Fatalf("expected 1 fetch, got %d", api.fetches.Load())
	}

	// The record is now cached: a second execute skips the fetch.
	if _, err := svc.Execute(ctx(), id.New(5), "", hookcache.Payload{Content: "again"}); err != nil {
		t.Fatal(err)
	}
	if api.fetches.Load() != 1 {
		t.Fatalf("expected no second fetch, got %d", api.fetches.Load())
	}
}

func TestExecuteTokenHintOverridesCache(t *testing.T) {
	api := newFakeAPI(webhook.Webhook{ID: id.New(5), Token: "T"})
	svc := setup(t, api)

	if _, err := svc.Execute(ctx(), id.New(5), "X", hookcache.Payload{}); err != nil {
		t.Fatal(err)
	}
	if api.lastToken != "X" {
		t.Fatalf("token hint should win, sender observed %q", api.lastToken)
	}
}

func TestExecuteMissingToken(t *testing.T) {
	// Resolved record has no token and no hint is supplied.
	api := newFakeAPI(webhook.Webhook{ID: id.New(5), Name: "tokenless"})
	svc := setup(t, api)

	_, err := svc.Execute(ctx(), id.New(5), "", hookcache.Payload{})
	if !errors.Is(err, hookcache.ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
	if api.sends.Load() != 0 {
		t.Fatal("sender must never be invoked without a token")
	}
}

func TestExecuteFetchFailure(t *testing.T) {
	api := newFakeAPI()
	api.fetchErr = errors.New("gateway timeout")
	svc := setup(t, api)

	_, err := svc.Execute(ctx(), id.New(5), "", hookcache.Payload{})

	var fe *cache.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *cache.FetchError, got %v", err)
	}
	if api.sends.Load() != 0 {
		t.Fatal("sender must not run after a failed resolve")
	}
}

func TestExecuteSendFailure(t *testing.T) {
	api := newFakeAPI(webhook.Webhook{ID: id.New(5), Token: "T"})
	api.sendErr = errors.New("429 rate limited")
	svc := setup(t, api)

	_, err := svc.Execute(ctx(), id.New(5), "", hookcache.Payload{})

	var se *hookcache.SendError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SendError, got %v", err)
	}
	if !errors.Is(err, api.sendErr) {
		t.Fatal("SendError should wrap the sender's error")
	}
	if se.WebhookID != id.New(5) {
		t.Fatalf("unexpected webhook in error: %v", se.WebhookID)
	}
	// One attempt only; no retries.
	if api.sends.Load() != 1 {
		t.Fatalf("expected exactly 1 send attempt, got %d", api.sends.Load())
	}
}

func TestExecuteConcurrentSingleFetch(t *testing.T) {
	api := newFakeAPI(webhook.Webhook{ID: id.New(5), Token: "T"})
	svc := setup(t, api)

	const callers = 16
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Execute(ctx(), id.New(5), "", hookcache.Payload{Content: "x"}); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if got := api.fetches.Load(); got != 1 {
		t.Fatalf("expected 1 coalesced fetch, got %d", got)
	}
	if got := api.sends.Load(); got != callers {
		t.Fatalf("every caller should send, got %d", got)
	}
}

func TestServiceApplyAndAccessors(t *testing.T) {
	api := newFakeAPI()
	svc := setup(t, api)

	svc.Apply(webhook.Created{Webhook: webhook.Webhook{ID: id.New(1), Name: "Alpha"}})
	if wh, ok := svc.Get(id.New(1)); !ok || wh.Name != "Alpha" {
		t.Fatalf("get after created event: %+v, %v", wh, ok)
	}

	svc.Apply(webhook.Updated{ID: id.New(1), Patch: webhook.Patch{Name: webhook.Set("Beta")}})
	if wh, _ := svc.Get(id.New(1)); wh.Name != "Beta" {
		t.Fatalf("name after updated event: %q", wh.Name)
	}

	svc.Apply(webhook.Deleted{ID: id.New(1)})
	if _, ok := svc.Get(id.New(1)); ok {
		t.Fatal("deleted webhook should be gone")
	}

	svc.Insert(webhook.Webhook{ID: id.New(2)})
	if svc.Cache().Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", svc.Cache().Len())
	}
	svc.Clear()
	if svc.Cache().Len() != 0 {
		t.Fatal("clear should empty the cache")
	}
}

func TestExecuteRateLimited(t *testing.T) {
	api := newFakeAPI(webhook.Webhook{ID: id.New(5), Token: "T"})
	svc := setup(t, api, hookcache.WithRateLimit(1))

	// First send consumes the bucket.
	if _, err := svc.Execute(ctx(), id.New(5), "", hookcache.Payload{}); err != nil {
		t.Fatal(err)
	}

	// Second send must wait; with an expired ctx it fails instead.
	expired, cancel := context.WithCancel(ctx())
	cancel()
	_, err := svc.Execute(expired, id.New(5), "", hookcache.Payload{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if api.sends.Load() != 1 {
		t.Fatalf("rate-limited send must not reach the sender, got %d sends", api.sends.Load())
	}
}
