package hookcache

import (
	"errors"
	"fmt"

	"github.com/xraph/hookcache/id"
)

// Sentinel errors returned by hookcache operations.
var (
	// ErrNoFetcher is returned when a Service is created without a fetcher.
	ErrNoFetcher = errors.New("hookcache: fetcher is required")

	// ErrNoSender is returned when a Service is created without a sender.
	ErrNoSender = errors.New("hookcache: sender is required")

	// ErrMissingToken is returned by Execute when neither the token hint
	// nor the cached record carries an execution token. This is a caller
	// configuration error, not a transient condition.
	ErrMissingToken = errors.New("hookcache: webhook has no execution token")
)

// SendError wraps a failure from the Sender. hookcache performs no
// retries; rate limit and network failures are the caller's to handle.
type SendError struct {
	WebhookID id.ID
	Err       error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("hookcache: execute webhook %s: %v", e.WebhookID, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}
