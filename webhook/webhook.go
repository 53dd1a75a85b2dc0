// Package webhook defines the cached webhook record, the partial-update
// patch applied by platform edit events, and the event types the cache
// consumes to stay consistent.
package webhook

import "github.com/xraph/hookcache/id"

// Webhook is the cached representation of a platform webhook.
//
// Only ID is immutable; every other field may change via edit events.
// A Webhook mirrors remote state verbatim, it carries no local bookkeeping.
type Webhook struct {
	// ID is the webhook's snowflake, immutable once assigned.
	ID id.ID `json:"id"`

	// ChannelID is the channel this webhook posts to.
	ChannelID id.ID `json:"channel_id"`

	// GuildID is the owning guild. Zero for channel-only webhooks.
	GuildID id.ID `json:"guild_id,omitempty"`

	// Name is the webhook's display name.
	Name string `json:"name"`

	// Avatar is the webhook's avatar hash, empty if it has none.
	Avatar string `json:"avatar,omitempty"`

	// Token is the execution token. Present only for incoming webhooks
	// the authenticated application is allowed to see. Never serialized.
	Token string `json:"-"`

	// ApplicationOwned marks webhooks created by the current application.
	ApplicationOwned bool `json:"application_owned"`
}

// HasToken reports whether the webhook carries an execution token.
func (w Webhook) HasToken() bool {
	return w.Token != ""
}
