package webhook

import "github.com/xraph/hookcache/id"

// Field is a tri-state patch value: unspecified, set to a value, or
// explicitly cleared. Platform edit events omit fields they don't touch,
// so a single nullable value cannot distinguish "leave alone" from
// "remove"; Field makes the three states explicit.
type Field[T any] struct {
	value   T
	set     bool
	cleared bool
}

// Set returns a Field carrying a new value.
func Set[T any](v T) Field[T] {
	return Field[T]{value: v, set: true}
}

// Clear returns a Field that explicitly removes the cached value.
func Clear[T any]() Field[T] {
	return Field[T]{cleared: true}
}

// Value returns the carried value and whether one was set.
func (f Field[T]) Value() (T, bool) {
	return f.value, f.set
}

// IsSet reports whether the field carries a new value.
func (f Field[T]) IsSet() bool {
	return f.set
}

// IsCleared reports whether the field explicitly removes the cached value.
func (f Field[T]) IsCleared() bool {
	return f.cleared
}

// apply folds the field into the current cached value.
func (f Field[T]) apply(current T) T {
	switch {
	case f.set:
		return f.value
	case f.cleared:
		var zero T
		return zero
	default:
		return current
	}
}

// Patch is a partial update to a cached webhook, as delivered by a
// platform "webhook updated" event. Unspecified fields leave the cached
// value untouched.
type Patch struct {
	// ChannelID moves the webhook to another channel.
	ChannelID Field[id.ID]

	// GuildID re-parents the webhook. Cleared for channel-only webhooks.
	GuildID Field[id.ID]

	// Name renames the webhook.
	Name Field[string]

	// Avatar replaces or removes the avatar hash.
	Avatar Field[string]

	// Token rotates or revokes the execution token.
	Token Field[string]

	// ApplicationOwned flips the application-owned flag.
	ApplicationOwned Field[bool]
}

// Apply returns a copy of wh with the patch folded in. The webhook's ID
// is immutable and never touched.
func (p Patch) Apply(wh Webhook) Webhook {
	wh.ChannelID = p.ChannelID.apply(wh.ChannelID)
	wh.GuildID = p.GuildID.apply(wh.GuildID)
	wh.Name = p.Name.apply(wh.Name)
	wh.Avatar = p.Avatar.apply(wh.Avatar)
	wh.Token = p.Token.apply(wh.Token)
	wh.ApplicationOwned = p.ApplicationOwned.apply(wh.ApplicationOwned)

	return wh
}
