package webhook

import "github.com/xraph/hookcache/id"

// Event is a platform gateway event the cache consumes to stay current.
//
// The platform delivers events for one webhook in arrival order; hookcache
// assumes that ordering and applies events as received. Ordering across
// different webhooks is not required.
type Event interface {
	isEvent()
}

// Created signals that a webhook was created, or that a full record was
// obtained out of band and should be absorbed.
type Created struct {
	Webhook Webhook
}

// Updated signals a partial edit to an existing webhook.
type Updated struct {
	ID    id.ID
	Patch Patch
}

// Deleted signals that a webhook was deleted.
type Deleted struct {
	ID id.ID
}

// ChannelDeleted signals that a channel was deleted; every webhook
// posting to it is gone with it.
type ChannelDeleted struct {
	ChannelID id.ID
}

// GuildDeleted signals that a guild was deleted or became inaccessible;
// every webhook it owns is gone with it.
type GuildDeleted struct {
	GuildID id.ID
}

func (Created) isEvent()        {}
func (Updated) isEvent()        {}
func (Deleted) isEvent()        {}
func (ChannelDeleted) isEvent() {}
func (GuildDeleted) isEvent()   {}
