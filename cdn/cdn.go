// Package cdn builds platform CDN URLs for the avatar overrides used
// when executing webhooks with a member's or user's identity.
package cdn

import (
	"fmt"

	"github.com/xraph/hookcache/id"
)

const baseURL = "https://cdn.discordapp.com"

// UserAvatarURL returns the CDN endpoint for a user's avatar.
func UserAvatarURL(userID id.ID, hash string) string {
	return fmt.Sprintf("%s/avatars/%s/%s.png", baseURL, userID, hash)
}

// MemberAvatarURL returns the CDN endpoint for a member's guild-specific
// avatar. Use only for guild avatars; building a member URL from a user
// avatar hash yields a dead link.
func MemberAvatarURL(guildID, userID id.ID, hash string) string {
	return fmt.Sprintf("%s/guilds/%s/users/%s/avatars/%s.png", baseURL, guildID, userID, hash)
}

// WebhookAvatarURL returns the CDN endpoint for a webhook's own avatar,
// as cached on the webhook record.
func WebhookAvatarURL(webhookID id.ID, hash string) string {
	return fmt.Sprintf("%s/avatars/%s/%s.png", baseURL, webhookID, hash)
}

// AvatarURL picks the member avatar when a guild avatar hash and guild
// are available, falling back to the user avatar. Returns "" when the
// user has no avatar at all.
func AvatarURL(guildID, userID id.ID, memberHash, userHash string) string {
	if memberHash != "" && !guildID.IsZero() {
		return MemberAvatarURL(guildID, userID, memberHash)
	}
	if userHash != "" {
		return UserAvatarURL(userID, userHash)
	}
	return ""
}
