package domain

import (
	"time"

	"github.com/google/uuid"
)

// Follow is a directed edge in the social graph. At most one row per
// (follower, following) pair; self-edges are rejected before insert.
type Follow struct {
	ID          uuid.UUID `json:"id"`
	FollowerID  uuid.UUID `json:"follower_id"`
	FollowingID uuid.UUID `json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
	// Joined fields: the user on the far side of the edge.
	OtherDisplayName string  `json:"other_display_name,omitempty"`
	OtherUsername    *string `json:"other_username,omitempty"`
	OtherAvatarURL   *string `json:"other_avatar_url,omitempty"`
}
