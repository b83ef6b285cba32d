package domain

import (
	"time"

	"github.com/google/uuid"
)

// Identity is the tuple the external identity provider attaches to an
// authenticated request. The core never issues or verifies credentials;
// it only maps this tuple onto an internal user row.
type Identity struct {
	TokenIdentifier string
	DisplayName     string
	Email           *string
	AvatarURL       *string
}

type User struct {
	ID              uuid.UUID `json:"id"`
	DisplayName     string    `json:"display_name"`
	Email           *string   `json:"email,omitempty"`
	AvatarURL       *string   `json:"avatar_url,omitempty"`
	Username        *string   `json:"username,omitempty"`
	TokenIdentifier string    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	LastActiveAt    time.Time `json:"last_active_at"`
}

// Profile is the public projection of a user, safe to return to anyone.
type Profile struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	Username    *string   `json:"username,omitempty"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Username:    u.Username,
		AvatarURL:   u.AvatarURL,
		CreatedAt:   u.CreatedAt,
	}
}
