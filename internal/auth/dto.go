package auth

import (
	"time"

	"github.com/angelmondragon/talesbyhand-backend/internal/users"
)

// LoginRequest captures the credentials sent to the login endpoint, as JSON
// or as a form post.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required"`
	Next     string `json:"next,omitempty"`
}

// LoginResponse contains the tokens and user produced by a successful login.
type LoginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	ExpiresAt    time.Time      `json:"expires_at"`
	User         *users.UserDTO `json:"user"`
}
