// internal/auth/models.go
// Data structures for the identity resolver.

package auth

import (
	"time"
)

// User is the account row behind a bearer credential.
// Profile-facing fields (bio, avatar, counters) live in the profiles package;
// auth only owns identity and credentials.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Handle       string    `json:"handle" db:"handle"`
	Email        *string   `json:"email,omitempty" db:"email"`
	Phone        *string   `json:"phone,omitempty" db:"phone"`
	PasswordHash *string   `json:"-" db:"password_hash"` // nil for OAuth accounts
	Provider     string    `json:"provider" db:"provider"`
	ProviderID   *string   `json:"-" db:"provider_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Identity is the resolved result of a bearer credential
type Identity struct {
	UserID int64  `json:"user_id"`
	Handle string `json:"handle"`
}

// SignupRequest creates a new account
type SignupRequest struct {
	Handle      string  `json:"handle" validate:"required,min=3,max=30,alphanum"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,e164"`
	Password    string  `json:"password" validate:"required,min=8,max=100"`
	DisplayName string  `json:"display_name" validate:"required,max=50"`
}

// LoginRequest authenticates by handle or email plus password
type LoginRequest struct {
	HandleOrEmail string `json:"handle_or_email" validate:"required"`
	Password      string `json:"password" validate:"required"`
}

// GoogleAuthRequest signs in with a Google ID token
type GoogleAuthRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// RefreshRequest exchanges a refresh token for a new pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse carries the issued token pair
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}
