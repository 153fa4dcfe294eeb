// Package transport defines request and response DTOs for the auth API.
package transport

import "time"

// SignUpRequest is the payload for account registration.
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"fullName" validate:"required,min=1,max=200"`
}

// LoginRequest is the payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// VerifyTokenRequest is the payload for checking a stored access token.
type VerifyTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// VerifyTokenResponse reports whether the token is valid. Invalid tokens
// carry an error message instead of an HTTP error status.
type VerifyTokenResponse struct {
	Valid  bool   `json:"valid"`
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email,omitempty"`
	Error  string `json:"error,omitempty"`
}

// AuthResponse is returned on successful signup or login.
type AuthResponse struct {
	AccessToken string      `json:"accessToken"`
	User        UserProfile `json:"user"`
}

// UserProfile describes the authenticated account.
type UserProfile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	CreatedAt time.Time `json:"createdAt"`
}
