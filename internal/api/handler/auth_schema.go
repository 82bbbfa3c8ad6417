package handler

import (
	"time"

	"github.com/amref/learning-api/internal/core/domain"
	"github.com/amref/learning-api/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Request / Response types ---

type registerRequest struct {
	Email     string `json:"email"      validate:"required,email"`
	Username  string `json:"username"   validate:"required,min=3,max=50,excludes=@"`
	Password  string `json:"password"   validate:"required,maxbytes=72"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name"  validate:"max=100"`
}

// loginRequest accepts JSON or an OAuth2 password form; username may hold an e-mail.
type loginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type passwordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type passwordResetConfirmRequest struct {
	Token       string `json:"token"        validate:"required"`
	NewPassword string `json:"new_password" validate:"required,maxbytes=72"`
}

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        *domain.User `json:"user,omitempty"`
}

func toTokenResponse(res *ports.AuthResult, withUser bool) tokenResponse {
	out := tokenResponse{
		AccessToken: res.AccessToken,
		TokenType:   "bearer",
		ExpiresAt:   res.ExpiresAt,
	}
	if withUser {
		out.User = res.User
	}
	return out
}
