package ports

import (
	"context"

	"github.com/socialnet/friends-api/internal/core/domain"
)

// TokenPair carries the access/refresh token pair issued on login.
type TokenPair struct {
	Access  string
	Refresh string
}

type AuthService interface {
	Register(ctx context.Context, email, name, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	// Refresh exchanges a valid refresh token for a new access token.
	Refresh(ctx context.Context, refreshToken string) (string, error)
}
