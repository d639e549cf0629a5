package ports

import (
	"context"

	"github.com/socialnet/friends-api/internal/core/domain"
)

// SearchUsersInput carries the parameters of the user search endpoint.
type SearchUsersInput struct {
	Keyword  string
	Page     int // 1-based
	PageSize int // capped at 100 by the service
}

// SearchUsersResult is one page of matches plus the unpaginated total. A zero
// Total is reported by the transport layer as a not-found outcome rather than
// an empty page.
type SearchUsersResult struct {
	Items    []*domain.User
	Total    int64
	Page     int
	PageSize int
}

// UserService defines directory use cases.
type UserService interface {
	Search(ctx context.Context, input SearchUsersInput) (*SearchUsersResult, error)
	Get(ctx context.Context, id string) (*domain.User, error)
}
