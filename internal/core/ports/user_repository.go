package ports

import (
	"context"

	"github.com/socialnet/friends-api/internal/core/domain"
)

// UserRepository is the user directory: the persistent store of accounts keyed
// by unique email.
type UserRepository interface {
	// Create persists a new user. A write that collides with an existing
	// email returns domain.ErrEmailTaken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Search returns one page of users matching keyword plus the total
	// unpaginated match count. A user matches when the keyword
	// case-insensitively equals or is contained in the email, or is
	// contained in a name component. An empty keyword matches everyone.
	// Results are ordered by email ascending.
	Search(ctx context.Context, keyword string, page, pageSize int) ([]*domain.User, int64, error)
}
