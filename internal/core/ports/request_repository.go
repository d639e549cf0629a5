package ports

import (
	"context"
	"time"

	"github.com/socialnet/friends-api/internal/core/domain"
)

// RequestRepository is the friend-request ledger. It is a dumb store of rows
// plus query support; business preconditions live in the friend service.
type RequestRepository interface {
	// Create inserts a new row. The backing store carries a unique index on
	// the ordered (sender, receiver) pair, so a concurrent duplicate send
	// loses the race and surfaces domain.ErrDuplicateRequest.
	Create(ctx context.Context, req *domain.FriendRequest) (*domain.FriendRequest, error)
	GetByID(ctx context.Context, id string) (*domain.FriendRequest, error)
	// ExistsBetween reports whether any row with this exact sender and
	// receiver exists, regardless of status. A rejected pair therefore
	// permanently blocks re-sends from the same side.
	ExistsBetween(ctx context.Context, senderID, receiverID string) (bool, error)
	// CountSince counts rows created by sender with timestamp >= since,
	// across all statuses.
	CountSince(ctx context.Context, senderID string, since time.Time) (int64, error)
	// UpdateStatus overwrites the status unconditionally. It does not check
	// that the row is currently pending.
	UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) error
	ListByReceiverAndStatus(ctx context.Context, receiverID string, status domain.RequestStatus) ([]*domain.FriendRequest, error)
	// ListInvolving returns rows where the user is sender or receiver and
	// the status matches.
	ListInvolving(ctx context.Context, userID string, status domain.RequestStatus) ([]*domain.FriendRequest, error)
}

// NotificationRepository persists async fan-out records.
type NotificationRepository interface {
	Insert(ctx context.Context, n *domain.Notification) error
}
