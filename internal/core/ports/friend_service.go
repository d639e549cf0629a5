package ports

import (
	"context"

	"github.com/socialnet/friends-api/internal/core/domain"
)

// Respond actions accepted on the wire.
const (
	ActionAccept = "accept"
	ActionReject = "reject"
)

// FriendService orchestrates the friend-request lifecycle: it sequences
// directory and ledger operations and owns every business precondition.
type FriendService interface {
	// SendRequest creates a pending request from sender to receiver after
	// the receiver resolves, the pair is distinct, no prior row exists for
	// the ordered pair, and the sender is under the send rate limit.
	SendRequest(ctx context.Context, senderID, receiverID string) (*domain.FriendRequest, error)
	// Respond applies an accept/reject action to a request and returns the
	// resulting status.
	Respond(ctx context.Context, actingUserID, requestID, action string) (domain.RequestStatus, error)
	// ListFriends returns the deduplicated set of users on the other side
	// of every accepted request involving userID. An empty slice means the
	// user has no friends; it is not an error.
	ListFriends(ctx context.Context, userID string) ([]*domain.User, error)
	// ListPending returns the pending requests addressed to userID.
	ListPending(ctx context.Context, userID string) ([]*domain.FriendRequest, error)
}
