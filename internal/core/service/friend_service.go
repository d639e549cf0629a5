package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/socialnet/friends-api/internal/core/domain"
	"github.com/socialnet/friends-api/internal/core/ports"
)

const (
	sendLimit  = 3
	sendWindow = 60 * time.Second
)

// SendLimiter abstracts the atomic rate-limit store (Redis). Reserve records a
// send attempt and reports whether the sender is still under the limit; the
// returned member identifies the reservation so a send that subsequently fails
// can be rolled back with Forget.
type SendLimiter interface {
	Reserve(ctx context.Context, senderID string) (allowed bool, member string, err error)
	Forget(ctx context.Context, senderID, member string) error
}

// Notifier enqueues async fan-out for friend events. Implementations must not
// block the caller.
type Notifier interface {
	Notify(n domain.Notification)
}

// FriendService sequences directory and ledger operations for the
// friend-request lifecycle.
type FriendService struct {
	users    ports.UserRepository
	requests ports.RequestRepository
	limiter  SendLimiter // optional; nil falls back to ledger counting
	notifier Notifier    // optional
	log      zerolog.Logger
}

func NewFriendService(
	users ports.UserRepository,
	requests ports.RequestRepository,
	limiter SendLimiter,
	notifier Notifier,
	log zerolog.Logger,
) *FriendService {
	return &FriendService{
		users:    users,
		requests: requests,
		limiter:  limiter,
		notifier: notifier,
		log:      log,
	}
}

// SendRequest creates a pending friend request from sender to receiver.
func (s *FriendService) SendRequest(ctx context.Context, senderID, receiverID string) (*domain.FriendRequest, error) {
	receiver, err := s.users.FindByID(ctx, receiverID)
	if err != nil {
		return nil, err
	}

	if senderID == receiver.ID {
		return nil, domain.ErrSelfRequest
	}

	exists, err := s.requests.ExistsBetween(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateRequest
	}

	allowed, member, err := s.reserveSend(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, domain.ErrRateLimited
	}

	req := &domain.FriendRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     domain.StatusPending,
		Timestamp:  time.Now().UTC(),
	}

	created, err := s.requests.Create(ctx, req)
	if err != nil {
		// A concurrent duplicate lost the insert race; the reserved
		// rate-limit slot must not count against the sender.
		if errors.Is(err, domain.ErrDuplicateRequest) && s.limiter != nil && member != "" {
			if forgetErr := s.limiter.Forget(ctx, senderID, member); forgetErr != nil {
				s.log.Warn().Err(forgetErr).Str("sender", senderID).Msg("failed to release rate-limit slot")
			}
		}
		return nil, err
	}

	s.notify(domain.Notification{
		UserID:    receiverID,
		Kind:      domain.NotifRequestReceived,
		ActorID:   senderID,
		RequestID: created.ID,
		CreatedAt: created.Timestamp,
	})

	s.log.Info().
		Str("sender", senderID).
		Str("receiver", receiverID).
		Str("request_id", created.ID).
		Msg("friend request sent")

	return created, nil
}

// reserveSend enforces the 3-per-60s send limit. The Redis reservation is
// atomic with respect to concurrent sends; when the limiter is absent or
// failing, the ledger count is used instead so the operation never hard-fails
// on a limiter outage.
func (s *FriendService) reserveSend(ctx context.Context, senderID string) (bool, string, error) {
	if s.limiter != nil {
		allowed, member, err := s.limiter.Reserve(ctx, senderID)
		if err == nil {
			return allowed, member, nil
		}
		s.log.Warn().Err(err).Str("sender", senderID).Msg("send limiter unavailable, counting ledger rows")
	}

	count, err := s.requests.CountSince(ctx, senderID, time.Now().UTC().Add(-sendWindow))
	if err != nil {
		return false, "", err
	}
	return count < sendLimit, "", nil
}

// Respond applies an accept/reject action to a request. The acting user is not
// required to be the receiver and a request already in a terminal state is
// overwritten; both match the observed behavior of the reference system.
func (s *FriendService) Respond(ctx context.Context, actingUserID, requestID, action string) (domain.RequestStatus, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return "", err
	}

	var status domain.RequestStatus
	switch action {
	case ports.ActionAccept:
		status = domain.StatusAccepted
	case ports.ActionReject:
		status = domain.StatusRejected
	default:
		return "", domain.ErrInvalidAction
	}

	if err := s.requests.UpdateStatus(ctx, req.ID, status); err != nil {
		return "", err
	}

	kind := domain.NotifRequestAccepted
	if status == domain.StatusRejected {
		kind = domain.NotifRequestRejected
	}
	s.notify(domain.Notification{
		UserID:    req.SenderID,
		Kind:      kind,
		ActorID:   actingUserID,
		RequestID: req.ID,
		CreatedAt: time.Now().UTC(),
	})

	s.log.Info().
		Str("request_id", req.ID).
		Str("acting_user", actingUserID).
		Str("action", action).
		Msg("friend request answered")

	return status, nil
}

// ListFriends projects the accepted rows involving userID onto the set of
// other-party users. Each row contributes one counterpart; the seen map guards
// against double rows should the ledger's duplicate guard ever have failed.
func (s *FriendService) ListFriends(ctx context.Context, userID string) ([]*domain.User, error) {
	rows, err := s.requests.ListInvolving(ctx, userID, domain.StatusAccepted)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(rows))
	friends := make([]*domain.User, 0, len(rows))
	for _, row := range rows {
		otherID := row.OtherParty(userID)
		if _, dup := seen[otherID]; dup {
			continue
		}
		seen[otherID] = struct{}{}

		friend, err := s.users.FindByID(ctx, otherID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				s.log.Warn().Str("user", otherID).Str("request_id", row.ID).Msg("accepted request references missing user")
				continue
			}
			return nil, err
		}
		friends = append(friends, friend)
	}

	return friends, nil
}

// ListPending returns the pending requests addressed to userID.
func (s *FriendService) ListPending(ctx context.Context, userID string) ([]*domain.FriendRequest, error) {
	return s.requests.ListByReceiverAndStatus(ctx, userID, domain.StatusPending)
}

func (s *FriendService) notify(n domain.Notification) {
	if s.notifier != nil {
		s.notifier.Notify(n)
	}
}
