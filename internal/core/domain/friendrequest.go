package domain

import (
	"errors"
	"time"
)

// RequestStatus represents the lifecycle state of a friend request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
	StatusRejected RequestStatus = "rejected"
)

// validTransitions defines the allowed state machine transitions. Accepted and
// rejected are terminal.
var validTransitions = map[RequestStatus][]RequestStatus{
	StatusPending: {StatusAccepted, StatusRejected},
}

var ErrRequestNotFound = errors.New("friend request not found")
var ErrSelfRequest = errors.New("cannot send friend request to yourself")
var ErrDuplicateRequest = errors.New("friend request already sent")
var ErrRateLimited = errors.New("too many friend requests")
var ErrInvalidAction = errors.New("invalid response action")

// CanTransitionTo reports whether a transition from the current status to next
// is valid.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// FriendRequest is the core aggregate of the social graph. A row is created in
// pending state by a send and its status is overwritten exactly once by a
// respond. Timestamp is immutable after creation.
type FriendRequest struct {
	ID         string        `json:"id"`
	SenderID   string        `json:"sender"`
	ReceiverID string        `json:"receiver"`
	Status     RequestStatus `json:"status"`
	Timestamp  time.Time     `json:"timestamp"`
}

// OtherParty returns the participant that is not userID. A request always
// involves exactly two distinct users, so for any involved userID this yields
// the friend-edge counterpart.
func (r *FriendRequest) OtherParty(userID string) string {
	if r.SenderID == userID {
		return r.ReceiverID
	}
	return r.SenderID
}

// Notification is the async fan-out record written when a request is sent or
// answered. It never participates in the request/response cycle.
type Notification struct {
	UserID    string    `json:"user_id"`
	Kind      string    `json:"kind"`
	ActorID   string    `json:"actor_id"`
	RequestID string    `json:"request_id"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	NotifRequestReceived = "friend_request_received"
	NotifRequestAccepted = "friend_request_accepted"
	NotifRequestRejected = "friend_request_rejected"
)
