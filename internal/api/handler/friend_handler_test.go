package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/socialnet/friends-api/internal/core/domain"
)

// stubFriendService records calls and returns canned results.
type stubFriendService struct {
	sendErr    error
	respondErr error
	friends    []*domain.User
	pending    []*domain.FriendRequest

	sentFrom, sentTo         string
	respondedBy, respondedID string
	respondAction            string
}

func (s *stubFriendService) SendRequest(_ context.Context, senderID, receiverID string) (*domain.FriendRequest, error) {
	s.sentFrom, s.sentTo = senderID, receiverID
	if s.sendErr != nil {
		return nil, s.sendErr
	}
	return &domain.FriendRequest{
		ID:         "req-1",
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     domain.StatusPending,
		Timestamp:  time.Now().UTC(),
	}, nil
}

func (s *stubFriendService) Respond(_ context.Context, actingUserID, requestID, action string) (domain.RequestStatus, error) {
	s.respondedBy, s.respondedID, s.respondAction = actingUserID, requestID, action
	if s.respondErr != nil {
		return "", s.respondErr
	}
	if action == "accept" {
		return domain.StatusAccepted, nil
	}
	return domain.StatusRejected, nil
}

func (s *stubFriendService) ListFriends(_ context.Context, _ string) ([]*domain.User, error) {
	return s.friends, nil
}

func (s *stubFriendService) ListPending(_ context.Context, _ string) ([]*domain.FriendRequest, error) {
	return s.pending, nil
}

// doFriend performs a request against h with an authenticated context, routed
// through the path params the router would set.
func doFriend(t *testing.T, fn echo.HandlerFunc, path string, params map[string]string, userID string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set("user_id", userID)
	}
	if len(params) > 0 {
		names := make([]string, 0, len(params))
		values := make([]string, 0, len(params))
		for k, v := range params {
			names = append(names, k)
			values = append(values, v)
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	return rec, fn(c)
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body messageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid message body %q: %v", rec.Body.String(), err)
	}
	return body.Message
}

func TestFriendHandler_Send_Success(t *testing.T) {
	svc := &stubFriendService{}
	h := NewFriendHandler(svc)

	rec, err := doFriend(t, h.Send, "/friend-request/send/user-2/", map[string]string{"to_user_id": "user-2"}, "user-1")
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got := decodeMessage(t, rec); got != "Friend request sent" {
		t.Fatalf("unexpected message %q", got)
	}
	if svc.sentFrom != "user-1" || svc.sentTo != "user-2" {
		t.Fatalf("service called with %s -> %s", svc.sentFrom, svc.sentTo)
	}
}

func TestFriendHandler_Send_Unauthenticated(t *testing.T) {
	h := NewFriendHandler(&stubFriendService{})

	_, err := doFriend(t, h.Send, "/friend-request/send/user-2/", map[string]string{"to_user_id": "user-2"}, "")
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

// Service errors propagate untouched so the central handler can map them.
func TestFriendHandler_Send_PropagatesServiceError(t *testing.T) {
	svc := &stubFriendService{sendErr: domain.ErrRateLimited}
	h := NewFriendHandler(svc)

	_, err := doFriend(t, h.Send, "/friend-request/send/user-2/", map[string]string{"to_user_id": "user-2"}, "user-1")
	if err != domain.ErrRateLimited {
		t.Fatalf("expected ErrRateLimited to propagate, got %v", err)
	}
}

func TestFriendHandler_Respond_MessagePerAction(t *testing.T) {
	cases := []struct {
		action string
		want   string
	}{
		{"accept", "Friend request accepted"},
		{"reject", "Friend request rejected"},
	}
	for _, tc := range cases {
		svc := &stubFriendService{}
		h := NewFriendHandler(svc)

		rec, err := doFriend(t, h.Respond, "/friend-request/respond/req-1/"+tc.action+"/",
			map[string]string{"request_id": "req-1", "action": tc.action}, "user-2")
		if err != nil {
			t.Fatalf("Respond(%s) returned error: %v", tc.action, err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got := decodeMessage(t, rec); got != tc.want {
			t.Fatalf("action %s: got message %q, want %q", tc.action, got, tc.want)
		}
		if svc.respondedID != "req-1" || svc.respondAction != tc.action {
			t.Fatalf("service called with id=%s action=%s", svc.respondedID, svc.respondAction)
		}
	}
}

func TestFriendHandler_Friends_EmptyBody(t *testing.T) {
	h := NewFriendHandler(&stubFriendService{})

	rec, err := doFriend(t, h.Friends, "/friends/", nil, "user-1")
	if err != nil {
		t.Fatalf("Friends returned error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got := decodeMessage(t, rec); got != "You have no friends" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestFriendHandler_Friends_List(t *testing.T) {
	svc := &stubFriendService{friends: []*domain.User{
		{ID: "user-2", Email: "b@example.com", Name: "Bea"},
		{ID: "user-3", Email: "c@example.com", Name: "Cal"},
	}}
	h := NewFriendHandler(svc)

	rec, err := doFriend(t, h.Friends, "/friends/", nil, "user-1")
	if err != nil {
		t.Fatalf("Friends returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body []userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if len(body) != 2 || body[0].ID != "user-2" || body[1].Email != "c@example.com" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestFriendHandler_Pending_EmptyBody(t *testing.T) {
	h := NewFriendHandler(&stubFriendService{})

	rec, err := doFriend(t, h.Pending, "/friend-requests/pending/", nil, "user-1")
	if err != nil {
		t.Fatalf("Pending returned error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got := decodeMessage(t, rec); got != "You have no pending friend requests" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestFriendHandler_Pending_List(t *testing.T) {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := &stubFriendService{pending: []*domain.FriendRequest{
		{ID: "req-1", SenderID: "user-2", ReceiverID: "user-1", Status: domain.StatusPending, Timestamp: ts},
	}}
	h := NewFriendHandler(svc)

	rec, err := doFriend(t, h.Pending, "/friend-requests/pending/", nil, "user-1")
	if err != nil {
		t.Fatalf("Pending returned error: %v", err)
	}
	var body []friendRequestResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if len(body) != 1 {
		t.Fatalf("expected 1 request, got %d", len(body))
	}
	got := body[0]
	if got.ID != "req-1" || got.Sender != "user-2" || got.Receiver != "user-1" || got.Status != "pending" {
		t.Fatalf("unexpected row: %+v", got)
	}
	if !got.Timestamp.Equal(ts) {
		t.Fatalf("timestamp mangled: %v", got.Timestamp)
	}
}
