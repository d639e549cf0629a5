package domain

import "testing"

func TestRequestStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to RequestStatus
		want     bool
	}{
		{StatusPending, StatusAccepted, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusPending, false},
		{StatusAccepted, StatusRejected, false},
		{StatusAccepted, StatusPending, false},
		{StatusRejected, StatusAccepted, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Fatalf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestFriendRequest_OtherParty(t *testing.T) {
	r := &FriendRequest{SenderID: "user-1", ReceiverID: "user-2"}

	if got := r.OtherParty("user-1"); got != "user-2" {
		t.Fatalf("sender's counterpart: got %s", got)
	}
	if got := r.OtherParty("user-2"); got != "user-1" {
		t.Fatalf("receiver's counterpart: got %s", got)
	}
}
